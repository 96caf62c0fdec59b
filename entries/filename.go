package entries

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/inkcard/binding"
	"github.com/ByLCY/inkcard/editor"
)

// FallbackFilename 在模式展开后为空时使用。
const FallbackFilename = "two-person-card"

// Filename 按模式（例如 "${p1_name}-${p2_name}"）生成不含扩展名的导出文件名。
// 变音符号被去除，非字母数字字符合并为单个 "-"，结果为空时返回 FallbackFilename。
func Filename(e editor.Entry, pattern string) string {
	if pattern == "" {
		pattern = editor.DefaultFilenamePattern
	}
	fields := e.Fields()
	empty := ""
	raw := binding.Expand(pattern, func(path string) (string, bool) {
		v, ok := fields[path]
		return v, ok
	}, &empty)
	if name := sanitize(raw); name != "" {
		return name
	}
	return FallbackFilename
}

func sanitize(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
