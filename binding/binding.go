package binding

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	indexToDot  = strings.NewReplacer("[", ".", "]", "")
)

// Lookup 按路径取值，第二个返回值表示路径是否存在。
type Lookup func(path string) (string, bool)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// data 可以是任意可编码为 JSON 的值、JSON 字节/字符串或 gjson.Result；若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return Expand(text, lookupFor(data), nil)
}

// Expand 使用 lookup 替换占位符。missing 非空时，未找到的占位符替换为 *missing。
func Expand(text string, lookup Lookup, missing *string) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := lookup(path); ok {
			return val
		}
		if missing != nil {
			return *missing
		}
		return match
	})
}

// Placeholders 返回文本中出现的全部路径，按出现顺序，不去重。
func Placeholders(text string) []string {
	var out []string
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		if p := strings.TrimSpace(m[1]); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// lookupFor 将 data 统一为 JSON 文档并使用 gjson 查询；无法编码时所有路径视为不存在。
func lookupFor(data any) Lookup {
	switch d := data.(type) {
	case []byte:
		return jsonLookup(string(d))
	case string:
		return jsonLookup(d)
	case gjson.Result:
		return jsonLookup(d.Raw)
	case map[string]string:
		return func(path string) (string, bool) {
			v, ok := d[path]
			return v, ok
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return func(string) (string, bool) { return "", false }
	}
	return jsonLookup(string(raw))
}

// jsonLookup 使用 gjson 路径语法（a.b.0）；方括号下标会先转换为点号形式。
func jsonLookup(doc string) Lookup {
	return func(path string) (string, bool) {
		r := gjson.Get(doc, indexToDot.Replace(path))
		if !r.Exists() {
			return "", false
		}
		return r.String(), true
	}
}
