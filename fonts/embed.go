package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体，名称形如 "<族>/<字重>"。
var builtin = map[string][]byte{
	"go/regular":           goregular.TTF,
	"go/bold":              gobold.TTF,
	"go-mono/regular":      gomono.TTF,
	"go-mono/bold":         gomonobold.TTF,
	"latin-modern/regular": lmroman10regular.TTF,
	"latin-modern/bold":    lmroman10bold.TTF,
	"lm-sans/regular":      lmsans10regular.TTF,
	"lm-sans/bold":         lmsans10bold.TTF,
}

// 通用字体族到内置字体族的映射，供 CSS 风格的字体列表解析使用。
var generic = map[string]string{
	"system-ui":  "go",
	"sans-serif": "go",
	"sans":       "go",
	"serif":      "latin-modern",
	"monospace":  "go-mono",
	"mono":       "go-mono",
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go/regular" 或 "go/regular"。
// 只给出族名时返回该族的 regular。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "embed:"))
	if !strings.Contains(key, "/") {
		key += "/regular"
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Generic 将 CSS 通用族名（sans-serif、serif、monospace 等）映射到内置族。
func Generic(family string) (string, bool) {
	f, ok := generic[strings.ToLower(strings.TrimSpace(family))]
	return f, ok
}

// Names 列出全部内置字体名称。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for k := range builtin {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
