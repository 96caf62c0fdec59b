package fonts

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	for _, name := range []string{"embed:go/regular", "go/bold", "latin-modern", "LM-Sans/Bold"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("加载 %s 失败: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s 数据为空", name)
		}
	}
	_, err := Load("comic/regular")
	if err == nil {
		t.Fatalf("未知字体应返回错误")
	}
	if !strings.Contains(err.Error(), "lm-sans/bold") {
		t.Fatalf("错误信息应列出可用字体: %v", err)
	}
}

func TestGeneric(t *testing.T) {
	cases := map[string]string{"system-ui": "go", " Serif ": "latin-modern", "monospace": "go-mono"}
	for in, want := range cases {
		if got, ok := Generic(in); !ok || got != want {
			t.Fatalf("%q 映射期望 %s，实际 %s", in, want, got)
		}
	}
	if _, ok := Generic("Garamond"); ok {
		t.Fatalf("非通用族名不应映射")
	}
	if len(Names()) != 8 {
		t.Fatalf("内置字体数量错误: %v", Names())
	}
}
