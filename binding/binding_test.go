package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"p1": map[string]any{"name": "Jane"},
		"witnesses": []any{"Ann", "Bob"},
	}
	cases := []struct {
		in   string
		want string
	}{
		{"${p1.name}", "Jane"},
		{"${ witnesses[1] }", "Bob"},
		{"${missing}-x", "${missing}-x"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) 期望 %q，实际 %q", c.in, c.want, got)
		}
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("data 为空时应保留占位符，实际 %q", got)
	}
}

func TestInterpolateJSON(t *testing.T) {
	doc := []byte(`{"p1_name":"Jane","list":[{"v":1},{"v":2}]}`)
	if got := Interpolate("${p1_name}/${list[1].v}", doc); got != "Jane/2" {
		t.Fatalf("JSON 插值错误: %q", got)
	}
}

func TestExpandMissing(t *testing.T) {
	empty := ""
	lookup := func(p string) (string, bool) {
		if p == "a" {
			return "A", true
		}
		return "", false
	}
	if got := Expand("${a}-${b}", lookup, &empty); got != "A-" {
		t.Fatalf("缺失占位符应替换为空: %q", got)
	}
	if got := Placeholders("${a}-${ b }-${}"); len(got) != 2 || got[1] != "b" {
		t.Fatalf("占位符列表错误: %v", got)
	}
}

func TestInterpolateStruct(t *testing.T) {
	type entry struct {
		Name string `json:"p1_name"`
		Date string `json:"marriage_date"`
	}
	got := Interpolate("${p1_name} (${marriage_date}) ${id}", entry{Name: "Jane", Date: "2024-05-01"})
	if got != "Jane (2024-05-01) ${id}" {
		t.Fatalf("结构体插值错误: %q", got)
	}
	if got := Interpolate("${x}", make(chan int)); got != "${x}" {
		t.Fatalf("无法编码的数据应保留占位符: %q", got)
	}
}
