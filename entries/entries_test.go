package entries

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/ByLCY/inkcard/editor"
)

func TestFileAddListUpdateRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "entries.json")
	f := Open(path)

	list, err := f.List()
	if err != nil || len(list) != 0 {
		t.Fatalf("不存在的文件应为空列表: %v %v", list, err)
	}

	a, err := f.Add(editor.Entry{P1Name: "Jane", P2Name: "John"})
	if err != nil {
		t.Fatalf("新增失败: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("应生成 id")
	}
	b, err := f.Add(editor.Entry{ID: "fixed", P1Name: "Ann"})
	if err != nil || b.ID != "fixed" {
		t.Fatalf("新增失败: %v %+v", err, b)
	}

	data, _ := os.ReadFile(path)
	if !gjson.ValidBytes(data) || len(gjson.ParseBytes(data).Array()) != 2 {
		t.Fatalf("文件内容错误: %s", data)
	}

	if err := f.Update("fixed", editor.Entry{P1Name: "Anna", MarriageDate: "2025-11-18"}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	got, err := f.Get("fixed")
	if err != nil || got.P1Name != "Anna" || got.ID != "fixed" || got.MarriageDate != "2025-11-18" {
		t.Fatalf("更新结果错误: %+v %v", got, err)
	}

	if err := f.Remove(a.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	list, _ = f.List()
	if len(list) != 1 || list[0].ID != "fixed" {
		t.Fatalf("删除后列表错误: %+v", list)
	}
	if err := f.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("删除不存在的条目应返回 ErrNotFound: %v", err)
	}
}

func TestFileCorrupt(t *testing.T) {
	for name, content := range map[string]string{
		"invalid":   "{not json",
		"not array": `{"p1_name":"x"}`,
	} {
		path := filepath.Join(t.TempDir(), "entries.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("%s: 写入失败: %v", name, err)
		}
		f := Open(path)
		list, err := f.List()
		if err != nil || len(list) != 0 {
			t.Fatalf("%s: 损坏文件应按空列表处理: %v %v", name, list, err)
		}
		if _, err := f.Add(editor.Entry{P1Name: "Jane"}); err != nil {
			t.Fatalf("%s: 新增失败: %v", name, err)
		}
		list, _ = f.List()
		if len(list) != 1 || list[0].P1Name != "Jane" {
			t.Fatalf("%s: 损坏文件应在写入时重建: %+v", name, list)
		}
	}
}

func TestFileSkipsNonObjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	os.WriteFile(path, []byte(`[1, {"id":"a","p1_name":"Jane"}, "x"]`), 0o644)
	list, err := Open(path).List()
	if err != nil || len(list) != 1 || list[0].ID != "a" {
		t.Fatalf("应跳过非对象元素: %+v %v", list, err)
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		entry   editor.Entry
		pattern string
		want    string
	}{
		{editor.Entry{P1Name: "José Núñez", P2Name: "Zoë"}, "", "jose-nunez-zoe"},
		{editor.Entry{P1Name: "A/B", P2Name: "  C  "}, "", "a-b-c"},
		{editor.Entry{}, "", FallbackFilename},
		{editor.Entry{RegistrationNumber: "01/2025"}, "cert-${registration_number}-${unknown}", "cert-01-2025"},
	}
	for _, c := range cases {
		got := Filename(c.entry, c.pattern)
		if got != c.want {
			t.Fatalf("Filename(%+v, %q) 期望 %q，实际 %q", c.entry, c.pattern, c.want, got)
		}
		if strings.ContainsAny(got, `/\ `) {
			t.Fatalf("文件名包含非法字符: %q", got)
		}
	}
}
