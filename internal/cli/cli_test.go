package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/inkcard/editor"
	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/session"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func TestEntriesLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")

	out, _, err := runCLI(t, []string{"entries", "add", "--entries", path, "--set", "p1_name=Jane", "--set", "p2_name=John"})
	if err != nil {
		t.Fatalf("entries add: %v", err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		t.Fatalf("entries add 未输出 id")
	}

	if _, _, err := runCLI(t, []string{"entries", "set", "--entries", path, id, "marriage_date=2024-05-01"}); err != nil {
		t.Fatalf("entries set: %v", err)
	}

	out, _, err = runCLI(t, []string{"entries", "show", "--entries", path, id})
	if err != nil {
		t.Fatalf("entries show: %v", err)
	}
	var got editor.Entry
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("show 输出不是 JSON: %v\n%s", err, out)
	}
	if got.P1Name != "Jane" || got.P2Name != "John" || got.MarriageDate != "2024-05-01" {
		t.Fatalf("条目内容错误: %+v", got)
	}

	out, _, err = runCLI(t, []string{"entries", "list", "--entries", path})
	if err != nil {
		t.Fatalf("entries list: %v", err)
	}
	if !bytes.Contains(out, []byte("Jane")) || !bytes.Contains(out, []byte(id)) {
		t.Fatalf("列表缺少条目:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"entries", "rm", "--entries", path, id}); err != nil {
		t.Fatalf("entries rm: %v", err)
	}
	out, _, err = runCLI(t, []string{"entries", "list", "--json", "--entries", path})
	if err != nil {
		t.Fatalf("entries list: %v", err)
	}
	var list []editor.Entry
	if err := json.Unmarshal(out, &list); err != nil {
		t.Fatalf("list 输出不是 JSON: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("删除后仍有 %d 个条目", len(list))
	}
}

func TestEntriesRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	_, stderr, err := runCLI(t, []string{"entries", "add", "--entries", path, "--set", "nickname=x"})
	if err == nil {
		t.Fatalf("未知字段应返回错误")
	}
	if !strings.Contains(string(stderr), "nickname") {
		t.Fatalf("错误信息应包含字段名: %s", stderr)
	}
}

func TestHitDefaultTemplate(t *testing.T) {
	out, _, err := runCLI(t, []string{"hit", "--entries", filepath.Join(t.TempDir(), "e.json"), "--sample", "400", "570"})
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != editor.KeyAnd {
		t.Fatalf("期望命中 and，得到 %q", got)
	}

	if _, _, err := runCLI(t, []string{"hit", "5", "5"}); err == nil {
		t.Fatalf("空白处应返回未命中错误")
	}
}

func TestLayoutWritesBoxes(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "layout.json")
	if _, _, err := runCLI(t, []string{"layout", "--sample", "--out", dst}); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("读取调试输出失败: %v", err)
	}
	var items []layout.ItemDebug
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("调试输出不是 JSON: %v", err)
	}
	if len(items) != len(editor.EntryKeys)+1 {
		t.Fatalf("字段数量错误: %d", len(items))
	}
	for _, it := range items {
		if it.Item.Key == editor.KeyP1Address && it.Wrap == nil {
			t.Fatalf("地址字段缺少折行结果")
		}
		if it.Box.Empty() {
			t.Fatalf("示例文本下字段 %s 的包围盒为空", it.Item.Key)
		}
	}
}

func TestTemplateBindsFixedText(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "card.inkcard")
	src := `template Card v1 {
  meta {
    filename: "card-${p1_name}"
  }
  canvas width 400 height 300 {
    field p1_name x 50% y 40%
    field footer x 50% y 80% size 12 { "No. ${registration_number}" }
  }
}`
	if err := os.WriteFile(tplPath, []byte(src), 0o644); err != nil {
		t.Fatalf("写入模板失败: %v", err)
	}

	out, _, err := runCLI(t, []string{"layout", "--template", tplPath, "--data", `{"p1_name":"Ada","registration_number":"42"}`})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	var items []layout.ItemDebug
	if err := json.Unmarshal(out, &items); err != nil {
		t.Fatalf("输出不是 JSON: %v", err)
	}
	texts := map[string]string{}
	for _, it := range items {
		texts[it.Item.Key] = it.Item.Text
	}
	if texts["p1_name"] != "Ada" {
		t.Fatalf("条目文本未加载: %q", texts["p1_name"])
	}
	if texts["footer"] != "No. 42" {
		t.Fatalf("固定文本未绑定: %q", texts["footer"])
	}
}

func TestExportUsesFilenamePattern(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runCLI(t, []string{
		"export", "--entries", filepath.Join(dir, "e.json"),
		"--data", `{"p1_name":"Zoë Smith","p2_name":"Ann"}`,
		"--out-dir", dir, "--scale", "1",
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(string(out))
	if filepath.Base(path) != "zoe-smith-ann.png" {
		t.Fatalf("文件名错误: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("导出文件不是 PNG: %v", err)
	}
	if cfg.Width != int(editor.DefaultWidth) || cfg.Height != int(editor.DefaultHeight) {
		t.Fatalf("导出尺寸错误: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSessionRestoresPositions(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "card.session")

	if _, _, err := runCLI(t, []string{"session", "save", "--sample", snapPath}); err != nil {
		t.Fatalf("session save: %v", err)
	}
	snap, err := session.Load(snapPath)
	if err != nil {
		t.Fatalf("读取快照失败: %v", err)
	}
	for i := range snap.Items {
		if snap.Items[i].Key == editor.KeyAnd {
			snap.Items[i].X = 100
			snap.Items[i].Y = 100
		}
	}
	if err := session.Save(snapPath, snap); err != nil {
		t.Fatalf("写入快照失败: %v", err)
	}

	out, _, err := runCLI(t, []string{"hit", "--session", snapPath, "100", "90"})
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != editor.KeyAnd {
		t.Fatalf("快照位置未生效，命中 %q", got)
	}

	out, _, err = runCLI(t, []string{"session", "show", snapPath})
	if err != nil {
		t.Fatalf("session show: %v", err)
	}
	if !bytes.Contains(out, []byte(`"version": 1`)) {
		t.Fatalf("show 输出缺少版本号:\n%s", out)
	}
}

func TestUniqueName(t *testing.T) {
	cases := [][2][]string{
		{{"ann-bo.png", "ann-bo.png", "ann-bo-2.png"}, {"ann-bo.png", "ann-bo-2.png", "ann-bo-2-2.png"}},
		{{"ann-bo-2.png", "ann-bo.png", "ann-bo.png"}, {"ann-bo-2.png", "ann-bo.png", "ann-bo-3.png"}},
		{{"x.png", "x.png", "x.png"}, {"x.png", "x-2.png", "x-3.png"}},
	}
	for _, c := range cases {
		used := map[string]bool{}
		for i, name := range c[0] {
			if got := uniqueName(used, name); got != c[1][i] {
				t.Fatalf("%v 第 %d 个名称期望 %s，得到 %s", c[0], i, c[1][i], got)
			}
		}
	}
}

// 条目展开后的文件名与已有序号后缀重名时，导出结果也不能互相覆盖。
func TestExportAllDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	entriesPath := filepath.Join(dir, "entries.json")
	for _, p2 := range []string{"Bo", "Bo", "Bo 2"} {
		if _, _, err := runCLI(t, []string{"entries", "add", "--entries", entriesPath, "--set", "p1_name=Ann", "--set", "p2_name=" + p2}); err != nil {
			t.Fatalf("entries add: %v", err)
		}
	}
	out, _, err := runCLI(t, []string{"export", "--all", "--entries", entriesPath, "--out-dir", dir, "--scale", "1"})
	if err != nil {
		t.Fatalf("export --all: %v", err)
	}
	paths := strings.Fields(string(out))
	seen := map[string]bool{}
	for _, p := range paths {
		if seen[p] {
			t.Fatalf("导出路径重复: %s", p)
		}
		seen[p] = true
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("导出文件缺失: %v", err)
		}
	}
	if len(seen) != 3 {
		t.Fatalf("期望 3 个文件，得到 %v", paths)
	}
}

func TestFontFlag(t *testing.T) {
	if _, err := fontResources([]string{"broken"}); err == nil {
		t.Fatalf("缺少 = 的 --font 应报错")
	}
	if _, err := fontResources([]string{"x=" + filepath.Join(t.TempDir(), "none.ttf")}); err == nil {
		t.Fatalf("不存在的字体文件应报错")
	}

	dir := t.TempDir()
	fontPath := filepath.Join(dir, "script.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入字体失败: %v", err)
	}
	tplPath := filepath.Join(dir, "card.inkcard")
	src := `template Card v1 {
  resources {
    font Script { src: "built-in:script" }
  }
  canvas width 400 height 300 {
    field p1_name x 50% y 40% font Script
  }
}`
	if err := os.WriteFile(tplPath, []byte(src), 0o644); err != nil {
		t.Fatalf("写入模板失败: %v", err)
	}
	dst := filepath.Join(dir, "card.png")
	args := []string{"export", "--template", tplPath, "--data", `{"p1_name":"Ada"}`, "--out", dst, "--scale", "1"}
	_, stderr, err := runCLI(t, append(args, "--font", "script="+fontPath))
	if err != nil {
		t.Fatalf("export --font: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("导出文件缺失: %v", err)
	}
	if bytes.Contains(stderr, []byte("built-in:script")) {
		t.Fatalf("提供 --font 后不应回退:\n%s", stderr)
	}
	// 未提供 --font 时回退到内置字体并给出警告
	_, stderr, err = runCLI(t, args)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.Contains(stderr, []byte("built-in:script")) {
		t.Fatalf("缺少字体回退警告:\n%s", stderr)
	}
}
