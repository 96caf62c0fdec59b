package canvasrenderer

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/renderer"
)

func sampleItem(key, text string) layout.TextItem {
	return layout.TextItem{
		Key:        key,
		Text:       text,
		Font:       "system-ui, sans-serif",
		Size:       28,
		Color:      "#000000",
		Align:      layout.AlignCenter,
		X:          200,
		Y:          90,
		WrapWidth:  400,
		LineHeight: 1.25,
	}
}

func TestMeasureDeterministic(t *testing.T) {
	r := NewRenderer(".")
	font := layout.FontSpec{Family: "system-ui, sans-serif", Size: 28}
	a := r.Measure("Jane Doe", font)
	b := r.Measure("Jane Doe", font)
	if a <= 0 || a != b {
		t.Fatalf("测量结果应为正且稳定: %g vs %g", a, b)
	}
	bold := r.Measure("Jane Doe", layout.FontSpec{Family: font.Family, Size: 28, Bold: true})
	if bold <= 0 {
		t.Fatalf("粗体测量失败")
	}
	if r.Measure("", font) != 0 {
		t.Fatalf("空文本宽度应为 0")
	}
	if got := r.Measure("Jane Doe", layout.FontSpec{Family: font.Family, Size: 56}); got <= a {
		t.Fatalf("字号加倍后宽度应变大: %g <= %g", got, a)
	}
}

// 候选行宽度与限制恰好相等时应放在同一行。
func TestWrapEqualWidthFits(t *testing.T) {
	r := NewRenderer(".")
	font := layout.FontSpec{Family: "serif", Size: 20, Bold: true}
	limit := r.Measure("12 Elm", font)
	got := layout.Wrap(r, "12 Elm Street", limit, font, 1.3)
	if len(got.Lines) != 2 || got.Lines[0] != "12 Elm" || got.Lines[1] != "Street" {
		t.Fatalf("折行结果错误: %q", got.Lines)
	}
	for i, line := range got.Lines {
		if w := r.Measure(line, font); w-limit > 1e-9 {
			t.Fatalf("第 %d 行超宽: %g > %g", i, w, limit)
		}
	}
}

// TestWrapNoWordSplit 验证超宽单词独占一行而不被拆分。
func TestWrapNoWordSplit(t *testing.T) {
	r := NewRenderer(".")
	font := layout.FontSpec{Family: "sans-serif", Size: 20}
	got := layout.Wrap(r, "a Supercalifragilistic b", 30, font, 1.25)
	want := []string{"a", "Supercalifragilistic", "b"}
	if len(got.Lines) != len(want) {
		t.Fatalf("行数错误: %q", got.Lines)
	}
	for i := range want {
		if got.Lines[i] != want[i] {
			t.Fatalf("第 %d 行期望 %q，实际 %q", i, want[i], got.Lines[i])
		}
	}
}

func TestRenderSurfaceSize(t *testing.T) {
	r := NewRenderer(".")
	scene := renderer.Scene{Items: []layout.TextItem{sampleItem("p1_name", "Jane Doe")}}
	img, err := r.Render(scene, renderer.Surface{Width: 400, Height: 300, Scale: 1.5})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if img.Bounds().Dx() != 600 || img.Bounds().Dy() != 450 {
		t.Fatalf("位图尺寸错误: %v", img.Bounds())
	}
	if !hasInk(img) {
		t.Fatalf("渲染结果应包含文本像素")
	}
	if _, err := r.Render(scene, renderer.Surface{}); err == nil {
		t.Fatalf("零尺寸画布应返回错误")
	}
}

func TestRenderWithoutBackground(t *testing.T) {
	r := NewRenderer(".")
	scene := renderer.Scene{Items: []layout.TextItem{sampleItem("a", "")}}
	img, err := r.Render(scene, renderer.Surface{Width: 100, Height: 100, Scale: 1})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if hasInk(img) {
		t.Fatalf("空文本且无背景时不应有像素")
	}
}

func TestRenderBackgroundCover(t *testing.T) {
	r := NewRenderer(".")
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range bg.Pix {
		bg.Pix[i] = 255
	}
	img, err := r.Render(renderer.Scene{Background: bg}, renderer.Surface{Width: 40, Height: 20, Scale: 1})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	for _, p := range []image.Point{{0, 0}, {39, 19}, {20, 10}} {
		if c := img.RGBAAt(p.X, p.Y); c.A != 255 || c.R < 250 || c.G < 250 || c.B < 250 {
			t.Fatalf("背景应铺满画布，(%d,%d)=%v", p.X, p.Y, c)
		}
	}
}

func TestExportIgnoresSelection(t *testing.T) {
	r := NewRenderer(".")
	item := sampleItem("p1_name", "Jane Doe")
	item.Shadow = true
	surface := renderer.Surface{Width: 400, Height: 200}
	selected := renderer.Scene{
		Items:    []layout.TextItem{item},
		Selected: map[string]bool{"p1_name": true},
	}

	var buf bytes.Buffer
	if err := r.Export(&buf, selected, surface, 2); err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	exported, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("解码导出结果失败: %v", err)
	}
	if exported.Bounds().Dx() != 800 || exported.Bounds().Dy() != 400 {
		t.Fatalf("导出尺寸应为 2 倍: %v", exported.Bounds())
	}

	plain, err := r.Render(renderer.Scene{Items: []layout.TextItem{item}}, renderer.Surface{Width: 400, Height: 200, Scale: 2})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	withOutline, err := r.Render(selected, renderer.Surface{Width: 400, Height: 200, Scale: 2})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !samePixels(exported, roundTrip(t, plain)) {
		t.Fatalf("导出结果应与无选中框的渲染一致")
	}
	if samePixels(exported, roundTrip(t, withOutline)) {
		t.Fatalf("选中框应只出现在预览中")
	}
}

// 单行文本中的换行按空格绘制，像素与 ItemBox 一致，不会出现第二行。
func TestSingleLineNewlineMatchesBox(t *testing.T) {
	r := NewRenderer(".")
	it := sampleItem("names", "JOHN SMITH\nJANE DOE")
	it.X, it.Y = 300, 100
	img, err := r.Render(renderer.Scene{Items: []layout.TextItem{it}}, renderer.Surface{Width: 600, Height: 200, Scale: 1})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	ink := inkBounds(img, 64)
	if ink.Empty() {
		t.Fatalf("渲染结果应包含文本像素")
	}
	box := layout.ItemBox(it, r)
	if want := r.Measure("JOHN SMITH JANE DOE", it.FontSpec()); box.Width != want {
		t.Fatalf("包围盒宽度应按空格连接后的文本测量: %g vs %g", box.Width, want)
	}
	const tol = 4.0
	if float64(ink.Min.X) < box.Left-tol || float64(ink.Max.X) > box.Right()+tol ||
		float64(ink.Min.Y) < box.Top-tol || float64(ink.Max.Y) > box.Bottom()+tol {
		t.Fatalf("像素范围 %v 超出包围盒 %+v", ink, box)
	}
	if float64(ink.Dx()) < 0.9*box.Width {
		t.Fatalf("像素宽度 %d 与包围盒宽度 %g 不符", ink.Dx(), box.Width)
	}
}

// 旋转并带阴影的项不影响远处另一项的像素。
func TestRotatedShadowDoesNotLeak(t *testing.T) {
	r := NewRenderer(".")
	a := sampleItem("a", "Jane Doe")
	a.X, a.Y = 150, 110
	a.Rotation = 30
	a.Shadow = true
	b := sampleItem("b", "John Smith")
	b.X, b.Y = 450, 110
	surface := renderer.Surface{Width: 600, Height: 200, Scale: 1}

	alone, err := r.Render(renderer.Scene{Items: []layout.TextItem{b}}, surface)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	both, err := r.Render(renderer.Scene{Items: []layout.TextItem{a, b}}, surface)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	o := layout.OutlineBox(layout.ItemBox(b, r))
	region := image.Rect(int(o.Left), int(o.Top), int(o.Right())+1, int(o.Bottom())+1)
	if region.Empty() {
		t.Fatalf("b 的包围盒为空")
	}
	x, y := roundTrip(t, alone), roundTrip(t, both)
	for py := region.Min.Y; py < region.Max.Y; py++ {
		for px := region.Min.X; px < region.Max.X; px++ {
			if x.At(px, py) != y.At(px, py) {
				t.Fatalf("(%d,%d) 像素受 a 影响: %v vs %v", px, py, x.At(px, py), y.At(px, py))
			}
		}
	}
	if !hasInk(both) {
		t.Fatalf("渲染结果应包含文本像素")
	}
}

// inkBounds 返回 alpha 不低于 threshold 的像素范围。
func inkBounds(img *image.RGBA, threshold uint8) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A >= threshold {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// 模板中的 built-in:<name> 引用 Options.Fonts 提供的字体数据。
func TestBuiltinFontResources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入字体失败: %v", err)
	}
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{
		"inline":  {Bytes: goregular.TTF},
		"onfile":  {Path: path},
		"missing": {Path: filepath.Join(t.TempDir(), "nope.ttf")},
	}})
	for _, name := range []string{"inline", "onfile"} {
		data, err := r.loadFontBytes("built-in:" + name)
		if err != nil || !bytes.Equal(data, goregular.TTF) {
			t.Fatalf("built-in:%s 读取失败: %v", name, err)
		}
	}
	if _, err := r.loadFontBytes("built-in:missing"); err == nil {
		t.Fatalf("读取失败的资源不应注册")
	}

	r.RegisterFonts(map[string]layout.FontResource{
		"Custom": {Name: "Custom", Family: "Custom", Src: "builtin:onfile"},
	})
	font := layout.FontSpec{Family: "Custom", Size: 28}
	got := r.Measure("Jane Doe", font)
	want := r.Measure("Jane Doe", layout.FontSpec{Family: "go", Size: 28})
	if got <= 0 || got != want {
		t.Fatalf("自定义字体测量错误: %g vs %g", got, want)
	}
	it := sampleItem("a", "Jane Doe")
	it.Font = "Custom"
	img, err := r.Render(renderer.Scene{Items: []layout.TextItem{it}}, renderer.Surface{Width: 400, Height: 200, Scale: 1})
	if err != nil || !hasInk(img) {
		t.Fatalf("使用自定义字体渲染失败: %v", err)
	}
}

func hasInk(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}

// roundTrip 经过一次 PNG 编解码，使比较不受预乘 alpha 换算误差影响。
func roundTrip(t *testing.T, img *image.RGBA) image.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	out, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	return out
}

func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				return false
			}
		}
	}
	return true
}
