package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/renderer"
)

var (
	shadowColor  = color.RGBA{A: 153} // rgba(0,0,0,0.6)
	outlineColor = color.RGBA{A: 89}  // rgba(0,0,0,0.35)
)

const (
	shadowOffsetY = 2.0
	shadowBlur    = 8.0
	outlineWidth  = 1.0
)

// Renderer draws scenes via github.com/tdewolff/canvas and measures text with
// the same font faces, so hit boxes and pixels agree.
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu    sync.Mutex
	sources   map[string]familySources
	fallbacks map[string]string
	resolved  map[string]string
	families  map[string]*canvas.FontFamily
	faces     map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options 配置渲染器。BaseDir 用于解析模板中的相对字体路径。
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // 模板中以 built-in:<name> 引用
}

// Resource 是一份字体数据，Bytes 优先，否则读取 Path。
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer 创建以 baseDir 为资源目录的渲染器。
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions 创建渲染器并载入 opts.Fonts；读取失败的资源记录警告后跳过。
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:   opts.BaseDir,
		fontBlobs: map[string][]byte{},
		sources:   map[string]familySources{},
		fallbacks: map[string]string{},
		resolved:  map[string]string{},
		families:  map[string]*canvas.FontFamily{},
		faces:     map[faceKey]*canvas.FontFace{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				layout.Logger().Warn("renderer: 读取字体资源失败", "name", name, "path", res.Path, "err", err)
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Measure 实现 layout.Measurer：单行文本在给定字体下的宽度（逻辑像素）。
func (r *Renderer) Measure(text string, font layout.FontSpec) float64 {
	if text == "" || font.Size <= 0 {
		return 0
	}
	face, err := r.face(font, color.RGBA{A: 255})
	if err != nil {
		layout.Logger().Debug("renderer: 测量时字体不可用", "font", font.Family, "err", err)
		return 0
	}
	return face.TextWidth(text)
}

// Render 将场景绘制到 surface 大小的新位图上。每次调用都从空白开始。
func (r *Renderer) Render(scene renderer.Scene, surface renderer.Surface) (*image.RGBA, error) {
	if surface.Width <= 0 || surface.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效：%gx%g", surface.Width, surface.Height)
	}
	scale := surface.Scale
	if scale <= 0 {
		scale = 1
	}
	pw, ph := surface.PixelSize()
	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))

	if bg := scene.Background; bg != nil {
		drawCover(dst, bg)
	}

	text := canvas.New(surface.Width, surface.Height)
	textCtx := canvas.NewContext(text)
	var shadows *canvas.Canvas
	var shadowCtx *canvas.Context

	for _, it := range scene.Items {
		if it.Shadow && it.Text != "" {
			if shadows == nil {
				shadows = canvas.New(surface.Width, surface.Height)
				shadowCtx = canvas.NewContext(shadows)
			}
			if err := r.drawItemText(shadowCtx, it, surface.Height, shadowColor, shadowOffsetY); err != nil {
				return nil, err
			}
		}
		if err := r.drawItemText(textCtx, it, surface.Height, layout.ResolveColor(it.Color).RGBA(), 0); err != nil {
			return nil, err
		}
		if scene.IsSelected(it.Key) {
			r.drawOutline(textCtx, it, surface.Height)
		}
	}

	resolution := canvas.DPMM(scale)
	if shadows != nil {
		layer := rasterizer.Draw(shadows, resolution, canvas.DefaultColorSpace)
		blurRGBA(layer, shadowBlur/2*scale)
		xdraw.Draw(dst, dst.Bounds(), layer, image.Point{}, xdraw.Over)
	}
	layer := rasterizer.Draw(text, resolution, canvas.DefaultColorSpace)
	xdraw.Draw(dst, dst.Bounds(), layer, image.Point{}, xdraw.Over)
	return dst, nil
}

// drawItemText 在锚点处平移并旋转后绘制文本；dy 为阴影的向下偏移（逻辑像素）。
// 画布使用 y 轴向上的坐标系，这里把布局的 y 向下坐标翻转到画布坐标。
func (r *Renderer) drawItemText(ctx *canvas.Context, it layout.TextItem, height float64, col color.RGBA, dy float64) error {
	if it.Text == "" || it.Size <= 0 {
		return nil
	}
	face, err := r.face(it.FontSpec(), col)
	if err != nil {
		return err
	}
	ctx.Push()
	defer ctx.Pop()
	ctx.ComposeView(anchorView(it, height))

	align := textAlign(it.Align)
	if it.Kind != layout.Wrapped {
		ctx.DrawText(0, -dy, canvas.NewTextLine(face, layout.SingleLineText(it.Text), align))
		return nil
	}
	wrapped := layout.WrapItem(r, it)
	for i, line := range wrapped.Lines {
		ctx.DrawText(0, -dy-float64(i)*wrapped.LineHeight, canvas.NewTextLine(face, line, align))
	}
	return nil
}

func (r *Renderer) drawOutline(ctx *canvas.Context, it layout.TextItem, height float64) {
	local := layout.LocalBox(it, r)
	if local.Empty() {
		return
	}
	o := layout.OutlineBox(local)
	ctx.Push()
	defer ctx.Pop()
	ctx.ComposeView(anchorView(it, height))
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(outlineColor)
	ctx.SetStrokeWidth(outlineWidth)
	// y 向下的 [Top, Bottom] 翻转为 y 向上的 [-Bottom, -Top]
	ctx.DrawPath(o.Left, -o.Bottom(), canvas.Rectangle(o.Width, o.Height))
}

// anchorView 平移到锚点并按顺时针角度旋转（与屏幕坐标一致）。
func anchorView(it layout.TextItem, height float64) canvas.Matrix {
	m := canvas.Identity.Translate(it.X, height-it.Y)
	if it.Rotation != 0 {
		m = m.Rotate(-it.Rotation)
	}
	return m
}

func textAlign(a layout.Align) canvas.TextAlign {
	switch a {
	case layout.AlignCenter:
		return canvas.Center
	case layout.AlignRight:
		return canvas.Right
	default:
		return canvas.Left
	}
}

// drawCover 等比缩放背景使其覆盖整个位图，居中裁切。
func drawCover(dst *image.RGBA, bg image.Image) {
	b := bg.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw <= 0 || ih <= 0 {
		return
	}
	dw, dh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	s := math.Max(dw/iw, dh/ih)
	w, h := iw*s, ih*s
	x0 := (dw - w) / 2
	y0 := (dh - h) / 2
	rect := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x0+w)), int(math.Ceil(y0+h)))
	xdraw.CatmullRom.Scale(dst, rect, bg, b, xdraw.Src, nil)
}
