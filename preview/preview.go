// Package preview 在 ebiten 窗口中显示可交互的画布：点击选中、shift 多选、拖动、
// Delete/Backspace 删除，Ctrl+C 复制导出图片，Ctrl+S 导出文件。
package preview

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/ByLCY/inkcard/editor"
	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/renderer"
)

// Renderer 是预览所需的绘制与导出能力。
type Renderer interface {
	renderer.Renderer
	Export(w io.Writer, scene renderer.Scene, surface renderer.Surface, scale float64) error
}

// Options 配置预览窗口。
type Options struct {
	Title       string
	Scale       float64 // 设备像素比，0 表示读取显示器缩放
	ExportScale float64
	Background  *renderer.Background
	// OnSave 在 Ctrl+S 时调用，为 nil 时忽略。
	OnSave func() error
}

// Game 实现 ebiten.Game。
type Game struct {
	state  *editor.State
	r      Renderer
	opts   Options
	frames editor.FrameQueue
	sched  *editor.Scheduler

	dirty     bool
	bgPending bool
	dpr       float64
	outsideW  int
	outsideH  int
	frame     *ebiten.Image

	clipboardOK bool
}

// New 创建预览。背景加载完成、窗口尺寸或像素比变化时请求一次合并重绘；
// 拖动与编辑直接标记重绘。
func New(state *editor.State, r Renderer, opts Options) *Game {
	g := &Game{
		state:     state,
		r:         r,
		opts:      opts,
		dirty:     true,
		bgPending: opts.Background != nil,
	}
	g.sched = editor.NewScheduler(&g.frames, g.markDirty)
	state.OnRedraw(g.markDirty)
	if err := clipboard.Init(); err != nil {
		layout.Logger().Warn("preview: 剪贴板不可用，Ctrl+C 将被忽略", "err", err)
	} else {
		g.clipboardOK = true
	}
	return g
}

// Run 打开窗口并阻塞直到窗口关闭。
func Run(state *editor.State, r Renderer, opts Options) error {
	g := New(state, r, opts)
	w, h := state.Size()
	title := opts.Title
	if title == "" {
		title = "inkcard"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(math.Ceil(w)), int(math.Ceil(h)))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("预览窗口异常退出: %w", err)
	}
	return nil
}

func (g *Game) markDirty() { g.dirty = true }

func (g *Game) deviceScale() float64 {
	if g.opts.Scale > 0 {
		return g.opts.Scale
	}
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			return s
		}
	}
	return 1
}

// Update 每帧轮询输入；帧队列在此执行已合并的重绘请求。
func (g *Game) Update() error {
	g.frames.Tick()

	if dpr := g.deviceScale(); dpr != g.dpr {
		g.dpr = dpr
		g.sched.Request()
	}
	if g.bgPending {
		select {
		case <-g.opts.Background.Done():
			g.bgPending = false
			g.sched.Request()
		default:
		}
	}

	g.state.HandleInput(g.pollInput())

	if ctrlPressed() {
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.copyToClipboard()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyS) && g.opts.OnSave != nil {
			if err := g.opts.OnSave(); err != nil {
				layout.Logger().Error("preview: 导出失败", "err", err)
			}
		}
	}
	return nil
}

func (g *Game) pollInput() editor.Input {
	mx, my := ebiten.CursorPosition()
	in := editor.Input{
		X:            float64(mx) / g.dpr,
		Y:            float64(my) / g.dpr,
		Pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Shift:        ebiten.IsKeyPressed(ebiten.KeyShift),
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		in.Keys = append(in.Keys, "Delete")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		in.Keys = append(in.Keys, "Backspace")
	}
	return in
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func (g *Game) scene() renderer.Scene {
	return g.state.Scene(g.opts.Background.Image())
}

// Draw 只在需要时重新光栅化，否则复用上一帧。
func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty || g.frame == nil {
		img, err := g.r.Render(g.scene(), g.state.Surface(g.dpr))
		if err != nil {
			layout.Logger().Error("preview: 渲染失败", "err", err)
			return
		}
		g.setFrame(img)
		g.dirty = false
	}
	screen.DrawImage(g.frame, nil)
}

func (g *Game) setFrame(img *image.RGBA) {
	if g.frame != nil {
		g.frame.Deallocate()
	}
	g.frame = ebiten.NewImageFromImage(img)
}

// Layout 使用设备像素作为屏幕尺寸；窗口尺寸变化时请求重绘。
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.sched.Request()
	}
	dpr := g.dpr
	if dpr <= 0 {
		dpr = 1
	}
	w, h := g.state.Size()
	return int(math.Ceil(w * dpr)), int(math.Ceil(h * dpr))
}

func (g *Game) copyToClipboard() {
	if !g.clipboardOK {
		return
	}
	var buf bytes.Buffer
	scale := g.opts.ExportScale
	if scale <= 0 {
		scale = 2
	}
	if err := g.r.Export(&buf, g.scene(), g.state.Surface(scale), scale); err != nil {
		layout.Logger().Error("preview: 复制图片失败", "err", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	layout.Logger().Info("preview: 图片已复制到剪贴板", "bytes", buf.Len())
}
