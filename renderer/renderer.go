package renderer

import (
	"image"
	"math"

	"github.com/ByLCY/inkcard/layout"
)

// Renderer 将场景绘制为位图。预览与导出走同一条路径，只有 Surface 不同。
type Renderer interface {
	Render(scene Scene, surface Surface) (*image.RGBA, error)
}

// Scene 是一次绘制所需的全部输入。
type Scene struct {
	Items      []layout.TextItem
	Background image.Image // 尚未加载或加载失败时为 nil
	Selected   map[string]bool
}

// IsSelected 报告 key 是否需要绘制选中框。
func (s Scene) IsSelected(key string) bool {
	return s.Selected[key]
}

// Surface 描述逻辑画布尺寸与像素倍率（预览为设备像素比，导出为固定倍率）。
type Surface struct {
	Width  float64
	Height float64
	Scale  float64
}

// PixelSize 返回位图尺寸 ceil(W*Scale) × ceil(H*Scale)。
func (s Surface) PixelSize() (int, int) {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return int(math.Ceil(s.Width * scale)), int(math.Ceil(s.Height * scale))
}
