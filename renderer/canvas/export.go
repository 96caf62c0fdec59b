package canvasrenderer

import (
	"fmt"
	"image/png"
	"io"

	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/renderer"
)

// DefaultExportScale 为导出时的固定像素倍率。
const DefaultExportScale = 2.0

// Export 以固定倍率渲染场景并写出 PNG。选中框不会出现在导出结果中。
func (r *Renderer) Export(w io.Writer, scene renderer.Scene, surface renderer.Surface, scale float64) error {
	if scale <= 0 {
		scale = DefaultExportScale
	}
	scene.Selected = nil
	surface.Scale = scale
	img, err := r.Render(scene, surface)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("写入 PNG 失败: %w", err)
	}
	layout.Logger().Info("renderer: 导出完成", "width", img.Bounds().Dx(), "height", img.Bounds().Dy(), "scale", scale)
	return nil
}
