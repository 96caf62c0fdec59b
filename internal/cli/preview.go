package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/preview"
	"github.com/ByLCY/inkcard/session"
)

func newPreviewCmd(app *App) *cobra.Command {
	var (
		src    entrySource
		outDir string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "打开可交互的预览窗口",
		Long: `打开预览窗口：点击选中字段，shift+点击多选，拖动移动选中字段，
Delete/Backspace 删除选中字段，Ctrl+C 复制图片，Ctrl+S 导出 PNG（指定 --session 时同时保存会话）。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(app, src, nil)
			if err != nil {
				return writeErr(cmd, err)
			}

			save := func() error {
				path := filepath.Join(outDir, p.exportName())
				if err := p.export(path, 0); err != nil {
					return err
				}
				layout.Logger().Info("preview: 已导出", "path", path)
				if app.Session != "" {
					if err := session.Save(app.Session, p.snapshot()); err != nil {
						return err
					}
				}
				return nil
			}

			err = preview.Run(p.state, p.r, preview.Options{
				Title:       p.tpl.Meta.Title,
				Scale:       scale,
				ExportScale: p.exportScale(0),
				Background:  p.bg,
				OnSave:      save,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Ctrl+S 导出目录")
	cmd.Flags().Float64Var(&scale, "scale", 0, "设备像素比（默认读取显示器缩放）")
	return cmd
}
