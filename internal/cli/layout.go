package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkcard/layout"
)

func newLayoutCmd(app *App) *cobra.Command {
	var (
		src entrySource
		out string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "输出每个字段的包围盒、选中框与折行结果（JSON）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(app, src, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			items := layout.DebugItems(p.state.Store().Items(), p.r)
			if out != "" {
				if err := layout.WriteDebugJSON(items, out); err != nil {
					return writeErr(cmd, fmt.Errorf("写入调试 JSON 失败: %w", err))
				}
				return nil
			}
			return writeJSON(cmd, items)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "写入文件而不是标准输出")
	return cmd
}
