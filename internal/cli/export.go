package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkcard/entries"
	"github.com/ByLCY/inkcard/layout"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		src    entrySource
		out    string
		outDir string
		all    bool
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出 PNG（不含选中框）",
		Long:  "按模板与条目绘制画布并导出 PNG。未指定 --out 时使用模板的文件名模式生成文件名。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return exportAll(cmd, app, outDir, scale)
			}
			p, err := openProject(app, src, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			path := out
			if path == "" {
				path = filepath.Join(outDir, p.exportName())
			}
			start := time.Now()
			if err := p.export(path, scale); err != nil {
				return writeErr(cmd, fmt.Errorf("导出失败: %w", err))
			}
			layout.Logger().Info("export: 完成", "path", path, "elapsed", time.Since(start))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出 PNG 路径")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "未指定 --out 时的输出目录")
	cmd.Flags().BoolVar(&all, "all", false, "导出条目文件中的全部条目")
	cmd.Flags().Float64Var(&scale, "scale", 0, "导出倍率（默认取模板 export 或 2）")
	return cmd
}

// exportAll 为每个条目导出一张图片，重名时追加序号。
func exportAll(cmd *cobra.Command, app *App, outDir string, scale float64) error {
	list, err := entries.Open(app.Entries).List()
	if err != nil {
		return writeErr(cmd, err)
	}
	if len(list) == 0 {
		return writeErr(cmd, fmt.Errorf("条目文件 %s 为空", app.Entries))
	}
	used := map[string]bool{}
	for _, e := range list {
		p, err := openProject(app, entrySource{ID: e.ID}, nil)
		if err != nil {
			return writeErr(cmd, err)
		}
		path := filepath.Join(outDir, uniqueName(used, p.exportName()))
		if err := p.export(path, scale); err != nil {
			return writeErr(cmd, fmt.Errorf("导出条目 %s 失败: %w", e.ID, err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// uniqueName 在 name 已被占用时依次尝试 -2、-3 等后缀，登记并返回第一个未占用的名称。
func uniqueName(used map[string]bool, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	final := name
	for n := 2; used[final]; n++ {
		final = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	used[final] = true
	return final
}
