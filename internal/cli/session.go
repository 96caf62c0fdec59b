package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkcard/session"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "保存或查看会话快照（字段位置与样式）",
	}
	cmd.AddCommand(newSessionSaveCmd(app))
	cmd.AddCommand(newSessionShowCmd(app))
	return cmd
}

func newSessionSaveCmd(app *App) *cobra.Command {
	var src entrySource

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "将当前模板与条目的字段状态写入快照",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(app, src, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			snap := p.snapshot()
			if err := session.Save(args[0], snap); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已保存 %d 个字段到 %s\n", len(snap.Items), args[0])
			return nil
		},
	}

	src.bind(cmd)
	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "以 JSON 输出快照内容",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := session.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeJSON(cmd, snap)
		},
	}
}
