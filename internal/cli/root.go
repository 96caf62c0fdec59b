package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkcard/layout"
)

type App struct {
	Template   string
	Background string
	Entries    string
	Session    string
	Fonts      []string
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "inkcard",
		Short:        "在固定背景上排版、预览并导出证书文字",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # 打开预览窗口（内置双人证书字段）
  inkcard preview --background base.png

  # 使用模板与条目导出 PNG
  inkcard export --template examples/certificate.inkcard --entry <id>

  # 条目管理
  inkcard entries add --set p1_name="Jane Doe" --set p2_name="John Roe"
  inkcard entries list
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd, app.Verbose)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Template, "template", envOr("INKCARD_TEMPLATE", ""), "模板文件路径（为空时使用内置字段表）")
	cmd.PersistentFlags().StringVar(&app.Background, "background", envOr("INKCARD_BACKGROUND", ""), "背景图路径（覆盖模板中的 background）")
	cmd.PersistentFlags().StringVar(&app.Entries, "entries", envOr("INKCARD_ENTRIES", "entries.json"), "条目文件路径")
	cmd.PersistentFlags().StringVar(&app.Session, "session", envOr("INKCARD_SESSION", ""), "会话快照路径（恢复字段位置与样式）")
	cmd.PersistentFlags().StringArrayVar(&app.Fonts, "font", nil, "字体资源 name=path，模板中以 built-in:name 引用（可重复）")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "输出调试日志")

	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newHitCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newEntriesCmd(app))
	cmd.AddCommand(newSessionCmd(app))

	return cmd
}

func setupLogger(cmd *cobra.Command, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	layout.SetLogger(slog.New(h))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
