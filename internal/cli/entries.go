package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/ByLCY/inkcard/editor"
	"github.com/ByLCY/inkcard/entries"
)

func newEntriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entry"},
		Short:   "管理条目文件（JSON 数组）",
	}
	cmd.AddCommand(newEntriesListCmd(app))
	cmd.AddCommand(newEntriesShowCmd(app))
	cmd.AddCommand(newEntriesAddCmd(app))
	cmd.AddCommand(newEntriesSetCmd(app))
	cmd.AddCommand(newEntriesRmCmd(app))
	return cmd
}

func newEntriesListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出全部条目",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := entries.Open(app.Entries).List()
			if err != nil {
				return writeErr(cmd, err)
			}
			if asJSON {
				return writeJSON(cmd, list)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entriesTable(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出")
	return cmd
}

func newEntriesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "以 JSON 输出单个条目",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entries.Open(app.Entries).Get(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeJSON(cmd, e)
		},
	}
}

func newEntriesAddCmd(app *App) *cobra.Command {
	var (
		sets   []string
		sample bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "新增条目并输出生成的 id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var e editor.Entry
			if sample {
				e = editor.SampleEntry()
			}
			if err := applySets(&e, sets); err != nil {
				return writeErr(cmd, err)
			}
			e, err := entries.Open(app.Entries).Add(e)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "字段赋值 key=value，可重复")
	cmd.Flags().BoolVar(&sample, "sample", false, "以示例文本为初始值")
	return cmd
}

func newEntriesSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> key=value...",
		Short: "修改条目字段",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := entries.Open(app.Entries)
			e, err := f.Get(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := applySets(&e, args[1:]); err != nil {
				return writeErr(cmd, err)
			}
			if err := f.Update(args[0], e); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newEntriesRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove", "delete"},
		Short:   "删除条目",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := entries.Open(app.Entries)
			for _, id := range args {
				if err := f.Remove(id); err != nil {
					return writeErr(cmd, err)
				}
			}
			return nil
		},
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func entriesTable(list []editor.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "P1", "P2", "DATE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, e := range list {
		t.Row(e.ID, e.P1Name, e.P2Name, e.MarriageDate)
	}
	return t.Render()
}

// applySets 解析 key=value 形式的字段赋值，value 中的 \n 转为换行。
func applySets(e *editor.Entry, sets []string) error {
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("字段赋值格式应为 key=value: %s", kv)
		}
		value = strings.ReplaceAll(value, `\n`, "\n")
		if !e.Set(strings.TrimSpace(key), value) {
			return fmt.Errorf("未知字段 %s（可用: %s）", key, strings.Join(editor.EntryKeys, ", "))
		}
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return writeErr(cmd, err)
	}
	_, err = cmd.OutOrStdout().Write(pretty.Pretty(data))
	return err
}
