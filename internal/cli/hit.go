package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHitCmd(app *App) *cobra.Command {
	var src entrySource

	cmd := &cobra.Command{
		Use:   "hit <x> <y>",
		Short: "输出画布坐标处最上层的字段 key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("x 坐标无效: %s", args[0]))
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("y 坐标无效: %s", args[1]))
			}
			p, err := openProject(app, src, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			key, ok := p.state.HitTest(x, y)
			if !ok {
				return writeErr(cmd, fmt.Errorf("(%g, %g) 未命中任何字段", x, y))
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	src.bind(cmd)
	return cmd
}
