package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type themeOutput struct {
	Theme types.Theme `json:"theme"`
}

func newThemeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|light|dark]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle", string(types.ThemeLight), string(types.ThemeDark)},
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				ctx := cmd.Context()
				var (
					t   types.Theme
					err error
				)
				switch {
				case len(args) == 0:
					t, err = a.sess.Theme.Get(ctx)
				case args[0] == "toggle":
					t, err = a.sess.Theme.Toggle(ctx)
				default:
					t = types.Theme(args[0])
					err = a.sess.Theme.Set(ctx, t)
				}
				if err != nil {
					return err
				}
				if e.flags.jsonMode {
					return printJSON(out(cmd), themeOutput{Theme: t})
				}
				if len(args) == 0 {
					fmt.Fprintln(out(cmd), t)
				}
				return nil
			})
		}),
	}
}
