package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/taskboard"
)

const modulePath = "github.com/mesh-intelligence/taskboard"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskboard version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskboard v%s\nmodule: %s\n", taskboard.Version, modulePath)
			return nil
		},
	}
}
