package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/pkg/store"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Write config.yaml with the resolved data directory and initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(e.flags.configDir)
			if err != nil {
				return sysError(err)
			}
			// loadConfig already wrote a default file; record the data
			// directory in it when the file has none.
			cfgPath := filepath.Join(configDir, configFileExt)
			if err := recordDataDir(cfgPath, e.settings.Store.DataDir); err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			kv, err := store.Open(e.settings.Store)
			if err != nil {
				return err
			}
			if err := kv.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			fmt.Fprintf(out(cmd), "Taskboard initialized\nconfig: %s\ndata:   %s\nbackend: %s\n",
				cfgPath, e.settings.Store.DataDir, e.settings.Store.Backend)
			return nil
		}),
	}
}
