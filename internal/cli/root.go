// Package cli implements the taskboard command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/pkg/taskboard"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
}

// env is the state shared by the commands of one invocation.
type env struct {
	flags    rootFlags
	settings settings
}

// NewRootCmd creates the top-level "taskboard" command with global flags and
// every subcommand registered.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:     "taskboard",
		Short:   "A personal task board",
		Long:    "Taskboard keeps a personal task list with priorities, due dates and a\ndashboard of what is due soon.",
		Version: taskboard.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return e.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = logging.Sync()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&e.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&e.flags.backend, "backend", "", "storage backend: sqlite, redis or memory")
	root.PersistentFlags().BoolVar(&e.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(e),
		newLoginCmd(e),
		newRegisterCmd(e),
		newLogoutCmd(e),
		newWhoamiCmd(e),
		newAddCmd(e),
		newUpdateCmd(e),
		newDeleteCmd(e),
		newToggleCmd(e),
		newListCmd(e),
		newStatsCmd(e),
		newUpcomingCmd(e),
		newThemeCmd(e),
		newServeCmd(e),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "taskboard:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// load resolves directories, reads config.yaml and sets up logging.
func (e *env) load() error {
	configDir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	dataDir, err := paths.ResolveDataDir(e.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	e.settings = resolveSettings(v, e.flags, dataDir)
	if _, err := logging.Init(e.settings.Log); err != nil {
		return sysError(fmt.Errorf("init logging: %w", err))
	}
	return nil
}

// exitError carries the exit code chosen for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// userErrors are the failures caused by input rather than the system.
var userErrors = []error{
	types.ErrInvalidCredentials,
	types.ErrEmailAlreadyExists,
	types.ErrNotAuthenticated,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidTitle,
	types.ErrInvalidPriority,
	types.ErrInvalidStatus,
	types.ErrInvalidDueDate,
	types.ErrInvalidTheme,
	types.ErrInvalidEmail,
	types.ErrInvalidName,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSyncStrategyUnknown,
	errUsage,
}

var errUsage = errors.New("usage")

// exitCode maps an error to the process exit code. Errors not marked and not
// recognised as user errors come from cobra argument parsing and count as
// user errors too.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// classify marks err with the exit code it should produce.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	for _, u := range userErrors {
		if errors.Is(err, u) {
			return &exitError{code: exitUserError, err: err}
		}
	}
	return sysError(err)
}

// runE adapts a command body so its error carries an exit code.
func runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return classify(fn(cmd, args))
	}
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
