package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/identity"
)

// readPassword returns flagValue, or the first line of stdin when the flag
// is empty.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: password required (--password or stdin)", errUsage)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(e *env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return e.withApp(cmd, func(a *app) error {
				u, err := a.sess.Login(cmd.Context(), args[0], pw)
				if err != nil {
					return err
				}
				if e.flags.jsonMode {
					return printJSON(out(cmd), u)
				}
				fmt.Fprint(out(cmd), "Signed in as ")
				printUser(out(cmd), u)
				return nil
			})
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newRegisterCmd(e *env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <name> <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return e.withApp(cmd, func(a *app) error {
				u, err := a.sess.Register(cmd.Context(), args[0], args[1], pw)
				if err != nil {
					return err
				}
				if e.flags.jsonMode {
					return printJSON(out(cmd), u)
				}
				fmt.Fprint(out(cmd), "Registered ")
				printUser(out(cmd), u)
				return nil
			})
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				return a.sess.Logout(cmd.Context())
			})
		}),
	}
}

func newWhoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				snap := a.sess.Identity.Snapshot()
				if e.flags.jsonMode {
					return printJSON(out(cmd), snap)
				}
				if snap.State != identity.StateAuthenticated || snap.User == nil {
					fmt.Fprintln(out(cmd), "Not signed in.")
					return nil
				}
				printUser(out(cmd), *snap.User)
				return nil
			})
		}),
	}
}
