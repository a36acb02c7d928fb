package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func requireUser(a *app) error {
	if _, err := a.sess.RequireUser(); err != nil {
		return fmt.Errorf("%w (run 'taskboard login')", err)
	}
	return nil
}

func findTask(a *app, id string) (types.Task, error) {
	t, ok := a.sess.Tasks.Get(id)
	if !ok {
		return types.Task{}, fmt.Errorf("task %q: %w", id, types.ErrNotFound)
	}
	return t, nil
}

// taskFlags are the editable task fields shared by add and update.
type taskFlags struct {
	description string
	due         string
	priority    string
	status      string
	title       string
}

func (f *taskFlags) register(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&f.title, "title", "", "task title")
	}
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&f.due, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&f.priority, "priority", "P", "", "priority: high, medium or low")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "status: pending or completed")
}

func newAddCmd(e *env) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. The due date defaults to tomorrow, the priority to medium
and the status to pending.

Example:
  taskboard add "Review Budget Reports" --due 2026-06-30 --priority high`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			in := types.TaskInput{
				Title:       args[0],
				Description: f.description,
				Priority:    types.PriorityMedium,
				Status:      types.StatusPending,
				DueDate:     time.Now().AddDate(0, 0, 1),
			}
			if f.priority != "" {
				in.Priority = types.Priority(f.priority)
			}
			if f.status != "" {
				in.Status = types.Status(f.status)
			}
			if f.due != "" {
				due, err := parseDate(f.due, false)
				if err != nil {
					return err
				}
				in.DueDate = due
			}

			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				t, err := a.sess.Tasks.AddTask(cmd.Context(), in)
				if err != nil {
					return err
				}
				if e.flags.jsonMode {
					return printJSON(out(cmd), t)
				}
				printTask(out(cmd), t)
				return nil
			})
		}),
	}
	f.register(cmd, false)
	return cmd
}

func newUpdateCmd(e *env) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change task fields",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !anyChanged(cmd, "title", "description", "due", "priority", "status") {
				return fmt.Errorf("%w: at least one of --title, --description, --due, --priority or --status is required", errUsage)
			}

			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				t, err := findTask(a, args[0])
				if err != nil {
					return err
				}

				if flags.Changed("title") {
					t.Title = f.title
				}
				if flags.Changed("description") {
					t.Description = f.description
				}
				if flags.Changed("priority") {
					t.Priority = types.Priority(f.priority)
				}
				if flags.Changed("status") {
					t.Status = types.Status(f.status)
				}
				if flags.Changed("due") {
					if t.DueDate, err = parseDate(f.due, false); err != nil {
						return err
					}
				}

				if err := a.sess.Tasks.UpdateTask(cmd.Context(), t); err != nil {
					return err
				}
				updated, _ := a.sess.Tasks.Get(t.ID)
				if e.flags.jsonMode {
					return printJSON(out(cmd), updated)
				}
				printTask(out(cmd), updated)
				return nil
			})
		}),
	}
	f.register(cmd, true)
	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				if _, err := findTask(a, args[0]); err != nil {
					return err
				}
				return a.sess.Tasks.DeleteTask(cmd.Context(), args[0])
			})
		}),
	}
}

func newToggleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				if _, err := findTask(a, args[0]); err != nil {
					return err
				}
				if err := a.sess.Tasks.ToggleTaskStatus(cmd.Context(), args[0]); err != nil {
					return err
				}
				t, _ := a.sess.Tasks.Get(args[0])
				if e.flags.jsonMode {
					return printJSON(out(cmd), t)
				}
				fmt.Fprintf(out(cmd), "%s is now %s\n", t.Title, t.Status)
				return nil
			})
		}),
	}
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}
