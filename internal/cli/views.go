package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/derive"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newListCmd(e *env) *cobra.Command {
	var status, priority, search, from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks sorted by due date",
		Long: `List tasks matching every given filter, earliest due date first.

Example:
  taskboard list --status pending --priority high
  taskboard list --search budget
  taskboard list --from 2026-06-01 --to 2026-06-30`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			f := types.TaskFilters{
				Status:      types.Status(status),
				Priority:    types.Priority(priority),
				SearchQuery: search,
			}
			if f.Status != "" && !f.Status.Valid() {
				return types.ErrInvalidStatus
			}
			if f.Priority != "" && !f.Priority.Valid() {
				return types.ErrInvalidPriority
			}

			var start, end time.Time
			var err error
			if from != "" {
				if start, err = parseDate(from, false); err != nil {
					return err
				}
			}
			if to != "" {
				if end, err = parseDate(to, true); err != nil {
					return err
				}
			}
			f.DateRange = derive.Range(start, end)

			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				list := a.sess.Tasks.Filtered(f)
				if e.flags.jsonMode {
					return printJSON(out(cmd), list)
				}
				return printTasks(out(cmd), list)
			})
		}),
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks with this status")
	cmd.Flags().StringVarP(&priority, "priority", "P", "", "only tasks with this priority")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive text in title or description")
	cmd.Flags().StringVar(&from, "from", "", "due on or after this date")
	cmd.Flags().StringVar(&to, "to", "", "due on or before this date")
	return cmd
}

type statsOutput struct {
	Stats     types.DashboardStats `json:"stats"`
	Breakdown types.Breakdown      `json:"breakdown"`
}

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				s, b := a.sess.Tasks.Stats(), a.sess.Tasks.Breakdown()
				if e.flags.jsonMode {
					return printJSON(out(cmd), statsOutput{Stats: s, Breakdown: b})
				}
				return printStats(out(cmd), s, b)
			})
		}),
	}
}

func newUpcomingCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next pending tasks",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app) error {
				if err := requireUser(a); err != nil {
					return err
				}
				list := a.sess.Tasks.Upcoming(limit)
				if e.flags.jsonMode {
					return printJSON(out(cmd), list)
				}
				return printUpcoming(out(cmd), list, time.Now())
			})
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", derive.DefaultUpcomingLimit, "number of tasks to show")
	return cmd
}
