package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/taskboard/internal/notify"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const dateLayout = "2006-01-02"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printNotification(w io.Writer, n notify.Notification) {
	prefix := "*"
	if n.Variant == notify.VariantDestructive {
		prefix = "!"
	}
	if n.Description == "" {
		fmt.Fprintf(w, "%s %s\n", prefix, n.Title)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", prefix, n.Title, n.Description)
}

func printUser(w io.Writer, u types.User) {
	fmt.Fprintf(w, "%s <%s> (id %s)\n", u.Name, u.Email, u.ID)
}

func printTasks(w io.Writer, list []types.Task) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.DueDate.Local().Format(dateLayout), t.Title)
	}
	return tw.Flush()
}

func printTask(w io.Writer, t types.Task) {
	fmt.Fprintf(w, "%s  %s\n", t.ID, t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "  %s\n", t.Description)
	}
	fmt.Fprintf(w, "  status: %s  priority: %s  due: %s\n", t.Status, t.Priority, t.DueDate.Local().Format(dateLayout))
}

func printStats(w io.Writer, s types.DashboardStats, b types.Breakdown) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%d\n", s.TotalTasks)
	fmt.Fprintf(tw, "Completed\t%d\n", s.CompletedTasks)
	fmt.Fprintf(tw, "Pending\t%d\n", s.PendingTasks)
	fmt.Fprintf(tw, "High priority\t%d\n", s.HighPriorityTasks)
	fmt.Fprintf(tw, "Due soon\t%d\n", s.DueSoonTasks)
	fmt.Fprintf(tw, "Progress\t%d%%\n", b.CompletionPercent)
	fmt.Fprintf(tw, "By priority\thigh %d, medium %d, low %d\n",
		b.ByPriority[types.PriorityHigh], b.ByPriority[types.PriorityMedium], b.ByPriority[types.PriorityLow])
	return tw.Flush()
}

func printUpcoming(w io.Writer, list []types.UpcomingTask, now time.Time) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No upcoming tasks.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, u := range list {
		due := u.DueDate.Local().Format(dateLayout)
		if u.PastDue {
			due += " (overdue)"
		} else if u.DueDate.Sub(now) < 24*time.Hour {
			due += " (due soon)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, strings.ToUpper(string(u.Priority)), due, u.Title)
	}
	return tw.Flush()
}
