// Package derive computes the views of a task list: the filtered and sorted
// list, the dashboard counters, the priority/status breakdown and the
// upcoming-task list. Every function is pure and leaves its input untouched.
package derive

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// DueSoonWindow is how far ahead of now a pending task counts as due soon.
const DueSoonWindow = 24 * time.Hour

// DefaultUpcomingLimit is the number of tasks Upcoming returns when the
// caller passes a non-positive limit.
const DefaultUpcomingLimit = 5

// Apply returns the tasks matching every predicate in f, sorted ascending
// by due date. Tasks with equal due dates keep their relative order.
func Apply(tasks []types.Task, f types.TaskFilters) []types.Task {
	query := strings.ToLower(f.SearchQuery)

	out := make([]types.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.DateRange != nil && !f.DateRange.Contains(t.DueDate) {
			continue
		}
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}

	sortByDueDate(out)
	return out
}

// matchesQuery reports whether the lowercased query occurs in the title or
// description. An empty description never matches.
func matchesQuery(t types.Task, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), query)
}

func sortByDueDate(tasks []types.Task) {
	slices.SortStableFunc(tasks, func(a, b types.Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

// Stats counts the dashboard figures over the full task list.
func Stats(tasks []types.Task, now time.Time) types.DashboardStats {
	var s types.DashboardStats
	horizon := now.Add(DueSoonWindow)

	for _, t := range tasks {
		s.TotalTasks++
		switch t.Status {
		case types.StatusCompleted:
			s.CompletedTasks++
		case types.StatusPending:
			s.PendingTasks++
		}
		if t.Priority == types.PriorityHigh {
			s.HighPriorityTasks++
		}
		if t.Status != types.StatusCompleted && !t.DueDate.Before(now) && !t.DueDate.After(horizon) {
			s.DueSoonTasks++
		}
	}
	return s
}

// BreakdownOf counts tasks per priority and per status and computes the
// rounded completion percentage. Every known priority and status has an
// entry, possibly zero.
func BreakdownOf(tasks []types.Task) types.Breakdown {
	b := types.Breakdown{
		ByPriority: map[types.Priority]int{
			types.PriorityHigh:   0,
			types.PriorityMedium: 0,
			types.PriorityLow:    0,
		},
		ByStatus: map[types.Status]int{
			types.StatusPending:   0,
			types.StatusCompleted: 0,
		},
	}
	for _, t := range tasks {
		b.ByPriority[t.Priority]++
		b.ByStatus[t.Status]++
	}
	if n := len(tasks); n > 0 {
		b.CompletionPercent = int(math.Round(float64(b.ByStatus[types.StatusCompleted]) / float64(n) * 100))
	}
	return b
}

// Upcoming returns up to limit pending tasks ordered by due date, each
// flagged when its due date is already before now.
func Upcoming(tasks []types.Task, now time.Time, limit int) []types.UpcomingTask {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	pending := Apply(tasks, types.TaskFilters{Status: types.StatusPending})
	if len(pending) > limit {
		pending = pending[:limit]
	}

	out := make([]types.UpcomingTask, len(pending))
	for i, t := range pending {
		out[i] = types.UpcomingTask{Task: t, PastDue: t.DueDate.Before(now)}
	}
	return out
}

// maxTime stands in for an open upper bound.
var maxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Range builds a date range from optional bounds. A zero bound is open; when
// both are zero Range returns nil, meaning no date filter.
func Range(from, to time.Time) *types.DateRange {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	if to.IsZero() {
		to = maxTime
	}
	return &types.DateRange{Start: from, End: to}
}
