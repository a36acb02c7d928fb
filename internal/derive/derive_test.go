package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time { return now.AddDate(0, 0, n) }

func task(id, title string, due time.Time, p types.Priority, s types.Status) types.Task {
	return types.Task{
		ID:        id,
		Title:     title,
		DueDate:   due,
		Priority:  p,
		Status:    s,
		CreatedAt: now,
		UserID:    "1",
	}
}

func ids(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sampleTasks() []types.Task {
	budget := task("3", "Review Budget Reports", day(7), types.PriorityMedium, types.StatusPending)
	budget.Description = "Analyze Q2 expenses and prepare summary"
	return []types.Task{
		task("1", "Complete Project Proposal", day(1), types.PriorityHigh, types.StatusPending),
		task("2", "Weekly Team Meeting", day(2), types.PriorityMedium, types.StatusPending),
		budget,
		task("4", "Update Website Content", day(-1), types.PriorityLow, types.StatusCompleted),
	}
}

func TestApply_NoFiltersSortsByDueDate(t *testing.T) {
	got := Apply(sampleTasks(), types.TaskFilters{})
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(got))
}

func TestApply_SortsEarlierFirstRegardlessOfInput(t *testing.T) {
	tasks := []types.Task{
		task("late", "Day three", day(3), types.PriorityLow, types.StatusPending),
		task("early", "Day one", day(1), types.PriorityLow, types.StatusPending),
	}
	assert.Equal(t, []string{"early", "late"}, ids(Apply(tasks, types.TaskFilters{})))
}

func TestApply_StableForEqualDueDates(t *testing.T) {
	tasks := []types.Task{
		task("a", "A", day(1), types.PriorityLow, types.StatusPending),
		task("b", "B", day(1), types.PriorityLow, types.StatusPending),
		task("c", "C", day(0), types.PriorityLow, types.StatusPending),
		task("d", "D", day(1), types.PriorityLow, types.StatusPending),
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(Apply(tasks, types.TaskFilters{})))
}

func TestApply_Predicates(t *testing.T) {
	tests := []struct {
		name    string
		filters types.TaskFilters
		want    []string
	}{
		{"status pending", types.TaskFilters{Status: types.StatusPending}, []string{"1", "2", "3"}},
		{"status completed", types.TaskFilters{Status: types.StatusCompleted}, []string{"4"}},
		{"priority medium", types.TaskFilters{Priority: types.PriorityMedium}, []string{"2", "3"}},
		{"status and priority", types.TaskFilters{Status: types.StatusPending, Priority: types.PriorityHigh}, []string{"1"}},
		{"date range inclusive", types.TaskFilters{DateRange: &types.DateRange{Start: day(1), End: day(2)}}, []string{"1", "2"}},
		{"date range empty", types.TaskFilters{DateRange: &types.DateRange{Start: day(20), End: day(30)}}, []string{}},
		{"search title", types.TaskFilters{SearchQuery: "budget"}, []string{"3"}},
		{"search upper case", types.TaskFilters{SearchQuery: "MEETING"}, []string{"2"}},
		{"search description", types.TaskFilters{SearchQuery: "q2 expenses"}, []string{"3"}},
		{"search no match", types.TaskFilters{SearchQuery: "vacation"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleTasks(), tt.filters)))
		})
	}
}

func TestApply_EmptyDescriptionNeverMatches(t *testing.T) {
	tasks := []types.Task{task("1", "Title", day(1), types.PriorityLow, types.StatusPending)}
	assert.Empty(t, Apply(tasks, types.TaskFilters{SearchQuery: "desc"}))
}

func TestApply_Idempotent(t *testing.T) {
	filters := []types.TaskFilters{
		{},
		{Status: types.StatusPending},
		{Priority: types.PriorityMedium, SearchQuery: "e"},
		{DateRange: &types.DateRange{Start: day(-2), End: day(3)}},
	}
	for _, f := range filters {
		once := Apply(sampleTasks(), f)
		twice := Apply(once, f)
		assert.Equal(t, once, twice)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)
	_ = Apply(tasks, types.TaskFilters{})
	assert.Equal(t, before, ids(tasks))
}

func TestStats_Scenario(t *testing.T) {
	tasks := []types.Task{
		task("1", "Complete Project Proposal", now.Add(20*time.Hour), types.PriorityHigh, types.StatusPending),
		task("2", "Weekly Team Meeting", day(3), types.PriorityMedium, types.StatusPending),
		task("3", "Review Budget Reports", day(7), types.PriorityMedium, types.StatusPending),
		task("4", "Update Website Content", day(-1), types.PriorityLow, types.StatusCompleted),
	}

	got := Stats(tasks, now)
	assert.Equal(t, types.DashboardStats{
		TotalTasks:        4,
		CompletedTasks:    1,
		PendingTasks:      3,
		HighPriorityTasks: 1,
		DueSoonTasks:      1,
	}, got)
}

func TestStats_DueSoonBoundaries(t *testing.T) {
	tasks := []types.Task{
		task("now", "Now", now, types.PriorityLow, types.StatusPending),
		task("edge", "Edge", now.Add(DueSoonWindow), types.PriorityLow, types.StatusPending),
		task("past-edge", "Past edge", now.Add(DueSoonWindow+time.Second), types.PriorityLow, types.StatusPending),
		task("overdue", "Overdue", now.Add(-time.Second), types.PriorityLow, types.StatusPending),
		task("done", "Done", now.Add(time.Hour), types.PriorityLow, types.StatusCompleted),
	}
	assert.Equal(t, 2, Stats(tasks, now).DueSoonTasks)
}

func TestStats_Empty(t *testing.T) {
	assert.Equal(t, types.DashboardStats{}, Stats(nil, now))
}

func TestBreakdownOf(t *testing.T) {
	b := BreakdownOf(sampleTasks())
	assert.Equal(t, map[types.Priority]int{
		types.PriorityHigh:   1,
		types.PriorityMedium: 2,
		types.PriorityLow:    1,
	}, b.ByPriority)
	assert.Equal(t, 3, b.ByStatus[types.StatusPending])
	assert.Equal(t, 1, b.ByStatus[types.StatusCompleted])
	assert.Equal(t, 25, b.CompletionPercent)
}

func TestBreakdownOf_Rounding(t *testing.T) {
	tasks := []types.Task{
		task("1", "A", day(1), types.PriorityLow, types.StatusCompleted),
		task("2", "B", day(1), types.PriorityLow, types.StatusCompleted),
		task("3", "C", day(1), types.PriorityLow, types.StatusPending),
	}
	assert.Equal(t, 67, BreakdownOf(tasks).CompletionPercent)
}

func TestBreakdownOf_Empty(t *testing.T) {
	b := BreakdownOf(nil)
	assert.Zero(t, b.CompletionPercent)
	assert.Len(t, b.ByPriority, 3)
	assert.Len(t, b.ByStatus, 2)
}

func TestUpcoming(t *testing.T) {
	tasks := sampleTasks()
	tasks = append(tasks, task("5", "Overdue report", day(-2), types.PriorityHigh, types.StatusPending))

	got := Upcoming(tasks, now, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "5", got[0].ID)
	assert.True(t, got[0].PastDue)
	assert.Equal(t, "1", got[1].ID)
	assert.False(t, got[1].PastDue)
	assert.Equal(t, "2", got[2].ID)
}

func TestUpcoming_DefaultLimit(t *testing.T) {
	var tasks []types.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, task(string(rune('a'+i)), "T", day(i), types.PriorityLow, types.StatusPending))
	}
	assert.Len(t, Upcoming(tasks, now, 0), DefaultUpcomingLimit)
}

func TestRange(t *testing.T) {
	assert.Nil(t, Range(time.Time{}, time.Time{}))

	open := Range(day(2), time.Time{})
	require.NotNil(t, open)
	assert.Equal(t, []string{"2", "3"}, ids(Apply(sampleTasks(), types.TaskFilters{DateRange: open})))

	upTo := Range(time.Time{}, day(0))
	assert.Equal(t, []string{"4"}, ids(Apply(sampleTasks(), types.TaskFilters{DateRange: upTo})))
}
