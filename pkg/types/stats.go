package types

// DashboardStats are the aggregate counters shown on the dashboard.
type DashboardStats struct {
	TotalTasks        int `json:"totalTasks"`
	CompletedTasks    int `json:"completedTasks"`
	PendingTasks      int `json:"pendingTasks"`
	HighPriorityTasks int `json:"highPriorityTasks"`
	DueSoonTasks      int `json:"dueSoonTasks"`
}

// Breakdown counts tasks per priority and status.
type Breakdown struct {
	ByPriority        map[Priority]int `json:"byPriority"`
	ByStatus          map[Status]int   `json:"byStatus"`
	CompletionPercent int              `json:"completionPercent"`
}

// UpcomingTask is a pending task annotated with its overdue flag.
type UpcomingTask struct {
	Task
	PastDue bool `json:"pastDue"`
}
