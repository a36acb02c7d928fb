package types

import "time"

// DateRange is an inclusive interval of instants.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// TaskFilters is a set of optional predicates combined with logical AND.
// Zero-valued fields do not filter.
type TaskFilters struct {
	Status      Status     `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	DateRange   *DateRange `json:"dateRange,omitempty"`
	SearchQuery string     `json:"searchQuery,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f TaskFilters) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.DateRange == nil && f.SearchQuery == ""
}
