package types

import "time"

// Priority levels for tasks.
type Priority string

// Priority values.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the completion state of a task.
type Status string

// Status values.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single to-do item owned by one user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	UserID      string     `json:"userId"`
}

// TaskInput carries the caller-supplied fields of a new task. The store
// assigns ID, CreatedAt and UserID.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Validate checks the editable fields of the input.
func (in TaskInput) Validate() error {
	return validateFields(in.Title, in.DueDate, in.Priority, in.Status)
}

// Validate checks the editable fields of the task.
func (t Task) Validate() error {
	return validateFields(t.Title, t.DueDate, t.Priority, t.Status)
}

func validateFields(title string, due time.Time, p Priority, s Status) error {
	if title == "" {
		return ErrInvalidTitle
	}
	if due.IsZero() {
		return ErrInvalidDueDate
	}
	if !p.Valid() {
		return ErrInvalidPriority
	}
	if !s.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
