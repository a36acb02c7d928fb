package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskInputValidate(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   TaskInput
		wantErr error
	}{
		{
			name:  "valid input",
			input: TaskInput{Title: "Write report", DueDate: due, Priority: PriorityHigh, Status: StatusPending},
		},
		{
			name:    "empty title rejected",
			input:   TaskInput{DueDate: due, Priority: PriorityHigh, Status: StatusPending},
			wantErr: ErrInvalidTitle,
		},
		{
			name:    "zero due date rejected",
			input:   TaskInput{Title: "x", Priority: PriorityLow, Status: StatusPending},
			wantErr: ErrInvalidDueDate,
		},
		{
			name:    "unknown priority rejected",
			input:   TaskInput{Title: "x", DueDate: due, Priority: "urgent", Status: StatusPending},
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "unknown status rejected",
			input:   TaskInput{Title: "x", DueDate: due, Priority: PriorityLow, Status: "archived"},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatusToggled(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusPending.Toggled())
	assert.Equal(t, StatusPending, StatusCompleted.Toggled())
	assert.Equal(t, StatusPending, StatusPending.Toggled().Toggled())
}

func TestThemeToggled(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggled())
	assert.Equal(t, ThemeLight, ThemeDark.Toggled())
	assert.False(t, Theme("sepia").Valid())
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	r := DateRange{Start: start, End: end}

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end))
	assert.True(t, r.Contains(start.Add(time.Hour)))
	assert.False(t, r.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(end.Add(time.Nanosecond)))
}

func TestTaskKey(t *testing.T) {
	assert.Equal(t, "tasks_42", TaskKey("42"))
}
