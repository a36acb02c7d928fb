package tasks

import (
	"time"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// sampleTasks returns the starter list given to a user with no stored tasks.
func sampleTasks(userID string, now time.Time, newID func() string) []types.Task {
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)
	yesterday := now.AddDate(0, 0, -1)
	updated := now

	return []types.Task{
		{
			ID:          newID(),
			Title:       "Complete Project Proposal",
			Description: "Finish the draft and send it to the client for review",
			DueDate:     tomorrow,
			Priority:    types.PriorityHigh,
			Status:      types.StatusPending,
			CreatedAt:   now,
			UserID:      userID,
		},
		{
			ID:          newID(),
			Title:       "Weekly Team Meeting",
			Description: "Discuss project progress and next steps",
			DueDate:     tomorrow,
			Priority:    types.PriorityMedium,
			Status:      types.StatusPending,
			CreatedAt:   now,
			UserID:      userID,
		},
		{
			ID:          newID(),
			Title:       "Review Budget Reports",
			Description: "Analyze Q2 expenses and prepare summary",
			DueDate:     nextWeek,
			Priority:    types.PriorityMedium,
			Status:      types.StatusPending,
			CreatedAt:   now,
			UserID:      userID,
		},
		{
			ID:          newID(),
			Title:       "Update Website Content",
			Description: "Replace outdated information on the company website",
			DueDate:     yesterday,
			Priority:    types.PriorityLow,
			Status:      types.StatusCompleted,
			CreatedAt:   now.AddDate(0, 0, -7),
			UpdatedAt:   &updated,
			UserID:      userID,
		},
	}
}
