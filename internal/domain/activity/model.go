package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTaskCreated   ActivityType = "task_created"
	TypeTaskUpdated   ActivityType = "task_updated"
	TypeTaskConfirmed ActivityType = "task_confirmed"
	TypeTaskDeleted   ActivityType = "task_deleted"
	TypeTasksImported ActivityType = "tasks_imported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TaskID       *int64       `json:"task_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}
