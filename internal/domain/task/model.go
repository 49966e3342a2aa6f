package task

import "time"

// Task is a unit of work with a one-way pending -> completed lifecycle.
type Task struct {
	ID             int64      `json:"id"`
	Project        string     `json:"project,omitempty"`
	SubLine        string     `json:"sub_line,omitempty"`
	Name           string     `json:"name"`
	Completed      bool       `json:"completed"`
	CompletionTime *time.Time `json:"completion_time,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Status returns the display status of the task.
func (t Task) Status() string {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// CompletionLayout is the wall-clock layout used wherever a completion time is shown.
const CompletionLayout = "2006-01-02 15:04:05"
