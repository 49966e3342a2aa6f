package mcp

import (
	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
)

type ListTasksParams struct {
	Status string `json:"status,omitempty" jsonschema:"pending or completed; omit for all tasks"`
}

type GetTaskParams struct {
	ID int64 `json:"id" jsonschema:"task id"`
}

type CreateTaskParams struct {
	Name    string `json:"name" jsonschema:"task name"`
	Project string `json:"project,omitempty" jsonschema:"project label"`
	SubLine string `json:"sub_line,omitempty" jsonschema:"sub line label within the project"`
}

type UpdateTaskParams struct {
	ID      int64   `json:"id" jsonschema:"task id"`
	Name    *string `json:"name,omitempty" jsonschema:"new name; omit to keep"`
	Project *string `json:"project,omitempty" jsonschema:"new project; omit to keep"`
	SubLine *string `json:"sub_line,omitempty" jsonschema:"new sub line; omit to keep"`
}

type DeleteTaskParams struct {
	ID int64 `json:"id" jsonschema:"task id"`
}

type ConfirmTaskParams struct {
	ID int64 `json:"id" jsonschema:"task id"`
}

type GetRecentActivityParams struct {
	TaskID       *int64 `json:"task_id,omitempty" jsonschema:"only activity for this task"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"task_created, task_updated, task_confirmed, task_deleted or tasks_imported"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum entries, default 50"`
}

type PingParams struct{}

// TaskView is the wire form of a task. Times use the completion layout in server local time.
type TaskView struct {
	ID              int64  `json:"id"`
	Project         string `json:"project"`
	SubLine         string `json:"sub_line"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	Completed       bool   `json:"completed"`
	CompletionTime  string `json:"completion_time,omitempty"`
	CreatedAt       string `json:"created_at"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type ListTasksResult struct {
	Tasks []TaskView `json:"tasks"`
	Count int        `json:"count"`
}

type DeleteTaskResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

type ActivityView struct {
	ID           int64  `json:"id"`
	TaskID       *int64 `json:"task_id,omitempty"`
	ActivityType string `json:"activity_type"`
	Summary      string `json:"summary"`
	CreatedAt    string `json:"created_at"`
}

type RecentActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

type PingResult struct {
	Message string `json:"message"`
}

func toTaskView(t *task.Task) TaskView {
	view := TaskView{
		ID:        t.ID,
		Project:   t.Project,
		SubLine:   t.SubLine,
		Name:      t.Name,
		Status:    t.Status(),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Local().Format(task.CompletionLayout),
	}
	if t.CompletionTime != nil {
		view.CompletionTime = t.CompletionTime.Local().Format(task.CompletionLayout)
	}
	return view
}

func toActivityView(e activity.ActivityEntry) ActivityView {
	return ActivityView{
		ID:           e.ID,
		TaskID:       e.TaskID,
		ActivityType: string(e.ActivityType),
		Summary:      e.Summary,
		CreatedAt:    e.CreatedAt.Local().Format(task.CompletionLayout),
	}
}
