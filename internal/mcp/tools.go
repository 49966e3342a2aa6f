package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
)

type tools struct {
	services  Services
	publicURL string
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ping",
		Description: "Check that the server is reachable",
	}, t.ping)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in id order, optionally filtered by status",
	}, t.listTasks)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_task",
		Description: "Get a task by id",
	}, t.getTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create a pending task",
	}, t.createTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task",
		Description: "Change a task's name, project or sub line",
	}, t.updateTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task; succeeds when the task is already gone",
	}, t.deleteTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "confirm_task",
		Description: "Mark a task completed; confirming twice keeps the first completion time",
	}, t.confirmTask)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent task activity, newest first",
	}, t.getRecentActivity)
}

func (t *tools) ping(_ context.Context, _ *sdkmcp.CallToolRequest, _ PingParams) (*sdkmcp.CallToolResult, PingResult, error) {
	return textResult(PingResult{Message: "pong"})
}

func (t *tools) listTasks(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTasksParams) (*sdkmcp.CallToolResult, ListTasksResult, error) {
	var want *bool
	switch strings.ToLower(strings.TrimSpace(in.Status)) {
	case "":
	case "pending":
		want = new(bool)
	case "completed":
		done := true
		want = &done
	default:
		return nil, ListTasksResult{}, toolError(fmt.Errorf("%w: status must be pending or completed", task.ErrInvalidInput))
	}

	list, err := t.services.Tasks.List(ctx)
	if err != nil {
		return nil, ListTasksResult{}, toolError(err)
	}

	out := ListTasksResult{Tasks: make([]TaskView, 0, len(list))}
	for i := range list {
		if want != nil && list[i].Completed != *want {
			continue
		}
		out.Tasks = append(out.Tasks, toTaskView(&list[i]))
	}
	out.Count = len(out.Tasks)
	return textResult(out)
}

func (t *tools) getTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetTaskParams) (*sdkmcp.CallToolResult, TaskView, error) {
	got, err := t.services.Tasks.Get(ctx, in.ID)
	if err != nil {
		return nil, TaskView{}, toolError(err)
	}
	view := toTaskView(got)
	if t.publicURL != "" {
		link, err := t.services.Tasks.ConfirmationURL(ctx, got.ID, t.publicURL)
		if err != nil {
			return nil, TaskView{}, toolError(err)
		}
		view.ConfirmationURL = link
	}
	return textResult(view)
}

func (t *tools) createTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateTaskParams) (*sdkmcp.CallToolResult, TaskView, error) {
	created, err := t.services.Tasks.Create(ctx, task.CreateRequest{
		Name:    in.Name,
		Project: in.Project,
		SubLine: in.SubLine,
	})
	if err != nil {
		return nil, TaskView{}, toolError(err)
	}
	return textResult(toTaskView(created))
}

func (t *tools) updateTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateTaskParams) (*sdkmcp.CallToolResult, TaskView, error) {
	updated, err := t.services.Tasks.Update(ctx, task.UpdateRequest{
		ID:      in.ID,
		Name:    in.Name,
		Project: in.Project,
		SubLine: in.SubLine,
	})
	if err != nil {
		return nil, TaskView{}, toolError(err)
	}
	return textResult(toTaskView(updated))
}

func (t *tools) deleteTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteTaskParams) (*sdkmcp.CallToolResult, DeleteTaskResult, error) {
	if err := t.services.Tasks.Delete(ctx, in.ID); err != nil {
		return nil, DeleteTaskResult{}, toolError(err)
	}
	return textResult(DeleteTaskResult{ID: in.ID, Deleted: true})
}

func (t *tools) confirmTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in ConfirmTaskParams) (*sdkmcp.CallToolResult, TaskView, error) {
	confirmed, err := t.services.Tasks.Confirm(ctx, in.ID)
	if err != nil {
		return nil, TaskView{}, toolError(err)
	}
	return textResult(toTaskView(confirmed))
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResult, error) {
	opts := activity.ListActivityOptions{TaskID: in.TaskID, Limit: in.Limit}
	if in.ActivityType != "" {
		typ := activity.ActivityType(in.ActivityType)
		opts.ActivityType = &typ
	}

	entries, err := t.services.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, RecentActivityResult{}, toolError(err)
	}

	out := RecentActivityResult{Entries: make([]ActivityView, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, toActivityView(e))
	}
	return textResult(out)
}

// textResult mirrors the structured output as JSON text for clients that only read content.
func textResult[T any](out T) (*sdkmcp.CallToolResult, T, error) {
	data, err := json.Marshal(out)
	if err != nil {
		var zero T
		return nil, zero, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, out, nil
}
