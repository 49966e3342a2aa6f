package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/repository"
)

// Service is the task registry.
type Service struct {
	tasks      Repository
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new task service. activities and logger may be nil.
func NewService(tasks Repository, activities ActivityLogger, logger *slog.Logger) *Service {
	return &Service{
		tasks:      tasks,
		activities: activities,
		logger:     logger,
	}
}

// CreateRequest describes a task creation request.
//
// Completed and CompletionTime are only set when restoring exported tasks.
type CreateRequest struct {
	Name           string
	Project        string
	SubLine        string
	Completed      bool
	CompletionTime *time.Time
}

// UpdateRequest describes a task update. Nil fields keep their current value.
type UpdateRequest struct {
	ID      int64
	Name    *string
	Project *string
	SubLine *string
}

// Create validates and stores a new pending task.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	t := newTask(req, time.Now())
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logActivity(ctx, t.ID, activity.TypeTaskCreated, fmt.Sprintf("created task %d %q", t.ID, t.Name))
	return t, nil
}

// CreateBatch validates every request before storing any of them, then
// inserts them in one atomic store operation.
func (s *Service) CreateBatch(ctx context.Context, reqs []CreateRequest) ([]*Task, error) {
	now := time.Now()
	tasks := make([]*Task, 0, len(reqs))
	for i, req := range reqs {
		if err := ValidateCreateInput(req); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		tasks = append(tasks, newTask(req, now))
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("creating tasks: %w", err)
	}

	s.logActivity(ctx, 0, activity.TypeTasksImported, fmt.Sprintf("imported %d tasks", len(tasks)))
	return tasks, nil
}

// Seed inserts reqs only when the registry is empty. It reports whether
// anything was inserted.
func (s *Service) Seed(ctx context.Context, reqs []CreateRequest) (bool, error) {
	n, err := s.tasks.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("counting tasks: %w", err)
	}
	if n > 0 || len(reqs) == 0 {
		return false, nil
	}
	for _, req := range reqs {
		if _, err := s.Create(ctx, req); err != nil {
			return false, fmt.Errorf("seeding: %w", err)
		}
	}
	return true, nil
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns all tasks ordered by ascending ID.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update changes the name, project or sub line of a task.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Task, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Project != nil {
		updated.Project = strings.TrimSpace(*req.Project)
	}
	if req.SubLine != nil {
		updated.SubLine = strings.TrimSpace(*req.SubLine)
	}

	if err := s.tasks.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.logActivity(ctx, updated.ID, activity.TypeTaskUpdated, fmt.Sprintf("updated task %d", updated.ID))
	return &updated, nil
}

// Delete removes a task. Deleting a missing task is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tasks.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logActivity(ctx, id, activity.TypeTaskDeleted, fmt.Sprintf("deleted task %d", id))
	return nil
}

// Confirm marks a task completed. Confirming a completed task leaves its
// completion time untouched.
func (s *Service) Confirm(ctx context.Context, id int64) (*Task, error) {
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Completed {
		return before, nil
	}

	t, err := s.tasks.Confirm(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("confirming task: %w", err)
	}

	s.logActivity(ctx, id, activity.TypeTaskConfirmed, fmt.Sprintf("confirmed task %d", id))
	return t, nil
}

// ConfirmationURL resolves the link that confirms task id when visited.
func (s *Service) ConfirmationURL(ctx context.Context, id int64, baseURL string) (string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + "confirm/" + strconv.FormatInt(id, 10), nil
}

func newTask(req CreateRequest, now time.Time) *Task {
	t := &Task{
		Name:      strings.TrimSpace(req.Name),
		Project:   strings.TrimSpace(req.Project),
		SubLine:   strings.TrimSpace(req.SubLine),
		CreatedAt: now,
	}
	if req.Completed {
		t.Completed = true
		at := now
		if req.CompletionTime != nil {
			at = *req.CompletionTime
		}
		t.CompletionTime = &at
	}
	return t
}

// logActivity records an entry for taskID, or for no single task when
// taskID is 0. The entry holds its own copy of the ID.
func (s *Service) logActivity(ctx context.Context, taskID int64, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ActivityType: typ,
		Summary:      summary,
	}
	if taskID != 0 {
		entry.TaskID = &taskID
	}
	err := s.activities.LogActivity(ctx, entry)
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}
