// Package memory holds process-local stores. State does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/repository"
)

// TaskRepository implements task.Repository over a map guarded by a mutex.
type TaskRepository struct {
	mu     sync.Mutex
	tasks  map[int64]*task.Task
	lastID int64
}

// NewTaskRepository creates an empty TaskRepository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[int64]*task.Task)}
}

// Create assigns the next ID to t and stores a copy.
func (r *TaskRepository) Create(_ context.Context, t *task.Task) error {
	if err := checkNew(t); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(t)
	return nil
}

// CreateBatch stores every task under a single lock acquisition.
func (r *TaskRepository) CreateBatch(_ context.Context, tasks []*task.Task) error {
	for _, t := range tasks {
		if err := checkNew(t); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tasks {
		r.insert(t)
	}
	return nil
}

func checkNew(t *task.Task) error {
	if t.ID != 0 {
		return fmt.Errorf("%w: task already has id %d", repository.ErrInvalidInput, t.ID)
	}
	return nil
}

func (r *TaskRepository) insert(t *task.Task) {
	r.lastID++
	t.ID = r.lastID
	r.tasks[t.ID] = clone(t)
}

// Get returns a copy of the task with the given ID.
func (r *TaskRepository) Get(_ context.Context, id int64) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(t), nil
}

// List returns copies of all tasks ordered by ID.
func (r *TaskRepository) List(_ context.Context) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		list = append(list, *clone(t))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Update writes the mutable fields of t. Completion state is left as stored.
func (r *TaskRepository) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = t.Name
	stored.Project = t.Project
	stored.SubLine = t.SubLine
	return nil
}

// Delete removes the task with the given ID.
func (r *TaskRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Confirm marks the task completed at the given time unless it already is.
func (r *TaskRepository) Confirm(_ context.Context, id int64, at time.Time) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !stored.Completed {
		stored.Completed = true
		stored.CompletionTime = &at
	}
	return clone(stored), nil
}

// Count returns the number of stored tasks.
func (r *TaskRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks), nil
}

func clone(t *task.Task) *task.Task {
	c := *t
	if t.CompletionTime != nil {
		at := *t.CompletionTime
		c.CompletionTime = &at
	}
	return &c
}
