package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/repository"
)

// TaskRepository implements task.Repository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertTask = `
	INSERT INTO tasks (project, sub_line, name, completed, completion_time, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
`

func insert(ctx context.Context, ex execer, t *task.Task) error {
	var completionTime any
	if t.CompletionTime != nil {
		completionTime = *t.CompletionTime
	}

	result, err := ex.ExecContext(ctx, insertTask,
		t.Project,
		t.SubLine,
		t.Name,
		t.Completed,
		completionTime,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task id: %w", err)
	}
	t.ID = id
	return nil
}

// Create inserts a task and sets its ID
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	if t.ID != 0 {
		return fmt.Errorf("%w: task already has id %d", repository.ErrInvalidInput, t.ID)
	}
	return insert(ctx, r.db, t)
}

// CreateBatch inserts all tasks in one transaction
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	for _, t := range tasks {
		if t.ID != 0 {
			return fmt.Errorf("%w: task already has id %d", repository.ErrInvalidInput, t.ID)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tasks {
		if err := insert(ctx, tx, t); err != nil {
			clearIDs(tasks)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		clearIDs(tasks)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const selectTask = `
	SELECT id, project, sub_line, name, completed, completion_time, created_at
	FROM tasks
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var t task.Task
	var completionTime sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.Project,
		&t.SubLine,
		&t.Name,
		&t.Completed,
		&completionTime,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completionTime.Valid {
		at := completionTime.Time
		t.CompletionTime = &at
	}
	return &t, nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id int64) (*task.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTask+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// List returns all tasks ordered by ID
func (r *TaskRepository) List(ctx context.Context) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTask+" ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// Update writes name, project and sub line
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks
		SET name = ?, project = ?, sub_line = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, t.Name, t.Project, t.SubLine, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result)
}

// Confirm completes a pending task at the given time and returns the stored row
func (r *TaskRepository) Confirm(ctx context.Context, id int64, at time.Time) (*task.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks
		SET completed = 1, completion_time = ?
		WHERE id = ? AND completed = 0
	`
	if _, err := tx.ExecContext(ctx, query, at, id); err != nil {
		return nil, fmt.Errorf("failed to confirm task: %w", err)
	}

	t, err := scanTask(tx.QueryRowContext(ctx, selectTask+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// Count returns the number of tasks
func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func clearIDs(tasks []*task.Task) {
	for _, t := range tasks {
		t.ID = 0
	}
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
