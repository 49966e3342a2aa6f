package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, repo *TaskRepository, name string) *task.Task {
	t.Helper()

	item := &task.Task{Name: name, Project: "Home", SubLine: "Kitchen", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestTaskRepository_Create(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	first := createTask(t, repo, "Clean the kitchen")
	second := createTask(t, repo, "Take out the trash")
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	retrieved, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Clean the kitchen", retrieved.Name)
	require.Equal(t, "Home", retrieved.Project)
	require.Equal(t, "Kitchen", retrieved.SubLine)
	require.False(t, retrieved.Completed)
	require.Nil(t, retrieved.CompletionTime)
}

func TestTaskRepository_Get(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)

	_, err := repo.Get(context.Background(), 42)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestTaskRepository_IDsNotReused(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, repo, "a")
	last := createTask(t, repo, "b")
	require.NoError(t, repo.Delete(ctx, last.ID))

	next := createTask(t, repo, "c")
	require.Equal(t, int64(3), next.ID)
}

func TestTaskRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	createTask(t, repo, "a")
	createTask(t, repo, "b")
	createTask(t, repo, "c")
	require.NoError(t, repo.Delete(ctx, 2))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(1), list[0].ID)
	require.Equal(t, int64(3), list[1].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestTaskRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	item := createTask(t, repo, "a")
	item.Name = "renamed"
	item.Project = "Work"
	item.SubLine = ""
	require.NoError(t, repo.Update(ctx, item))

	retrieved, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", retrieved.Name)
	require.Equal(t, "Work", retrieved.Project)
	require.Equal(t, "", retrieved.SubLine)

	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, &task.Task{ID: 99, Name: "x"}))
}

func TestTaskRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	item := createTask(t, repo, "a")
	require.NoError(t, repo.Delete(ctx, item.ID))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, item.ID))
}

func TestTaskRepository_Confirm(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	item := createTask(t, repo, "a")
	at := time.Now().Truncate(time.Second)

	confirmed, err := repo.Confirm(ctx, item.ID, at)
	require.NoError(t, err)
	require.True(t, confirmed.Completed)
	require.NotNil(t, confirmed.CompletionTime)
	require.True(t, at.Equal(*confirmed.CompletionTime))

	again, err := repo.Confirm(ctx, item.ID, at.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, at.Equal(*again.CompletionTime))

	_, err = repo.Confirm(ctx, 99, at)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestTaskRepository_CreateBatch(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	at := time.Now().Truncate(time.Second)
	batch := []*task.Task{
		{Name: "a", CreatedAt: at},
		{Name: "b", Completed: true, CompletionTime: &at, CreatedAt: at},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	require.Equal(t, int64(1), batch[0].ID)
	require.Equal(t, int64(2), batch[1].ID)

	restored, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	require.True(t, restored.Completed)
	require.True(t, at.Equal(*restored.CompletionTime))
}

func TestTaskRepository_CreateRejectsStoredTask(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	stored := createTask(t, repo, "Clean the kitchen")
	require.ErrorIs(t, repo.Create(ctx, stored), repository.ErrInvalidInput)

	fresh := &task.Task{Name: "Water the plants", CreatedAt: time.Now()}
	require.ErrorIs(t, repo.CreateBatch(ctx, []*task.Task{fresh, stored}), repository.ErrInvalidInput)
	require.Zero(t, fresh.ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestTaskRepository_CreateBatchRollsBack(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	batch := []*task.Task{
		{Name: "good", CreatedAt: time.Now()},
		{Name: " ", CreatedAt: time.Now()},
	}
	require.Error(t, repo.CreateBatch(ctx, batch))
	require.Zero(t, batch[0].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTaskRepository_WithService(t *testing.T) {
	db := NewTestDB(t)
	svc := task.NewService(NewTaskRepository(db), activity.NewService(NewActivityRepository(db), nil), nil)
	ctx := context.Background()

	for _, name := range []string{"Task 1", "Task 2", "Task 3"} {
		_, err := svc.Create(ctx, task.CreateRequest{Name: name})
		require.NoError(t, err)
	}

	created, err := svc.Create(ctx, task.CreateRequest{Name: "Clean kitchen", Project: "Home", SubLine: "Kitchen"})
	require.NoError(t, err)
	require.Equal(t, int64(4), created.ID)

	first, err := svc.Confirm(ctx, 1)
	require.NoError(t, err)
	second, err := svc.Confirm(ctx, 1)
	require.NoError(t, err)
	require.True(t, first.CompletionTime.Equal(*second.CompletionTime))

	name := "x"
	_, err = svc.Update(ctx, task.UpdateRequest{ID: 99, Name: &name})
	require.ErrorIs(t, err, task.ErrTaskNotFound)

	require.NoError(t, svc.Delete(ctx, 99))
}
