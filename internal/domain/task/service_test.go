package task_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/repository"
	"github.com/rpggio/taskboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	activityLog := &mocks.ActivityLogger{}

	tasksRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*task.Task).ID = 4
	}).Return(nil)
	activityLog.On("LogActivity", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeTaskCreated && e.TaskID != nil && *e.TaskID == 4
	})).Return(nil)

	svc := task.NewService(tasksRepo, activityLog, nil)
	created, err := svc.Create(ctx, task.CreateRequest{Name: " Clean kitchen ", Project: "Home", SubLine: "Kitchen"})
	require.NoError(t, err)
	require.Equal(t, int64(4), created.ID)
	require.Equal(t, "Clean kitchen", created.Name)
	require.Equal(t, "Home", created.Project)
	require.Equal(t, "Kitchen", created.SubLine)
	require.False(t, created.Completed)
	require.Nil(t, created.CompletionTime)
	activityLog.AssertExpectations(t)
}

func TestTaskService_Create_ActivityEntryOwnsTaskID(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	activityLog := &mocks.ActivityLogger{}

	tasksRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*task.Task).ID = 4
	}).Return(nil)
	var logged *activity.ActivityEntry
	activityLog.On("LogActivity", ctx, mock.Anything).Run(func(args mock.Arguments) {
		logged = args.Get(1).(*activity.ActivityEntry)
	}).Return(nil)

	svc := task.NewService(tasksRepo, activityLog, nil)
	created, err := svc.Create(ctx, task.CreateRequest{Name: "a"})
	require.NoError(t, err)

	created.ID = 99
	require.NotNil(t, logged)
	require.Equal(t, int64(4), *logged.TaskID)
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc := task.NewService(&mocks.TaskRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), task.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, task.ErrInvalidInput)

	at := time.Now()
	_, err = svc.Create(context.Background(), task.CreateRequest{Name: "x", CompletionTime: &at})
	require.ErrorIs(t, err, task.ErrInvalidInput)
}

func TestTaskService_CreateRejectsTextACellCannotHold(t *testing.T) {
	tasksRepo := &mocks.TaskRepository{}
	svc := task.NewService(tasksRepo, nil, nil)

	for name, req := range map[string]task.CreateRequest{
		"long name":        {Name: strings.Repeat("a", task.MaxFieldChars+1)},
		"bell in name":     {Name: "bell\x07name"},
		"nul in project":   {Name: "ok", Project: "a\x00b"},
		"nonchar sub line": {Name: "ok", SubLine: "\uFFFF"},
		"invalid utf-8":    {Name: "ok\xff"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			require.ErrorIs(t, err, task.ErrInvalidInput)
		})
	}
	tasksRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestValidateCreateInput_AcceptsLongestNameAndWhitespace(t *testing.T) {
	name := "  " + strings.Repeat("a", task.MaxFieldChars) + "  "
	require.NoError(t, task.ValidateCreateInput(task.CreateRequest{Name: name}))
	require.NoError(t, task.ValidateCreateInput(task.CreateRequest{Name: "line one\nline two\ttabbed\r\n"}))
}

func TestTaskService_Update_RejectsTextACellCannotHold(t *testing.T) {
	tasksRepo := &mocks.TaskRepository{}
	svc := task.NewService(tasksRepo, nil, nil)

	long := strings.Repeat("x", task.MaxFieldChars+1)
	_, err := svc.Update(context.Background(), task.UpdateRequest{ID: 1, Project: &long})
	require.ErrorIs(t, err, task.ErrInvalidInput)

	bell := "ring\x07"
	_, err = svc.Update(context.Background(), task.UpdateRequest{ID: 1, SubLine: &bell})
	require.ErrorIs(t, err, task.ErrInvalidInput)
	tasksRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestTaskService_CreateRestoresCompletion(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Create", ctx, mock.Anything).Return(nil)

	svc := task.NewService(tasksRepo, nil, nil)
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	created, err := svc.Create(ctx, task.CreateRequest{Name: "done", Completed: true, CompletionTime: &at})
	require.NoError(t, err)
	require.True(t, created.Completed)
	require.NotNil(t, created.CompletionTime)
	require.True(t, at.Equal(*created.CompletionTime))

	created, err = svc.Create(ctx, task.CreateRequest{Name: "done, time unknown", Completed: true})
	require.NoError(t, err)
	require.NotNil(t, created.CompletionTime)
}

func TestTaskService_CreateBatch_ValidatesBeforeInsert(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	svc := task.NewService(tasksRepo, nil, nil)

	_, err := svc.CreateBatch(ctx, []task.CreateRequest{{Name: "a"}, {Name: ""}})
	require.ErrorIs(t, err, task.ErrInvalidInput)
	tasksRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestTaskService_CreateBatch(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	activityLog := &mocks.ActivityLogger{}
	tasksRepo.On("CreateBatch", ctx, mock.MatchedBy(func(ts []*task.Task) bool { return len(ts) == 2 })).Return(nil)
	activityLog.On("LogActivity", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeTasksImported
	})).Return(nil)

	svc := task.NewService(tasksRepo, activityLog, nil)
	created, err := svc.CreateBatch(ctx, []task.CreateRequest{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	require.Len(t, created, 2)
	tasksRepo.AssertExpectations(t)
	activityLog.AssertExpectations(t)
}

func TestTaskService_Get_NotFound(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(99)).Return((*task.Task)(nil), repository.ErrNotFound)

	svc := task.NewService(tasksRepo, nil, nil)
	_, err := svc.Get(ctx, 99)
	require.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskService_Update_NotFound(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(99)).Return((*task.Task)(nil), repository.ErrNotFound)

	svc := task.NewService(tasksRepo, nil, nil)
	name := "x"
	_, err := svc.Update(ctx, task.UpdateRequest{ID: 99, Name: &name})
	require.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskService_Update_KeepsUnspecifiedFields(t *testing.T) {
	ctx := context.Background()

	at := time.Now()
	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(1)).Return(&task.Task{
		ID:             1,
		Name:           "old",
		Project:        "Home",
		SubLine:        "Kitchen",
		Completed:      true,
		CompletionTime: &at,
	}, nil)
	tasksRepo.On("Update", ctx, mock.Anything).Return(nil)

	svc := task.NewService(tasksRepo, nil, nil)
	name := "new"
	updated, err := svc.Update(ctx, task.UpdateRequest{ID: 1, Name: &name})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Name)
	require.Equal(t, "Home", updated.Project)
	require.Equal(t, "Kitchen", updated.SubLine)
	require.True(t, updated.Completed)
	require.Equal(t, &at, updated.CompletionTime)
}

func TestTaskService_Update_BlankName(t *testing.T) {
	svc := task.NewService(&mocks.TaskRepository{}, nil, nil)
	blank := " "
	_, err := svc.Update(context.Background(), task.UpdateRequest{ID: 1, Name: &blank})
	require.ErrorIs(t, err, task.ErrInvalidInput)
}

func TestTaskService_Delete_Idempotent(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	activityLog := &mocks.ActivityLogger{}
	tasksRepo.On("Delete", ctx, int64(7)).Return(repository.ErrNotFound)

	svc := task.NewService(tasksRepo, activityLog, nil)
	require.NoError(t, svc.Delete(ctx, 7))
	activityLog.AssertNotCalled(t, "LogActivity", mock.Anything, mock.Anything)
}

func TestTaskService_Delete_Error(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Delete", ctx, int64(7)).Return(errors.New("disk on fire"))

	svc := task.NewService(tasksRepo, nil, nil)
	require.Error(t, svc.Delete(ctx, 7))
}

func TestTaskService_Confirm(t *testing.T) {
	ctx := context.Background()

	at := time.Now()
	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(1)).Return(&task.Task{ID: 1, Name: "a"}, nil)
	tasksRepo.On("Confirm", ctx, int64(1), mock.AnythingOfType("time.Time")).Return(&task.Task{
		ID:             1,
		Name:           "a",
		Completed:      true,
		CompletionTime: &at,
	}, nil)

	svc := task.NewService(tasksRepo, nil, nil)
	confirmed, err := svc.Confirm(ctx, 1)
	require.NoError(t, err)
	require.True(t, confirmed.Completed)
	require.NotNil(t, confirmed.CompletionTime)
}

func TestTaskService_Confirm_AlreadyCompleted(t *testing.T) {
	ctx := context.Background()

	at := time.Now().Add(-time.Hour)
	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(1)).Return(&task.Task{ID: 1, Completed: true, CompletionTime: &at}, nil)

	svc := task.NewService(tasksRepo, nil, nil)
	confirmed, err := svc.Confirm(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, at, *confirmed.CompletionTime)
	tasksRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_Confirm_NotFound(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(5)).Return((*task.Task)(nil), repository.ErrNotFound)

	svc := task.NewService(tasksRepo, nil, nil)
	_, err := svc.Confirm(ctx, 5)
	require.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskService_ConfirmationURL(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Get", ctx, int64(3)).Return(&task.Task{ID: 3}, nil)
	tasksRepo.On("Get", ctx, int64(4)).Return((*task.Task)(nil), repository.ErrNotFound)

	svc := task.NewService(tasksRepo, nil, nil)

	url, err := svc.ConfirmationURL(ctx, 3, "http://example.com/")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/confirm/3", url)

	url, err = svc.ConfirmationURL(ctx, 3, "http://example.com")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/confirm/3", url)

	_, err = svc.ConfirmationURL(ctx, 4, "http://example.com/")
	require.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskService_Seed(t *testing.T) {
	ctx := context.Background()

	tasksRepo := &mocks.TaskRepository{}
	tasksRepo.On("Count", ctx).Return(0, nil).Once()
	tasksRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()

	svc := task.NewService(tasksRepo, nil, nil)
	seeded, err := svc.Seed(ctx, []task.CreateRequest{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	require.True(t, seeded)

	tasksRepo.On("Count", ctx).Return(2, nil).Once()
	seeded, err = svc.Seed(ctx, []task.CreateRequest{{Name: "c"}})
	require.NoError(t, err)
	require.False(t, seeded)
	tasksRepo.AssertNumberOfCalls(t, "Create", 2)
}
