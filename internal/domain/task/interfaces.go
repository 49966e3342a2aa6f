package task

import (
	"context"
	"time"

	"github.com/rpggio/taskboard/internal/domain/activity"
)

// Repository provides persistence for tasks. Implementations assign IDs and
// must never hand out an ID twice.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	CreateBatch(ctx context.Context, tasks []*Task) error
	Get(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	Confirm(ctx context.Context, id int64, at time.Time) (*Task, error)
	Count(ctx context.Context) (int, error)
}

// ActivityLogger records task activities. *activity.Service implements it.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
