package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rpggio/taskboard/internal/domain/activity"
)

// ActivityRepository implements activity.Repository as an append-only slice.
type ActivityRepository struct {
	mu      sync.Mutex
	entries []activity.ActivityEntry
}

// NewActivityRepository creates an empty ActivityRepository.
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

// Log appends an entry and assigns its ID.
func (r *ActivityRepository) Log(_ context.Context, entry *activity.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, cloneEntry(*entry))
	return nil
}

// List returns matching entries newest first.
func (r *ActivityRepository) List(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []activity.ActivityEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if opts.TaskID != nil && (e.TaskID == nil || *e.TaskID != *opts.TaskID) {
			continue
		}
		if opts.ActivityType != nil && e.ActivityType != *opts.ActivityType {
			continue
		}
		out = append(out, cloneEntry(e))
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// cloneEntry detaches the TaskID pointer from the caller's copy.
func cloneEntry(e activity.ActivityEntry) activity.ActivityEntry {
	if e.TaskID != nil {
		id := *e.TaskID
		e.TaskID = &id
	}
	return e
}
