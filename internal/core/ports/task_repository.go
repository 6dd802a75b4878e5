package ports

import (
	"context"
	"time"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// TaskFilter carries all query parameters for listing tasks.
// AssigneeID scoping for non-managers is enforced by the service layer.
type TaskFilter struct {
	AssigneeID string            // empty = all assignees
	Status     domain.TaskStatus // optional
	Tag        string            // optional: exact, case-sensitive tag match
	DateFrom   time.Time         // optional: date >= DateFrom
	DateTo     time.Time         // optional: date <= DateTo
	Page       int               // 1-based
	Limit      int               // 0 = no limit
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Update persists t when its stored version still equals t.Version and
	// bumps t.Version. A mismatch returns domain.ErrStaleTask.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// List returns a page of tasks ordered by date desc, created_at desc, and the total count.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int64, error)
	// SumHours totals the hours an assignee logged on day, ignoring excludeID.
	SumHours(ctx context.Context, assigneeID string, day time.Time, excludeID string) (float64, error)
}

// ActivityRepository persists the audit trail of task operations.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.TaskActivity) error
	// ListByTask returns the activity of a task, oldest first.
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskActivity, error)
}

// IdempotencyStore reserves client-supplied keys and remembers which task
// each one created.
type IdempotencyStore interface {
	// Reserve claims key atomically. When the key is already taken it
	// returns reserved=false and the stored task id, which is "" while the
	// first submission is still in flight.
	Reserve(ctx context.Context, key string) (taskID string, reserved bool, err error)
	// Complete stores the task created under a reserved key.
	Complete(ctx context.Context, key, taskID string) error
	// Release drops a reservation whose submission failed.
	Release(ctx context.Context, key string) error
}

// ActivityRecorder accepts activity for asynchronous persistence.
type ActivityRecorder interface {
	Record(a domain.TaskActivity)
}
