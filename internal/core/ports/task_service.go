package ports

import (
	"context"
	"time"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// SubmitTaskInput carries the draft of a new task.
type SubmitTaskInput struct {
	Title       string
	Description string
	Hours       float64
	Date        time.Time
	Tags        []string
	// AssigneeID is honoured for managers only; empty means the caller.
	AssigneeID string
	// IdempotencyKey replays the task created by an earlier submission with the same key.
	IdempotencyKey string
}

// TaskChanges carries a partial update; nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	Hours       *float64
	Date        *time.Time
	Tags        *[]string
	AssigneeID  *string
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Hours == nil &&
		c.Date == nil && c.Tags == nil && c.AssigneeID == nil
}

// ListTasksInput carries the list filters requested by the caller.
type ListTasksInput struct {
	Status     string
	Tag        string
	AssigneeID string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	Limit      int
}

// ListTasksResult is returned by List.
type ListTasksResult struct {
	Items      []*domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// SubmitResult wraps a submitted task.
type SubmitResult struct {
	Task *domain.Task
	// Replayed is true when the Idempotency-Key matched an earlier submission.
	Replayed bool
}

// TaskService defines the task lifecycle operations. Every call receives the
// authenticated principal explicitly.
type TaskService interface {
	Submit(ctx context.Context, p domain.Principal, input SubmitTaskInput) (*SubmitResult, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Task, error)
	List(ctx context.Context, p domain.Principal, input ListTasksInput) (*ListTasksResult, error)
	Update(ctx context.Context, p domain.Principal, id string, changes TaskChanges) (*domain.Task, error)
	Approve(ctx context.Context, p domain.Principal, id string) (*domain.Task, error)
	Reject(ctx context.Context, p domain.Principal, id, feedback string) (*domain.Task, error)
	Resubmit(ctx context.Context, p domain.Principal, id string, changes TaskChanges) (*domain.Task, error)
	ToggleCompletion(ctx context.Context, p domain.Principal, id string) (*domain.Task, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	Activity(ctx context.Context, p domain.Principal, id string) ([]*domain.TaskActivity, error)
}

// ActivityService persists dispatched task activity.
type ActivityService interface {
	Process(ctx context.Context, a domain.TaskActivity) error
}
