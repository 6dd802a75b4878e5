package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
	"github.com/99minutos/task-tracker/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// DefaultDailyHoursLimit caps the hours one assignee may log on a single day.
	DefaultDailyHoursLimit = 8.0
)

var errNoAccess = domain.Forbidden("you do not have access to this task")

// TaskOption customises a TaskService.
type TaskOption func(*TaskService)

// WithActivityRecorder sends lifecycle activity to r.
func WithActivityRecorder(r ports.ActivityRecorder) TaskOption {
	return func(s *TaskService) { s.recorder = r }
}

// WithIdempotencyStore enables Idempotency-Key replay on Submit.
func WithIdempotencyStore(store ports.IdempotencyStore) TaskOption {
	return func(s *TaskService) { s.idempotency = store }
}

// WithDailyHoursLimit overrides the per-day hours limit. Zero or less disables it.
func WithDailyHoursLimit(limit float64) TaskOption {
	return func(s *TaskService) { s.dailyLimit = limit }
}

// TaskService implements the task lifecycle.
type TaskService struct {
	tasks       ports.TaskRepository
	users       ports.UserRepository
	activity    ports.ActivityRepository
	recorder    ports.ActivityRecorder
	idempotency ports.IdempotencyStore
	dailyLimit  float64
	logger      zerolog.Logger
	now         func() time.Time
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, activity ports.ActivityRepository, logger zerolog.Logger, opts ...TaskOption) *TaskService {
	s := &TaskService{
		tasks:      tasks,
		users:      users,
		activity:   activity,
		dailyLimit: DefaultDailyHoursLimit,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit creates a pending task. The assignee is the caller unless a manager
// names someone else.
func (s *TaskService) Submit(ctx context.Context, p domain.Principal, input ports.SubmitTaskInput) (*ports.SubmitResult, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var idemKey string
	if input.IdempotencyKey != "" && s.idempotency != nil {
		key := p.UserID + ":" + input.IdempotencyKey
		existing, reserved, err := s.reserve(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ports.SubmitResult{Task: existing, Replayed: true}, nil
		}
		if reserved {
			idemKey = key
		}
	}

	created := false
	if idemKey != "" {
		defer func() {
			if created {
				return
			}
			if err := s.idempotency.Release(context.WithoutCancel(ctx), idemKey); err != nil {
				s.log(ctx).Warn().Err(err).Msg("failed to release idempotency key")
			}
		}()
	}

	now := s.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Hours:       input.Hours,
		Date:        domain.DateOf(input.Date),
		Tags:        domain.NormalizeTags(input.Tags),
		Status:      domain.StatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.ValidateFields(); err != nil {
		return nil, err
	}

	assigneeID, err := s.resolveAssignee(ctx, p, input.AssigneeID)
	if err != nil {
		return nil, err
	}
	task.AssigneeID = assigneeID

	if err := s.checkDailyHours(ctx, task); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to create task")
		return nil, err
	}
	created = true

	if idemKey != "" {
		if err := s.idempotency.Complete(ctx, idemKey, task.ID); err != nil {
			s.log(ctx).Warn().Err(err).Str("task_id", task.ID).Msg("failed to store idempotency key")
		}
	}

	s.record(task, p, domain.ActionSubmitted, "", "")
	s.log(ctx).Info().Str("task_id", task.ID).Str("assignee_id", task.AssigneeID).Str("actor_id", p.UserID).Msg("task submitted")

	return &ports.SubmitResult{Task: task}, nil
}

// reserve claims key before the task is created. It returns the task to
// replay when the key already completed. A store outage degrades to a plain
// submit.
func (s *TaskService) reserve(ctx context.Context, key string) (*domain.Task, bool, error) {
	taskID, reserved, err := s.idempotency.Reserve(ctx, key)
	if err != nil {
		s.log(ctx).Warn().Err(err).Msg("idempotency reserve failed")
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}
	if taskID == "" {
		return nil, false, domain.ErrSubmitInProgress
	}
	existing, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		// deleted since; submit afresh without the key
		return nil, false, nil
	}
	s.log(ctx).Info().Str("task_id", existing.ID).Msg("idempotent replay")
	return existing, false, nil
}

// Get returns a task visible to the caller.
func (s *TaskService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(p, task) {
		return nil, errNoAccess
	}
	return task, nil
}

// List returns a page of tasks. Non-managers only ever see their own tasks.
func (s *TaskService) List(ctx context.Context, p domain.Principal, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	filter := ports.TaskFilter{
		Tag:      input.Tag,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
	}
	if input.Status != "" {
		status := domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.Validation("status must be one of: pending, approved, rejected")
		}
		filter.Status = status
	}
	if !filter.DateFrom.IsZero() && !filter.DateTo.IsZero() && filter.DateTo.Before(filter.DateFrom) {
		return nil, domain.Validation("end_date must not be before start_date")
	}

	if p.IsManager {
		filter.AssigneeID = input.AssigneeID
	} else {
		filter.AssigneeID = p.UserID
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	filter.Page = page
	filter.Limit = limit

	items, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to list tasks")
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.ListTasksResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update edits a pending task. Only a manager may reassign it.
func (s *TaskService) Update(ctx context.Context, p domain.Principal, id string, changes ports.TaskChanges) (*domain.Task, error) {
	if changes.Empty() {
		return nil, domain.Validation("no fields to update")
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(p, task) {
		return nil, errNoAccess
	}
	if task.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: only pending tasks can be edited", domain.ErrInvalidTransition)
	}

	if changes.AssigneeID != nil && *changes.AssigneeID != task.AssigneeID {
		if !p.IsManager {
			return nil, domain.Forbidden("only managers may reassign tasks")
		}
		assigneeID, err := s.resolveAssignee(ctx, p, *changes.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = assigneeID
	}

	applyChanges(task, changes)
	if err := task.ValidateFields(); err != nil {
		return nil, err
	}
	if err := s.checkDailyHours(ctx, task); err != nil {
		return nil, err
	}

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	s.record(task, p, domain.ActionUpdated, task.Status, "")
	return task, nil
}

// Approve marks a pending task approved. Manager only.
func (s *TaskService) Approve(ctx context.Context, p domain.Principal, id string) (*domain.Task, error) {
	if err := p.RequireManager(); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := task.Status
	if err := task.Approve(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	s.record(task, p, domain.ActionApproved, from, "")
	s.log(ctx).Info().Str("task_id", task.ID).Str("manager_id", p.UserID).Msg("task approved")
	return task, nil
}

// Reject marks a pending task rejected with feedback. Manager only.
func (s *TaskService) Reject(ctx context.Context, p domain.Principal, id, feedback string) (*domain.Task, error) {
	if err := p.RequireManager(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, domain.Validation("feedback is required when rejecting a task")
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := task.Status
	if err := task.Reject(feedback); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	s.record(task, p, domain.ActionRejected, from, *task.Feedback)
	s.log(ctx).Info().Str("task_id", task.ID).Str("manager_id", p.UserID).Msg("task rejected")
	return task, nil
}

// Resubmit applies changes to a rejected task and returns it to pending. Assignee only.
func (s *TaskService) Resubmit(ctx context.Context, p domain.Principal, id string, changes ports.TaskChanges) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignee(p.UserID) {
		return nil, domain.ErrNotAssignee
	}
	if task.Status != domain.StatusRejected {
		return nil, fmt.Errorf("%w: only rejected tasks can be resubmitted", domain.ErrInvalidTransition)
	}
	if changes.AssigneeID != nil && *changes.AssigneeID != task.AssigneeID {
		return nil, domain.Validation("assignee cannot be changed on resubmit")
	}

	from := task.Status
	applyChanges(task, changes)
	if err := task.ValidateFields(); err != nil {
		return nil, err
	}
	if err := task.Resubmit(); err != nil {
		return nil, err
	}
	if err := s.checkDailyHours(ctx, task); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	s.record(task, p, domain.ActionResubmitted, from, "")
	s.log(ctx).Info().Str("task_id", task.ID).Msg("task resubmitted")
	return task, nil
}

// ToggleCompletion flips the completion flag of an approved task. Assignee only.
func (s *TaskService) ToggleCompletion(ctx context.Context, p domain.Principal, id string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignee(p.UserID) {
		return nil, domain.ErrNotAssignee
	}
	if err := task.ToggleCompletion(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	s.record(task, p, domain.ActionCompletionToggled, task.Status, "")
	return task, nil
}

// Delete removes a task. Managers may delete any task; assignees only pending ones.
func (s *TaskService) Delete(ctx context.Context, p domain.Principal, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case p.IsManager:
	case task.IsAssignee(p.UserID) && task.Status == domain.StatusPending:
	case task.IsAssignee(p.UserID):
		return domain.Forbidden("only pending tasks can be deleted by their assignee")
	default:
		return errNoAccess
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.record(task, p, domain.ActionDeleted, task.Status, "")
	s.log(ctx).Info().Str("task_id", task.ID).Str("actor_id", p.UserID).Msg("task deleted")
	return nil
}

// Activity returns the audit trail of a task visible to the caller.
func (s *TaskService) Activity(ctx context.Context, p domain.Principal, id string) ([]*domain.TaskActivity, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(p, task) {
		return nil, errNoAccess
	}
	return s.activity.ListByTask(ctx, task.ID)
}

func (s *TaskService) resolveAssignee(ctx context.Context, p domain.Principal, requested string) (string, error) {
	if requested == "" || requested == p.UserID {
		return p.UserID, nil
	}
	if !p.IsManager {
		return "", domain.Forbidden("only managers may assign tasks to other users")
	}
	user, err := s.users.FindByID(ctx, requested)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrAssigneeNotFound
		}
		return "", err
	}
	return user.ID, nil
}

func (s *TaskService) checkDailyHours(ctx context.Context, task *domain.Task) error {
	if s.dailyLimit <= 0 {
		return nil
	}
	logged, err := s.tasks.SumHours(ctx, task.AssigneeID, task.Date, task.ID)
	if err != nil {
		return err
	}
	// Hours are entered with one decimal; the epsilon absorbs float drift.
	if logged+task.Hours > s.dailyLimit+1e-9 {
		return domain.Validation(fmt.Sprintf(
			"daily hours limit exceeded: %.1f hours already logged on %s, limit is %g",
			logged, task.Date.Format(domain.DateLayout), s.dailyLimit,
		))
	}
	return nil
}

func (s *TaskService) save(ctx context.Context, task *domain.Task) error {
	if err := task.CheckInvariants(); err != nil {
		return err
	}
	task.UpdatedAt = s.now()
	if err := s.tasks.Update(ctx, task); err != nil {
		if !errors.Is(err, domain.ErrStaleTask) {
			s.log(ctx).Error().Err(err).Str("task_id", task.ID).Msg("failed to update task")
		}
		return err
	}
	return nil
}

func (s *TaskService) record(task *domain.Task, p domain.Principal, action domain.ActivityAction, from domain.TaskStatus, feedback string) {
	if s.recorder == nil {
		return
	}
	to := task.Status
	if action == domain.ActionDeleted {
		to = ""
	}
	s.recorder.Record(domain.TaskActivity{
		ID:         uuid.NewString(),
		TaskID:     task.ID,
		ActorID:    p.UserID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Feedback:   feedback,
		OccurredAt: s.now(),
	})
}

// log prefers the request-scoped logger carried by ctx.
func (s *TaskService) log(ctx context.Context) *zerolog.Logger {
	l := logger.FromContext(ctx, s.logger)
	return &l
}

func canView(p domain.Principal, task *domain.Task) bool {
	return p.IsManager || task.IsAssignee(p.UserID)
}

func applyChanges(task *domain.Task, c ports.TaskChanges) {
	if c.Title != nil {
		task.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		task.Description = strings.TrimSpace(*c.Description)
	}
	if c.Hours != nil {
		task.Hours = *c.Hours
	}
	if c.Date != nil {
		task.Date = domain.DateOf(*c.Date)
	}
	if c.Tags != nil {
		task.Tags = domain.NormalizeTags(*c.Tags)
	}
}
