package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the review state of a task.
type TaskStatus string

const (
	StatusPending  TaskStatus = "pending"
	StatusApproved TaskStatus = "approved"
	StatusRejected TaskStatus = "rejected"
)

// MaxTaskHours bounds the hours a single task may log.
const MaxTaskHours = 8.0

// DateLayout is the wire format of a task date.
const DateLayout = "2006-01-02"

// validTransitions defines the allowed review transitions.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusRejected: {StatusPending},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Task is a unit of logged work owned by an assignee.
type Task struct {
	ID          string
	Title       string
	Description string
	Hours       float64
	Date        time.Time
	Tags        []string
	AssigneeID  string
	Status      TaskStatus
	Feedback    *string
	Completed   bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssignee reports whether userID owns the task.
func (t *Task) IsAssignee(userID string) bool {
	return t.AssigneeID == userID
}

// Approve moves a pending task to approved and clears feedback.
func (t *Task) Approve() error {
	if err := t.transition(StatusApproved); err != nil {
		return err
	}
	t.Feedback = nil
	return nil
}

// Reject moves a pending task to rejected with the given feedback.
func (t *Task) Reject(feedback string) error {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return Validation("feedback is required when rejecting a task")
	}
	if err := t.transition(StatusRejected); err != nil {
		return err
	}
	t.Feedback = &feedback
	t.Completed = false
	return nil
}

// Resubmit moves a rejected task back to pending and clears feedback.
func (t *Task) Resubmit() error {
	if err := t.transition(StatusPending); err != nil {
		return err
	}
	t.Feedback = nil
	t.Completed = false
	return nil
}

// ToggleCompletion flips the completion flag of an approved task.
func (t *Task) ToggleCompletion() error {
	if t.Status != StatusApproved {
		return Forbidden("completion can only be toggled on approved tasks")
	}
	t.Completed = !t.Completed
	return nil
}

func (t *Task) transition(next TaskStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s task cannot become %s", ErrInvalidTransition, t.Status, next)
	}
	t.Status = next
	return nil
}

// ValidateFields checks the user-editable fields of a task.
func (t *Task) ValidateFields() error {
	if strings.TrimSpace(t.Title) == "" {
		return Validation("title is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return Validation("description is required")
	}
	if t.Hours <= 0 {
		return Validation("hours must be greater than 0")
	}
	if t.Hours > MaxTaskHours {
		return Validation(fmt.Sprintf("hours must not exceed %g", MaxTaskHours))
	}
	if t.Date.IsZero() {
		return Validation("date is required")
	}
	return nil
}

// CheckInvariants reports a violation of the status/feedback/completion rules.
func (t *Task) CheckInvariants() error {
	if t.Status == StatusRejected && (t.Feedback == nil || strings.TrimSpace(*t.Feedback) == "") {
		return fmt.Errorf("task %s: rejected without feedback", t.ID)
	}
	if t.Completed && t.Status != StatusApproved {
		return fmt.Errorf("task %s: completed while %s", t.ID, t.Status)
	}
	return nil
}

// NormalizeTags drops empty tags and duplicates, keeping first-seen order.
// Comparison is case-sensitive.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return d, nil
}
