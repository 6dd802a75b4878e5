package domain

import "time"

// ActivityAction names a lifecycle operation recorded in a task's audit trail.
type ActivityAction string

const (
	ActionSubmitted         ActivityAction = "submitted"
	ActionUpdated           ActivityAction = "updated"
	ActionApproved          ActivityAction = "approved"
	ActionRejected          ActivityAction = "rejected"
	ActionResubmitted       ActivityAction = "resubmitted"
	ActionCompletionToggled ActivityAction = "completion_toggled"
	ActionDeleted           ActivityAction = "deleted"
)

// TaskActivity records a single lifecycle operation on a task.
type TaskActivity struct {
	ID         string
	TaskID     string
	ActorID    string
	Action     ActivityAction
	FromStatus TaskStatus
	ToStatus   TaskStatus
	Feedback   string
	OccurredAt time.Time
}
