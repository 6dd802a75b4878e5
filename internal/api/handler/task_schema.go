package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// --- Request types ---

type submitTaskRequest struct {
	Title       string   `json:"title"       validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Hours       float64  `json:"hours"       validate:"gt=0"`
	Date        string   `json:"date"        validate:"required,datetime=2006-01-02"`
	Tags        []string `json:"tags"        validate:"omitempty,max=20,dive,max=50"`
	AssigneeID  string   `json:"assignee_id"`
}

// taskChangesRequest is a partial update; absent fields are left untouched.
type taskChangesRequest struct {
	Title       *string   `json:"title"       validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Hours       *float64  `json:"hours"`
	Date        *string   `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	Tags        *[]string `json:"tags"        validate:"omitempty,max=20,dive,max=50"`
	AssigneeID  *string   `json:"assignee_id"`
}

type rejectTaskRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

type listTasksQuery struct {
	Status     string `query:"status"      validate:"omitempty,oneof=pending approved rejected"`
	StartDate  string `query:"start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `query:"end_date"    validate:"omitempty,datetime=2006-01-02"`
	Tag        string `query:"tag"`
	AssigneeID string `query:"assignee_id"`
	Page       int    `query:"page"        validate:"gte=0"`
	Limit      int    `query:"limit"       validate:"gte=0,lte=100"`
}

// --- Response types ---

type taskLinks struct {
	Self     string `json:"self"`
	Activity string `json:"activity"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Hours       float64   `json:"hours"`
	Date        string    `json:"date"`
	Tags        []string  `json:"tags"`
	AssigneeID  string    `json:"assignee_id"`
	Status      string    `json:"status"`
	Feedback    *string   `json:"feedback"`
	Completed   bool      `json:"completed"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Links       taskLinks `json:"_links"`
}

type listTasksResponse struct {
	Items      []taskResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type activityResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
