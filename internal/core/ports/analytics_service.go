package ports

import (
	"context"
	"time"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// DateRange is an inclusive range of calendar days. Zero values select the default range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DailyStat aggregates one day of work.
type DailyStat struct {
	Date  time.Time
	Hours float64
	Tasks int
}

// TagCount is a tag with the number of tasks carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// EmployeeHours aggregates the work of one assignee.
type EmployeeHours struct {
	UserID string
	Name   string
	Email  string
	Hours  float64
	Tasks  int
}

// WeeklySummary is one employee's activity over a range (a week by default).
type WeeklySummary struct {
	EmployeeID   string
	Start        time.Time
	End          time.Time
	Daily        []DailyStat
	StatusCounts map[domain.TaskStatus]int
	TotalHours   float64
	TopTags      []TagCount
}

// TeamSummary is the team's activity over a range (a month by default).
type TeamSummary struct {
	Start           time.Time
	End             time.Time
	StatusCounts    map[domain.TaskStatus]int
	EmployeeHours   []EmployeeHours
	TotalHours      float64
	TasksPerDay     []DailyStat
	TopTags         []TagCount
	PendingApproval int
}

// AnalyticsService defines reporting use-cases.
type AnalyticsService interface {
	// WeeklySummary reports on employeeID, or on the caller when employeeID is empty.
	WeeklySummary(ctx context.Context, p domain.Principal, employeeID string, r DateRange) (*WeeklySummary, error)
	TeamSummary(ctx context.Context, p domain.Principal, r DateRange) (*TeamSummary, error)
}
