package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

func newAnalyticsFixture(now time.Time) (*AnalyticsService, *stubTaskRepo) {
	tasks := newStubTaskRepo()
	users := newStubUserRepo(userAlice, userBob, userManager)
	svc := NewAnalyticsService(tasks, users, discardLogger)
	svc.now = func() time.Time { return now }
	return svc, tasks
}

func putTask(repo *stubTaskRepo, id, assignee, date string, hours float64, status domain.TaskStatus, tags ...string) {
	t := &domain.Task{
		ID:         id,
		Title:      id,
		Hours:      hours,
		Date:       day(date),
		Tags:       tags,
		AssigneeID: assignee,
		Status:     status,
	}
	if status == domain.StatusRejected {
		t.Feedback = strPtr("redo")
	}
	repo.put(t)
}

func TestWeekBounds(t *testing.T) {
	// 2024-03-07 is a Thursday.
	start, end := weekBounds(time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC))
	if !start.Equal(day("2024-03-04")) || !end.Equal(day("2024-03-10")) {
		t.Fatalf("unexpected week: %s..%s", start, end)
	}

	// Sunday belongs to the week that started on the previous Monday.
	start, _ = weekBounds(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	if !start.Equal(day("2024-03-04")) {
		t.Fatalf("unexpected week start for sunday: %s", start)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC))
	if !start.Equal(day("2024-02-01")) || !end.Equal(day("2024-02-29")) {
		t.Fatalf("unexpected month: %s..%s", start, end)
	}
}

func TestAnalyticsService_WeeklySummary_Self(t *testing.T) {
	svc, tasks := newAnalyticsFixture(time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC))
	putTask(tasks, "t-1", alice.UserID, "2024-03-04", 3, domain.StatusApproved, "docs", "ops")
	putTask(tasks, "t-2", alice.UserID, "2024-03-04", 2.5, domain.StatusPending, "docs")
	putTask(tasks, "t-3", alice.UserID, "2024-03-06", 1, domain.StatusRejected, "ops", "docs")
	putTask(tasks, "t-4", alice.UserID, "2024-03-12", 4, domain.StatusPending, "later")
	putTask(tasks, "t-5", bob.UserID, "2024-03-05", 7, domain.StatusPending, "bob")

	s, err := svc.WeeklySummary(context.Background(), alice, "", ports.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.EmployeeID != alice.UserID {
		t.Errorf("unexpected employee: %s", s.EmployeeID)
	}
	if len(s.Daily) != 7 {
		t.Fatalf("expected 7 days, got %d", len(s.Daily))
	}
	if s.Daily[0].Hours != 5.5 || s.Daily[0].Tasks != 2 {
		t.Errorf("unexpected monday: %+v", s.Daily[0])
	}
	if s.Daily[2].Hours != 1 || s.Daily[1].Tasks != 0 {
		t.Errorf("unexpected tuesday/wednesday: %+v %+v", s.Daily[1], s.Daily[2])
	}
	if s.TotalHours != 6.5 {
		t.Errorf("expected 6.5 total hours, got %v", s.TotalHours)
	}
	if s.StatusCounts[domain.StatusPending] != 1 || s.StatusCounts[domain.StatusApproved] != 1 || s.StatusCounts[domain.StatusRejected] != 1 {
		t.Errorf("unexpected status counts: %v", s.StatusCounts)
	}
	if len(s.TopTags) != 2 || s.TopTags[0].Tag != "docs" || s.TopTags[0].Count != 3 {
		t.Errorf("unexpected top tags: %+v", s.TopTags)
	}
}

func TestAnalyticsService_WeeklySummary_OtherEmployee(t *testing.T) {
	svc, tasks := newAnalyticsFixture(time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC))
	putTask(tasks, "t-5", bob.UserID, "2024-03-05", 7, domain.StatusPending)

	if _, err := svc.WeeklySummary(context.Background(), alice, bob.UserID, ports.DateRange{}); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	s, err := svc.WeeklySummary(context.Background(), manager, bob.UserID, ports.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalHours != 7 {
		t.Errorf("expected 7 hours, got %v", s.TotalHours)
	}

	if _, err := svc.WeeklySummary(context.Background(), manager, "ghost", ports.DateRange{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnalyticsService_WeeklySummary_InvalidRange(t *testing.T) {
	svc, _ := newAnalyticsFixture(time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC))

	r := ports.DateRange{Start: day("2024-03-10"), End: day("2024-03-01")}
	if _, err := svc.WeeklySummary(context.Background(), alice, "", r); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalyticsService_TeamSummary(t *testing.T) {
	svc, tasks := newAnalyticsFixture(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	putTask(tasks, "t-1", alice.UserID, "2024-03-04", 3, domain.StatusApproved, "docs")
	putTask(tasks, "t-2", bob.UserID, "2024-03-04", 6, domain.StatusPending, "ops")
	putTask(tasks, "t-3", bob.UserID, "2024-03-20", 1, domain.StatusPending, "ops")
	putTask(tasks, "t-4", alice.UserID, "2024-02-28", 5, domain.StatusApproved, "old")

	s, err := svc.TeamSummary(context.Background(), manager, ports.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Start.Equal(day("2024-03-01")) || !s.End.Equal(day("2024-03-31")) {
		t.Errorf("unexpected range: %s..%s", s.Start, s.End)
	}
	if s.TotalHours != 10 {
		t.Errorf("expected 10 hours, got %v", s.TotalHours)
	}
	if s.PendingApproval != 2 {
		t.Errorf("expected 2 pending, got %d", s.PendingApproval)
	}
	if len(s.EmployeeHours) != 2 || s.EmployeeHours[0].UserID != bob.UserID || s.EmployeeHours[0].Name != "Bob" || s.EmployeeHours[0].Hours != 7 {
		t.Errorf("unexpected employee hours: %+v", s.EmployeeHours)
	}
	if len(s.TasksPerDay) != 31 || s.TasksPerDay[3].Tasks != 2 {
		t.Errorf("unexpected tasks per day")
	}
	if len(s.TopTags) != 2 || s.TopTags[0].Tag != "ops" {
		t.Errorf("unexpected top tags: %+v", s.TopTags)
	}
}

func TestAnalyticsService_TeamSummary_ManagerOnly(t *testing.T) {
	svc, _ := newAnalyticsFixture(time.Now())

	if _, err := svc.TeamSummary(context.Background(), alice, ports.DateRange{}); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}
