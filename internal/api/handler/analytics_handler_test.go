package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

func TestAnalyticsHandler_Weekly(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	stub := &stubAnalyticsService{
		weeklyFn: func(ctx context.Context, p domain.Principal, employeeID string, r ports.DateRange) (*ports.WeeklySummary, error) {
			if employeeID != "u-1" {
				t.Fatalf("unexpected employee %q", employeeID)
			}
			if !r.Start.Equal(start) || !r.End.IsZero() {
				t.Fatalf("unexpected range %+v", r)
			}
			return &ports.WeeklySummary{
				EmployeeID:   "u-1",
				Start:        start,
				End:          start.AddDate(0, 0, 6),
				Daily:        []ports.DailyStat{{Date: start, Hours: 3, Tasks: 2}},
				StatusCounts: map[domain.TaskStatus]int{domain.StatusApproved: 2},
				TotalHours:   3,
				TopTags:      []ports.TagCount{{Tag: "docs", Count: 2}},
			}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/api/v1/analytics/weekly?employee_id=u-1&start_date=2024-03-04", "", &manager)

	if err := NewAnalyticsHandler(stub).Weekly(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp weeklySummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.StartDate != "2024-03-04" || resp.EndDate != "2024-03-10" {
		t.Fatalf("unexpected range: %s..%s", resp.StartDate, resp.EndDate)
	}
	if resp.StatusCounts["approved"] != 2 || resp.StatusCounts["pending"] != 0 {
		t.Fatalf("unexpected status counts: %+v", resp.StatusCounts)
	}
	if len(resp.Daily) != 1 || resp.Daily[0].Date != "2024-03-04" {
		t.Fatalf("unexpected daily stats: %+v", resp.Daily)
	}
}

func TestAnalyticsHandler_Weekly_BadDate(t *testing.T) {
	c, _ := newContext(t, http.MethodGet, "/api/v1/analytics/weekly?start_date=yesterday", "", &employee)
	err := NewAnalyticsHandler(&stubAnalyticsService{}).Weekly(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalyticsHandler_Team(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubAnalyticsService{
		teamFn: func(ctx context.Context, p domain.Principal, r ports.DateRange) (*ports.TeamSummary, error) {
			return &ports.TeamSummary{
				Start:           start,
				End:             start.AddDate(0, 1, -1),
				StatusCounts:    map[domain.TaskStatus]int{domain.StatusPending: 1},
				EmployeeHours:   []ports.EmployeeHours{{UserID: "u-1", Name: "Alice", Hours: 5, Tasks: 2}},
				TotalHours:      5,
				PendingApproval: 1,
			}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/api/v1/analytics/team", "", &manager)

	if err := NewAnalyticsHandler(stub).Team(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp teamSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.EndDate != "2024-03-31" || resp.PendingApproval != 1 || len(resp.EmployeeHours) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAnalyticsHandler_Team_Forbidden(t *testing.T) {
	stub := &stubAnalyticsService{
		teamFn: func(ctx context.Context, p domain.Principal, r ports.DateRange) (*ports.TeamSummary, error) {
			return nil, domain.ErrManagerRequired
		},
	}
	c, _ := newContext(t, http.MethodGet, "/api/v1/analytics/team", "", &employee)
	if err := NewAnalyticsHandler(stub).Team(c); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestMe(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		wantRole  string
	}{
		{"manager", manager, "manager"},
		{"employee", employee, "employee"},
		{"non member", domain.Principal{UserID: "u-9", Name: "Guest"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodGet, "/api/v1/me", "", &tt.principal)
			if err := Me(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp meResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.UserID != tt.principal.UserID || resp.Role != tt.wantRole {
				t.Fatalf("unexpected payload: %+v", resp)
			}
		})
	}
}
