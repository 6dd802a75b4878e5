package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/api/middleware"
	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

var (
	employee = domain.Principal{UserID: "u-1", Name: "Alice", Email: "alice@example.com", IsMember: true}
	manager  = domain.Principal{UserID: "m-1", Name: "Mia", Email: "mia@example.com", IsMember: true, IsManager: true}
)

// newContext builds an echo context with the principal already injected.
func newContext(t *testing.T, method, target, body string, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.PrincipalKey, *p)
	}
	return c, rec
}

type stubTaskService struct {
	submitFn   func(ctx context.Context, p domain.Principal, in ports.SubmitTaskInput) (*ports.SubmitResult, error)
	getFn      func(ctx context.Context, p domain.Principal, id string) (*domain.Task, error)
	listFn     func(ctx context.Context, p domain.Principal, in ports.ListTasksInput) (*ports.ListTasksResult, error)
	updateFn   func(ctx context.Context, p domain.Principal, id string, ch ports.TaskChanges) (*domain.Task, error)
	approveFn  func(ctx context.Context, p domain.Principal, id string) (*domain.Task, error)
	rejectFn   func(ctx context.Context, p domain.Principal, id, feedback string) (*domain.Task, error)
	resubmitFn func(ctx context.Context, p domain.Principal, id string, ch ports.TaskChanges) (*domain.Task, error)
	toggleFn   func(ctx context.Context, p domain.Principal, id string) (*domain.Task, error)
	deleteFn   func(ctx context.Context, p domain.Principal, id string) error
	activityFn func(ctx context.Context, p domain.Principal, id string) ([]*domain.TaskActivity, error)
}

func (s *stubTaskService) Submit(ctx context.Context, p domain.Principal, in ports.SubmitTaskInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, p, in)
}

func (s *stubTaskService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Task, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubTaskService) List(ctx context.Context, p domain.Principal, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	return s.listFn(ctx, p, in)
}

func (s *stubTaskService) Update(ctx context.Context, p domain.Principal, id string, ch ports.TaskChanges) (*domain.Task, error) {
	return s.updateFn(ctx, p, id, ch)
}

func (s *stubTaskService) Approve(ctx context.Context, p domain.Principal, id string) (*domain.Task, error) {
	return s.approveFn(ctx, p, id)
}

func (s *stubTaskService) Reject(ctx context.Context, p domain.Principal, id, feedback string) (*domain.Task, error) {
	return s.rejectFn(ctx, p, id, feedback)
}

func (s *stubTaskService) Resubmit(ctx context.Context, p domain.Principal, id string, ch ports.TaskChanges) (*domain.Task, error) {
	return s.resubmitFn(ctx, p, id, ch)
}

func (s *stubTaskService) ToggleCompletion(ctx context.Context, p domain.Principal, id string) (*domain.Task, error) {
	return s.toggleFn(ctx, p, id)
}

func (s *stubTaskService) Delete(ctx context.Context, p domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubTaskService) Activity(ctx context.Context, p domain.Principal, id string) ([]*domain.TaskActivity, error) {
	return s.activityFn(ctx, p, id)
}

type stubRosterService struct {
	listFn   func(ctx context.Context, p domain.Principal) ([]*domain.MemberDetail, error)
	addFn    func(ctx context.Context, p domain.Principal, email, role string) (*domain.MemberDetail, error)
	updateFn func(ctx context.Context, p domain.Principal, userID, role string) (*domain.MemberDetail, error)
	removeFn func(ctx context.Context, p domain.Principal, userID string) error
}

func (s *stubRosterService) ListMembers(ctx context.Context, p domain.Principal) ([]*domain.MemberDetail, error) {
	return s.listFn(ctx, p)
}

func (s *stubRosterService) AddMember(ctx context.Context, p domain.Principal, email, role string) (*domain.MemberDetail, error) {
	return s.addFn(ctx, p, email, role)
}

func (s *stubRosterService) UpdateRole(ctx context.Context, p domain.Principal, userID, role string) (*domain.MemberDetail, error) {
	return s.updateFn(ctx, p, userID, role)
}

func (s *stubRosterService) RemoveMember(ctx context.Context, p domain.Principal, userID string) error {
	return s.removeFn(ctx, p, userID)
}

type stubAnalyticsService struct {
	weeklyFn func(ctx context.Context, p domain.Principal, employeeID string, r ports.DateRange) (*ports.WeeklySummary, error)
	teamFn   func(ctx context.Context, p domain.Principal, r ports.DateRange) (*ports.TeamSummary, error)
}

func (s *stubAnalyticsService) WeeklySummary(ctx context.Context, p domain.Principal, employeeID string, r ports.DateRange) (*ports.WeeklySummary, error) {
	return s.weeklyFn(ctx, p, employeeID, r)
}

func (s *stubAnalyticsService) TeamSummary(ctx context.Context, p domain.Principal, r ports.DateRange) (*ports.TeamSummary, error) {
	return s.teamFn(ctx, p, r)
}
