package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// AnalyticsHandler serves the reporting endpoints.
type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

type rangeQuery struct {
	EmployeeID string `query:"employee_id"`
	StartDate  string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `query:"end_date"   validate:"omitempty,datetime=2006-01-02"`
}

func (q rangeQuery) toRange() (ports.DateRange, error) {
	var r ports.DateRange
	var err error
	if q.StartDate != "" {
		if r.Start, err = domain.ParseDate(q.StartDate); err != nil {
			return r, err
		}
	}
	if q.EndDate != "" {
		if r.End, err = domain.ParseDate(q.EndDate); err != nil {
			return r, err
		}
	}
	return r, nil
}

type dailyStatResponse struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Tasks int     `json:"tasks"`
}

type tagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type employeeHoursResponse struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Hours  float64 `json:"hours"`
	Tasks  int     `json:"tasks"`
}

type weeklySummaryResponse struct {
	EmployeeID   string              `json:"employee_id"`
	StartDate    string              `json:"start_date"`
	EndDate      string              `json:"end_date"`
	Daily        []dailyStatResponse `json:"daily"`
	StatusCounts map[string]int      `json:"status_counts"`
	TotalHours   float64             `json:"total_hours"`
	TopTags      []tagCountResponse  `json:"top_tags"`
}

type teamSummaryResponse struct {
	StartDate       string                  `json:"start_date"`
	EndDate         string                  `json:"end_date"`
	StatusCounts    map[string]int          `json:"status_counts"`
	EmployeeHours   []employeeHoursResponse `json:"employee_hours"`
	TotalHours      float64                 `json:"total_hours"`
	TasksPerDay     []dailyStatResponse     `json:"tasks_per_day"`
	TopTags         []tagCountResponse      `json:"top_tags"`
	PendingApproval int                     `json:"pending_approval"`
}

// Weekly handles GET /api/v1/analytics/weekly.
//
// @Summary      Weekly summary for one employee
// @Description  Defaults to the caller and the current week (Monday to Sunday, UTC).
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  query     string  false  "Employee user ID (managers only for other users)"
// @Param        start_date   query     string  false  "YYYY-MM-DD"
// @Param        end_date     query     string  false  "YYYY-MM-DD"
// @Success      200          {object}  weeklySummaryResponse
// @Failure      403          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /api/v1/analytics/weekly [get]
func (h *AnalyticsHandler) Weekly(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var q rangeQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	r, err := q.toRange()
	if err != nil {
		return err
	}

	s, err := h.service.WeeklySummary(c.Request().Context(), p, q.EmployeeID, r)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, weeklySummaryResponse{
		EmployeeID:   s.EmployeeID,
		StartDate:    s.Start.Format(domain.DateLayout),
		EndDate:      s.End.Format(domain.DateLayout),
		Daily:        toDailyStats(s.Daily),
		StatusCounts: toStatusCounts(s.StatusCounts),
		TotalHours:   s.TotalHours,
		TopTags:      toTagCounts(s.TopTags),
	})
}

// Team handles GET /api/v1/analytics/team.
//
// @Summary      Team summary
// @Description  Defaults to the current calendar month (UTC).
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "YYYY-MM-DD"
// @Param        end_date    query     string  false  "YYYY-MM-DD"
// @Success      200         {object}  teamSummaryResponse
// @Failure      403         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /api/v1/analytics/team [get]
func (h *AnalyticsHandler) Team(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var q rangeQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	r, err := q.toRange()
	if err != nil {
		return err
	}

	s, err := h.service.TeamSummary(c.Request().Context(), p, r)
	if err != nil {
		return err
	}

	employees := make([]employeeHoursResponse, 0, len(s.EmployeeHours))
	for _, e := range s.EmployeeHours {
		employees = append(employees, employeeHoursResponse{
			UserID: e.UserID,
			Name:   e.Name,
			Email:  e.Email,
			Hours:  e.Hours,
			Tasks:  e.Tasks,
		})
	}

	return c.JSON(http.StatusOK, teamSummaryResponse{
		StartDate:       s.Start.Format(domain.DateLayout),
		EndDate:         s.End.Format(domain.DateLayout),
		StatusCounts:    toStatusCounts(s.StatusCounts),
		EmployeeHours:   employees,
		TotalHours:      s.TotalHours,
		TasksPerDay:     toDailyStats(s.TasksPerDay),
		TopTags:         toTagCounts(s.TopTags),
		PendingApproval: s.PendingApproval,
	})
}

func toDailyStats(in []ports.DailyStat) []dailyStatResponse {
	out := make([]dailyStatResponse, 0, len(in))
	for _, d := range in {
		out = append(out, dailyStatResponse{Date: d.Date.Format(domain.DateLayout), Hours: d.Hours, Tasks: d.Tasks})
	}
	return out
}

func toTagCounts(in []ports.TagCount) []tagCountResponse {
	out := make([]tagCountResponse, 0, len(in))
	for _, t := range in {
		out = append(out, tagCountResponse{Tag: t.Tag, Count: t.Count})
	}
	return out
}

func toStatusCounts(in map[domain.TaskStatus]int) map[string]int {
	out := map[string]int{
		string(domain.StatusPending):  0,
		string(domain.StatusApproved): 0,
		string(domain.StatusRejected): 0,
	}
	for status, n := range in {
		out[string(status)] = n
	}
	return out
}
