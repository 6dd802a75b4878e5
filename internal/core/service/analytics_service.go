package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

const (
	weeklyTopTags = 5
	teamTopTags   = 10
	maxRangeDays  = 366
)

// AnalyticsService aggregates task data into summaries.
type AnalyticsService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAnalyticsService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WeeklySummary reports on one employee, the current Monday..Sunday by default.
// Only managers may report on someone other than themselves.
func (s *AnalyticsService) WeeklySummary(ctx context.Context, p domain.Principal, employeeID string, r ports.DateRange) (*ports.WeeklySummary, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	target := p.UserID
	if employeeID != "" && employeeID != p.UserID {
		if !p.IsManager {
			return nil, domain.Forbidden("only managers may view other employees' summaries")
		}
		if _, err := s.users.FindByID(ctx, employeeID); err != nil {
			return nil, err
		}
		target = employeeID
	}

	defStart, defEnd := weekBounds(s.now())
	start, end, err := resolveRange(r, defStart, defEnd)
	if err != nil {
		return nil, err
	}

	tasks, _, err := s.tasks.List(ctx, ports.TaskFilter{AssigneeID: target, DateFrom: start, DateTo: end})
	if err != nil {
		s.logger.Error().Err(err).Str("employee_id", target).Msg("failed to load weekly tasks")
		return nil, err
	}

	summary := &ports.WeeklySummary{
		EmployeeID:   target,
		Start:        start,
		End:          end,
		Daily:        dailyStats(tasks, start, end),
		StatusCounts: statusCounts(tasks),
		TotalHours:   totalHours(tasks),
		TopTags:      topTags(tasks, weeklyTopTags),
	}
	return summary, nil
}

// TeamSummary reports on the whole team, the current calendar month by default. Manager only.
func (s *AnalyticsService) TeamSummary(ctx context.Context, p domain.Principal, r ports.DateRange) (*ports.TeamSummary, error) {
	if err := p.RequireManager(); err != nil {
		return nil, err
	}

	defStart, defEnd := monthBounds(s.now())
	start, end, err := resolveRange(r, defStart, defEnd)
	if err != nil {
		return nil, err
	}

	tasks, _, err := s.tasks.List(ctx, ports.TaskFilter{DateFrom: start, DateTo: end})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load team tasks")
		return nil, err
	}

	employees, err := s.employeeHours(ctx, tasks)
	if err != nil {
		return nil, err
	}

	counts := statusCounts(tasks)
	return &ports.TeamSummary{
		Start:           start,
		End:             end,
		StatusCounts:    counts,
		EmployeeHours:   employees,
		TotalHours:      totalHours(tasks),
		TasksPerDay:     dailyStats(tasks, start, end),
		TopTags:         topTags(tasks, teamTopTags),
		PendingApproval: counts[domain.StatusPending],
	}, nil
}

func (s *AnalyticsService) employeeHours(ctx context.Context, tasks []*domain.Task) ([]ports.EmployeeHours, error) {
	byUser := make(map[string]*ports.EmployeeHours)
	ids := make([]string, 0)
	for _, t := range tasks {
		eh, ok := byUser[t.AssigneeID]
		if !ok {
			eh = &ports.EmployeeHours{UserID: t.AssigneeID}
			byUser[t.AssigneeID] = eh
			ids = append(ids, t.AssigneeID)
		}
		eh.Hours += t.Hours
		eh.Tasks++
	}

	if len(ids) > 0 {
		users, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if eh, ok := byUser[u.ID]; ok {
				eh.Name = u.Name
				eh.Email = u.Email
			}
		}
	}

	out := make([]ports.EmployeeHours, 0, len(byUser))
	for _, id := range ids {
		eh := *byUser[id]
		eh.Hours = round2(eh.Hours)
		out = append(out, eh)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func resolveRange(r ports.DateRange, defStart, defEnd time.Time) (time.Time, time.Time, error) {
	start, end := defStart, defEnd
	if !r.Start.IsZero() {
		start = domain.DateOf(r.Start)
	}
	if !r.End.IsZero() {
		end = domain.DateOf(r.End)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.Validation("end_date must not be before start_date")
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, domain.Validation("date range must not exceed one year")
	}
	return start, end, nil
}

// weekBounds returns Monday and Sunday of the week containing now.
func weekBounds(now time.Time) (time.Time, time.Time) {
	today := domain.DateOf(now)
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// monthBounds returns the first and last day of the month containing now.
func monthBounds(now time.Time) (time.Time, time.Time) {
	today := domain.DateOf(now)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func dailyStats(tasks []*domain.Task, start, end time.Time) []ports.DailyStat {
	index := make(map[time.Time]int)
	stats := make([]ports.DailyStat, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		index[d] = len(stats)
		stats = append(stats, ports.DailyStat{Date: d})
	}
	for _, t := range tasks {
		i, ok := index[domain.DateOf(t.Date)]
		if !ok {
			continue
		}
		stats[i].Hours += t.Hours
		stats[i].Tasks++
	}
	for i := range stats {
		stats[i].Hours = round2(stats[i].Hours)
	}
	return stats
}

func statusCounts(tasks []*domain.Task) map[domain.TaskStatus]int {
	counts := map[domain.TaskStatus]int{
		domain.StatusPending:  0,
		domain.StatusApproved: 0,
		domain.StatusRejected: 0,
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

func totalHours(tasks []*domain.Task) float64 {
	var sum float64
	for _, t := range tasks {
		sum += t.Hours
	}
	return round2(sum)
}

func topTags(tasks []*domain.Task, n int) []ports.TagCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			counts[tag]++
		}
	}
	out := make([]ports.TagCount, 0, len(counts))
	for tag, c := range counts {
		out = append(out, ports.TagCount{Tag: tag, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
