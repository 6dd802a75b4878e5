package handler

import (
	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// --- Request → Service input ---

func toSubmitInput(req submitTaskRequest, idempotencyKey string) (ports.SubmitTaskInput, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return ports.SubmitTaskInput{}, err
	}
	return ports.SubmitTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Hours:          req.Hours,
		Date:           date,
		Tags:           req.Tags,
		AssigneeID:     req.AssigneeID,
		IdempotencyKey: idempotencyKey,
	}, nil
}

func toTaskChanges(req taskChangesRequest) (ports.TaskChanges, error) {
	changes := ports.TaskChanges{
		Title:       req.Title,
		Description: req.Description,
		Hours:       req.Hours,
		Tags:        req.Tags,
		AssigneeID:  req.AssigneeID,
	}
	if req.Date != nil {
		date, err := domain.ParseDate(*req.Date)
		if err != nil {
			return ports.TaskChanges{}, err
		}
		changes.Date = &date
	}
	return changes, nil
}

func toListInput(q listTasksQuery) (ports.ListTasksInput, error) {
	in := ports.ListTasksInput{
		Status:     q.Status,
		Tag:        q.Tag,
		AssigneeID: q.AssigneeID,
		Page:       q.Page,
		Limit:      q.Limit,
	}
	var err error
	if q.StartDate != "" {
		if in.DateFrom, err = domain.ParseDate(q.StartDate); err != nil {
			return ports.ListTasksInput{}, err
		}
	}
	if q.EndDate != "" {
		if in.DateTo, err = domain.ParseDate(q.EndDate); err != nil {
			return ports.ListTasksInput{}, err
		}
	}
	return in, nil
}

// --- Service result → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Hours:       t.Hours,
		Date:        t.Date.Format(domain.DateLayout),
		Tags:        tags,
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
		Feedback:    t.Feedback,
		Completed:   t.Completed,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		Links: taskLinks{
			Self:     "/api/v1/tasks/" + t.ID,
			Activity: "/api/v1/tasks/" + t.ID + "/activity",
		},
	}
}

func toListResponse(r *ports.ListTasksResult) listTasksResponse {
	items := make([]taskResponse, 0, len(r.Items))
	for _, t := range r.Items {
		items = append(items, toTaskResponse(t))
	}
	return listTasksResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

func toActivityResponses(entries []*domain.TaskActivity) []activityResponse {
	out := make([]activityResponse, 0, len(entries))
	for _, a := range entries {
		out = append(out, activityResponse{
			ID:         a.ID,
			TaskID:     a.TaskID,
			ActorID:    a.ActorID,
			Action:     string(a.Action),
			FromStatus: string(a.FromStatus),
			ToStatus:   string(a.ToStatus),
			Feedback:   a.Feedback,
			OccurredAt: a.OccurredAt.UTC(),
		})
	}
	return out
}
