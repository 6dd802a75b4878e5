package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that persists dispatched activity.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process validates and stores a single task activity.
func (s *activityService) Process(ctx context.Context, a domain.TaskActivity) error {
	if a.TaskID == "" || a.Action == "" {
		return fmt.Errorf("process activity: %w", domain.Validation("task id and action are required"))
	}

	if err := s.repo.Insert(ctx, &a); err != nil {
		return fmt.Errorf("process activity: insert: %w", err)
	}

	s.log.Debug().
		Str("task_id", a.TaskID).
		Str("action", string(a.Action)).
		Str("actor_id", a.ActorID).
		Msg("activity recorded")
	return nil
}
