package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, a *domain.TaskActivity) error {
	m := activityModel{
		ID:         a.ID,
		TaskID:     a.TaskID,
		ActorID:    a.ActorID,
		Action:     string(a.Action),
		FromStatus: string(a.FromStatus),
		ToStatus:   string(a.ToStatus),
		Feedback:   a.Feedback,
		OccurredAt: a.OccurredAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskActivity, error) {
	var rows []activityModel
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("occurred_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	out := make([]*domain.TaskActivity, 0, len(rows))
	for _, m := range rows {
		out = append(out, &domain.TaskActivity{
			ID:         m.ID,
			TaskID:     m.TaskID,
			ActorID:    m.ActorID,
			Action:     domain.ActivityAction(m.Action),
			FromStatus: domain.TaskStatus(m.FromStatus),
			ToStatus:   domain.TaskStatus(m.ToStatus),
			Feedback:   m.Feedback,
			OccurredAt: m.OccurredAt.UTC(),
		})
	}
	return out, nil
}
