package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	m := fromTask(t)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var m taskModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return m.toDomain(), nil
}

// Update writes t only if the stored version still matches.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	res := r.db.WithContext(ctx).Model(&taskModel{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"hours":       t.Hours,
			"task_date":   domain.DateOf(t.Date),
			"tags":        datatypes.JSONSlice[string](nonNilTags(t.Tags)),
			"assignee_id": t.AssigneeID,
			"status":      string(t.Status),
			"feedback":    t.Feedback,
			"completed":   t.Completed,
			"updated_at":  t.UpdatedAt,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", t.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if n == 0 {
			return domain.ErrTaskNotFound
		}
		return domain.ErrStaleTask
	}

	t.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	filter := r.filterScope(f)

	var total int64
	if err := r.db.WithContext(ctx).Model(&taskModel{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	q := r.db.WithContext(ctx).Scopes(filter).Order("task_date DESC, created_at DESC")
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var rows []taskModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, total, nil
}

func (r *TaskRepository) SumHours(ctx context.Context, assigneeID string, day time.Time, excludeID string) (float64, error) {
	start := domain.DateOf(day)
	var sum float64
	row := r.db.WithContext(ctx).Model(&taskModel{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("assignee_id = ? AND task_date >= ? AND task_date < ? AND id <> ?", assigneeID, start, start.AddDate(0, 0, 1), excludeID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum hours: %w", err)
	}
	return sum, nil
}

func (r *TaskRepository) filterScope(f ports.TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.AssigneeID != "" {
			db = db.Where("assignee_id = ?", f.AssigneeID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", string(f.Status))
		}
		if !f.DateFrom.IsZero() {
			db = db.Where("task_date >= ?", domain.DateOf(f.DateFrom))
		}
		if !f.DateTo.IsZero() {
			db = db.Where("task_date < ?", domain.DateOf(f.DateTo).AddDate(0, 0, 1))
		}
		if f.Tag != "" {
			db = r.whereTag(db, f.Tag)
		}
		return db
	}
}

// whereTag matches tasks whose JSON tag array contains tag exactly.
func (r *TaskRepository) whereTag(db *gorm.DB, tag string) *gorm.DB {
	if r.db.Dialector.Name() == DriverPostgres {
		needle, _ := json.Marshal([]string{tag})
		return db.Where("tags @> ?::jsonb", string(needle))
	}
	// The JSON column may be stored as BLOB by the driver.
	return db.Where("EXISTS (SELECT 1 FROM json_each(CAST(tasks.tags AS TEXT)) WHERE json_each.value = ?)", tag)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func fromTask(t *domain.Task) taskModel {
	return taskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Hours:       t.Hours,
		TaskDate:    domain.DateOf(t.Date),
		Tags:        datatypes.JSONSlice[string](nonNilTags(t.Tags)),
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
		Feedback:    t.Feedback,
		Completed:   t.Completed,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *taskModel) toDomain() *domain.Task {
	return &domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Hours:       m.Hours,
		Date:        domain.DateOf(m.TaskDate),
		Tags:        []string(m.Tags),
		AssigneeID:  m.AssigneeID,
		Status:      domain.TaskStatus(m.Status),
		Feedback:    m.Feedback,
		Completed:   m.Completed,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
