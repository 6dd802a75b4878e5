package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Hours       float64   `bson:"hours"`
	TaskDate    time.Time `bson:"task_date"`
	Tags        []string  `bson:"tags"`
	AssigneeID  string    `bson:"assignee_id"`
	Status      string    `bson:"status"`
	Feedback    *string   `bson:"feedback"`
	Completed   bool      `bson:"completed"`
	Version     int       `bson:"version"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func fromTask(t *domain.Task) mongoTask {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return mongoTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Hours:       t.Hours,
		TaskDate:    domain.DateOf(t.Date),
		Tags:        tags,
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
		Feedback:    t.Feedback,
		Completed:   t.Completed,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (m mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Hours:       m.Hours,
		Date:        domain.DateOf(m.TaskDate),
		Tags:        m.Tags,
		AssigneeID:  m.AssigneeID,
		Status:      domain.TaskStatus(m.Status),
		Feedback:    m.Feedback,
		Completed:   m.Completed,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// Create inserts a new task document.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, fromTask(t)); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoTask
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return m.toDomain(), nil
}

// Update replaces the mutable fields when the stored version matches t.Version.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromTask(t)
	update := bson.M{
		"$set": bson.M{
			"title":       doc.Title,
			"description": doc.Description,
			"hours":       doc.Hours,
			"task_date":   doc.TaskDate,
			"tags":        doc.Tags,
			"assignee_id": doc.AssigneeID,
			"status":      doc.Status,
			"feedback":    doc.Feedback,
			"completed":   doc.Completed,
			"updated_at":  doc.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": t.ID, "version": t.Version}, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": t.ID})
		if err != nil {
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
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := taskFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "task_date", Value: -1}, {Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	var docs []mongoTask
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]*domain.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *TaskRepository) SumHours(ctx context.Context, assigneeID string, day time.Time, excludeID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := domain.DateOf(day)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"assignee_id": assigneeID,
			"task_date":   bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)},
			"_id":         bson.M{"$ne": excludeID},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$hours"}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum hours: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("sum hours: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func taskFilter(f ports.TaskFilter) bson.M {
	filter := bson.M{}
	if f.AssigneeID != "" {
		filter["assignee_id"] = f.AssigneeID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	// Equality on an array field matches any element.
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	dates := bson.M{}
	if !f.DateFrom.IsZero() {
		dates["$gte"] = domain.DateOf(f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		dates["$lt"] = domain.DateOf(f.DateTo).AddDate(0, 0, 1)
	}
	if len(dates) > 0 {
		filter["task_date"] = dates
	}
	return filter
}
