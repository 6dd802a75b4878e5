package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type mongoActivity struct {
	ID         string    `bson:"_id"`
	TaskID     string    `bson:"task_id"`
	ActorID    string    `bson:"actor_id"`
	Action     string    `bson:"action"`
	FromStatus string    `bson:"from_status,omitempty"`
	ToStatus   string    `bson:"to_status,omitempty"`
	Feedback   string    `bson:"feedback,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
}

// Insert persists an entry to the task_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.TaskActivity) error {
	doc := mongoActivity{
		ID:         a.ID,
		TaskID:     a.TaskID,
		ActorID:    a.ActorID,
		Action:     string(a.Action),
		FromStatus: string(a.FromStatus),
		ToStatus:   string(a.ToStatus),
		Feedback:   a.Feedback,
		OccurredAt: a.OccurredAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	var docs []mongoActivity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]*domain.TaskActivity, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.TaskActivity{
			ID:         d.ID,
			TaskID:     d.TaskID,
			ActorID:    d.ActorID,
			Action:     domain.ActivityAction(d.Action),
			FromStatus: domain.TaskStatus(d.FromStatus),
			ToStatus:   domain.TaskStatus(d.ToStatus),
			Feedback:   d.Feedback,
			OccurredAt: d.OccurredAt.UTC(),
		})
	}
	return out, nil
}
