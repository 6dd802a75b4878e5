package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingMarker holds a reserved key until its task is stored.
	pendingMarker = "pending"
)

// IdempotencyStore maps client idempotency keys to the task they created.
// Key format: idempotency:task:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
// A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. Only one caller gets reserved=true; the
// others see the stored task id, or "" while the claim is still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) || id == pendingMarker {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return id, false, nil
}

// Complete replaces the reservation with taskID and restarts its TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key, taskID string) error {
	if err := s.client.Set(ctx, s.key(key), taskID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release deletes a pending reservation. Completed keys are left alone.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		id, err := tx.Get(ctx, s.key(key)).Result()
		if errors.Is(err, redis.Nil) || (err == nil && id != pendingMarker) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.key(key))
			return nil
		})
		return err
	}, s.key(key))
	if err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:task:" + key
}
