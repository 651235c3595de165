// Package cache keeps a short-lived snapshot of each user's payments so the
// metrics endpoints do not reload the whole table on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/guttosm/packflow/internal/domain/models"
)

// PaymentCache stores per-user payment snapshots.
type PaymentCache interface {
	// Get returns the cached payments and whether they were found.
	Get(ctx context.Context, userID string) ([]models.Payment, bool, error)
	Set(ctx context.Context, userID string, payments []models.Payment) error
	Invalidate(ctx context.Context, userID string) error
}

const keyPrefix = "packflow:payments:"

func key(userID string) string { return keyPrefix + userID }

type redisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis returns a PaymentCache backed by client. Entries expire after ttl.
func NewRedis(client redis.UniversalClient, ttl time.Duration) PaymentCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, userID string) ([]models.Payment, bool, error) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var out []models.Payment
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("decode cached payments: %w", err)
	}
	return out, true, nil
}

func (c *redisCache) Set(ctx context.Context, userID string, payments []models.Payment) error {
	raw, err := json.Marshal(payments)
	if err != nil {
		return fmt.Errorf("encode payments: %w", err)
	}
	if err := c.client.Set(ctx, key(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping reports whether the redis server answers.
func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

type noop struct{}

// NewNoop returns a cache that never stores anything.
func NewNoop() PaymentCache { return noop{} }

func (noop) Get(context.Context, string) ([]models.Payment, bool, error) { return nil, false, nil }
func (noop) Set(context.Context, string, []models.Payment) error       { return nil }
func (noop) Invalidate(context.Context, string) error                  { return nil }
