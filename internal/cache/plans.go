package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlanCache provides Redis-backed caching for generated fitness plans keyed
// by a profile fingerprint. All failures degrade to a cache miss; the cache
// is an optimization, never a source of truth.
type PlanCache struct {
	client *redis.Client
	prefix string
}

// NewPlanCache creates a new plan cache with the given Redis client.
// A nil client yields a no-op cache.
func NewPlanCache(client *redis.Client) *PlanCache {
	return &PlanCache{
		client: client,
		prefix: "plan:",
	}
}

// Get retrieves a cached plan payload by profile fingerprint.
func (c *PlanCache) Get(ctx context.Context, fingerprint string) (json.RawMessage, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.prefix+fingerprint).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		slog.Warn("Redis cache get failed", "error", err)
		return nil, nil
	}

	return json.RawMessage(data), nil
}

// Set stores a plan payload in the cache with the given TTL.
func (c *PlanCache) Set(ctx context.Context, fingerprint string, plan interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, c.prefix+fingerprint, data, ttl).Err(); err != nil {
		slog.Warn("Redis cache set failed", "error", err)
	}

	return nil
}

// Delete removes a plan from the cache.
func (c *PlanCache) Delete(ctx context.Context, fingerprint string) error {
	if c.client == nil {
		return nil
	}

	if err := c.client.Del(ctx, c.prefix+fingerprint).Err(); err != nil {
		slog.Warn("Redis cache delete failed", "error", err)
	}

	return nil
}
