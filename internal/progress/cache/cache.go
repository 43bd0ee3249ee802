package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"simonev/internal/platform/redis"
	"simonev/internal/progress"
	"simonev/pkg/sentinel"
)

const keyPrefix = "simonev:rollup:"

// RollupCache stores computed project rollups in Redis. Entries expire after
// the configured TTL and are invalidated eagerly on substep writes, so the
// TTL only bounds staleness when an invalidation is lost.
type RollupCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *RollupCache {
	return &RollupCache{client: client, ttl: ttl}
}

func key(kegiatanID uuid.UUID) string {
	return keyPrefix + kegiatanID.String()
}

func (c *RollupCache) GetRollup(ctx context.Context, kegiatanID uuid.UUID) (*progress.Rollup, error) {
	payload, err := c.client.Get(ctx, key(kegiatanID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read rollup cache: %w", err)
	}

	var rollup progress.Rollup
	if err := json.Unmarshal(payload, &rollup); err != nil {
		// A corrupt entry reads as a miss; the next write repairs it.
		return nil, sentinel.ErrNotFound
	}
	return &rollup, nil
}

func (c *RollupCache) SetRollup(ctx context.Context, kegiatanID uuid.UUID, rollup *progress.Rollup) error {
	payload, err := json.Marshal(rollup)
	if err != nil {
		return fmt.Errorf("marshal rollup: %w", err)
	}
	if err := c.client.Set(ctx, key(kegiatanID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write rollup cache: %w", err)
	}
	return nil
}

func (c *RollupCache) Invalidate(ctx context.Context, kegiatanID uuid.UUID) error {
	if err := c.client.Del(ctx, key(kegiatanID)).Err(); err != nil {
		return fmt.Errorf("invalidate rollup cache: %w", err)
	}
	return nil
}
