package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/ports"
)

const (
	defaultSnapshotTTL = 5 * time.Minute
	scanBatchSize      = 100
)

// RedisSnapshotCache stores rendered dashboard snapshots in Redis. All
// operations are best effort: a cache failure is logged and the caller falls
// through to the database.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisSnapshotCache wraps an existing Redis client. The caller retains
// ownership of the client. A zero ttl falls back to the default.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisSnapshotCache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &RedisSnapshotCache{client: client, ttl: ttl, logger: logger}
}

func snapshotKey(tenantID uuid.UUID, rangeKey string) string {
	return fmt.Sprintf("dashboard:%s:%s", tenantID, rangeKey)
}

func (c *RedisSnapshotCache) Get(ctx context.Context, tenantID uuid.UUID, rangeKey string) (*domain.DashboardSnapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey(tenantID, rangeKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to read dashboard snapshot from cache")
		return nil, false
	}

	var snapshot domain.DashboardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Discarding corrupted dashboard snapshot")
		_ = c.client.Del(ctx, snapshotKey(tenantID, rangeKey))
		return nil, false
	}
	return &snapshot, true
}

func (c *RedisSnapshotCache) Set(ctx context.Context, tenantID uuid.UUID, rangeKey string, snapshot *domain.DashboardSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to marshal dashboard snapshot")
		return
	}
	if err := c.client.Set(ctx, snapshotKey(tenantID, rangeKey), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to cache dashboard snapshot")
	}
}

// Invalidate drops every cached snapshot for the tenant, whatever date range
// it was computed for.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	pattern := fmt.Sprintf("dashboard:%s:*", tenantID)
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			c.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to scan dashboard cache keys")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to invalidate dashboard cache")
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

var _ ports.SnapshotCache = (*RedisSnapshotCache)(nil)
