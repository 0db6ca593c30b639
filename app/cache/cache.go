package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CoDataLab/newswire/app/database"
)

// SourceGroupTTL is how long a resolved source group stays cached. Groups
// change rarely, so runs within this window skip the database lookup.
const SourceGroupTTL = 25 * time.Minute

// Cache wraps a Redis client for pipeline caching. A nil *Cache is valid
// and behaves as a permanent miss, so callers need no enabled checks.
type Cache struct {
	client *redis.Client
}

func New(ctx context.Context, addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &Cache{client: client}, nil
}

// SourceGroupKey builds the cache key for a resolved source group.
func SourceGroupKey(groupID string) string {
	return fmt.Sprintf("sourcegroup:%s", groupID)
}

// GetSources returns the cached sources of a group, reporting a miss when
// the key is absent or holds data that no longer decodes.
func (c *Cache) GetSources(ctx context.Context, groupID string) ([]database.Source, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	key := SourceGroupKey(groupID)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	var sources []database.Source
	if err := json.Unmarshal(data, &sources); err != nil {
		// Stale or corrupted entry, drop it and fall back to the database.
		c.client.Del(ctx, key)
		return nil, false, nil
	}
	return sources, true, nil
}

func (c *Cache) SetSources(ctx context.Context, groupID string, sources []database.Source) error {
	if c == nil {
		return nil
	}

	key := SourceGroupKey(groupID)
	data, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to marshal sources for key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, SourceGroupTTL).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Health reports connectivity and key count for the stats endpoint.
func (c *Cache) Health(ctx context.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"status": "disabled", "type": "redis"}
	}

	health := map[string]interface{}{
		"status": "healthy",
		"type":   "redis",
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}
	if dbSize, err := c.client.DBSize(ctx).Result(); err == nil {
		health["key_count"] = dbSize
	}
	return health
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
