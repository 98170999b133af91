package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/platform/obs"
)

// Redis-backed cache for listing statistics. Values are JSON; expiry is
// delegated to Redis TTLs.
type RedisStatsCache struct {
	Client *redis.Client
}

func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{Client: client}
}

// Fetch cached stats for a query key. A missing key is not an error.
func (c *RedisStatsCache) Get(ctx context.Context, key string) (_ domain.ShipmentStats, _ bool, err error) {
	defer obs.Time(ctx, "stats.cache.Get")(&err)

	if c.Client == nil {
		return domain.ShipmentStats{}, false, errors.New("stats cache: redis client is nil")
	}
	if key == "" {
		return domain.ShipmentStats{}, false, errors.New("get stats cache: key must not be empty")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ShipmentStats{}, false, nil
	}
	if err != nil {
		return domain.ShipmentStats{}, false, fmt.Errorf("get stats cache: redis get: %w", err)
	}

	var stats domain.ShipmentStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes and
		// overwrites it.
		return domain.ShipmentStats{}, false, nil
	}

	return stats, true, nil
}

// Store stats for a query key with the given TTL.
func (c *RedisStatsCache) Put(ctx context.Context, key string, stats domain.ShipmentStats, ttl time.Duration) error {
	if c.Client == nil {
		return errors.New("stats cache: redis client is nil")
	}
	if key == "" {
		return errors.New("put stats cache: key must not be empty")
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("put stats cache: marshal stats: %w", err)
	}

	if err := c.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("put stats cache: redis set: %w", err)
	}

	return nil
}
