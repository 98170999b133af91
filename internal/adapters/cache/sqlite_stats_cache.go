package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-ops-service/internal/domain"
)

// SQLite-backed cache for listing statistics, used for local runs without
// Redis. Expiry is enforced on read via the expires_at column.
type SqliteStatsCache struct {
	DB *sql.DB
	// now is swappable for expiry tests.
	now func() time.Time
}

func NewSqliteStatsCache(db *sql.DB) *SqliteStatsCache {
	return &SqliteStatsCache{DB: db, now: time.Now}
}

// Fetch cached stats for a query key. Expired or corrupt entries behave
// like misses.
func (c *SqliteStatsCache) Get(ctx context.Context, key string) (domain.ShipmentStats, bool, error) {
	if c.DB == nil {
		return domain.ShipmentStats{}, false, errors.New("stats cache: db is nil")
	}
	if key == "" {
		return domain.ShipmentStats{}, false, errors.New("get stats cache: key must not be empty")
	}

	q := `
	SELECT stats_json, expires_at
	FROM shipment_stats_cache
	WHERE cache_key = ?;
	`

	var rawStats, rawExpires string
	err := c.DB.QueryRowContext(ctx, q, key).Scan(&rawStats, &rawExpires)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ShipmentStats{}, false, nil
	}
	if err != nil {
		return domain.ShipmentStats{}, false, fmt.Errorf("get stats cache: query shipment_stats_cache table: %w", err)
	}

	expires, err := time.Parse(time.RFC3339, rawExpires)
	if err != nil || !c.clock()().Before(expires) {
		return domain.ShipmentStats{}, false, nil
	}

	var stats domain.ShipmentStats
	if err := json.Unmarshal([]byte(rawStats), &stats); err != nil {
		return domain.ShipmentStats{}, false, nil
	}

	return stats, true, nil
}

// Store stats for a query key with the given TTL.
func (c *SqliteStatsCache) Put(ctx context.Context, key string, stats domain.ShipmentStats, ttl time.Duration) error {
	if c.DB == nil {
		return errors.New("stats cache: db is nil")
	}
	if key == "" {
		return errors.New("put stats cache: key must not be empty")
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("put stats cache: marshal stats: %w", err)
	}

	expires := c.clock()().Add(ttl).UTC().Format(time.RFC3339)

	q := `
	INSERT OR REPLACE INTO shipment_stats_cache (cache_key, stats_json, expires_at)
	VALUES (?, ?, ?);
	`
	if _, err := c.DB.ExecContext(ctx, q, key, string(raw), expires); err != nil {
		return fmt.Errorf("put stats cache: insert: %w", err)
	}

	return nil
}

func (c *SqliteStatsCache) clock() func() time.Time {
	if c.now != nil {
		return c.now
	}
	return time.Now
}
