package ports

import (
	"context"
	"time"

	"shipment-ops-service/internal/domain"
)

// Port: a short-lived cache for listing statistics, keyed by the storage
// query they were computed from. A miss is (zero, false, nil); cache errors
// are soft and callers fall back to recomputing.
type StatsCache interface {
	Get(ctx context.Context, key string) (domain.ShipmentStats, bool, error)
	Put(ctx context.Context, key string, stats domain.ShipmentStats, ttl time.Duration) error
}
