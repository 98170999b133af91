package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/platform/obs"
	"shipment-ops-service/internal/ports"
	"shipment-ops-service/internal/regions"
)

// Derived-field filters the listing accepts. An empty filter selects all rows.
const (
	FilterDelayed         = "delayed"
	FilterPickupDelayed   = "pickupDelayed"
	FilterDeliveryDelayed = "deliveryDelayed"
	FilterIsland          = "island"
	FilterPickup          = "pickup"
	FilterDelivery        = "delivery"
)

// ValidFilter reports whether the filter value is one the listing understands.
func ValidFilter(f string) bool {
	switch f {
	case "", FilterDelayed, FilterPickupDelayed, FilterDeliveryDelayed,
		FilterIsland, FilterPickup, FilterDelivery:
		return true
	}
	return false
}

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Stats change only as rows change; a minute of staleness is acceptable
	// for dashboard counters.
	statsTTL = 60 * time.Second
)

type ListShipmentsRequest struct {
	Filter   string
	Status   domain.ShipmentStatus
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
	// Now is the caller's clock reading; classification uses its midnight.
	Now time.Time
}

type ListShipmentsResult struct {
	Shipments  []domain.ClassifiedShipment
	Stats      domain.ShipmentStats
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// ListShipments fetches rows, classifies each one, and applies the listing
// policy: stats over the unfiltered set, then derived-field filtering, the
// delay-first sort order, and pagination.
func ListShipments(
	ctx context.Context,
	req ListShipmentsRequest,
	repo ports.ShipmentRepository,
	tbl *regions.Table,
	statsCache ports.StatsCache,
) (_ *ListShipmentsResult, err error) {
	defer obs.Time(ctx, "shipments.list")(&err)

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	q := ports.ShipmentQuery{
		Status: req.Status,
		Search: req.Search,
		From:   req.From,
		To:     req.To,
	}

	rows, err := repo.ListShipments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query store: %w", err)
	}

	classified := classifyAll(rows, req.Now, tbl)

	stats := countStats(classified)
	if statsCache != nil {
		// Best effort: a failed cache write must not fail the listing.
		_ = statsCache.Put(ctx, StatsKey(q), stats, statsTTL)
	}

	filtered := applyFilter(classified, req.Filter)
	sortClassified(filtered)

	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return &ListShipmentsResult{
		Shipments:  filtered[start:end],
		Stats:      stats,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

// ShipmentStatsFor returns the listing statistics for a storage query,
// served from the cache when a fresh entry exists.
func ShipmentStatsFor(
	ctx context.Context,
	q ports.ShipmentQuery,
	now time.Time,
	repo ports.ShipmentRepository,
	tbl *regions.Table,
	statsCache ports.StatsCache,
) (_ domain.ShipmentStats, err error) {
	defer obs.Time(ctx, "shipments.stats")(&err)

	key := StatsKey(q)
	if statsCache != nil {
		if cached, ok, cerr := statsCache.Get(ctx, key); cerr == nil && ok {
			return cached, nil
		}
	}

	rows, err := repo.ListShipments(ctx, q)
	if err != nil {
		return domain.ShipmentStats{}, fmt.Errorf("shipment stats: query store: %w", err)
	}

	stats := countStats(classifyAll(rows, now, tbl))
	if statsCache != nil {
		_ = statsCache.Put(ctx, key, stats, statsTTL)
	}
	return stats, nil
}

// StatsKey derives the cache key for a storage query. Only pushdown fields
// participate; filter and pagination do not change the stats.
func StatsKey(q ports.ShipmentQuery) string {
	from, to := "", ""
	if q.From != nil {
		from = q.From.UTC().Format(time.RFC3339)
	}
	if q.To != nil {
		to = q.To.UTC().Format(time.RFC3339)
	}
	return strings.Join([]string{"shipment_stats", string(q.Status), q.Search, from, to}, "|")
}

func classifyAll(rows []*domain.Shipment, now time.Time, tbl *regions.Table) []domain.ClassifiedShipment {
	today := Midnight(now)
	out := make([]domain.ClassifiedShipment, 0, len(rows))
	for _, s := range rows {
		out = append(out, domain.ClassifiedShipment{
			Shipment:       s,
			Classification: Classify(s, today, tbl),
		})
	}
	return out
}

func countStats(rows []domain.ClassifiedShipment) domain.ShipmentStats {
	st := domain.ShipmentStats{Total: len(rows)}
	for _, r := range rows {
		c := r.Classification
		if c.IsDelayed {
			st.Delayed++
		}
		if c.IsPickupDelayed {
			st.PickupDelayed++
		}
		if c.IsDeliveryDelayed {
			st.DeliveryDelayed++
		}
		if c.IsIsland {
			st.Island++
		}
		if c.IsSaturdayClosed {
			st.SaturdayClosed++
		}
	}
	return st
}

func applyFilter(rows []domain.ClassifiedShipment, filter string) []domain.ClassifiedShipment {
	if filter == "" {
		return rows
	}

	keep := func(r domain.ClassifiedShipment) bool { return true }
	switch filter {
	case FilterDelayed:
		keep = func(r domain.ClassifiedShipment) bool { return r.Classification.IsDelayed }
	case FilterPickupDelayed:
		keep = func(r domain.ClassifiedShipment) bool { return r.Classification.IsPickupDelayed }
	case FilterDeliveryDelayed:
		keep = func(r domain.ClassifiedShipment) bool { return r.Classification.IsDeliveryDelayed }
	case FilterIsland:
		keep = func(r domain.ClassifiedShipment) bool { return r.Classification.IsIsland }
	case FilterPickup:
		keep = func(r domain.ClassifiedShipment) bool {
			return r.Shipment.Status == domain.StatusBooked || r.Shipment.Status == domain.StatusPickedUp
		}
	case FilterDelivery:
		keep = func(r domain.ClassifiedShipment) bool {
			return r.Shipment.Status == domain.StatusOutForDelivery || r.Shipment.Status == domain.StatusDelivered
		}
	default:
		return rows
	}

	out := make([]domain.ClassifiedShipment, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// sortClassified orders rows most-urgent first: pickup delay, pickup delay
// days, delivery delay, delivery delay days, island, then newest created.
func sortClassified(rows []domain.ClassifiedShipment) {
	slices.SortStableFunc(rows, func(a, b domain.ClassifiedShipment) int {
		ca, cb := a.Classification, b.Classification
		if n := cmpBoolDesc(ca.IsPickupDelayed, cb.IsPickupDelayed); n != 0 {
			return n
		}
		if n := cmpIntDesc(ca.PickupDelayDays, cb.PickupDelayDays); n != 0 {
			return n
		}
		if n := cmpBoolDesc(ca.IsDeliveryDelayed, cb.IsDeliveryDelayed); n != 0 {
			return n
		}
		if n := cmpIntDesc(ca.DeliveryDelayDays, cb.DeliveryDelayDays); n != 0 {
			return n
		}
		if n := cmpBoolDesc(ca.IsIsland, cb.IsIsland); n != 0 {
			return n
		}
		return b.Shipment.CreatedAt.Compare(a.Shipment.CreatedAt)
	})
}

func cmpBoolDesc(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return -1
	}
	return 1
}

func cmpIntDesc(a, b int) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}
