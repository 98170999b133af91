package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/platform/obs"
	"shipment-ops-service/internal/ports"
)

// SQLShipmentRepository is a Postgres-backed implementation of the
// ShipmentRepository port. Timestamps live in timestamptz columns, so
// parsing is the driver's job here.
type SQLShipmentRepository struct{ DB *sql.DB }

func NewSQLShipmentRepository(db *sql.DB) *SQLShipmentRepository {
	return &SQLShipmentRepository{DB: db}
}

// Return shipments matching the query, oldest first.
func (s *SQLShipmentRepository) ListShipments(ctx context.Context, q ports.ShipmentQuery) (_ []*domain.Shipment, err error) {
	defer obs.Time(ctx, "shipments.repo.ListShipments")(&err)

	if s.DB == nil {
		return nil, errors.New("sql shipment repository: DB is nil")
	}

	query := "SELECT " + shipmentColumns + " FROM shipments"

	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Status != "" {
		where = append(where, "status = "+arg(string(q.Status)))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := arg("%" + search + "%")
		where = append(where, fmt.Sprintf(
			"(tracking_no ILIKE %s OR pickup_address ILIKE %s OR delivery_address ILIKE %s)",
			like, like, like,
		))
	}
	if q.From != nil {
		where = append(where, "created_at >= "+arg(*q.From))
	}
	if q.To != nil {
		where = append(where, "created_at < "+arg(*q.To))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id;"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query shipments table: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, 64)
	for rows.Next() {
		sh, err := scanShipmentSQL(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list shipments: %w", err)
		}
		shipments = append(shipments, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	return shipments, nil
}

// Return a single shipment by id.
func (s *SQLShipmentRepository) GetShipment(ctx context.Context, id int) (*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sql shipment repository: DB is nil")
	}

	query := "SELECT " + shipmentColumns + " FROM shipments WHERE id = $1;"
	row := s.DB.QueryRowContext(ctx, query, id)

	sh, err := scanShipmentSQL(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment id=%d: %w", id, err)
	}
	return sh, nil
}

func scanShipmentSQL(scan func(dest ...any) error) (*domain.Shipment, error) {
	var (
		sh                               domain.Shipment
		status                           string
		reqAt, pickAt, startAt, doneAt   sql.NullTime
		updatedAt, createdAt             sql.NullTime
		pickupZip, deliveryZip           sql.NullString
		pickupAddr, deliveryAddr, notify sql.NullString
		saturdayOff                      bool
	)

	err := scan(
		&sh.ID,
		&sh.TrackingNo,
		&status,
		&reqAt,
		&pickAt,
		&startAt,
		&doneAt,
		&updatedAt,
		&createdAt,
		&pickupZip,
		&deliveryZip,
		&pickupAddr,
		&deliveryAddr,
		&notify,
		&saturdayOff,
	)
	if err != nil {
		return nil, err
	}

	sh.Status = domain.ShipmentStatus(status)
	sh.PickupRequestedAt = timePtr(reqAt)
	sh.PickupCompletedAt = timePtr(pickAt)
	sh.DeliveryStartedAt = timePtr(startAt)
	sh.DeliveryCompletedAt = timePtr(doneAt)
	if updatedAt.Valid {
		sh.UpdatedAt = updatedAt.Time
	}
	if createdAt.Valid {
		sh.CreatedAt = createdAt.Time
	}
	sh.PickupZipcode = pickupZip.String
	sh.DeliveryZipcode = deliveryZip.String
	sh.PickupAddress = pickupAddr.String
	sh.DeliveryAddress = deliveryAddr.String
	sh.NotifyMsg = notify.String
	sh.CarrierSaturdayOff = saturdayOff

	return &sh, nil
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
