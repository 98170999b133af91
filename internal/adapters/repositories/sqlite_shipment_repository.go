package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/ports"
)

// SQLite-backed implementation of the ShipmentRepository port.
type SqliteShipmentRepository struct{ DB *sql.DB }

func NewSqliteShipmentRepository(db *sql.DB) *SqliteShipmentRepository {
	return &SqliteShipmentRepository{DB: db}
}

const shipmentColumns = `
	id,
	tracking_no,
	status,
	pickup_requested_at,
	pickup_completed_at,
	delivery_started_at,
	delivery_completed_at,
	updated_at,
	created_at,
	pickup_zipcode,
	delivery_zipcode,
	pickup_address,
	delivery_address,
	notify_msg,
	carrier_saturday_off`

// Return shipments matching the query, oldest first.
func (s *SqliteShipmentRepository) ListShipments(ctx context.Context, q ports.ShipmentQuery) ([]*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	query := "SELECT " + shipmentColumns + " FROM shipments"

	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + search + "%"
		where = append(where, "(tracking_no LIKE ? OR pickup_address LIKE ? OR delivery_address LIKE ?)")
		args = append(args, like, like, like)
	}
	if q.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, q.From.UTC().Format(time.RFC3339))
	}
	if q.To != nil {
		where = append(where, "created_at < ?")
		args = append(args, q.To.UTC().Format(time.RFC3339))
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
		sh, err := scanShipment(rows.Scan)
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
func (s *SqliteShipmentRepository) GetShipment(ctx context.Context, id int) (*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	query := "SELECT " + shipmentColumns + " FROM shipments WHERE id = ?;"
	row := s.DB.QueryRowContext(ctx, query, id)

	sh, err := scanShipment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment id=%d: %w", id, err)
	}
	return sh, nil
}

// scanShipment maps one row onto the domain type. Timestamp columns come
// from an external store, so unparsable values become nil rather than
// aborting the whole listing.
func scanShipment(scan func(dest ...any) error) (*domain.Shipment, error) {
	var (
		sh                               domain.Shipment
		status                           string
		reqAt, pickAt, startAt, doneAt   sql.NullString
		updatedAt, createdAt             sql.NullString
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
	sh.PickupRequestedAt = parseTimePtr(reqAt)
	sh.PickupCompletedAt = parseTimePtr(pickAt)
	sh.DeliveryStartedAt = parseTimePtr(startAt)
	sh.DeliveryCompletedAt = parseTimePtr(doneAt)
	if t := parseTimePtr(updatedAt); t != nil {
		sh.UpdatedAt = *t
	}
	if t := parseTimePtr(createdAt); t != nil {
		sh.CreatedAt = *t
	}
	sh.PickupZipcode = pickupZip.String
	sh.DeliveryZipcode = deliveryZip.String
	sh.PickupAddress = pickupAddr.String
	sh.DeliveryAddress = deliveryAddr.String
	sh.NotifyMsg = notify.String
	sh.CarrierSaturdayOff = saturdayOff

	return &sh, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimePtr(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	raw := strings.TrimSpace(v.String)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
