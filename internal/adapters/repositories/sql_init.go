package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema. Used by dbtool against a managed
// instance; the local sqlite path has its own InitSchema.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		id BIGINT PRIMARY KEY,
		tracking_no TEXT NOT NULL,
		status TEXT NOT NULL,
		pickup_requested_at TIMESTAMPTZ,
		pickup_completed_at TIMESTAMPTZ,
		delivery_started_at TIMESTAMPTZ,
		delivery_completed_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		pickup_zipcode TEXT NOT NULL DEFAULT '',
		delivery_zipcode TEXT NOT NULL DEFAULT '',
		pickup_address TEXT NOT NULL DEFAULT '',
		delivery_address TEXT NOT NULL DEFAULT '',
		notify_msg TEXT NOT NULL DEFAULT '',
		carrier_saturday_off BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_shipments_status_created
	ON shipments(status, created_at);
	`

	statements := []string{
		createShipmentsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate a Postgres database with shipment data from a JSON file.
func SeedFromJSONPostgres(db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed shipments: DB is nil")
	}

	rows, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed shipments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO shipments (
		id, tracking_no, status,
		pickup_requested_at, pickup_completed_at,
		delivery_started_at, delivery_completed_at,
		updated_at, created_at,
		pickup_zipcode, delivery_zipcode,
		pickup_address, delivery_address,
		notify_msg, carrier_saturday_off
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (id) DO UPDATE
	SET tracking_no = EXCLUDED.tracking_no,
		status = EXCLUDED.status,
		pickup_requested_at = EXCLUDED.pickup_requested_at,
		pickup_completed_at = EXCLUDED.pickup_completed_at,
		delivery_started_at = EXCLUDED.delivery_started_at,
		delivery_completed_at = EXCLUDED.delivery_completed_at,
		updated_at = EXCLUDED.updated_at,
		created_at = EXCLUDED.created_at,
		pickup_zipcode = EXCLUDED.pickup_zipcode,
		delivery_zipcode = EXCLUDED.delivery_zipcode,
		pickup_address = EXCLUDED.pickup_address,
		delivery_address = EXCLUDED.delivery_address,
		notify_msg = EXCLUDED.notify_msg,
		carrier_saturday_off = EXCLUDED.carrier_saturday_off;
	`)
	if err != nil {
		return fmt.Errorf("seed shipments: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.ID, r.TrackingNo, r.Status,
			nullIfEmpty(r.PickupRequestedAt), nullIfEmpty(r.PickupCompletedAt),
			nullIfEmpty(r.DeliveryStartedAt), nullIfEmpty(r.DeliveryCompletedAt),
			r.UpdatedAt, r.CreatedAt,
			r.PickupZipcode, r.DeliveryZipcode,
			r.PickupAddress, r.DeliveryAddress,
			r.NotifyMsg, r.CarrierSaturdayOff,
		)
		if err != nil {
			return fmt.Errorf("seed shipments: insert id=%d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed shipments: commit tx: %w", err)
	}

	return nil
}
