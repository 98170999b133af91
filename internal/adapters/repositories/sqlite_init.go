package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
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
		id INTEGER PRIMARY KEY,
		tracking_no TEXT NOT NULL,
		status TEXT NOT NULL,
		pickup_requested_at TEXT,
		pickup_completed_at TEXT,
		delivery_started_at TEXT,
		delivery_completed_at TEXT,
		updated_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		pickup_zipcode TEXT NOT NULL DEFAULT '',
		delivery_zipcode TEXT NOT NULL DEFAULT '',
		pickup_address TEXT NOT NULL DEFAULT '',
		delivery_address TEXT NOT NULL DEFAULT '',
		notify_msg TEXT NOT NULL DEFAULT '',
		carrier_saturday_off INTEGER NOT NULL DEFAULT 0
	);
	`

	createStatsCacheQuery := `
	CREATE TABLE IF NOT EXISTS shipment_stats_cache (
		cache_key TEXT PRIMARY KEY,
		stats_json TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_shipments_status_created
	ON shipments(status, created_at);
	`

	statements := []string{
		createShipmentsQuery,
		createStatsCacheQuery,
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

// One shipment row as it appears in the seed file. Timestamps stay strings
// here; the repository's defensive parsing applies when rows are read back.
type ShipmentSeed struct {
	ID                  int    `json:"id"`
	TrackingNo          string `json:"tracking_no"`
	Status              string `json:"status"`
	PickupRequestedAt   string `json:"pickup_requested_at"`
	PickupCompletedAt   string `json:"pickup_completed_at"`
	DeliveryStartedAt   string `json:"delivery_started_at"`
	DeliveryCompletedAt string `json:"delivery_completed_at"`
	UpdatedAt           string `json:"updated_at"`
	CreatedAt           string `json:"created_at"`
	PickupZipcode       string `json:"pickup_zipcode"`
	DeliveryZipcode     string `json:"delivery_zipcode"`
	PickupAddress       string `json:"pickup_address"`
	DeliveryAddress     string `json:"delivery_address"`
	NotifyMsg           string `json:"notify_msg"`
	CarrierSaturdayOff  bool   `json:"carrier_saturday_off"`
}

// Populate the database with shipment data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
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
	INSERT OR REPLACE INTO shipments (
		id, tracking_no, status,
		pickup_requested_at, pickup_completed_at,
		delivery_started_at, delivery_completed_at,
		updated_at, created_at,
		pickup_zipcode, delivery_zipcode,
		pickup_address, delivery_address,
		notify_msg, carrier_saturday_off
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
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

// loadSeeds reads and validates the seed file.
func loadSeeds(jsonPath string) ([]ShipmentSeed, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed shipments: read %q: %w", jsonPath, err)
	}

	var data []ShipmentSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("seed shipments: parse json: %w", err)
	}

	for i, r := range data {
		if r.ID <= 0 {
			return nil, fmt.Errorf("seed shipments: invalid id at index %d: %d", i+1, r.ID)
		}
		if strings.TrimSpace(r.Status) == "" {
			return nil, fmt.Errorf("seed shipments: item id=%d: status cannot be empty", r.ID)
		}
		if strings.TrimSpace(r.CreatedAt) == "" || strings.TrimSpace(r.UpdatedAt) == "" {
			return nil, fmt.Errorf("seed shipments: item id=%d: created_at and updated_at are required", r.ID)
		}
	}

	return data, nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
