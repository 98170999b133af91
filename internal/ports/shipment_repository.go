package ports

import (
	"context"
	"errors"
	"time"

	"shipment-ops-service/internal/domain"
)

// ErrShipmentNotFound is returned by GetShipment for an unknown id.
var ErrShipmentNotFound = errors.New("shipment not found")

// Constraints pushed down to the store. Zero values mean "no constraint".
// Derived-field filtering (delayed, island, ...) happens after classification
// and is not part of this query.
type ShipmentQuery struct {
	Status domain.ShipmentStatus
	Search string
	From   *time.Time
	To     *time.Time
}

// Port: a boundary for retrieving Shipment rows from a data source.
type ShipmentRepository interface {
	// Retrieve shipments matching the query, oldest first.
	ListShipments(ctx context.Context, q ShipmentQuery) ([]*domain.Shipment, error)
	// Retrieve a single shipment by id.
	GetShipment(ctx context.Context, id int) (*domain.Shipment, error)
}
