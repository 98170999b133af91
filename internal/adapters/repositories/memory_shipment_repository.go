package repositories

import (
	"context"
	"strings"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/ports"
)

// In-memory implementation of the ShipmentRepository port for tests and
// demos. Applies the same query semantics as the SQL adapters.
type MemoryShipmentRepository struct {
	Shipments []*domain.Shipment
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryShipmentRepository(shipments []*domain.Shipment) *MemoryShipmentRepository {
	return &MemoryShipmentRepository{Shipments: shipments}
}

func (m *MemoryShipmentRepository) ListShipments(_ context.Context, q ports.ShipmentQuery) ([]*domain.Shipment, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	search := strings.TrimSpace(q.Search)
	out := make([]*domain.Shipment, 0, len(m.Shipments))
	for _, s := range m.Shipments {
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		if q.From != nil && s.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && !s.CreatedAt.Before(*q.To) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *MemoryShipmentRepository) GetShipment(_ context.Context, id int) (*domain.Shipment, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	for _, s := range m.Shipments {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ports.ErrShipmentNotFound
}

func matchesSearch(s *domain.Shipment, search string) bool {
	return strings.Contains(s.TrackingNo, search) ||
		strings.Contains(s.PickupAddress, search) ||
		strings.Contains(s.DeliveryAddress, search)
}
