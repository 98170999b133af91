package domain

import "time"

// Lifecycle states a shipment row can carry. The set is owned by the
// storage layer and may grow over time; a value outside this list simply
// matches no delay gate.
type ShipmentStatus string

const (
	StatusBooked         ShipmentStatus = "BOOKED"
	StatusPickedUp       ShipmentStatus = "PICKED_UP"
	StatusReadyToShip    ShipmentStatus = "READY_TO_SHIP"
	StatusOutForDelivery ShipmentStatus = "OUT_FOR_DELIVERY"
	StatusInTransit      ShipmentStatus = "IN_TRANSIT"
	StatusDelivered      ShipmentStatus = "DELIVERED"
)

// Represents a single repair pickup/delivery job as stored.
// Optional timestamps are nil when the event has not happened yet, or when
// the stored value could not be parsed.
type Shipment struct {
	ID                  int
	TrackingNo          string
	Status              ShipmentStatus
	PickupRequestedAt   *time.Time
	PickupCompletedAt   *time.Time
	DeliveryStartedAt   *time.Time
	DeliveryCompletedAt *time.Time
	UpdatedAt           time.Time
	CreatedAt           time.Time
	PickupZipcode       string
	DeliveryZipcode     string
	PickupAddress       string
	DeliveryAddress     string
	NotifyMsg           string
	CarrierSaturdayOff  bool
}

// Fields derived from a Shipment by the eligibility classifier.
// All values are pure functions of the shipment row and the reference day;
// nothing here is persisted.
type Classification struct {
	IsIsland             bool
	IsSaturdayClosed     bool
	ExpectedPickupDate   *time.Time
	ExpectedDeliveryDate *time.Time
	IsPickupDelayed      bool
	IsDeliveryDelayed    bool
	IsDelayed            bool
	PickupDelayDays      int
	DeliveryDelayDays    int
	DelayDays            int
}

// A shipment row paired with its derived fields, as consumed by the
// listing sort/filter policy.
type ClassifiedShipment struct {
	Shipment       *Shipment
	Classification Classification
}

// Aggregate counts over a classified result set.
type ShipmentStats struct {
	Total           int `json:"total"`
	Delayed         int `json:"delayed"`
	PickupDelayed   int `json:"pickup_delayed"`
	DeliveryDelayed int `json:"delivery_delayed"`
	Island          int `json:"island"`
	SaturdayClosed  int `json:"saturday_closed"`
}
