package dto

import "time"

// One shipment row with its derived fields, as serialized to clients.
type ShipmentResponse struct {
	ID                  int        `json:"id"`
	TrackingNo          string     `json:"tracking_no"`
	Status              string     `json:"status"`
	PickupRequestedAt   *time.Time `json:"pickup_requested_at"`
	PickupCompletedAt   *time.Time `json:"pickup_completed_at"`
	DeliveryStartedAt   *time.Time `json:"delivery_started_at"`
	DeliveryCompletedAt *time.Time `json:"delivery_completed_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CreatedAt           time.Time  `json:"created_at"`
	PickupZipcode       string     `json:"pickup_zipcode"`
	DeliveryZipcode     string     `json:"delivery_zipcode"`
	PickupAddress       string     `json:"pickup_address"`
	DeliveryAddress     string     `json:"delivery_address"`
	NotifyMsg           string     `json:"notify_msg"`

	IsIsland             bool       `json:"is_island"`
	IsSaturdayClosed     bool       `json:"is_saturday_closed"`
	ExpectedPickupDate   *time.Time `json:"expected_pickup_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	IsPickupDelayed      bool       `json:"is_pickup_delayed"`
	IsDeliveryDelayed    bool       `json:"is_delivery_delayed"`
	IsDelayed            bool       `json:"is_delayed"`
	PickupDelayDays      int        `json:"pickup_delay_days"`
	DeliveryDelayDays    int        `json:"delivery_delay_days"`
	DelayDays            int        `json:"delay_days"`
}

type StatsResponse struct {
	Total           int `json:"total"`
	Delayed         int `json:"delayed"`
	PickupDelayed   int `json:"pickupDelayed"`
	DeliveryDelayed int `json:"deliveryDelayed"`
	Island          int `json:"island"`
	SaturdayClosed  int `json:"saturdayClosed"`
}

type ListShipmentsResponse struct {
	Data       []ShipmentResponse `json:"data"`
	Stats      StatsResponse      `json:"stats"`
	TotalCount int                `json:"totalCount"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
	Success    bool               `json:"success"`
}

type GetShipmentResponse struct {
	Data    ShipmentResponse `json:"data"`
	Success bool             `json:"success"`
}

type StatsEnvelope struct {
	Stats   StatsResponse `json:"stats"`
	Success bool          `json:"success"`
}
