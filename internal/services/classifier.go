package services

import (
	"time"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/regions"
)

// Classify derives the delay/eligibility fields for one shipment row.
//
// The function is pure: the reference day comes in as an argument and no
// other state is read, so a batch of rows can be classified concurrently
// without coordination. Rows come from an external store, so missing or
// unparsable timestamps short-circuit to "not delayed" rather than failing.
func Classify(s *domain.Shipment, today time.Time, tbl *regions.Table) domain.Classification {
	var c domain.Classification
	if s == nil {
		return c
	}

	c.IsIsland = isIsland(s, tbl)
	c.IsSaturdayClosed = s.CarrierSaturdayOff || regions.HasSaturdayClosedPhrase(s.NotifyMsg)

	// Island shipments get one extra SLA day on both legs.
	extraDays := 0
	if c.IsIsland {
		extraDays = 1
	}

	// Pickup delay applies only while a booked pickup is still outstanding.
	if s.Status == domain.StatusBooked && hasTime(s.PickupRequestedAt) && s.PickupCompletedAt == nil {
		expected := expectedDate(*s.PickupRequestedAt, extraDays)
		c.ExpectedPickupDate = &expected
		if today.After(expected) {
			c.IsPickupDelayed = true
			c.PickupDelayDays = daysBetween(expected, today)
		}
	}

	// Delivery delay applies to outbound statuses until delivery completes.
	// The basis falls back to updated_at when the outbound start was never
	// recorded; with neither, the delay is simply not computable.
	if inDeliveryLeg(s.Status) && s.DeliveryCompletedAt == nil {
		basis := s.DeliveryStartedAt
		if !hasTime(basis) && !s.UpdatedAt.IsZero() {
			u := s.UpdatedAt
			basis = &u
		}
		if hasTime(basis) {
			expected := expectedDate(*basis, extraDays)
			c.ExpectedDeliveryDate = &expected
			if today.After(expected) {
				c.IsDeliveryDelayed = true
				c.DeliveryDelayDays = daysBetween(expected, today)
			}
		}
	}

	c.IsDelayed = c.IsPickupDelayed || c.IsDeliveryDelayed
	c.DelayDays = c.PickupDelayDays
	if c.DeliveryDelayDays > c.DelayDays {
		c.DelayDays = c.DeliveryDelayDays
	}

	return c
}

// isIsland resolves island membership by postal code first and falls back to
// the address keyword allow-list (postal-code coverage is incomplete).
func isIsland(s *domain.Shipment, tbl *regions.Table) bool {
	if tbl.IsIslandZip(s.PickupZipcode) || tbl.IsIslandZip(s.DeliveryZipcode) {
		return true
	}
	return regions.ContainsIslandKeyword(s.PickupAddress + " " + s.DeliveryAddress)
}

func inDeliveryLeg(st domain.ShipmentStatus) bool {
	switch st {
	case domain.StatusReadyToShip, domain.StatusOutForDelivery, domain.StatusInTransit:
		return true
	}
	return false
}

// expectedDate is the end-of-day SLA deadline: one day after the basis
// timestamp plus the island allowance, at 23:59:59.999. The carrier does not
// run on Sundays, so a deadline landing on Sunday slides to Monday. The slide
// is applied once, after the allowance, and not re-checked.
func expectedDate(basis time.Time, extraDays int) time.Time {
	d := basis.AddDate(0, 0, 1+extraDays)
	eod := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, d.Location())
	if eod.Weekday() == time.Sunday {
		eod = eod.AddDate(0, 0, 1)
	}
	return eod
}

// daysBetween counts whole calendar days from one date to another, comparing
// at midnight so the time-of-day of either side does not matter.
func daysBetween(from, to time.Time) int {
	d := int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Midnight truncates a timestamp to 00:00 of its own calendar day, keeping
// the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func hasTime(t *time.Time) bool {
	return t != nil && !t.IsZero()
}
