package services

import (
	"testing"
	"time"

	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/regions"
)

func testTable(t *testing.T) *regions.Table {
	t.Helper()

	tbl, err := regions.NewTable([]regions.Entry{
		{Zipcode: "63104", Region: "제주"},
		{Zipcode: "40205", Region: "울릉"},
		{Zipcode: "23010", Region: "인천 옹진"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tbl
}

func ts(year int, month time.Month, day, hour, min int) *time.Time {
	t := time.Date(year, month, day, hour, min, 0, 0, time.UTC)
	return &t
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyPickupDelayedAfterExpectedDate(t *testing.T) {
	tbl := testTable(t)

	// Monday booking, mainland: expected end of Tuesday.
	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 1, 10, 0),
	}

	c := Classify(s, day(2024, time.January, 3), tbl)

	if c.ExpectedPickupDate == nil {
		t.Fatal("ExpectedPickupDate is nil")
	}
	want := time.Date(2024, time.January, 2, 23, 59, 59, 999_000_000, time.UTC)
	if !c.ExpectedPickupDate.Equal(want) {
		t.Fatalf("ExpectedPickupDate = %v, want %v", *c.ExpectedPickupDate, want)
	}
	if !c.IsPickupDelayed {
		t.Fatal("expected pickup delayed")
	}
	if c.PickupDelayDays != 1 {
		t.Fatalf("PickupDelayDays = %d, want 1", c.PickupDelayDays)
	}
	if !c.IsDelayed || c.DelayDays != 1 {
		t.Fatalf("IsDelayed=%v DelayDays=%d, want true/1", c.IsDelayed, c.DelayDays)
	}
}

func TestClassifyIslandGetsOneExtraDay(t *testing.T) {
	tbl := testTable(t)

	// Same booking as above but with a Jeju zipcode: the extra day moves the
	// deadline to Wednesday, so Wednesday itself is not delayed yet.
	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 1, 10, 0),
		PickupZipcode:     "63104",
	}

	c := Classify(s, day(2024, time.January, 3), tbl)

	if !c.IsIsland {
		t.Fatal("expected island")
	}
	want := time.Date(2024, time.January, 3, 23, 59, 59, 999_000_000, time.UTC)
	if c.ExpectedPickupDate == nil || !c.ExpectedPickupDate.Equal(want) {
		t.Fatalf("ExpectedPickupDate = %v, want %v", c.ExpectedPickupDate, want)
	}
	if c.IsPickupDelayed {
		t.Fatal("expected not delayed on the expected day itself")
	}
}

func TestClassifySaturdayDeadlineStays(t *testing.T) {
	tbl := testTable(t)

	// Friday booking, mainland: +1 lands on Saturday, which the carrier
	// serves. No push.
	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 5, 9, 0),
	}

	c := Classify(s, day(2024, time.January, 5), tbl)

	if c.ExpectedPickupDate == nil {
		t.Fatal("ExpectedPickupDate is nil")
	}
	if got := c.ExpectedPickupDate.Weekday(); got != time.Saturday {
		t.Fatalf("expected Saturday deadline, got %v", got)
	}
}

func TestClassifySundayDeadlinePushedToMonday(t *testing.T) {
	tbl := testTable(t)

	// Saturday booking, mainland: +1 lands on Sunday and slides to Monday.
	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 6, 11, 30),
	}

	c := Classify(s, day(2024, time.January, 6), tbl)

	if c.ExpectedPickupDate == nil {
		t.Fatal("ExpectedPickupDate is nil")
	}
	want := time.Date(2024, time.January, 8, 23, 59, 59, 999_000_000, time.UTC)
	if !c.ExpectedPickupDate.Equal(want) {
		t.Fatalf("ExpectedPickupDate = %v, want %v", *c.ExpectedPickupDate, want)
	}
}

func TestClassifySundayPushAppliedOnce(t *testing.T) {
	tbl := testTable(t)

	// Island booking on Friday: +2 lands on Sunday, slides once to Monday.
	// The slide is not re-checked afterwards.
	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 5, 9, 0),
		PickupZipcode:     "40205",
	}

	c := Classify(s, day(2024, time.January, 5), tbl)

	if c.ExpectedPickupDate == nil {
		t.Fatal("ExpectedPickupDate is nil")
	}
	if got := c.ExpectedPickupDate.Weekday(); got != time.Monday {
		t.Fatalf("expected Monday deadline, got %v", got)
	}
}

func TestClassifyCompletedPickupSuppressesDelay(t *testing.T) {
	tbl := testTable(t)

	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 1, 10, 0),
		PickupCompletedAt: ts(2024, time.January, 2, 15, 0),
	}

	// Far in the future: completion still wins.
	c := Classify(s, day(2024, time.June, 1), tbl)

	if c.IsPickupDelayed || c.IsDelayed {
		t.Fatalf("completed pickup must not be delayed: %+v", c)
	}
	if c.ExpectedPickupDate != nil {
		t.Fatalf("ExpectedPickupDate = %v, want nil", *c.ExpectedPickupDate)
	}
}

func TestClassifyDeliveredNeverDelayed(t *testing.T) {
	tbl := testTable(t)

	s := &domain.Shipment{
		Status:            domain.StatusDelivered,
		PickupRequestedAt: ts(2023, time.October, 1, 10, 0),
		DeliveryStartedAt: ts(2023, time.October, 3, 8, 0),
		UpdatedAt:         *ts(2023, time.October, 3, 8, 0),
	}

	c := Classify(s, day(2024, time.June, 1), tbl)

	if c.IsPickupDelayed || c.IsDeliveryDelayed || c.IsDelayed {
		t.Fatalf("DELIVERED status must match no delay gate: %+v", c)
	}
}

func TestClassifyDeliveryDelayUsesUpdatedAtFallback(t *testing.T) {
	tbl := testTable(t)

	// No delivery_started_at recorded; updated_at Monday is the basis, so the
	// deadline is end of Tuesday and Thursday is two days late.
	s := &domain.Shipment{
		Status:    domain.StatusInTransit,
		UpdatedAt: *ts(2024, time.January, 1, 7, 0),
	}

	c := Classify(s, day(2024, time.January, 4), tbl)

	if !c.IsDeliveryDelayed {
		t.Fatal("expected delivery delayed")
	}
	if c.DeliveryDelayDays != 2 {
		t.Fatalf("DeliveryDelayDays = %d, want 2", c.DeliveryDelayDays)
	}
	if c.DelayDays != 2 {
		t.Fatalf("DelayDays = %d, want 2", c.DelayDays)
	}
}

func TestClassifyNoBasisMeansNotDelayed(t *testing.T) {
	tbl := testTable(t)

	s := &domain.Shipment{Status: domain.StatusReadyToShip}

	c := Classify(s, day(2024, time.June, 1), tbl)

	if c.IsDeliveryDelayed || c.ExpectedDeliveryDate != nil {
		t.Fatalf("no basis timestamp must skip the computation: %+v", c)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	tbl := testTable(t)

	s := &domain.Shipment{
		Status:            domain.StatusBooked,
		PickupRequestedAt: ts(2024, time.January, 1, 10, 0),
		PickupZipcode:     "63104",
	}
	today := day(2024, time.January, 5)

	first := Classify(s, today, tbl)
	for i := 0; i < 10; i++ {
		got := Classify(s, today, tbl)
		if !classificationsEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func classificationsEqual(a, b domain.Classification) bool {
	if a.IsIsland != b.IsIsland ||
		a.IsSaturdayClosed != b.IsSaturdayClosed ||
		a.IsPickupDelayed != b.IsPickupDelayed ||
		a.IsDeliveryDelayed != b.IsDeliveryDelayed ||
		a.IsDelayed != b.IsDelayed ||
		a.PickupDelayDays != b.PickupDelayDays ||
		a.DeliveryDelayDays != b.DeliveryDelayDays ||
		a.DelayDays != b.DelayDays {
		return false
	}
	return timePtrEqual(a.ExpectedPickupDate, b.ExpectedPickupDate) &&
		timePtrEqual(a.ExpectedDeliveryDate, b.ExpectedDeliveryDate)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func TestClassifyAddressFallback(t *testing.T) {
	tbl := testTable(t)

	cases := []struct {
		name    string
		pickup  string
		deliver string
		want    bool
	}{
		{"jeju region name", "제주특별자치도 제주시 연동 312-1", "", true},
		{"specific island", "", "전라남도 신안군 흑산면 흑산도 예리 88", true},
		{"broad city name only", "부산광역시 해운대구 마린시티2로 33", "", false},
		{"no address at all", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &domain.Shipment{
				Status:          domain.StatusBooked,
				PickupAddress:   tc.pickup,
				DeliveryAddress: tc.deliver,
			}
			c := Classify(s, day(2024, time.January, 1), tbl)
			if c.IsIsland != tc.want {
				t.Fatalf("IsIsland = %v, want %v", c.IsIsland, tc.want)
			}
		})
	}
}

func TestClassifySaturdayClosed(t *testing.T) {
	tbl := testTable(t)

	cases := []struct {
		name string
		s    domain.Shipment
		want bool
	}{
		{"structured flag", domain.Shipment{CarrierSaturdayOff: true}, true},
		{"phrase no saturday delivery", domain.Shipment{NotifyMsg: "서해5도 토요일 배송 불가"}, true},
		{"phrase saturday off", domain.Shipment{NotifyMsg: "도서 지역 토요일 휴무 안내"}, true},
		{"unrelated notice", domain.Shipment{NotifyMsg: "부재 시 경비실에 보관"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(&tc.s, day(2024, time.January, 1), tbl)
			if c.IsSaturdayClosed != tc.want {
				t.Fatalf("IsSaturdayClosed = %v, want %v", c.IsSaturdayClosed, tc.want)
			}
		})
	}
}

func TestClassifyUnknownStatusMatchesNoGate(t *testing.T) {
	tbl := testTable(t)

	s := &domain.Shipment{
		Status:            domain.ShipmentStatus("CANCELLED"),
		PickupRequestedAt: ts(2023, time.January, 1, 10, 0),
		UpdatedAt:         *ts(2023, time.January, 1, 10, 0),
	}

	c := Classify(s, day(2024, time.June, 1), tbl)

	if c.IsPickupDelayed || c.IsDeliveryDelayed {
		t.Fatalf("unknown status must not be delayed: %+v", c)
	}
}

func TestClassifyNilShipment(t *testing.T) {
	c := Classify(nil, day(2024, time.January, 1), testTable(t))
	if c != (domain.Classification{}) {
		t.Fatalf("nil shipment should classify to zero value, got %+v", c)
	}
}
