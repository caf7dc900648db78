package orders

import (
	"testing"
	"time"

	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

func testEngine() config.EngineConfig {
	return config.EngineConfig{
		UnpaidSLA:  15 * time.Minute,
		PackingSLA: 30 * time.Minute,
	}
}

func TestIsLateUnpaidWindow(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	order := models.Order{
		PaymentStatus:  enums.PaymentStatusUnpaid,
		ShippingStatus: enums.ShippingStatusPacking,
		CreatedAt:      created,
	}

	if IsLate(order, created.Add(14*time.Minute), testEngine()) {
		t.Fatal("order inside the payment window must not be late")
	}
	if IsLate(order, created.Add(15*time.Minute), testEngine()) {
		t.Fatal("order exactly at the window boundary must not be late")
	}
	if !IsLate(order, created.Add(16*time.Minute), testEngine()) {
		t.Fatal("order past the payment window must be late")
	}
}

func TestIsLatePackingWindow(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	paid := created.Add(5 * time.Minute)
	order := models.Order{
		PaymentStatus:  enums.PaymentStatusPaid,
		ShippingStatus: enums.ShippingStatusPacking,
		CreatedAt:      created,
		PaidAt:         &paid,
	}

	if IsLate(order, paid.Add(29*time.Minute), testEngine()) {
		t.Fatal("order inside the packing window must not be late")
	}
	if !IsLate(order, paid.Add(31*time.Minute), testEngine()) {
		t.Fatal("order past the packing window must be late")
	}
}

func TestIsLatePackingWindowCountsFromPayment(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// paid an hour after creation: the packing clock starts at payment,
	// not at order creation
	paid := created.Add(time.Hour)
	order := models.Order{
		PaymentStatus:  enums.PaymentStatusPaid,
		ShippingStatus: enums.ShippingStatusPacking,
		CreatedAt:      created,
		PaidAt:         &paid,
	}

	if IsLate(order, paid.Add(10*time.Minute), testEngine()) {
		t.Fatal("packing window must count from paid_at")
	}
}

func TestIsLateIgnoresTerminalAndActiveDelivery(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	paid := created.Add(time.Minute)
	now := created.Add(24 * time.Hour)

	for _, shipping := range []enums.ShippingStatus{
		enums.ShippingStatusSearchingCourier,
		enums.ShippingStatusShipping,
		enums.ShippingStatusCompleted,
		enums.ShippingStatusCancelled,
	} {
		order := models.Order{
			PaymentStatus:  enums.PaymentStatusPaid,
			ShippingStatus: shipping,
			CreatedAt:      created,
			PaidAt:         &paid,
		}
		if IsLate(order, now, testEngine()) {
			t.Fatalf("%s order must never be flagged late", shipping)
		}
	}
}
