package fees

import (
	"testing"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
)

func testRegion() models.RegionConfig {
	return models.RegionConfig{
		Name:                   "Pasar Minggu",
		BaseFeeCents:           5000,
		BaseDistanceKM:         5,
		PerKMFeeCents:          2000,
		SurgeFeeCents:          3000,
		CourierSurgeShareCents: 2000,
		MaxMerchantsPerOrder:   4,
		ServiceFeeCents:        1000,
	}
}

func TestCompute_DistanceBeyondBase(t *testing.T) {
	got, err := Compute(8, 1, testRegion())
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if got.ShippingCostCents != 11000 {
		t.Fatalf("expected shipping 11000, got %d", got.ShippingCostCents)
	}
	if got.CourierSurgeFeeCents != 0 || got.PlatformSurgeFeeCents != 0 {
		t.Fatalf("single-merchant order must carry no surge, got %+v", got)
	}
}

func TestCompute_MultiMerchantSurgeSplit(t *testing.T) {
	got, err := Compute(3, 2, testRegion())
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if got.ShippingCostCents != 5000 {
		t.Fatalf("expected flat base fee 5000, got %d", got.ShippingCostCents)
	}
	if got.CourierSurgeFeeCents != 2000 {
		t.Fatalf("expected courier surge 2000, got %d", got.CourierSurgeFeeCents)
	}
	if got.PlatformSurgeFeeCents != 1000 {
		t.Fatalf("expected platform surge 1000, got %d", got.PlatformSurgeFeeCents)
	}
}

func TestCompute_ZeroDistanceIsLegal(t *testing.T) {
	got, err := Compute(0, 1, testRegion())
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if got.ShippingCostCents != 5000 {
		t.Fatalf("in-pasar pickup must yield base fee only, got %d", got.ShippingCostCents)
	}
}

func TestCompute_FractionalDistanceRoundsHalfUp(t *testing.T) {
	region := testRegion()
	region.PerKMFeeCents = 1001
	// 0.5 km beyond base: 5000 + 500.5 rounds to 5501, never 5500.
	got, err := Compute(5.5, 1, region)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if got.ShippingCostCents != 5501 {
		t.Fatalf("expected half-up rounding to 5501, got %d", got.ShippingCostCents)
	}
}

func TestCompute_MerchantCountAboveCap(t *testing.T) {
	_, err := Compute(3, 5, testRegion())
	if !pkgerrors.HasCode(err, pkgerrors.CodeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestCompute_IncoherentSurgeSplit(t *testing.T) {
	region := testRegion()
	region.CourierSurgeShareCents = region.SurgeFeeCents + 500
	_, err := Compute(3, 2, region)
	if !pkgerrors.HasCode(err, pkgerrors.CodeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestCompute_NegativeDistanceRejected(t *testing.T) {
	_, err := Compute(-1, 1, testRegion())
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCompute_MonotonicInDistanceAndMerchants(t *testing.T) {
	region := testRegion()
	prev := -1
	for _, distance := range []float64{0, 1, 4.9, 5, 5.1, 8, 20} {
		got, err := Compute(distance, 1, region)
		if err != nil {
			t.Fatalf("Compute(%v) error: %v", distance, err)
		}
		if got.ShippingCostCents < prev {
			t.Fatalf("shipping cost decreased at distance %v: %d < %d", distance, got.ShippingCostCents, prev)
		}
		prev = got.ShippingCostCents
	}

	single, err := Compute(8, 1, region)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	multi, err := Compute(8, 2, region)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if multi.DeliveryFeeCents() < single.DeliveryFeeCents() {
		t.Fatalf("delivery fee decreased with merchant count: %d < %d", multi.DeliveryFeeCents(), single.DeliveryFeeCents())
	}
}

func TestTotalPriceCents(t *testing.T) {
	breakdown := FeeBreakdown{
		ShippingCostCents:     11000,
		CourierSurgeFeeCents:  2000,
		PlatformSurgeFeeCents: 1000,
		ServiceFeeCents:       1000,
	}
	if got := TotalPriceCents(40000, breakdown); got != 55000 {
		t.Fatalf("expected total 55000, got %d", got)
	}
}
