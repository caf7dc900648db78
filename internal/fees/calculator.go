package fees

import (
	"github.com/shopspring/decimal"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
)

// FeeBreakdown is the deterministic pricing result for one order quote.
type FeeBreakdown struct {
	ShippingCostCents     int `json:"shipping_cost_cents"`
	CourierSurgeFeeCents  int `json:"courier_surge_fee_cents"`
	PlatformSurgeFeeCents int `json:"platform_surge_fee_cents"`
	ServiceFeeCents       int `json:"service_fee_cents"`
}

// DeliveryFeeCents returns the portion of the breakdown the customer pays
// for transport.
func (f FeeBreakdown) DeliveryFeeCents() int {
	return f.ShippingCostCents + f.CourierSurgeFeeCents + f.PlatformSurgeFeeCents
}

// Compute prices a delivery against a region's fee table. Pure, no I/O.
//
// Shipping is base_fee plus per-km fee on distance beyond the base radius,
// rounded half-up to the nearest minor unit. The multi-merchant surge applies
// only when the order aggregates more than one merchant.
func Compute(distanceKM float64, merchantCount int, region models.RegionConfig) (FeeBreakdown, error) {
	if distanceKM < 0 {
		return FeeBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "distance must be non-negative")
	}
	if merchantCount < 1 {
		return FeeBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "merchant count must be at least 1")
	}
	if region.MaxMerchantsPerOrder < 1 {
		return FeeBreakdown{}, pkgerrors.New(pkgerrors.CodeConfig, "region max merchants per order is not set")
	}
	if merchantCount > region.MaxMerchantsPerOrder {
		return FeeBreakdown{}, pkgerrors.New(pkgerrors.CodeConfig, "merchant count exceeds region cap").
			WithDetails(map[string]any{
				"merchant_count": merchantCount,
				"region_cap":     region.MaxMerchantsPerOrder,
			})
	}
	if region.CourierSurgeShareCents < 0 || region.CourierSurgeShareCents > region.SurgeFeeCents {
		return FeeBreakdown{}, pkgerrors.New(pkgerrors.CodeConfig, "courier surge share exceeds total surge fee")
	}

	breakdown := FeeBreakdown{
		ShippingCostCents: shippingCostCents(distanceKM, region),
		ServiceFeeCents:   region.ServiceFeeCents,
	}
	if merchantCount > 1 {
		breakdown.CourierSurgeFeeCents = region.CourierSurgeShareCents
		breakdown.PlatformSurgeFeeCents = region.SurgeFeeCents - region.CourierSurgeShareCents
	}
	return breakdown, nil
}

func shippingCostCents(distanceKM float64, region models.RegionConfig) int {
	extraKM := decimal.NewFromFloat(distanceKM).Sub(decimal.NewFromFloat(region.BaseDistanceKM))
	if extraKM.IsNegative() {
		extraKM = decimal.Zero
	}
	cost := decimal.NewFromInt(int64(region.BaseFeeCents)).
		Add(extraKM.Mul(decimal.NewFromInt(int64(region.PerKMFeeCents))))
	// Round half-up so ties always land in the platform's favor.
	return int(cost.Round(0).IntPart())
}

// TotalPriceCents freezes the customer-facing total for an order.
func TotalPriceCents(itemsSubtotalCents int, breakdown FeeBreakdown) int {
	return itemsSubtotalCents + breakdown.DeliveryFeeCents() + breakdown.ServiceFeeCents
}
