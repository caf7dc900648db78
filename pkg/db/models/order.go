package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/pasarlokal/pasarlokal-backend/pkg/db/types"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Order represents a customer purchase travelling through the delivery
// lifecycle. Payment and shipping progress on independent axes; the monetary
// breakdown is frozen at creation time and never recalculated afterwards.
type Order struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketID              uuid.UUID            `gorm:"column:market_id;type:uuid;not null"`
	CustomerID            uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	MerchantIDs           dbtypes.UUIDArray    `gorm:"column:merchant_ids;type:uuid[];not null"`
	CourierID             *uuid.UUID           `gorm:"column:courier_id;type:uuid"`
	PaymentStatus         enums.PaymentStatus  `gorm:"column:payment_status;type:payment_status;not null;default:'unpaid'"`
	ShippingStatus        enums.ShippingStatus `gorm:"column:shipping_status;type:shipping_status;not null;default:'packing'"`
	DistanceKM            float64              `gorm:"column:distance_km;not null"`
	ItemsSubtotalCents    int                  `gorm:"column:items_subtotal_cents;not null"`
	ShippingCostCents     int                  `gorm:"column:shipping_cost_cents;not null"`
	CourierSurgeFeeCents  int                  `gorm:"column:courier_surge_fee_cents;not null;default:0"`
	PlatformSurgeFeeCents int                  `gorm:"column:platform_surge_fee_cents;not null;default:0"`
	ServiceFeeCents       int                  `gorm:"column:service_fee_cents;not null;default:0"`
	TotalPriceCents       int                  `gorm:"column:total_price_cents;not null"`
	PaidAt                *time.Time           `gorm:"column:paid_at"`
	ReadyAt               *time.Time           `gorm:"column:ready_at"`
	AssignedAt            *time.Time           `gorm:"column:assigned_at"`
	CompletedAt           *time.Time           `gorm:"column:completed_at"`
	CancelledAt           *time.Time           `gorm:"column:cancelled_at"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
