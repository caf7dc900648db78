package models

import (
	"time"

	"github.com/google/uuid"
)

// RegionConfig carries the per-market pricing knobs used when an order is
// created. Operators tune these per region; orders snapshot the resulting
// amounts so later edits never reprice historical orders.
type RegionConfig struct {
	ID                     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketID               uuid.UUID `gorm:"column:market_id;type:uuid;not null;uniqueIndex"`
	Name                   string    `gorm:"column:name;not null"`
	BaseFeeCents           int       `gorm:"column:base_fee_cents;not null"`
	BaseDistanceKM         float64   `gorm:"column:base_distance_km;not null"`
	PerKMFeeCents          int       `gorm:"column:per_km_fee_cents;not null"`
	SurgeFeeCents          int       `gorm:"column:surge_fee_cents;not null"`
	CourierSurgeShareCents int       `gorm:"column:courier_surge_share_cents;not null"`
	MaxMerchantsPerOrder   int       `gorm:"column:max_merchants_per_order;not null"`
	ServiceFeeCents        int       `gorm:"column:service_fee_cents;not null;default:0"`
	MerchantCommissionBps  int       `gorm:"column:merchant_commission_bps;not null;default:0"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
