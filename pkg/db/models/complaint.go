package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Complaint tracks a customer dispute over a completed order. Resolution
// debits the liable party and refunds the customer in one transaction; a
// complaint stays OPEN if that transaction cannot complete.
type Complaint struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	CustomerID    uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	Status        enums.ComplaintStatus `gorm:"column:status;type:complaint_status;not null;default:'open'"`
	Reason        string                `gorm:"column:reason;not null"`
	LiableParty   *enums.LiableParty    `gorm:"column:liable_party;type:liable_party"`
	LiableActorID *uuid.UUID            `gorm:"column:liable_actor_id;type:uuid"`
	RefundCents   int                   `gorm:"column:refund_cents;not null;default:0"`
	ResolvedBy    *uuid.UUID            `gorm:"column:resolved_by;type:uuid"`
	ResolvedAt    *time.Time            `gorm:"column:resolved_at"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
