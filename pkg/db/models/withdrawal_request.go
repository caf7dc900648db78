package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// WithdrawalRequest queues a payout for manual bank transfer. The wallet is
// debited when the request is created, not when it is fulfilled.
type WithdrawalRequest struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID     uuid.UUID              `gorm:"column:actor_id;type:uuid;not null;index"`
	ActorRole   enums.ActorRole        `gorm:"column:actor_role;type:actor_role;not null"`
	AmountCents int                    `gorm:"column:amount_cents;not null"`
	Status      enums.WithdrawalStatus `gorm:"column:status;type:withdrawal_status;not null;default:'requested'"`
	Note        *string                `gorm:"column:note"`
	SettledAt   *time.Time             `gorm:"column:settled_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
