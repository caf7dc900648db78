package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Wallet holds the running balance owed to an actor. Balances only change
// through guarded updates issued alongside a ledger entry in the same
// transaction, so the ledger always explains the balance.
type Wallet struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID      uuid.UUID       `gorm:"column:actor_id;type:uuid;not null;uniqueIndex"`
	ActorRole    enums.ActorRole `gorm:"column:actor_role;type:actor_role;not null"`
	BalanceCents int             `gorm:"column:balance_cents;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
