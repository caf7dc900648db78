package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// LedgerEntry records an immutable money movement against an actor's wallet.
// AmountCents is signed: positive credits the wallet, negative debits it.
type LedgerEntry struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID     uuid.UUID             `gorm:"column:actor_id;type:uuid;not null;index"`
	OrderID     *uuid.UUID            `gorm:"column:order_id;type:uuid;index"`
	Type        enums.LedgerEntryType `gorm:"column:type;type:ledger_entry_type_enum;not null"`
	AccountCode enums.AccountCode     `gorm:"column:account_code;type:text;not null"`
	AmountCents int                   `gorm:"column:amount_cents;not null"`
	Metadata    json.RawMessage       `gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
