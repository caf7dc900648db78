package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Courier is the dispatchable profile of a delivery rider within one market.
type Courier struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID   uuid.UUID           `gorm:"column:actor_id;type:uuid;not null;uniqueIndex"`
	MarketID  uuid.UUID           `gorm:"column:market_id;type:uuid;not null;index"`
	Name      string              `gorm:"column:name;not null"`
	Status    enums.CourierStatus `gorm:"column:status;type:courier_status;not null;default:'offline'"`
	Verified  bool                `gorm:"column:verified;not null;default:false"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
