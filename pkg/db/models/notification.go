package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Notification stores one rendered in-app message for an actor. Rows are
// written by the notifications consumer; delivery to devices is external.
type Notification struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID             `gorm:"column:recipient_id;type:uuid;not null;index"`
	EventType   enums.OutboxEventType `gorm:"column:event_type;type:event_type_enum;not null"`
	Title       string                `gorm:"column:title;not null"`
	Message     string                `gorm:"column:message;not null"`
	ReadAt      *time.Time            `gorm:"column:read_at"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
