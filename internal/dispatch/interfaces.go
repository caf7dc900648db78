package dispatch

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Repository defines persistence operations for the courier roster.
// Eligibility queries join the wallet table so the operating-balance
// requirement is evaluated in the database, not in memory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByActor(ctx context.Context, actorID uuid.UUID) (*models.Courier, error)
	ListEligible(ctx context.Context, marketID uuid.UUID, minBalanceCents int) ([]models.Courier, error)
	IsEligible(ctx context.Context, actorID, marketID uuid.UUID, minBalanceCents int) (bool, error)
	Upsert(ctx context.Context, courier *models.Courier) error
	SetStatus(ctx context.Context, actorID uuid.UUID, status enums.CourierStatus) (bool, error)
}
