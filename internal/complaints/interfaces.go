package complaints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Resolution captures the terminal fields written when a complaint closes.
type Resolution struct {
	Status        enums.ComplaintStatus
	LiableParty   *enums.LiableParty
	LiableActorID *uuid.UUID
	RefundCents   int
	ResolvedBy    uuid.UUID
	ResolvedAt    time.Time
}

// Repository defines persistence operations for complaints. Close is a
// conditional update guarded on OPEN; false means another resolver won.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error)
	Close(ctx context.Context, id uuid.UUID, resolution Resolution) (bool, error)
}
