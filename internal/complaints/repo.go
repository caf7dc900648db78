package complaints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a complaint repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// Close moves an OPEN complaint to a terminal status. The guard on the
// current status keeps a second resolver from overwriting the verdict.
func (r *repository) Close(ctx context.Context, id uuid.UUID, resolution Resolution) (bool, error) {
	updates := map[string]any{
		"status":       resolution.Status,
		"refund_cents": resolution.RefundCents,
		"resolved_by":  resolution.ResolvedBy,
		"resolved_at":  resolution.ResolvedAt,
	}
	if resolution.LiableParty != nil {
		updates["liable_party"] = *resolution.LiableParty
	}
	if resolution.LiableActorID != nil {
		updates["liable_actor_id"] = *resolution.LiableActorID
	}
	res := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ? AND status = ?", id, enums.ComplaintStatusOpen).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
