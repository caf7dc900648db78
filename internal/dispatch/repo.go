package dispatch

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

// NewRepository returns a courier repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByActor(ctx context.Context, actorID uuid.UUID) (*models.Courier, error) {
	var courier models.Courier
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		First(&courier).Error
	if err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *repository) ListEligible(ctx context.Context, marketID uuid.UUID, minBalanceCents int) ([]models.Courier, error) {
	var couriers []models.Courier
	err := r.db.WithContext(ctx).
		Joins("JOIN wallets ON wallets.actor_id = couriers.actor_id").
		Where("couriers.market_id = ?", marketID).
		Where("couriers.status = ?", enums.CourierStatusActive).
		Where("couriers.verified").
		Where("wallets.balance_cents >= ?", minBalanceCents).
		Order("couriers.created_at ASC").
		Find(&couriers).Error
	if err != nil {
		return nil, err
	}
	return couriers, nil
}

// IsEligible re-evaluates the same predicate ListEligible uses, for a single
// courier. Called inside the assignment transaction so the list result is
// never trusted at write time.
func (r *repository) IsEligible(ctx context.Context, actorID, marketID uuid.UUID, minBalanceCents int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Courier{}).
		Joins("JOIN wallets ON wallets.actor_id = couriers.actor_id").
		Where("couriers.actor_id = ?", actorID).
		Where("couriers.market_id = ?", marketID).
		Where("couriers.status = ?", enums.CourierStatusActive).
		Where("couriers.verified").
		Where("wallets.balance_cents >= ?", minBalanceCents).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Upsert(ctx context.Context, courier *models.Courier) error {
	existing, err := r.FindByActor(ctx, courier.ActorID)
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(courier).Error
	}
	if err != nil {
		return err
	}
	courier.ID = existing.ID
	courier.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(courier).Error
}

func (r *repository) SetStatus(ctx context.Context, actorID uuid.UUID, status enums.CourierStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Courier{}).
		Where("actor_id = ?", actorID).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
