package fees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a fees repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindRegionByMarketID(ctx context.Context, marketID uuid.UUID) (*models.RegionConfig, error) {
	var region models.RegionConfig
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		First(&region).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *repository) FindRegionByID(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error) {
	var region models.RegionConfig
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&region).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *repository) ListRegions(ctx context.Context) ([]models.RegionConfig, error) {
	var regions []models.RegionConfig
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&regions).Error
	if err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *repository) UpsertRegion(ctx context.Context, region *models.RegionConfig) error {
	return r.db.WithContext(ctx).Save(region).Error
}
