package fees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
)

// Repository defines persistence operations for region fee tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRegionByMarketID(ctx context.Context, marketID uuid.UUID) (*models.RegionConfig, error)
	FindRegionByID(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error)
	ListRegions(ctx context.Context) ([]models.RegionConfig, error)
	UpsertRegion(ctx context.Context, region *models.RegionConfig) error
}
