package fees

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
)

// Service exposes fee quoting and region lookups.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*FeeBreakdown, error)
	GetRegion(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error)
	GetRegionByMarket(ctx context.Context, marketID uuid.UUID) (*models.RegionConfig, error)
	ListRegions(ctx context.Context) ([]models.RegionConfig, error)
}

type service struct {
	repo Repository
}

// QuoteInput carries the resolved order facts needed to price a delivery.
type QuoteInput struct {
	MarketID      uuid.UUID
	DistanceKM    float64
	MerchantCount int
}

// NewService wires a fees service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("fees repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*FeeBreakdown, error) {
	if input.MarketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "market id required")
	}

	region, err := s.repo.FindRegionByMarketID(ctx, input.MarketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not configured for market")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load region config")
	}

	breakdown, err := Compute(input.DistanceKM, input.MerchantCount, *region)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *service) GetRegion(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "region id required")
	}
	region, err := s.repo.FindRegionByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load region config")
	}
	return region, nil
}

func (s *service) GetRegionByMarket(ctx context.Context, marketID uuid.UUID) (*models.RegionConfig, error) {
	if marketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "market id required")
	}
	region, err := s.repo.FindRegionByMarketID(ctx, marketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not configured for market")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load region config")
	}
	return region, nil
}

func (s *service) ListRegions(ctx context.Context) ([]models.RegionConfig, error) {
	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list region configs")
	}
	return regions, nil
}
