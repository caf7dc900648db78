package fees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
)

type fakeRepository struct {
	findByMarketFn func(ctx context.Context, marketID uuid.UUID) (*models.RegionConfig, error)
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) FindRegionByMarketID(ctx context.Context, marketID uuid.UUID) (*models.RegionConfig, error) {
	if f.findByMarketFn != nil {
		return f.findByMarketFn(ctx, marketID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindRegionByID(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListRegions(ctx context.Context) ([]models.RegionConfig, error) {
	return nil, nil
}

func (f *fakeRepository) UpsertRegion(ctx context.Context, region *models.RegionConfig) error {
	return nil
}

func TestService_Quote(t *testing.T) {
	marketID := uuid.New()
	region := testRegion()
	region.MarketID = marketID

	repo := &fakeRepository{
		findByMarketFn: func(ctx context.Context, id uuid.UUID) (*models.RegionConfig, error) {
			if id != marketID {
				return nil, gorm.ErrRecordNotFound
			}
			found := region
			return &found, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	got, err := svc.Quote(context.Background(), QuoteInput{
		MarketID:      marketID,
		DistanceKM:    8,
		MerchantCount: 2,
	})
	if err != nil {
		t.Fatalf("Quote error: %v", err)
	}
	if got.ShippingCostCents != 11000 {
		t.Fatalf("expected shipping 11000, got %d", got.ShippingCostCents)
	}
	if got.CourierSurgeFeeCents != 2000 || got.PlatformSurgeFeeCents != 1000 {
		t.Fatalf("unexpected surge split: %+v", got)
	}
}

func TestService_QuoteUnknownMarket(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Quote(context.Background(), QuoteInput{
		MarketID:      uuid.New(),
		DistanceKM:    1,
		MerchantCount: 1,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestService_QuoteRequiresMarketID(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Quote(context.Background(), QuoteInput{DistanceKM: 1, MerchantCount: 1})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
