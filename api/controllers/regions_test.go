package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/internal/fees"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
)

type captureFeesService struct {
	quoted *fees.QuoteInput
}

func (s *captureFeesService) Quote(_ context.Context, input fees.QuoteInput) (*fees.FeeBreakdown, error) {
	s.quoted = &input
	return &fees.FeeBreakdown{}, nil
}

func (s *captureFeesService) GetRegion(context.Context, uuid.UUID) (*models.RegionConfig, error) {
	return &models.RegionConfig{}, nil
}

func (s *captureFeesService) GetRegionByMarket(context.Context, uuid.UUID) (*models.RegionConfig, error) {
	return &models.RegionConfig{}, nil
}

func (s *captureFeesService) ListRegions(context.Context) ([]models.RegionConfig, error) {
	return nil, nil
}

func TestQuoteFeesAcceptsZeroDistance(t *testing.T) {
	svc := &captureFeesService{}
	handler := QuoteFees(svc, testLogger())

	body := `{"market_id":"` + uuid.NewString() + `","distance_km":0,"merchant_count":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fees/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for zero-distance quote got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.quoted == nil {
		t.Fatal("expected Quote to be invoked")
	}
	if svc.quoted.DistanceKM != 0 {
		t.Fatalf("expected distance 0 to pass through got %v", svc.quoted.DistanceKM)
	}
}
