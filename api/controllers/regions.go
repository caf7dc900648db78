package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/api/responses"
	"github.com/pasarlokal/pasarlokal-backend/api/validators"
	"github.com/pasarlokal/pasarlokal-backend/internal/fees"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
)

type quoteFeesRequest struct {
	MarketID      uuid.UUID `json:"market_id" validate:"required"`
	DistanceKM    float64   `json:"distance_km" validate:"gte=0"`
	MerchantCount int       `json:"merchant_count" validate:"required,min=1"`
}

// GetRegion returns one region's fee configuration.
func GetRegion(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fees service unavailable"))
			return
		}

		regionID, err := validators.ParsePathUUID(r, "regionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		region, err := svc.GetRegion(r.Context(), regionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, region)
	}
}

// ListRegions returns every configured region.
func ListRegions(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fees service unavailable"))
			return
		}

		regions, err := svc.ListRegions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"regions": regions})
	}
}

// QuoteFees prices a hypothetical order without creating one. The quote uses
// live region config, so it is not a commitment.
func QuoteFees(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fees service unavailable"))
			return
		}

		var payload quoteFeesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Quote(r.Context(), fees.QuoteInput{
			MarketID:      payload.MarketID,
			DistanceKM:    payload.DistanceKM,
			MerchantCount: payload.MerchantCount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, breakdown)
	}
}
