package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/api/middleware"
	"github.com/pasarlokal/pasarlokal-backend/api/responses"
	"github.com/pasarlokal/pasarlokal-backend/api/validators"
	"github.com/pasarlokal/pasarlokal-backend/internal/dispatch"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
)

type assignCourierRequest struct {
	CourierID *uuid.UUID `json:"courier_id,omitempty"`
}

type upsertCourierRequest struct {
	MarketID uuid.UUID `json:"market_id" validate:"required"`
	Name     string    `json:"name" validate:"required,min=2,max=120"`
}

type courierStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListEligibleCouriers returns the couriers able to take an order right now.
// The list is advisory: assignment re-checks eligibility transactionally.
func ListEligibleCouriers(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couriers, err := svc.ListEligibleCouriers(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"couriers": couriers})
	}
}

// AssignCourier locks an order onto a courier. Couriers accept for themselves;
// operators may name any courier in the body.
func AssignCourier(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignCourierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		courierID := actorID
		role := enums.ActorRole(middleware.RoleFromContext(r.Context()))
		switch role {
		case enums.ActorRoleCourier:
			if payload.CourierID != nil && *payload.CourierID != actorID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "couriers may only accept for themselves"))
				return
			}
		case enums.ActorRoleOperator, enums.ActorRolePlatform:
			if payload.CourierID == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "courier_id is required"))
				return
			}
			courierID = *payload.CourierID
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed"))
			return
		}

		order, err := svc.Assign(r.Context(), orderID, courierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// UpsertCourier registers or updates the authenticated courier's profile.
// Verification stays with operators, so it is never set here.
func UpsertCourier(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertCourierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		courier := &models.Courier{
			ActorID:  actorID,
			MarketID: payload.MarketID,
			Name:     validators.SanitizeString(payload.Name, 120),
		}
		if err := svc.UpsertCourier(r.Context(), courier); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, courier)
	}
}

// SetCourierStatus flips the authenticated courier between active, suspended
// and offline.
func SetCourierStatus(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload courierStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCourierStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid courier status"))
			return
		}

		if err := svc.SetCourierStatus(r.Context(), actorID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}
