package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/api/middleware"
	"github.com/pasarlokal/pasarlokal-backend/api/responses"
	"github.com/pasarlokal/pasarlokal-backend/api/validators"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
	"github.com/pasarlokal/pasarlokal-backend/pkg/pagination"
)

type createOrderRequest struct {
	MarketID           uuid.UUID   `json:"market_id" validate:"required"`
	MerchantIDs        []uuid.UUID `json:"merchant_ids" validate:"required,min=1,dive,required"`
	DistanceKM         float64     `json:"distance_km" validate:"gte=0"`
	ItemsSubtotalCents int         `json:"items_subtotal_cents" validate:"required,gt=0"`
}

type transitionOrderRequest struct {
	Event string `json:"event" validate:"required"`
}

// CreateOrder opens an order for the authenticated customer with fees frozen
// at acceptance time.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), orders.CreateOrderInput{
			MarketID:           payload.MarketID,
			CustomerID:         actorID,
			MerchantIDs:        payload.MerchantIDs,
			DistanceKM:         payload.DistanceKM,
			ItemsSubtotalCents: payload.ItemsSubtotalCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// TransitionOrder applies a lifecycle event to an order.
func TransitionOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		role, err := enums.ParseActorRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown actor role"))
			return
		}

		var payload transitionOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := enums.ParseOrderEvent(payload.Event)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order event"))
			return
		}

		order, err := svc.Transition(r.Context(), orders.TransitionInput{
			OrderID:   orderID,
			Event:     event,
			ActorID:   actorID,
			ActorRole: role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// GetOrder returns a single order with its lateness flag.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ListOrders returns a filtered, cursor-paginated order list. Non-operator
// roles are always scoped to their own orders.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.ListOrdersInput{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if late := strings.TrimSpace(r.URL.Query().Get("late")); late != "" {
			value, parseErr := strconv.ParseBool(late)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid late value"))
				return
			}
			input.LateOnly = value
		}

		role := middleware.RoleFromContext(r.Context())
		switch enums.ActorRole(role) {
		case enums.ActorRoleCustomer:
			input.CustomerID = &actorID
		case enums.ActorRoleMerchant:
			input.MerchantID = &actorID
		case enums.ActorRoleCourier:
			input.CourierID = &actorID
		default:
			if input.MarketID, err = validators.ParseQueryUUID(r, "market_id"); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if input.CustomerID, err = validators.ParseQueryUUID(r, "customer_id"); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if input.MerchantID, err = validators.ParseQueryUUID(r, "merchant_id"); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if input.CourierID, err = validators.ParseQueryUUID(r, "courier_id"); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		list, err := svc.ListOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func actorUUIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor id")
	}
	return id, nil
}
