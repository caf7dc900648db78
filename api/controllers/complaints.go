package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/api/responses"
	"github.com/pasarlokal/pasarlokal-backend/api/validators"
	"github.com/pasarlokal/pasarlokal-backend/internal/complaints"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
)

type fileComplaintRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Reason  string    `json:"reason" validate:"required,min=10,max=2000"`
}

type resolveComplaintRequest struct {
	LiableParty   string     `json:"liable_party" validate:"required"`
	LiableActorID *uuid.UUID `json:"liable_actor_id,omitempty"`
}

// FileComplaint opens a dispute on a completed order for the authenticated
// customer.
func FileComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload fileComplaintRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.File(r.Context(), complaints.FileInput{
			OrderID:    payload.OrderID,
			CustomerID: actorID,
			Reason:     validators.SanitizeString(payload.Reason, 2000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, complaint)
	}
}

// ResolveComplaint closes a dispute in the customer's favor, debiting the
// liable party and refunding the customer atomically.
func ResolveComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := validators.ParsePathUUID(r, "complaintID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		operatorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resolveComplaintRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		party, err := enums.ParseLiableParty(payload.LiableParty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid liable party"))
			return
		}

		complaint, err := svc.Resolve(r.Context(), complaints.ResolveInput{
			ComplaintID:   complaintID,
			LiableParty:   party,
			LiableActorID: payload.LiableActorID,
			OperatorID:    operatorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, complaint)
	}
}

// RejectComplaint closes a dispute without any wallet movement.
func RejectComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := validators.ParsePathUUID(r, "complaintID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		operatorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.Reject(r.Context(), complaints.RejectInput{
			ComplaintID: complaintID,
			OperatorID:  operatorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, complaint)
	}
}

// GetComplaint returns a single complaint by id.
func GetComplaint(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := validators.ParsePathUUID(r, "complaintID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.GetComplaint(r.Context(), complaintID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, complaint)
	}
}
