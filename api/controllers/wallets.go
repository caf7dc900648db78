package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/api/middleware"
	"github.com/pasarlokal/pasarlokal-backend/api/responses"
	"github.com/pasarlokal/pasarlokal-backend/api/validators"
	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
)

type withdrawRequest struct {
	AmountCents int     `json:"amount_cents" validate:"required,gt=0"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type settleWithdrawalRequest struct {
	Succeeded bool    `json:"succeeded"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// GetWallet returns an actor's wallet. Pass reconcile=true to cross-check the
// balance against the ledger entry sum.
func GetWallet(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		walletActorID, err := validators.ParsePathUUID(r, "actorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := requireSelfOrOperator(r, walletActorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if reconcile := strings.TrimSpace(r.URL.Query().Get("reconcile")); reconcile != "" {
			value, parseErr := strconv.ParseBool(reconcile)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid reconcile value"))
				return
			}
			if value {
				report, recErr := svc.Reconcile(r.Context(), walletActorID)
				if recErr != nil {
					responses.WriteError(r.Context(), logg, w, recErr)
					return
				}
				responses.WriteSuccess(w, report)
				return
			}
		}

		wallet, err := svc.GetWallet(r.Context(), walletActorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wallet)
	}
}

// Withdraw books a payout request against the actor's wallet balance.
func Withdraw(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		walletActorID, err := validators.ParsePathUUID(r, "actorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if actorID != walletActorID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "withdrawals may only target your own wallet"))
			return
		}

		role, err := enums.ParseActorRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown actor role"))
			return
		}

		var payload withdrawRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		withdrawal, err := svc.Withdraw(r.Context(), ledger.WithdrawInput{
			ActorID:     walletActorID,
			ActorRole:   role,
			AmountCents: payload.AmountCents,
			Note:        payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, withdrawal)
	}
}

// SettleWithdrawal records the terminal outcome of a payout. Failed payouts
// restore the held balance.
func SettleWithdrawal(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		withdrawalID, err := validators.ParsePathUUID(r, "withdrawalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		operatorID, err := actorUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload settleWithdrawalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		withdrawal, err := svc.SettleWithdrawal(r.Context(), ledger.SettleWithdrawalInput{
			WithdrawalID: withdrawalID,
			Succeeded:    payload.Succeeded,
			Note:         payload.Note,
			OperatorID:   operatorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, withdrawal)
	}
}

func requireSelfOrOperator(r *http.Request, target uuid.UUID) error {
	actorID, err := actorUUIDFromContext(r)
	if err != nil {
		return err
	}
	if actorID == target {
		return nil
	}
	switch enums.ActorRole(middleware.RoleFromContext(r.Context())) {
	case enums.ActorRoleOperator, enums.ActorRolePlatform:
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "wallet belongs to another actor")
}
