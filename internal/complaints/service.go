package complaints

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// penaltyLedger is the slice of the ledger service the resolver needs: the
// penalty debit runs inside the resolution transaction.
type penaltyLedger interface {
	DebitInTx(ctx context.Context, tx *gorm.DB, input ledger.EntryInput) (*models.LedgerEntry, error)
}

// Service handles customer disputes over completed orders.
type Service interface {
	File(ctx context.Context, input FileInput) (*models.Complaint, error)
	Resolve(ctx context.Context, input ResolveInput) (*models.Complaint, error)
	Reject(ctx context.Context, input RejectInput) (*models.Complaint, error)
	GetComplaint(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	ledger     penaltyLedger
	tx         txRunner
	outbox     outboxPublisher
}

// FileInput opens a dispute against a completed order.
type FileInput struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	Reason     string
}

// ResolveInput upholds a complaint and names the liable party. For courier
// liability the actor is taken from the order; merchant liability must name
// which merchant since an order can span several.
type ResolveInput struct {
	ComplaintID   uuid.UUID
	LiableParty   enums.LiableParty
	LiableActorID *uuid.UUID
	OperatorID    uuid.UUID
}

// RejectInput closes a complaint without penalty.
type RejectInput struct {
	ComplaintID uuid.UUID
	OperatorID  uuid.UUID
}

// ComplaintEvent is the payload emitted on complaint lifecycle changes.
type ComplaintEvent struct {
	ComplaintID uuid.UUID             `json:"complaint_id"`
	OrderID     uuid.UUID             `json:"order_id"`
	CustomerID  uuid.UUID             `json:"customer_id"`
	Status      enums.ComplaintStatus `json:"status"`
	LiableParty *enums.LiableParty    `json:"liable_party,omitempty"`
	RefundCents int                   `json:"refund_cents,omitempty"`
}

// NewService builds the complaint service with the required dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, penalties penaltyLedger, tx txRunner, ob outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaint repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if penalties == nil {
		return nil, fmt.Errorf("penalty ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, ordersRepo: ordersRepo, ledger: penalties, tx: tx, outbox: ob}, nil
}

// File opens a complaint. Only completed orders can be disputed, only by the
// customer who placed them, and only one dispute may be open per order.
func (s *service) File(ctx context.Context, input FileInput) (*models.Complaint, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}

	order, err := s.loadOrder(ctx, s.ordersRepo, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ShippingStatus != enums.ShippingStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only completed orders can be disputed").
			WithDetails(map[string]any{"shipping_status": order.ShippingStatus})
	}
	if order.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "complaint must come from the order customer")
	}

	existing, err := s.repo.ListByOrder(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order complaints")
	}
	for _, complaint := range existing {
		if complaint.Status == enums.ComplaintStatusOpen {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already has an open complaint").
				WithDetails(map[string]any{"complaint_id": complaint.ID})
		}
	}

	complaint := &models.Complaint{
		OrderID:    input.OrderID,
		CustomerID: input.CustomerID,
		Status:     enums.ComplaintStatusOpen,
		Reason:     input.Reason,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, complaint); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
		}
		return s.emit(ctx, tx, enums.EventComplaintFiled, complaint, &outbox.ActorRef{
			ActorID: input.CustomerID,
			Role:    enums.ActorRoleCustomer.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

// Resolve upholds the complaint: the liable party is debited the full order
// total inside the closing transaction. The refund itself reaches the
// customer outside the wallet system; the debit entry is the system of
// record for it. A liable party that cannot cover the penalty rolls
// everything back and the complaint stays OPEN for the operator to retry
// or reject.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (*models.Complaint, error) {
	if input.ComplaintID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	if !input.LiableParty.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid liable party %q", input.LiableParty))
	}

	var result *models.Complaint
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		complaint, err := s.loadComplaint(ctx, repo, input.ComplaintID)
		if err != nil {
			return err
		}
		if complaint.Status.IsTerminal() {
			return alreadyResolved(complaint)
		}

		order, err := s.loadOrder(ctx, s.ordersRepo.WithTx(tx), complaint.OrderID)
		if err != nil {
			return err
		}

		liableActorID, err := resolveLiableActor(input, order)
		if err != nil {
			return err
		}

		refund := order.TotalPriceCents
		if _, err := s.ledger.DebitInTx(ctx, tx, ledger.EntryInput{
			ActorID:     liableActorID,
			ActorRole:   input.LiableParty.Role(),
			OrderID:     &order.ID,
			Type:        enums.LedgerEntryTypePenaltyRefund,
			AccountCode: enums.AccountCodePenaltyClearing,
			AmountCents: refund,
		}); err != nil {
			return err
		}

		now := time.Now()
		party := input.LiableParty
		ok, err := repo.Close(ctx, complaint.ID, Resolution{
			Status:        enums.ComplaintStatusResolved,
			LiableParty:   &party,
			LiableActorID: &liableActorID,
			RefundCents:   refund,
			ResolvedBy:    input.OperatorID,
			ResolvedAt:    now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close complaint")
		}
		if !ok {
			return alreadyResolved(complaint)
		}

		complaint.Status = enums.ComplaintStatusResolved
		complaint.LiableParty = &party
		complaint.LiableActorID = &liableActorID
		complaint.RefundCents = refund
		complaint.ResolvedBy = &input.OperatorID
		complaint.ResolvedAt = &now
		result = complaint

		return s.emit(ctx, tx, enums.EventComplaintResolved, complaint, &outbox.ActorRef{
			ActorID: input.OperatorID,
			Role:    enums.ActorRoleOperator.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject closes the complaint without touching any wallet.
func (s *service) Reject(ctx context.Context, input RejectInput) (*models.Complaint, error) {
	if input.ComplaintID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}

	var result *models.Complaint
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		complaint, err := s.loadComplaint(ctx, repo, input.ComplaintID)
		if err != nil {
			return err
		}
		if complaint.Status.IsTerminal() {
			return alreadyResolved(complaint)
		}

		now := time.Now()
		ok, err := repo.Close(ctx, complaint.ID, Resolution{
			Status:     enums.ComplaintStatusRejected,
			ResolvedBy: input.OperatorID,
			ResolvedAt: now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close complaint")
		}
		if !ok {
			return alreadyResolved(complaint)
		}

		complaint.Status = enums.ComplaintStatusRejected
		complaint.ResolvedBy = &input.OperatorID
		complaint.ResolvedAt = &now
		result = complaint

		return s.emit(ctx, tx, enums.EventComplaintRejected, complaint, &outbox.ActorRef{
			ActorID: input.OperatorID,
			Role:    enums.ActorRoleOperator.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetComplaint(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	return s.loadComplaint(ctx, s.repo, id)
}

func (s *service) loadComplaint(ctx context.Context, repo Repository, id uuid.UUID) (*models.Complaint, error) {
	complaint, err := repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}
	return complaint, nil
}

func (s *service) loadOrder(ctx context.Context, repo orders.Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, complaint *models.Complaint, actor *outbox.ActorRef) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateComplaint,
		AggregateID:   complaint.ID,
		Version:       1,
		Actor:         actor,
		Data: ComplaintEvent{
			ComplaintID: complaint.ID,
			OrderID:     complaint.OrderID,
			CustomerID:  complaint.CustomerID,
			Status:      complaint.Status,
			LiableParty: complaint.LiableParty,
			RefundCents: complaint.RefundCents,
		},
	})
}

func resolveLiableActor(input ResolveInput, order *models.Order) (uuid.UUID, error) {
	switch input.LiableParty {
	case enums.LiablePartyCourier:
		if order.CourierID == nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no courier to hold liable")
		}
		return *order.CourierID, nil
	case enums.LiablePartyMerchant:
		if input.LiableActorID == nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant liability must name the merchant")
		}
		if !order.MerchantIDs.Contains(*input.LiableActorID) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "named merchant is not part of the order")
		}
		return *input.LiableActorID, nil
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid liable party %q", input.LiableParty))
	}
}

func alreadyResolved(complaint *models.Complaint) error {
	return pkgerrors.New(pkgerrors.CodeAlreadyResolved, "complaint already closed").
		WithDetails(map[string]any{
			"complaint_id": complaint.ID,
			"status":       complaint.Status,
		})
}
