package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
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

// Service defines the wallet and settlement operations. Every balance change
// lands together with its ledger entry in one transaction.
type Service interface {
	Credit(ctx context.Context, input EntryInput) (*models.LedgerEntry, error)
	Debit(ctx context.Context, input EntryInput) (*models.LedgerEntry, error)
	CreditInTx(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.LedgerEntry, error)
	DebitInTx(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.LedgerEntry, error)
	SettleDelivery(ctx context.Context, tx *gorm.DB, order models.Order, region models.RegionConfig) error
	Withdraw(ctx context.Context, input WithdrawInput) (*models.WithdrawalRequest, error)
	SettleWithdrawal(ctx context.Context, input SettleWithdrawalInput) (*models.WithdrawalRequest, error)
	GetWallet(ctx context.Context, actorID uuid.UUID) (*models.Wallet, error)
	Reconcile(ctx context.Context, actorID uuid.UUID) (*Reconciliation, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	engine config.EngineConfig
}

// EntryInput captures one wallet mutation and its ledger classification.
// AmountCents is always positive; the operation decides the sign.
type EntryInput struct {
	ActorID     uuid.UUID
	ActorRole   enums.ActorRole
	OrderID     *uuid.UUID
	Type        enums.LedgerEntryType
	AccountCode enums.AccountCode
	AmountCents int
	Metadata    json.RawMessage
}

// WithdrawInput requests an escrow payout of wallet funds.
type WithdrawInput struct {
	ActorID     uuid.UUID
	ActorRole   enums.ActorRole
	AmountCents int
	Note        *string
}

// SettleWithdrawalInput drives a REQUESTED payout to a terminal status.
type SettleWithdrawalInput struct {
	WithdrawalID uuid.UUID
	Succeeded    bool
	Note         *string
	OperatorID   uuid.UUID
}

// Reconciliation compares a wallet balance against its ledger history.
type Reconciliation struct {
	ActorID          uuid.UUID `json:"actor_id"`
	BalanceCents     int       `json:"balance_cents"`
	LedgerTotalCents int       `json:"ledger_total_cents"`
	Consistent       bool      `json:"consistent"`
	EntryCount       int       `json:"entry_count"`
}

// NewService wires a ledger service with its dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, engine config.EngineConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: ob, engine: engine}, nil
}

func (s *service) Credit(ctx context.Context, input EntryInput) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.creditTx(ctx, s.repo.WithTx(tx), input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Debit(ctx context.Context, input EntryInput) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.debitTx(ctx, s.repo.WithTx(tx), input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditInTx credits inside the caller's transaction. Used when the balance
// change must commit or roll back with other domain state.
func (s *service) CreditInTx(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.LedgerEntry, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	return s.creditTx(ctx, s.repo.WithTx(tx), input)
}

// DebitInTx debits inside the caller's transaction.
func (s *service) DebitInTx(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.LedgerEntry, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	return s.debitTx(ctx, s.repo.WithTx(tx), input)
}

func (s *service) creditTx(ctx context.Context, repo Repository, input EntryInput) (*models.LedgerEntry, error) {
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}
	if _, err := repo.EnsureWallet(ctx, input.ActorID, input.ActorRole); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure wallet")
	}
	ok, err := repo.CreditBalance(ctx, input.ActorID, input.AmountCents)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wallet row missing after ensure")
	}

	entry := &models.LedgerEntry{
		ActorID:     input.ActorID,
		OrderID:     input.OrderID,
		Type:        input.Type,
		AccountCode: input.AccountCode,
		AmountCents: input.AmountCents,
		Metadata:    input.Metadata,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record ledger entry")
	}
	return entry, nil
}

func (s *service) debitTx(ctx context.Context, repo Repository, input EntryInput) (*models.LedgerEntry, error) {
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}
	ok, err := repo.DebitBalance(ctx, input.ActorID, input.AmountCents)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit wallet")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance, "balance cannot cover debit").
			WithDetails(map[string]any{"actor_id": input.ActorID, "amount_cents": input.AmountCents})
	}

	entry := &models.LedgerEntry{
		ActorID:     input.ActorID,
		OrderID:     input.OrderID,
		Type:        input.Type,
		AccountCode: input.AccountCode,
		AmountCents: -input.AmountCents,
		Metadata:    input.Metadata,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record ledger entry")
	}
	return entry, nil
}

// SettleDelivery pays out a completed order inside the caller's transaction:
// the courier earns shipping plus their surge share, each merchant earns an
// equal slice of the item revenue net of commission, and the platform account
// collects the service fee, its surge share and the commission.
func (s *service) SettleDelivery(ctx context.Context, tx *gorm.DB, order models.Order, region models.RegionConfig) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required for settlement")
	}
	if order.CourierID == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "cannot settle order without courier")
	}
	if len(order.MerchantIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeInternal, "cannot settle order without merchants")
	}

	repo := s.repo.WithTx(tx)

	courierCents := order.ShippingCostCents + order.CourierSurgeFeeCents
	if _, err := s.creditTx(ctx, repo, EntryInput{
		ActorID:     *order.CourierID,
		ActorRole:   enums.ActorRoleCourier,
		OrderID:     &order.ID,
		Type:        enums.LedgerEntryTypeCourierPayout,
		AccountCode: enums.AccountCodeCourierPayable,
		AmountCents: courierCents,
	}); err != nil {
		return err
	}

	commission := commissionCents(order.ItemsSubtotalCents, region.MerchantCommissionBps)
	merchantShares := splitEvenly(order.ItemsSubtotalCents-commission, len(order.MerchantIDs))
	for i, merchantID := range order.MerchantIDs {
		if merchantShares[i] == 0 {
			continue
		}
		if _, err := s.creditTx(ctx, repo, EntryInput{
			ActorID:     merchantID,
			ActorRole:   enums.ActorRoleMerchant,
			OrderID:     &order.ID,
			Type:        enums.LedgerEntryTypeMerchantPayout,
			AccountCode: enums.AccountCodeMerchantPayable,
			AmountCents: merchantShares[i],
		}); err != nil {
			return err
		}
	}

	platformCents := order.ServiceFeeCents + order.PlatformSurgeFeeCents + commission
	if platformCents > 0 {
		if _, err := s.creditTx(ctx, repo, EntryInput{
			ActorID:     s.engine.PlatformAccount(),
			ActorRole:   enums.ActorRolePlatform,
			OrderID:     &order.ID,
			Type:        enums.LedgerEntryTypeServiceFee,
			AccountCode: enums.AccountCodePlatformRevenue,
			AmountCents: platformCents,
		}); err != nil {
			return err
		}
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPayoutRecorded,
		AggregateType: enums.AggregateLedgerEntry,
		AggregateID:   order.ID,
		Version:       1,
		Data: PayoutRecordedEvent{
			OrderID:       order.ID,
			CourierID:     *order.CourierID,
			CourierCents:  courierCents,
			MerchantCents: order.ItemsSubtotalCents - commission,
			PlatformCents: platformCents,
		},
	})
}

// PayoutRecordedEvent is emitted once per settled delivery.
type PayoutRecordedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	CourierID     uuid.UUID `json:"courier_id"`
	CourierCents  int       `json:"courier_cents"`
	MerchantCents int       `json:"merchant_cents"`
	PlatformCents int       `json:"platform_cents"`
}

// WithdrawalRequestedEvent is emitted when funds enter withdrawal escrow.
type WithdrawalRequestedEvent struct {
	WithdrawalID uuid.UUID       `json:"withdrawal_id"`
	ActorID      uuid.UUID       `json:"actor_id"`
	ActorRole    enums.ActorRole `json:"actor_role"`
	AmountCents  int             `json:"amount_cents"`
}

// WithdrawalSettledEvent is emitted when a payout reaches a terminal status.
type WithdrawalSettledEvent struct {
	WithdrawalID uuid.UUID              `json:"withdrawal_id"`
	ActorID      uuid.UUID              `json:"actor_id"`
	Status       enums.WithdrawalStatus `json:"status"`
	AmountCents  int                    `json:"amount_cents"`
}

func (s *service) Withdraw(ctx context.Context, input WithdrawInput) (*models.WithdrawalRequest, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "withdrawal amount must be positive")
	}

	floor, err := s.withdrawalFloor(input.ActorRole)
	if err != nil {
		return nil, err
	}
	if int64(input.AmountCents) < floor {
		return nil, pkgerrors.New(pkgerrors.CodeBelowMinWithdrawal, "amount below role minimum").
			WithDetails(map[string]any{
				"amount_cents": input.AmountCents,
				"minimum":      floor,
				"role":         input.ActorRole,
			})
	}

	var request *models.WithdrawalRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.debitTx(ctx, repo, EntryInput{
			ActorID:     input.ActorID,
			ActorRole:   input.ActorRole,
			Type:        enums.LedgerEntryTypeWithdrawal,
			AccountCode: enums.AccountCodeWithdrawalEscrow,
			AmountCents: input.AmountCents,
		}); err != nil {
			return err
		}

		request = &models.WithdrawalRequest{
			ActorID:     input.ActorID,
			ActorRole:   input.ActorRole,
			AmountCents: input.AmountCents,
			Status:      enums.WithdrawalStatusRequested,
			Note:        input.Note,
		}
		if err := repo.CreateWithdrawal(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue withdrawal")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWithdrawalRequested,
			AggregateType: enums.AggregateWithdrawal,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.ActorID, Role: input.ActorRole.String()},
			Data: WithdrawalRequestedEvent{
				WithdrawalID: request.ID,
				ActorID:      input.ActorID,
				ActorRole:    input.ActorRole,
				AmountCents:  input.AmountCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// SettleWithdrawal marks a queued payout COMPLETED or FAILED. A failed wire
// is an operational incident; the escrowed debit stays applied and any
// credit-back is a manual adjustment.
func (s *service) SettleWithdrawal(ctx context.Context, input SettleWithdrawalInput) (*models.WithdrawalRequest, error) {
	if input.WithdrawalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "withdrawal id required")
	}

	target := enums.WithdrawalStatusCompleted
	if !input.Succeeded {
		target = enums.WithdrawalStatusFailed
	}

	var request *models.WithdrawalRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindWithdrawal(ctx, input.WithdrawalID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load withdrawal")
		}

		ok, err := repo.SettleWithdrawal(ctx, input.WithdrawalID, target, input.Note)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle withdrawal")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "withdrawal already settled")
		}

		found.Status = target
		if input.Note != nil {
			found.Note = input.Note
		}
		request = found

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWithdrawalSettled,
			AggregateType: enums.AggregateWithdrawal,
			AggregateID:   found.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{ActorID: input.OperatorID, Role: enums.ActorRoleOperator.String()},
			Data: WithdrawalSettledEvent{
				WithdrawalID: found.ID,
				ActorID:      found.ActorID,
				Status:       target,
				AmountCents:  found.AmountCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) GetWallet(ctx context.Context, actorID uuid.UUID) (*models.Wallet, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	wallet, err := s.repo.FindWalletByActor(ctx, actorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return wallet, nil
}

// Reconcile checks that a wallet balance equals the signed sum of its ledger
// history. A mismatch is an invariant violation, never silently corrected.
func (s *service) Reconcile(ctx context.Context, actorID uuid.UUID) (*Reconciliation, error) {
	wallet, err := s.GetWallet(ctx, actorID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntriesByActor(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}

	total := 0
	for _, entry := range entries {
		total += entry.AmountCents
	}
	return &Reconciliation{
		ActorID:          actorID,
		BalanceCents:     wallet.BalanceCents,
		LedgerTotalCents: total,
		Consistent:       wallet.BalanceCents == total,
		EntryCount:       len(entries),
	}, nil
}

func (s *service) withdrawalFloor(role enums.ActorRole) (int64, error) {
	switch role {
	case enums.ActorRoleCourier:
		return s.engine.CourierMinWithdrawalCents, nil
	case enums.ActorRoleMerchant:
		return s.engine.MerchantMinWithdrawalCents, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "role cannot withdraw")
	}
}

func validateEntryInput(input EntryInput) error {
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if input.AmountCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid ledger entry type %q", input.Type))
	}
	if !input.AccountCode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid account code %q", input.AccountCode))
	}
	return nil
}

func commissionCents(subtotalCents, bps int) int {
	if bps <= 0 || subtotalCents <= 0 {
		return 0
	}
	commission := decimal.NewFromInt(int64(subtotalCents)).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(decimal.NewFromInt(10000))
	return int(commission.Round(0).IntPart())
}

// splitEvenly divides an amount into n shares, pushing the remainder into
// the first share so the sum always equals the input.
func splitEvenly(amountCents, n int) []int {
	shares := make([]int, n)
	if n == 0 || amountCents <= 0 {
		return shares
	}
	base := amountCents / n
	remainder := amountCents % n
	for i := range shares {
		shares[i] = base
	}
	shares[0] += remainder
	return shares
}
