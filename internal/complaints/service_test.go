package complaints

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	dbtypes "github.com/pasarlokal/pasarlokal-backend/pkg/db/types"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/outbox"
	"github.com/pasarlokal/pasarlokal-backend/pkg/pagination"
)

type memComplaintRepository struct {
	complaints map[uuid.UUID]*models.Complaint
}

func newMemComplaintRepository() *memComplaintRepository {
	return &memComplaintRepository{complaints: map[uuid.UUID]*models.Complaint{}}
}

func (m *memComplaintRepository) WithTx(tx *gorm.DB) Repository { return m }

func (m *memComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	complaint.ID = uuid.New()
	complaint.CreatedAt = time.Now()
	stored := *complaint
	m.complaints[complaint.ID] = &stored
	return nil
}

func (m *memComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	complaint, ok := m.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *complaint
	return &found, nil
}

func (m *memComplaintRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, complaint := range m.complaints {
		if complaint.OrderID == orderID {
			out = append(out, *complaint)
		}
	}
	return out, nil
}

func (m *memComplaintRepository) Close(ctx context.Context, id uuid.UUID, resolution Resolution) (bool, error) {
	complaint, ok := m.complaints[id]
	if !ok || complaint.Status != enums.ComplaintStatusOpen {
		return false, nil
	}
	complaint.Status = resolution.Status
	complaint.LiableParty = resolution.LiableParty
	complaint.LiableActorID = resolution.LiableActorID
	complaint.RefundCents = resolution.RefundCents
	complaint.ResolvedBy = &resolution.ResolvedBy
	resolvedAt := resolution.ResolvedAt
	complaint.ResolvedAt = &resolvedAt
	return true, nil
}

type stubOrdersRepository struct {
	orders map[uuid.UUID]*models.Order
}

func (s *stubOrdersRepository) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepository) Create(ctx context.Context, order *models.Order) error {
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrdersRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *order
	return &found, nil
}

func (s *stubOrdersRepository) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

func (s *stubOrdersRepository) MarkReady(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

func (s *stubOrdersRepository) AssignCourier(ctx context.Context, id, courierID uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

func (s *stubOrdersRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

func (s *stubOrdersRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

type fakePenaltyLedger struct {
	balances map[uuid.UUID]int
	entries  []models.LedgerEntry
}

func (f *fakePenaltyLedger) DebitInTx(ctx context.Context, tx *gorm.DB, input ledger.EntryInput) (*models.LedgerEntry, error) {
	if f.balances[input.ActorID] < input.AmountCents {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance, "balance cannot cover debit")
	}
	f.balances[input.ActorID] -= input.AmountCents
	entry := models.LedgerEntry{ActorID: input.ActorID, OrderID: input.OrderID, Type: input.Type, AmountCents: -input.AmountCents}
	f.entries = append(f.entries, entry)
	return &entry, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type complaintFixture struct {
	svc       Service
	repo      *memComplaintRepository
	ledger    *fakePenaltyLedger
	outbox    *fakeOutbox
	order     *models.Order
	customer  uuid.UUID
	courier   uuid.UUID
	merchants []uuid.UUID
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	customer := uuid.New()
	courier := uuid.New()
	merchants := []uuid.UUID{uuid.New(), uuid.New()}
	completedAt := time.Now()
	order := &models.Order{
		ID:              uuid.New(),
		MarketID:        uuid.New(),
		CustomerID:      customer,
		MerchantIDs:     dbtypes.UUIDArray(merchants),
		CourierID:       &courier,
		PaymentStatus:   enums.PaymentStatusPaid,
		ShippingStatus:  enums.ShippingStatusCompleted,
		TotalPriceCents: 52000,
		CompletedAt:     &completedAt,
	}
	ordersRepo := &stubOrdersRepository{orders: map[uuid.UUID]*models.Order{order.ID: order}}
	repo := newMemComplaintRepository()
	penalties := &fakePenaltyLedger{balances: map[uuid.UUID]int{}}
	ob := &fakeOutbox{}

	svc, err := NewService(repo, ordersRepo, penalties, fakeTxRunner{}, ob)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &complaintFixture{
		svc:       svc,
		repo:      repo,
		ledger:    penalties,
		outbox:    ob,
		order:     order,
		customer:  customer,
		courier:   courier,
		merchants: merchants,
	}
}

func (f *complaintFixture) file(t *testing.T) *models.Complaint {
	t.Helper()
	complaint, err := f.svc.File(context.Background(), FileInput{
		OrderID:    f.order.ID,
		CustomerID: f.customer,
		Reason:     "items arrived crushed",
	})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	return complaint
}

func TestFileRequiresCompletedOrder(t *testing.T) {
	fx := newComplaintFixture(t)
	fx.order.ShippingStatus = enums.ShippingStatusShipping

	_, err := fx.svc.File(context.Background(), FileInput{
		OrderID:    fx.order.ID,
		CustomerID: fx.customer,
		Reason:     "late",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestFileRejectsStranger(t *testing.T) {
	fx := newComplaintFixture(t)

	_, err := fx.svc.File(context.Background(), FileInput{
		OrderID:    fx.order.ID,
		CustomerID: uuid.New(),
		Reason:     "not my order",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestFileRejectsSecondOpenComplaint(t *testing.T) {
	fx := newComplaintFixture(t)
	fx.file(t)

	_, err := fx.svc.File(context.Background(), FileInput{
		OrderID:    fx.order.ID,
		CustomerID: fx.customer,
		Reason:     "still unhappy",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

// The refund reaches the customer off-platform; the liable party's debit is
// the only wallet movement a resolution makes.
func TestResolveDebitsLiableCourierOnly(t *testing.T) {
	fx := newComplaintFixture(t)
	complaint := fx.file(t)
	fx.ledger.balances[fx.courier] = 60000

	resolved, err := fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID: complaint.ID,
		LiableParty: enums.LiablePartyCourier,
		OperatorID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != enums.ComplaintStatusResolved {
		t.Fatalf("status = %s, want resolved", resolved.Status)
	}
	if resolved.RefundCents != fx.order.TotalPriceCents {
		t.Fatalf("refund = %d, want %d", resolved.RefundCents, fx.order.TotalPriceCents)
	}
	if resolved.LiableActorID == nil || *resolved.LiableActorID != fx.courier {
		t.Fatal("courier must be recorded as liable actor")
	}
	if fx.ledger.balances[fx.courier] != 60000-52000 {
		t.Fatalf("courier balance = %d after penalty", fx.ledger.balances[fx.courier])
	}
	if len(fx.ledger.entries) != 1 {
		t.Fatalf("entries = %d, want only the liable debit", len(fx.ledger.entries))
	}
	if fx.ledger.entries[0].ActorID != fx.courier {
		t.Fatal("the single ledger entry must belong to the liable courier")
	}
	last := fx.outbox.events[len(fx.outbox.events)-1]
	if last.EventType != enums.EventComplaintResolved {
		t.Fatalf("expected complaint_resolved event, got %s", last.EventType)
	}
}

func TestResolveMerchantLiabilityNamesMerchant(t *testing.T) {
	fx := newComplaintFixture(t)
	complaint := fx.file(t)
	fx.ledger.balances[fx.merchants[1]] = 100000

	_, err := fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID: complaint.ID,
		LiableParty: enums.LiablePartyMerchant,
		OperatorID:  uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("unnamed merchant: expected VALIDATION, got %v", err)
	}

	outsider := uuid.New()
	_, err = fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID:   complaint.ID,
		LiableParty:   enums.LiablePartyMerchant,
		LiableActorID: &outsider,
		OperatorID:    uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("outside merchant: expected VALIDATION, got %v", err)
	}

	resolved, err := fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID:   complaint.ID,
		LiableParty:   enums.LiablePartyMerchant,
		LiableActorID: &fx.merchants[1],
		OperatorID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if *resolved.LiableActorID != fx.merchants[1] {
		t.Fatal("named merchant must be the liable actor")
	}
}

// The penalty debit failing must leave the complaint OPEN so the operator
// can retry later or reject it instead.
func TestResolveInsufficientBalanceLeavesComplaintOpen(t *testing.T) {
	fx := newComplaintFixture(t)
	complaint := fx.file(t)
	fx.ledger.balances[fx.courier] = 1000

	_, err := fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID: complaint.ID,
		LiableParty: enums.LiablePartyCourier,
		OperatorID:  uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientBalance) {
		t.Fatalf("expected INSUFFICIENT_BALANCE, got %v", err)
	}

	stored, err := fx.repo.FindByID(context.Background(), complaint.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Status != enums.ComplaintStatusOpen {
		t.Fatalf("complaint status = %s, want open", stored.Status)
	}
	if len(fx.ledger.entries) != 0 {
		t.Fatal("no ledger entries may survive a failed penalty")
	}
}

func TestResolutionIsTerminal(t *testing.T) {
	fx := newComplaintFixture(t)
	complaint := fx.file(t)
	fx.ledger.balances[fx.courier] = 100000

	if _, err := fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID: complaint.ID,
		LiableParty: enums.LiablePartyCourier,
		OperatorID:  uuid.New(),
	}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	_, err := fx.svc.Resolve(context.Background(), ResolveInput{
		ComplaintID: complaint.ID,
		LiableParty: enums.LiablePartyCourier,
		OperatorID:  uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeAlreadyResolved) {
		t.Fatalf("second resolve: expected ALREADY_RESOLVED, got %v", err)
	}

	_, err = fx.svc.Reject(context.Background(), RejectInput{
		ComplaintID: complaint.ID,
		OperatorID:  uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeAlreadyResolved) {
		t.Fatalf("reject after resolve: expected ALREADY_RESOLVED, got %v", err)
	}
	// balance must not change again after the first resolution
	if fx.ledger.balances[fx.courier] != 100000-52000 {
		t.Fatalf("courier balance = %d, want single penalty", fx.ledger.balances[fx.courier])
	}
}

func TestRejectTouchesNoWallet(t *testing.T) {
	fx := newComplaintFixture(t)
	complaint := fx.file(t)

	rejected, err := fx.svc.Reject(context.Background(), RejectInput{
		ComplaintID: complaint.ID,
		OperatorID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != enums.ComplaintStatusRejected {
		t.Fatalf("status = %s, want rejected", rejected.Status)
	}
	if len(fx.ledger.entries) != 0 {
		t.Fatal("rejection must not write ledger entries")
	}
	last := fx.outbox.events[len(fx.outbox.events)-1]
	if last.EventType != enums.EventComplaintRejected {
		t.Fatalf("expected complaint_rejected event, got %s", last.EventType)
	}
}
