package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/internal/fees"
	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	dbtypes "github.com/pasarlokal/pasarlokal-backend/pkg/db/types"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/outbox"
	"github.com/pasarlokal/pasarlokal-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Settler pays out a completed delivery inside the completing transaction.
type Settler interface {
	SettleDelivery(ctx context.Context, tx *gorm.DB, order models.Order, region models.RegionConfig) error
}

// Service is the sole mutator of order state.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	CourierAccepted(ctx context.Context, tx *gorm.DB, orderID, courierID uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderViewList, error)
}

type service struct {
	repo    Repository
	regions fees.Repository
	tx      txRunner
	outbox  outboxPublisher
	settler Settler
	engine  config.EngineConfig
}

// CreateOrderInput carries the externally resolved order facts. Distance and
// merchant resolution happen upstream; the engine freezes pricing here.
type CreateOrderInput struct {
	MarketID           uuid.UUID
	CustomerID         uuid.UUID
	MerchantIDs        []uuid.UUID
	DistanceKM         float64
	ItemsSubtotalCents int
}

// TransitionInput applies one lifecycle event to an order.
type TransitionInput struct {
	OrderID   uuid.UUID
	Event     enums.OrderEvent
	ActorID   uuid.UUID
	ActorRole enums.ActorRole
}

// OrderView decorates an order with its read-time SLA verdict.
type OrderView struct {
	models.Order
	Late bool `json:"late"`
}

// OrderViewList is one page of order views.
type OrderViewList struct {
	Orders     []OrderView `json:"orders"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// ListOrdersInput filters operator order listings.
type ListOrdersInput struct {
	Pagination pagination.Params
	MarketID   *uuid.UUID
	CustomerID *uuid.UUID
	MerchantID *uuid.UUID
	CourierID  *uuid.UUID
	LateOnly   bool
}

// OrderLifecycleEvent is the payload emitted on every order transition.
type OrderLifecycleEvent struct {
	OrderID         uuid.UUID            `json:"order_id"`
	MarketID        uuid.UUID            `json:"market_id"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	MerchantIDs     []uuid.UUID          `json:"merchant_ids,omitempty"`
	PaymentStatus   enums.PaymentStatus  `json:"payment_status"`
	ShippingStatus  enums.ShippingStatus `json:"shipping_status"`
	CourierID       *uuid.UUID           `json:"courier_id,omitempty"`
	TotalPriceCents int                  `json:"total_price_cents"`
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, regions fees.Repository, tx txRunner, ob outboxPublisher, settler Settler, engine config.EngineConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if regions == nil {
		return nil, fmt.Errorf("regions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if settler == nil {
		return nil, fmt.Errorf("settler required")
	}
	return &service{
		repo:    repo,
		regions: regions,
		tx:      tx,
		outbox:  ob,
		settler: settler,
		engine:  engine,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.MarketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "market id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.MerchantIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one merchant required")
	}
	if input.ItemsSubtotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items subtotal must be non-negative")
	}

	region, err := s.regions.FindRegionByMarketID(ctx, input.MarketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "region not configured for market")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load region config")
	}

	breakdown, err := fees.Compute(input.DistanceKM, len(input.MerchantIDs), *region)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		MarketID:              input.MarketID,
		CustomerID:            input.CustomerID,
		MerchantIDs:           dbtypes.UUIDArray(input.MerchantIDs),
		PaymentStatus:         enums.PaymentStatusUnpaid,
		ShippingStatus:        enums.ShippingStatusPacking,
		DistanceKM:            input.DistanceKM,
		ItemsSubtotalCents:    input.ItemsSubtotalCents,
		ShippingCostCents:     breakdown.ShippingCostCents,
		CourierSurgeFeeCents:  breakdown.CourierSurgeFeeCents,
		PlatformSurgeFeeCents: breakdown.PlatformSurgeFeeCents,
		ServiceFeeCents:       breakdown.ServiceFeeCents,
		TotalPriceCents:       fees.TotalPriceCents(input.ItemsSubtotalCents, breakdown),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data:          lifecyclePayload(order),
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Event.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order event %q", input.Event))
	}
	if input.Event == enums.OrderEventCourierAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier assignment goes through dispatch")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		now := time.Now()
		switch input.Event {
		case enums.OrderEventMarkPaid:
			result, err = s.markPaid(ctx, tx, repo, order, now, input)
		case enums.OrderEventMerchantReady:
			result, err = s.merchantReady(ctx, tx, repo, order, now, input)
		case enums.OrderEventDeliveryConfirmed:
			result, err = s.deliveryConfirmed(ctx, tx, repo, order, now, input)
		case enums.OrderEventCancel:
			result, err = s.cancel(ctx, tx, repo, order, now, input)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unhandled order event %q", input.Event))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) markPaid(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, now time.Time, input TransitionInput) (*models.Order, error) {
	ok, err := repo.MarkPaid(ctx, order.ID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}
	if !ok {
		return nil, invalidTransition(order, enums.OrderEventMarkPaid)
	}
	order.PaymentStatus = enums.PaymentStatusPaid
	order.PaidAt = &now

	if err := s.emitLifecycle(ctx, tx, enums.EventOrderPaid, order, input); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) merchantReady(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, now time.Time, input TransitionInput) (*models.Order, error) {
	ok, err := repo.MarkReady(ctx, order.ID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order ready")
	}
	if !ok {
		return nil, invalidTransition(order, enums.OrderEventMerchantReady)
	}
	order.ShippingStatus = enums.ShippingStatusSearchingCourier
	order.ReadyAt = &now

	if err := s.emitLifecycle(ctx, tx, enums.EventOrderReady, order, input); err != nil {
		return nil, err
	}
	return order, nil
}

// deliveryConfirmed completes the order and settles the payout in the same
// transaction. A duplicate confirmation finds the order already COMPLETED
// and returns it unchanged; the CAS below makes double-pay impossible.
func (s *service) deliveryConfirmed(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, now time.Time, input TransitionInput) (*models.Order, error) {
	if order.ShippingStatus == enums.ShippingStatusCompleted {
		return order, nil
	}

	ok, err := repo.Complete(ctx, order.ID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
	}
	if !ok {
		return nil, invalidTransition(order, enums.OrderEventDeliveryConfirmed)
	}
	order.ShippingStatus = enums.ShippingStatusCompleted
	order.CompletedAt = &now

	region, err := s.regions.WithTx(tx).FindRegionByMarketID(ctx, order.MarketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load region for settlement")
	}
	if err := s.settler.SettleDelivery(ctx, tx, *order, *region); err != nil {
		return nil, err
	}

	if err := s.emitLifecycle(ctx, tx, enums.EventOrderCompleted, order, input); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) cancel(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, now time.Time, input TransitionInput) (*models.Order, error) {
	ok, err := repo.Cancel(ctx, order.ID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	if !ok {
		return nil, invalidTransition(order, enums.OrderEventCancel)
	}
	order.ShippingStatus = enums.ShippingStatusCancelled
	order.CancelledAt = &now

	// An order cancelled before payment never touched any wallet, so there
	// is nothing to release besides the state itself.
	if err := s.emitLifecycle(ctx, tx, enums.EventOrderCancelled, order, input); err != nil {
		return nil, err
	}
	return order, nil
}

// CourierAccepted is dispatch-only: it runs inside the dispatch transaction
// after eligibility has been re-validated there.
func (s *service) CourierAccepted(ctx context.Context, tx *gorm.DB, orderID, courierID uuid.UUID) (*models.Order, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required for courier assignment")
	}
	repo := s.repo.WithTx(tx)

	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	now := time.Now()
	ok, err := repo.AssignCourier(ctx, orderID, courierID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign courier")
	}
	if !ok {
		return nil, invalidTransition(order, enums.OrderEventCourierAccepted)
	}
	order.ShippingStatus = enums.ShippingStatusShipping
	order.CourierID = &courierID
	order.AssignedAt = &now

	err = s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderAssigned,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{ActorID: courierID, Role: enums.ActorRoleCourier.String()},
		Data:          lifecyclePayload(order),
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return &OrderView{
		Order: *order,
		Late:  IsLate(*order, time.Now(), s.engine),
	}, nil
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderViewList, error) {
	now := time.Now()
	list, err := s.repo.List(ctx, input.Pagination, ListFilters{
		MarketID:   input.MarketID,
		CustomerID: input.CustomerID,
		MerchantID: input.MerchantID,
		CourierID:  input.CourierID,
		LateOnly:   input.LateOnly,
		Now:        now,
		UnpaidSLA:  s.engine.UnpaidSLA,
		PackingSLA: s.engine.PackingSLA,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]OrderView, 0, len(list.Orders))
	for _, order := range list.Orders {
		views = append(views, OrderView{
			Order: order,
			Late:  IsLate(order, now, s.engine),
		})
	}
	return &OrderViewList{Orders: views, NextCursor: list.NextCursor}, nil
}

func (s *service) emitLifecycle(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, order *models.Order, input TransitionInput) error {
	var actor *outbox.ActorRef
	if input.ActorID != uuid.Nil {
		actor = &outbox.ActorRef{ActorID: input.ActorID, Role: input.ActorRole.String()}
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         actor,
		Data:          lifecyclePayload(order),
	})
}

func lifecyclePayload(order *models.Order) OrderLifecycleEvent {
	return OrderLifecycleEvent{
		OrderID:         order.ID,
		MarketID:        order.MarketID,
		CustomerID:      order.CustomerID,
		MerchantIDs:     []uuid.UUID(order.MerchantIDs),
		PaymentStatus:   order.PaymentStatus,
		ShippingStatus:  order.ShippingStatus,
		CourierID:       order.CourierID,
		TotalPriceCents: order.TotalPriceCents,
	}
}

func invalidTransition(order *models.Order, event enums.OrderEvent) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "transition precondition no longer holds").
		WithDetails(map[string]any{
			"order_id":        order.ID,
			"event":           event,
			"payment_status":  order.PaymentStatus,
			"shipping_status": order.ShippingStatus,
		})
}
