package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// orderAssigner is the slice of the order service dispatch needs: the
// tx-scoped courier acceptance and the plain order read.
type orderAssigner interface {
	CourierAccepted(ctx context.Context, tx *gorm.DB, orderID, courierID uuid.UUID) (*models.Order, error)
}

// Service matches couriers to orders waiting for dispatch.
type Service interface {
	ListEligibleCouriers(ctx context.Context, orderID uuid.UUID) ([]models.Courier, error)
	Assign(ctx context.Context, orderID, courierID uuid.UUID) (*models.Order, error)
	UpsertCourier(ctx context.Context, courier *models.Courier) error
	SetCourierStatus(ctx context.Context, actorID uuid.UUID, status enums.CourierStatus) error
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	assigner   orderAssigner
	tx         txRunner
	engine     config.EngineConfig
}

// NewService builds the dispatch service with the required dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, assigner orderAssigner, tx txRunner, engine config.EngineConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("courier repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if assigner == nil {
		return nil, fmt.Errorf("order assigner required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:       repo,
		ordersRepo: ordersRepo,
		assigner:   assigner,
		tx:         tx,
		engine:     engine,
	}, nil
}

// ListEligibleCouriers returns the couriers allowed to take the order right
// now. The list is advisory: eligibility is re-checked inside Assign.
func (s *service) ListEligibleCouriers(ctx context.Context, orderID uuid.UUID) ([]models.Courier, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.loadOrder(ctx, s.ordersRepo, orderID)
	if err != nil {
		return nil, err
	}
	if order.ShippingStatus != enums.ShippingStatusSearchingCourier {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting dispatch").
			WithDetails(map[string]any{"shipping_status": order.ShippingStatus})
	}

	couriers, err := s.repo.ListEligible(ctx, order.MarketID, int(s.engine.CourierMinOperatingCents))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list eligible couriers")
	}
	if len(couriers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoEligibleCourier, "no courier satisfies dispatch requirements").
			WithDetails(map[string]any{"market_id": order.MarketID})
	}
	return couriers, nil
}

// Assign hands the order to the courier. Eligibility and the order state are
// both re-validated inside the transaction; a courier that went offline or
// spent below the operating floor between listing and acceptance is refused.
func (s *service) Assign(ctx context.Context, orderID, courierID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if courierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.loadOrder(ctx, s.ordersRepo.WithTx(tx), orderID)
		if err != nil {
			return err
		}

		eligible, err := s.repo.WithTx(tx).IsEligible(ctx, courierID, order.MarketID, int(s.engine.CourierMinOperatingCents))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "re-validate courier eligibility")
		}
		if !eligible {
			return pkgerrors.New(pkgerrors.CodeCourierIneligible, "courier no longer satisfies dispatch requirements").
				WithDetails(map[string]any{
					"courier_id": courierID,
					"market_id":  order.MarketID,
				})
		}

		result, err = s.assigner.CourierAccepted(ctx, tx, orderID, courierID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) UpsertCourier(ctx context.Context, courier *models.Courier) error {
	if courier == nil || courier.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "courier actor id required")
	}
	if courier.MarketID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "courier market id required")
	}
	if !courier.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid courier status %q", courier.Status))
	}
	if err := s.repo.Upsert(ctx, courier); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert courier")
	}
	return nil
}

func (s *service) SetCourierStatus(ctx context.Context, actorID uuid.UUID, status enums.CourierStatus) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "courier actor id required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid courier status %q", status))
	}
	ok, err := s.repo.SetStatus(ctx, actorID, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set courier status")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "courier not found")
	}
	return nil
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
