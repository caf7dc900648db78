package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/pagination"
)

// ListFilters narrows operator order listings.
type ListFilters struct {
	MarketID   *uuid.UUID
	CustomerID *uuid.UUID
	MerchantID *uuid.UUID
	CourierID  *uuid.UUID
	LateOnly   bool
	Now        time.Time
	UnpaidSLA  time.Duration
	PackingSLA time.Duration
}

// OrderList is one page of orders with an optional continuation cursor.
type OrderList struct {
	Orders     []models.Order
	NextCursor *string
}

// Repository defines persistence operations for the order lifecycle. State
// transitions are conditional updates; a false return means the precondition
// no longer held.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)

	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkReady(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	AssignCourier(ctx context.Context, id, courierID uuid.UUID, at time.Time) (bool, error)
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
