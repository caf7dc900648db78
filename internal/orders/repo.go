package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	"github.com/pasarlokal/pasarlokal-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filters.MarketID != nil {
		query = query.Where("market_id = ?", *filters.MarketID)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.MerchantID != nil {
		query = query.Where("? = ANY(merchant_ids)", *filters.MerchantID)
	}
	if filters.CourierID != nil {
		query = query.Where("courier_id = ?", *filters.CourierID)
	}
	if filters.LateOnly {
		now := filters.Now
		if now.IsZero() {
			now = time.Now()
		}
		unpaidCutoff := now.Add(-filters.UnpaidSLA)
		packingCutoff := now.Add(-filters.PackingSLA)
		query = query.Where(
			"(payment_status = ? AND shipping_status NOT IN (?, ?) AND created_at < ?) OR (payment_status = ? AND shipping_status = ? AND paid_at < ?)",
			enums.PaymentStatusUnpaid, enums.ShippingStatusCompleted, enums.ShippingStatusCancelled, unpaidCutoff,
			enums.PaymentStatusPaid, enums.ShippingStatusPacking, packingCutoff,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Order
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		last := list.Orders[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ? AND shipping_status = ?",
			id, enums.PaymentStatusUnpaid, enums.ShippingStatusPacking).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusPaid,
			"paid_at":        at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkReady(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ? AND shipping_status = ?",
			id, enums.PaymentStatusPaid, enums.ShippingStatusPacking).
		Updates(map[string]any{
			"shipping_status": enums.ShippingStatusSearchingCourier,
			"ready_at":        at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) AssignCourier(ctx context.Context, id, courierID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND shipping_status = ? AND courier_id IS NULL",
			id, enums.ShippingStatusSearchingCourier).
		Updates(map[string]any{
			"shipping_status": enums.ShippingStatusShipping,
			"courier_id":      courierID,
			"assigned_at":     at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND shipping_status = ?", id, enums.ShippingStatusShipping).
		Updates(map[string]any{
			"shipping_status": enums.ShippingStatusCompleted,
			"completed_at":    at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND shipping_status IN (?, ?)",
			id, enums.ShippingStatusPacking, enums.ShippingStatusSearchingCourier).
		Updates(map[string]any{
			"shipping_status": enums.ShippingStatusCancelled,
			"cancelled_at":    at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
