package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindWalletByActor(ctx context.Context, actorID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) EnsureWallet(ctx context.Context, actorID uuid.UUID, role enums.ActorRole) (*models.Wallet, error) {
	wallet, err := r.FindWalletByActor(ctx, actorID)
	if err == nil {
		return wallet, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &models.Wallet{ActorID: actorID, ActorRole: role}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// CreditBalance adds to the wallet balance. Returns false when no wallet row
// exists for the actor.
func (r *repository) CreditBalance(ctx context.Context, actorID uuid.UUID, amountCents int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE wallets
		SET balance_cents = balance_cents + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE actor_id = ?
	`, amountCents, actorID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DebitBalance subtracts from the wallet balance only when the balance can
// cover the amount. Returns false when the guard fails.
func (r *repository) DebitBalance(ctx context.Context, actorID uuid.UUID, amountCents int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE wallets
		SET balance_cents = balance_cents - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE actor_id = ? AND balance_cents >= ?
	`, amountCents, actorID, amountCents)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListEntriesByActor(ctx context.Context, actorID uuid.UUID) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListEntriesByOrder(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) CreateWithdrawal(ctx context.Context, request *models.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindWithdrawal(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// SettleWithdrawal moves a REQUESTED row to a terminal status. The guard on
// the current status keeps concurrent settlers from double-applying.
func (r *repository) SettleWithdrawal(ctx context.Context, id uuid.UUID, status enums.WithdrawalStatus, note *string) (bool, error) {
	updates := map[string]any{
		"status":     status,
		"settled_at": time.Now(),
	}
	if note != nil {
		updates["note"] = *note
	}
	res := r.db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, enums.WithdrawalStatusRequested).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
