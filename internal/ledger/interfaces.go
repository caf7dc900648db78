package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Repository manages persistence for wallets, ledger entries and the
// withdrawal queue. Balance mutations are guarded UPDATEs so the
// non-negative invariant holds under concurrent writers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindWalletByActor(ctx context.Context, actorID uuid.UUID) (*models.Wallet, error)
	EnsureWallet(ctx context.Context, actorID uuid.UUID, role enums.ActorRole) (*models.Wallet, error)
	CreditBalance(ctx context.Context, actorID uuid.UUID, amountCents int) (bool, error)
	DebitBalance(ctx context.Context, actorID uuid.UUID, amountCents int) (bool, error)

	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	ListEntriesByActor(ctx context.Context, actorID uuid.UUID) ([]models.LedgerEntry, error)
	ListEntriesByOrder(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error)

	CreateWithdrawal(ctx context.Context, request *models.WithdrawalRequest) error
	FindWithdrawal(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	SettleWithdrawal(ctx context.Context, id uuid.UUID, status enums.WithdrawalStatus, note *string) (bool, error)
}
