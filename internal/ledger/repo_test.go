package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	wallets := `
CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  actor_id TEXT NOT NULL UNIQUE,
  actor_role TEXT NOT NULL,
  balance_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	entries := `
CREATE TABLE IF NOT EXISTS ledger_entries (
  id TEXT PRIMARY KEY,
  actor_id TEXT NOT NULL,
  order_id TEXT,
  type TEXT NOT NULL,
  account_code TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  metadata TEXT,
  created_at DATETIME
);`
	withdrawals := `
CREATE TABLE IF NOT EXISTS withdrawal_requests (
  id TEXT PRIMARY KEY,
  actor_id TEXT NOT NULL,
  actor_role TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'requested',
  note TEXT,
  settled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{wallets, entries, withdrawals} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepository_DebitGuardHoldsUnderShortBalance(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	actorID := uuid.New()

	wallet, err := repo.EnsureWallet(ctx, actorID, enums.ActorRoleCourier)
	require.NoError(t, err)
	require.Equal(t, 0, wallet.BalanceCents)

	ok, err := repo.CreditBalance(ctx, actorID, 10000)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DebitBalance(ctx, actorID, 15000)
	require.NoError(t, err)
	assert.False(t, ok, "debit above balance must not apply")

	ok, err = repo.DebitBalance(ctx, actorID, 10000)
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, err := repo.FindWalletByActor(ctx, actorID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.BalanceCents)
}

func TestRepository_EnsureWalletIsIdempotent(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	actorID := uuid.New()

	first, err := repo.EnsureWallet(ctx, actorID, enums.ActorRoleMerchant)
	require.NoError(t, err)

	_, err = repo.CreditBalance(ctx, actorID, 500)
	require.NoError(t, err)

	second, err := repo.EnsureWallet(ctx, actorID, enums.ActorRoleMerchant)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 500, second.BalanceCents)
}

func TestRepository_SettleWithdrawalOnlyOnce(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	request := &models.WithdrawalRequest{
		ID:          uuid.New(),
		ActorID:     uuid.New(),
		ActorRole:   enums.ActorRoleCourier,
		AmountCents: 20000,
		Status:      enums.WithdrawalStatusRequested,
	}
	require.NoError(t, repo.CreateWithdrawal(ctx, request))

	ok, err := repo.SettleWithdrawal(ctx, request.ID, enums.WithdrawalStatusCompleted, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SettleWithdrawal(ctx, request.ID, enums.WithdrawalStatusFailed, nil)
	require.NoError(t, err)
	assert.False(t, ok, "terminal withdrawal must not settle twice")

	reloaded, err := repo.FindWithdrawal(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.WithdrawalStatusCompleted, reloaded.Status)
}
