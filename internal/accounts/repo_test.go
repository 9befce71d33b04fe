package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	accounts := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  referral_code TEXT NOT NULL UNIQUE,
  wallet_paise INTEGER NOT NULL DEFAULT 0,
  total_income_paise INTEGER NOT NULL DEFAULT 0,
  archived_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(accounts).Error)
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, walletPaise, incomePaise int64) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		ReferralCode:     uuid.NewString()[:8],
		WalletPaise:      walletPaise,
		TotalIncomePaise: incomePaise,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func TestRepository_FindByUserIDAndReferralCode(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedAccount(t, db, 100000, 250000)

	byUser, err := repo.FindByUserID(ctx, seeded.UserID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byUser.ID)
	assert.Equal(t, int64(100000), byUser.WalletPaise)

	byCode, err := repo.FindByReferralCode(ctx, seeded.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, byCode.UserID)

	_, err = repo.FindByUserID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ApplyDeltaCreditRaisesIncome(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedAccount(t, db, 50000, 50000)

	rows, err := repo.ApplyDelta(ctx, seeded.UserID, 30000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.FindByUserID(ctx, seeded.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), got.WalletPaise)
	assert.Equal(t, int64(80000), got.TotalIncomePaise)
}

func TestRepository_ApplyDeltaDebitLeavesIncome(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedAccount(t, db, 100000, 300000)

	rows, err := repo.ApplyDelta(ctx, seeded.UserID, -100000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.FindByUserID(ctx, seeded.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.WalletPaise)
	assert.Equal(t, int64(300000), got.TotalIncomePaise)
}

func TestRepository_ApplyDeltaRefusesOverdraft(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedAccount(t, db, 40000, 40000)

	rows, err := repo.ApplyDelta(ctx, seeded.UserID, -40001)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err := repo.FindByUserID(ctx, seeded.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), got.WalletPaise)
}

func TestRepository_ApplyDeltaMissingAccount(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.ApplyDelta(context.Background(), uuid.New(), -1000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}
