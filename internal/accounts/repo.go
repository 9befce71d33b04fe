package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
)

// Repository manages persistence for wallet accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	FindByReferralCode(ctx context.Context, code string) (*models.Account, error)
	ApplyDelta(ctx context.Context, userID uuid.UUID, deltaPaise int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("referral_code = ?", code).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ApplyDelta moves the wallet balance by deltaPaise in a single guarded
// UPDATE. The WHERE clause refuses any change that would take the wallet
// below zero, and credits also bump the lifetime income counter. Returns the
// number of rows updated; zero means either no such account or the guard
// rejected the debit.
func (r *repository) ApplyDelta(ctx context.Context, userID uuid.UUID, deltaPaise int64) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE accounts
SET wallet_paise = wallet_paise + ?,
    total_income_paise = total_income_paise + CASE WHEN ? > 0 THEN ? ELSE 0 END,
    updated_at = ?
WHERE user_id = ? AND wallet_paise + ? >= 0`,
		deltaPaise, deltaPaise, deltaPaise, time.Now().UTC(), userID, deltaPaise)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
