package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

const (
	referralCodeLength  = 8
	referralCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	createRetries       = 3
)

// Balance is the read model returned for balance queries. Users without an
// account row yet read as zero.
type Balance struct {
	UserID           uuid.UUID `json:"user_id"`
	WalletPaise      int64     `json:"wallet_paise"`
	TotalIncomePaise int64     `json:"total_income_paise"`
	ReferralCode     string    `json:"referral_code,omitempty"`
}

// Selector identifies an account either by user id or by referral code.
type Selector struct {
	UserID       *uuid.UUID
	ReferralCode string
}

// Service defines account-level operations.
type Service interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error)
	Resolve(ctx context.Context, selector Selector) (*models.Account, error)
	EnsureAccount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Account, error)
	ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error
}

type service struct {
	repo Repository
}

// NewService wires an accounts service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	account, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Balance{UserID: userID}, nil
		}
		return nil, err
	}
	return &Balance{
		UserID:           account.UserID,
		WalletPaise:      account.WalletPaise,
		TotalIncomePaise: account.TotalIncomePaise,
		ReferralCode:     account.ReferralCode,
	}, nil
}

func (s *service) Resolve(ctx context.Context, selector Selector) (*models.Account, error) {
	var (
		account *models.Account
		err     error
	)
	switch {
	case selector.UserID != nil && *selector.UserID != uuid.Nil:
		account, err = s.repo.FindByUserID(ctx, *selector.UserID)
	case selector.ReferralCode != "":
		account, err = s.repo.FindByReferralCode(ctx, selector.ReferralCode)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id or referral code required")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		return nil, err
	}
	return account, nil
}

// EnsureAccount returns the account for userID, creating a zero-balance row
// with a fresh referral code on first contact.
func (s *service) EnsureAccount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Account, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	repo := s.repo.WithTx(tx)
	account, err := repo.FindByUserID(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Referral codes are unique; retry on the rare collision. The retries
	// only help outside an enclosing transaction: Postgres aborts the whole
	// tx on the first violation, so a collision mid-approval rolls back and
	// surfaces to the caller as a retryable failure.
	for attempt := 0; attempt < createRetries; attempt++ {
		candidate := &models.Account{
			UserID:       userID,
			ReferralCode: newReferralCode(),
		}
		created, err := repo.Create(ctx, candidate)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
		// The user_id unique index also lands here when two requests race
		// to create the same account.
		if existing, findErr := repo.FindByUserID(ctx, userID); findErr == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("creating account for user %s: referral code collisions exhausted retries", userID)
}

// ApplyDelta adjusts the wallet by deltaPaise inside the caller's
// transaction. Credits create the account if missing and raise
// total_income; debits that would overdraw fail with an
// insufficient-funds error.
func (s *service) ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if deltaPaise == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	repo := s.repo.WithTx(tx)

	if deltaPaise > 0 {
		if _, err := s.EnsureAccount(ctx, tx, userID); err != nil {
			return err
		}
	}

	rows, err := repo.ApplyDelta(ctx, userID, deltaPaise)
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient wallet balance")
	}
	return nil
}

func newReferralCode() string {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// math-free fallback; uuid is random enough for a retryable code
		id := uuid.New()
		copy(buf, id[:])
	}
	code := make([]byte, referralCodeLength)
	for i, b := range buf {
		code[i] = referralCodeCharset[int(b)%len(referralCodeCharset)]
	}
	return string(code)
}
