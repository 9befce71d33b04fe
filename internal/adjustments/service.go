package adjustments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/internal/notifications"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type accountService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*accounts.Balance, error)
	Resolve(ctx context.Context, selector accounts.Selector) (*models.Account, error)
	ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error
}

type ledgerService interface {
	Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.WalletEvent)
}

// AdjustInput describes a manual operator override. Exactly one of UserID
// and ReferralCode selects the target agent.
type AdjustInput struct {
	UserID       *uuid.UUID
	ReferralCode string
	DeltaPaise   int64
	Reason       string
	OperatorID   uuid.UUID
}

// Service applies audited manual balance corrections.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*accounts.Balance, error)
}

type service struct {
	tx       txRunner
	accounts accountService
	ledger   ledgerService
	events   eventPublisher
}

// NewService builds an adjustments service with the required dependencies.
func NewService(tx txRunner, accountsSvc accountService, ledgerSvc ledgerService, events eventPublisher) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if accountsSvc == nil {
		return nil, fmt.Errorf("accounts service required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{tx: tx, accounts: accountsSvc, ledger: ledgerSvc, events: events}, nil
}

// Adjust resolves the target by user id or referral code and applies the
// signed delta with its audit row in one transaction. A debit that would
// overdraw fails with InsufficientFunds and nothing is written.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*accounts.Balance, error) {
	if input.OperatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator identity missing")
	}
	if input.DeltaPaise == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment amount must be non-zero")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment reason required")
	}

	account, err := s.accounts.Resolve(ctx, accounts.Selector{
		UserID:       input.UserID,
		ReferralCode: input.ReferralCode,
	})
	if err != nil {
		return nil, err
	}

	direction := enums.EntryDirectionCredit
	magnitude := input.DeltaPaise
	if magnitude < 0 {
		direction = enums.EntryDirectionDebit
		magnitude = -magnitude
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.accounts.ApplyDelta(ctx, tx, account.UserID, input.DeltaPaise); err != nil {
			return err
		}
		// reference_id links the originating request; adjustments have none,
		// so the operator lands in the description for the audit trail.
		_, err := s.ledger.Append(ctx, tx, ledger.AppendInput{
			UserID:        account.UserID,
			AmountPaise:   magnitude,
			Direction:     direction,
			Description:   fmt.Sprintf("admin adjustment by operator %s: %s", input.OperatorID, input.Reason),
			ReferenceType: enums.ReferenceTypeAdjustment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, notifications.AdjustmentEvent(account.UserID, input.DeltaPaise))
	return s.accounts.GetBalance(ctx, account.UserID)
}
