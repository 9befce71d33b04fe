package commissions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/pkg/config"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

type accountCrediter interface {
	ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error
}

type ledgerAppender interface {
	Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error)
}

type ancestorWalker interface {
	Ancestors(ctx context.Context, userID uuid.UUID, maxLevels int) ([]uuid.UUID, error)
}

// Payout describes one commission credit emitted by a distribution run.
type Payout struct {
	UserID      uuid.UUID `json:"user_id"`
	Level       int       `json:"level"`
	AmountPaise int64     `json:"amount_paise"`
}

// DistributeInput identifies the qualifying event. ReferenceID threads the
// originating request into every emitted ledger row; the caller gates
// exactly-once via its own state machine.
type DistributeInput struct {
	UserID      uuid.UUID
	ReferenceID uuid.UUID
}

// Engine walks the referral chain upward and pays flat per-level bonuses.
type Engine interface {
	Distribute(ctx context.Context, tx *gorm.DB, input DistributeInput) ([]Payout, error)
}

type engine struct {
	cfg       config.CommissionConfig
	accounts  accountCrediter
	ledger    ledgerAppender
	referrals ancestorWalker
}

// NewEngine builds a commission engine with the required collaborators.
func NewEngine(cfg config.CommissionConfig, accounts accountCrediter, ledgerSvc ledgerAppender, referrals ancestorWalker) (Engine, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account crediter required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger appender required")
	}
	if referrals == nil {
		return nil, fmt.Errorf("ancestor walker required")
	}
	return &engine{
		cfg:       cfg,
		accounts:  accounts,
		ledger:    ledgerSvc,
		referrals: referrals,
	}, nil
}

// Distribute runs inside the caller's transaction so the qualifying credit
// and every commission land or roll back together. A chain shorter than
// MaxLevels simply pays fewer ancestors.
func (e *engine) Distribute(ctx context.Context, tx *gorm.DB, input DistributeInput) ([]Payout, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.ReferenceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id required")
	}

	ancestors, err := e.referrals.Ancestors(ctx, input.UserID, e.cfg.MaxLevels)
	if err != nil {
		return nil, err
	}

	payouts := make([]Payout, 0, len(ancestors))
	for i, ancestorID := range ancestors {
		level := i + 1
		amount, ok := e.cfg.AmountForLevel(level)
		if !ok || amount <= 0 {
			continue
		}

		if err := e.accounts.ApplyDelta(ctx, tx, ancestorID, amount); err != nil {
			return nil, fmt.Errorf("crediting level %d ancestor %s: %w", level, ancestorID, err)
		}

		refID := input.ReferenceID
		lvl := level
		if _, err := e.ledger.Append(ctx, tx, ledger.AppendInput{
			UserID:          ancestorID,
			AmountPaise:     amount,
			Direction:       enums.EntryDirectionCredit,
			Description:     fmt.Sprintf("level %d referral commission", level),
			ReferenceID:     &refID,
			ReferenceType:   enums.ReferenceTypeCommission,
			CommissionLevel: &lvl,
		}); err != nil {
			return nil, fmt.Errorf("recording level %d commission: %w", level, err)
		}

		payouts = append(payouts, Payout{UserID: ancestorID, Level: level, AmountPaise: amount})
	}
	return payouts, nil
}
