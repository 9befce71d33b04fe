package commissions

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/pkg/config"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

type fakeAccounts struct {
	deltas  map[uuid.UUID]int64
	applyFn func(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{deltas: map[uuid.UUID]int64{}}
}

func (f *fakeAccounts) ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error {
	if f.applyFn != nil {
		return f.applyFn(ctx, tx, userID, deltaPaise)
	}
	f.deltas[userID] += deltaPaise
	return nil
}

type fakeLedger struct {
	entries []ledger.AppendInput
}

func (f *fakeLedger) Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error) {
	f.entries = append(f.entries, input)
	return &models.LedgerEntry{ID: uuid.New(), UserID: input.UserID}, nil
}

type fakeReferrals struct {
	ancestors []uuid.UUID
	err       error
}

func (f *fakeReferrals) Ancestors(ctx context.Context, userID uuid.UUID, maxLevels int) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.ancestors) > maxLevels {
		return f.ancestors[:maxLevels], nil
	}
	return f.ancestors, nil
}

func defaultConfig() config.CommissionConfig {
	return config.CommissionConfig{
		MaxLevels:   2,
		Level1Paise: 30000,
		Level2Paise: 10000,
	}
}

func TestEngine_DistributeTwoLevels(t *testing.T) {
	// A referred B, B referred C; C's deposit pays B 300 and A 100.
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	accounts := newFakeAccounts()
	ledgerSvc := &fakeLedger{}
	referrals := &fakeReferrals{ancestors: []uuid.UUID{b, a}}

	eng, err := NewEngine(defaultConfig(), accounts, ledgerSvc, referrals)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	refID := uuid.New()
	payouts, err := eng.Distribute(context.Background(), nil, DistributeInput{UserID: c, ReferenceID: refID})
	if err != nil {
		t.Fatalf("Distribute error: %v", err)
	}

	if len(payouts) != 2 {
		t.Fatalf("expected 2 payouts, got %d", len(payouts))
	}
	if payouts[0].UserID != b || payouts[0].Level != 1 || payouts[0].AmountPaise != 30000 {
		t.Fatalf("unexpected level 1 payout: %+v", payouts[0])
	}
	if payouts[1].UserID != a || payouts[1].Level != 2 || payouts[1].AmountPaise != 10000 {
		t.Fatalf("unexpected level 2 payout: %+v", payouts[1])
	}

	if accounts.deltas[b] != 30000 || accounts.deltas[a] != 10000 {
		t.Fatalf("unexpected account deltas: %v", accounts.deltas)
	}

	if len(ledgerSvc.entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(ledgerSvc.entries))
	}
	for i, entry := range ledgerSvc.entries {
		if entry.ReferenceType != enums.ReferenceTypeCommission {
			t.Fatalf("entry %d not tagged commission: %+v", i, entry)
		}
		if entry.ReferenceID == nil || *entry.ReferenceID != refID {
			t.Fatalf("entry %d missing reference id: %+v", i, entry)
		}
		if entry.CommissionLevel == nil || *entry.CommissionLevel != i+1 {
			t.Fatalf("entry %d has wrong level: %+v", i, entry)
		}
		if entry.Direction != enums.EntryDirectionCredit {
			t.Fatalf("entry %d is not a credit: %+v", i, entry)
		}
	}
}

func TestEngine_DistributeShortChain(t *testing.T) {
	b := uuid.New()
	accounts := newFakeAccounts()
	ledgerSvc := &fakeLedger{}
	referrals := &fakeReferrals{ancestors: []uuid.UUID{b}}

	eng, err := NewEngine(defaultConfig(), accounts, ledgerSvc, referrals)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	payouts, err := eng.Distribute(context.Background(), nil, DistributeInput{UserID: uuid.New(), ReferenceID: uuid.New()})
	if err != nil {
		t.Fatalf("Distribute error: %v", err)
	}
	if len(payouts) != 1 {
		t.Fatalf("expected 1 payout for short chain, got %d", len(payouts))
	}
	if payouts[0].Level != 1 || payouts[0].AmountPaise != 30000 {
		t.Fatalf("unexpected payout: %+v", payouts[0])
	}
}

func TestEngine_DistributeNoAncestors(t *testing.T) {
	eng, err := NewEngine(defaultConfig(), newFakeAccounts(), &fakeLedger{}, &fakeReferrals{})
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	payouts, err := eng.Distribute(context.Background(), nil, DistributeInput{UserID: uuid.New(), ReferenceID: uuid.New()})
	if err != nil {
		t.Fatalf("Distribute error: %v", err)
	}
	if len(payouts) != 0 {
		t.Fatalf("expected no payouts, got %v", payouts)
	}
}

func TestEngine_DistributeValidation(t *testing.T) {
	eng, err := NewEngine(defaultConfig(), newFakeAccounts(), &fakeLedger{}, &fakeReferrals{})
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	if _, err := eng.Distribute(context.Background(), nil, DistributeInput{ReferenceID: uuid.New()}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing user, got %v", err)
	}
	if _, err := eng.Distribute(context.Background(), nil, DistributeInput{UserID: uuid.New()}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing reference, got %v", err)
	}
}

func TestEngine_DistributeCreditFailureAborts(t *testing.T) {
	expectedErr := errors.New("boom")
	accounts := newFakeAccounts()
	accounts.applyFn = func(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error {
		return expectedErr
	}
	ledgerSvc := &fakeLedger{}
	referrals := &fakeReferrals{ancestors: []uuid.UUID{uuid.New()}}

	eng, err := NewEngine(defaultConfig(), accounts, ledgerSvc, referrals)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	if _, err := eng.Distribute(context.Background(), nil, DistributeInput{UserID: uuid.New(), ReferenceID: uuid.New()}); !errors.Is(err, expectedErr) {
		t.Fatalf("expected credit error to bubble up, got %v", err)
	}
	if len(ledgerSvc.entries) != 0 {
		t.Fatalf("no ledger entries expected after credit failure, got %d", len(ledgerSvc.entries))
	}
}
