package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

type fakeRepository struct {
	findByUserFn func(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	findByCodeFn func(ctx context.Context, code string) (*models.Account, error)
	createFn     func(ctx context.Context, account *models.Account) (*models.Account, error)
	applyDeltaFn func(ctx context.Context, userID uuid.UUID, deltaPaise int64) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if f.createFn != nil {
		return f.createFn(ctx, account)
	}
	return account, nil
}

func (f *fakeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	if f.findByUserFn != nil {
		return f.findByUserFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ApplyDelta(ctx context.Context, userID uuid.UUID, deltaPaise int64) (int64, error) {
	if f.applyDeltaFn != nil {
		return f.applyDeltaFn(ctx, userID, deltaPaise)
	}
	return 1, nil
}

func TestService_GetBalanceZeroWhenMissing(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	userID := uuid.New()
	balance, err := svc.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetBalance error: %v", err)
	}
	if balance.UserID != userID {
		t.Fatalf("unexpected user id %s", balance.UserID)
	}
	if balance.WalletPaise != 0 || balance.TotalIncomePaise != 0 {
		t.Fatalf("expected zero balance, got %+v", balance)
	}
}

func TestService_GetBalanceReturnsAccountFigures(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRepository{
		findByUserFn: func(ctx context.Context, id uuid.UUID) (*models.Account, error) {
			return &models.Account{
				UserID:           id,
				ReferralCode:     "AB12CD34",
				WalletPaise:      150000,
				TotalIncomePaise: 420000,
			}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	balance, err := svc.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetBalance error: %v", err)
	}
	if balance.WalletPaise != 150000 || balance.TotalIncomePaise != 420000 {
		t.Fatalf("unexpected balance %+v", balance)
	}
	if balance.ReferralCode != "AB12CD34" {
		t.Fatalf("unexpected referral code %q", balance.ReferralCode)
	}
}

func TestService_ResolveByReferralCode(t *testing.T) {
	account := &models.Account{UserID: uuid.New(), ReferralCode: "ZZ99YY88"}
	repo := &fakeRepository{
		findByCodeFn: func(ctx context.Context, code string) (*models.Account, error) {
			if code != account.ReferralCode {
				return nil, gorm.ErrRecordNotFound
			}
			return account, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	got, err := svc.Resolve(context.Background(), Selector{ReferralCode: "ZZ99YY88"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.UserID != account.UserID {
		t.Fatalf("resolved wrong account: %+v", got)
	}

	if _, err := svc.Resolve(context.Background(), Selector{ReferralCode: "NOPE0000"}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestService_ResolveRequiresSelector(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), Selector{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ApplyDeltaCreditCreatesAccount(t *testing.T) {
	var created *models.Account
	repo := &fakeRepository{
		createFn: func(ctx context.Context, account *models.Account) (*models.Account, error) {
			created = account
			return account, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	userID := uuid.New()
	if err := svc.ApplyDelta(context.Background(), nil, userID, 30000); err != nil {
		t.Fatalf("ApplyDelta error: %v", err)
	}
	if created == nil {
		t.Fatal("expected account to be created on first credit")
	}
	if created.UserID != userID {
		t.Fatalf("account created for wrong user: %s", created.UserID)
	}
	if len(created.ReferralCode) != referralCodeLength {
		t.Fatalf("unexpected referral code %q", created.ReferralCode)
	}
}

func TestService_ApplyDeltaDebitInsufficient(t *testing.T) {
	repo := &fakeRepository{
		applyDeltaFn: func(ctx context.Context, userID uuid.UUID, deltaPaise int64) (int64, error) {
			return 0, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	err = svc.ApplyDelta(context.Background(), nil, uuid.New(), -50000)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientFunds) {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}
}

func TestService_ApplyDeltaValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if err := svc.ApplyDelta(context.Background(), nil, uuid.Nil, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil user, got %v", err)
	}
	if err := svc.ApplyDelta(context.Background(), nil, uuid.New(), 0); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero delta, got %v", err)
	}
}

func TestService_ApplyDeltaRepoError(t *testing.T) {
	expectedErr := errors.New("boom")
	repo := &fakeRepository{
		applyDeltaFn: func(ctx context.Context, userID uuid.UUID, deltaPaise int64) (int64, error) {
			return 0, expectedErr
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	repo.findByUserFn = func(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
		return &models.Account{UserID: userID}, nil
	}
	if err := svc.ApplyDelta(context.Background(), nil, uuid.New(), 100); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
