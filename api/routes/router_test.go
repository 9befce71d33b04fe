package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/adjustments"
	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/internal/requests"
	"github.com/skillearn/skillearn-backend/pkg/config"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/logger"
)

type stubAccountsService struct{}

func (stubAccountsService) GetBalance(ctx context.Context, userID uuid.UUID) (*accounts.Balance, error) {
	return &accounts.Balance{UserID: userID}, nil
}

func (stubAccountsService) Resolve(ctx context.Context, selector accounts.Selector) (*models.Account, error) {
	return &models.Account{UserID: uuid.New()}, nil
}

func (stubAccountsService) EnsureAccount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Account, error) {
	return &models.Account{UserID: userID}, nil
}

func (stubAccountsService) ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error {
	return nil
}

type stubLedgerService struct{}

func (stubLedgerService) Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error) {
	return &models.LedgerEntry{}, nil
}

func (stubLedgerService) History(ctx context.Context, params ledger.HistoryParams) (*ledger.HistoryPage, error) {
	return &ledger.HistoryPage{}, nil
}

func (stubLedgerService) Reconcile(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubReferralsService struct{}

func (stubReferralsService) Link(ctx context.Context, userID, referrerID uuid.UUID) (*models.ReferralEdge, error) {
	return &models.ReferralEdge{UserID: userID, ReferrerID: referrerID}, nil
}

func (stubReferralsService) Ancestors(ctx context.Context, userID uuid.UUID, maxLevels int) ([]uuid.UUID, error) {
	return nil, nil
}

type stubRouterRequestsService struct{}

func (stubRouterRequestsService) SubmitDeposit(ctx context.Context, input requests.SubmitDepositInput) (*models.WalletRequest, error) {
	return &models.WalletRequest{ID: uuid.New(), UserID: input.UserID, Kind: enums.RequestKindDeposit, Status: enums.RequestStatusPending}, nil
}

func (stubRouterRequestsService) SubmitWithdrawal(ctx context.Context, input requests.SubmitWithdrawalInput) (*models.WalletRequest, error) {
	return &models.WalletRequest{ID: uuid.New(), UserID: input.UserID, Kind: enums.RequestKindWithdrawal, Status: enums.RequestStatusPending}, nil
}

func (stubRouterRequestsService) SubmitTaskCompletion(ctx context.Context, input requests.SubmitTaskCompletionInput) (*models.WalletRequest, error) {
	return &models.WalletRequest{ID: uuid.New(), UserID: input.UserID, Kind: enums.RequestKindTaskCompletion, Status: enums.RequestStatusPending}, nil
}

func (stubRouterRequestsService) Approve(ctx context.Context, input requests.DecisionInput) (*requests.DecisionResult, error) {
	return &requests.DecisionResult{Request: &models.WalletRequest{ID: input.RequestID, Status: enums.RequestStatusApproved}}, nil
}

func (stubRouterRequestsService) Reject(ctx context.Context, input requests.DecisionInput) (*requests.DecisionResult, error) {
	return &requests.DecisionResult{Request: &models.WalletRequest{ID: input.RequestID, Status: enums.RequestStatusRejected}}, nil
}

func (stubRouterRequestsService) ListPending(ctx context.Context, params requests.ListPendingParams) (*requests.PendingPage, error) {
	return &requests.PendingPage{}, nil
}

func (stubRouterRequestsService) PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error) {
	return map[enums.RequestKind]int64{}, nil
}

type stubAdjustmentsService struct{}

func (stubAdjustmentsService) Adjust(ctx context.Context, input adjustments.AdjustInput) (*accounts.Balance, error) {
	return &accounts.Balance{}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(
		cfg,
		logg,
		nil,
		nil,
		stubAccountsService{},
		stubLedgerService{},
		stubReferralsService{},
		stubRouterRequestsService{},
		stubAdjustmentsService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRouterWalletRequiresIdentity(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/balance", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRouterWalletBalanceWithIdentity(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/balance", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterAdminRequiresOperator(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/requests", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRouterAdminReconcileWithOperator(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/accounts/"+uuid.NewString()+"/reconcile", nil)
	req.Header.Set("X-Operator-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterAdminListWithOperator(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/requests", nil)
	req.Header.Set("X-Operator-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}
