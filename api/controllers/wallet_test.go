package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/api/middleware"
	"github.com/skillearn/skillearn-backend/internal/requests"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

type stubRequestsService struct {
	submitDeposit    func(ctx context.Context, input requests.SubmitDepositInput) (*models.WalletRequest, error)
	submitWithdrawal func(ctx context.Context, input requests.SubmitWithdrawalInput) (*models.WalletRequest, error)
}

func (s *stubRequestsService) SubmitDeposit(ctx context.Context, input requests.SubmitDepositInput) (*models.WalletRequest, error) {
	if s.submitDeposit != nil {
		return s.submitDeposit(ctx, input)
	}
	return nil, nil
}

func (s *stubRequestsService) SubmitWithdrawal(ctx context.Context, input requests.SubmitWithdrawalInput) (*models.WalletRequest, error) {
	if s.submitWithdrawal != nil {
		return s.submitWithdrawal(ctx, input)
	}
	return nil, nil
}

func (s *stubRequestsService) SubmitTaskCompletion(ctx context.Context, input requests.SubmitTaskCompletionInput) (*models.WalletRequest, error) {
	panic("not implemented")
}

func (s *stubRequestsService) Approve(ctx context.Context, input requests.DecisionInput) (*requests.DecisionResult, error) {
	panic("not implemented")
}

func (s *stubRequestsService) Reject(ctx context.Context, input requests.DecisionInput) (*requests.DecisionResult, error) {
	panic("not implemented")
}

func (s *stubRequestsService) ListPending(ctx context.Context, params requests.ListPendingParams) (*requests.PendingPage, error) {
	panic("not implemented")
}

func (s *stubRequestsService) PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error) {
	panic("not implemented")
}

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestSubmitDepositParsesAmount(t *testing.T) {
	userID := uuid.New()
	var captured requests.SubmitDepositInput
	svc := &stubRequestsService{
		submitDeposit: func(ctx context.Context, input requests.SubmitDepositInput) (*models.WalletRequest, error) {
			captured = input
			return &models.WalletRequest{
				ID:          uuid.New(),
				UserID:      input.UserID,
				Kind:        enums.RequestKindDeposit,
				Status:      enums.RequestStatusPending,
				AmountPaise: input.AmountPaise,
			}, nil
		},
	}

	body := `{"amount":"2000.50","transaction_ref":"UTR-001","is_package_purchase":true}`
	req := authedRequest(http.MethodPost, "/api/v1/wallet/deposits", body, userID.String())
	resp := httptest.NewRecorder()
	SubmitDeposit(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.AmountPaise != 200050 {
		t.Fatalf("expected 200050 paise, got %d", captured.AmountPaise)
	}
	if captured.UserID != userID || !captured.IsPackagePurchase {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var payload struct {
		Data struct {
			Amount string `json:"amount"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.Amount != "2000.50" || payload.Data.Status != "pending" {
		t.Fatalf("unexpected view: %+v", payload.Data)
	}
}

func TestSubmitDepositRejectsBadAmount(t *testing.T) {
	svc := &stubRequestsService{}
	body := `{"amount":"12.345","transaction_ref":"UTR-002"}`
	req := authedRequest(http.MethodPost, "/api/v1/wallet/deposits", body, uuid.NewString())
	resp := httptest.NewRecorder()
	SubmitDeposit(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSubmitDepositRequiresIdentity(t *testing.T) {
	svc := &stubRequestsService{}
	req := authedRequest(http.MethodPost, "/api/v1/wallet/deposits", `{"amount":"100.00","transaction_ref":"UTR-003"}`, "")
	resp := httptest.NewRecorder()
	SubmitDeposit(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestSubmitWithdrawalSurfacesInsufficientFunds(t *testing.T) {
	svc := &stubRequestsService{
		submitWithdrawal: func(ctx context.Context, input requests.SubmitWithdrawalInput) (*models.WalletRequest, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient wallet balance")
		},
	}

	body := `{"amount":"5000.00","payout_method":"upi","payout_destination":"agent@upi"}`
	req := authedRequest(http.MethodPost, "/api/v1/wallet/withdrawals", body, uuid.NewString())
	resp := httptest.NewRecorder()
	SubmitWithdrawal(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeInsufficientFunds) {
		t.Fatalf("expected insufficient funds code, got %s", payload.Error.Code)
	}
}

func TestSubmitWithdrawalRejectsUnknownMethod(t *testing.T) {
	svc := &stubRequestsService{}
	body := `{"amount":"500.00","payout_method":"cheque","payout_destination":"somewhere"}`
	req := authedRequest(http.MethodPost, "/api/v1/wallet/withdrawals", body, uuid.NewString())
	resp := httptest.NewRecorder()
	SubmitWithdrawal(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
