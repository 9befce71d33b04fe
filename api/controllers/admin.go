package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/api/middleware"
	"github.com/skillearn/skillearn-backend/api/responses"
	"github.com/skillearn/skillearn-backend/api/validators"
	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/adjustments"
	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/internal/requests"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
	"github.com/skillearn/skillearn-backend/pkg/logger"
	"github.com/skillearn/skillearn-backend/pkg/money"
	"github.com/skillearn/skillearn-backend/pkg/pagination"
)

type adjustmentRequest struct {
	UserID       string `json:"user_id" validate:"omitempty,uuid"`
	ReferralCode string `json:"referral_code" validate:"omitempty,min=4,max=16"`
	Delta        string `json:"delta" validate:"required"`
	Reason       string `json:"reason" validate:"required,min=4,max=256"`
}

func currentOperatorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.OperatorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator identity required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid operator identity")
	}
	return id, nil
}

func parseRequestID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "requestId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id")
	}
	return id, nil
}

// ListPendingRequests returns the operator review queue, newest first within
// the page ordering.
func ListPendingRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentOperatorID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := requests.ListPendingParams{
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind := enums.RequestKind(raw)
			if !kind.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid kind filter"))
				return
			}
			params.Kind = &kind
		}

		page, err := svc.ListPending(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]requestView, 0, len(page.Requests))
		for i := range page.Requests {
			views = append(views, newRequestView(&page.Requests[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"requests":    views,
			"next_cursor": page.NextCursor,
		})
	}
}

// ApproveRequest settles a pending request: deposits and task completions
// credit the wallet, withdrawals debit it. Each request settles at most once.
func ApproveRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return decide(logg, svc.Approve)
}

// RejectRequest closes a pending request without moving any balance.
func RejectRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return decide(logg, svc.Reject)
}

func decide(logg *logger.Logger, fn func(ctx context.Context, input requests.DecisionInput) (*requests.DecisionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := currentOperatorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := parseRequestID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := fn(r.Context(), requests.DecisionInput{
			RequestID:  requestID,
			OperatorID: operatorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDecisionView(result))
	}
}

// ReconcileAccount replays an agent's ledger into a signed balance and
// compares it against the stored wallet. Drift means a write path bypassed
// the ledger.
func ReconcileAccount(accountsSvc accounts.Service, ledgerSvc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentOperatorID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "userId"))
		userID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		balance, err := accountsSvc.GetBalance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledgerPaise, err := ledgerSvc.Reconcile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newReconciliationView(balance, ledgerPaise))
	}
}

// Adjust applies a signed manual correction to an agent's wallet.
func Adjust(svc adjustments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := currentOperatorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deltaPaise, err := money.Parse(body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delta"))
			return
		}

		input := adjustments.AdjustInput{
			ReferralCode: strings.ToUpper(strings.TrimSpace(body.ReferralCode)),
			DeltaPaise:   deltaPaise,
			Reason:       body.Reason,
			OperatorID:   operatorID,
		}
		if body.UserID != "" {
			userID, parseErr := uuid.Parse(body.UserID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid user id"))
				return
			}
			input.UserID = &userID
		}

		balance, err := svc.Adjust(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBalanceView(balance))
	}
}
