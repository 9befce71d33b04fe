package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/api/middleware"
	"github.com/skillearn/skillearn-backend/api/responses"
	"github.com/skillearn/skillearn-backend/api/validators"
	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/internal/requests"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
	"github.com/skillearn/skillearn-backend/pkg/logger"
	"github.com/skillearn/skillearn-backend/pkg/money"
	"github.com/skillearn/skillearn-backend/pkg/pagination"
)

type submitDepositRequest struct {
	Amount            string `json:"amount" validate:"required"`
	TransactionRef    string `json:"transaction_ref" validate:"required,min=4,max=128"`
	ProofURL          string `json:"proof_url" validate:"omitempty,max=512"`
	IsPackagePurchase bool   `json:"is_package_purchase"`
}

type submitWithdrawalRequest struct {
	Amount            string `json:"amount" validate:"required"`
	PayoutMethod      string `json:"payout_method" validate:"required,oneof=bank upi crypto"`
	PayoutDestination string `json:"payout_destination" validate:"required,max=256"`
}

type submitTaskCompletionRequest struct {
	TaskID     string          `json:"task_id" validate:"required,uuid"`
	ProofFiles json.RawMessage `json:"proof_files" validate:"required"`
}

func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return id, nil
}

// SubmitDeposit records an agent's claim of an external payment for review.
func SubmitDeposit(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitDepositRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amountPaise, err := money.Parse(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		request, err := svc.SubmitDeposit(r.Context(), requests.SubmitDepositInput{
			UserID:            userID,
			AmountPaise:       amountPaise,
			TransactionRef:    body.TransactionRef,
			ProofURL:          body.ProofURL,
			IsPackagePurchase: body.IsPackagePurchase,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRequestView(request))
	}
}

// SubmitWithdrawal requests a payout. Submission fails outright when the
// wallet cannot cover the amount.
func SubmitWithdrawal(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitWithdrawalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amountPaise, err := money.Parse(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		request, err := svc.SubmitWithdrawal(r.Context(), requests.SubmitWithdrawalInput{
			UserID:            userID,
			AmountPaise:       amountPaise,
			PayoutMethod:      enums.PayoutMethod(body.PayoutMethod),
			PayoutDestination: body.PayoutDestination,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRequestView(request))
	}
}

// SubmitTaskCompletion claims a catalog task's reward for review.
func SubmitTaskCompletion(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitTaskCompletionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskID, err := uuid.Parse(body.TaskID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task id"))
			return
		}

		request, err := svc.SubmitTaskCompletion(r.Context(), requests.SubmitTaskCompletionInput{
			UserID:     userID,
			TaskID:     taskID,
			ProofFiles: body.ProofFiles,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRequestView(request))
	}
}

// Balance returns the caller's wallet snapshot.
func Balance(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.GetBalance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBalanceView(balance))
	}
}

// History returns the caller's ledger statement, newest first.
func History(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := ledger.HistoryParams{
			UserID: userID,
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("direction")); raw != "" {
			direction := enums.EntryDirection(raw)
			if !direction.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid direction filter"))
				return
			}
			params.Direction = &direction
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("reference_type")); raw != "" {
			refType := enums.ReferenceType(raw)
			if !refType.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid reference type filter"))
				return
			}
			params.ReferenceType = &refType
		}

		page, err := svc.History(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"entries":     newEntryViews(page.Entries),
			"next_cursor": page.NextCursor,
		})
	}
}
