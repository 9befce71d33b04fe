package controllers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/commissions"
	"github.com/skillearn/skillearn-backend/internal/requests"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/money"
)

// API money fields carry both the raw paise integer and a formatted rupee
// string so clients never re-implement the conversion.

type balanceView struct {
	UserID       uuid.UUID `json:"user_id"`
	WalletPaise  int64     `json:"wallet_paise"`
	Wallet       string    `json:"wallet"`
	TotalIncome  string    `json:"total_income"`
	IncomePaise  int64     `json:"total_income_paise"`
	ReferralCode string    `json:"referral_code,omitempty"`
}

func newBalanceView(balance *accounts.Balance) balanceView {
	return balanceView{
		UserID:       balance.UserID,
		WalletPaise:  balance.WalletPaise,
		Wallet:       money.Format(balance.WalletPaise),
		TotalIncome:  money.Format(balance.TotalIncomePaise),
		IncomePaise:  balance.TotalIncomePaise,
		ReferralCode: balance.ReferralCode,
	}
}

type reconciliationView struct {
	UserID      uuid.UUID `json:"user_id"`
	WalletPaise int64     `json:"wallet_paise"`
	LedgerPaise int64     `json:"ledger_paise"`
	DriftPaise  int64     `json:"drift_paise"`
	Consistent  bool      `json:"consistent"`
}

func newReconciliationView(balance *accounts.Balance, ledgerPaise int64) reconciliationView {
	drift := balance.WalletPaise - ledgerPaise
	return reconciliationView{
		UserID:      balance.UserID,
		WalletPaise: balance.WalletPaise,
		LedgerPaise: ledgerPaise,
		DriftPaise:  drift,
		Consistent:  drift == 0,
	}
}

type requestView struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Kind        enums.RequestKind   `json:"kind"`
	Status      enums.RequestStatus `json:"status"`
	AmountPaise int64               `json:"amount_paise"`
	Amount      string              `json:"amount"`

	TransactionRef    *string `json:"transaction_ref,omitempty"`
	ProofURL          *string `json:"proof_url,omitempty"`
	IsPackagePurchase bool    `json:"is_package_purchase,omitempty"`

	PayoutMethod      *enums.PayoutMethod `json:"payout_method,omitempty"`
	PayoutDestination *string             `json:"payout_destination,omitempty"`

	TaskID     *uuid.UUID      `json:"task_id,omitempty"`
	ProofFiles json.RawMessage `json:"proof_files,omitempty"`

	OperatorID  *uuid.UUID `json:"operator_id,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newRequestView(request *models.WalletRequest) requestView {
	return requestView{
		ID:                request.ID,
		UserID:            request.UserID,
		Kind:              request.Kind,
		Status:            request.Status,
		AmountPaise:       request.AmountPaise,
		Amount:            money.Format(request.AmountPaise),
		TransactionRef:    request.TransactionRef,
		ProofURL:          request.ProofURL,
		IsPackagePurchase: request.IsPackagePurchase,
		PayoutMethod:      request.PayoutMethod,
		PayoutDestination: request.PayoutDestination,
		TaskID:            request.TaskID,
		ProofFiles:        request.ProofFiles,
		OperatorID:        request.OperatorID,
		ProcessedAt:       request.ProcessedAt,
		CreatedAt:         request.CreatedAt,
	}
}

type entryView struct {
	ID              uuid.UUID            `json:"id"`
	AmountPaise     int64                `json:"amount_paise"`
	Amount          string               `json:"amount"`
	Direction       enums.EntryDirection `json:"direction"`
	Description     string               `json:"description"`
	ReferenceID     *uuid.UUID           `json:"reference_id,omitempty"`
	ReferenceType   enums.ReferenceType  `json:"reference_type"`
	CommissionLevel *int                 `json:"commission_level,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func newEntryViews(entries []models.LedgerEntry) []entryView {
	views := make([]entryView, 0, len(entries))
	for i := range entries {
		entry := entries[i]
		views = append(views, entryView{
			ID:              entry.ID,
			AmountPaise:     entry.AmountPaise,
			Amount:          money.Format(entry.AmountPaise),
			Direction:       entry.Direction,
			Description:     entry.Description,
			ReferenceID:     entry.ReferenceID,
			ReferenceType:   entry.ReferenceType,
			CommissionLevel: entry.CommissionLevel,
			CreatedAt:       entry.CreatedAt,
		})
	}
	return views
}

type payoutView struct {
	UserID      uuid.UUID `json:"user_id"`
	Level       int       `json:"level"`
	AmountPaise int64     `json:"amount_paise"`
	Amount      string    `json:"amount"`
}

type decisionView struct {
	Request      requestView  `json:"request"`
	PayablePaise int64        `json:"payable_paise,omitempty"`
	Payable      string       `json:"payable,omitempty"`
	FeePaise     int64        `json:"fee_paise,omitempty"`
	Fee          string       `json:"fee,omitempty"`
	Payouts      []payoutView `json:"commission_payouts,omitempty"`
}

func newDecisionView(result *requests.DecisionResult) decisionView {
	view := decisionView{Request: newRequestView(result.Request)}
	if result.PayablePaise > 0 {
		view.PayablePaise = result.PayablePaise
		view.Payable = money.Format(result.PayablePaise)
		view.FeePaise = result.FeePaise
		view.Fee = money.Format(result.FeePaise)
	}
	view.Payouts = newPayoutViews(result.Payouts)
	return view
}

func newPayoutViews(payouts []commissions.Payout) []payoutView {
	if len(payouts) == 0 {
		return nil
	}
	views := make([]payoutView, 0, len(payouts))
	for _, payout := range payouts {
		views = append(views, payoutView{
			UserID:      payout.UserID,
			Level:       payout.Level,
			AmountPaise: payout.AmountPaise,
			Amount:      money.Format(payout.AmountPaise),
		})
	}
	return views
}
