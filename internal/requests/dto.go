package requests

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/internal/commissions"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/pagination"
)

// SubmitDepositInput carries a user's claim of an external payment.
type SubmitDepositInput struct {
	UserID            uuid.UUID
	AmountPaise       int64
	TransactionRef    string
	ProofURL          string
	IsPackagePurchase bool
}

// SubmitWithdrawalInput carries a payout request.
type SubmitWithdrawalInput struct {
	UserID            uuid.UUID
	AmountPaise       int64
	PayoutMethod      enums.PayoutMethod
	PayoutDestination string
}

// SubmitTaskCompletionInput claims a catalog task's reward.
type SubmitTaskCompletionInput struct {
	UserID     uuid.UUID
	TaskID     uuid.UUID
	ProofFiles json.RawMessage
}

// DecisionInput identifies the request an operator is deciding.
type DecisionInput struct {
	RequestID  uuid.UUID
	OperatorID uuid.UUID
}

// DecisionResult reports what an approval or rejection did. PayablePaise is
// only set for approved withdrawals (amount minus the informational fee);
// Payouts lists commission credits emitted by a qualifying deposit.
type DecisionResult struct {
	Request      *models.WalletRequest
	PayablePaise int64
	FeePaise     int64
	Payouts      []commissions.Payout
}

// ListPendingParams filters the operator queue.
type ListPendingParams struct {
	Kind *enums.RequestKind
	Page pagination.Params
}

// PendingPage is one page of the operator queue, oldest requests last.
type PendingPage struct {
	Requests   []models.WalletRequest
	NextCursor string
}
