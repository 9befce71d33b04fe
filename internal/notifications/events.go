package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/money"
)

// WalletEvent is the payload published to downstream notification consumers
// (email, toast, dashboards). Amounts carry both minor units and a formatted
// string so consumers don't redo money math.
type WalletEvent struct {
	Type        enums.WalletEventType `json:"type"`
	UserID      uuid.UUID             `json:"user_id"`
	RequestID   *uuid.UUID            `json:"request_id,omitempty"`
	Kind        *enums.RequestKind    `json:"kind,omitempty"`
	NewStatus   *enums.RequestStatus  `json:"new_status,omitempty"`
	AmountPaise int64                 `json:"amount_paise"`
	Amount      string                `json:"amount"`
	OccurredAt  time.Time             `json:"occurred_at"`
}

// RequestEvent builds the event for a request lifecycle change.
func RequestEvent(eventType enums.WalletEventType, request *models.WalletRequest) WalletEvent {
	event := WalletEvent{
		Type:        eventType,
		UserID:      request.UserID,
		AmountPaise: request.AmountPaise,
		Amount:      money.Format(request.AmountPaise),
		OccurredAt:  time.Now().UTC(),
	}
	id := request.ID
	kind := request.Kind
	status := request.Status
	event.RequestID = &id
	event.Kind = &kind
	event.NewStatus = &status
	return event
}

// AdjustmentEvent builds the event for an admin balance adjustment.
func AdjustmentEvent(userID uuid.UUID, deltaPaise int64) WalletEvent {
	return WalletEvent{
		Type:        enums.EventBalanceAdjusted,
		UserID:      userID,
		AmountPaise: deltaPaise,
		Amount:      money.Format(deltaPaise),
		OccurredAt:  time.Now().UTC(),
	}
}

// CommissionEvent builds the event for one commission payout.
func CommissionEvent(userID uuid.UUID, amountPaise int64, requestID uuid.UUID) WalletEvent {
	event := WalletEvent{
		Type:        enums.EventCommissionPaid,
		UserID:      userID,
		AmountPaise: amountPaise,
		Amount:      money.Format(amountPaise),
		OccurredAt:  time.Now().UTC(),
	}
	event.RequestID = &requestID
	return event
}
