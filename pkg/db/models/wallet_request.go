package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/pkg/enums"
)

// WalletRequest is the tagged-variant record behind the deposit, withdrawal
// and task-completion workflows. Status only ever moves away from pending,
// exactly once.
type WalletRequest struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Kind        enums.RequestKind   `gorm:"column:kind;type:request_kind_enum;not null;index"`
	Status      enums.RequestStatus `gorm:"column:status;type:request_status_enum;not null;default:pending;index"`
	AmountPaise int64               `gorm:"column:amount_paise;not null"`

	// Deposit payload. Package purchases are the commission-qualifying kind
	// of deposit.
	TransactionRef    *string `gorm:"column:transaction_ref;type:text"`
	ProofURL          *string `gorm:"column:proof_url;type:text"`
	IsPackagePurchase bool    `gorm:"column:is_package_purchase;not null;default:false"`

	// Withdrawal payload.
	PayoutMethod      *enums.PayoutMethod `gorm:"column:payout_method;type:payout_method_enum"`
	PayoutDestination *string             `gorm:"column:payout_destination;type:text"`

	// Task-completion payload.
	TaskID     *uuid.UUID      `gorm:"column:task_id;type:uuid"`
	ProofFiles json.RawMessage `gorm:"column:proof_files;type:jsonb"`

	OperatorID  *uuid.UUID `gorm:"column:operator_id;type:uuid"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
