package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillearn/skillearn-backend/pkg/enums"
)

// LedgerEntry is one immutable signed movement on a user's wallet. Amounts
// are positive magnitudes; Direction carries the sign. The ledger is the
// source of truth for reconstructing any balance.
type LedgerEntry struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	AmountPaise     int64                `gorm:"column:amount_paise;not null"`
	Direction       enums.EntryDirection `gorm:"column:direction;type:entry_direction_enum;not null"`
	Description     string               `gorm:"column:description;type:text;not null"`
	ReferenceID     *uuid.UUID           `gorm:"column:reference_id;type:uuid"`
	ReferenceType   enums.ReferenceType  `gorm:"column:reference_type;type:reference_type_enum;not null"`
	CommissionLevel *int                 `gorm:"column:commission_level"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}
