package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the per-user balance projection kept consistent with the ledger.
// WalletPaise never goes negative; TotalIncomePaise only ever grows.
type Account struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ReferralCode     string     `gorm:"column:referral_code;type:text;not null;uniqueIndex"`
	WalletPaise      int64      `gorm:"column:wallet_paise;not null;default:0"`
	TotalIncomePaise int64      `gorm:"column:total_income_paise;not null;default:0"`
	ArchivedAt       *time.Time `gorm:"column:archived_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
