package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferralEdge records who referred whom. A user has at most one referrer,
// so UserID is the primary key; acyclicity is enforced at creation time.
type ReferralEdge struct {
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	ReferrerID uuid.UUID `gorm:"column:referrer_id;type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
