package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskIncome is the audit row written when a task-completion request is
// approved and the reward credited.
type TaskIncome struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	TaskID      uuid.UUID `gorm:"column:task_id;type:uuid;not null"`
	RequestID   uuid.UUID `gorm:"column:request_id;type:uuid;not null"`
	AmountPaise int64     `gorm:"column:amount_paise;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
