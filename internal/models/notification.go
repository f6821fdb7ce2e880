package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationPlanReady       = "plan_ready"
	NotificationPaymentApproved = "payment_approved"
	NotificationPaymentFailed   = "payment_failed"
	NotificationWalletReward    = "wallet_reward"
	NotificationTransfer        = "wallet_transfer"
)

// Notification is a persisted user message, also pushed over pub/sub
type Notification struct {
	Base
	UserID  uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type    string     `gorm:"size:32;not null" json:"type"`
	Title   string     `gorm:"size:255;not null" json:"title"`
	Message string     `gorm:"type:text" json:"message"`
	ReadAt  *time.Time `json:"read_at,omitempty"`
}
