package models

import (
	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a checkout
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentExpired   PaymentStatus = "expired"
)

// Final reports whether no further transition is expected
func (s PaymentStatus) Final() bool {
	return s != PaymentPending
}

// PaymentRecord tracks one checkout with the payment provider
type PaymentRecord struct {
	Base
	UserID            uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanType          PlanType      `gorm:"size:32;not null" json:"plan_type"`
	Amount            float64       `gorm:"not null" json:"amount"`
	Status            PaymentStatus `gorm:"size:16;not null;index" json:"status"`
	PreferenceID      string        `gorm:"size:128" json:"preference_id"`
	ProviderPaymentID string        `gorm:"size:64" json:"provider_payment_id,omitempty"`
	ExternalReference string        `gorm:"size:160;not null;uniqueIndex" json:"external_reference"`
	CheckoutURL       string        `gorm:"size:512" json:"checkout_url"`
}
