package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanType identifies a generation feature
type PlanType string

const (
	PlanNutrition PlanType = "nutrition"
	PlanWorkout   PlanType = "workout"
	PlanPhysio    PlanType = "physio"
)

// PlanTypes lists every plan type
var PlanTypes = []PlanType{PlanNutrition, PlanWorkout, PlanPhysio}

// Valid reports whether t is a known plan type
func (t PlanType) Valid() bool {
	switch t {
	case PlanNutrition, PlanWorkout, PlanPhysio:
		return true
	}
	return false
}

// PlanGenerationCount is the per-user counter that gates free generations
type PlanGenerationCount struct {
	Base
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	NutritionCount int       `gorm:"not null;default:0" json:"nutrition_count"`
	WorkoutCount   int       `gorm:"not null;default:0" json:"workout_count"`
	PhysioCount    int       `gorm:"not null;default:0" json:"physio_count"`
}

// Count returns the counter for t
func (c PlanGenerationCount) Count(t PlanType) int {
	switch t {
	case PlanNutrition:
		return c.NutritionCount
	case PlanWorkout:
		return c.WorkoutCount
	case PlanPhysio:
		return c.PhysioCount
	}
	return 0
}

// CountColumn returns the column holding the counter for t
func CountColumn(t PlanType) string {
	return string(t) + "_count"
}

// PaymentSettings holds the price and the paywall switch of a plan type
type PaymentSettings struct {
	Base
	PlanType PlanType `gorm:"size:32;not null;uniqueIndex" json:"plan_type"`
	Price    float64  `gorm:"not null" json:"price"`
	IsActive bool     `gorm:"not null;default:true" json:"is_active"`
}

// Grant sources
const (
	GrantSourcePayment = "payment"
	GrantSourceAdmin   = "admin"
)

// PlanAccessGrant lets a user bypass payment for a plan type
type PlanAccessGrant struct {
	Base
	UserID          uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanType        PlanType   `gorm:"size:32;not null;index" json:"plan_type"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	PaymentRequired bool       `gorm:"not null;default:false" json:"payment_required"`
	SingleUse       bool       `gorm:"not null;default:false" json:"single_use"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	Source          string     `gorm:"size:16;not null" json:"source"`
	PaymentID       *uuid.UUID `gorm:"type:varchar(36)" json:"payment_id,omitempty"`
}

// Usable reports whether the grant bypasses payment at now
func (g PlanAccessGrant) Usable(now time.Time) bool {
	return g.IsActive && !g.PaymentRequired && (g.ExpiresAt == nil || g.ExpiresAt.After(now))
}
