package models

import (
	"github.com/google/uuid"
)

// TransactionType classifies a ledger row
type TransactionType string

const (
	TxMealPlan          TransactionType = "meal_plan"
	TxWorkoutPlan       TransactionType = "workout_plan"
	TxPhysioPlan        TransactionType = "physio_plan"
	TxDailyTip          TransactionType = "daily_tip"
	TxWaterIntake       TransactionType = "water_intake"
	TxBreathingExercise TransactionType = "breathing_exercise"
	TxTransferIn        TransactionType = "transfer_in"
	TxTransferOut       TransactionType = "transfer_out"
)

// WalletTransaction is an append-only ledger row, amounts in FITs
type WalletTransaction struct {
	Base
	UserID      uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Amount      int64           `gorm:"not null" json:"amount"`
	Type        TransactionType `gorm:"size:32;not null;index" json:"type"`
	Description string          `gorm:"size:255" json:"description"`
	RecipientID *uuid.UUID      `gorm:"type:varchar(36)" json:"recipient_id,omitempty"`
}
