package models

import (
	"time"

	"github.com/google/uuid"
)

// MealPlan stores a generated nutrition plan document
type MealPlan struct {
	Base
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanData      JSONDoc   `gorm:"not null" json:"plan_data"`
	Inputs        JSONDoc   `json:"inputs"`
	DailyCalories int       `json:"daily_calories"`
	GeneratedAt   time.Time `gorm:"not null;index" json:"generated_at"`
}

// WorkoutPlan stores a generated training plan document
type WorkoutPlan struct {
	Base
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanData    JSONDoc   `gorm:"not null" json:"plan_data"`
	Inputs      JSONDoc   `json:"inputs"`
	Goal        string    `gorm:"size:64" json:"goal"`
	GeneratedAt time.Time `gorm:"not null;index" json:"generated_at"`
}

// PhysioPlan stores a generated rehabilitation plan document
type PhysioPlan struct {
	Base
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanData    JSONDoc   `gorm:"not null" json:"plan_data"`
	Inputs      JSONDoc   `json:"inputs"`
	Condition   string    `gorm:"size:128" json:"condition"`
	GeneratedAt time.Time `gorm:"not null;index" json:"generated_at"`
}
