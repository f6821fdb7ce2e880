package models

import (
	"github.com/google/uuid"
)

// NutritionPreference is the last submitted nutrition form of a user
type NutritionPreference struct {
	Base
	UserID              uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Weight              float64    `gorm:"not null" json:"weight"`
	Height              float64    `gorm:"not null" json:"height"`
	Age                 int        `gorm:"not null" json:"age"`
	Gender              string     `gorm:"size:16;not null" json:"gender"`
	ActivityLevel       string     `gorm:"size:32;not null" json:"activity_level"`
	Goal                string     `gorm:"size:32;not null" json:"goal"`
	DietaryRestrictions StringList `json:"dietary_restrictions"`
	Allergies           StringList `json:"allergies"`
	SelectedFoods       StringList `json:"selected_foods"`
	TrainingTime        *string    `gorm:"size:16" json:"training_time,omitempty"`
	DailyCalories       int        `json:"daily_calories"`
}

// WorkoutPreference is the last submitted workout form of a user
type WorkoutPreference struct {
	Base
	UserID             uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Age                int        `gorm:"not null" json:"age"`
	Weight             float64    `gorm:"not null" json:"weight"`
	Height             float64    `gorm:"not null" json:"height"`
	Gender             string     `gorm:"size:16;not null" json:"gender"`
	Goal               string     `gorm:"size:32;not null" json:"goal"`
	ActivityLevel      string     `gorm:"size:32;not null" json:"activity_level"`
	PreferredExercises StringList `json:"preferred_exercise_types"`
	AvailableEquipment StringList `json:"available_equipment"`
	TrainingLocation   string     `gorm:"size:32" json:"training_location"`
	HealthConditions   StringList `json:"health_conditions"`
	DaysPerWeek        int        `gorm:"not null;default:3" json:"days_per_week"`
	SessionMinutes     int        `gorm:"not null;default:60" json:"session_minutes"`
}
