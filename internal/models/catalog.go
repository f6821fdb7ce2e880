package models

import (
	pgvector "github.com/pgvector/pgvector-go"
)

// FoodEmbeddingDims is the size of the food catalog embedding
const FoodEmbeddingDims = 64

// ProtocolFood is a catalog food users can pick for their meal plan
type ProtocolFood struct {
	Base
	Name      string           `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Calories  float64          `gorm:"not null" json:"calories"`
	Protein   float64          `gorm:"not null" json:"protein"`
	Carbs     float64          `gorm:"not null" json:"carbs"`
	Fats      float64          `gorm:"not null" json:"fats"`
	Fiber     float64          `gorm:"not null;default:0" json:"fiber"`
	FoodGroup string           `gorm:"size:64;index" json:"food_group"`
	MealTypes StringList       `json:"meal_types"`
	Embedding *pgvector.Vector `gorm:"type:vector(64)" json:"-"`
}

// Exercise types
const (
	ExerciseStrength = "strength"
	ExerciseCardio   = "cardio"
	ExerciseMobility = "mobility"
	ExercisePhysio   = "physio"
)

// Exercise is a catalog exercise used to ground workout and physio plans
type Exercise struct {
	Base
	Name         string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	MuscleGroup  string `gorm:"size:64;index" json:"muscle_group"`
	Equipment    string `gorm:"size:64" json:"equipment"`
	ExerciseType string `gorm:"size:32;not null;index" json:"exercise_type"`
	Difficulty   string `gorm:"size:32" json:"difficulty"`
	Description  string `gorm:"type:text" json:"description"`
}
