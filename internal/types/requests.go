package types

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	FullName  *string    `json:"full_name"`
	BirthDate *time.Time `json:"birth_date"`
	Gender    *string    `json:"gender"`
	HeightCm  *float64   `json:"height_cm" binding:"omitempty,gt=0"`
	WeightKg  *float64   `json:"weight_kg" binding:"omitempty,gt=0"`
}

// MacroPercentagesRequest asks for the macro bar split
type MacroPercentagesRequest struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// MealPlanRequest carries the nutrition form
type MealPlanRequest struct {
	Weight              float64     `json:"weight" binding:"required,gt=0"`
	Height              float64     `json:"height" binding:"required,gt=0"`
	Age                 int         `json:"age" binding:"required,gt=0"`
	Gender              string      `json:"gender" binding:"required"`
	ActivityLevel       string      `json:"activity_level" binding:"required"`
	Goal                string      `json:"goal" binding:"required"`
	DietaryRestrictions []string    `json:"dietary_restrictions"`
	Allergies           []string    `json:"allergies"`
	SelectedFoods       []uuid.UUID `json:"selected_foods"`
	TrainingTime        *string     `json:"training_time"`
}

// WorkoutPlanRequest carries the workout form
type WorkoutPlanRequest struct {
	Age                int      `json:"age" binding:"required,gt=0"`
	Weight             float64  `json:"weight" binding:"required,gt=0"`
	Height             float64  `json:"height" binding:"required,gt=0"`
	Gender             string   `json:"gender" binding:"required"`
	Goal               string   `json:"goal" binding:"required"`
	ActivityLevel      string   `json:"activity_level" binding:"required"`
	PreferredExercises []string `json:"preferred_exercise_types"`
	AvailableEquipment []string `json:"available_equipment"`
	TrainingLocation   string   `json:"training_location"`
	HealthConditions   []string `json:"health_conditions"`
	DaysPerWeek        int      `json:"days_per_week" binding:"omitempty,min=1,max=7"`
	SessionMinutes     int      `json:"session_minutes" binding:"omitempty,min=10,max=240"`
}

// PhysioPlanRequest carries the rehabilitation form
type PhysioPlanRequest struct {
	Condition      string   `json:"condition" binding:"required"`
	PainLevel      int      `json:"pain_level" binding:"min=0,max=10"`
	AffectedArea   string   `json:"affected_area"`
	Goal           string   `json:"goal"`
	Age            int      `json:"age" binding:"omitempty,gt=0"`
	Limitations    []string `json:"limitations"`
	WeeksAvailable int      `json:"weeks_available" binding:"omitempty,min=1,max=52"`
}

// CheckoutRequest starts a payment for a plan type
type CheckoutRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

// CheckoutResponse points the client to the provider checkout
type CheckoutResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	CheckoutURL string    `json:"checkout_url"`
	Amount      float64   `json:"amount"`
}

// WebhookNotification is the provider's payment notification body
type WebhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// RewardRequest claims an activity reward
type RewardRequest struct {
	Type string `json:"type" binding:"required"`
}

// TransferRequest moves FITs to another user
type TransferRequest struct {
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	Description    string `json:"description"`
}

// MoodRequest records a mood entry
type MoodRequest struct {
	Mood    int    `json:"mood" binding:"required,min=1,max=5"`
	Emotion string `json:"emotion"`
	Notes   string `json:"notes"`
}

// BreathingRequest records a completed breathing session
type BreathingRequest struct {
	Technique       string `json:"technique" binding:"required"`
	DurationSeconds int    `json:"duration_seconds" binding:"required,gt=0"`
}

// PaymentSettingsUpdate changes the price or paywall switch of a plan type
type PaymentSettingsUpdate struct {
	PlanType string   `json:"plan_type" binding:"required"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active"`
}

// GrantRequest creates an access grant from the admin panel
type GrantRequest struct {
	UserID    uuid.UUID  `json:"user_id" binding:"required"`
	PlanType  string     `json:"plan_type" binding:"required"`
	SingleUse bool       `json:"single_use"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ResetCountRequest resets a generation counter
type ResetCountRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}
