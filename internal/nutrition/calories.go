// Package nutrition holds the calorie and macronutrient arithmetic used by plan generation.
package nutrition

import (
	"math"
	"strings"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
)

// Gender drives the BMR constant
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ActivityLevel maps to an energy multiplier
type ActivityLevel string

const (
	Sedentary ActivityLevel = "sedentary"
	Light     ActivityLevel = "light"
	Moderate  ActivityLevel = "moderate"
	Intense   ActivityLevel = "intense"
)

// Goal adjusts maintenance calories
type Goal string

const (
	Lose     Goal = "lose"
	Maintain Goal = "maintain"
	Gain     Goal = "gain"
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary: 1.2,
	Light:     1.375,
	Moderate:  1.55,
	Intense:   1.725,
}

var goalFactors = map[Goal]float64{
	Lose:     0.8,
	Maintain: 1.0,
	Gain:     1.2,
}

// Anthropometrics are the inputs of the calorie calculation
type Anthropometrics struct {
	WeightKg      float64       `json:"weight" binding:"required"`
	HeightCm      float64       `json:"height" binding:"required"`
	Age           int           `json:"age" binding:"required"`
	Gender        Gender        `json:"gender" binding:"required"`
	ActivityLevel ActivityLevel `json:"activity_level" binding:"required"`
	Goal          Goal          `json:"goal" binding:"required"`
}

// CalorieResult is the outcome of Calculate
type CalorieResult struct {
	BMR           float64      `json:"bmr"`
	Maintenance   float64      `json:"maintenance"`
	DailyCalories int          `json:"daily_calories"`
	Macros        MacroTargets `json:"macros"`
}

// Normalize lower-cases the enum fields and accepts a few aliases
func (a Anthropometrics) Normalize() Anthropometrics {
	a.Gender = Gender(strings.ToLower(strings.TrimSpace(string(a.Gender))))
	switch a.Gender {
	case "m", "masculino":
		a.Gender = Male
	case "f", "feminino":
		a.Gender = Female
	}
	a.ActivityLevel = ActivityLevel(strings.ToLower(strings.TrimSpace(string(a.ActivityLevel))))
	a.Goal = Goal(strings.ToLower(strings.TrimSpace(string(a.Goal))))
	return a
}

// Validate rejects non-positive measures and unknown enums
func (a Anthropometrics) Validate() error {
	const op = "validate anthropometrics"
	switch {
	case a.WeightKg <= 0:
		return apperr.New(apperr.KindInvalidInput, op, "weight must be positive")
	case a.HeightCm <= 0:
		return apperr.New(apperr.KindInvalidInput, op, "height must be positive")
	case a.Age <= 0:
		return apperr.New(apperr.KindInvalidInput, op, "age must be positive")
	case a.Gender != Male && a.Gender != Female:
		return apperr.New(apperr.KindInvalidInput, op, "gender must be male or female")
	}
	if _, ok := activityMultipliers[a.ActivityLevel]; !ok {
		return apperr.New(apperr.KindInvalidInput, op, "unknown activity level").
			WithDetail("activity_level", string(a.ActivityLevel))
	}
	if _, ok := goalFactors[a.Goal]; !ok {
		return apperr.New(apperr.KindInvalidInput, op, "unknown goal").
			WithDetail("goal", string(a.Goal))
	}
	return nil
}

// BMR returns the Mifflin-St Jeor basal metabolic rate
func BMR(weightKg, heightCm float64, age int, gender Gender) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == Female {
		return base - 161
	}
	return base + 5
}

// Calculate computes BMR, maintenance and goal-adjusted daily calories plus macro targets
func Calculate(in Anthropometrics) (CalorieResult, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return CalorieResult{}, err
	}

	bmr := BMR(in.WeightKg, in.HeightCm, in.Age, in.Gender)
	maintenance := bmr * activityMultipliers[in.ActivityLevel]
	daily := int(math.Round(maintenance * goalFactors[in.Goal]))

	return CalorieResult{
		BMR:           bmr,
		Maintenance:   maintenance,
		DailyCalories: daily,
		Macros:        Targets(daily, in.WeightKg, in.Goal),
	}, nil
}
