package nutrition

import "math"

// MacroTargets are daily gram targets
type MacroTargets struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// MacroShare is the percentage split shown in the macro bar
type MacroShare struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Targets derives protein from body weight, fats as a quarter of calories and carbs from the rest
func Targets(dailyCalories int, weightKg float64, goal Goal) MacroTargets {
	perKg := 1.8
	if goal == Lose || goal == Gain {
		perKg = 2.0
	}
	protein := perKg * weightKg
	fats := float64(dailyCalories) * 0.25 / 9
	carbs := (float64(dailyCalories) - protein*4 - fats*9) / 4
	if carbs < 0 {
		carbs = 0
	}
	return MacroTargets{
		Protein: round1(protein),
		Carbs:   round1(carbs),
		Fats:    round1(fats),
	}
}

// MacroPercentages returns each macro's share of total grams.
// Negative inputs count as zero and a zero total yields zeros.
func MacroPercentages(protein, carbs, fats float64) MacroShare {
	protein, carbs, fats = math.Max(protein, 0), math.Max(carbs, 0), math.Max(fats, 0)
	total := protein + carbs + fats
	if total <= 0 {
		return MacroShare{}
	}
	return MacroShare{
		Protein: round1(protein / total * 100),
		Carbs:   round1(carbs / total * 100),
		Fats:    round1(fats / total * 100),
	}
}

// Calories returns the energy of a macro triple using 4/4/9 kcal per gram
func Calories(protein, carbs, fats float64) float64 {
	return protein*4 + carbs*4 + fats*9
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
