// Package plan defines the typed plan documents returned by the generator,
// their decoding at the service boundary and the local meal plan repair.
package plan

import (
	"sort"
)

// Macros are gram quantities of a meal or food
type Macros struct {
	Protein float64 `json:"protein" validate:"gte=0"`
	Carbs   float64 `json:"carbs" validate:"gte=0"`
	Fats    float64 `json:"fats" validate:"gte=0"`
	Fiber   float64 `json:"fiber" validate:"gte=0"`
}

// Food is one item of a meal
type Food struct {
	Name     string  `json:"name" validate:"required"`
	Portion  float64 `json:"portion" validate:"gte=0"`
	Unit     string  `json:"unit"`
	Details  string  `json:"details,omitempty"`
	Calories float64 `json:"calories,omitempty" validate:"gte=0"`
	Macros   *Macros `json:"macros,omitempty"`
}

// Meal is a single slot of a day
type Meal struct {
	Description string  `json:"description,omitempty"`
	Foods       []Food  `json:"foods" validate:"required,min=1,dive"`
	Calories    float64 `json:"calories" validate:"gte=0"`
	Macros      Macros  `json:"macros"`
}

// Meals holds one typed field per slot. Breakfast, lunch and dinner are mandatory.
type Meals struct {
	Breakfast      *Meal `json:"breakfast" validate:"required"`
	MorningSnack   *Meal `json:"morningSnack,omitempty"`
	Lunch          *Meal `json:"lunch" validate:"required"`
	AfternoonSnack *Meal `json:"afternoonSnack,omitempty"`
	Dinner         *Meal `json:"dinner" validate:"required"`
}

// Slot names a meal position within a day
type Slot string

const (
	SlotBreakfast      Slot = "breakfast"
	SlotMorningSnack   Slot = "morningSnack"
	SlotLunch          Slot = "lunch"
	SlotAfternoonSnack Slot = "afternoonSnack"
	SlotDinner         Slot = "dinner"
)

// SlotLabels are the display names used in exports
var SlotLabels = map[Slot]string{
	SlotBreakfast:      "Café da manhã",
	SlotMorningSnack:   "Lanche da manhã",
	SlotLunch:          "Almoço",
	SlotAfternoonSnack: "Lanche da tarde",
	SlotDinner:         "Jantar",
}

// Ordered returns the present meals in daily order
func (m Meals) Ordered() []SlotMeal {
	all := []SlotMeal{
		{SlotBreakfast, m.Breakfast},
		{SlotMorningSnack, m.MorningSnack},
		{SlotLunch, m.Lunch},
		{SlotAfternoonSnack, m.AfternoonSnack},
		{SlotDinner, m.Dinner},
	}
	out := all[:0]
	for _, sm := range all {
		if sm.Meal != nil {
			out = append(out, sm)
		}
	}
	return out
}

// SlotMeal pairs a slot with its meal
type SlotMeal struct {
	Slot Slot
	Meal *Meal
}

// DailyTotals aggregate a day
type DailyTotals struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
}

// DayPlan is one day of a meal plan
type DayPlan struct {
	DayName     string      `json:"dayName"`
	Meals       Meals       `json:"meals"`
	DailyTotals DailyTotals `json:"dailyTotals"`
}

// WeeklyTotals are per-day averages across the plan
type WeeklyTotals struct {
	AverageCalories float64 `json:"averageCalories"`
	AverageProtein  float64 `json:"averageProtein"`
	AverageCarbs    float64 `json:"averageCarbs"`
	AverageFats     float64 `json:"averageFats"`
	AverageFiber    float64 `json:"averageFiber"`
}

// Recommendations accompany a meal plan
type Recommendations struct {
	General     string   `json:"general,omitempty"`
	Preworkout  string   `json:"preworkout,omitempty"`
	Postworkout string   `json:"postworkout,omitempty"`
	Timing      []string `json:"timing,omitempty"`
}

// MealPlan is the nutrition plan document
type MealPlan struct {
	WeeklyPlan      map[string]*DayPlan `json:"weeklyPlan" validate:"required,min=1,dive,required"`
	WeeklyTotals    WeeklyTotals        `json:"weeklyTotals"`
	Recommendations Recommendations     `json:"recommendations"`
}

var dayOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// DayKeys returns the weekly plan keys in weekday order, unknown keys last in lexical order
func (p *MealPlan) DayKeys() []string {
	keys := make([]string, 0, len(p.WeeklyPlan))
	for k := range p.WeeklyPlan {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := dayOrder[keys[i]]
		oj, jok := dayOrder[keys[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// RecomputeWeeklyTotals sets the weekly averages from the daily totals
func (p *MealPlan) RecomputeWeeklyTotals() {
	n := float64(len(p.WeeklyPlan))
	if n == 0 {
		p.WeeklyTotals = WeeklyTotals{}
		return
	}
	var sum DailyTotals
	for _, key := range p.DayKeys() {
		t := p.WeeklyPlan[key].DailyTotals
		sum.Calories += t.Calories
		sum.Protein += t.Protein
		sum.Carbs += t.Carbs
		sum.Fats += t.Fats
		sum.Fiber += t.Fiber
	}
	p.WeeklyTotals = WeeklyTotals{
		AverageCalories: round1(sum.Calories / n),
		AverageProtein:  round1(sum.Protein / n),
		AverageCarbs:    round1(sum.Carbs / n),
		AverageFats:     round1(sum.Fats / n),
		AverageFiber:    round1(sum.Fiber / n),
	}
}
