package plan

import (
	"math"
	"strings"
)

var saladKeywords = []string{
	"salada",
	"salad",
	"alface",
	"rucula",
	"agriao",
	"folhas",
	"verdes",
	"legumes crus",
}

var foldAccents = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ô", "o", "õ", "o", "ò", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// DefaultSalad is appended to lunch and dinner when they lack greens
func DefaultSalad() Food {
	return Food{
		Name:     "Salada verde",
		Portion:  100,
		Unit:     "g",
		Details:  "Folhas verdes variadas com tomate e pepino, temperadas com limão",
		Calories: 25,
		Macros:   &Macros{Protein: 1.5, Carbs: 4, Fats: 0.3, Fiber: 2.5},
	}
}

// FoldText lower-cases s and strips Portuguese diacritics
func FoldText(s string) string {
	return foldAccents.Replace(strings.ToLower(s))
}

// IsSalad reports whether a food name matches a salad keyword, ignoring case and accents
func IsSalad(name string) bool {
	folded := FoldText(name)
	for _, kw := range saladKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

func hasSalad(m *Meal) bool {
	for _, f := range m.Foods {
		if IsSalad(f.Name) {
			return true
		}
	}
	return false
}

// AddSaladsToMeals makes sure every lunch and dinner carries a salad item.
// Meal and day totals are patched additively and the weekly averages recomputed
// when anything was added. It reports whether the plan changed; a second call is a no-op.
func AddSaladsToMeals(p *MealPlan) bool {
	if p == nil {
		return false
	}
	changed := false
	salad := DefaultSalad()
	for _, key := range p.DayKeys() {
		day := p.WeeklyPlan[key]
		if day == nil {
			continue
		}
		for _, meal := range []*Meal{day.Meals.Lunch, day.Meals.Dinner} {
			if meal == nil || hasSalad(meal) {
				continue
			}
			item := salad
			macros := *salad.Macros
			item.Macros = &macros
			meal.Foods = append(meal.Foods, item)

			meal.Calories += item.Calories
			meal.Macros.Protein += macros.Protein
			meal.Macros.Carbs += macros.Carbs
			meal.Macros.Fats += macros.Fats
			meal.Macros.Fiber += macros.Fiber

			t := &day.DailyTotals
			t.Calories += item.Calories
			t.Protein += macros.Protein
			t.Carbs += macros.Carbs
			t.Fats += macros.Fats
			t.Fiber += macros.Fiber
			changed = true
		}
	}
	if changed {
		p.RecomputeWeeklyTotals()
	}
	return changed
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
