package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
)

func reference() Anthropometrics {
	return Anthropometrics{
		WeightKg:      70,
		HeightCm:      175,
		Age:           30,
		Gender:        Male,
		ActivityLevel: Moderate,
		Goal:          Maintain,
	}
}

func TestCalculateReference(t *testing.T) {
	res, err := Calculate(reference())
	require.NoError(t, err)

	assert.InDelta(t, 1648.75, res.BMR, 1e-9)
	assert.InDelta(t, 2555.5625, res.Maintenance, 1e-9)
	assert.Equal(t, 2556, res.DailyCalories)
	assert.Equal(t, 126.0, res.Macros.Protein)
	assert.Equal(t, 71.0, res.Macros.Fats)
}

func TestCalculateGoalsAndGender(t *testing.T) {
	in := reference()
	in.Goal = Lose
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 2044, res.DailyCalories)
	assert.Equal(t, 140.0, res.Macros.Protein)

	in = reference()
	in.Gender = "Feminino"
	in.ActivityLevel = " SEDENTARY "
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, 1482.75, res.BMR, 1e-9)
	assert.Equal(t, 1779, res.DailyCalories)
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	cases := map[string]func(*Anthropometrics){
		"zero weight":    func(a *Anthropometrics) { a.WeightKg = 0 },
		"negative age":   func(a *Anthropometrics) { a.Age = -1 },
		"zero height":    func(a *Anthropometrics) { a.HeightCm = 0 },
		"unknown gender": func(a *Anthropometrics) { a.Gender = "x" },
		"unknown level":  func(a *Anthropometrics) { a.ActivityLevel = "extreme" },
		"unknown goal":   func(a *Anthropometrics) { a.Goal = "bulk" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := reference()
			mutate(&in)
			_, err := Calculate(in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}
