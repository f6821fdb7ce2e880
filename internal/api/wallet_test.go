package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

func TestWalletRoutes(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateUser(t, env.db, "friend@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/wallet/rewards", map[string]string{"type": "daily_tip"})
	requireStatus(t, w, http.StatusCreated)
	var reward models.WalletTransaction
	decode(t, w, &reward)
	require.Positive(t, reward.Amount)

	w = env.do(t, http.MethodPost, "/api/v1/wallet/rewards", map[string]string{"type": "daily_tip"})
	requireStatus(t, w, http.StatusConflict)

	w = env.do(t, http.MethodPost, "/api/v1/wallet/rewards", map[string]string{"type": "transfer_in"})
	requireStatus(t, w, http.StatusBadRequest)

	for _, generated := range []string{"meal_plan", "workout_plan", "physio_plan"} {
		w = env.do(t, http.MethodPost, "/api/v1/wallet/rewards", map[string]string{"type": generated})
		requireStatus(t, w, http.StatusBadRequest)
	}

	w = env.do(t, http.MethodGet, "/api/v1/wallet", nil)
	requireStatus(t, w, http.StatusOK)
	var balance struct {
		Balance int64 `json:"balance"`
	}
	decode(t, w, &balance)
	assert.Equal(t, reward.Amount, balance.Balance)

	w = env.do(t, http.MethodPost, "/api/v1/wallet/transfers", map[string]interface{}{
		"recipient_email": "friend@example.com", "amount": reward.Amount + 1,
	})
	requireStatus(t, w, http.StatusUnprocessableEntity)
	assert.Equal(t, "insufficient_funds", errorKind(t, w))

	w = env.do(t, http.MethodPost, "/api/v1/wallet/transfers", map[string]interface{}{
		"recipient_email": "friend@example.com", "amount": reward.Amount,
	})
	requireStatus(t, w, http.StatusCreated)

	w = env.do(t, http.MethodGet, "/api/v1/wallet/transactions?limit=10", nil)
	requireStatus(t, w, http.StatusOK)
	var txs struct {
		Transactions []models.WalletTransaction `json:"transactions"`
	}
	decode(t, w, &txs)
	assert.Len(t, txs.Transactions, 2)
}

func TestMentalHealthRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, mood := range []int{4, 2} {
		w := env.do(t, http.MethodPost, "/api/v1/mental/moods", map[string]interface{}{"mood": mood, "emotion": "calmo"})
		requireStatus(t, w, http.StatusCreated)
	}
	w := env.do(t, http.MethodPost, "/api/v1/mental/moods", map[string]interface{}{"mood": 9})
	requireStatus(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodGet, "/api/v1/mental/moods?from=2000-01-01", nil)
	requireStatus(t, w, http.StatusOK)
	var moods struct {
		Moods []models.MoodEntry `json:"moods"`
	}
	decode(t, w, &moods)
	assert.Len(t, moods.Moods, 2)

	w = env.do(t, http.MethodGet, "/api/v1/mental/moods?from=yesterday", nil)
	requireStatus(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodGet, "/api/v1/mental/moods/summary?days=7", nil)
	requireStatus(t, w, http.StatusOK)
	var summary service.MoodSummary
	decode(t, w, &summary)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 3.0, summary.AverageMood, 1e-9)
	assert.Equal(t, "calmo", summary.TopEmotion)

	w = env.do(t, http.MethodPost, "/api/v1/mental/breathing", map[string]interface{}{
		"technique": "4-7-8", "duration_seconds": 120,
	})
	requireStatus(t, w, http.StatusCreated)
	var result service.BreathingResult
	decode(t, w, &result)
	require.NotNil(t, result.Reward)
	assert.Equal(t, models.TxBreathingExercise, result.Reward.Type)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.ProtocolFood{
		Name: "Aveia", Calories: 389, Protein: 16.9, Carbs: 66.3, Fats: 6.9,
		MealTypes: models.StringList{"breakfast"},
	}).Error)
	require.NoError(t, env.db.Create(&models.Exercise{
		Name: "Agachamento", ExerciseType: "strength", MuscleGroup: "legs", Equipment: "barbell",
	}).Error)

	w := env.do(t, http.MethodGet, "/api/v1/foods?q=ave&meal_type=breakfast", nil)
	requireStatus(t, w, http.StatusOK)
	var foods struct {
		Foods []models.ProtocolFood `json:"foods"`
	}
	decode(t, w, &foods)
	require.Len(t, foods.Foods, 1)
	assert.Equal(t, "Aveia", foods.Foods[0].Name)

	w = env.do(t, http.MethodGet, "/api/v1/exercises?muscle_group=legs", nil)
	requireStatus(t, w, http.StatusOK)
	var exercises struct {
		Exercises []models.Exercise `json:"exercises"`
	}
	decode(t, w, &exercises)
	assert.Len(t, exercises.Exercises, 1)
}
