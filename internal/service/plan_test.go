package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

const generatedMealPlan = `{
  "weeklyPlan": {
    "monday": {
      "dayName": "Segunda-feira",
      "meals": {
        "breakfast": {"foods": [{"name": "Aveia", "portion": 40, "unit": "g"}], "calories": 150, "macros": {"protein": 5, "carbs": 27, "fats": 3, "fiber": 4}},
        "lunch": {"foods": [{"name": "Feijão", "portion": 100, "unit": "g"}], "calories": 400, "macros": {"protein": 20, "carbs": 50, "fats": 5, "fiber": 8}},
        "dinner": {"foods": [{"name": "Salada de alface", "portion": 80, "unit": "g"}], "calories": 100, "macros": {"protein": 2, "carbs": 6, "fats": 1, "fiber": 3}}
      },
      "dailyTotals": {"calories": 650, "protein": 27, "carbs": 83, "fats": 9, "fiber": 15}
    }
  },
  "weeklyTotals": {"averageCalories": 650, "averageProtein": 27, "averageCarbs": 83, "averageFats": 9, "averageFiber": 15},
  "recommendations": {"general": "Beba água"}
}`

const generatedWorkoutPlan = `{
  "goal": "hipertrofia",
  "sessions": [
    {"dayNumber": 1, "dayName": "Segunda", "focusArea": "peito",
     "exercises": [{"name": "Supino reto", "sets": 4, "reps": "8-12", "restSeconds": 90}, {"name": "Flexão", "sets": 3, "reps": 15, "restSeconds": 60}]}
  ]
}`

const generatedPhysioPlan = `{
  "condition": "tendinite patelar",
  "phases": [
    {"name": "Controle da dor", "weeks": 2,
     "sessions": [{"dayNumber": 1, "exercises": [{"name": "Isometria de quadríceps", "sets": 3, "reps": "10", "restSeconds": 30}]}]}
  ]
}`

type fakeLLM struct {
	mu      sync.Mutex
	content string
	err     error
	calls   int
	last    service.CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req service.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.content, f.err
}

func (f *fakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type planFixture struct {
	db      *gorm.DB
	llm     *fakeLLM
	plans   *service.PlanService
	wallet  *service.WalletService
	notices *service.NotificationService
	user    *models.User
}

func newPlanFixture(t *testing.T, content string) *planFixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	llm := &fakeLLM{content: content}
	notices := service.NewNotificationService(db, nil)
	wallet := service.NewWalletService(db, notices)
	plans := service.NewPlanService(db,
		service.NewAccessService(db),
		service.NewPlanGenerator(llm),
		service.NewCatalogService(db),
		wallet,
		notices,
	)
	return &planFixture{
		db:      db,
		llm:     llm,
		plans:   plans,
		wallet:  wallet,
		notices: notices,
		user:    testhelpers.CreateUser(t, db, "plans@example.com"),
	}
}

func mealRequest() *types.MealPlanRequest {
	training := "18:00"
	return &types.MealPlanRequest{
		Weight:              70,
		Height:              175,
		Age:                 30,
		Gender:              "male",
		ActivityLevel:       "moderate",
		Goal:                "maintain",
		DietaryRestrictions: []string{"sem lactose"},
		TrainingTime:        &training,
	}
}

func TestGenerateMealPlanPipeline(t *testing.T) {
	f := newPlanFixture(t, generatedMealPlan)
	ctx := context.Background()

	stored, err := f.plans.GenerateMealPlan(ctx, f.user.ID, mealRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PlanNutrition, stored.PlanType)
	assert.Equal(t, "2556 kcal/dia", stored.Headline)
	assert.Contains(t, f.llm.last.Prompt, "2556 kcal")
	assert.Contains(t, f.llm.last.Prompt, "sem lactose")

	p, err := stored.MealPlan()
	require.NoError(t, err)
	monday := p.WeeklyPlan["monday"]
	require.Len(t, monday.Meals.Lunch.Foods, 2)
	assert.Equal(t, "Salada verde", monday.Meals.Lunch.Foods[1].Name)
	assert.Len(t, monday.Meals.Dinner.Foods, 1)
	assert.Equal(t, 675.0, monday.DailyTotals.Calories)

	var counter models.PlanGenerationCount
	require.NoError(t, f.db.Where("user_id = ?", f.user.ID).First(&counter).Error)
	assert.Equal(t, 1, counter.NutritionCount)

	balance, err := f.wallet.Balance(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	notes, err := f.notices.List(ctx, f.user.ID, true, 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationPlanReady, notes[0].Type)

	pref, err := f.plans.GetNutritionPreferences(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2556, pref.DailyCalories)
	assert.Equal(t, []string{"sem lactose"}, []string(pref.DietaryRestrictions))
}

func TestGenerateMealPlanRequiresPayment(t *testing.T) {
	f := newPlanFixture(t, generatedMealPlan)
	seedSettings(t, f.db, models.PlanNutrition, 24.9, true)
	testhelpers.SetGenerationCount(t, f.db, f.user.ID, models.PlanNutrition, service.FreeGenerations)

	_, err := f.plans.GenerateMealPlan(context.Background(), f.user.ID, mealRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPaymentRequired, apperr.KindOf(err))
	assert.Equal(t, 24.9, apperr.DetailsOf(err)["price"])
	assert.Zero(t, f.llm.Calls())
}

func TestGenerateMealPlanConsumesSingleUseGrant(t *testing.T) {
	f := newPlanFixture(t, generatedMealPlan)
	ctx := context.Background()
	testhelpers.SetGenerationCount(t, f.db, f.user.ID, models.PlanNutrition, service.FreeGenerations)
	grant := &models.PlanAccessGrant{
		UserID:    f.user.ID,
		PlanType:  models.PlanNutrition,
		IsActive:  true,
		SingleUse: true,
		Source:    models.GrantSourcePayment,
	}
	require.NoError(t, f.db.Create(grant).Error)

	_, err := f.plans.GenerateMealPlan(ctx, f.user.ID, mealRequest())
	require.NoError(t, err)

	require.NoError(t, f.db.First(grant, "id = ?", grant.ID).Error)
	assert.False(t, grant.IsActive)

	_, err = f.plans.GenerateMealPlan(ctx, f.user.ID, mealRequest())
	assert.Equal(t, apperr.KindPaymentRequired, apperr.KindOf(err))
}

func TestGenerateMealPlanRejectsInvalidInput(t *testing.T) {
	f := newPlanFixture(t, generatedMealPlan)
	req := mealRequest()
	req.Weight = 0

	_, err := f.plans.GenerateMealPlan(context.Background(), f.user.ID, req)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Zero(t, f.llm.Calls())
}

func TestGenerateMealPlanGeneratorFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
		err     error
		kind    apperr.Kind
	}{
		{"malformed json", `{"weeklyPlan": `, nil, apperr.KindInvalidPayload},
		{"missing lunch", `{"weeklyPlan": {"monday": {"meals": {"breakfast": {"foods": [{"name": "Pão"}]}, "dinner": {"foods": [{"name": "Sopa"}]}}}}}`, nil, apperr.KindInvalidPayload},
		{"upstream", "", apperr.New(apperr.KindUpstream, "llm completion", "boom"), apperr.KindUpstream},
		{"timeout", "", apperr.New(apperr.KindTimeout, "llm completion", "slow"), apperr.KindTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPlanFixture(t, tc.content)
			f.llm.err = tc.err

			_, err := f.plans.GenerateMealPlan(context.Background(), f.user.ID, mealRequest())
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))

			var count int64
			require.NoError(t, f.db.Model(&models.MealPlan{}).Count(&count).Error)
			assert.Zero(t, count)
			decision := service.NewAccessService(f.db).CheckAccess(context.Background(), f.user.ID, models.PlanNutrition)
			assert.Zero(t, decision.GenerationCount)
		})
	}
}

func TestGenerateMealPlanSurvivesWalletFailure(t *testing.T) {
	f := newPlanFixture(t, generatedMealPlan)
	require.NoError(t, f.db.Migrator().DropTable(&models.WalletTransaction{}))

	stored, err := f.plans.GenerateMealPlan(context.Background(), f.user.ID, mealRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
}

func TestGenerateWorkoutAndPhysioPlans(t *testing.T) {
	f := newPlanFixture(t, generatedWorkoutPlan)
	ctx := context.Background()
	require.NoError(t, service.NewCatalogService(f.db).SaveExercise(ctx, &models.Exercise{
		Name: "Supino reto", MuscleGroup: "peito", Equipment: "barra", ExerciseType: models.ExerciseStrength,
	}))

	workout, err := f.plans.GenerateWorkoutPlan(ctx, f.user.ID, &types.WorkoutPlanRequest{
		Age: 28, Weight: 80, Height: 180, Gender: "male", Goal: "hipertrofia", ActivityLevel: "moderate",
		DaysPerWeek: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "hipertrofia", workout.Headline)
	assert.Contains(t, f.llm.last.Prompt, "Supino reto (peito, barra)")
	wp, err := workout.WorkoutPlan()
	require.NoError(t, err)
	assert.Equal(t, 2, wp.ExerciseCount())
	assert.Equal(t, "15", string(wp.Sessions[0].Exercises[1].Reps))

	pref, err := f.plans.GetWorkoutPreferences(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, pref.DaysPerWeek)
	assert.Equal(t, 60, pref.SessionMinutes)

	f.llm.content = generatedPhysioPlan
	physio, err := f.plans.GeneratePhysioPlan(ctx, f.user.ID, &types.PhysioPlanRequest{
		Condition: "tendinite patelar", PainLevel: 4, AffectedArea: "joelho",
	})
	require.NoError(t, err)
	pp, err := physio.PhysioPlan()
	require.NoError(t, err)
	assert.Equal(t, "tendinite patelar", pp.Condition)

	_, err = f.plans.GeneratePhysioPlan(ctx, f.user.ID, &types.PhysioPlanRequest{Condition: "x", PainLevel: 11})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	balance, err := f.wallet.Balance(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)
}

func TestPlanRetrievalIsOwnerScoped(t *testing.T) {
	f := newPlanFixture(t, generatedMealPlan)
	ctx := context.Background()
	other := testhelpers.CreateUser(t, f.db, "other@example.com")

	first, err := f.plans.GenerateMealPlan(ctx, f.user.ID, mealRequest())
	require.NoError(t, err)
	second, err := f.plans.GenerateMealPlan(ctx, f.user.ID, mealRequest())
	require.NoError(t, err)

	latest, err := f.plans.LatestPlan(ctx, f.user.ID, models.PlanNutrition)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	list, err := f.plans.ListPlans(ctx, f.user.ID, models.PlanNutrition, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.plans.GetPlan(ctx, other.ID, models.PlanNutrition, first.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.plans.DeletePlan(ctx, other.ID, models.PlanNutrition, first.ID)))

	require.NoError(t, f.plans.DeletePlan(ctx, f.user.ID, models.PlanNutrition, first.ID))
	_, err = f.plans.GetPlan(ctx, f.user.ID, models.PlanNutrition, first.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.plans.LatestPlan(ctx, other.ID, models.PlanWorkout)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.plans.ListPlans(ctx, f.user.ID, models.PlanType("diet"), 5)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestPlanGeneratorPrompts(t *testing.T) {
	llm := &fakeLLM{err: errors.New("unused")}
	gen := service.NewPlanGenerator(llm)
	_, err := gen.GenerateMealPlan(context.Background(), service.MealPlanInput{
		Request: mealRequest(),
		Foods:   []models.ProtocolFood{{Name: "Quinoa", Calories: 368, Protein: 14, Carbs: 64, Fats: 6}},
	})
	require.Error(t, err)
	assert.Contains(t, llm.last.Prompt, "Quinoa: 368 kcal")
	assert.Contains(t, llm.last.Prompt, "Horário de treino: 18:00")
	assert.True(t, strings.Contains(llm.last.System, "weeklyPlan"))
}
