package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

func seedCatalog(t *testing.T, db *gorm.DB) *service.CatalogService {
	t.Helper()
	catalog := service.NewCatalogService(db)
	ctx := context.Background()
	foods := []models.ProtocolFood{
		{Name: "Peito de frango grelhado", Calories: 165, Protein: 31, Fats: 3.6, FoodGroup: "proteínas", MealTypes: models.StringList{"lunch", "dinner"}},
		{Name: "Aveia em flocos", Calories: 389, Protein: 16.9, Carbs: 66, Fats: 6.9, Fiber: 10.6, FoodGroup: "cereais", MealTypes: models.StringList{"breakfast"}},
		{Name: "Arroz integral", Calories: 124, Protein: 2.6, Carbs: 25.8, Fats: 1, Fiber: 2.7, FoodGroup: "cereais", MealTypes: models.StringList{"lunch", "dinner"}},
		{Name: "Banana prata", Calories: 98, Protein: 1.3, Carbs: 26, Fats: 0.1, Fiber: 2, FoodGroup: "frutas", MealTypes: models.StringList{"breakfast", "morningSnack", "afternoonSnack"}},
	}
	for i := range foods {
		require.NoError(t, catalog.SaveFood(ctx, &foods[i]))
	}
	exercises := []models.Exercise{
		{Name: "Supino reto", MuscleGroup: "peito", Equipment: "barra", ExerciseType: models.ExerciseStrength},
		{Name: "Agachamento livre", MuscleGroup: "pernas", Equipment: "barra", ExerciseType: models.ExerciseStrength},
		{Name: "Corrida na esteira", MuscleGroup: "cardio", Equipment: "esteira", ExerciseType: models.ExerciseCardio},
		{Name: "Ponte de glúteo", MuscleGroup: "glúteos", Equipment: "peso corporal", ExerciseType: models.ExercisePhysio},
	}
	for i := range exercises {
		require.NoError(t, catalog.SaveExercise(ctx, &exercises[i]))
	}
	return catalog
}

func foodNames(foods []models.ProtocolFood) []string {
	names := make([]string, len(foods))
	for i, f := range foods {
		names[i] = f.Name
	}
	return names
}

func TestSearchFoods(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	catalog := seedCatalog(t, db)
	ctx := context.Background()

	all, err := catalog.SearchFoods(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arroz integral", "Aveia em flocos", "Banana prata", "Peito de frango grelhado"}, foodNames(all))

	byGroup, err := catalog.SearchFoods(ctx, "CEREAIS", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arroz integral", "Aveia em flocos"}, foodNames(byGroup))

	breakfast, err := catalog.SearchFoods(ctx, "", "breakfast", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aveia em flocos", "Banana prata"}, foodNames(breakfast))

	lunchCereal, err := catalog.SearchFoods(ctx, "cereais", "lunch", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arroz integral"}, foodNames(lunchCereal))

	limited, err := catalog.SearchFoods(ctx, "", "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byID, err := catalog.GetFoodsByIDs(ctx, []uuid.UUID{all[0].ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arroz integral"}, foodNames(byID))
}

func TestSaveFoodUpsertsByName(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	catalog := seedCatalog(t, db)
	ctx := context.Background()

	require.NoError(t, catalog.SaveFood(ctx, &models.ProtocolFood{Name: "Banana prata", Calories: 89, Carbs: 23, FoodGroup: "frutas"}))

	foods, err := catalog.SearchFoods(ctx, "banana", "", 0)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, 89.0, foods[0].Calories)
}

func TestListExercises(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	catalog := seedCatalog(t, db)
	ctx := context.Background()

	strength, err := catalog.ListExercises(ctx, service.ExerciseFilter{Type: models.ExerciseStrength})
	require.NoError(t, err)
	assert.Len(t, strength, 2)

	noPhysio, err := catalog.ListExercises(ctx, service.ExerciseFilter{ExcludeType: models.ExercisePhysio})
	require.NoError(t, err)
	assert.Len(t, noPhysio, 3)

	barbell, err := catalog.ListExercises(ctx, service.ExerciseFilter{Equipment: "Barra", MuscleGroup: "PERNAS"})
	require.NoError(t, err)
	require.Len(t, barbell, 1)
	assert.Equal(t, "Agachamento livre", barbell[0].Name)

	byID, err := catalog.GetExercisesByIDs(ctx, []uuid.UUID{barbell[0].ID})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	none, err := catalog.GetExercisesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchFoodsRanksBySimilarityOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	catalog := seedCatalog(t, db)

	foods, err := catalog.SearchFoods(context.Background(), "frango", "", 0)
	require.NoError(t, err)
	require.NotEmpty(t, foods)
	assert.Equal(t, "Peito de frango grelhado", foods[0].Name)

	lunch, err := catalog.SearchFoods(context.Background(), "", "lunch", 0)
	require.NoError(t, err)
	assert.Len(t, lunch, 2)
}

func TestGenerateEmbedding(t *testing.T) {
	a := service.GenerateEmbedding("Feijão preto")
	b := service.GenerateEmbedding("feijao PRETO")
	c := service.GenerateEmbedding("Whey protein")

	assert.Len(t, a.Slice(), models.FoodEmbeddingDims)
	assert.Equal(t, a.Slice(), b.Slice())
	assert.NotEqual(t, a.Slice(), c.Slice())

	var norm float64
	for _, v := range a.Slice() {
		norm += float64(v * v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	empty := service.GenerateEmbedding("   ")
	for _, v := range empty.Slice() {
		assert.Zero(t, v)
	}
}
