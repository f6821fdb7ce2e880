package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
)

const (
	defaultCatalogLimit = 50
	maxCatalogLimit     = 200
)

// ExerciseFilter narrows ListExercises. Empty fields match everything.
type ExerciseFilter struct {
	Type        string
	ExcludeType string
	MuscleGroup string
	Equipment   string
	Limit       int
}

// CatalogService serves the food and exercise catalogs
type CatalogService struct {
	db *gorm.DB
}

// Ensure CatalogService implements ICatalogService
var _ ICatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// SearchFoods searches foods by name or group, optionally restricted to a meal type
func (s *CatalogService) SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.ProtocolFood, error) {
	var foods []models.ProtocolFood
	postgres := s.db.Dialector.Name() == "postgres"
	dbQuery := s.db.WithContext(ctx).Limit(clampLimit(limit))

	if mealType != "" {
		if postgres {
			dbQuery = dbQuery.Where("? = ANY(meal_types)", mealType)
		} else {
			dbQuery = dbQuery.Where("meal_types LIKE ?", `%"`+mealType+`"%`)
		}
	}

	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(food_group) LIKE ?", like, like)
	}
	if postgres && query != "" {
		// Keyword matches ranked by embedding distance
		dbQuery = dbQuery.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?, name ASC", Vars: []interface{}{GenerateEmbedding(query)}, WithoutParentheses: true},
		})
	} else {
		dbQuery = dbQuery.Order("name ASC")
	}

	if err := dbQuery.Find(&foods).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search foods", err)
	}
	return foods, nil
}

// GetFoodsByIDs loads the foods a user selected. Unknown ids are ignored.
func (s *CatalogService) GetFoodsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProtocolFood, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var foods []models.ProtocolFood
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&foods).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get foods", err)
	}
	return foods, nil
}

// SaveFood inserts or updates a food by name and refreshes its embedding
func (s *CatalogService) SaveFood(ctx context.Context, food *models.ProtocolFood) error {
	if s.db.Dialector.Name() == "postgres" {
		vec := GenerateEmbedding(food.Name + " " + food.FoodGroup)
		food.Embedding = &vec
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"calories", "protein", "carbs", "fats", "fiber", "food_group", "meal_types", "embedding", "updated_at"}),
	}).Create(food).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "save food", err)
	}
	return nil
}

// ListExercises lists catalog exercises matching filter
func (s *CatalogService) ListExercises(ctx context.Context, filter ExerciseFilter) ([]models.Exercise, error) {
	var exercises []models.Exercise
	dbQuery := s.db.WithContext(ctx).Limit(clampLimit(filter.Limit)).Order("name ASC")
	if filter.Type != "" {
		dbQuery = dbQuery.Where("exercise_type = ?", filter.Type)
	}
	if filter.ExcludeType != "" {
		dbQuery = dbQuery.Where("exercise_type <> ?", filter.ExcludeType)
	}
	if filter.MuscleGroup != "" {
		dbQuery = dbQuery.Where("LOWER(muscle_group) = ?", strings.ToLower(filter.MuscleGroup))
	}
	if filter.Equipment != "" {
		dbQuery = dbQuery.Where("LOWER(equipment) = ?", strings.ToLower(filter.Equipment))
	}
	if err := dbQuery.Find(&exercises).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list exercises", err)
	}
	return exercises, nil
}

// GetExercisesByIDs loads exercises by id. Unknown ids are ignored.
func (s *CatalogService) GetExercisesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var exercises []models.Exercise
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&exercises).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get exercises", err)
	}
	return exercises, nil
}

// SaveExercise inserts or updates an exercise by name
func (s *CatalogService) SaveExercise(ctx context.Context, exercise *models.Exercise) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"muscle_group", "equipment", "exercise_type", "difficulty", "description", "updated_at"}),
	}).Create(exercise).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "save exercise", err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultCatalogLimit
	}
	if limit > maxCatalogLimit {
		return maxCatalogLimit
	}
	return limit
}
