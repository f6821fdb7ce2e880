package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/nutrition"
	"github.com/nandoesporte/gut59/backend/internal/plan"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

const (
	defaultPlanListLimit = 10
	maxPlanListLimit     = 50
	catalogPromptLimit   = 30
)

// StoredPlan is a persisted plan of any type as returned to clients
type StoredPlan struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	PlanType    models.PlanType `json:"plan_type"`
	PlanData    models.JSONDoc  `json:"plan_data"`
	Inputs      models.JSONDoc  `json:"inputs,omitempty"`
	Headline    string          `json:"headline"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// MealPlan decodes the document of a nutrition plan
func (p *StoredPlan) MealPlan() (*plan.MealPlan, error) {
	return plan.DecodeMealPlan(p.PlanData)
}

// WorkoutPlan decodes the document of a training plan
func (p *StoredPlan) WorkoutPlan() (*plan.WorkoutPlan, error) {
	return plan.DecodeWorkoutPlan(p.PlanData)
}

// PhysioPlan decodes the document of a rehabilitation plan
func (p *StoredPlan) PhysioPlan() (*plan.PhysioPlan, error) {
	return plan.DecodePhysioPlan(p.PlanData)
}

var rewardForPlan = map[models.PlanType]models.TransactionType{
	models.PlanNutrition: models.TxMealPlan,
	models.PlanWorkout:   models.TxWorkoutPlan,
	models.PlanPhysio:    models.TxPhysioPlan,
}

var readyTitles = map[models.PlanType]string{
	models.PlanNutrition: "Seu plano alimentar está pronto",
	models.PlanWorkout:   "Seu plano de treino está pronto",
	models.PlanPhysio:    "Seu plano de reabilitação está pronto",
}

// PlanService runs the generation pipeline and serves stored plans
type PlanService struct {
	db        *gorm.DB
	access    IAccessService
	generator IPlanGenerator
	catalog   ICatalogService
	wallet    IWalletService
	notifier  INotificationService
	now       func() time.Time
}

// Ensure PlanService implements IPlanService
var _ IPlanService = (*PlanService)(nil)

// NewPlanService creates a new PlanService instance.
// wallet and notifier may be nil, in which case rewards and notifications are skipped.
func NewPlanService(db *gorm.DB, access IAccessService, generator IPlanGenerator, catalog ICatalogService, wallet IWalletService, notifier INotificationService) *PlanService {
	return &PlanService{
		db:        db,
		access:    access,
		generator: generator,
		catalog:   catalog,
		wallet:    wallet,
		notifier:  notifier,
		now:       time.Now,
	}
}

// GenerateMealPlan computes targets, gates, generates, repairs and stores a nutrition plan
func (s *PlanService) GenerateMealPlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*StoredPlan, error) {
	const op = "generate meal plan"
	log := logging.Component(ctx, "plans").WithFields(logrus.Fields{"user_id": userID, "plan_type": models.PlanNutrition})

	calories, err := nutrition.Calculate(anthropometrics(req))
	if err != nil {
		return nil, err
	}

	decision, err := s.gate(ctx, op, userID, models.PlanNutrition)
	if err != nil {
		return nil, err
	}

	var foods []models.ProtocolFood
	if len(req.SelectedFoods) > 0 && s.catalog != nil {
		foods, err = s.catalog.GetFoodsByIDs(ctx, req.SelectedFoods)
		if err != nil {
			return nil, err
		}
	}

	generated, err := s.generator.GenerateMealPlan(ctx, MealPlanInput{Request: req, Calories: calories, Foods: foods})
	if err != nil {
		return nil, err
	}
	if plan.AddSaladsToMeals(generated) {
		log.Debug("added salads to meal plan")
	}

	data, err := models.NewJSONDoc(generated)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	inputs, err := models.NewJSONDoc(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	row := &models.MealPlan{
		UserID:        userID,
		PlanData:      data,
		Inputs:        inputs,
		DailyCalories: calories.DailyCalories,
		GeneratedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Wrapf(apperr.KindInternal, op, err, "failed to save meal plan")
	}

	if _, err := s.saveNutritionPreferences(ctx, userID, req, calories.DailyCalories); err != nil {
		log.WithError(err).Warn("failed to save nutrition preferences")
	}

	stored := mealToStored(row)
	s.afterGeneration(ctx, userID, models.PlanNutrition, decision)
	log.WithField("plan_id", row.ID).Info("meal plan generated")
	return stored, nil
}

// GenerateWorkoutPlan gates, generates and stores a training plan
func (s *PlanService) GenerateWorkoutPlan(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*StoredPlan, error) {
	const op = "generate workout plan"
	log := logging.Component(ctx, "plans").WithFields(logrus.Fields{"user_id": userID, "plan_type": models.PlanWorkout})

	if err := validateWorkoutRequest(req); err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, op, err.Error())
	}

	decision, err := s.gate(ctx, op, userID, models.PlanWorkout)
	if err != nil {
		return nil, err
	}

	exercises := s.catalogExercises(ctx, ExerciseFilter{Limit: catalogPromptLimit, ExcludeType: models.ExercisePhysio})
	generated, err := s.generator.GenerateWorkoutPlan(ctx, WorkoutPlanInput{Request: req, Exercises: exercises})
	if err != nil {
		return nil, err
	}
	if generated.Goal == "" {
		generated.Goal = req.Goal
	}

	data, err := models.NewJSONDoc(generated)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	inputs, err := models.NewJSONDoc(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	row := &models.WorkoutPlan{
		UserID:      userID,
		PlanData:    data,
		Inputs:      inputs,
		Goal:        req.Goal,
		GeneratedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Wrapf(apperr.KindInternal, op, err, "failed to save workout plan")
	}

	if _, err := s.SaveWorkoutPreferences(ctx, userID, req); err != nil {
		log.WithError(err).Warn("failed to save workout preferences")
	}

	stored := workoutToStored(row)
	s.afterGeneration(ctx, userID, models.PlanWorkout, decision)
	log.WithFields(logrus.Fields{"plan_id": row.ID, "exercises": generated.ExerciseCount()}).Info("workout plan generated")
	return stored, nil
}

// GeneratePhysioPlan gates, generates and stores a rehabilitation plan
func (s *PlanService) GeneratePhysioPlan(ctx context.Context, userID uuid.UUID, req *types.PhysioPlanRequest) (*StoredPlan, error) {
	const op = "generate physio plan"
	log := logging.Component(ctx, "plans").WithFields(logrus.Fields{"user_id": userID, "plan_type": models.PlanPhysio})

	if req.Condition == "" {
		return nil, apperr.New(apperr.KindInvalidInput, op, "condition is required")
	}
	if req.PainLevel < 0 || req.PainLevel > 10 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "pain level must be between 0 and 10")
	}

	decision, err := s.gate(ctx, op, userID, models.PlanPhysio)
	if err != nil {
		return nil, err
	}

	exercises := s.catalogExercises(ctx, ExerciseFilter{Type: models.ExercisePhysio, Limit: catalogPromptLimit})
	generated, err := s.generator.GeneratePhysioPlan(ctx, PhysioPlanInput{Request: req, Exercises: exercises})
	if err != nil {
		return nil, err
	}

	data, err := models.NewJSONDoc(generated)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	inputs, err := models.NewJSONDoc(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	row := &models.PhysioPlan{
		UserID:      userID,
		PlanData:    data,
		Inputs:      inputs,
		Condition:   req.Condition,
		GeneratedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.Wrapf(apperr.KindInternal, op, err, "failed to save physio plan")
	}

	stored := physioToStored(row)
	s.afterGeneration(ctx, userID, models.PlanPhysio, decision)
	log.WithField("plan_id", row.ID).Info("physio plan generated")
	return stored, nil
}

func (s *PlanService) gate(ctx context.Context, op string, userID uuid.UUID, planType models.PlanType) (AccessDecision, error) {
	decision := s.access.CheckAccess(ctx, userID, planType)
	if !decision.HasAccess {
		return decision, apperr.New(apperr.KindPaymentRequired, op, "payment required").
			WithDetail("plan_type", planType).
			WithDetail("price", decision.Price)
	}
	return decision, nil
}

// afterGeneration applies the side effects that follow a stored plan. None of them fail the generation.
func (s *PlanService) afterGeneration(ctx context.Context, userID uuid.UUID, planType models.PlanType, decision AccessDecision) {
	log := logging.Component(ctx, "plans").WithFields(logrus.Fields{"user_id": userID, "plan_type": planType})

	if err := s.access.IncrementGenerationCount(ctx, userID, planType); err != nil {
		log.WithError(err).Error("failed to increment generation count")
	}
	if decision.UsesGrant {
		if err := s.access.ConsumeGrant(ctx, userID, planType); err != nil {
			log.WithError(err).Error("failed to consume access grant")
		}
	}
	if s.wallet != nil {
		if _, err := s.wallet.Reward(ctx, userID, rewardForPlan[planType]); err != nil {
			log.WithError(err).Warn("failed to reward plan generation")
		}
	}
	if s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, userID, models.NotificationPlanReady, readyTitles[planType], ""); err != nil {
			log.WithError(err).Warn("failed to publish plan notification")
		}
	}
}

func (s *PlanService) catalogExercises(ctx context.Context, filter ExerciseFilter) []models.Exercise {
	if s.catalog == nil {
		return nil
	}
	exercises, err := s.catalog.ListExercises(ctx, filter)
	if err != nil {
		logging.Component(ctx, "plans").WithError(err).Warn("failed to load exercise catalog")
		return nil
	}
	return exercises
}

// LatestPlan returns the newest plan of planType for userID
func (s *PlanService) LatestPlan(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*StoredPlan, error) {
	plans, err := s.ListPlans(ctx, userID, planType, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "latest plan", "no plan generated yet")
	}
	return &plans[0], nil
}

// ListPlans returns the user's plans of planType, newest first
func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID, planType models.PlanType, limit int) ([]StoredPlan, error) {
	const op = "list plans"
	if limit <= 0 {
		limit = defaultPlanListLimit
	}
	if limit > maxPlanListLimit {
		limit = maxPlanListLimit
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("generated_at DESC").Limit(limit)

	var out []StoredPlan
	switch planType {
	case models.PlanNutrition:
		var rows []models.MealPlan
		if err := q.Find(&rows).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		for i := range rows {
			out = append(out, *mealToStored(&rows[i]))
		}
	case models.PlanWorkout:
		var rows []models.WorkoutPlan
		if err := q.Find(&rows).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		for i := range rows {
			out = append(out, *workoutToStored(&rows[i]))
		}
	case models.PlanPhysio:
		var rows []models.PhysioPlan
		if err := q.Find(&rows).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		for i := range rows {
			out = append(out, *physioToStored(&rows[i]))
		}
	default:
		return nil, apperr.New(apperr.KindInvalidInput, op, "unknown plan type")
	}
	return out, nil
}

// GetPlan returns one plan owned by userID
func (s *PlanService) GetPlan(ctx context.Context, userID uuid.UUID, planType models.PlanType, id uuid.UUID) (*StoredPlan, error) {
	const op = "get plan"
	row, err := planModel(planType)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, op, "plan not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	switch r := row.(type) {
	case *models.MealPlan:
		return mealToStored(r), nil
	case *models.WorkoutPlan:
		return workoutToStored(r), nil
	default:
		return physioToStored(r.(*models.PhysioPlan)), nil
	}
}

// DeletePlan removes one plan owned by userID
func (s *PlanService) DeletePlan(ctx context.Context, userID uuid.UUID, planType models.PlanType, id uuid.UUID) error {
	const op = "delete plan"
	row, err := planModel(planType)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(row)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindInternal, op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, op, "plan not found")
	}
	return nil
}

func planModel(planType models.PlanType) (interface{}, error) {
	switch planType {
	case models.PlanNutrition:
		return &models.MealPlan{}, nil
	case models.PlanWorkout:
		return &models.WorkoutPlan{}, nil
	case models.PlanPhysio:
		return &models.PhysioPlan{}, nil
	}
	return nil, apperr.New(apperr.KindInvalidInput, "plan model", "unknown plan type")
}

// GetNutritionPreferences returns the last submitted nutrition form
func (s *PlanService) GetNutritionPreferences(ctx context.Context, userID uuid.UUID) (*models.NutritionPreference, error) {
	var pref models.NutritionPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "get nutrition preferences", "no nutrition preferences saved")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get nutrition preferences", err)
	}
	return &pref, nil
}

// SaveNutritionPreferences stores the nutrition form without generating a plan
func (s *PlanService) SaveNutritionPreferences(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*models.NutritionPreference, error) {
	calories, err := nutrition.Calculate(anthropometrics(req))
	if err != nil {
		return nil, err
	}
	return s.saveNutritionPreferences(ctx, userID, req, calories.DailyCalories)
}

func (s *PlanService) saveNutritionPreferences(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest, dailyCalories int) (*models.NutritionPreference, error) {
	const op = "save nutrition preferences"
	db := s.db.WithContext(ctx)

	var pref models.NutritionPreference
	err := db.Where("user_id = ?", userID).First(&pref).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	pref.UserID = userID
	pref.Weight = req.Weight
	pref.Height = req.Height
	pref.Age = req.Age
	pref.Gender = req.Gender
	pref.ActivityLevel = req.ActivityLevel
	pref.Goal = req.Goal
	pref.DietaryRestrictions = models.StringList(req.DietaryRestrictions)
	pref.Allergies = models.StringList(req.Allergies)
	pref.SelectedFoods = make(models.StringList, 0, len(req.SelectedFoods))
	for _, id := range req.SelectedFoods {
		pref.SelectedFoods = append(pref.SelectedFoods, id.String())
	}
	pref.TrainingTime = req.TrainingTime
	pref.DailyCalories = dailyCalories

	if err := db.Save(&pref).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return &pref, nil
}

// GetWorkoutPreferences returns the last submitted workout form
func (s *PlanService) GetWorkoutPreferences(ctx context.Context, userID uuid.UUID) (*models.WorkoutPreference, error) {
	var pref models.WorkoutPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "get workout preferences", "no workout preferences saved")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get workout preferences", err)
	}
	return &pref, nil
}

// SaveWorkoutPreferences stores the workout form
func (s *PlanService) SaveWorkoutPreferences(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*models.WorkoutPreference, error) {
	const op = "save workout preferences"
	if err := validateWorkoutRequest(req); err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, op, err.Error())
	}
	db := s.db.WithContext(ctx)

	var pref models.WorkoutPreference
	err := db.Where("user_id = ?", userID).First(&pref).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	pref.UserID = userID
	pref.Age = req.Age
	pref.Weight = req.Weight
	pref.Height = req.Height
	pref.Gender = req.Gender
	pref.Goal = req.Goal
	pref.ActivityLevel = req.ActivityLevel
	pref.PreferredExercises = models.StringList(req.PreferredExercises)
	pref.AvailableEquipment = models.StringList(req.AvailableEquipment)
	pref.TrainingLocation = req.TrainingLocation
	pref.HealthConditions = models.StringList(req.HealthConditions)
	pref.DaysPerWeek = req.DaysPerWeek
	if pref.DaysPerWeek == 0 {
		pref.DaysPerWeek = 3
	}
	pref.SessionMinutes = req.SessionMinutes
	if pref.SessionMinutes == 0 {
		pref.SessionMinutes = 60
	}

	if err := db.Save(&pref).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return &pref, nil
}

func validateWorkoutRequest(req *types.WorkoutPlanRequest) error {
	switch {
	case req.Age <= 0:
		return errors.New("age must be positive")
	case req.Weight <= 0 || req.Height <= 0:
		return errors.New("weight and height must be positive")
	case req.Goal == "":
		return errors.New("goal is required")
	case req.DaysPerWeek < 0 || req.DaysPerWeek > 7:
		return errors.New("days per week must be between 1 and 7")
	}
	return nil
}

func anthropometrics(req *types.MealPlanRequest) nutrition.Anthropometrics {
	return nutrition.Anthropometrics{
		WeightKg:      req.Weight,
		HeightCm:      req.Height,
		Age:           req.Age,
		Gender:        nutrition.Gender(req.Gender),
		ActivityLevel: nutrition.ActivityLevel(req.ActivityLevel),
		Goal:          nutrition.Goal(req.Goal),
	}
}

func mealToStored(row *models.MealPlan) *StoredPlan {
	return &StoredPlan{
		ID:          row.ID,
		UserID:      row.UserID,
		PlanType:    models.PlanNutrition,
		PlanData:    row.PlanData,
		Inputs:      row.Inputs,
		Headline:    fmt.Sprintf("%d kcal/dia", row.DailyCalories),
		GeneratedAt: row.GeneratedAt,
	}
}

func workoutToStored(row *models.WorkoutPlan) *StoredPlan {
	return &StoredPlan{
		ID:          row.ID,
		UserID:      row.UserID,
		PlanType:    models.PlanWorkout,
		PlanData:    row.PlanData,
		Inputs:      row.Inputs,
		Headline:    row.Goal,
		GeneratedAt: row.GeneratedAt,
	}
}

func physioToStored(row *models.PhysioPlan) *StoredPlan {
	return &StoredPlan{
		ID:          row.ID,
		UserID:      row.UserID,
		PlanType:    models.PlanPhysio,
		PlanData:    row.PlanData,
		Inputs:      row.Inputs,
		Headline:    row.Condition,
		GeneratedAt: row.GeneratedAt,
	}
}
