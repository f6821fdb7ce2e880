package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// MockPlanService is a mock implementation of the PlanService interface
type MockPlanService struct {
	mock.Mock
}

var _ service.IPlanService = (*MockPlanService)(nil)

func (m *MockPlanService) stored(args mock.Arguments) (*service.StoredPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoredPlan), args.Error(1)
}

func (m *MockPlanService) GenerateMealPlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*service.StoredPlan, error) {
	return m.stored(m.Called(ctx, userID, req))
}

func (m *MockPlanService) GenerateWorkoutPlan(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*service.StoredPlan, error) {
	return m.stored(m.Called(ctx, userID, req))
}

func (m *MockPlanService) GeneratePhysioPlan(ctx context.Context, userID uuid.UUID, req *types.PhysioPlanRequest) (*service.StoredPlan, error) {
	return m.stored(m.Called(ctx, userID, req))
}

func (m *MockPlanService) LatestPlan(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*service.StoredPlan, error) {
	return m.stored(m.Called(ctx, userID, planType))
}

func (m *MockPlanService) ListPlans(ctx context.Context, userID uuid.UUID, planType models.PlanType, limit int) ([]service.StoredPlan, error) {
	args := m.Called(ctx, userID, planType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.StoredPlan), args.Error(1)
}

func (m *MockPlanService) GetPlan(ctx context.Context, userID uuid.UUID, planType models.PlanType, id uuid.UUID) (*service.StoredPlan, error) {
	return m.stored(m.Called(ctx, userID, planType, id))
}

func (m *MockPlanService) DeletePlan(ctx context.Context, userID uuid.UUID, planType models.PlanType, id uuid.UUID) error {
	return m.Called(ctx, userID, planType, id).Error(0)
}

func (m *MockPlanService) GetNutritionPreferences(ctx context.Context, userID uuid.UUID) (*models.NutritionPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionPreference), args.Error(1)
}

func (m *MockPlanService) SaveNutritionPreferences(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*models.NutritionPreference, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionPreference), args.Error(1)
}

func (m *MockPlanService) GetWorkoutPreferences(ctx context.Context, userID uuid.UUID) (*models.WorkoutPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkoutPreference), args.Error(1)
}

func (m *MockPlanService) SaveWorkoutPreferences(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*models.WorkoutPreference, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkoutPreference), args.Error(1)
}

// MockExportService is a mock implementation of the ExportService interface
type MockExportService struct {
	mock.Mock
}

var _ service.IExportService = (*MockExportService)(nil)

func (m *MockExportService) RenderPDF(stored *service.StoredPlan, owner string) ([]byte, error) {
	args := m.Called(stored, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExportService) Publish(ctx context.Context, stored *service.StoredPlan, pdf []byte) (string, error) {
	args := m.Called(ctx, stored, pdf)
	return args.String(0), args.Error(1)
}
