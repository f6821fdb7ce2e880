package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// MockPaymentService is a mock implementation of the PaymentService interface
type MockPaymentService struct {
	mock.Mock
}

var _ service.IPaymentService = (*MockPaymentService)(nil)

func (m *MockPaymentService) StartCheckout(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*types.CheckoutResponse, error) {
	args := m.Called(ctx, userID, planType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CheckoutResponse), args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, n *types.WebhookNotification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockPaymentService) CheckStatus(ctx context.Context, userID, paymentID uuid.UUID) (*models.PaymentRecord, error) {
	args := m.Called(ctx, userID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRecord), args.Error(1)
}

func (m *MockPaymentService) CancelWatch(ctx context.Context, userID, paymentID uuid.UUID) error {
	return m.Called(ctx, userID, paymentID).Error(0)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentRecord), args.Error(1)
}

func (m *MockPaymentService) Shutdown() {
	m.Called()
}

// MockAccessService is a mock implementation of the AccessService interface
type MockAccessService struct {
	mock.Mock
}

var _ service.IAccessService = (*MockAccessService)(nil)

func (m *MockAccessService) CheckAccess(ctx context.Context, userID uuid.UUID, planType models.PlanType) service.AccessDecision {
	return m.Called(ctx, userID, planType).Get(0).(service.AccessDecision)
}

func (m *MockAccessService) IncrementGenerationCount(ctx context.Context, userID uuid.UUID, planType models.PlanType) error {
	return m.Called(ctx, userID, planType).Error(0)
}

func (m *MockAccessService) ConsumeGrant(ctx context.Context, userID uuid.UUID, planType models.PlanType) error {
	return m.Called(ctx, userID, planType).Error(0)
}
