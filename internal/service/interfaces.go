package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/plan"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	GetProfileHistory(ctx context.Context, userID uuid.UUID, field string, limit int) ([]models.ProfileHistory, error)
}

// IAccessService decides whether a user may generate a plan
type IAccessService interface {
	CheckAccess(ctx context.Context, userID uuid.UUID, planType models.PlanType) AccessDecision
	IncrementGenerationCount(ctx context.Context, userID uuid.UUID, planType models.PlanType) error
	ConsumeGrant(ctx context.Context, userID uuid.UUID, planType models.PlanType) error
}

// ILLMClient sends one chat completion and returns the message content
type ILLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// IPlanGenerator turns collected inputs into typed plan documents
type IPlanGenerator interface {
	GenerateMealPlan(ctx context.Context, in MealPlanInput) (*plan.MealPlan, error)
	GenerateWorkoutPlan(ctx context.Context, in WorkoutPlanInput) (*plan.WorkoutPlan, error)
	GeneratePhysioPlan(ctx context.Context, in PhysioPlanInput) (*plan.PhysioPlan, error)
}

// IPlanService orchestrates generation, persistence and retrieval of plans
type IPlanService interface {
	GenerateMealPlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*StoredPlan, error)
	GenerateWorkoutPlan(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*StoredPlan, error)
	GeneratePhysioPlan(ctx context.Context, userID uuid.UUID, req *types.PhysioPlanRequest) (*StoredPlan, error)
	LatestPlan(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*StoredPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID, planType models.PlanType, limit int) ([]StoredPlan, error)
	GetPlan(ctx context.Context, userID uuid.UUID, planType models.PlanType, id uuid.UUID) (*StoredPlan, error)
	DeletePlan(ctx context.Context, userID uuid.UUID, planType models.PlanType, id uuid.UUID) error
	GetNutritionPreferences(ctx context.Context, userID uuid.UUID) (*models.NutritionPreference, error)
	SaveNutritionPreferences(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*models.NutritionPreference, error)
	GetWorkoutPreferences(ctx context.Context, userID uuid.UUID) (*models.WorkoutPreference, error)
	SaveWorkoutPreferences(ctx context.Context, userID uuid.UUID, req *types.WorkoutPlanRequest) (*models.WorkoutPreference, error)
}

// IExportService renders stored plans as PDF documents
type IExportService interface {
	RenderPDF(stored *StoredPlan, owner string) ([]byte, error)
	Publish(ctx context.Context, stored *StoredPlan, pdf []byte) (string, error)
}

// IObjectStore uploads exports and hands out temporary links
type IObjectStore interface {
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// IPaymentProvider is the remote checkout provider
type IPaymentProvider interface {
	CreatePreference(ctx context.Context, item CheckoutItem) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*ProviderPayment, error)
	SearchByReference(ctx context.Context, externalReference string) (*ProviderPayment, error)
}

// IPaymentService runs checkouts and applies their outcome
type IPaymentService interface {
	StartCheckout(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*types.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, n *types.WebhookNotification) error
	CheckStatus(ctx context.Context, userID, paymentID uuid.UUID) (*models.PaymentRecord, error)
	CancelWatch(ctx context.Context, userID, paymentID uuid.UUID) error
	ListPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentRecord, error)
	Shutdown()
}

// INotificationService persists and pushes user notifications
type INotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string) (*models.Notification, error)
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan models.Notification, func(), error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

// IWalletService manages the FIT ledger
type IWalletService interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error)
	Reward(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error)
	Claim(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error)
	Transfer(ctx context.Context, fromUserID uuid.UUID, recipientEmail string, amount int64, description string) (*models.WalletTransaction, error)
}

// IMentalHealthService tracks mood and breathing sessions
type IMentalHealthService interface {
	RecordMood(ctx context.Context, userID uuid.UUID, req *types.MoodRequest) (*models.MoodEntry, error)
	ListMoods(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.MoodEntry, error)
	MoodSummary(ctx context.Context, userID uuid.UUID, days int) (*MoodSummary, error)
	CompleteBreathing(ctx context.Context, userID uuid.UUID, req *types.BreathingRequest) (*BreathingResult, error)
}

// ICatalogService serves the food and exercise catalogs
type ICatalogService interface {
	SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.ProtocolFood, error)
	GetFoodsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProtocolFood, error)
	ListExercises(ctx context.Context, filter ExerciseFilter) ([]models.Exercise, error)
	GetExercisesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Exercise, error)
}

// IAdminService backs the admin panel
type IAdminService interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]AdminUser, error)
	ResetGenerationCount(ctx context.Context, userID uuid.UUID, planType models.PlanType) error
	GetPaymentSettings(ctx context.Context) ([]models.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, req *types.PaymentSettingsUpdate) (*models.PaymentSettings, error)
	CreateGrant(ctx context.Context, req *types.GrantRequest) (*models.PlanAccessGrant, error)
	RevokeGrant(ctx context.Context, id uuid.UUID) error
	ListPayments(ctx context.Context, status string, limit int) ([]models.PaymentRecord, error)
}
