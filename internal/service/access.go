package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
)

const (
	// FreeGenerations is how many plans of each type a user may generate without paying
	FreeGenerations = 3
	// DefaultPrice applies when no settings row exists or it cannot be read (R$)
	DefaultPrice = 19.90
)

// AccessDecision is the outcome of the payment gate
type AccessDecision struct {
	HasAccess       bool    `json:"has_access"`
	RequiresPayment bool    `json:"requires_payment"`
	Price           float64 `json:"price"`
	GenerationCount int     `json:"generation_count"`
	FreeRemaining   int     `json:"free_remaining"`
	// UsesGrant is set when access comes from a grant that must be consumed after generation
	UsesGrant bool `json:"-"`
}

func paymentRequired(price float64) AccessDecision {
	return AccessDecision{HasAccess: false, RequiresPayment: true, Price: price}
}

// AccessService implements the generation paywall
type AccessService struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure AccessService implements IAccessService
var _ IAccessService = (*AccessService)(nil)

// NewAccessService creates a new AccessService instance
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db, now: time.Now}
}

// CheckAccess decides whether userID may generate a plan of planType.
// Any read failure yields the conservative payment-required answer at the default price.
func (s *AccessService) CheckAccess(ctx context.Context, userID uuid.UUID, planType models.PlanType) AccessDecision {
	log := logging.Component(ctx, "access").WithFields(logrus.Fields{
		"user_id":   userID,
		"plan_type": planType,
	})
	db := s.db.WithContext(ctx)

	price := DefaultPrice
	active := true
	var settings models.PaymentSettings
	err := db.Where("plan_type = ?", planType).First(&settings).Error
	switch {
	case err == nil:
		price = settings.Price
		active = settings.IsActive
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Debug("no payment settings, using default price")
	default:
		log.WithError(err).Error("failed to read payment settings")
		return paymentRequired(DefaultPrice)
	}

	if !active {
		return AccessDecision{HasAccess: true, RequiresPayment: false, Price: price}
	}

	var counter models.PlanGenerationCount
	count := 0
	err = db.Where("user_id = ?", userID).First(&counter).Error
	switch {
	case err == nil:
		count = counter.Count(planType)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.WithError(err).Error("failed to read generation count")
		return paymentRequired(DefaultPrice)
	}

	if count < FreeGenerations {
		return AccessDecision{
			HasAccess:       true,
			RequiresPayment: false,
			Price:           price,
			GenerationCount: count,
			FreeRemaining:   FreeGenerations - count,
		}
	}

	grant, err := s.usableGrant(ctx, userID, planType)
	if err != nil {
		log.WithError(err).Error("failed to read access grants")
		return paymentRequired(DefaultPrice)
	}
	if grant == nil {
		d := paymentRequired(price)
		d.GenerationCount = count
		return d
	}
	return AccessDecision{
		HasAccess:       true,
		RequiresPayment: false,
		Price:           price,
		GenerationCount: count,
		UsesGrant:       grant.SingleUse,
	}
}

func (s *AccessService) usableGrant(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*models.PlanAccessGrant, error) {
	var grants []models.PlanAccessGrant
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND plan_type = ? AND is_active = ? AND payment_required = ?", userID, planType, true, false).
		Order("single_use ASC, created_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range grants {
		if grants[i].Usable(now) {
			return &grants[i], nil
		}
	}
	return nil, nil
}

// IncrementGenerationCount adds one to the user's counter for planType
func (s *AccessService) IncrementGenerationCount(ctx context.Context, userID uuid.UUID, planType models.PlanType) error {
	const op = "increment generation count"
	if !planType.Valid() {
		return apperr.New(apperr.KindInvalidInput, op, "unknown plan type")
	}
	column := models.CountColumn(planType)
	row := models.PlanGenerationCount{UserID: userID}
	row.ID = uuid.New()
	switch planType {
	case models.PlanNutrition:
		row.NutritionCount = 1
	case models.PlanWorkout:
		row.WorkoutCount = 1
	case models.PlanPhysio:
		row.PhysioCount = 1
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: column}, Value: gorm.Expr(column + " + 1")},
			{Column: clause.Column{Name: "updated_at"}, Value: s.now()},
		},
	}).Create(&row).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
	return nil
}

// ConsumeGrant deactivates the oldest usable single-use grant, if any
func (s *AccessService) ConsumeGrant(ctx context.Context, userID uuid.UUID, planType models.PlanType) error {
	var grants []models.PlanAccessGrant
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND plan_type = ? AND is_active = ? AND payment_required = ? AND single_use = ?",
			userID, planType, true, false, true).
		Order("created_at ASC").
		Find(&grants).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "consume grant", err)
	}
	now := s.now()
	for _, g := range grants {
		if !g.Usable(now) {
			continue
		}
		res := s.db.WithContext(ctx).Model(&models.PlanAccessGrant{}).
			Where("id = ? AND is_active = ?", g.ID, true).
			Update("is_active", false)
		if res.Error != nil {
			return apperr.Wrap(apperr.KindInternal, "consume grant", res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return nil
}
