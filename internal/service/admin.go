package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// AdminUser is a user row of the admin panel
type AdminUser struct {
	ID               uuid.UUID               `json:"id"`
	Name             string                  `json:"name"`
	Email            string                  `json:"email"`
	IsAdmin          bool                    `json:"is_admin"`
	CreatedAt        time.Time               `json:"created_at"`
	GenerationCounts map[models.PlanType]int `json:"generation_counts"`
}

// AdminService backs the admin panel
type AdminService struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure AdminService implements IAdminService
var _ IAdminService = (*AdminService)(nil)

// NewAdminService creates a new AdminService instance
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db, now: time.Now}
}

// IsAdmin reports whether the user's profile carries the admin flag
func (s *AdminService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "check admin", err)
	}
	return profile.IsAdmin, nil
}

// ListUsers pages through users with their generation counters
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]AdminUser, error) {
	const op = "list users"
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at DESC").Limit(clampLimit(limit)).Offset(max(offset, 0)).Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	if len(users) == 0 {
		return []AdminUser{}, nil
	}
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var profiles []models.UserProfile
	if err := db.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	admins := make(map[uuid.UUID]bool, len(profiles))
	for _, p := range profiles {
		admins[p.UserID] = p.IsAdmin
	}

	var counters []models.PlanGenerationCount
	if err := db.Where("user_id IN ?", ids).Find(&counters).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	counts := make(map[uuid.UUID]models.PlanGenerationCount, len(counters))
	for _, c := range counters {
		counts[c.UserID] = c
	}

	out := make([]AdminUser, len(users))
	for i, u := range users {
		c := counts[u.ID]
		out[i] = AdminUser{
			ID:               u.ID,
			Name:             u.Name,
			Email:            u.Email,
			IsAdmin:          admins[u.ID],
			CreatedAt:        u.CreatedAt,
			GenerationCounts: make(map[models.PlanType]int, len(models.PlanTypes)),
		}
		for _, t := range models.PlanTypes {
			out[i].GenerationCounts[t] = c.Count(t)
		}
	}
	return out, nil
}

// ResetGenerationCount zeroes the user's counter for planType
func (s *AdminService) ResetGenerationCount(ctx context.Context, userID uuid.UUID, planType models.PlanType) error {
	const op = "reset generation count"
	if !planType.Valid() {
		return apperr.New(apperr.KindInvalidInput, op, "unknown plan type")
	}
	err := s.db.WithContext(ctx).Model(&models.PlanGenerationCount{}).
		Where("user_id = ?", userID).
		Update(models.CountColumn(planType), 0).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
	logging.Component(ctx, "admin").WithFields(logrus.Fields{
		"user_id":   userID,
		"plan_type": planType,
	}).Info("generation count reset")
	return nil
}

// GetPaymentSettings returns the settings of every plan type
func (s *AdminService) GetPaymentSettings(ctx context.Context) ([]models.PaymentSettings, error) {
	var settings []models.PaymentSettings
	if err := s.db.WithContext(ctx).Order("plan_type ASC").Find(&settings).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get payment settings", err)
	}
	return settings, nil
}

// UpdatePaymentSettings changes price or paywall switch, creating the row when missing
func (s *AdminService) UpdatePaymentSettings(ctx context.Context, req *types.PaymentSettingsUpdate) (*models.PaymentSettings, error) {
	const op = "update payment settings"
	planType := models.PlanType(req.PlanType)
	if !planType.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, op, "unknown plan type")
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "price must not be negative")
	}
	db := s.db.WithContext(ctx)

	var settings models.PaymentSettings
	err := db.Where("plan_type = ?", planType).First(&settings).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = models.PaymentSettings{PlanType: planType, Price: DefaultPrice, IsActive: true}
	case err != nil:
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	if req.Price != nil {
		settings.Price = *req.Price
	}
	if req.IsActive != nil {
		settings.IsActive = *req.IsActive
	}
	// explicit columns so a false is_active is written
	if settings.ID == uuid.Nil {
		active := settings.IsActive
		if err = db.Create(&settings).Error; err == nil && !active {
			err = db.Model(&settings).Update("is_active", false).Error
		}
	} else {
		err = db.Model(&settings).Select("price", "is_active", "updated_at").Updates(&settings).Error
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return &settings, nil
}

// CreateGrant gives a user payment-free access to a plan type
func (s *AdminService) CreateGrant(ctx context.Context, req *types.GrantRequest) (*models.PlanAccessGrant, error) {
	const op = "create grant"
	planType := models.PlanType(req.PlanType)
	if !planType.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, op, "unknown plan type")
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, apperr.New(apperr.KindInvalidInput, op, "expiry must be in the future")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", req.UserID).Count(&count).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	if count == 0 {
		return nil, apperr.New(apperr.KindNotFound, op, "user not found")
	}

	grant := &models.PlanAccessGrant{
		UserID:          req.UserID,
		PlanType:        planType,
		IsActive:        true,
		PaymentRequired: false,
		SingleUse:       req.SingleUse,
		ExpiresAt:       req.ExpiresAt,
		Source:          models.GrantSourceAdmin,
	}
	if err := s.db.WithContext(ctx).Create(grant).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return grant, nil
}

// RevokeGrant deactivates a grant
func (s *AdminService) RevokeGrant(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.PlanAccessGrant{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "revoke grant", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "revoke grant", "grant not found")
	}
	return nil
}

// ListPayments lists payment records of every user, optionally by status
func (s *AdminService) ListPayments(ctx context.Context, status string, limit int) ([]models.PaymentRecord, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(clampLimit(limit))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var records []models.PaymentRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list payments", err)
	}
	return records, nil
}
