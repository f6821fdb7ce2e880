package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// Fields tracked in the profile history
const (
	HistoryFullName  = "full_name"
	HistoryBirthDate = "birth_date"
	HistoryGender    = "gender"
	HistoryHeight    = "height_cm"
	HistoryWeight    = "weight_kg"
)

var historyFields = map[string]bool{
	HistoryFullName:  true,
	HistoryBirthDate: true,
	HistoryGender:    true,
	HistoryHeight:    true,
	HistoryWeight:    true,
}

// ProfileService handles user profile operations
type ProfileService struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:  db,
		now: time.Now,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	return findProfile(s.db.WithContext(ctx), userID)
}

func findProfile(db *gorm.DB, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "get profile", "profile not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "get profile", err)
	}
	return &profile, nil
}

// UpdateProfile updates the anthropometrics of a user's profile and logs every changed field
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	const op = "update profile"
	if req.HeightCm != nil && *req.HeightCm < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "height must not be negative")
	}
	if req.WeightKg != nil && *req.WeightKg < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "weight must not be negative")
	}

	var profile *models.UserProfile
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = findProfile(tx, userID)
		if err != nil {
			return err
		}

		var changes []models.ProfileHistory
		track := func(field, oldValue, newValue string) {
			if oldValue == newValue {
				return
			}
			changes = append(changes, models.ProfileHistory{
				UserID:    userID,
				Field:     field,
				OldValue:  oldValue,
				NewValue:  newValue,
				ChangedAt: now,
			})
		}

		if req.FullName != nil {
			track(HistoryFullName, profile.FullName, *req.FullName)
			profile.FullName = *req.FullName
		}
		if req.BirthDate != nil {
			track(HistoryBirthDate, formatDate(profile.BirthDate), formatDate(req.BirthDate))
			profile.BirthDate = req.BirthDate
		}
		if req.Gender != nil {
			track(HistoryGender, profile.Gender, *req.Gender)
			profile.Gender = *req.Gender
		}
		if req.HeightCm != nil {
			track(HistoryHeight, formatMeasure(profile.HeightCm), formatMeasure(*req.HeightCm))
			profile.HeightCm = *req.HeightCm
		}
		if req.WeightKg != nil {
			track(HistoryWeight, formatMeasure(profile.WeightKg), formatMeasure(*req.WeightKg))
			profile.WeightKg = *req.WeightKg
		}

		if err := tx.Save(profile).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, op, err)
		}
		if len(changes) > 0 {
			if err := tx.Create(&changes).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, op, err)
			}
			logging.Component(ctx, "profile").
				WithField("user_id", userID).
				WithField("changes", len(changes)).
				Debug("profile history recorded")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileHistory lists the user's profile changes, newest first, optionally for one field
func (s *ProfileService) GetProfileHistory(ctx context.Context, userID uuid.UUID, field string, limit int) ([]models.ProfileHistory, error) {
	const op = "get profile history"
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if field != "" {
		if !historyFields[field] {
			return nil, apperr.New(apperr.KindInvalidInput, op, "unknown profile field")
		}
		q = q.Where("field = ?", field)
	}
	var history []models.ProfileHistory
	if err := q.Order("changed_at DESC").Order("created_at DESC").Limit(clampLimit(limit)).Find(&history).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return history, nil
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
