package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// MoodSummary aggregates mood entries over a window of days
type MoodSummary struct {
	Days        int     `json:"days"`
	Count       int     `json:"count"`
	AverageMood float64 `json:"average_mood"`
	TopEmotion  string  `json:"top_emotion,omitempty"`
}

// BreathingResult is a recorded session plus the reward it earned, if any
type BreathingResult struct {
	Session *models.BreathingSession  `json:"session"`
	Reward  *models.WalletTransaction `json:"reward,omitempty"`
}

// MentalHealthService tracks mood logs and breathing sessions
type MentalHealthService struct {
	db     *gorm.DB
	wallet IWalletService
	now    func() time.Time
}

// Ensure MentalHealthService implements IMentalHealthService
var _ IMentalHealthService = (*MentalHealthService)(nil)

// NewMentalHealthService creates a new MentalHealthService instance
func NewMentalHealthService(db *gorm.DB, wallet IWalletService) *MentalHealthService {
	return &MentalHealthService{db: db, wallet: wallet, now: time.Now}
}

// RecordMood stores a mood entry
func (s *MentalHealthService) RecordMood(ctx context.Context, userID uuid.UUID, req *types.MoodRequest) (*models.MoodEntry, error) {
	const op = "record mood"
	if req.Mood < 1 || req.Mood > 5 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "mood must be between 1 and 5")
	}
	entry := &models.MoodEntry{
		UserID:     userID,
		Mood:       req.Mood,
		Emotion:    strings.ToLower(strings.TrimSpace(req.Emotion)),
		Notes:      req.Notes,
		RecordedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return entry, nil
}

// ListMoods returns entries recorded in [from, to], newest first. Zero bounds are open.
func (s *MentalHealthService) ListMoods(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.MoodEntry, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("recorded_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("recorded_at <= ?", to)
	}
	var entries []models.MoodEntry
	if err := q.Order("recorded_at DESC").Find(&entries).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list moods", err)
	}
	return entries, nil
}

// MoodSummary averages the last days of entries and picks the most frequent emotion
func (s *MentalHealthService) MoodSummary(ctx context.Context, userID uuid.UUID, days int) (*MoodSummary, error) {
	if days <= 0 {
		days = 7
	}
	entries, err := s.ListMoods(ctx, userID, s.now().AddDate(0, 0, -days), time.Time{})
	if err != nil {
		return nil, err
	}
	summary := &MoodSummary{Days: days, Count: len(entries)}
	if len(entries) == 0 {
		return summary, nil
	}

	total := 0
	counts := map[string]int{}
	for _, e := range entries {
		total += e.Mood
		if e.Emotion != "" {
			counts[e.Emotion]++
		}
	}
	summary.AverageMood = math.Round(float64(total)/float64(len(entries))*10) / 10
	best := 0
	for emotion, n := range counts {
		// ties resolve alphabetically
		if n > best || (n == best && emotion < summary.TopEmotion) {
			best = n
			summary.TopEmotion = emotion
		}
	}
	return summary, nil
}

// CompleteBreathing records a session and credits the breathing reward.
// Reward failures, including the daily cap, leave the session recorded.
func (s *MentalHealthService) CompleteBreathing(ctx context.Context, userID uuid.UUID, req *types.BreathingRequest) (*BreathingResult, error) {
	const op = "complete breathing"
	if strings.TrimSpace(req.Technique) == "" || req.DurationSeconds <= 0 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "technique and a positive duration are required")
	}
	session := &models.BreathingSession{
		UserID:          userID,
		Technique:       req.Technique,
		DurationSeconds: req.DurationSeconds,
		CompletedAt:     s.now(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	result := &BreathingResult{Session: session}
	if s.wallet != nil {
		reward, err := s.wallet.Reward(ctx, userID, models.TxBreathingExercise)
		if err != nil {
			logging.Component(ctx, "mental").WithError(err).Info("breathing reward not credited")
		} else {
			result.Reward = reward
		}
	}
	return result, nil
}
