package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
)

const subscriberBuffer = 16

// NotificationChannel is the pub/sub channel carrying userID's notifications
func NotificationChannel(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// NotificationService persists notifications and fans them out over redis pub/sub
type NotificationService struct {
	db    *gorm.DB
	redis *redis.Client
	now   func() time.Time
}

// Ensure NotificationService implements INotificationService
var _ INotificationService = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService instance.
// Without a redis client notifications are stored but not pushed.
func NewNotificationService(db *gorm.DB, rdb *redis.Client) *NotificationService {
	return &NotificationService{db: db, redis: rdb, now: time.Now}
}

// Notify stores a notification and publishes it to live subscribers
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string) (*models.Notification, error) {
	const op = "notify"
	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	if s.redis != nil {
		payload, err := json.Marshal(n)
		if err != nil {
			return n, apperr.Wrap(apperr.KindInternal, op, err)
		}
		if err := s.redis.Publish(ctx, NotificationChannel(userID), payload).Err(); err != nil {
			logging.Component(ctx, "notifications").WithError(err).Warn("failed to publish notification")
		}
	}
	return n, nil
}

// Subscribe streams userID's notifications until ctx ends or the returned cancel func is called
func (s *NotificationService) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan models.Notification, func(), error) {
	const op = "subscribe notifications"
	if s.redis == nil {
		return nil, nil, apperr.New(apperr.KindUnavailable, op, "notification stream unavailable")
	}

	pubsub := s.redis.Subscribe(ctx, NotificationChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, apperr.Wrapf(apperr.KindUnavailable, op, err, "failed to subscribe")
	}

	out := make(chan models.Notification, subscriberBuffer)
	done := make(chan struct{})
	log := logging.Component(ctx, "notifications").WithField("user_id", userID)

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var n models.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					log.WithError(err).Warn("dropping malformed notification")
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return out, cancel, nil
}

// List returns the newest notifications of userID
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	var list []models.Notification
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if err := q.Order("created_at DESC").Limit(clampLimit(limit)).Find(&list).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list notifications", err)
	}
	return list, nil
}

// MarkRead stamps a notification of userID as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	const op = "mark notification read"
	var n models.Notification
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, op, "notification not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
	if n.ReadAt != nil {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&n).Update("read_at", s.now()).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
	return nil
}
