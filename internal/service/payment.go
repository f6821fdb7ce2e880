package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/poller"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

const (
	// DefaultPollInterval is how often a pending checkout is checked with the provider
	DefaultPollInterval = 5 * time.Second
	// DefaultPollTimeout is how long a checkout is watched before it expires
	DefaultPollTimeout = 10 * time.Minute
)

var checkoutTitles = map[models.PlanType]string{
	models.PlanNutrition: "Plano alimentar personalizado",
	models.PlanWorkout:   "Plano de treino personalizado",
	models.PlanPhysio:    "Plano de reabilitação personalizado",
}

// ExternalReference builds the provider reference of a checkout
func ExternalReference(planType models.PlanType, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", planType, userID, uuid.NewString())
}

// PaymentService runs checkouts, watches them and applies their outcome
type PaymentService struct {
	db       *gorm.DB
	provider IPaymentProvider
	notifier INotificationService
	watchers *poller.Registry
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
}

// Ensure PaymentService implements IPaymentService
var _ IPaymentService = (*PaymentService)(nil)

// NewPaymentService creates a new PaymentService instance. notifier may be nil.
func NewPaymentService(db *gorm.DB, provider IPaymentProvider, notifier INotificationService, interval, timeout time.Duration) *PaymentService {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PaymentService{
		db:       db,
		provider: provider,
		notifier: notifier,
		watchers: poller.NewRegistry(),
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// StartCheckout creates a pending payment, opens a provider checkout and starts watching it
func (s *PaymentService) StartCheckout(ctx context.Context, userID uuid.UUID, planType models.PlanType) (*types.CheckoutResponse, error) {
	const op = "start checkout"
	if !planType.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, op, "unknown plan type")
	}
	db := s.db.WithContext(ctx)

	price := DefaultPrice
	var settings models.PaymentSettings
	err := db.Where("plan_type = ?", planType).First(&settings).Error
	switch {
	case err == nil:
		if !settings.IsActive {
			return nil, apperr.New(apperr.KindConflict, op, "payment is not required for this plan type")
		}
		price = settings.Price
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, op, "user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	record := &models.PaymentRecord{
		UserID:            userID,
		PlanType:          planType,
		Amount:            price,
		Status:            models.PaymentPending,
		ExternalReference: ExternalReference(planType, userID),
	}
	if err := db.Create(record).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	pref, err := s.provider.CreatePreference(ctx, CheckoutItem{
		Title:             checkoutTitles[planType],
		Amount:            price,
		ExternalReference: record.ExternalReference,
		PayerEmail:        user.Email,
	})
	if err != nil {
		if uerr := db.Model(record).Update("status", models.PaymentCancelled).Error; uerr != nil {
			logging.Component(ctx, "payments").WithError(uerr).Error("failed to cancel checkout record")
		}
		return nil, err
	}

	record.PreferenceID = pref.ID
	record.CheckoutURL = pref.InitPoint
	if err := db.Model(record).Updates(map[string]interface{}{
		"preference_id": pref.ID,
		"checkout_url":  pref.InitPoint,
	}).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	s.watch(ctx, record)
	logging.Component(ctx, "payments").WithFields(logrus.Fields{
		"payment_id": record.ID,
		"plan_type":  planType,
		"amount":     price,
	}).Info("checkout started")

	return &types.CheckoutResponse{
		PaymentID:   record.ID,
		CheckoutURL: pref.InitPoint,
		Amount:      price,
	}, nil
}

// watch polls the provider for record until it settles or times out
func (s *PaymentService) watch(ctx context.Context, record *models.PaymentRecord) {
	entry := logging.FromContext(ctx).WithField("payment_id", record.ID)
	watchCtx := logging.WithLogger(s.baseCtx, entry)
	recordID := record.ID
	reference := record.ExternalReference

	p := poller.New(s.interval, s.timeout, func(ctx context.Context) (bool, error) {
		payment, err := s.provider.SearchByReference(ctx, reference)
		if err != nil {
			logging.Component(ctx, "payments").WithError(err).Warn("payment lookup failed, will retry")
			return false, nil
		}
		if payment == nil {
			return false, nil
		}
		return s.apply(ctx, recordID, payment)
	})
	p.OnTimeout = func(ctx context.Context) {
		res := s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
			Where("id = ? AND status = ?", recordID, models.PaymentPending).
			Update("status", models.PaymentExpired)
		if res.Error != nil {
			logging.Component(ctx, "payments").WithError(res.Error).Error("failed to expire payment")
			return
		}
		if res.RowsAffected == 1 {
			logging.Component(ctx, "payments").Info("payment expired")
		}
	}
	s.watchers.Start(watchCtx, recordID.String(), p)
}

// apply moves the record to the provider's status and runs the side effects once.
// It reports whether the record reached a final status.
func (s *PaymentService) apply(ctx context.Context, recordID uuid.UUID, payment *ProviderPayment) (bool, error) {
	const op = "apply payment status"
	status := payment.LocalStatus()
	if status == models.PaymentPending {
		return false, nil
	}
	log := logging.Component(ctx, "payments").WithFields(logrus.Fields{
		"payment_id":          recordID,
		"provider_payment_id": payment.ID,
		"status":              status,
	})

	var record models.PaymentRecord
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// approvals also settle records that expired while the user was still paying
		from := []models.PaymentStatus{models.PaymentPending}
		if status == models.PaymentApproved {
			from = append(from, models.PaymentExpired)
		}
		res := tx.Model(&models.PaymentRecord{}).
			Where("id = ? AND status IN ?", recordID, from).
			Updates(map[string]interface{}{
				"status":              status,
				"provider_payment_id": payment.ID,
				"updated_at":          s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		if err := tx.Where("id = ?", recordID).First(&record).Error; err != nil {
			return err
		}
		if status != models.PaymentApproved {
			return nil
		}
		paymentID := record.ID
		grant := &models.PlanAccessGrant{
			UserID:          record.UserID,
			PlanType:        record.PlanType,
			IsActive:        true,
			PaymentRequired: false,
			SingleUse:       true,
			Source:          models.GrantSourcePayment,
			PaymentID:       &paymentID,
		}
		return tx.Create(grant).Error
	})
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, op, err)
	}
	if !applied {
		log.Debug("payment status already applied")
		return true, nil
	}

	log.Info("payment status applied")
	if s.notifier != nil {
		kind, title := models.NotificationPaymentFailed, "Pagamento não aprovado"
		if status == models.PaymentApproved {
			kind, title = models.NotificationPaymentApproved, "Pagamento aprovado"
		}
		msg := fmt.Sprintf("%s - R$ %.2f", checkoutTitles[record.PlanType], record.Amount)
		if _, err := s.notifier.Notify(ctx, record.UserID, kind, title, msg); err != nil {
			log.WithError(err).Warn("failed to publish payment notification")
		}
	}
	return true, nil
}

// HandleWebhook applies a provider notification. Non-payment events are ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, n *types.WebhookNotification) error {
	const op = "payment webhook"
	if n.Type != "payment" && !strings.HasPrefix(n.Action, "payment.") {
		return nil
	}
	if n.Data.ID == "" {
		return apperr.New(apperr.KindInvalidInput, op, "missing payment id")
	}

	payment, err := s.provider.GetPayment(ctx, n.Data.ID)
	if err != nil {
		return err
	}
	var record models.PaymentRecord
	err = s.db.WithContext(ctx).Where("external_reference = ?", payment.ExternalReference).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, op, "unknown payment reference")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}

	final, err := s.apply(ctx, record.ID, payment)
	if err != nil {
		return err
	}
	if final {
		s.watchers.Stop(record.ID.String())
	}
	return nil
}

// CheckStatus asks the provider once for the state of a pending payment
func (s *PaymentService) CheckStatus(ctx context.Context, userID, paymentID uuid.UUID) (*models.PaymentRecord, error) {
	record, err := s.ownedRecord(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.PaymentPending {
		return record, nil
	}

	payment, err := s.provider.SearchByReference(ctx, record.ExternalReference)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return record, nil
	}
	final, err := s.apply(ctx, record.ID, payment)
	if err != nil {
		return nil, err
	}
	if final {
		s.watchers.Stop(record.ID.String())
	}
	return s.ownedRecord(ctx, userID, paymentID)
}

// CancelWatch stops watching a payment. The record keeps its status.
func (s *PaymentService) CancelWatch(ctx context.Context, userID, paymentID uuid.UUID) error {
	if _, err := s.ownedRecord(ctx, userID, paymentID); err != nil {
		return err
	}
	if s.watchers.Stop(paymentID.String()) {
		logging.Component(ctx, "payments").WithField("payment_id", paymentID).Info("payment watch cancelled")
	}
	return nil
}

// Watching reports whether a payment is being polled
func (s *PaymentService) Watching(paymentID uuid.UUID) bool {
	return s.watchers.Active(paymentID.String())
}

// ListPayments returns the user's payment records, newest first
func (s *PaymentService) ListPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list payments", err)
	}
	return records, nil
}

// Shutdown stops every watcher
func (s *PaymentService) Shutdown() {
	s.watchers.StopAll()
	s.cancel()
}

func (s *PaymentService) ownedRecord(ctx context.Context, userID, paymentID uuid.UUID) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", paymentID, userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "payment record", "payment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "payment record", err)
	}
	return &record, nil
}
