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
	"gorm.io/gorm/clause"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
)

// RewardRule is the fixed amount of a reward type and its per-day cap (0 = no cap).
// Only Claimable rewards may be requested by clients; the rest are credited by the server.
type RewardRule struct {
	Amount    int64
	DailyCap  int
	Claimable bool
	Label     string
}

// RewardRules lists every reward type
var RewardRules = map[models.TransactionType]RewardRule{
	models.TxMealPlan:          {Amount: 10, Label: "Plano alimentar gerado"},
	models.TxWorkoutPlan:       {Amount: 10, Label: "Plano de treino gerado"},
	models.TxPhysioPlan:        {Amount: 10, Label: "Plano de reabilitação gerado"},
	models.TxDailyTip:          {Amount: 1, DailyCap: 1, Claimable: true, Label: "Dica do dia"},
	models.TxWaterIntake:       {Amount: 1, DailyCap: 8, Claimable: true, Label: "Copo de água"},
	models.TxBreathingExercise: {Amount: 2, DailyCap: 3, Claimable: true, Label: "Exercício de respiração"},
}

// WalletService manages the FIT ledger
type WalletService struct {
	db       *gorm.DB
	notifier INotificationService
	now      func() time.Time
}

// Ensure WalletService implements IWalletService
var _ IWalletService = (*WalletService)(nil)

// NewWalletService creates a new WalletService instance. notifier may be nil.
func NewWalletService(db *gorm.DB, notifier INotificationService) *WalletService {
	return &WalletService{db: db, notifier: notifier, now: time.Now}
}

// Balance sums the user's ledger
func (s *WalletService) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	balance, err := balanceOf(s.db.WithContext(ctx), userID)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "wallet balance", err)
	}
	return balance, nil
}

func balanceOf(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var balance int64
	err := db.Model(&models.WalletTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	return balance, err
}

// ListTransactions returns the newest ledger rows first
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	var txs []models.WalletTransaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&txs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list transactions", err)
	}
	return txs, nil
}

// Claim credits an activity reward requested by the user. Generation rewards are rejected.
func (s *WalletService) Claim(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error) {
	if rule, ok := RewardRules[txType]; !ok || !rule.Claimable {
		return nil, apperr.New(apperr.KindInvalidInput, "wallet claim", fmt.Sprintf("reward type %q cannot be claimed", txType))
	}
	return s.Reward(ctx, userID, txType)
}

// Reward credits the fixed amount of txType, honouring its daily cap
func (s *WalletService) Reward(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error) {
	const op = "wallet reward"
	rule, ok := RewardRules[txType]
	if !ok {
		return nil, apperr.New(apperr.KindInvalidInput, op, fmt.Sprintf("unknown reward type %q", txType))
	}
	db := s.db.WithContext(ctx)

	if rule.DailyCap > 0 {
		now := s.now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		var claimed int64
		err := db.Model(&models.WalletTransaction{}).
			Where("user_id = ? AND type = ? AND created_at >= ?", userID, txType, dayStart).
			Count(&claimed).Error
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		if claimed >= int64(rule.DailyCap) {
			return nil, apperr.New(apperr.KindConflict, op, "daily reward limit reached").
				WithDetail("type", txType).
				WithDetail("daily_cap", rule.DailyCap)
		}
	}

	tx := &models.WalletTransaction{
		UserID:      userID,
		Amount:      rule.Amount,
		Type:        txType,
		Description: rule.Label,
	}
	tx.CreatedAt = s.now()
	if err := db.Create(tx).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, op, err)
	}

	logging.Component(ctx, "wallet").WithFields(logrus.Fields{
		"user_id": userID,
		"type":    txType,
		"amount":  rule.Amount,
	}).Info("reward credited")
	return tx, nil
}

// Transfer moves amount FITs to the user registered under recipientEmail.
// Both ledger rows are written in one transaction.
func (s *WalletService) Transfer(ctx context.Context, fromUserID uuid.UUID, recipientEmail string, amount int64, description string) (*models.WalletTransaction, error) {
	const op = "wallet transfer"
	if amount <= 0 {
		return nil, apperr.New(apperr.KindInvalidInput, op, "amount must be positive")
	}
	email := strings.ToLower(strings.TrimSpace(recipientEmail))

	var out *models.WalletTransaction
	var recipient models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&recipient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, op, "recipient not found")
			}
			return apperr.Wrap(apperr.KindInternal, op, err)
		}
		if recipient.ID == fromUserID {
			return apperr.New(apperr.KindInvalidInput, op, "cannot transfer to yourself")
		}

		if tx.Dialector.Name() == "postgres" {
			var sender models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", fromUserID).First(&sender).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, op, err)
			}
		}

		balance, err := balanceOf(tx, fromUserID)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, op, err)
		}
		if balance < amount {
			return apperr.New(apperr.KindInsufficientFunds, op, "insufficient balance").
				WithDetail("balance", balance)
		}

		if description == "" {
			description = "Transferência"
		}
		recipientID := recipient.ID
		out = &models.WalletTransaction{
			UserID:      fromUserID,
			Amount:      -amount,
			Type:        models.TxTransferOut,
			Description: description,
			RecipientID: &recipientID,
		}
		if err := tx.Create(out).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, op, err)
		}
		senderID := fromUserID
		in := &models.WalletTransaction{
			UserID:      recipient.ID,
			Amount:      amount,
			Type:        models.TxTransferIn,
			Description: description,
			RecipientID: &senderID,
		}
		if err := tx.Create(in).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("Você recebeu %d FITs", amount)
		if _, err := s.notifier.Notify(ctx, recipient.ID, models.NotificationTransfer, "Transferência recebida", msg); err != nil {
			logging.Component(ctx, "wallet").WithError(err).Warn("failed to notify transfer recipient")
		}
	}
	return out, nil
}
