package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

func TestWalletRewardCaps(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	wallet := service.NewWalletService(db, nil)
	user := testhelpers.CreateUser(t, db, "wallet@example.com")
	ctx := context.Background()

	tx, err := wallet.Reward(ctx, user.ID, models.TxDailyTip)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.Amount)

	_, err = wallet.Reward(ctx, user.ID, models.TxDailyTip)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	for i := 0; i < 3; i++ {
		_, err = wallet.Reward(ctx, user.ID, models.TxBreathingExercise)
		require.NoError(t, err)
	}
	_, err = wallet.Reward(ctx, user.ID, models.TxBreathingExercise)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	for i := 0; i < 4; i++ {
		_, err = wallet.Reward(ctx, user.ID, models.TxMealPlan)
		require.NoError(t, err)
	}

	_, err = wallet.Reward(ctx, user.ID, models.TxTransferIn)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	balance, err := wallet.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+3*2+4*10), balance)

	txs, err := wallet.ListTransactions(ctx, user.ID, 3)
	require.NoError(t, err)
	assert.Len(t, txs, 3)
}

func TestWalletClaimOnlyActivityRewards(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	wallet := service.NewWalletService(db, nil)
	user := testhelpers.CreateUser(t, db, "claims@example.com")
	ctx := context.Background()

	for _, txType := range []models.TransactionType{models.TxMealPlan, models.TxWorkoutPlan, models.TxPhysioPlan, models.TxTransferIn} {
		_, err := wallet.Claim(ctx, user.ID, txType)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err), txType)
	}

	tx, err := wallet.Claim(ctx, user.ID, models.TxWaterIntake)
	require.NoError(t, err)
	assert.Equal(t, models.TxWaterIntake, tx.Type)

	balance, err := wallet.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance)
}

func TestWalletTransfer(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	notices := service.NewNotificationService(db, nil)
	wallet := service.NewWalletService(db, notices)
	sender := testhelpers.CreateUser(t, db, "sender@example.com")
	recipient := testhelpers.CreateUser(t, db, "recipient@example.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := wallet.Reward(ctx, sender.ID, models.TxWorkoutPlan)
		require.NoError(t, err)
	}

	out, err := wallet.Transfer(ctx, sender.ID, " Recipient@Example.com ", 12, "")
	require.NoError(t, err)
	assert.Equal(t, int64(-12), out.Amount)
	assert.Equal(t, models.TxTransferOut, out.Type)
	require.NotNil(t, out.RecipientID)
	assert.Equal(t, recipient.ID, *out.RecipientID)

	senderBalance, err := wallet.Balance(ctx, sender.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(18), senderBalance)
	recipientBalance, err := wallet.Balance(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), recipientBalance)

	notes, err := notices.List(ctx, recipient.ID, false, 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTransfer, notes[0].Type)

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := wallet.Transfer(ctx, sender.ID, recipient.Email, 19, "")
		assert.Equal(t, apperr.KindInsufficientFunds, apperr.KindOf(err))
	})
	t.Run("self transfer", func(t *testing.T) {
		_, err := wallet.Transfer(ctx, sender.ID, sender.Email, 1, "")
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	})
	t.Run("unknown recipient", func(t *testing.T) {
		_, err := wallet.Transfer(ctx, sender.ID, "nobody@example.com", 1, "")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
	t.Run("non positive amount", func(t *testing.T) {
		_, err := wallet.Transfer(ctx, sender.ID, recipient.Email, 0, "")
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	})

	senderBalance, err = wallet.Balance(ctx, sender.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(18), senderBalance)
}
