package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
)

func TestNotificationSubscribeReceivesPublished(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	rdb, _ := testhelpers.SetupRedis(t)
	notices := service.NewNotificationService(db, rdb)
	user := testhelpers.CreateUser(t, db, "stream@example.com")
	other := testhelpers.CreateUser(t, db, "other@example.com")

	ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCtx()
	stream, cancel, err := notices.Subscribe(ctx, user.ID)
	require.NoError(t, err)
	defer cancel()

	_, err = notices.Notify(ctx, other.ID, models.NotificationPlanReady, "not yours", "")
	require.NoError(t, err)
	sent, err := notices.Notify(ctx, user.ID, models.NotificationPlanReady, "Plano pronto", "Seu plano alimentar está pronto")
	require.NoError(t, err)

	select {
	case got := <-stream:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, "Plano pronto", got.Title)
		assert.Equal(t, user.ID, got.UserID)
	case <-ctx.Done():
		t.Fatal("notification not delivered")
	}

	cancel()
	cancel()
	for range stream {
	}
}

func TestNotificationSubscribeWithoutRedis(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	notices := service.NewNotificationService(db, nil)
	user := testhelpers.CreateUser(t, db, "noredis@example.com")

	_, _, err := notices.Subscribe(context.Background(), user.ID)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	n, err := notices.Notify(context.Background(), user.ID, models.NotificationWalletReward, "FITs", "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, n.ID)
}

func TestNotificationPublishFailureStillStores(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	rdb, mr := testhelpers.SetupRedis(t)
	notices := service.NewNotificationService(db, rdb)
	user := testhelpers.CreateUser(t, db, "down@example.com")
	mr.Close()

	_, err := notices.Notify(context.Background(), user.ID, models.NotificationPlanReady, "Plano pronto", "")
	require.NoError(t, err)

	list, err := notices.List(context.Background(), user.ID, false, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotificationListAndMarkRead(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	notices := service.NewNotificationService(db, nil)
	user := testhelpers.CreateUser(t, db, "inbox@example.com")
	stranger := testhelpers.CreateUser(t, db, "stranger@example.com")
	ctx := context.Background()

	first, err := notices.Notify(ctx, user.ID, models.NotificationPaymentApproved, "Pagamento aprovado", "")
	require.NoError(t, err)
	_, err = notices.Notify(ctx, user.ID, models.NotificationPlanReady, "Plano pronto", "")
	require.NoError(t, err)

	require.NoError(t, notices.MarkRead(ctx, user.ID, first.ID))
	require.NoError(t, notices.MarkRead(ctx, user.ID, first.ID))

	unread, err := notices.List(ctx, user.ID, true, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Plano pronto", unread[0].Title)

	all, err := notices.List(ctx, user.ID, false, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = notices.MarkRead(ctx, stranger.ID, first.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = notices.MarkRead(ctx, user.ID, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
