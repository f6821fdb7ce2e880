package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

func TestProfileService(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	profiles := service.NewProfileService(db)
	user := testhelpers.CreateUser(t, db, "profile@example.com")
	ctx := context.Background()

	height, weight, name := 172.0, 68.5, "Carla Souza"
	updated, err := profiles.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		FullName: &name,
		HeightCm: &height,
		WeightKg: &weight,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)

	got, err := profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 172.0, got.HeightCm)
	assert.Equal(t, 68.5, got.WeightKg)
	assert.False(t, got.IsAdmin)

	_, err = profiles.GetProfile(ctx, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	negative := -1.0
	_, err = profiles.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{WeightKg: &negative})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestProfileHistory(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	profiles := service.NewProfileService(db)
	user := testhelpers.CreateUser(t, db, "history@example.com")
	ctx := context.Background()

	for _, w := range []float64{80, 78.5, 78.5} {
		weight := w
		_, err := profiles.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{WeightKg: &weight})
		require.NoError(t, err)
	}
	name := "Test User"
	_, err := profiles.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)

	history, err := profiles.GetProfileHistory(ctx, user.ID, service.HistoryWeight, 0)
	require.NoError(t, err)
	require.Len(t, history, 2, "unchanged values are not recorded")
	values := []string{history[0].NewValue, history[1].NewValue}
	assert.ElementsMatch(t, []string{"80", "78.5"}, values)

	all, err := profiles.GetProfileHistory(ctx, user.ID, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2, "same full name produces no entry")

	_, err = profiles.GetProfileHistory(ctx, user.ID, "password", 10)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}
