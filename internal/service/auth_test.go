package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/testhelpers"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	ctx := context.Background()

	resp, err := authSvc.Register(ctx, &types.RegisterRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", resp.UserID).First(&profile).Error)
	assert.Equal(t, "Ana", profile.FullName)

	claims, err := authSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)

	login, err := authSvc.Login(ctx, &types.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)

	_, err = authSvc.Login(ctx, &types.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = authSvc.Register(ctx, &types.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = authSvc.Register(ctx, &types.RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "123"})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	user := testhelpers.CreateUser(t, db, "tok@example.com")

	claims, err := authSvc.ValidateToken(testhelpers.Token(t, user.ID))
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = authSvc.ValidateToken("not-a-token")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(testhelpers.TestJWTSecret))
	require.NoError(t, err)
	_, err = authSvc.ValidateToken(signed)
	assert.Equal(t, "token has expired", apperr.Message(err))

	other := service.NewAuthService(db, "another-secret")
	_, err = other.ValidateToken(testhelpers.Token(t, user.ID))
	assert.Error(t, err)
}
