// Package testhelpers provides databases, redis servers and fixtures for tests.
package testhelpers

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/models"
)

// TestJWTSecret signs tokens issued by fixtures
const TestJWTSecret = "test-jwt-secret"

// SetupRedis starts an in-process redis server and returns a client bound to it
func SetupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// CreateUser inserts a user with a profile and returns it
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{Name: "Test User", Email: email, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	profile := &models.UserProfile{UserID: user.ID, FullName: user.Name}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return user
}

// MakeAdmin flags the user's profile as admin
func MakeAdmin(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	if err := db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}
}

// SetGenerationCount stores a generation counter for a plan type
func SetGenerationCount(t *testing.T, db *gorm.DB, userID uuid.UUID, planType models.PlanType, count int) {
	t.Helper()
	var row models.PlanGenerationCount
	if err := db.Where(models.PlanGenerationCount{UserID: userID}).FirstOrCreate(&row).Error; err != nil {
		t.Fatalf("failed to load counter: %v", err)
	}
	if err := db.Model(&row).Update(models.CountColumn(planType), count).Error; err != nil {
		t.Fatalf("failed to set counter: %v", err)
	}
}

// Token issues a signed access token for userID
func Token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
