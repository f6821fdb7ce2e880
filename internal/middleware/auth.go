package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "authenticate"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			RespondError(c, apperr.New(apperr.KindUnauthenticated, op, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			RespondError(c, apperr.New(apperr.KindUnauthenticated, op, "invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}

		// Store user info in context
		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		entry := logging.FromContext(c.Request.Context()).WithField("user_id", claims.UserID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), entry))
		c.Next()
	}
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
