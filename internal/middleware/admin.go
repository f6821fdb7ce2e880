package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
)

// AdminChecker reports whether a user may use the admin panel
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequireAdmin creates a middleware that only lets admins through.
// It must run after AuthMiddleware.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "require admin"
		userID, ok := UserID(c)
		if !ok {
			RespondError(c, apperr.New(apperr.KindUnauthenticated, op, "unauthorized"))
			c.Abort()
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}
		if !isAdmin {
			RespondError(c, apperr.New(apperr.KindForbidden, op, "admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
