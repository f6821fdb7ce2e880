package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/middleware"
)

func respondError(c *gin.Context, err error) {
	middleware.RespondError(c, err)
}

// currentUser returns the authenticated user or writes a 401
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.KindUnauthenticated, "current user", "unauthorized"))
	}
	return userID, ok
}

// bindJSON decodes and validates the body into dst or writes a 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.New(apperr.KindInvalidInput, "bind request", "invalid request body").
			WithDetail("reason", err.Error()))
		return false
	}
	return true
}

// pathID parses a uuid path parameter or writes a 400
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperr.New(apperr.KindInvalidInput, "parse id", "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def
func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}
