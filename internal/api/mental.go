package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// MentalHealthHandler serves mood logging and breathing sessions
type MentalHealthHandler struct {
	mental service.IMentalHealthService
}

// NewMentalHealthHandler creates a new MentalHealthHandler instance
func NewMentalHealthHandler(mental service.IMentalHealthService) *MentalHealthHandler {
	return &MentalHealthHandler{mental: mental}
}

// RegisterRoutes registers mental health routes on an authenticated group
func (h *MentalHealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	mental := router.Group("/mental")
	{
		mental.POST("/moods", h.RecordMood)
		mental.GET("/moods", h.ListMoods)
		mental.GET("/moods/summary", h.Summary)
		mental.POST("/breathing", h.CompleteBreathing)
	}
}

func (h *MentalHealthHandler) RecordMood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.MoodRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.mental.RecordMood(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListMoods accepts optional RFC 3339 or YYYY-MM-DD from/to bounds
func (h *MentalHealthHandler) ListMoods(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	entries, err := h.mental.ListMoods(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moods": entries})
}

func (h *MentalHealthHandler) Summary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.mental.MoodSummary(c.Request.Context(), userID, queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *MentalHealthHandler) CompleteBreathing(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.BreathingRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.mental.CompleteBreathing(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	respondError(c, apperr.New(apperr.KindInvalidInput, "parse time", "invalid "+name).WithDetail(name, raw))
	return time.Time{}, false
}
