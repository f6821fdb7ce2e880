package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/service"
)

// CatalogHandler serves the food and exercise catalogs
type CatalogHandler struct {
	catalog service.ICatalogService
}

// NewCatalogHandler creates a new CatalogHandler instance
func NewCatalogHandler(catalog service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers catalog routes on an authenticated group
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/foods", h.SearchFoods)
	router.GET("/exercises", h.ListExercises)
}

// SearchFoods filters protocol foods by name and meal type
func (h *CatalogHandler) SearchFoods(c *gin.Context) {
	foods, err := h.catalog.SearchFoods(c.Request.Context(), c.Query("q"), c.Query("meal_type"), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

// ListExercises filters the exercise catalog
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalog.ListExercises(c.Request.Context(), service.ExerciseFilter{
		Type:        c.Query("type"),
		ExcludeType: c.Query("exclude_type"),
		MuscleGroup: c.Query("muscle_group"),
		Equipment:   c.Query("equipment"),
		Limit:       queryInt(c, "limit", 0),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}
