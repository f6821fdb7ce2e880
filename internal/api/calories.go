package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/nutrition"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// CaloriesHandler exposes the calorie calculator and the payment gate
type CaloriesHandler struct {
	access service.IAccessService
}

// NewCaloriesHandler creates a new CaloriesHandler instance
func NewCaloriesHandler(access service.IAccessService) *CaloriesHandler {
	return &CaloriesHandler{access: access}
}

// RegisterRoutes registers calculator and access routes on an authenticated group
func (h *CaloriesHandler) RegisterRoutes(router *gin.RouterGroup) {
	calories := router.Group("/calories")
	{
		calories.POST("/calculate", h.Calculate)
		calories.POST("/macros/percentages", h.MacroPercentages)
	}
	router.GET("/access/:planType", h.CheckAccess)
}

// Calculate returns BMR, daily calories and macro targets
func (h *CaloriesHandler) Calculate(c *gin.Context) {
	var in nutrition.Anthropometrics
	if !bindJSON(c, &in) {
		return
	}
	result, err := nutrition.Calculate(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MacroPercentages returns the macro bar split
func (h *CaloriesHandler) MacroPercentages(c *gin.Context) {
	var req types.MacroPercentagesRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, nutrition.MacroPercentages(req.Protein, req.Carbs, req.Fats))
}

// CheckAccess reports whether the user may generate a plan of the given type
func (h *CaloriesHandler) CheckAccess(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planType, ok := parsePlanType(c, c.Param("planType"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.access.CheckAccess(c.Request.Context(), userID, planType))
}
