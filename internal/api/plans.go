package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// planRoutes maps the client route groups onto plan types
var planRoutes = []struct {
	path     string
	planType models.PlanType
}{
	{"/menu", models.PlanNutrition},
	{"/workout", models.PlanWorkout},
	{"/fisio", models.PlanPhysio},
}

// PlanHandler serves plan generation, retrieval, export and form preferences
type PlanHandler struct {
	plans    service.IPlanService
	export   service.IExportService
	profiles service.IProfileService
}

// NewPlanHandler creates a new PlanHandler instance. profiles may be nil.
func NewPlanHandler(plans service.IPlanService, export service.IExportService, profiles service.IProfileService) *PlanHandler {
	return &PlanHandler{plans: plans, export: export, profiles: profiles}
}

// RegisterRoutes registers the plan groups on an authenticated group.
// limit guards the generation endpoints and may be nil.
func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	generate := []gin.HandlerFunc{}
	if limit != nil {
		generate = append(generate, limit)
	}

	for _, route := range planRoutes {
		planType := route.planType
		group := router.Group(route.path)
		group.POST("/generate", append(generate, h.generate(planType))...)
		group.GET("/latest", h.latest(planType))
		group.GET("/plans", h.list(planType))
		group.GET("/plans/:id", h.get(planType))
		group.DELETE("/plans/:id", h.delete(planType))
		group.GET("/plans/:id/pdf", h.pdf(planType))
	}

	router.GET("/menu/preferences", h.GetNutritionPreferences)
	router.PUT("/menu/preferences", h.SaveNutritionPreferences)
	router.GET("/workout/preferences", h.GetWorkoutPreferences)
	router.PUT("/workout/preferences", h.SaveWorkoutPreferences)
}

func (h *PlanHandler) generate(planType models.PlanType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var stored *service.StoredPlan
		var err error
		switch planType {
		case models.PlanNutrition:
			var req types.MealPlanRequest
			if !bindJSON(c, &req) {
				return
			}
			stored, err = h.plans.GenerateMealPlan(ctx, userID, &req)
		case models.PlanWorkout:
			var req types.WorkoutPlanRequest
			if !bindJSON(c, &req) {
				return
			}
			stored, err = h.plans.GenerateWorkoutPlan(ctx, userID, &req)
		case models.PlanPhysio:
			var req types.PhysioPlanRequest
			if !bindJSON(c, &req) {
				return
			}
			stored, err = h.plans.GeneratePhysioPlan(ctx, userID, &req)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, stored)
	}
}

func (h *PlanHandler) latest(planType models.PlanType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		stored, err := h.plans.LatestPlan(c.Request.Context(), userID, planType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stored)
	}
}

func (h *PlanHandler) list(planType models.PlanType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		plans, err := h.plans.ListPlans(c.Request.Context(), userID, planType, queryInt(c, "limit", 0))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"plans": plans})
	}
}

func (h *PlanHandler) get(planType models.PlanType) gin.HandlerFunc {
	return func(c *gin.Context) {
		stored, ok := h.ownedPlan(c, planType)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stored)
	}
}

func (h *PlanHandler) delete(planType models.PlanType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := h.plans.DeletePlan(c.Request.Context(), userID, planType, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pdf streams the plan as an attachment, or with ?upload=true returns a temporary link
func (h *PlanHandler) pdf(planType models.PlanType) gin.HandlerFunc {
	return func(c *gin.Context) {
		stored, ok := h.ownedPlan(c, planType)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		owner := ""
		if h.profiles != nil {
			if profile, err := h.profiles.GetProfile(ctx, stored.UserID); err == nil {
				owner = profile.FullName
			}
		}
		pdf, err := h.export.RenderPDF(stored, owner)
		if err != nil {
			respondError(c, err)
			return
		}

		if upload, _ := strconv.ParseBool(c.Query("upload")); upload {
			link, err := h.export.Publish(ctx, stored, pdf)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"url":        link,
				"expires_in": int(service.ExportLinkTTL.Seconds()),
			})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(stored)+`"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

func (h *PlanHandler) ownedPlan(c *gin.Context, planType models.PlanType) (*service.StoredPlan, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	stored, err := h.plans.GetPlan(c.Request.Context(), userID, planType, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return stored, true
}

func (h *PlanHandler) GetNutritionPreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	prefs, err := h.plans.GetNutritionPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PlanHandler) SaveNutritionPreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.MealPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	prefs, err := h.plans.SaveNutritionPreferences(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PlanHandler) GetWorkoutPreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	prefs, err := h.plans.GetWorkoutPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PlanHandler) SaveWorkoutPreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.WorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	prefs, err := h.plans.SaveWorkoutPreferences(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func parsePlanType(c *gin.Context, raw string) (models.PlanType, bool) {
	planType := models.PlanType(raw)
	if !planType.Valid() {
		respondError(c, apperr.New(apperr.KindInvalidInput, "parse plan type", "unknown plan type").
			WithDetail("plan_type", raw))
		return "", false
	}
	return planType, true
}
