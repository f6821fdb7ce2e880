package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// AdminHandler serves the admin panel. Routes must sit behind RequireAdmin.
type AdminHandler struct {
	admin service.IAdminService
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(admin service.IAdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterRoutes registers admin routes on an admin-only group
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.POST("/users/:id/reset-count", h.ResetCount)
	router.GET("/payment-settings", h.GetPaymentSettings)
	router.PUT("/payment-settings", h.UpdatePaymentSettings)
	router.POST("/grants", h.CreateGrant)
	router.DELETE("/grants/:id", h.RevokeGrant)
	router.GET("/payments", h.ListPayments)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context(), queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) ResetCount(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.ResetCountRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.admin.ResetGenerationCount(c.Request.Context(), userID, models.PlanType(req.PlanType)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) GetPaymentSettings(c *gin.Context) {
	settings, err := h.admin.GetPaymentSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) UpdatePaymentSettings(c *gin.Context) {
	var req types.PaymentSettingsUpdate
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.admin.UpdatePaymentSettings(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) CreateGrant(c *gin.Context) {
	var req types.GrantRequest
	if !bindJSON(c, &req) {
		return
	}
	grant, err := h.admin.CreateGrant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func (h *AdminHandler) RevokeGrant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.RevokeGrant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListPayments(c *gin.Context) {
	records, err := h.admin.ListPayments(c.Request.Context(), c.Query("status"), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": records})
}
