package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// PaymentHandler runs checkouts and receives provider notifications
type PaymentHandler struct {
	payments      service.IPaymentService
	webhookSecret string
}

// NewPaymentHandler creates a new PaymentHandler instance.
// An empty webhookSecret disables signature checks.
func NewPaymentHandler(payments service.IPaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{payments: payments, webhookSecret: webhookSecret}
}

// RegisterRoutes registers user payment routes on an authenticated group
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	{
		payments.POST("/checkout", h.Checkout)
		payments.GET("", h.List)
		payments.GET("/:id/status", h.Status)
		payments.DELETE("/:id/watch", h.CancelWatch)
	}
}

// RegisterWebhook registers the provider callback on a public group
func (h *PaymentHandler) RegisterWebhook(router *gin.RouterGroup) {
	router.POST("/payments/webhook", h.Webhook)
}

func (h *PaymentHandler) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.payments.StartCheckout(c.Request.Context(), userID, models.PlanType(req.PlanType))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.payments.ListPayments(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": records})
}

func (h *PaymentHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.payments.CheckStatus(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *PaymentHandler) CancelWatch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.CancelWatch(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Webhook applies a provider notification. The payment id comes from the
// data.id query parameter or, failing that, from the JSON body.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var n types.WebhookNotification
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&n); err != nil && c.Query("data.id") == "" {
			respondError(c, apperr.New(apperr.KindInvalidInput, "payment webhook", "invalid notification body"))
			return
		}
	}
	if id := c.Query("data.id"); id != "" {
		n.Data.ID = id
	}
	if n.Type == "" {
		n.Type = c.Query("type")
	}
	if strings.TrimSpace(n.Data.ID) == "" {
		respondError(c, apperr.New(apperr.KindInvalidInput, "payment webhook", "missing payment id"))
		return
	}

	if h.webhookSecret == "" {
		logging.Component(c.Request.Context(), "payments").Warn("webhook signature check disabled")
	} else if !service.VerifyWebhookSignature(h.webhookSecret, c.GetHeader("x-signature"), c.GetHeader("x-request-id"), n.Data.ID) {
		respondError(c, apperr.New(apperr.KindUnauthenticated, "payment webhook", "invalid signature"))
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), &n); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
