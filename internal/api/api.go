package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/middleware"
	"github.com/nandoesporte/gut59/backend/internal/service"
)

// Version is reported by the health check
const Version = "v1.0.0"

// Deps carries the services the HTTP layer is built from.
// Limiter, Export and Profile may be nil.
type Deps struct {
	Auth          service.IAuthService
	Profile       service.IProfileService
	Access        service.IAccessService
	Plans         service.IPlanService
	Export        service.IExportService
	Payments      service.IPaymentService
	Notifications service.INotificationService
	Wallet        service.IWalletService
	Mental        service.IMentalHealthService
	Catalog       service.ICatalogService
	Admin         service.IAdminService
	Limiter       *middleware.RateLimiter
	WebhookSecret string
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "gut59 API is running",
		"version": Version,
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)
	NewPaymentHandler(deps.Payments, deps.WebhookSecret).RegisterWebhook(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Auth))

	var limit gin.HandlerFunc
	if deps.Limiter != nil {
		limit = deps.Limiter.RateLimitMiddleware()
		RegisterRateLimitRoutes(authed, deps.Limiter)
	}

	NewProfileHandler(deps.Profile).RegisterRoutes(authed)
	NewCaloriesHandler(deps.Access).RegisterRoutes(authed)
	NewPlanHandler(deps.Plans, deps.Export, deps.Profile).RegisterRoutes(authed, limit)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(authed)
	NewPaymentHandler(deps.Payments, deps.WebhookSecret).RegisterRoutes(authed)
	NewNotificationHandler(deps.Notifications).RegisterRoutes(authed)
	NewWalletHandler(deps.Wallet).RegisterRoutes(authed)
	NewMentalHealthHandler(deps.Mental).RegisterRoutes(authed)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin(deps.Admin))
	NewAdminHandler(deps.Admin).RegisterRoutes(admin)
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	router.GET("/rate-limits/generation", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), userID.String())
		if err != nil {
			respondError(c, apperr.Wrapf(apperr.KindUnavailable, "rate limit status", err, "failed to check rate limit"))
			return
		}
		cfg := limiter.Config()
		c.JSON(http.StatusOK, gin.H{
			"limit":      cfg.Limit,
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     cfg.Window.String(),
		})
	})
}
