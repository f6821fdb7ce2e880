package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nandoesporte/gut59/backend/config"
	"github.com/nandoesporte/gut59/backend/internal/api"
	"github.com/nandoesporte/gut59/backend/internal/middleware"
)

// SetupRouter configures the engine with the shared middleware chain and every API route
func SetupRouter(cfg *config.Config, deps api.Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	api.RegisterRoutes(router, deps)
	return router
}
