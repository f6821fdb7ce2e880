package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/config"
	"github.com/nandoesporte/gut59/backend/internal/api"
	"github.com/nandoesporte/gut59/backend/internal/database"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/middleware"
	"github.com/nandoesporte/gut59/backend/internal/router"
	"github.com/nandoesporte/gut59/backend/internal/server"
	"github.com/nandoesporte/gut59/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationURL()); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	rdb := database.OpenOptionalRedis(context.Background(), cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	// Export uploads are optional as well
	var store service.IObjectStore
	if s3cfg, err := config.NewS3Config(context.Background(), cfg.S3BucketName, cfg.AWSRegion); err != nil {
		log.WithError(err).Warn("s3 unavailable, pdf uploads disabled")
	} else {
		store = s3cfg
	}

	llm := service.NewLLMClient(service.LLMConfig{
		APIURL:            cfg.LLMAPIURL,
		APIKey:            cfg.LLMAPIKey,
		Model:             cfg.LLMModel,
		Timeout:           cfg.LLMTimeout,
		RequestsPerSecond: cfg.LLMRequestsPerSecond,
	})
	provider := service.NewMercadoPagoClient(service.MercadoPagoConfig{
		BaseURL:         cfg.PaymentAPIURL,
		AccessToken:     cfg.PaymentAccessToken,
		SuccessURL:      cfg.PaymentSuccessURL,
		FailureURL:      cfg.PaymentFailureURL,
		NotificationURL: cfg.PaymentNotificationURL,
	})

	// Initialize services
	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	accessService := service.NewAccessService(db)
	notificationService := service.NewNotificationService(db, rdb)
	walletService := service.NewWalletService(db, notificationService)
	catalogService := service.NewCatalogService(db)
	planService := service.NewPlanService(db, accessService, service.NewPlanGenerator(llm), catalogService, walletService, notificationService)
	paymentService := service.NewPaymentService(db, provider, notificationService, cfg.PaymentPollInterval, cfg.PaymentPollTimeout)

	deps := api.Deps{
		Auth:          authService,
		Profile:       profileService,
		Access:        accessService,
		Plans:         planService,
		Export:        service.NewExportService(store),
		Payments:      paymentService,
		Notifications: notificationService,
		Wallet:        walletService,
		Mental:        service.NewMentalHealthService(db, walletService),
		Catalog:       catalogService,
		Admin:         service.NewAdminService(db),
		WebhookSecret: cfg.PaymentWebhookSecret,
	}
	if rdb != nil {
		deps.Limiter = middleware.NewGenerationRateLimiter(rdb, cfg.GenerationRateLimit)
	}

	srv := server.New(cfg.Addr(), router.SetupRouter(cfg, deps))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Error("server error")
		}
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("received signal")
	}

	log.Info("shutting down server")
	paymentService.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("server stopped")
}
