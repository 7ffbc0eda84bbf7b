package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"adPilot/app/echo-server/router"
	"adPilot/business/abtest"
	"adPilot/business/adreco"
	"adPilot/business/catalog"
	"adPilot/business/channel"
	"adPilot/business/energy"
	"adPilot/business/feedback"
	"adPilot/internal/middleware"
	memRepo "adPilot/internal/repository/memory"
	psqlRepo "adPilot/internal/repository/postgres"
	redisRepo "adPilot/internal/repository/redis"
	"adPilot/internal/rest"
	"adPilot/pkg/config"
	"adPilot/pkg/database"
	redisdb "adPilot/pkg/database/redis"
	"adPilot/pkg/logger"
	"adPilot/pkg/metrics"
)

type storage struct {
	catalog         catalog.CatalogRepository
	feedback        feedback.FeedbackRepository
	recommendations rest.RecommendationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting adPilot", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	// Init storage
	store := storage{
		catalog:         memRepo.NewCatalogRepository(),
		feedback:        memRepo.NewFeedbackRepository(),
		recommendations: memRepo.NewRecommendationRepository(),
	}
	if cfg.Database.Enabled() {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")

		store = storage{
			catalog:         psqlRepo.NewCatalogRepository(db),
			feedback:        psqlRepo.NewFeedbackRepository(db),
			recommendations: psqlRepo.NewRecommendationRepository(db),
		}
	} else {
		logger.Warn("DB_HOST not set, using in-memory storage")
	}

	// Init energy accounting
	estimator := energy.NewEstimator(energy.Config{
		ModelEfficiency: cfg.Energy.ModelEfficiency,
		CacheFactor:     cfg.Energy.CacheFactor,
		CarbonIntensity: cfg.Energy.CarbonIntensity,
	})
	var energyCounter rest.EnergyTracker = energy.NewMemoryCounter(estimator)
	if cfg.Redis.Enabled() {
		client, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer func() {
			if err := redisdb.CloseRedisClient(client); err != nil {
				logger.Error("Failed to close redis", "error", err)
			}
		}()
		energyCounter = redisRepo.NewEnergyCounter(client, estimator, cfg.Redis.KeyPrefix)
		logger.Info("Redis connected successfully")
	}

	// Init service
	policy, err := adreco.ParseTrackPolicy(cfg.Learning.TrackPolicy)
	if err != nil {
		logger.Fatal("Invalid ad tracking policy", "error", err)
	}

	channelService := channel.NewChannelService(channel.Config{
		SuccessThreshold: cfg.Learning.SuccessThreshold,
		PriorAlpha:       cfg.Learning.PriorAlpha,
		PriorBeta:        cfg.Learning.PriorBeta,
	}, channel.NewBetaSampler())
	adEngine := adreco.NewEngine(adreco.Config{
		Policy:          policy,
		LeaderboardSize: cfg.Learning.LeaderboardSize,
	})
	abTestService := abtest.NewABTestService(abtest.DefaultConfig(), abtest.NewRandPicker())
	catalogService := catalog.NewCatalogService(store.catalog)
	feedbackService := feedback.NewFeedbackService(store.feedback, channelService, adEngine, abTestService, energyCounter)

	// Init handler
	channelHandler := rest.NewChannelHandler(channelService, catalogService, store.recommendations, energyCounter)
	adHandler := rest.NewAdHandler(adEngine, adreco.DefaultConfig().DefaultLimit)
	abTestHandler := rest.NewABTestHandler(abTestService)
	feedbackHandler := rest.NewFeedbackHandler(feedbackService)
	catalogHandler := rest.NewCatalogHandler(catalogService)
	sustainabilityHandler := rest.NewSustainabilityHandler(energyCounter)
	adminHandler := rest.NewAdminHandler(channelService, adEngine)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderTraceID},
	}))

	// Setup routes
	router.SetupOpsRoutes(e)

	api := e.Group("/api/v1")
	router.SetupChannelRoutes(api, channelHandler)
	router.SetupAdRoutes(api, adHandler)
	router.SetupFeedbackRoutes(api, feedbackHandler)
	router.SetupCatalogRoutes(api, catalogHandler)
	router.SetupSustainabilityRoutes(api, sustainabilityHandler)

	if cfg.JWT.AdminRoutes {
		authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
		adminOnly := middleware.AdminOnly()
		router.SetupABTestRoutes(api, abTestHandler, authRequired, adminOnly)
		router.SetupAdminRoutes(api, adminHandler, authRequired, adminOnly)
	} else {
		logger.Warn("ADMIN_ROUTES disabled, admin endpoints are not mounted and ending tests is unauthenticated")
		router.SetupABTestRoutes(api, abTestHandler)
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
