package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"nextGamePoints/app/echo-server/metrics"
	"nextGamePoints/app/echo-server/router"
	"nextGamePoints/business/catalog"
	"nextGamePoints/business/dashboard"
	"nextGamePoints/business/prediction"
	"nextGamePoints/domain"
	"nextGamePoints/internal/middleware"
	"nextGamePoints/internal/repository/memory"
	"nextGamePoints/internal/repository/predictor"
	redisRepo "nextGamePoints/internal/repository/redis"
	"nextGamePoints/internal/repository/static"
	"nextGamePoints/internal/rest"
	"nextGamePoints/internal/scheduler"
	"nextGamePoints/internal/views"
	"nextGamePoints/pkg/config"
	redisdb "nextGamePoints/pkg/database/redis"
	"nextGamePoints/pkg/logger"
	appmetrics "nextGamePoints/pkg/metrics"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Next Game Points Predictor", "version", cfg.App.Version, "backend", cfg.Predictor.Backend)

	metrics.Init()
	appmetrics.Init()

	// Init repo
	catalogRepo := static.NewCatalogRepository()

	var sessionRepo dashboard.SessionRepository
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := redisdb.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisdb.CloseRedisClient(client)
		logger.Info("Redis connected successfully")
		sessionRepo = redisRepo.NewSessionRepository(client, cfg.Session.TTL)
	default:
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL)
	}

	predictorBackend, err := newPredictor(cfg.Predictor)
	if err != nil {
		logger.Fatal("Failed to init predictor", "error", err)
	}

	// Init service
	catalogService := catalog.NewCatalogService(catalogRepo)
	dashboardService := dashboard.NewDashboardService(sessionRepo, catalogService, predictorBackend, dashboard.Config{
		PredictTimeout: cfg.Predictor.Timeout,
		ToastTTL:       cfg.Session.ToastTTL,
	})

	gc, err := scheduler.NewScheduler(dashboardService, cfg.Session.GCInterval)
	if err != nil {
		logger.Fatal("Failed to create scheduler", "error", err)
	}
	if err := gc.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", "error", err)
	}

	// Init handler
	layout := domain.DefaultLayout()
	dashboardHandler := rest.NewDashboardHandler(dashboardService, layout, cfg.Session.RefreshSeconds)
	playerHandler := rest.NewPlayerHandler(catalogService)
	predictHandler := rest.NewPredictHandler(catalogService, predictorBackend, cfg.Predictor.Timeout)
	sessionHandler := rest.NewSessionHandler(dashboardService)
	healthHandler := rest.NewHealthHandler(cfg.App.Name, cfg.App.Version)

	renderer, err := views.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to load templates", "error", err)
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	sessionRequired := middleware.SessionCookie(dashboardService, middleware.SessionCookieConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.App.Environment == "production",
	})

	var predictLimit echo.MiddlewareFunc = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cfg.RateLimit.Enabled {
		predictLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		})
	}

	// Setup routes
	router.SetupDashboardRoutes(e, dashboardHandler, sessionRequired, predictLimit)
	api := e.Group("/api/v1")
	router.SetupPlayerRoutes(api, playerHandler)
	router.SetupPredictRoutes(api, predictHandler)
	router.SetupSessionRoutes(api, sessionHandler, predictLimit)
	router.SetupOpsRoutes(e, healthHandler)

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := gc.Stop(); err != nil {
		logger.Error("Scheduler shutdown error", "error", err)
	}

	if err := dashboardService.Shutdown(ctx); err != nil {
		logger.Error("Pending predictions did not finish", "error", err)
	}

	logger.Info("Server stopped")
}

func newPredictor(cfg config.PredictorConfig) (prediction.Predictor, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		return predictor.NewHTTPPredictor(predictor.HTTPConfig{
			BaseURL:           cfg.URL,
			BasicAuthUsername: cfg.BasicAuthUsername,
			BasicAuthPassword: cfg.BasicAuthPassword,
			Timeout:           cfg.Timeout,
		}), nil
	default:
		mockCfg := prediction.DefaultMockConfig()
		mockCfg.MinDelay = cfg.MinDelay
		mockCfg.MaxDelay = cfg.MaxDelay
		mockCfg.FailureRate = cfg.FailureRate
		mockCfg.ConfidenceLevel = cfg.ConfidenceLevel
		mockCfg.Seed = cfg.Seed
		mock, err := prediction.NewMockPredictor(mockCfg)
		if err != nil {
			return nil, err
		}
		return mock, nil
	}
}
