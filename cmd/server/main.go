package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/config"
	"github.com/kaspistat/catalog-service/internal/database"
	"github.com/kaspistat/catalog-service/internal/jobs"
	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/middleware"
	"github.com/kaspistat/catalog-service/internal/sweepers"
	"github.com/kaspistat/catalog-service/internal/telemetry"
)

// @title Catalog Service API
// @version 1.0
// @description Category tree, product history and subscription API of the marketplace catalog.
// @BasePath /
// @securityDefinitions.apikey InternalAPIKey
// @in header
// @name X-Internal-API-Key

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Info().Msg("Starting catalog service")

	// Money fields are served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Environment: cfg.Telemetry.Environment,
	}))
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry disabled")
	}

	if err := database.Connect(
		ctx,
		cfg.Database.URL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()
	logger.Info().Msg("Database connected")

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, database.Pool()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		logger.Info().Msg("Database schema applied")
	}

	recorder := metrics.NewRecorder()
	app := newApp(cfg, database.Pool(), logger, recorder)

	limiter := middleware.NewIPRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		IdleTTL:           cfg.RateLimit.IdleTTL,
	})
	go limiter.Run(ctx)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(app, routerOptions{
		apiKey:   cfg.Auth.InternalAPIKey,
		limiter:  limiter,
		limitAll: cfg.RateLimit.Enabled,
		logger:   *logger,
		metrics:  recorder,
	})

	var sweeper *sweepers.SubscriptionSweeper
	if cfg.Jobs.SubscriptionSweepEnabled {
		sweeper = sweepers.NewSubscriptionSweeper(app.subscriptions, logger, cfg.Jobs.SubscriptionSweepInterval)
		go sweeper.Start(ctx)
	}

	cleanupCfg := jobs.DefaultCleanupConfig()
	cleanupCfg.Enabled = cfg.Jobs.RequestLogCleanupEnabled
	cleanupCfg.Spec = cfg.Jobs.RequestLogCleanupSpec
	cleanupCfg.Retention = cfg.Jobs.RequestLogRetention()
	scheduler, err := jobs.NewScheduler(jobs.NewRequestLogCleanup(app.requests, cleanupCfg, logger), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to schedule jobs")
	}
	scheduler.Start()

	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop()
	}
	scheduler.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if shutdownTelemetry != nil {
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "catalog-service").Logger()
	return &logger
}
