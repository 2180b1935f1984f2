package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/handlers"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/repositories"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/services"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	_ "github.com/MuhamadAgungGumelar/analytics-engine-be/cmd/analytics-api/docs"
)

// @title Analytics Reports API
// @version 1.0
// @description Dashboard reports: timelines, counters and tables computed from pre-aggregated tables
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	utils.InitLogger(cfg.LogLevel, cfg.IsProduction())
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting analytics-api")

	// Init database
	db := database.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	defer db.Close()

	executor, err := analytics.NewGormExecutor(db.GORM, cfg.MetadataCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create query executor")
	}

	// Dashboard worker pool
	poolConfig := jobs.DefaultPoolConfig("dashboard")
	if cfg.DashboardThreads > 0 {
		poolConfig.Concurrency = cfg.DashboardThreads
		poolConfig.QueueSize = cfg.DashboardThreads * 4
	}
	pool := jobs.NewPool(poolConfig)
	defer pool.Stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Init services
	reportRepo := repositories.NewReportRepo(db.GORM)
	tenantResolver := tenant.NewResolver(db.GORM)
	reportService := reports.NewService(reportRepo, executor, tenantResolver, pool, reports.NewMetrics(registry))

	var scheduler services.Scheduler
	if cfg.SchedulerEnabled {
		refreshScheduler := reports.NewRefreshScheduler(reportService)
		if err := refreshScheduler.Load(context.Background(), reportRepo); err != nil {
			log.Error().Err(err).Msg("Failed to load report refresh schedules")
		}
		log.Info().Strs("reports", refreshScheduler.Scheduled()).Msg("Report refresh schedules loaded")
		refreshScheduler.Start()
		defer refreshScheduler.Stop()
		scheduler = refreshScheduler
	}
	configService := services.NewReportConfigService(reportRepo, scheduler)

	// Init handlers
	reportHandler := handlers.NewReportHandler(reportService, configService, tenantResolver, export.NewService(), cfg.QueryTimeout)
	healthHandler := handlers.NewHealthHandler(db.DB)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Analytics Reports API",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check and metrics
	app.Get("/health", healthHandler.GetHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Report routes
	reportHandler.RegisterRoutes(app)

	go func() {
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down analytics-api...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
