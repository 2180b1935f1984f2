package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/utils"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

func main() {
	var module string
	var command string

	flag.StringVar(&module, "module", "analytics", "Module to migrate")
	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, version, force)")
	flag.Parse()

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	utils.InitLogger(cfg.LogLevel, cfg.IsProduction())

	// Migrations are kept per driver
	migrationPath := fmt.Sprintf("file://migrations/%s/%s", module, cfg.DatabaseDriver)
	databaseURL := migrationURL(cfg.DatabaseDriver, cfg.DatabaseURL)

	log.Info().Str("module", module).Str("path", migrationPath).Str("database", maskDatabaseURL(databaseURL)).Msg("🔄 Running migrations")

	// Create migrate instance
	m, err := migrate.New(migrationPath, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create migrate instance")
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		log.Info().Msg("⬆️  Running UP migrations...")
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("❌ Migration UP failed")
		}
		log.Info().Msg("✅ Migrations UP completed!")

	case "down":
		log.Info().Msg("⬇️  Running DOWN migrations...")
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("❌ Migration DOWN failed")
		}
		log.Info().Msg("✅ Migrations DOWN completed!")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("❌ Failed to get version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("📌 Current version")

	case "force":
		if len(flag.Args()) < 1 {
			log.Fatal().Msg("❌ Please provide version number for force command")
		}
		forceVersion, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Invalid version number")
		}
		if err := m.Force(forceVersion); err != nil {
			log.Fatal().Err(err).Msg("❌ Force failed")
		}
		log.Info().Int("version", forceVersion).Msg("✅ Forced version")

	default:
		log.Fatal().Str("cmd", command).Msg("❌ Unknown command (use: up, down, version, force)")
	}
}

// migrationURL turns the sqlite file path used by the API into a migrate URL
func migrationURL(driver, connStr string) string {
	if driver == database.DriverSQLite && !strings.Contains(connStr, "://") {
		return "sqlite://" + connStr
	}
	return connStr
}

// maskDatabaseURL hides password in database URL for logging
func maskDatabaseURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:20] + "***" + url[len(url)-10:]
}
