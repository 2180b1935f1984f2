package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps both GORM and the underlying sql.DB
type DB struct {
	*sql.DB
	GORM   *gorm.DB
	Driver string
}

// Open connects to the analytics database. driver is "postgres" (lib/pq) or "sqlite" (modernc).
func Open(driver, connStr string, logLevel logger.LogLevel) (*DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("database connection string is empty")
	}

	var dialector gorm.Dialector
	var sqlDB *sql.DB
	var err error

	switch driver {
	case DriverPostgres, "":
		driver = DriverPostgres
		sqlDB, err = sql.Open("postgres", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})

		// Connection pool settings
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)

	case DriverSQLite:
		sqlDB, err = sql.Open("sqlite", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB})

		// A single connection keeps in-memory databases shared across queries
		sqlDB.SetMaxOpenConns(1)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("driver", driver).Msg("Database connected (GORM)")
	return &DB{DB: sqlDB, GORM: gormDB, Driver: driver}, nil
}

// NewDB is Open for process startup: it exits on failure
func NewDB(driver, connStr string) *DB {
	db, err := Open(driver, connStr, logger.Warn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	return db
}

// NewTestDB opens a private in-memory sqlite database
func NewTestDB() (*DB, error) {
	return Open(DriverSQLite, ":memory:", logger.Silent)
}

func (db *DB) Close() error {
	log.Info().Msg("Closing database connection")
	return db.DB.Close()
}
