package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	Port           string `env:"PORT" envDefault:"8080"`
	Env            string `env:"ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	DashboardThreads  int           `env:"ANALYTICS_DASHBOARD_THREADS" envDefault:"10"`
	MetadataCacheSize int           `env:"ANALYTICS_METADATA_CACHE_SIZE" envDefault:"256"`
	SchedulerEnabled  bool          `env:"ANALYTICS_SCHEDULER_ENABLED" envDefault:"true"`
	QueryTimeout      time.Duration `env:"ANALYTICS_QUERY_TIMEOUT" envDefault:"0s"`
}

// LoadConfig reads .env when present, then the process environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}
	return Parse()
}

// Parse builds the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether ENV selects production, which switches logging to JSON
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
