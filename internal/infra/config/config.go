package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the engine.
type AppConfig struct {
	DatabaseURL string
	LogLevel    string
	Environment string
	// CronSpecReconcile schedules the daily reconciliation sweep over all
	// users with chaseable invoices.
	CronSpecReconcile string
	// CronSpecEmission schedules the job that turns due recurring
	// definitions into invoices.
	CronSpecEmission string
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv never overrides variables already set in the
// environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecReconcile = os.Getenv("CRON_SPEC_RECONCILE")
	if cfg.CronSpecReconcile == "" {
		cfg.CronSpecReconcile = "0 7 * * *" // Default: 07:00 daily
	}

	cfg.CronSpecEmission = os.Getenv("CRON_SPEC_EMISSION")
	if cfg.CronSpecEmission == "" {
		cfg.CronSpecEmission = "30 6 * * *" // Default: 06:30 daily, before the sweep
	}

	return cfg, nil
}
