// Package cli provides common initialization utilities for cmd binaries.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"shygyn/internal/config"
	"shygyn/internal/kv"
	"shygyn/internal/kv/memory"
	"shygyn/internal/kv/sqlite"
	applog "shygyn/internal/log"
)

// SetupLogger initializes structured logging with default settings and sets
// it as the process default.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are ignored
// as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenKV selects and opens the configured key-value backend.
func OpenKV(logger *slog.Logger, cfg *config.Config) (kv.Store, error) {
	switch cfg.DataBackend {
	case "sqlite":
		st, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", applog.FieldBackend, cfg.DataBackend, "db_path", cfg.SQLiteDBPath)
		return st, nil
	case "memory":
		logger.Info("Initialized memory backend", applog.FieldBackend, cfg.DataBackend)
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
