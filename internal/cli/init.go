// Package cli provides common initialization shared by the binaries:
// logging, .env loading, configuration, and store selection.
package cli

import (
	"io"
	"os"

	"github.com/joho/godotenv"

	"bilancio/internal/config"
	applog "bilancio/internal/log"
	"bilancio/internal/store"
	"bilancio/internal/store/file"
	"bilancio/internal/store/memory"
	"bilancio/internal/store/sqlite"
)

// SetupLogger initializes structured logging with default settings and
// sets it as the process default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore builds the configured document store. The returned closer
// is a no-op for stores without resources to release.
func OpenStore(logger *applog.Logger, cfg *config.Config) (store.DocumentStore, io.Closer) {
	switch cfg.DataBackend {
	case "sqlite":
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite store", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
		return s, s
	case "memory":
		logger.Info("Initialized in-memory store", "backend", cfg.DataBackend)
		return memory.New(), nopCloser{}
	default:
		logger.Info("Initialized file store", "backend", cfg.DataBackend, "path", cfg.BudgetFilePath)
		return file.New(cfg.BudgetFilePath), nopCloser{}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
