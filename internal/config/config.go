package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// File store
	BudgetFilePath string

	// Database
	SQLiteDBPath string

	// Export
	ExportDir    string
	ExportFormat string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		DataBackend:    getEnv("DATA_BACKEND", "file"),
		BudgetFilePath: getEnv("BUDGET_FILE_PATH", "./data/budget.json"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/bilancio.db"),
		ExportDir:      getEnv("EXPORT_DIR", "./exports"),
		ExportFormat:   getEnv("EXPORT_FORMAT", "json"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"file", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.BudgetFilePath == "" {
			errors = append(errors, "budget file path cannot be empty when using file backend")
		} else if err := ensureDir(filepath.Dir(c.BudgetFilePath)); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create budget file directory: %v", err))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(filepath.Dir(c.SQLiteDBPath)); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create SQLite database directory: %v", err))
		}
	}

	if c.ExportFormat != "json" && c.ExportFormat != "csv" {
		errors = append(errors, fmt.Sprintf("invalid export format '%s': must be 'json' or 'csv'", c.ExportFormat))
	}
	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
