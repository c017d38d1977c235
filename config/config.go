// Package config loads the bookkeeping CLI configuration from a YAML file
// with environment variable overrides (including a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in the configuration.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "memory".
	Backend string `yaml:"backend"`
	// DBPath is the SQLite database file path.
	DBPath string `yaml:"db_path"`
	// Currency is the default currency for new accounts.
	Currency string `yaml:"currency"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// Load reads the YAML configuration file at path, then applies environment
// overrides. A missing file is not an error: defaults and the environment
// alone are a valid configuration. A .env file in the current directory is
// loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Backend:  BackendSQLite,
		DBPath:   "ledger.db",
		Currency: "CNY",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
			}
		}
	}

	if v := os.Getenv("LEDGER_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("LEDGER_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LEDGER_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	if cfg.Backend != BackendSQLite && cfg.Backend != BackendMemory {
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}
