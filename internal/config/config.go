// =============================================================================
// Buyer Ledger - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration: the YAML
// config file first, then environment variable overrides on top. A local
// .env file is honoured (via godotenv) so secrets can live outside the YAML
// in development and in real environment variables in deployment.
//
// CONFIGURATION AREAS:
//   - server  : HTTP API bind address
//   - redis   : primary buyer document store
//   - postgres: optional secondary relational mirror
//   - import  : spreadsheet import directories and archival
//
// The commission tariff and header synonym tables are deliberately NOT
// configuration; they are named constants in the engine package because they
// encode contractual rules, not deployment choices.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Import   ImportConfig   `yaml:"import"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port bind address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig holds the primary document store connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PostgresConfig holds the optional relational mirror settings.
// When Enabled is false the system runs on Redis alone.
type PostgresConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// ImportConfig holds spreadsheet import settings.
type ImportConfig struct {
	// ArchiveDir is where successfully imported spreadsheets are moved.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveOnImport controls whether imported files are archived at all.
	ArchiveOnImport bool `yaml:"archive_on_import"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads and parses the configuration file, applying defaults.
// A missing file is not an error: the defaults describe a workable local
// setup (localhost Redis, no Postgres mirror).
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file first (if present), so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing).
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
		cfg.Postgres.Enabled = true
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Import.ArchiveDir == "" {
		cfg.Import.ArchiveDir = "./input_archive"
	}
}
