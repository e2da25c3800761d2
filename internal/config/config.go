// Package config loads application configuration from defaults, an optional
// config file and SMARTURINE_ prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Taby01/SmartUrine-Dash/internal/alertlog"
	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// Alert log driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Manager owns the loaded configuration.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/smarturine-dash/")

	viper.SetEnvPrefix("SMARTURINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// The config file is optional; defaults and env vars are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// The in-memory SQLite profile keeps all alert state in process memory,
	// discarded on restart.
	viper.SetDefault("alertlog.driver", DriverSQLite)
	viper.SetDefault("alertlog.dsn", alertlog.MemoryDSN)
	viper.SetDefault("alertlog.migrations_path", "migrations")

	viper.SetDefault("classifier.cache_size", 512)

	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.requests_per_second", 20)
	viper.SetDefault("ratelimit.burst", 40)
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns the HTTP server configuration.
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetAlertLogConfig returns the alert log configuration.
func (m *Manager) GetAlertLogConfig() *domain.AlertLogConfig {
	return &m.config.AlertLog
}

// Reload reloads the configuration.
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.AlertLog.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid alert log driver: %s", config.AlertLog.Driver)
	}
	if config.AlertLog.DSN == "" {
		return fmt.Errorf("alert log DSN is required")
	}

	if config.Classifier.CacheSize <= 0 {
		return fmt.Errorf("classifier cache size must be positive: %d", config.Classifier.CacheSize)
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limit requests per second must be positive")
		}
		if config.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode.
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

// IsDevelopment returns true if running in development mode.
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Environment)
	return env == "development" || env == "dev" || env == ""
}
