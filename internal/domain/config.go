package domain

import "time"

// Config is the full application configuration, populated by the config
// manager from defaults, file and environment.
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	AlertLog    AlertLogConfig   `mapstructure:"alertlog"`
	Classifier  ClassifierConfig `mapstructure:"classifier"`
	RateLimit   RateLimitConfig  `mapstructure:"ratelimit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AlertLogConfig selects the alert log backend. The default sqlite driver
// with the ":memory:" DSN keeps all state in process memory, discarded on
// restart; the postgres driver is the opt-in persistent profile.
type AlertLogConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// ClassifierConfig holds classification service settings.
type ClassifierConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// RateLimitConfig holds per-client API rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}
