// Package config provides configuration management for the Uppi client.
// It supports environment variable-based configuration with validation and default values,
// plus an optional overlay file for settings that are awkward to pass through the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
)

const (
	// MinWatchInterval is the shortest allowed monitor polling interval.
	MinWatchInterval = time.Second
)

// Platform identifies which mobile client the requests claim to come from.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// StorageBackend selects where the session and preferences are persisted.
type StorageBackend string

const (
	BackendSQLite StorageBackend = "sqlite"
	BackendRedis  StorageBackend = "redis"
	BackendMemory StorageBackend = "memory"
)

// Config represents the complete configuration for the Uppi client,
// aggregating all component-specific configurations.
type Config struct {
	// ConfigFile is an optional YAML, JSON or TOML file merged over the environment.
	ConfigFile string `envconfig:"CONFIG_FILE" mapstructure:"-"`
	// Environment holds environment-specific settings.
	Environment EnvironmentConfig `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	// API contains settings for talking to the Uppi REST API.
	API APIConfig `envconfig:"API" mapstructure:"api"`
	// Storage selects the persistence backend.
	Storage StorageConfig `envconfig:"STORAGE" mapstructure:"storage"`
	// Redis contains Redis connection and pool configuration.
	Redis RedisConfig `envconfig:"REDIS" mapstructure:"redis"`
	// Logging contains logging configuration.
	Logging LoggingConfig `envconfig:"LOGGING" mapstructure:"logging"`
	// Metrics contains the Prometheus endpoint configuration used in watch mode.
	Metrics MetricsConfig `envconfig:"METRICS" mapstructure:"metrics"`
	// Watch contains monitor polling settings.
	Watch WatchConfig `envconfig:"WATCH" mapstructure:"watch"`
}

type Environment string

const (
	Local   Environment = "LOCAL"
	NonProd Environment = "NONPROD"
	Prod    Environment = "PROD"
)

// EnvironmentConfig holds environment-specific settings.
type EnvironmentConfig struct {
	// Environment indicates the current running environment (LOCAL, NONPROD, PROD).
	Environment Environment `envconfig:"ENV" default:"PROD" mapstructure:"env"`
}

// APIConfig holds the REST API settings.
type APIConfig struct {
	// BaseURL overrides the environment's API base URL when set.
	BaseURL string `envconfig:"BASE_URL" mapstructure:"base_url"`
	// Platform picks the client identification string (ios, android).
	Platform Platform `envconfig:"PLATFORM" default:"ios" mapstructure:"platform"`
	// Timeout bounds a single request. Zero leaves the transport default in place.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"0s" mapstructure:"timeout"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Backend is one of sqlite, redis, memory.
	Backend StorageBackend `envconfig:"BACKEND" default:"sqlite" mapstructure:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `envconfig:"SQLITE_PATH" default:"uppi.db" mapstructure:"sqlite_path"`
}

// RedisConfig contains Redis connection configuration including
// connection pool settings and timeouts.
type RedisConfig struct {
	// URL is the Redis connection URL.
	URL string `envconfig:"URL"           default:"redis://localhost:6379" mapstructure:"url"`
	// Password is the Redis authentication password.
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	// DB is the Redis database number to use.
	DB int `envconfig:"DB"            default:"0" mapstructure:"db"`
	// MaxRetries is the maximum number of retry attempts for failed operations.
	MaxRetries int `envconfig:"MAX_RETRIES"   default:"3" mapstructure:"max_retries"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `envconfig:"POOL_SIZE"     default:"4" mapstructure:"pool_size"`
	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration `envconfig:"DIAL_TIMEOUT"  default:"5s" mapstructure:"dial_timeout"`
	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT"  default:"3s" mapstructure:"read_timeout"`
	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s" mapstructure:"write_timeout"`
}

// LoggingConfig contains logging configuration including
// log level, format, and output destination.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `envconfig:"LEVEL"  default:"warn" mapstructure:"level"`
	// Format is the log output format (json, text).
	Format string `envconfig:"FORMAT" default:"text" mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, discard, file path).
	Output string `envconfig:"OUTPUT" default:"stderr" mapstructure:"output"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `envconfig:"ENABLED" default:"false" mapstructure:"enabled"`
	Addr    string `envconfig:"ADDR"    default:":9090" mapstructure:"addr"`
}

// WatchConfig controls monitor polling in watch mode.
type WatchConfig struct {
	// Interval between two monitor list fetches.
	Interval time.Duration `envconfig:"INTERVAL" default:"1m" mapstructure:"interval"`
	// PollsPerMinute caps polls across every watcher sharing the Redis backend.
	// Zero disables the shared limit.
	PollsPerMinute int `envconfig:"POLLS_PER_MINUTE" default:"0" mapstructure:"polls_per_minute"`
}

// Load reads configuration from environment variables, merges the optional
// overlay file and returns a validated Config instance.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.ConfigFile != "" {
		if err := loadFileOverlay(cfg.ConfigFile, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks every configuration value the client depends on.
func (c *Config) Validate() error {
	switch c.API.Platform {
	case PlatformIOS, PlatformAndroid:
	default:
		return fmt.Errorf("unsupported platform: %q", c.API.Platform)
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("sqlite path is required for the sqlite backend")
		}
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage.Backend)
	}

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid API base URL: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("API base URL must be an absolute http(s) URL: %q", c.API.BaseURL)
		}
	}

	if c.API.Timeout < 0 {
		return errors.New("API timeout must not be negative")
	}

	if c.Watch.Interval < MinWatchInterval {
		return fmt.Errorf("watch interval must be at least %s", MinWatchInterval)
	}

	if c.Watch.PollsPerMinute < 0 {
		return errors.New("polls per minute must not be negative")
	}

	return nil
}

// APIBaseURL returns the configured base URL, falling back to the environment default.
func (c *Config) APIBaseURL() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return c.GetServiceURLs().APIBaseURL
}

// UserAgent returns the client identification string for the configured platform.
func (c *Config) UserAgent() string {
	if c.API.Platform == PlatformAndroid {
		return constants.UserAgentAndroid
	}
	return constants.UserAgentApple
}
