// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/dataset"
	"github.com/JonMunkholm/StandardsTable/internal/theme"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	View     ViewConfig
	Export   ExportConfig
	Search   SearchConfig
	Theme    ThemeConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatasetConfig selects where records are loaded from.
// A file path wins over a database URL; with neither set the embedded sample
// dataset is served.
type DatasetConfig struct {
	// Path is a .yaml, .json, .toml, or .csv dataset file, optionally .gz or .zst
	Path string `env:"DATASET_PATH"`

	// DatabaseURL is a PostgreSQL connection string for a one-time snapshot
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the table (optionally schema-qualified) to snapshot (default: standards)
	Table string `env:"DATASET_TABLE" default:"standards"`

	// LoadTimeout bounds the snapshot query (default: 30s)
	LoadTimeout time.Duration `env:"DATASET_LOAD_TIMEOUT" default:"30s"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ViewConfig holds per-page view registry settings.
type ViewConfig struct {
	// IdleTTL is how long an untouched view survives (default: 2h)
	IdleTTL time.Duration `env:"VIEW_IDLE_TTL" default:"2h"`

	// SweepInterval is how often idle views are evicted (default: 5m)
	SweepInterval time.Duration `env:"VIEW_SWEEP_INTERVAL" default:"5m"`

	// MaxViews caps live views; the least recently used is evicted (default: 10000)
	MaxViews int `env:"VIEW_MAX" default:"10000"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	// CSVMode is the field encoding: quoted or literal (default: quoted)
	CSVMode string `env:"EXPORT_CSV_MODE" default:"quoted"`

	// Dir is where the export CLI writes files (default: current directory)
	Dir string `env:"EXPORT_DIR" default:"."`
}

// SearchConfig holds free-text search settings.
type SearchConfig struct {
	// Matcher is the registered matcher name: substring or words (default: substring)
	Matcher string `env:"SEARCH_MATCHER" default:"substring"`
}

// ThemeConfig holds theme settings.
type ThemeConfig struct {
	// DefaultMode is the mode of a fresh page: dark or light (default: dark)
	DefaultMode string `env:"THEME_DEFAULT_MODE" default:"dark"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// ExportLimit is requests per minute for export endpoints (default: 30)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Source names the configured record source: "file", "postgres", or
// "embedded".
func (c *DatasetConfig) Source() string {
	return c.Loader().Kind()
}

// Loader converts the settings into a dataset.Source.
func (c *DatasetConfig) Loader() dataset.Source {
	return dataset.Source{
		Path: c.Path,
		Postgres: dataset.PostgresConfig{
			URL:             c.DatabaseURL,
			MaxConns:        c.MaxConns,
			MinConns:        c.MinConns,
			MaxConnLifetime: c.MaxConnLifetime,
			MaxConnIdleTime: c.MaxConnIdleTime,
		},
		Table:       c.Table,
		LoadTimeout: c.LoadTimeout,
	}
}

// Service converts the view, export, search, and theme settings into a
// core.ServiceConfig. Values are assumed to have passed Validate.
func (c *Config) Service() core.ServiceConfig {
	mode, _ := core.ParseExportMode(c.Export.CSVMode)
	defaultTheme, _ := theme.ParseMode(c.Theme.DefaultMode)
	return core.ServiceConfig{
		Matcher:      c.Search.Matcher,
		ExportMode:   mode,
		DefaultTheme: defaultTheme,
		Views: core.ViewStoreConfig{
			IdleTTL:  c.View.IdleTTL,
			MaxViews: c.View.MaxViews,
		},
	}
}
