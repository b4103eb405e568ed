// Package config provides centralized configuration management for the board.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Cache    CacheConfig
	Display  DisplayConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout bounds a request, including the wait for a refetch
	// after an action (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// BackendConfig points the board at the REST API that owns the records.
type BackendConfig struct {
	// URL is the backend base URL (required)
	URL string `env:"BACKEND_URL" envAlt:"API_URL" required:"true"`

	// Timeout bounds a single backend request (default: 10s)
	Timeout time.Duration `env:"BACKEND_TIMEOUT" default:"10s"`

	// APIKey is sent as X-API-Key when set
	APIKey string `env:"BACKEND_API_KEY"`
}

// CacheConfig tunes the row cache.
type CacheConfig struct {
	// KeepPreviousData shows the last rows while a refetch runs (default: true)
	KeepPreviousData bool `env:"CACHE_KEEP_PREVIOUS_DATA" default:"true"`

	// FetchTimeout bounds each fetch; 0 disables it (default: 0s)
	FetchTimeout time.Duration `env:"CACHE_FETCH_TIMEOUT" default:"0s"`

	// PrimeTimeout bounds the wait for first fetches at startup (default: 10s)
	PrimeTimeout time.Duration `env:"CACHE_PRIME_TIMEOUT" default:"10s"`
}

// DisplayConfig holds rendering choices.
type DisplayConfig struct {
	// TimeStyle is compact ("8AM") or padded ("08:00AM") (default: compact)
	TimeStyle string `env:"DISPLAY_TIME_STYLE" default:"compact"`
}

// RateLimitConfig limits requests per client IP.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
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
