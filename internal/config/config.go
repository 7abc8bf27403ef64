// Package config loads limitdiff settings from environment variables, with
// defaults for everything, and validates them on startup to fail fast on
// misconfiguration. Parse settings can additionally come from a YAML
// profile (see LoadProfile) and from command-line flags.
package config

import (
	"net"
	"slices"
	"strconv"
	"time"

	"github.com/JonMunkholm/limitdiff/internal/limits"
)

// Config holds all application configuration.
type Config struct {
	Parse    ParseConfig
	Server   ServerConfig
	Compare  CompareConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ParseConfig describes how limit tables are scanned.
type ParseConfig struct {
	// ParametricMarker locates the parametric column (default: parametric)
	ParametricMarker string `env:"LIMITDIFF_PARAMETRIC" default:"parametric"`

	// Metrics is the ordered list of metric row labels (default: min,max,avg)
	Metrics []string `env:"LIMITDIFF_METRICS" default:"min,max,avg"`

	// BeginFromParametric makes the marker column a data column (default: false)
	BeginFromParametric bool `env:"LIMITDIFF_BEGIN_FROM_PARAMETRIC" default:"false"`

	// NullValues are cell values meaning "no value" (default: N/A,NULL,-)
	NullValues []string `env:"LIMITDIFF_NULL_VALUES" default:"N/A,NULL,-"`

	// BlankIsNull treats empty cells as null (default: true)
	BlankIsNull bool `env:"LIMITDIFF_BLANK_IS_NULL" default:"true"`

	// KeyMarker identifies the row of parametric names (default: key)
	KeyMarker string `env:"LIMITDIFF_KEY" default:"key"`

	// Sheet is the XLSX worksheet to read; empty means the first sheet
	Sheet string `env:"LIMITDIFF_SHEET"`
}

// Options converts the parse settings to engine options.
func (p ParseConfig) Options() limits.Options {
	nulls := slices.Clone(p.NullValues)
	if p.BlankIsNull && !slices.Contains(nulls, "") {
		nulls = append(nulls, "")
	}
	return limits.Options{
		ParametricMarker:    p.ParametricMarker,
		MetricLabels:        slices.Clone(p.Metrics),
		IncludeMarkerColumn: p.BeginFromParametric,
		NullTokens:          nulls,
		KeyRowMarker:        p.KeyMarker,
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing the response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CompareConfig bounds comparison work.
type CompareConfig struct {
	// MaxFileSize is the maximum size of one uploaded table in bytes (default: 32MB)
	MaxFileSize int64 `env:"COMPARE_MAX_FILE_SIZE" default:"33554432"`

	// MaxConcurrent is the maximum number of parallel comparisons (default: 4)
	MaxConcurrent int `env:"COMPARE_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a comparison slot (default: 10s)
	MaxWaitTime time.Duration `env:"COMPARE_MAX_WAIT_TIME" default:"10s"`

	// Timeout is the maximum duration of one comparison (default: 1m)
	Timeout time.Duration `env:"COMPARE_TIMEOUT" default:"1m"`
}

// RateLimitConfig holds per-IP request limits for the API.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the number of API requests allowed per IP (default: 60)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`

	// RequireAPIKey rejects API requests without a valid key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

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
