package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
)

// Config holds the server configuration
type Config struct {
	// Port the HTTP server listens on
	// Default: 8080
	Port string

	// GinMode is passed to gin.SetMode (debug, release or test)
	// Default: release
	GinMode string

	// LogLevel is one of debug, info, warn, error
	// Default: info
	LogLevel string

	// OverallMode selects how the overall certainty is computed
	// Default: explicit
	OverallMode analysis.OverallMode

	// CacheTTL is how long /api/analyze responses are cached, 0 disables
	// Default: 15m
	CacheTTL time.Duration

	// RedisAddr enables the shared rate limiter when set
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RateLimitPerMinute is the per-IP budget for evaluation endpoints
	// Default: 60, Range: 1-10000
	RateLimitPerMinute int

	// AllowedOrigins for CORS; a single "*" allows every origin
	AllowedOrigins []string

	// RequestTimeout bounds the time spent on one request
	// Default: 10s
	RequestTimeout time.Duration

	// MaxBodyBytes bounds request bodies
	// Default: 16384
	MaxBodyBytes int64

	// MaxConcurrent caps evaluations running at once; excess requests wait
	// until RequestTimeout
	// Default: 64
	MaxConcurrent int

	EnableSwagger bool
	EnableHSTS    bool
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Port:               "8080",
		GinMode:            "release",
		LogLevel:           "info",
		OverallMode:        analysis.OverallExplicit,
		CacheTTL:           15 * time.Minute,
		RateLimitPerMinute: 60,
		AllowedOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		RequestTimeout:     10 * time.Second,
		MaxBodyBytes:       16 << 10,
		MaxConcurrent:      64,
		EnableSwagger:      true,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (got %q)", c.Port)
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode must be debug, release or test (got %q)", c.GinMode)
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level must be debug, info, warn or error (got %q)", c.LogLevel)
	}

	if _, ok := analysis.ParseOverallMode(string(c.OverallMode)); !ok {
		return fmt.Errorf("overall_mode must be explicit or derived (got %q)", c.OverallMode)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative (got %s)", c.CacheTTL)
	}

	if c.RedisDB < 0 {
		return fmt.Errorf("redis_db cannot be negative (got %d)", c.RedisDB)
	}

	if c.RateLimitPerMinute < 1 || c.RateLimitPerMinute > 10000 {
		return fmt.Errorf("rate_limit_per_min must be between 1 and 10000 (got %d)", c.RateLimitPerMinute)
	}

	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive (got %s)", c.RequestTimeout)
	}

	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("max_body_bytes must be at least 1024 (got %d)", c.MaxBodyBytes)
	}

	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be positive (got %d)", c.MaxConcurrent)
	}

	return nil
}

// AllowAllOrigins reports whether CORS is open to every origin
func (c Config) AllowAllOrigins() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// SlogLevel returns LogLevel as a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %s, GinMode: %s, LogLevel: %s, OverallMode: %s, CacheTTL: %s, "+
			"Redis: %t, RateLimit: %d/min, Origins: %v, Timeout: %s, MaxBody: %d, MaxConcurrent: %d, Swagger: %t, HSTS: %t}",
		c.Port, c.GinMode, c.LogLevel, c.OverallMode, c.CacheTTL,
		c.RedisAddr != "", c.RateLimitPerMinute, c.AllowedOrigins, c.RequestTimeout,
		c.MaxBodyBytes, c.MaxConcurrent, c.EnableSwagger, c.EnableHSTS,
	)
}

// FromEnv creates a Config from environment variables, falling back to
// defaults
//
// Environment variables:
//   - PORT (default: 8080)
//   - GIN_MODE (default: release)
//   - LOG_LEVEL (default: info)
//   - CTA_OVERALL_MODE: explicit or derived (default: explicit)
//   - CTA_CACHE_TTL: Go duration, 0 disables (default: 15m)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: shared rate limiter store
//   - CTA_RATE_LIMIT_PER_MIN (default: 60)
//   - CTA_ALLOWED_ORIGINS: comma separated, "*" allows all
//   - CTA_REQUEST_TIMEOUT (default: 10s)
//   - CTA_MAX_BODY_BYTES (default: 16384)
//   - CTA_MAX_CONCURRENT (default: 64)
//   - CTA_ENABLE_SWAGGER (default: true)
//   - ENABLE_HSTS (default: false)
//
// Returns an error if any environment variable has an invalid value.
func FromEnv() (Config, error) {
	cfg := Default()

	var mode string
	var origins string

	steps := []func() error{
		func() error { return parseEnvString("PORT", &cfg.Port) },
		func() error { return parseEnvString("GIN_MODE", &cfg.GinMode) },
		func() error { return parseEnvString("LOG_LEVEL", &cfg.LogLevel) },
		func() error { return parseEnvString("CTA_OVERALL_MODE", &mode) },
		func() error { return parseEnvDuration("CTA_CACHE_TTL", &cfg.CacheTTL) },
		func() error { return parseEnvString("REDIS_ADDR", &cfg.RedisAddr) },
		func() error { return parseEnvString("REDIS_PASSWORD", &cfg.RedisPassword) },
		func() error { return parseEnvInt("REDIS_DB", &cfg.RedisDB) },
		func() error { return parseEnvInt("CTA_RATE_LIMIT_PER_MIN", &cfg.RateLimitPerMinute) },
		func() error { return parseEnvString("CTA_ALLOWED_ORIGINS", &origins) },
		func() error { return parseEnvDuration("CTA_REQUEST_TIMEOUT", &cfg.RequestTimeout) },
		func() error { return parseEnvInt64("CTA_MAX_BODY_BYTES", &cfg.MaxBodyBytes) },
		func() error { return parseEnvInt("CTA_MAX_CONCURRENT", &cfg.MaxConcurrent) },
		func() error { return parseEnvBool("CTA_ENABLE_SWAGGER", &cfg.EnableSwagger) },
		func() error { return parseEnvBool("ENABLE_HSTS", &cfg.EnableHSTS) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return cfg, err
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if mode != "" {
		cfg.OverallMode = analysis.OverallMode(strings.ToLower(mode))
	}
	if origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvInt64(key string, dest *int64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvDuration(key string, dest *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvString(key string, dest *string) error {
	if value := os.Getenv(key); value != "" {
		*dest = value
	}
	return nil
}
