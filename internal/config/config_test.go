package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
)

var envKeys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "CTA_OVERALL_MODE", "CTA_CACHE_TTL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CTA_RATE_LIMIT_PER_MIN",
	"CTA_ALLOWED_ORIGINS", "CTA_REQUEST_TIMEOUT", "CTA_MAX_BODY_BYTES", "CTA_MAX_CONCURRENT",
	"CTA_ENABLE_SWAGGER", "ENABLE_HSTS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
		check   func(t *testing.T, cfg Config)
	}{
		{
			name:    "no environment variables uses defaults",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "valid custom configuration",
			envVars: map[string]string{
				"PORT":                   "9090",
				"GIN_MODE":               "debug",
				"LOG_LEVEL":              "DEBUG",
				"CTA_OVERALL_MODE":       "Derived",
				"CTA_CACHE_TTL":          "0",
				"REDIS_ADDR":             "localhost:6379",
				"REDIS_DB":               "2",
				"CTA_RATE_LIMIT_PER_MIN": "120",
				"CTA_ALLOWED_ORIGINS":    "https://a.example, https://b.example,",
				"CTA_REQUEST_TIMEOUT":    "3s",
				"CTA_MAX_BODY_BYTES":     "4096",
				"CTA_MAX_CONCURRENT":     "8",
				"CTA_ENABLE_SWAGGER":     "false",
				"ENABLE_HSTS":            "true",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "9090", cfg.Port)
				assert.Equal(t, "debug", cfg.GinMode)
				assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
				assert.Equal(t, analysis.OverallDerived, cfg.OverallMode)
				assert.Equal(t, time.Duration(0), cfg.CacheTTL)
				assert.Equal(t, "localhost:6379", cfg.RedisAddr)
				assert.Equal(t, 2, cfg.RedisDB)
				assert.Equal(t, 120, cfg.RateLimitPerMinute)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
				assert.False(t, cfg.AllowAllOrigins())
				assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
				assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
				assert.Equal(t, 8, cfg.MaxConcurrent)
				assert.False(t, cfg.EnableSwagger)
				assert.True(t, cfg.EnableHSTS)
			},
		},
		{
			name:    "wildcard origin",
			envVars: map[string]string{"CTA_ALLOWED_ORIGINS": "*"},
			check: func(t *testing.T, cfg Config) {
				assert.True(t, cfg.AllowAllOrigins())
			},
		},
		{name: "port not a number", envVars: map[string]string{"PORT": "http"}, wantErr: "port"},
		{name: "port out of range", envVars: map[string]string{"PORT": "70000"}, wantErr: "port"},
		{name: "unknown gin mode", envVars: map[string]string{"GIN_MODE": "prod"}, wantErr: "gin_mode"},
		{name: "unknown log level", envVars: map[string]string{"LOG_LEVEL": "loud"}, wantErr: "log_level"},
		{name: "unknown overall mode", envVars: map[string]string{"CTA_OVERALL_MODE": "average"}, wantErr: "overall_mode"},
		{name: "bad ttl", envVars: map[string]string{"CTA_CACHE_TTL": "soon"}, wantErr: "CTA_CACHE_TTL"},
		{name: "negative ttl", envVars: map[string]string{"CTA_CACHE_TTL": "-1m"}, wantErr: "cache_ttl"},
		{name: "bad redis db", envVars: map[string]string{"REDIS_DB": "one"}, wantErr: "REDIS_DB"},
		{name: "rate limit zero", envVars: map[string]string{"CTA_RATE_LIMIT_PER_MIN": "0"}, wantErr: "rate_limit_per_min"},
		{name: "empty origins list", envVars: map[string]string{"CTA_ALLOWED_ORIGINS": " , "}, wantErr: "allowed_origins"},
		{name: "zero timeout", envVars: map[string]string{"CTA_REQUEST_TIMEOUT": "0s"}, wantErr: "request_timeout"},
		{name: "tiny body limit", envVars: map[string]string{"CTA_MAX_BODY_BYTES": "100"}, wantErr: "max_body_bytes"},
		{name: "zero concurrency", envVars: map[string]string{"CTA_MAX_CONCURRENT": "0"}, wantErr: "max_concurrent"},
		{name: "bad bool", envVars: map[string]string{"ENABLE_HSTS": "maybe"}, wantErr: "ENABLE_HSTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_String(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "Port: 8080")
	assert.Contains(t, s, "Redis: false")
}
