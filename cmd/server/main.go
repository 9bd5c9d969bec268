package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/ZanzyTHEbar/cta-expert/docs"
	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
	"github.com/ZanzyTHEbar/cta-expert/internal/cache"
	"github.com/ZanzyTHEbar/cta-expert/internal/config"
	apperrors "github.com/ZanzyTHEbar/cta-expert/internal/errors"
	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
	"github.com/ZanzyTHEbar/cta-expert/internal/middleware"
	"github.com/ZanzyTHEbar/cta-expert/internal/monitoring"
	"github.com/ZanzyTHEbar/cta-expert/internal/ratelimit"
	"github.com/ZanzyTHEbar/cta-expert/internal/resilience"
	"github.com/ZanzyTHEbar/cta-expert/internal/security"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// @title			CTA Expert API
// @version		1.0
// @description	Certainty-factor expert system that rates the visibility and clickability of a call-to-action.
// @BasePath		/
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(cfg.SlogLevel())
	slog.SetDefault(appLogger.Logger)
	gin.SetMode(cfg.GinMode)

	catalog, err := knowledge.Default()
	if err != nil {
		var catErr *knowledge.CatalogError
		if errors.As(err, &catErr) {
			appErr := apperrors.NewCatalogError(catErr)
			slog.Error("Rule catalog rejected", "error", appErr.Error(), "rule_id", catErr.RuleID, "reason", catErr.Reason)
		} else {
			slog.Error("Rule catalog failed to load", "error", err)
		}
		os.Exit(1)
	}

	appLogger.SystemLogger("startup", cfg.String())
	slog.Info("Rule catalog loaded", "version", catalog.Version(), "rules", catalog.Len())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appMetrics := monitoring.NewMetrics()

	var redisClient *ratelimit.RedisClient
	err = resilience.Retry(ctx, func() error {
		var connErr error
		redisClient, connErr = ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		return connErr
	})
	if err != nil {
		slog.Warn("Redis unavailable, falling back to in-memory rate limiting", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis client")

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		PerMinute:       cfg.RateLimitPerMinute,
		BurstMultiplier: 1,
	}, appMetrics)
	defer limiter.Close()

	var responseCache *cache.Cache
	if cfg.CacheTTL > 0 {
		responseCache = cache.NewCache(cfg.CacheTTL, time.Minute)
		defer responseCache.Close()
	}

	runtimeMonitor := monitoring.NewRuntimeMonitor(appMetrics, appLogger, 15*time.Second, 20)
	go runtimeMonitor.Run(ctx)

	alerts := monitoring.NewAlertManager(appMetrics, appLogger, monitoring.DefaultAlertRules()...)
	go alerts.Start(ctx, 30*time.Second)

	srv := &server{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(catalog, analysis.WithOverallMode(cfg.OverallMode)),
		metrics:  appMetrics,
		logger:   appLogger,
		tracer:   monitoring.NewTracer(serviceName, appLogger),
		alerts:   alerts,
		cache:    responseCache,
		limiter:  limiter,
		security: security.NewSecurityMiddleware(security.SecurityConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
			MaxBodyBytes:   cfg.MaxBodyBytes,
			EnableHSTS:     cfg.EnableHSTS,
		}),
		compress: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		inflight: middleware.NewConcurrencyLimiter(cfg.MaxConcurrent),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
