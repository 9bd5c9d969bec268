package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
	"github.com/ZanzyTHEbar/cta-expert/internal/cache"
	"github.com/ZanzyTHEbar/cta-expert/internal/config"
	apperrors "github.com/ZanzyTHEbar/cta-expert/internal/errors"
	"github.com/ZanzyTHEbar/cta-expert/internal/middleware"
	"github.com/ZanzyTHEbar/cta-expert/internal/monitoring"
	"github.com/ZanzyTHEbar/cta-expert/internal/ratelimit"
	"github.com/ZanzyTHEbar/cta-expert/internal/security"
)

const serviceName = "cta-expert"

// server holds the dependencies shared by every handler
type server struct {
	cfg      config.Config
	analyzer *analysis.Analyzer
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	tracer   *monitoring.Tracer
	alerts   *monitoring.AlertManager
	cache    *cache.Cache // nil when caching is disabled
	limiter  *ratelimit.RateLimiter
	security *security.SecurityMiddleware
	compress *middleware.CompressionMiddleware
	inflight *middleware.ConcurrencyLimiter
}

// routes builds the gin engine with the full middleware chain
func (s *server) routes() *gin.Engine {
	r := gin.New()

	r.Use(s.security.RequestID)
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.cfg.MaxBodyBytes))
	r.Use(apperrors.ErrorHandler())
	// inside the error handler, outside recovery, so recovered panics are flushed
	r.Use(s.compress.Handler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(security.SecurityHeadersMiddleware(s.cfg.EnableHSTS))
	r.Use(s.security.CORSConfig())
	r.Use(s.security.BodyLimit)
	r.Use(s.security.RequestTimeout)

	r.GET("/", s.handleIndex)
	r.GET("/health", s.handleHealth)
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/rules", s.handleRules)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/cache/stats", s.handleCacheStats)

	evaluate := r.Group("")
	evaluate.Use(s.security.ValidateContentType)
	evaluate.Use(s.limiter.IPRateLimitMiddleware())
	if s.cache != nil {
		evaluate.Use(s.cache.Middleware(s.metrics, s.logger, "/api/analyze", "/analyze", "/api/analyze/simple"))
	}
	evaluate.Use(s.inflight.Handler())
	evaluate.POST("/api/analyze", s.handleAnalyze)
	evaluate.POST("/analyze", s.handleAnalyze)
	evaluate.POST("/api/analyze/simple", s.handleAnalyzeSimple)

	if s.cfg.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
