package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/cta-expert/internal/errors"
	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
	"github.com/ZanzyTHEbar/cta-expert/internal/monitoring"
	"github.com/ZanzyTHEbar/cta-expert/internal/ratelimit"
)

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	Version        string `json:"version"`
	CatalogVersion string `json:"catalog_version"`
	Rules          int    `json:"rules"`
	// Redis is "disabled", "up" or "down"; "down" still serves with
	// per-process rate limits
	Redis string `json:"redis"`
}

// RuleInfo is the public view of one catalog rule
type RuleInfo struct {
	ID              string  `json:"id"`
	Priority        int     `json:"priority"`
	CertaintyFactor float64 `json:"certainty_factor"`
	Target          string  `json:"target"`
	Category        string  `json:"category"`
	Conclusion      string  `json:"conclusion"`
}

// RulesResponse lists the rule catalog
type RulesResponse struct {
	TotalRules     int        `json:"total_rules"`
	CatalogVersion string     `json:"catalog_version"`
	Rules          []RuleInfo `json:"rules"`
}

func (s *server) handleIndex(c *gin.Context) {
	endpoints := gin.H{
		"health":  "GET /health",
		"rules":   "GET /api/rules",
		"analyze": "POST /api/analyze",
		"simple":  "POST /api/analyze/simple",
		"metrics": "GET /metrics",
		"cache":   "GET /cache/stats",
	}
	if s.cfg.EnableSwagger {
		endpoints["docs"] = "GET /swagger/index.html"
	}

	c.JSON(http.StatusOK, gin.H{
		"service":   serviceName,
		"version":   version,
		"message":   "CTA expert system: certainty-factor assessment of call-to-action design",
		"endpoints": endpoints,
	})
}

// handleHealth godoc
//
//	@Summary	Service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (s *server) handleHealth(c *gin.Context) {
	cat := s.analyzer.Catalog()
	redis := s.limiter.RedisStatus(c.Request.Context())
	status := "ok"
	if redis == ratelimit.RedisDown {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:         status,
		Service:        serviceName,
		Version:        version,
		CatalogVersion: cat.Version(),
		Rules:          cat.Len(),
		Redis:          redis,
	})
}

// handleRules godoc
//
//	@Summary	List the rule catalog
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	RulesResponse
//	@Router		/api/rules [get]
func (s *server) handleRules(c *gin.Context) {
	cat := s.analyzer.Catalog()
	rules := cat.Rules()

	resp := RulesResponse{
		TotalRules:     len(rules),
		CatalogVersion: cat.Version(),
		Rules:          make([]RuleInfo, 0, len(rules)),
	}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, RuleInfo{
			ID:              r.ID,
			Priority:        r.Priority,
			CertaintyFactor: r.CertaintyFactor,
			Target:          string(r.Target),
			Category:        r.Category,
			Conclusion:      r.Conclusion,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// handleAnalyze godoc
//
//	@Summary		Evaluate a CTA design
//	@Description	Runs the rule catalog over seventeen CTA measurements
//	@Tags			evaluation
//	@Accept			json
//	@Produce		json
//	@Param			facts	body		FactsRequest	true	"CTA measurements"
//	@Success		200		{object}	analysis.EvaluationResult
//	@Failure		400		{object}	apperrors.AppError
//	@Failure		413		{object}	apperrors.AppError
//	@Failure		429		{object}	apperrors.AppError
//	@Router			/api/analyze [post]
func (s *server) handleAnalyze(c *gin.Context) {
	result, ok := s.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleAnalyzeSimple godoc
//
//	@Summary	Evaluate a CTA design (condensed)
//	@Tags		evaluation
//	@Accept		json
//	@Produce	json
//	@Param		facts	body		FactsRequest	true	"CTA measurements"
//	@Success	200		{object}	analysis.SimpleResult
//	@Failure	400		{object}	apperrors.AppError
//	@Failure	429		{object}	apperrors.AppError
//	@Router		/api/analyze/simple [post]
func (s *server) handleAnalyzeSimple(c *gin.Context) {
	result, ok := s.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result.Simple())
}

func (s *server) handleMetrics(c *gin.Context) {
	stats := s.metrics.GetStats()
	stats["rate_limiter"] = s.limiter.GetStats()
	stats["compression"] = s.compress.GetStats()
	stats["concurrency"] = s.inflight.GetStats()
	stats["tracing"] = s.tracer.GetStats()
	stats["alerts"] = s.alerts.GetActiveAlerts()
	c.JSON(http.StatusOK, stats)
}

func (s *server) handleCacheStats(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	stats := s.cache.Stats()
	stats["enabled"] = true
	c.JSON(http.StatusOK, stats)
}

// evaluate decodes the request facts and runs the analyzer. On failure the
// error response has already been written.
func (s *server) evaluate(c *gin.Context) (*analysis.EvaluationResult, bool) {
	start := time.Now()
	requestID := c.GetString(apperrors.RequestIDKey)

	span, ctx := s.tracer.StartSpan(c.Request.Context(), "evaluate",
		monitoring.WithTraceID(requestID),
		monitoring.WithTag("route", c.FullPath()),
	)

	decodeSpan, _ := s.tracer.StartSpan(ctx, "decode_facts")
	raw, err := decodeFacts(c.Request.Body)
	s.tracer.EndSpan(decodeSpan, err)
	if err != nil {
		s.tracer.EndSpan(span, err)
		apperrors.Respond(c, apperrors.ToAppError(err))
		return nil, false
	}

	result, err := s.analyzer.Analyze(raw)
	if err != nil {
		var verr *facts.ValidationError
		if errors.As(err, &verr) {
			s.metrics.IncrementValidationFailure()
			span.AddEvent("validation_failed", map[string]interface{}{"missing": len(verr.Missing), "invalid": len(verr.Invalid)})
		}
		s.tracer.EndSpan(span, err)
		apperrors.Respond(c, apperrors.ToAppError(err))
		return nil, false
	}

	ruleIDs := make([]string, len(result.ActivatedRules))
	for i, r := range result.ActivatedRules {
		ruleIDs[i] = r.RuleID
	}
	span.SetTag("status", string(result.Summary.StatusEmoji))
	s.tracer.EndSpan(span, nil)

	s.metrics.RecordEvaluation(ruleIDs, string(result.Summary.StatusEmoji))
	s.logger.EvaluationLogger(
		requestID,
		len(result.ActivatedRules),
		result.VisibilityScore,
		result.ClickabilityScore,
		result.OverallCertainty,
		string(result.Summary.StatusEmoji),
		time.Since(start),
		c.GetBool("cache_hit"),
	)

	return result, true
}

// decodeFacts reads a single JSON object. Numbers stay json.Number so
// the fact base sees exactly what the client sent.
func decodeFacts(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, apperrors.NewMalformedRequestError(err)
	}
	if raw == nil {
		return nil, apperrors.NewMalformedRequestError(errors.New("body is null"))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewMalformedRequestError(errors.New("unexpected data after JSON object"))
	}

	return raw, nil
}
