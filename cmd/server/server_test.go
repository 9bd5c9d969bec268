package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
	"github.com/ZanzyTHEbar/cta-expert/internal/cache"
	"github.com/ZanzyTHEbar/cta-expert/internal/config"
	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
	"github.com/ZanzyTHEbar/cta-expert/internal/middleware"
	"github.com/ZanzyTHEbar/cta-expert/internal/monitoring"
	"github.com/ZanzyTHEbar/cta-expert/internal/ratelimit"
	"github.com/ZanzyTHEbar/cta-expert/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t testing.TB, mutate ...func(*config.Config)) *server {
	t.Helper()

	cfg := config.Default()
	cfg.GinMode = gin.TestMode
	cfg.RateLimitPerMinute = 10000
	for _, m := range mutate {
		m(&cfg)
	}
	require.NoError(t, cfg.Validate())

	catalog, err := knowledge.Default()
	require.NoError(t, err)

	metrics := monitoring.NewMetrics()
	limiter := ratelimit.NewRateLimiter(&ratelimit.RedisClient{}, ratelimit.Config{PerMinute: cfg.RateLimitPerMinute}, metrics)
	t.Cleanup(limiter.Close)

	var responseCache *cache.Cache
	if cfg.CacheTTL > 0 {
		responseCache = cache.NewCache(cfg.CacheTTL, 0)
		t.Cleanup(responseCache.Close)
	}

	logger := monitoring.NewLoggerTo(io.Discard, slog.LevelError)

	return &server{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(catalog, analysis.WithOverallMode(cfg.OverallMode)),
		metrics:  metrics,
		logger:   logger,
		tracer:   monitoring.NewTracer(serviceName, logger),
		alerts:   monitoring.NewAlertManager(metrics, logger, monitoring.DefaultAlertRules()...),
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
}

func goodDesign() map[string]any {
	return map[string]any{
		"cta_position_y":                500,
		"cta_width":                     200,
		"cta_height":                    50,
		"contrast_ratio":                4.5,
		"whitespace_around_cta":         40,
		"scroll_depth":                  60,
		"cta_click_rate":                3.5,
		"number_of_ctas":                1,
		"cta_text_length":               15,
		"time_to_cta":                   8,
		"clickable_elements_before_cta": 3,
		"content_word_count":            300,
		"similar_color_elements":        0,
		"largest_other_element_size":    8000,
		"cta_mobile_width":              200,
		"cta_mobile_height":             48,
		"has_loading_animation":         1,
	}
}

func weakDesign() map[string]any {
	return map[string]any{
		"cta_position_y":                900,
		"cta_width":                     150,
		"cta_height":                    35,
		"contrast_ratio":                2.1,
		"whitespace_around_cta":         15,
		"scroll_depth":                  40,
		"cta_click_rate":                1.2,
		"number_of_ctas":                3,
		"cta_text_length":               30,
		"time_to_cta":                   15,
		"clickable_elements_before_cta": 8,
		"content_word_count":            500,
		"similar_color_elements":        4,
		"largest_other_element_size":    12000,
		"cta_mobile_width":              150,
		"cta_mobile_height":             35,
		"has_loading_animation":         0,
	}
}

func without(raw map[string]any, field string) map[string]any {
	delete(raw, field)
	return raw
}

func with(raw map[string]any, field string, v any) map[string]any {
	raw[field] = v
	return raw
}

func postJSON(t testing.TB, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t).routes()

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"GET /health", http.MethodGet, "/health", http.StatusOK},
		{"GET /api/health", http.MethodGet, "/api/health", http.StatusOK},
		{"POST /health not routed", http.MethodPost, "/health", http.StatusNotFound},
		{"DELETE /health not routed", http.MethodDelete, "/health", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			health := decode[HealthResponse](t, w)
			assert.Equal(t, "ok", health.Status)
			assert.Equal(t, serviceName, health.Service)
			assert.Equal(t, "2024.1", health.CatalogVersion)
			assert.Equal(t, 23, health.Rules)
			assert.Equal(t, ratelimit.RedisDisabled, health.Redis)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestIndexEndpoint(t *testing.T) {
	r := newTestServer(t).routes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, serviceName, body["service"])
	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "POST /api/analyze", endpoints["analyze"])
	assert.Contains(t, endpoints, "docs")
}

func TestRulesEndpoint(t *testing.T) {
	r := newTestServer(t).routes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rules", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[RulesResponse](t, w)
	assert.Equal(t, 23, resp.TotalRules)
	assert.Len(t, resp.Rules, 23)
	assert.Equal(t, "2024.1", resp.CatalogVersion)
	assert.Equal(t, "V1", resp.Rules[0].ID)
	for _, rule := range resp.Rules {
		assert.NotEmpty(t, rule.Conclusion, rule.ID)
		assert.Contains(t, []string{"visibility", "clickability", "overall"}, rule.Target, rule.ID)
		assert.GreaterOrEqual(t, rule.CertaintyFactor, -1.0)
		assert.LessOrEqual(t, rule.CertaintyFactor, 1.0)
	}
}

func TestAnalyzeEndpoint_ValidRequests(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		facts           map[string]any
		wantStatus      analysis.Status
		wantRecommended int
		minCertainty    float64
		maxCertainty    float64
	}{
		{
			name:            "good design",
			path:            "/api/analyze",
			facts:           goodDesign(),
			wantStatus:      analysis.StatusExcellent,
			wantRecommended: 0,
			minCertainty:    0.8,
			maxCertainty:    1,
		},
		{
			name:            "weak design",
			path:            "/api/analyze",
			facts:           weakDesign(),
			wantStatus:      analysis.StatusWeak,
			wantRecommended: 13,
			minCertainty:    0,
			maxCertainty:    0.5,
		},
		{
			name:            "legacy alias",
			path:            "/analyze",
			facts:           goodDesign(),
			wantStatus:      analysis.StatusExcellent,
			wantRecommended: 0,
			minCertainty:    0.8,
			maxCertainty:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestServer(t).routes()

			w := postJSON(t, r, tt.path, tt.facts)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			result := decode[analysis.EvaluationResult](t, w)
			assert.Equal(t, tt.wantStatus, result.Summary.StatusEmoji)
			assert.Len(t, result.Recommendations, tt.wantRecommended)
			assert.GreaterOrEqual(t, result.OverallCertainty, tt.minCertainty)
			assert.LessOrEqual(t, result.OverallCertainty, tt.maxCertainty)
			assert.GreaterOrEqual(t, result.VisibilityScore, 0.0)
			assert.LessOrEqual(t, result.VisibilityScore, 100.0)
			assert.Equal(t, "2024.1", result.CatalogVersion)
			assert.NotEmpty(t, result.QualitativeInputs)
		})
	}
}

func TestAnalyzeEndpoint_OverallMode(t *testing.T) {
	explicit := newTestServer(t).routes()
	derived := newTestServer(t, func(c *config.Config) {
		c.OverallMode = analysis.OverallDerived
	}).routes()

	e := decode[analysis.EvaluationResult](t, postJSON(t, explicit, "/api/analyze", goodDesign()))
	d := decode[analysis.EvaluationResult](t, postJSON(t, derived, "/api/analyze", goodDesign()))

	assert.Equal(t, 0.8, e.OverallCertainty)
	assert.Equal(t, 0.99, d.OverallCertainty)
	assert.Equal(t, e.VisibilityScore, d.VisibilityScore)
	assert.Equal(t, e.ClickabilityScore, d.ClickabilityScore)
}

func TestAnalyzeEndpoint_Simple(t *testing.T) {
	r := newTestServer(t).routes()

	w := postJSON(t, r, "/api/analyze/simple", weakDesign())
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.NotContains(t, body, "activated_rules")
	assert.NotContains(t, body, "detailed_explanation")

	simple := decode[analysis.SimpleResult](t, w)
	assert.Len(t, simple.Recommendations, 3)
	assert.Equal(t, analysis.StatusWeak, simple.Summary.StatusEmoji)
}

func TestAnalyzeEndpoint_InvalidRequests(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedFields []string
	}{
		{
			name:           "missing field",
			body:           without(goodDesign(), "contrast_ratio"),
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"contrast_ratio"},
		},
		{
			name:           "non-numeric field",
			body:           with(goodDesign(), "cta_width", "wide"),
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"cta_width"},
		},
		{
			name:           "loading animation outside 0/1",
			body:           with(goodDesign(), "has_loading_animation", 2),
			expectedStatus: http.StatusBadRequest,
			expectedFields: []string{"has_loading_animation"},
		},
		{
			name:           "empty object",
			body:           map[string]any{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed JSON",
			body:           `{"cta_width": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "JSON array",
			body:           `[1, 2, 3]`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "null body",
			body:           `null`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "trailing data",
			body:           `{} {}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := postJSON(t, s.routes(), "/api/analyze", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			body := decode[map[string]any](t, w)
			assert.Equal(t, "validation", body["category"])
			for _, field := range tt.expectedFields {
				assert.Contains(t, w.Body.String(), field)
			}
		})
	}
}

func TestAnalyzeEndpoint_ValidationFailureIsCounted(t *testing.T) {
	s := newTestServer(t)
	r := s.routes()

	postJSON(t, r, "/api/analyze", without(goodDesign(), "cta_height"))
	postJSON(t, r, "/api/analyze", goodDesign())

	stats := s.metrics.GetEvaluationStats()
	assert.Equal(t, int64(1), stats["validation_failures"])
	assert.Equal(t, int64(1), stats["evaluations"])
}

func TestAnalyzeEndpoint_MethodNotAllowed(t *testing.T) {
	r := newTestServer(t).routes()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(method, "/api/analyze", nil))
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestServer_ContentType(t *testing.T) {
	r := newTestServer(t).routes()

	payload, err := json.Marshal(goodDesign())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestServer_Determinism(t *testing.T) {
	r := newTestServer(t, func(c *config.Config) { c.CacheTTL = 0 }).routes()

	first := postJSON(t, r, "/api/analyze", weakDesign())
	second := postJSON(t, r, "/api/analyze", weakDesign())

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestServer_ResponseCache(t *testing.T) {
	s := newTestServer(t)
	r := s.routes()

	first := postJSON(t, r, "/api/analyze", goodDesign())
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	// same object, different formatting
	payload, err := json.MarshalIndent(goodDesign(), "", "    ")
	require.NoError(t, err)
	second := postJSON(t, r, "/api/analyze", string(payload))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// errors are not cached
	bad := postJSON(t, r, "/api/analyze", without(goodDesign(), "cta_width"))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	again := postJSON(t, r, "/api/analyze", without(goodDesign(), "cta_width"))
	assert.Equal(t, "MISS", again.Header().Get("X-Cache"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))
	stats := decode[map[string]any](t, w)
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, float64(1), stats["total_items"])
}

func TestServer_ResponseCacheTrailingData(t *testing.T) {
	r := newTestServer(t).routes()

	payload, err := json.Marshal(goodDesign())
	require.NoError(t, err)
	first := postJSON(t, r, "/api/analyze", string(payload))
	require.Equal(t, http.StatusOK, first.Code)

	for _, suffix := range []string{"garbage", `{"cta_width":1}`} {
		t.Run(suffix, func(t *testing.T) {
			w := postJSON(t, r, "/api/analyze", string(payload)+suffix)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEqual(t, "HIT", w.Header().Get("X-Cache"))
		})
	}
}

func TestServer_CacheDisabled(t *testing.T) {
	r := newTestServer(t, func(c *config.Config) { c.CacheTTL = 0 }).routes()

	w := postJSON(t, r, "/api/analyze", goodDesign())
	assert.Empty(t, w.Header().Get("X-Cache"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))
	assert.JSONEq(t, `{"enabled":false}`, w.Body.String())
}

func TestServer_RateLimit(t *testing.T) {
	r := newTestServer(t, func(c *config.Config) {
		c.RateLimitPerMinute = 2
		c.CacheTTL = 0
	}).routes()

	for i := 0; i < 2; i++ {
		w := postJSON(t, r, "/api/analyze", goodDesign())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := postJSON(t, r, "/api/analyze", goodDesign())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// read-only endpoints are not limited
	h := httptest.NewRecorder()
	r.ServeHTTP(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, h.Code)
}

func TestServer_CORSHeaders(t *testing.T) {
	r := newTestServer(t).routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_LargePayload(t *testing.T) {
	r := newTestServer(t, func(c *config.Config) { c.MaxBodyBytes = 1024 }).routes()

	raw := goodDesign()
	raw["padding"] = strings.Repeat("x", 4096)
	w := postJSON(t, r, "/api/analyze", raw)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestServer_UnknownFieldsIgnored(t *testing.T) {
	r := newTestServer(t).routes()

	w := postJSON(t, r, "/api/analyze", with(goodDesign(), "page_url", "https://example.com"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	r := s.routes()

	postJSON(t, r, "/api/analyze", weakDesign())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Contains(t, body, "rate_limiter")
	assert.Contains(t, body, "compression")
	assert.Contains(t, body, "concurrency")
	assert.Greater(t, body["total_requests"], float64(0))

	tracing, ok := body["tracing"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), tracing["ended_spans"])
	assert.Equal(t, float64(0), tracing["active_spans"])
	assert.Equal(t, []any{}, body["alerts"])
}

func TestServer_Swagger(t *testing.T) {
	enabled := newTestServer(t).routes()
	disabled := newTestServer(t, func(c *config.Config) { c.EnableSwagger = false }).routes()

	w := httptest.NewRecorder()
	enabled.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/analyze")

	w = httptest.NewRecorder()
	disabled.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_GzipResponses(t *testing.T) {
	r := newTestServer(t).routes()

	payload, err := json.Marshal(weakDesign())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	var result analysis.EvaluationResult
	require.NoError(t, json.NewDecoder(zr).Decode(&result))
	assert.Len(t, result.Recommendations, 13)
}
