package security

import (
	"context"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/ZanzyTHEbar/cta-expert/internal/errors"
)

// maxRequestIDLength bounds client supplied request ids
const maxRequestIDLength = 64

// SecurityConfig holds security configuration
type SecurityConfig struct {
	AllowedOrigins []string      `json:"allowed_origins"`
	RequestTimeout time.Duration `json:"request_timeout"`
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	EnableHSTS     bool          `json:"enable_hsts"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   16 << 10,
	}
}

// SecurityMiddleware provides the request hardening middleware chain
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{config: config}
}

// Config returns the configuration the middleware was built with
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// RequestID assigns every request an id, reusing a well-formed
// X-Request-ID header from the client.
func (sm *SecurityMiddleware) RequestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if !validRequestID(id) {
		id = uuid.NewString()
	}

	c.Set(apperrors.RequestIDKey, id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return false
		}
	}
	return true
}

// ValidateContentType rejects POST bodies that are not JSON
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Next()
		return
	}

	mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "application/json" {
		builder := errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("Content-Type must be application/json")
		apperrors.Respond(c, apperrors.NewAppError(builder, apperrors.CategoryValidation, http.StatusUnsupportedMediaType))
		return
	}

	c.Next()
}

// BodyLimit caps request bodies at MaxBodyBytes. Declared oversize bodies
// are rejected up front; undeclared ones fail while being read.
func (sm *SecurityMiddleware) BodyLimit(c *gin.Context) {
	limit := sm.config.MaxBodyBytes
	if limit <= 0 || c.Request.Body == nil {
		c.Next()
		return
	}

	if c.Request.ContentLength > limit {
		apperrors.Respond(c, apperrors.NewRequestTooLargeError(limit))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	c.Next()
}

// RequestTimeout enforces request timeout
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORSConfig builds the CORS middleware. A "*" entry allows every origin.
func (sm *SecurityMiddleware) CORSConfig() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	origins := make([]string, 0, len(sm.config.AllowedOrigins))
	for _, origin := range sm.config.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			origins = nil
			break
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			origins = DefaultSecurityConfig().AllowedOrigins
		}
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
