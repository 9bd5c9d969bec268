package middleware

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/ZanzyTHEbar/cta-expert/internal/errors"
)

// ConcurrencyLimiter bounds the number of requests handled at once
type ConcurrencyLimiter struct {
	sem      *semaphore.Weighted
	capacity int64

	inFlight int64
	rejected int64
}

// NewConcurrencyLimiter allows up to capacity concurrent requests.
// capacity below 1 is treated as 1.
func NewConcurrencyLimiter(capacity int) *ConcurrencyLimiter {
	if capacity < 1 {
		capacity = 1
	}
	return &ConcurrencyLimiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// Handler waits for a free slot until the request context ends, then
// answers 503.
func (cl *ConcurrencyLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cl.sem.Acquire(c.Request.Context(), 1); err != nil {
			atomic.AddInt64(&cl.rejected, 1)
			c.Header("Retry-After", "1")
			apperrors.Respond(c, apperrors.NewOverloadedError(err))
			return
		}
		atomic.AddInt64(&cl.inFlight, 1)
		defer func() {
			atomic.AddInt64(&cl.inFlight, -1)
			cl.sem.Release(1)
		}()

		c.Next()
	}
}

// GetStats returns limiter statistics
func (cl *ConcurrencyLimiter) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"capacity":  cl.capacity,
		"in_flight": atomic.LoadInt64(&cl.inFlight),
		"rejected":  atomic.LoadInt64(&cl.rejected),
	}
}
