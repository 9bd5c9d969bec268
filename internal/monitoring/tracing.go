package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceID represents a unique trace identifier
type TraceID string

// SpanID represents a unique span identifier
type SpanID string

// SpanStatus represents the status of a span
type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)

// TraceEvent represents an event within a span
type TraceEvent struct {
	Name       string                 `json:"name"`
	Timestamp  time.Time              `json:"timestamp"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Span times one stage of request handling
type Span struct {
	TraceID   TraceID           `json:"trace_id"`
	SpanID    SpanID            `json:"span_id"`
	ParentID  SpanID            `json:"parent_id,omitempty"`
	Operation string            `json:"operation"`
	StartTime time.Time         `json:"start_time"`
	Duration  time.Duration     `json:"duration"`
	Tags      map[string]string `json:"tags,omitempty"`
	Events    []TraceEvent      `json:"events,omitempty"`
	Error     string            `json:"error,omitempty"`
	Status    SpanStatus        `json:"status"`

	mu sync.Mutex
}

// SetTag sets a tag on the span
func (s *Span) SetTag(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Tags == nil {
		s.Tags = make(map[string]string)
	}
	s.Tags[key] = value
}

// AddEvent records a named point in time on the span
func (s *Span) AddEvent(name string, attributes map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, TraceEvent{Name: name, Timestamp: time.Now(), Attributes: attributes})
}

// SpanOption configures a span at start
type SpanOption func(*Span)

// WithTag sets a tag on the span
func WithTag(key, value string) SpanOption {
	return func(s *Span) {
		if s.Tags == nil {
			s.Tags = make(map[string]string)
		}
		s.Tags[key] = value
	}
}

// WithTraceID starts the span in an existing trace, typically the request ID.
// It has no effect on child spans, which inherit their parent's trace.
func WithTraceID(id string) SpanOption {
	return func(s *Span) {
		if s.ParentID == "" && id != "" {
			s.TraceID = TraceID(id)
		}
	}
}

type spanContextKey struct{}

// SpanFromContext returns the active span, if any
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanContextKey{}).(*Span)
	return span
}

// Tracer records spans through the structured logger
type Tracer struct {
	serviceName string
	logger      *Logger

	mu     sync.Mutex
	active int
	ended  int64
}

// NewTracer creates a new tracer instance
func NewTracer(serviceName string, logger *Logger) *Tracer {
	return &Tracer{serviceName: serviceName, logger: logger}
}

// StartSpan starts a span as a child of the span in ctx, or as the root of a
// new trace when ctx carries none.
func (t *Tracer) StartSpan(ctx context.Context, operation string, opts ...SpanOption) (*Span, context.Context) {
	span := &Span{
		SpanID:    SpanID(uuid.NewString()[:8]),
		Operation: operation,
		StartTime: time.Now(),
		Status:    SpanStatusOK,
	}

	if parent := SpanFromContext(ctx); parent != nil {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	} else {
		span.TraceID = TraceID(uuid.NewString())
	}

	for _, opt := range opts {
		opt(span)
	}

	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return span, context.WithValue(ctx, spanContextKey{}, span)
}

// EndSpan closes span and logs it. A non-nil err marks the span failed.
func (t *Tracer) EndSpan(span *Span, err error) {
	span.mu.Lock()
	span.Duration = time.Since(span.StartTime)
	if err != nil {
		span.Error = err.Error()
		span.Status = SpanStatusError
	}
	attrs := []any{
		"service", t.serviceName,
		"trace_id", span.TraceID,
		"span_id", span.SpanID,
		"operation", span.Operation,
		"status", span.Status,
		"duration_us", span.Duration.Microseconds(),
	}
	if span.ParentID != "" {
		attrs = append(attrs, "parent_id", span.ParentID)
	}
	for k, v := range span.Tags {
		attrs = append(attrs, "tag."+k, v)
	}
	if len(span.Events) > 0 {
		attrs = append(attrs, "events", len(span.Events))
	}
	if span.Error != "" {
		attrs = append(attrs, "error", span.Error)
	}
	span.mu.Unlock()

	t.mu.Lock()
	t.active--
	t.ended++
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("Span Failed", attrs...)
		return
	}
	t.logger.Debug("Span Completed", attrs...)
}

// GetStats returns span counters
func (t *Tracer) GetStats() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return map[string]interface{}{
		"service":      t.serviceName,
		"active_spans": t.active,
		"ended_spans":  t.ended,
	}
}
