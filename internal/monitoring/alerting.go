package monitoring

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus represents the status of an alert
type AlertStatus string

const (
	AlertPending  AlertStatus = "pending"
	AlertFiring   AlertStatus = "firing"
	AlertResolved AlertStatus = "resolved"
)

// Alert is the current state of one rule
type Alert struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity"`
	Status      AlertStatus   `json:"status"`
	Metric      string        `json:"metric"`
	Value       float64       `json:"value"`
	Threshold   float64       `json:"threshold"`
	Since       time.Time     `json:"since"`
	FiredAt     *time.Time    `json:"fired_at,omitempty"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}

// AlertRule compares one numeric entry of Metrics.GetStats against a
// threshold. The condition must hold for For before the alert fires.
type AlertRule struct {
	Name        string
	Metric      string  // key in Metrics.GetStats
	Operator    string  // "gt", "gte", "lt", "lte"
	Threshold   float64
	MinRequests int64 // skip evaluation until this many requests were served
	For         time.Duration
	Severity    AlertSeverity
	Description string
}

// DefaultAlertRules covers error rate, latency and heap pressure
func DefaultAlertRules() []AlertRule {
	return []AlertRule{
		{
			Name:        "high_error_rate",
			Metric:      "error_rate_percent",
			Operator:    "gt",
			Threshold:   25,
			MinRequests: 20,
			For:         time.Minute,
			Severity:    SeverityWarning,
			Description: "More than a quarter of requests end in an error status",
		},
		{
			Name:        "slow_responses",
			Metric:      "p95_response_time_ms",
			Operator:    "gt",
			Threshold:   500,
			MinRequests: 20,
			For:         2 * time.Minute,
			Severity:    SeverityWarning,
			Description: "p95 response time above 500ms",
		},
		{
			Name:        "heap_pressure",
			Metric:      "go_heap_usage_percent",
			Operator:    "gt",
			Threshold:   90,
			For:         5 * time.Minute,
			Severity:    SeverityCritical,
			Description: "Heap in use above 90% of heap reserved from the OS",
		},
	}
}

// AlertNotifier receives alert transitions
type AlertNotifier interface {
	SendAlert(ctx context.Context, alert Alert) error
	ResolveAlert(ctx context.Context, alert Alert) error
}

// AlertManager evaluates rules against a metrics snapshot
type AlertManager struct {
	metrics *Metrics
	logger  *Logger
	now     func() time.Time

	mu        sync.Mutex
	rules     []AlertRule
	alerts    map[string]*Alert
	notifiers []AlertNotifier
}

// NewAlertManager creates an alert manager over metrics
func NewAlertManager(metrics *Metrics, logger *Logger, rules ...AlertRule) *AlertManager {
	return &AlertManager{
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		rules:   rules,
		alerts:  make(map[string]*Alert),
	}
}

// AddNotifier adds a notifier
func (am *AlertManager) AddNotifier(notifier AlertNotifier) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.notifiers = append(am.notifiers, notifier)
}

// Start evaluates the rules every interval until ctx is cancelled
func (am *AlertManager) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			am.Evaluate(ctx)
		}
	}
}

// Evaluate checks every rule once
func (am *AlertManager) Evaluate(ctx context.Context) {
	stats := am.metrics.GetStats()
	requests, _ := stats["total_requests"].(int64)
	now := am.now()

	am.mu.Lock()
	var fired, resolved []Alert
	for _, rule := range am.rules {
		value, ok := toFloat(stats[rule.Metric])
		if !ok {
			am.logger.SystemLogger("unknown_alert_metric", fmt.Sprintf("rule %s reads unknown metric %s", rule.Name, rule.Metric))
			continue
		}
		if requests < rule.MinRequests {
			continue
		}

		alert, exists := am.alerts[rule.Name]
		if checkCondition(value, rule.Operator, rule.Threshold) {
			if !exists || alert.Status == AlertResolved {
				alert = &Alert{
					Name:        rule.Name,
					Description: rule.Description,
					Severity:    rule.Severity,
					Status:      AlertPending,
					Metric:      rule.Metric,
					Threshold:   rule.Threshold,
					Since:       now,
				}
				am.alerts[rule.Name] = alert
			}
			alert.Value = value
			if alert.Status == AlertPending && now.Sub(alert.Since) >= rule.For {
				alert.Status = AlertFiring
				alert.FiredAt = &now
				fired = append(fired, *alert)
			}
			continue
		}

		if !exists {
			continue
		}
		switch alert.Status {
		case AlertPending:
			delete(am.alerts, rule.Name)
		case AlertFiring:
			alert.Status = AlertResolved
			alert.Value = value
			alert.ResolvedAt = &now
			resolved = append(resolved, *alert)
		}
	}
	notifiers := append([]AlertNotifier(nil), am.notifiers...)
	am.mu.Unlock()

	for _, alert := range fired {
		am.logger.Warn("Alert Fired", "alert", alert.Name, "severity", alert.Severity, "metric", alert.Metric, "value", alert.Value, "threshold", alert.Threshold)
		for _, n := range notifiers {
			if err := n.SendAlert(ctx, alert); err != nil {
				am.logger.SystemLogger("alert_notification_failed", fmt.Sprintf("alert %s: %v", alert.Name, err))
			}
		}
	}
	for _, alert := range resolved {
		am.logger.Info("Alert Resolved", "alert", alert.Name, "metric", alert.Metric, "value", alert.Value)
		for _, n := range notifiers {
			if err := n.ResolveAlert(ctx, alert); err != nil {
				am.logger.SystemLogger("alert_resolution_failed", fmt.Sprintf("alert %s: %v", alert.Name, err))
			}
		}
	}
}

// GetAlerts returns every tracked alert sorted by name
func (am *AlertManager) GetAlerts() []Alert {
	am.mu.Lock()
	defer am.mu.Unlock()

	alerts := make([]Alert, 0, len(am.alerts))
	for _, a := range am.alerts {
		alerts = append(alerts, *a)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Name < alerts[j].Name })
	return alerts
}

// GetActiveAlerts returns the alerts currently firing
func (am *AlertManager) GetActiveAlerts() []Alert {
	active := make([]Alert, 0)
	for _, a := range am.GetAlerts() {
		if a.Status == AlertFiring {
			active = append(active, a)
		}
	}
	return active
}

func checkCondition(value float64, operator string, threshold float64) bool {
	switch operator {
	case "gt":
		return value > threshold
	case "gte":
		return value >= threshold
	case "lt":
		return value < threshold
	case "lte":
		return value <= threshold
	default:
		return false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
