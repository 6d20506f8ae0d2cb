// Package performance provides performance tracking and monitoring capabilities
// backed by Prometheus collectors.
package performance

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	Namespace             string        `json:"namespace"`
	SlowResponseThreshold time.Duration `json:"slowResponseThreshold"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		Namespace:             "orphancare",
		SlowResponseThreshold: 500 * time.Millisecond,
	}
}

// Tracker turns operation markers into Prometheus metrics and keeps
// a handful of counters for the health endpoint.
type Tracker struct {
	config   *TrackerConfig
	registry *prometheus.Registry
	started  time.Time

	operationDuration *prometheus.HistogramVec
	operationsTotal   *prometheus.CounterVec
	upstreamRequests  *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	formSubmissions   *prometheus.CounterVec
	gateDecisions     *prometheus.CounterVec

	completed atomic.Int64
	failed    atomic.Int64
	slow      atomic.Int64
}

// NewTracker creates a new performance tracker with its own Prometheus registry
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	ns := config.Namespace
	reg := prometheus.NewRegistry()

	t := &Tracker{
		config:   config,
		registry: reg,
		started:  time.Now(),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "operation_duration_seconds",
			Help:      "Duration of handler operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "operations_total",
			Help:      "Completed handler operations by outcome",
		}, []string{"operation", "success"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "upstream_requests_total",
			Help:      "REST API calls by endpoint, method and error kind",
		}, []string{"endpoint", "method", "kind"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "upstream_request_duration_seconds",
			Help:      "REST API call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
		formSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "form_submissions_total",
			Help:      "Form submissions by form and outcome",
		}, []string{"form", "outcome"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "admin_gate_decisions_total",
			Help:      "Admin gate outcomes",
		}, []string{"decision"}),
	}

	reg.MustRegister(
		t.operationDuration,
		t.operationsTotal,
		t.upstreamRequests,
		t.upstreamDuration,
		t.formSubmissions,
		t.gateDecisions,
		collectors.NewGoCollector(),
	)

	return t
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.operationDuration.WithLabelValues(m.Operation).Observe(m.Duration.Seconds())
	success := "true"
	if !m.Success {
		success = "false"
		t.failed.Add(1)
	}
	t.operationsTotal.WithLabelValues(m.Operation, success).Inc()
	t.completed.Add(1)
	if m.Duration > t.config.SlowResponseThreshold {
		t.slow.Add(1)
	}
}

// ObserveUpstream records one REST API call
func (t *Tracker) ObserveUpstream(endpoint, method, kind string, d time.Duration) {
	if kind == "" {
		kind = "ok"
	}
	t.upstreamRequests.WithLabelValues(endpoint, method, kind).Inc()
	t.upstreamDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// CountSubmission records a form submission outcome ("ok", "invalid", "failed", "duplicate")
func (t *Tracker) CountSubmission(form, outcome string) {
	t.formSubmissions.WithLabelValues(form, outcome).Inc()
}

// CountGateDecision records an admin gate outcome
func (t *Tracker) CountGateDecision(decision string) {
	t.gateDecisions.WithLabelValues(decision).Inc()
}

// Snapshot returns the current health summary
func (t *Tracker) Snapshot() Snapshot {
	completed := t.completed.Load()
	failed := t.failed.Load()

	health := HealthUnknown
	if completed > 0 {
		health = HealthHealthy
		if failed*2 > completed {
			health = HealthDegraded
		}
	}

	return Snapshot{
		Timestamp:           time.Now().UTC(),
		Uptime:              time.Since(t.started).Round(time.Second).String(),
		CompletedOperations: completed,
		FailedOperations:    failed,
		SlowOperations:      t.slow.Load(),
		OverallHealth:       health,
	}
}

// Handler exposes the registry in the Prometheus text format
func (t *Tracker) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{Registry: t.registry})
}
