// Package metrics exposes Prometheus instrumentation for the Uppi client:
// API round-trips, session transitions and, in watch mode, the last known
// status of every monitor.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "uppi"

// Metrics holds Prometheus metrics for the client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// API metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionEvents *prometheus.CounterVec

	// Watch metrics
	MonitorUp          *prometheus.GaugeVec
	MonitorTransitions *prometheus.CounterVec
	WatchPolls         *prometheus.CounterVec

	// Health metrics
	HealthChecksTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the client metrics and registers them with a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := NewMetrics()
	registry.MustRegister(
		m.APIRequestsTotal,
		m.APIRequestDuration,
		m.SessionEvents,
		m.MonitorUp,
		m.MonitorTransitions,
		m.WatchPolls,
		m.HealthChecksTotal,
	)
	m.gatherer = registry
	return m
}

// NewMetrics creates unregistered metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of Uppi API requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		APIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Uppi API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		SessionEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_events_total",
				Help:      "Session state changes by reason",
			},
			[]string{"reason", "authenticated"},
		),
		MonitorUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "monitor_up",
				Help:      "Last observed monitor status (1 = ok, 0 = fail)",
			},
			[]string{"monitor_id", "name"},
		),
		MonitorTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "monitor_transitions_total",
				Help:      "Observed monitor status changes by new status",
			},
			[]string{"status"},
		),
		WatchPolls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watch_polls_total",
				Help:      "Monitor list polls by result",
			},
			[]string{"result"},
		),
		HealthChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "health_checks_total",
				Help:      "Total number of health checks",
			},
			[]string{"check_type", "status"},
		),
	}
}

// Gatherer returns the registry the metrics were registered with,
// or the default gatherer for metrics built with NewMetrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil || m.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return m.gatherer
}

// ObserveRequest records one API round-trip. A status of 0 means no response was received.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.APIRequestsTotal.WithLabelValues(method, endpoint, label).Inc()
	m.APIRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveSession records a session state change.
func (m *Metrics) ObserveSession(reason string, authenticated bool) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(reason, strconv.FormatBool(authenticated)).Inc()
}

// SetMonitorUp records the current status of one monitor.
func (m *Metrics) SetMonitorUp(id, name string, up bool) {
	if m == nil {
		return
	}
	value := 0.0
	if up {
		value = 1
	}
	m.MonitorUp.WithLabelValues(id, name).Set(value)
}

// ObserveTransition counts a monitor moving to status.
func (m *Metrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.MonitorTransitions.WithLabelValues(status).Inc()
}

// ObservePoll counts one watch poll by result (ok, error, throttled).
func (m *Metrics) ObservePoll(result string) {
	if m == nil {
		return
	}
	m.WatchPolls.WithLabelValues(result).Inc()
}
