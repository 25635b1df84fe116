// Package handlers serves the watch-mode HTTP endpoints: health checks and
// the Prometheus scrape endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/metrics"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
)

const (
	// HealthCheckTimeout bounds each component check.
	HealthCheckTimeout = 5 * time.Second
	// StalePollFactor is how many poll intervals may pass without a successful
	// poll before the watcher is reported unhealthy.
	StalePollFactor = 3
)

// SessionState reports whether a session is active.
type SessionState interface {
	IsAuthenticated() bool
}

// PollState reports the outcome of monitor polling.
type PollState interface {
	LastPoll() (time.Time, error)
	Interval() time.Duration
}

// HealthHandler provides health check and monitoring endpoints.
type HealthHandler struct {
	store     storage.Store
	session   SessionState
	poller    PollState
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	startTime time.Time
	now       func() time.Time
}

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	// StatusHealthy indicates the component is healthy.
	StatusHealthy HealthStatus = "healthy"
	// StatusUnhealthy indicates the component is unhealthy.
	StatusUnhealthy HealthStatus = "unhealthy"
	// StatusDegraded indicates the component works with reduced function.
	StatusDegraded HealthStatus = "degraded"
)

// HealthResponse represents the overall health check response.
type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of an individual component.
type ComponentHealth struct {
	Status       HealthStatus `json:"status"`
	Message      string       `json:"message,omitempty"`
	LastChecked  time.Time    `json:"last_checked"`
	ResponseTime string       `json:"response_time,omitempty"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Ready      bool                       `json:"ready"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// NewHealthHandler creates a new health check handler. poller may be nil.
func NewHealthHandler(
	store storage.Store,
	session SessionState,
	poller PollState,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:     store,
		session:   session,
		poller:    poller,
		metrics:   m,
		logger:    logger,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// RegisterRoutes registers health check and metrics endpoints on r.
func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/healthz/live", h.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/healthz/ready", h.Readiness).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(h.metrics.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Health checks every component. Failing storage or polling that has kept
// failing makes the client unhealthy; a missing session degrades it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]ComponentHealth{
		"storage": h.checkStorage(r.Context()),
		"session": h.checkSession(),
	}
	if h.poller != nil {
		components["watch"] = h.checkPolling()
	}

	overall := StatusHealthy
	for _, c := range components {
		switch {
		case c.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case c.Status != StatusHealthy && overall == StatusHealthy:
			overall = StatusDegraded
		}
	}
	h.observe("health", string(overall))

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	h.writeJSON(w, statusCode, HealthResponse{
		Status:     overall,
		Timestamp:  h.now(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Components: components,
	})
}

// Liveness returns 200 while the process is running.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	h.observe("liveness", string(StatusHealthy))

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": h.now(),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readiness reports ready when storage answers and a session is active.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	components := map[string]ComponentHealth{
		"storage": h.checkStorage(r.Context()),
		"session": h.checkSession(),
	}
	ready := components["storage"].Status == StatusHealthy && components["session"].Status == StatusHealthy

	label := "ready"
	statusCode := http.StatusOK
	if !ready {
		label = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}
	h.observe("readiness", label)

	h.writeJSON(w, statusCode, ReadinessResponse{
		Ready:      ready,
		Timestamp:  h.now(),
		Components: components,
	})
}

func (h *HealthHandler) checkStorage(ctx context.Context) ComponentHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	err := h.store.Ping(checkCtx)
	duration := time.Since(start)
	kind := storageType(h.store)

	if err != nil {
		h.logger.WithError(err).Warn("Storage health check failed")
		return ComponentHealth{
			Status:       StatusUnhealthy,
			Message:      kind + " storage failed: " + err.Error(),
			LastChecked:  h.now(),
			ResponseTime: duration.String(),
		}
	}

	status := StatusHealthy
	message := kind + " storage is healthy"
	if duration > time.Second {
		status = StatusDegraded
		message = kind + " storage is slow"
	}

	return ComponentHealth{
		Status:       status,
		Message:      message,
		LastChecked:  h.now(),
		ResponseTime: duration.String(),
	}
}

func (h *HealthHandler) checkSession() ComponentHealth {
	if !h.session.IsAuthenticated() {
		return ComponentHealth{
			Status:      StatusDegraded,
			Message:     "Not signed in",
			LastChecked: h.now(),
		}
	}
	return ComponentHealth{
		Status:      StatusHealthy,
		Message:     "Signed in",
		LastChecked: h.now(),
	}
}

func (h *HealthHandler) checkPolling() ComponentHealth {
	last, err := h.poller.LastPoll()
	now := h.now()

	switch {
	case err == nil && last.IsZero():
		return ComponentHealth{Status: StatusHealthy, Message: "Waiting for first poll", LastChecked: now}
	case err == nil:
		return ComponentHealth{Status: StatusHealthy, Message: "Last poll at " + last.Format(time.RFC3339), LastChecked: now}
	case now.Sub(last) > StalePollFactor*h.poller.Interval():
		return ComponentHealth{Status: StatusUnhealthy, Message: "Polling keeps failing: " + err.Error(), LastChecked: now}
	default:
		return ComponentHealth{Status: StatusDegraded, Message: "Last poll failed: " + err.Error(), LastChecked: now}
	}
}

func (h *HealthHandler) observe(checkType, status string) {
	if h.metrics == nil {
		return
	}
	h.metrics.HealthChecksTotal.WithLabelValues(checkType, status).Inc()
}

func (h *HealthHandler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode health response")
	}
}

func storageType(store storage.Store) string {
	switch store.(type) {
	case *storage.RedisStore:
		return "Redis"
	case *storage.SQLiteStore:
		return "SQLite"
	case *storage.MemoryStore:
		return "In-memory"
	default:
		return "Unknown"
	}
}
