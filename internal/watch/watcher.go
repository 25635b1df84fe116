// Package watch polls the monitor list on an interval and reports monitors
// whose status changed since the previous poll.
package watch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/metrics"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
)

// Poll results recorded in metrics.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultThrottled = "throttled"
)

// Source lists monitors.
type Source interface {
	GetMonitors(ctx context.Context) ([]models.Monitor, error)
}

// Limiter decides whether a poll may run now. Implementations may share
// the budget across processes.
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Transition is a monitor whose status differs from the previous poll.
type Transition struct {
	Monitor models.Monitor
	From    models.Status
	To      models.Status
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLimiter makes every poll ask l first.
func WithLimiter(l Limiter) Option {
	return func(w *Watcher) { w.limiter = l }
}

// WithTransitionHandler calls fn for every status change.
func WithTransitionHandler(fn func(Transition)) Option {
	return func(w *Watcher) { w.onTransition = fn }
}

// Watcher polls a Source and tracks the last seen status of each monitor.
type Watcher struct {
	source       Source
	interval     time.Duration
	limiter      Limiter
	onTransition func(Transition)
	metrics      *metrics.Metrics
	logger       *logrus.Logger

	mu       sync.RWMutex
	statuses map[string]models.Status
	lastPoll time.Time
	lastErr  error
}

// New creates a Watcher polling source every interval.
func New(source Source, interval time.Duration, logger *logrus.Logger, m *metrics.Metrics, opts ...Option) *Watcher {
	w := &Watcher{
		source:   source,
		interval: interval,
		metrics:  m,
		logger:   logger,
		statuses: make(map[string]models.Status),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls immediately and then every interval until ctx is cancelled.
// It stops early with the error when the session is no longer valid.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Poll(ctx); models.IsAuthError(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll fetches the monitor list once and returns the status changes since
// the previous poll. Monitors seen for the first time are not reported.
// A throttled poll fetches nothing and returns no transitions.
func (w *Watcher) Poll(ctx context.Context) ([]Transition, error) {
	if w.limiter != nil {
		allowed, err := w.limiter.Allow(ctx)
		if err != nil {
			// the limiter is advisory; poll anyway
			w.logger.WithError(err).Warn("Rate limiter unavailable")
		} else if !allowed {
			w.metrics.ObservePoll(ResultThrottled)
			w.logger.Debug("Poll skipped by rate limit")
			return nil, nil
		}
	}

	monitors, err := w.source.GetMonitors(ctx)
	if err != nil {
		w.metrics.ObservePoll(ResultError)
		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()
		if !errors.Is(err, context.Canceled) {
			w.logger.WithError(err).Error("Failed to poll monitors")
		}
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var transitions []Transition
	seen := make(map[string]struct{}, len(monitors))
	for _, m := range monitors {
		seen[m.ID] = struct{}{}
		status := m.DisplayStatus()
		w.metrics.SetMonitorUp(m.ID, m.Name, !m.IsFailing())

		prev, known := w.statuses[m.ID]
		w.statuses[m.ID] = status
		if !known || prev == status {
			continue
		}

		transitions = append(transitions, Transition{Monitor: m, From: prev, To: status})
		w.metrics.ObserveTransition(string(status))
	}
	for id := range w.statuses {
		if _, ok := seen[id]; !ok {
			delete(w.statuses, id)
		}
	}

	w.lastPoll = time.Now()
	w.lastErr = nil
	w.metrics.ObservePoll(ResultOK)

	w.logger.WithFields(logrus.Fields{
		"monitors":    len(monitors),
		"transitions": len(transitions),
	}).Debug("Polled monitors")

	for _, t := range transitions {
		if w.onTransition != nil {
			w.onTransition(t)
		}
	}
	return transitions, nil
}

// LastPoll returns the time of the last successful poll and the error of
// the most recent poll, if it failed.
func (w *Watcher) LastPoll() (time.Time, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastPoll, w.lastErr
}

// Interval returns the polling interval.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Status returns the last seen status of the monitor with id.
func (w *Watcher) Status(id string) (models.Status, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.statuses[id]
	return s, ok
}
