package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/client"
)

// SessionState is the part of the session the guard depends on.
type SessionState interface {
	Initialize(ctx context.Context) error
	IsAuthenticated() bool
	Subscribe(fn func(client.SessionEvent)) (unsubscribe func())
}

// Guard redirects between the login view and the protected views whenever
// the session changes. It makes no decision until the session has finished
// loading from storage.
type Guard struct {
	session   SessionState
	navigator Navigator
	logger    *logrus.Logger

	mu          sync.Mutex
	ready       bool
	unsubscribe func()
}

// NewGuard creates a guard. Call Start before relying on it.
func NewGuard(session SessionState, navigator Navigator, logger *logrus.Logger) *Guard {
	return &Guard{
		session:   session,
		navigator: navigator,
		logger:    logger,
	}
}

// Start initializes the session, subscribes to its changes and applies the
// first redirect. Until Start returns successfully Evaluate never redirects.
func (g *Guard) Start(ctx context.Context) error {
	if err := g.session.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}

	g.mu.Lock()
	if g.unsubscribe == nil {
		g.unsubscribe = g.session.Subscribe(func(client.SessionEvent) { g.Enforce() })
	}
	g.ready = true
	g.mu.Unlock()

	g.Enforce()
	return nil
}

// Stop unsubscribes from the session.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
	g.ready = false
}

// Evaluate returns where a user on current must be sent, and false when they may stay.
func (g *Guard) Evaluate(current Route) (Route, bool) {
	g.mu.Lock()
	ready := g.ready
	g.mu.Unlock()
	if !ready {
		return "", false
	}

	authenticated := g.session.IsAuthenticated()
	switch {
	case !authenticated && current.Protected():
		return RouteLogin, true
	case authenticated && current.InAuthGroup():
		return RouteTabs, true
	default:
		return "", false
	}
}

// Enforce applies Evaluate to the navigator's current view.
func (g *Guard) Enforce() {
	current := g.navigator.Current()
	target, redirect := g.Evaluate(current)
	if !redirect {
		return
	}

	g.logger.WithFields(logrus.Fields{
		"from": current,
		"to":   target,
	}).Debug("Route guard redirect")
	g.navigator.Replace(target)
}
