package router

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Navigator moves the user between views.
type Navigator interface {
	// Current returns the view being shown.
	Current() Route
	// Replace shows route in place of the current view.
	Replace(route Route)
}

// MemoryNavigator is a Navigator that only records where the user is.
// It backs the command line client, which has no view stack of its own.
type MemoryNavigator struct {
	mu      sync.RWMutex
	current Route
	history []Route
	logger  *logrus.Logger
}

// NewMemoryNavigator creates a navigator positioned at start.
func NewMemoryNavigator(start Route, logger *logrus.Logger) *MemoryNavigator {
	return &MemoryNavigator{
		current: start,
		logger:  logger,
	}
}

// Current implements Navigator.
func (n *MemoryNavigator) Current() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Replace implements Navigator.
func (n *MemoryNavigator) Replace(route Route) {
	n.mu.Lock()
	from := n.current
	n.current = route
	n.history = append(n.history, route)
	n.mu.Unlock()

	n.logger.WithFields(logrus.Fields{
		"from": from,
		"to":   route,
	}).Debug("Navigated")
}

// History returns every route passed to Replace, oldest first.
func (n *MemoryNavigator) History() []Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]Route(nil), n.history...)
}
