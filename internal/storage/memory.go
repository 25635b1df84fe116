package storage

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Nothing survives a restart, which makes it the fallback when no
// persistent backend is reachable and the default in tests.
type MemoryStore struct {
	values map[string]string
	logger *logrus.Logger
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		logger: logger,
	}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"key":   key,
		"value": maskValue(value),
	}).Debug("Value stored in memory")
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()

	m.logger.WithField("key", key).Debug("Value deleted from memory")
	return nil
}

// Ping implements Store. The memory store is always reachable.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
