package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/config"
)

// Open returns the Store selected by cfg.Storage.Backend.
//
// When the redis backend is selected but Redis cannot be reached, Open logs a
// warning and falls back to a MemoryStore, so the client keeps working with
// a session that lasts for the life of the process.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.Storage.SQLitePath, logger)
	case config.BackendRedis:
		store, err := NewRedisStore(ctx, &cfg.Redis, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to Redis, falling back to in-memory store")
			logger.Warn("Session will not persist across restarts")
			return NewMemoryStore(logger), nil
		}
		return store, nil
	case config.BackendMemory:
		logger.Info("Using in-memory store")
		return NewMemoryStore(logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
