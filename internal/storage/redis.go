package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/config"
)

// KeyPrefix namespaces every key the RedisStore writes.
const KeyPrefix = "uppi:"

// RedisStore is a Store backed by Redis. Keys carry no TTL; a session stays
// until it is explicitly deleted.
//
// Thread Safety: All methods are safe for concurrent use by multiple goroutines.
type RedisStore struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewRedisStore connects to Redis using cfg and verifies the connection with a PING.
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password // pragma: allowlist secret
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	opts.MaxRetries = cfg.MaxRetries
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	store := &RedisStore{
		rdb:    redis.NewClient(opts),
		logger: logger,
	}

	if pingErr := store.Ping(ctx); pingErr != nil {
		_ = store.rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", pingErr)
	}

	logger.Info("Connected to Redis successfully")
	return store, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":   key,
		"value": maskValue(value),
	}).Debug("Value stored in Redis")
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	s.logger.WithField("key", key).Debug("Value deleted from Redis")
	return nil
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	if err := s.rdb.Close(); err != nil {
		s.logger.WithError(err).Error("Failed to close Redis connection")
		return err
	}
	s.logger.Info("Redis connection closed")
	return nil
}

// Client returns the underlying go-redis client for operations outside the
// key/value contract, such as the shared watch rate limit.
func (s *RedisStore) Client() *redis.Client {
	return s.rdb
}

func redisKey(key string) string {
	return KeyPrefix + key
}
