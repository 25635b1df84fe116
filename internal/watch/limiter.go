package watch

import (
	"context"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// DefaultLimiterKey is the Redis key shared by every watcher of an account.
const DefaultLimiterKey = "uppi:watch:polls"

// RedisLimiter caps polls per minute across every process using the same
// Redis database and key.
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	key     string
	limit   redis_rate.Limit
}

// NewRedisLimiter allows perMinute polls per minute under key.
func NewRedisLimiter(client *redis.Client, key string, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(client),
		key:     key,
		limit:   redis_rate.PerMinute(perMinute),
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context) (bool, error) {
	result, err := l.limiter.Allow(ctx, l.key, l.limit)
	if err != nil {
		return false, err
	}
	return result.Allowed > 0, nil
}
