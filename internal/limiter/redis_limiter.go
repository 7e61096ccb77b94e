package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisLimiter shares fixed-window counters between server instances.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client rueidis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	start := windowStart(r.now(), r.window)
	redisKey := r.key(key, start)

	count, err := r.client.Do(ctx, r.client.B().Incr().Key(redisKey).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", redisKey, err)
	}

	if count == 1 {
		ttl := int64(r.window/time.Second) + 1
		if err := r.client.Do(ctx, r.client.B().Expire().Key(redisKey).Seconds(ttl).Build()).Error(); err != nil {
			return false, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}

	return count <= int64(r.limit), nil
}

func (r *RedisLimiter) key(client string, start time.Time) string {
	return fmt.Sprintf("%s:%s:%d", r.prefix, client, start.Unix())
}
