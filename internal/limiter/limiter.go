package limiter

import (
	"context"
	"time"
)

// Limiter admits at most a fixed number of requests per key in each window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// windowStart aligns t to the start of its fixed window.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}
