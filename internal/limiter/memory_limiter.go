package limiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count int
	start time.Time
}

type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	start := windowStart(m.now(), m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || !b.start.Equal(start) {
		m.evictBefore(start)
		b = &bucket{start: start}
		m.buckets[key] = b
	}

	if b.count >= m.limit {
		return false, nil
	}
	b.count++
	return true, nil
}

// evictBefore drops buckets from finished windows. Caller holds mu.
func (m *MemoryLimiter) evictBefore(start time.Time) {
	for k, b := range m.buckets {
		if b.start.Before(start) {
			delete(m.buckets, k)
		}
	}
}
