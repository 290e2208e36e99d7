package ratelimits

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	windowStart time.Time
	count       int
}

// InMemoryRepository is a map-backed implementation used in tests.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows map[string]*bucket
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*bucket)}
}

func (r *InMemoryRepository) Bump(_ context.Context, key string, window time.Duration, max int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	b, ok := r.rows[key]
	if !ok || now.Sub(b.windowStart) > window {
		r.rows[key] = &bucket{windowStart: now, count: 1}
		return 1 <= max, nil
	}
	b.count++
	return b.count <= max, nil
}
