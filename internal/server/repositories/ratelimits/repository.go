// Package ratelimits provides a shared fixed-window counter store backing the
// claim submission rate limit. Counters live in the database, so every server
// instance observes the same window.
package ratelimits

import (
	"context"
	"time"
)

// Repository describes the counter store. Bump increments the counter for key
// and reports whether the increment stays within max events per window. The
// window resets once it has fully elapsed.
type Repository interface {
	Bump(ctx context.Context, key string, window time.Duration, max int) (bool, error)
}
