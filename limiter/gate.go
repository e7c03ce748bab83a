/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Gate records an attempt against a rate-limit bucket and reports how long the caller has to wait
// before acting for the attempt to stay within the limit. Zero means the action may be done now.
// Attempt never blocks for the wait itself.
type Gate interface {
	Attempt(ctx context.Context) (wait time.Duration, err error)
}

// The GateFunc type is an adapter to allow the use of ordinary functions as Gate.
type GateFunc func(ctx context.Context) (time.Duration, error)

// Attempt implements Gate.
func (f GateFunc) Attempt(ctx context.Context) (time.Duration, error) {
	return f(ctx)
}

// Backend is a type of the gate implementation.
type Backend string

// Gate backends.
const (
	BackendRedis         Backend = "redis"
	BackendRollingWindow Backend = "rollingwindow"
	BackendTokenBucket   Backend = "tokenbucket"
	BackendSlidingWindow Backend = "slidingwindow"
	BackendLeakyBucket   Backend = "leakybucket"
)

// Backends lists all supported backends.
var Backends = []Backend{BackendRedis, BackendRollingWindow, BackendTokenBucket, BackendSlidingWindow, BackendLeakyBucket}

// IsValid checks if the backend is known.
func (b Backend) IsValid() bool {
	for _, known := range Backends {
		if b == known {
			return true
		}
	}
	return false
}

// Factory creates gates of the configured backend.
type Factory struct {
	Backend Backend

	// Redis is required for BackendRedis only.
	Redis redis.Scripter
}

// NewGate creates a new gate for the bucket identified by key.
// Key matters for the shared Redis backend, in-process gates are independent anyway.
func (f Factory) NewGate(key string, limit Limit, minSpacing time.Duration) (Gate, error) {
	if limit.Max <= 0 || limit.Interval <= 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidLimit, limit)
	}
	switch f.Backend {
	case BackendRedis:
		if f.Redis == nil {
			return nil, fmt.Errorf("redis client is required for %q gate backend", BackendRedis)
		}
		return NewRedisGate(f.Redis, key, limit, minSpacing), nil
	case BackendRollingWindow, "":
		return NewRollingWindowGate(limit, minSpacing), nil
	case BackendTokenBucket:
		return NewTokenBucketGate(limit, minSpacing), nil
	case BackendSlidingWindow:
		return NewSlidingWindowGate(limit, minSpacing), nil
	case BackendLeakyBucket:
		return NewLeakyBucketGate(limit, minSpacing)
	}
	return nil, fmt.Errorf("unknown gate backend %q", f.Backend)
}
