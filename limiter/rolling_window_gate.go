/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"context"
	"sync"
	"time"
)

// RollingWindowGate is an in-process rolling window log, the same algorithm RedisGate runs in Lua.
// Every attempt is recorded at the time it is scheduled for (now plus the returned wait),
// so no more than limit.Max scheduled actions fall into any limit.Interval.
type RollingWindowGate struct {
	mu         sync.Mutex
	limit      Limit
	minSpacing time.Duration
	scheduled  []time.Time // the latest limit.Max scheduled times, used as a ring
	oldest     int
	last       time.Time
	now        func() time.Time
}

// NewRollingWindowGate creates a new RollingWindowGate.
func NewRollingWindowGate(limit Limit, minSpacing time.Duration) *RollingWindowGate {
	return &RollingWindowGate{
		limit:      limit,
		minSpacing: minSpacing,
		scheduled:  make([]time.Time, 0, limit.Max),
		now:        time.Now,
	}
}

// Attempt implements Gate.
func (g *RollingWindowGate) Attempt(_ context.Context) (time.Duration, error) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	at := now
	if len(g.scheduled) == g.limit.Max {
		if free := g.scheduled[g.oldest].Add(g.limit.Interval); free.After(at) {
			at = free
		}
	}
	if !g.last.IsZero() {
		if spaced := g.last.Add(g.minSpacing); spaced.After(at) {
			at = spaced
		}
	}

	if len(g.scheduled) < g.limit.Max {
		g.scheduled = append(g.scheduled, at)
	} else {
		g.scheduled[g.oldest] = at
		g.oldest = (g.oldest + 1) % g.limit.Max
	}
	g.last = at

	return at.Sub(now), nil
}
