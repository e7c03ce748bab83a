/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/RussellLuo/slidingwindow"
)

// SlidingWindowGate is an in-process gate based on the sliding window counter algorithm.
//
// Any limit.Interval long window overlaps two counter windows at most, so an action is admitted
// only while the previous and the current counter windows together stay within the limit.
// It's checked at the start of the counter window where the previous one has the full weight.
// An attempt that doesn't fit is scheduled for the next counter window and recorded there.
// The gate is stricter than a rolling window: a saturated counter window leaves the next one empty.
type SlidingWindowGate struct {
	mu         sync.Mutex
	limiter    *slidingwindow.Limiter
	stopSync   slidingwindow.StopFunc
	limit      Limit
	minSpacing time.Duration
	last       time.Time
	now        func() time.Time
}

// NewSlidingWindowGate creates a new SlidingWindowGate.
func NewSlidingWindowGate(limit Limit, minSpacing time.Duration) *SlidingWindowGate {
	lim, stopSync := slidingwindow.NewLimiter(limit.Interval, int64(limit.Max), func() (slidingwindow.Window, slidingwindow.StopFunc) {
		return slidingwindow.NewLocalWindow()
	})
	return &SlidingWindowGate{limiter: lim, stopSync: stopSync, limit: limit, minSpacing: minSpacing, now: time.Now}
}

// Attempt implements Gate.
func (g *SlidingWindowGate) Attempt(_ context.Context) (time.Duration, error) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	at := now
	if !g.last.IsZero() {
		if spaced := g.last.Add(g.minSpacing); spaced.After(at) {
			at = spaced
		}
	}
	// Ends within two steps: nothing is counted two windows ahead.
	for !g.limiter.AllowN(at.Truncate(g.limit.Interval), 1) {
		at = at.Truncate(g.limit.Interval).Add(g.limit.Interval)
	}
	g.last = at
	return at.Sub(now), nil
}

// Close stops synchronization of the current counter window.
func (g *SlidingWindowGate) Close() error {
	g.stopSync()
	return nil
}
