/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucketGate is an in-process gate based on the token bucket algorithm.
// The bucket holds a single token refilled every limit.Interval/limit.Max (or every minSpacing if it's longer),
// so actions are evenly spaced and never exceed the limit in any window.
// Every attempt reserves a token, so it's always recorded even when the caller has to wait.
type TokenBucketGate struct {
	bucket *rate.Limiter
	now    func() time.Time
}

// NewTokenBucketGate creates a new TokenBucketGate.
func NewTokenBucketGate(limit Limit, minSpacing time.Duration) *TokenBucketGate {
	every := (limit.Interval + time.Duration(limit.Max) - 1) / time.Duration(limit.Max)
	if minSpacing > every {
		every = minSpacing
	}
	return &TokenBucketGate{bucket: rate.NewLimiter(rate.Every(every), 1), now: time.Now}
}

// Attempt implements Gate.
func (g *TokenBucketGate) Attempt(_ context.Context) (time.Duration, error) {
	now := g.now()
	return g.bucket.ReserveN(now, 1).DelayFrom(now), nil
}
