/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"
)

const (
	leakyBucketKey = "gate"

	// A limited attempt replayed at the time GCRA reports is admitted.
	leakyBucketMaxTries = 2
)

// LeakyBucketGate is an in-process gate based on GCRA (Generic Cell Rate Algorithm), a leaky bucket variant.
// More details and good explanation of this alg is provided here: https://brandur.org/rate-limiting#gcra.
//
// The bucket has no burst: actions are emitted one per limit.Interval/limit.Max (or minSpacing if it's longer).
// GCRA doesn't record limited requests, so a limited attempt is replayed at the time GCRA allows it,
// on the store clock moved forward, and is recorded there.
type LeakyBucketGate struct {
	mu      sync.Mutex
	limiter *throttled.GCRARateLimiterCtx
	at      time.Time // store clock
	now     func() time.Time
}

// NewLeakyBucketGate creates a new LeakyBucketGate.
func NewLeakyBucketGate(limit Limit, minSpacing time.Duration) (*LeakyBucketGate, error) {
	emission := (limit.Interval + time.Duration(limit.Max) - 1) / time.Duration(limit.Max)
	if minSpacing > emission {
		emission = minSpacing
	}

	g := &LeakyBucketGate{now: time.Now}
	gcraStore, err := memstore.New(1)
	if err != nil {
		return nil, fmt.Errorf("new in-memory store: %w", err)
	}
	gcraStore.SetTimeNow(func() time.Time { return g.at })

	quota := throttled.RateQuota{MaxRate: throttled.PerDuration(1, emission)}
	gcraLimiter, err := throttled.NewGCRARateLimiterCtx(throttled.WrapStoreWithContext(gcraStore), quota)
	if err != nil {
		return nil, fmt.Errorf("new GCRA rate limiter: %w", err)
	}
	g.limiter = gcraLimiter
	return g, nil
}

// Attempt implements Gate.
func (g *LeakyBucketGate) Attempt(ctx context.Context) (time.Duration, error) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.at = now
	for i := 0; i < leakyBucketMaxTries; i++ {
		limited, res, err := g.limiter.RateLimitCtx(ctx, leakyBucketKey, 1)
		if err != nil {
			return 0, err
		}
		if !limited {
			return g.at.Sub(now), nil
		}
		if res.RetryAfter < 0 {
			break
		}
		g.at = g.at.Add(res.RetryAfter)
	}
	return 0, fmt.Errorf("GCRA did not admit an attempt after %d tries", leakyBucketMaxTries)
}
