/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gamebuddyapp/teeto/limiter"
	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/retry"
	"github.com/gamebuddyapp/teeto/store"
)

// gateErrorWait is used as the wait of a gate that failed to answer.
const gateErrorWait = 500 * time.Millisecond

const (
	storeWriteRetryInterval = 100 * time.Millisecond
	storeWriteRetryAttempts = 3
)

// groupLimiter is a gate of an endpoint group with the limit specification it was built from.
type groupLimiter struct {
	spec string
	gate limiter.Gate
}

// limiterSet holds the gates of a single region: two application ones and one per endpoint group.
type limiterSet struct {
	region      string
	namespace   string
	factor      float64
	gateFactory GateFactory
	store       store.Store
	logger      log.FieldLogger
	metrics     MetricsCollector

	app [2]limiter.Gate

	mu     sync.RWMutex
	groups map[string]*groupLimiter
}

func newLimiterSet(c *Client, region string, logger log.FieldLogger) (*limiterSet, error) {
	ls := &limiterSet{
		region:      region,
		namespace:   c.cfg.Namespace,
		factor:      c.cfg.EdgeCaseFixValue,
		gateFactory: c.gateFactory,
		store:       c.store,
		logger:      logger,
		metrics:     c.metrics,
		groups:      make(map[string]*groupLimiter),
	}
	for i, limit := range c.appLimits {
		var spacing time.Duration
		if i == 0 || c.cfg.SpreadToSlowest {
			spacing = limit.MinSpacing(c.cfg.EdgeCaseFixValue)
		}
		key := fmt.Sprintf("%s%sapp_%d", ls.namespace, region, i)
		gate, err := ls.gateFactory.NewGate(key, limit, spacing)
		if err != nil {
			return nil, fmt.Errorf("create application gate %q: %w", key, err)
		}
		ls.app[i] = gate
	}
	return ls, nil
}

// groupGate returns the gate of the endpoint group, creating it if needed.
// A new gate is seeded from the shared store, the catalog limit is used when nothing is stored.
func (ls *limiterSet) groupGate(ctx context.Context, group, defaultSpec string) (limiter.Gate, error) {
	ls.mu.RLock()
	gl, ok := ls.groups[group]
	ls.mu.RUnlock()
	if ok {
		return gl.gate, nil
	}

	spec, source := defaultSpec, "catalog"
	key := store.LimitKey(ls.namespace, ls.region, group)
	stored, found, err := ls.store.Get(ctx, key)
	switch {
	case err != nil:
		ls.logger.Warn("failed to read method limit from store, catalog limit is used",
			log.Group(group), log.String("key", key), log.Error(err))
	case found:
		if _, parseErr := limiter.ParseLimit(stored); parseErr != nil {
			ls.logger.Warn("invalid method limit in store, catalog limit is used",
				log.Group(group), log.String("key", key), log.Error(parseErr))
		} else {
			spec, source = stored, "store"
		}
	}

	newGL, err := ls.newGroupLimiter(group, spec)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if gl, ok = ls.groups[group]; ok {
		return gl.gate, nil
	}
	ls.groups[group] = newGL
	ls.logger.Debug("method limiter created",
		log.Group(group), log.String("limit", spec), log.String("source", source))
	return newGL.gate, nil
}

func (ls *limiterSet) newGroupLimiter(group, spec string) (*groupLimiter, error) {
	limit, err := limiter.ParseLimit(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: method limit of %q: %w", ErrConfiguration, group, err)
	}
	gate, err := ls.gateFactory.NewGate(ls.namespace+ls.region+group, limit, limit.MinSpacing(ls.factor))
	if err != nil {
		return nil, fmt.Errorf("%w: create gate of %q: %w", ErrConfiguration, group, err)
	}
	return &groupLimiter{spec: spec, gate: gate}, nil
}

// adjust replaces the gate of the endpoint group when the server reports a limit
// different from the recorded one, and persists the new limit to the shared store.
func (ls *limiterSet) adjust(ctx context.Context, group, reported string) bool {
	if reported == "" {
		return false
	}
	ls.mu.RLock()
	gl, ok := ls.groups[group]
	ls.mu.RUnlock()
	if ok && gl.spec == reported {
		return false
	}

	newGL, err := ls.newGroupLimiter(group, reported)
	if err != nil {
		ls.logger.Warn("invalid method limit reported by server", log.Group(group), log.Error(err))
		return false
	}
	ls.mu.Lock()
	if gl, ok = ls.groups[group]; ok && gl.spec == reported {
		ls.mu.Unlock()
		return false
	}
	ls.groups[group] = newGL
	ls.mu.Unlock()

	ls.metrics.IncLimitAdjustments(ls.region, group)
	ls.logger.Debug("method limit adjusted", log.Group(group), log.String("limit", reported))

	key := store.LimitKey(ls.namespace, ls.region, group)
	policy := retry.NewConstantBackoffPolicy(storeWriteRetryInterval, storeWriteRetryAttempts)
	if err = retry.DoWithRetry(ctx, policy, nil, nil, func(ctx context.Context) error {
		return ls.store.Set(ctx, key, reported)
	}); err != nil {
		ls.logger.Warn("failed to persist method limit to store",
			log.Group(group), log.String("key", key), log.Error(err))
	}
	return true
}

// wait consults both application gates and the group gate concurrently
// and returns the longest wait. Every consultation records an attempt.
func (ls *limiterSet) wait(ctx context.Context, group limiter.Gate) time.Duration {
	gates := [3]limiter.Gate{ls.app[0], ls.app[1], group}
	var waits [3]time.Duration
	var wg sync.WaitGroup
	wg.Add(len(gates))
	for i := range gates {
		go func(i int) {
			defer wg.Done()
			d, err := gates[i].Attempt(ctx)
			if err != nil {
				ls.logger.Warn("rate limit gate failed, backing off", log.Error(err))
				d = gateErrorWait
			}
			waits[i] = d
		}(i)
	}
	wg.Wait()

	var longest time.Duration
	for _, d := range waits {
		if d > longest {
			longest = d
		}
	}
	return longest
}

// groupSpec returns the limit specification the group gate was built from.
func (ls *limiterSet) groupSpec(group string) (string, bool) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	gl, ok := ls.groups[group]
	if !ok {
		return "", false
	}
	return gl.spec, true
}
