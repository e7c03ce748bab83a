/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// IsRetryable defines a func that can tell if error is retryable as opposed to persistent.
type IsRetryable func(error) bool

// RetryableFunc is function that does some work and can be potentially retried.
type RetryableFunc func(ctx context.Context) error

// Policy defines backoff strategy.
type Policy interface {
	NewBackOff() backoff.BackOff
}

// DoWithRetry calls fn until it succeeds, the policy gives up or ctx is done.
// Errors rejected by isRetryable stop the loop immediately; a nil isRetryable retries every error.
// notify, if set, is called before every sleep with the failed attempt's error and the delay.
// The last error of fn is returned.
func DoWithRetry(ctx context.Context, p Policy, isRetryable IsRetryable, notify backoff.Notify, fn RetryableFunc) error {
	bo := backoff.WithContext(p.NewBackOff(), ctx)
	return backoff.RetryNotify(func() error {
		err := fn(bo.Context())
		if err == nil || isRetryable == nil || isRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, bo, notify)
}

// The PolicyFunc type is an adapter to allow the use of ordinary functions as retry.Policy.
type PolicyFunc func() backoff.BackOff

// NewBackOff implements retry.Policy.
func (f PolicyFunc) NewBackOff() backoff.BackOff {
	return f()
}

// Default parameters of the exponential backoff.
const (
	DefaultExponentialBackoffMultiplier          = 1.5
	DefaultExponentialBackoffRandomizationFactor = 0.5
)

// ExponentialBackoffPolicy means repeat up to max times with exponentially growing delays.
type ExponentialBackoffPolicy struct {
	initialInterval time.Duration
	maxAttempts     int
	opts            ExponentialBackoffOpts
}

// ExponentialBackoffOpts represents options for ExponentialBackoffPolicy.
type ExponentialBackoffOpts struct {
	// Multiplier is a factor by which the delay grows on every attempt.
	// DefaultExponentialBackoffMultiplier is used when it's zero.
	Multiplier float64

	// NoJitter disables randomization of delays, so they grow exactly by Multiplier.
	// Otherwise, DefaultExponentialBackoffRandomizationFactor is used.
	NoJitter bool

	// MaxInterval caps the delay. Zero means no cap.
	MaxInterval time.Duration
}

// NewExponentialBackoffPolicy returns an exponential backoff policy with given initial interval and max retry attempt count.
func NewExponentialBackoffPolicy(initialInterval time.Duration, maxRetryAttempts int) ExponentialBackoffPolicy {
	return NewExponentialBackoffPolicyWithOpts(initialInterval, maxRetryAttempts, ExponentialBackoffOpts{})
}

// NewExponentialBackoffPolicyWithOpts returns an exponential backoff policy with given initial interval,
// max retry attempt count (zero means unlimited) and options.
func NewExponentialBackoffPolicyWithOpts(
	initialInterval time.Duration, maxRetryAttempts int, opts ExponentialBackoffOpts,
) ExponentialBackoffPolicy {
	if opts.Multiplier == 0 {
		opts.Multiplier = DefaultExponentialBackoffMultiplier
	}
	return ExponentialBackoffPolicy{initialInterval, maxRetryAttempts, opts}
}

// NewBackOff implements retry.Policy.
func (p ExponentialBackoffPolicy) NewBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.initialInterval
	eb.Multiplier = p.opts.Multiplier
	if p.opts.NoJitter {
		eb.RandomizationFactor = 0
	} else {
		eb.RandomizationFactor = DefaultExponentialBackoffRandomizationFactor
	}
	if p.opts.MaxInterval > 0 {
		eb.MaxInterval = p.opts.MaxInterval
	} else {
		eb.MaxInterval = time.Duration(math.MaxInt64)
	}
	// Attempts are bounded by count only.
	eb.MaxElapsedTime = 0
	return withMaxAttempts(eb, p.maxAttempts)
}

// ConstantBackoffPolicy means repeat up to max times with constant interval delays.
type ConstantBackoffPolicy struct {
	interval    time.Duration
	maxAttempts int
}

// NewConstantBackoffPolicy returns a constant backoff policy with given interval and max retry attempt count.
func NewConstantBackoffPolicy(interval time.Duration, maxRetryAttempts int) ConstantBackoffPolicy {
	return ConstantBackoffPolicy{interval, maxRetryAttempts}
}

// NewBackOff implements retry.Policy.
func (p ConstantBackoffPolicy) NewBackOff() backoff.BackOff {
	return withMaxAttempts(backoff.NewConstantBackOff(p.interval), p.maxAttempts)
}

// withMaxAttempts caps bo with maxAttempts retries (zero means unlimited) and resets it.
func withMaxAttempts(bo backoff.BackOff, maxAttempts int) backoff.BackOff {
	if maxAttempts > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(maxAttempts))
	}
	bo.Reset()
	return bo
}
