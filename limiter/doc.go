/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

// Package limiter provides attempt gates: non-blocking checks against a single rate-limit bucket
// that record an attempt and report how long the caller would have had to wait for it.
//
// A bucket is described by a Limit (maximum number of actions per interval) and an optional
// minimal spacing between two consecutive actions. Every gate records an attempt at the time
// it's scheduled for, so a caller that waits before acting never exceeds the limit.
// Several backends are available:
//   - RedisGate keeps a rolling window in a Redis sorted set, so cooperating processes share it
//   - RollingWindowGate is the same rolling window kept in process memory (the default)
//   - TokenBucketGate is an in-process single token bucket built on golang.org/x/time/rate
//   - SlidingWindowGate is an in-process sliding window counter
//   - LeakyBucketGate is an in-process GCRA (leaky bucket variant) without burst
//
// Factory creates gates for the configured backend.
package limiter
