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
	"github.com/rs/xid"
)

// rollingWindowScript keeps timestamps (in microseconds) of scheduled actions in a sorted set.
// It always records the new attempt at the time it's scheduled for (now plus the wait),
// so at most max actions fall into any interval. Returns the wait in milliseconds.
//
// KEYS[1] - sorted set key
// ARGV[1] - now, ARGV[2] - clear-before mark, ARGV[3] - interval, ARGV[4] - max actions,
// ARGV[5] - min spacing (all time values in microseconds), ARGV[6] - unique member.
var rollingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local interval = tonumber(ARGV[3])
local maxActions = tonumber(ARGV[4])
local minSpacing = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', key, 0, ARGV[2])
local entries = redis.call('ZRANGE', key, 0, -1, 'WITHSCORES')

local count = #entries / 2
local wait = 0
if count >= maxActions then
	wait = tonumber(entries[(count - maxActions) * 2 + 2]) + interval - now
end
if count > 0 then
	local spacingWait = tonumber(entries[#entries]) + minSpacing - now
	if spacingWait > wait then
		wait = spacingWait
	end
end
if wait < 0 then
	wait = 0
end
local waitMs = math.ceil(wait / 1000)

redis.call('ZADD', key, now + waitMs * 1000, ARGV[6])
redis.call('PEXPIRE', key, waitMs + math.ceil(interval / 1000))
return waitMs
`)

// RedisGate implements a rolling window limit with minimal spacing between actions.
// State is kept in Redis, so all processes using the same key share the bucket.
type RedisGate struct {
	client     redis.Scripter
	key        string
	limit      Limit
	minSpacing time.Duration
	now        func() time.Time
}

// NewRedisGate creates a new RedisGate.
func NewRedisGate(client redis.Scripter, key string, limit Limit, minSpacing time.Duration) *RedisGate {
	return &RedisGate{client: client, key: key, limit: limit, minSpacing: minSpacing, now: time.Now}
}

// Attempt implements Gate.
func (g *RedisGate) Attempt(ctx context.Context) (time.Duration, error) {
	now := g.now().UnixMicro()
	interval := g.limit.Interval.Microseconds()
	waitMs, err := rollingWindowScript.Run(ctx, g.client, []string{g.key},
		now, now-interval, interval, g.limit.Max, g.minSpacing.Microseconds(), xid.New().String(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("run rolling window script for key %q: %w", g.key, err)
	}
	return time.Duration(waitMs) * time.Millisecond, nil
}
