/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoffPolicy(t *testing.T) {
	t.Run("doubling without jitter", func(t *testing.T) {
		policy := NewExponentialBackoffPolicyWithOpts(time.Second, 0, ExponentialBackoffOpts{Multiplier: 2, NoJitter: true})
		bf := policy.NewBackOff()
		require.Equal(t, time.Second, bf.NextBackOff())
		require.Equal(t, 2*time.Second, bf.NextBackOff())
		require.Equal(t, 4*time.Second, bf.NextBackOff())
		require.Equal(t, 8*time.Second, bf.NextBackOff())
	})

	t.Run("max interval", func(t *testing.T) {
		policy := NewExponentialBackoffPolicyWithOpts(time.Second, 0,
			ExponentialBackoffOpts{Multiplier: 2, NoJitter: true, MaxInterval: 3 * time.Second})
		bf := policy.NewBackOff()
		require.Equal(t, time.Second, bf.NextBackOff())
		require.Equal(t, 2*time.Second, bf.NextBackOff())
		require.Equal(t, 3*time.Second, bf.NextBackOff())
	})

	t.Run("max attempts", func(t *testing.T) {
		bf := NewExponentialBackoffPolicy(time.Millisecond, 2).NewBackOff()
		require.NotEqual(t, backoff.Stop, bf.NextBackOff())
		require.NotEqual(t, backoff.Stop, bf.NextBackOff())
		require.Equal(t, backoff.Stop, bf.NextBackOff())
	})
}

func TestDoWithRetry(t *testing.T) {
	errTemporary := errors.New("temporary")
	errPersistent := errors.New("persistent")
	policy := NewConstantBackoffPolicy(time.Millisecond, 3)

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		var notified []error
		err := DoWithRetry(context.Background(), policy, nil, func(err error, _ time.Duration) {
			notified = append(notified, err)
		}, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTemporary
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []error{errTemporary, errTemporary}, notified)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := DoWithRetry(context.Background(), policy, nil, nil, func(ctx context.Context) error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		require.Equal(t, 4, calls)
	})

	t.Run("not retryable error", func(t *testing.T) {
		calls := 0
		err := DoWithRetry(context.Background(), policy, func(err error) bool {
			return !errors.Is(err, errPersistent)
		}, nil, func(ctx context.Context) error {
			calls++
			return errPersistent
		})
		require.ErrorIs(t, err, errPersistent)
		require.Equal(t, 1, calls)
	})
}
