/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New[string, string](0, nil)
	require.Error(t, err)
}

func TestLRUCache(t *testing.T) {
	metrics := NewPrometheusMetrics("", nil)
	cache, err := New[string, string](2, metrics)
	require.NoError(t, err)

	_, found := cache.Get("na1match.byId_limit")
	require.False(t, found)

	cache.Add("na1match.byId_limit", "500:10")
	cache.Add("na1summoner.byName_limit", "2000:60")
	val, found := cache.Get("na1match.byId_limit")
	require.True(t, found)
	require.Equal(t, "500:10", val)

	// summoner.byName is the least recently used now.
	cache.Add("euw1match.byId_limit", "250:10")
	require.Equal(t, 2, cache.Len())
	_, found = cache.Get("na1summoner.byName_limit")
	require.False(t, found)

	cache.Add("na1match.byId_limit", "100:10")
	val, _ = cache.Get("na1match.byId_limit")
	require.Equal(t, "100:10", val)

	require.True(t, cache.Remove("euw1match.byId_limit"))
	require.False(t, cache.Remove("euw1match.byId_limit"))
	require.Equal(t, 1, cache.Len())

	require.Equal(t, 2, int(testutil.ToFloat64(metrics.HitsTotal)))
	require.Equal(t, 2, int(testutil.ToFloat64(metrics.MissesTotal)))
	require.Equal(t, 1, int(testutil.ToFloat64(metrics.EvictionsTotal)))
	require.Equal(t, 1, int(testutil.ToFloat64(metrics.EntriesAmount)))

	cache.Purge()
	require.Zero(t, cache.Len())
	require.Zero(t, int(testutil.ToFloat64(metrics.EntriesAmount)))
}
