/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamebuddyapp/teeto/limiter"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 20)

	e, ok := c.Lookup("summoner.byName")
	require.True(t, ok)
	require.Equal(t, Endpoint{
		Path:  "summoner.byName",
		URL:   "/lol/summoner/v4/summoners/by-name/%s",
		Limit: "1600:60",
		Group: "summoner.byName",
	}, e)

	e, ok = c.Lookup("league.master")
	require.True(t, ok)
	require.Equal(t, "league.apex", e.Group)

	_, ok = c.Lookup("summoner")
	require.False(t, ok)

	for _, e = range c.Match("*") {
		_, err := limiter.ParseLimit(e.Limit)
		require.NoError(t, err, e.Path)
	}
}

func TestLoad(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		c, err := Load(bytes.NewBufferString(`
champion:
  list:
    url: /lol/platform/v3/champions/%s
    limit: "10:1"
lol:
  status:
    shard:
      url: /lol/status/v3/shard-data
      limit: "20:10"
`))
		require.NoError(t, err)
		require.Equal(t, 2, c.Len())
		e, ok := c.Lookup("lol.status.shard")
		require.True(t, ok)
		require.Equal(t, "/lol/status/v3/shard-data", e.URL)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := Load(bytes.NewBufferString("match:\n  byId:\n    url: /m/%s\n    limit: fast\n"))
		require.ErrorIs(t, err, limiter.ErrInvalidLimit)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(bytes.NewBufferString("match:\n  byId:\n    url: /m/%s\n    limit: \"1:1\"\n    method: POST\n"))
		require.EqualError(t, err, `endpoint "match.byId": unknown field "method"`)
	})

	t.Run("leaf is not a map", func(t *testing.T) {
		_, err := Load(bytes.NewBufferString("match: 42\n"))
		require.EqualError(t, err, `catalog node "match" should be a map`)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(bytes.NewBufferString("match: [\n"))
		require.Error(t, err)
	})
}

func TestMatch(t *testing.T) {
	paths := func(endpoints []Endpoint) []string {
		var res []string
		for _, e := range endpoints {
			res = append(res, e.Path)
		}
		return res
	}
	require.Equal(t, []string{"match.byId", "match.idsByPuuid", "match.timeline"}, paths(Default().Match("match.*")))
	require.Equal(t, []string{"account.byPuuid", "summoner.byPuuid"}, paths(Default().Match("*.byPuuid")))
	require.Empty(t, Default().Match("tft.*"))
}

func TestWithLimitOverrides(t *testing.T) {
	c, err := Default().WithLimitOverrides(map[string]string{
		"match.*":        "500:10",
		"match.timeline": "100:10",
	})
	require.NoError(t, err)

	e, _ := c.Lookup("match.byId")
	require.Equal(t, "500:10", e.Limit)
	e, _ = c.Lookup("match.timeline")
	require.Equal(t, "100:10", e.Limit)
	e, _ = c.Lookup("summoner.byName")
	require.Equal(t, "1600:60", e.Limit)

	c, err = Default().WithLimitOverrides(map[string]string{"summoner.bypuuid": "10:1"})
	require.NoError(t, err)
	e, _ = c.Lookup("summoner.byPuuid")
	require.Equal(t, "10:1", e.Limit)

	// The source catalog is untouched.
	e, _ = Default().Lookup("match.byId")
	require.Equal(t, "2000:10", e.Limit)

	_, err = Default().WithLimitOverrides(map[string]string{"match.*": "often"})
	require.ErrorIs(t, err, limiter.ErrInvalidLimit)
}

func TestBuildPath(t *testing.T) {
	p, err := BuildPath("/lol/champion-mastery/v4/champion-masteries/by-summoner/%s/by-champion/%s", []string{"abc", "103"})
	require.NoError(t, err)
	require.Equal(t, "/lol/champion-mastery/v4/champion-masteries/by-summoner/abc/by-champion/103", p)

	p, err = BuildPath("/riot/account/v1/accounts/by-riot-id/%s/%s", []string{"Hide on bush", "KR1"})
	require.NoError(t, err)
	require.Equal(t, "/riot/account/v1/accounts/by-riot-id/Hide%20on%20bush/KR1", p)

	p, err = BuildPath("/lol/status/v4/platform-data", nil)
	require.NoError(t, err)
	require.Equal(t, "/lol/status/v4/platform-data", p)

	_, err = BuildPath("/lol/platform/v3/champions/%s", nil)
	require.ErrorIs(t, err, ErrArgsMismatch)
	_, err = BuildPath("/lol/status/v4/platform-data", []string{"x"})
	require.ErrorIs(t, err, ErrArgsMismatch)
}
