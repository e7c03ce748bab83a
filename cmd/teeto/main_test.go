/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package main

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/riotapi"
)

func TestParseQuery(t *testing.T) {
	query, err := parseQuery([]string{"count=5", "queue=420", "queue=440", "start="})
	require.NoError(t, err)
	require.Equal(t, url.Values{"count": {"5"}, "queue": {"420", "440"}, "start": {""}}, query)

	_, err = parseQuery([]string{"count"})
	require.EqualError(t, err, `invalid query parameter "count", key=value is expected`)

	query, err = parseQuery(nil)
	require.NoError(t, err)
	require.Nil(t, query)
}

func TestGetOptions_Request(t *testing.T) {
	opts := &getOptions{query: []string{"count=5"}, priority: true}
	req, err := opts.request([]string{"americas", "match.idsByPuuid", "abc"})
	require.NoError(t, err)
	require.Equal(t, riotapi.Request{
		Region:   "americas",
		Endpoint: "match.idsByPuuid",
		Args:     []string{"abc"},
		Query:    url.Values{"count": {"5"}},
		Priority: riotapi.PriorityHigh,
	}, req)
}

func TestWriteBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBody(&buf, []byte(`{"a":1}`), false))
	require.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeBody(&buf, []byte(`{"a":1}`), true))
	require.Equal(t, "{\"a\":1}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeBody(&buf, nil, false))
	require.Equal(t, "null\n", buf.String())
}

func TestEndpointsCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "teeto.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("riot:\n  endpointLimits:\n    summoner.byPuuid: \"10:1\"\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"endpoints", "summoner.by*", "--config", cfgPath})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "ENDPOINT"))
	require.Equal(t, []string{"summoner.byPuuid", "10:1", "summoner.byPuuid", "/lol/summoner/v4/summoners/by-puuid/%s"},
		strings.Fields(lines[4]))
}

func TestLoadAppConfig(t *testing.T) {
	cfg, err := loadAppConfig("")
	require.NoError(t, err)
	require.Equal(t, log.OutputStderr, cfg.Log.Output)
	require.Equal(t, log.FormatText, cfg.Log.Format)
	require.Equal(t, riotapi.DefaultPrefix, cfg.Riot.Prefix)
	require.Equal(t, riotapi.DefaultAppLimits, cfg.Riot.AppLimits)
}
