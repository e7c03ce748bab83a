/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamebuddyapp/teeto/log"
)

func TestNewLoggerWithOpts(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOpts(LoggerOpts{Output: &buf})

	logger.Debug("gate consulted", log.Region("euw1"))
	logger.Errorf("request %s failed", "match.byId")

	dec := json.NewDecoder(&buf)
	var entry map[string]interface{}
	require.NoError(t, dec.Decode(&entry))
	require.Equal(t, "debug", entry["level"])
	require.Equal(t, "euw1", entry["region"])

	entry = nil
	require.NoError(t, dec.Decode(&entry))
	require.Equal(t, "error", entry["level"])
	require.Equal(t, "request match.byId failed", entry["msg"])
	require.False(t, dec.More())
}

func TestNewLoggerWithOpts_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOpts(LoggerOpts{Output: &buf, Level: log.LevelWarn})

	logger.Info("skipped")
	require.Zero(t, buf.Len())

	logger.Warn("written")
	require.Contains(t, buf.String(), `"msg":"written"`)
}

type logCapture struct {
	testing.TB
	logged []string
}

func (c *logCapture) Helper() {}

func (c *logCapture) Log(args ...interface{}) {
	c.logged = append(c.logged, args[0].(string))
}

func TestNewTestLogger(t *testing.T) {
	capture := &logCapture{TB: t}
	logger := NewTestLogger(capture)

	logger.Info("first")
	logger.Warn("second")

	require.Len(t, capture.logged, 2)
	require.Contains(t, capture.logged[0], `"msg":"first"`)
	require.False(t, strings.HasSuffix(capture.logged[0], "\n"))
	require.Contains(t, capture.logged[1], `"level":"warn"`)
}
