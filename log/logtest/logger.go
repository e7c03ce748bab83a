/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/ssgreg/logf"

	"github.com/gamebuddyapp/teeto/log"
)

// LoggerOpts allows to set custom options for test logger.
type LoggerOpts struct {
	// Output is where encoded entries go. Defaults to os.Stderr.
	Output io.Writer
	// Level is the minimal level of written entries. Defaults to log.LevelDebug.
	Level log.Level
}

// NewLogger returns a new simple preconfigured logger (output: stderr, format: json, level: debug).
// It may be used in tests and should never be used in production due to slow performance.
func NewLogger() log.FieldLogger {
	return NewLoggerWithOpts(LoggerOpts{})
}

// NewLoggerWithOpts returns logger instance configured according to options provided.
func NewLoggerWithOpts(opts LoggerOpts) log.FieldLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := opts.Level
	if level == "" {
		level = log.LevelDebug
	}
	return &log.LogfAdapter{Logger: logf.NewLogger(log.LevelToLogf(level), newSyncEncodingWriter(out))}
}

// NewTestLogger returns a logger that prints each entry through t.Log,
// so output is attached to the test that produced it and shown only on failure or with -v.
func NewTestLogger(t testing.TB) log.FieldLogger {
	return NewLoggerWithOpts(LoggerOpts{Output: testWriter{t}})
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// syncEncodingWriter is a logf.EntryWriter that encodes entries as JSON synchronously,
// so everything is written by the time a log call returns.
type syncEncodingWriter struct {
	mu      sync.Mutex
	encoder logf.Encoder
	out     io.Writer
}

func newSyncEncodingWriter(out io.Writer) *syncEncodingWriter {
	return &syncEncodingWriter{
		encoder: logf.NewJSONEncoder(logf.JSONEncoderConfig{
			EncodeTime:   logf.RFC3339NanoTimeEncoder,
			FieldKeyTime: "time",
		}),
		out: out,
	}
}

//nolint:gocritic
func (w *syncEncodingWriter) WriteEntry(e logf.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var buf logf.Buffer
	if err := w.encoder.Encode(&buf, e); err != nil {
		_, _ = io.WriteString(w.out, err.Error())
		return
	}
	_, _ = w.out.Write(buf.Data)
}
