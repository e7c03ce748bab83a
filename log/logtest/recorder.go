/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"sync"
	"time"

	"github.com/ssgreg/logf"

	"github.com/gamebuddyapp/teeto/log"
)

// RecordedEntry represents recorded entry which was logged.
type RecordedEntry struct {
	LoggerName string
	Fields     []log.Field
	Level      log.Level
	Time       time.Time
	Text       string
}

// FindField tries to find field in logging entry by key.
func (re *RecordedEntry) FindField(key string) (*log.Field, bool) {
	for i := range re.Fields {
		if re.Fields[i].Key == key {
			return &re.Fields[i], true
		}
	}
	return nil, false
}

// journal is a logf.EntryWriter shared by a Recorder and all loggers derived from it.
type journal struct {
	mu      sync.RWMutex
	entries []RecordedEntry
}

//nolint:gocritic
func (j *journal) WriteEntry(e logf.Entry) {
	fields := make([]log.Field, 0, len(e.Fields)+len(e.DerivedFields))
	fields = append(fields, e.Fields...)
	fields = append(fields, e.DerivedFields...)

	j.mu.Lock()
	j.entries = append(j.entries, RecordedEntry{
		LoggerName: e.LoggerName,
		Fields:     fields,
		Level:      log.LevelFromLogf(e.Level),
		Time:       e.Time,
		Text:       e.Text,
	})
	j.mu.Unlock()
}

func (j *journal) filter(match func(RecordedEntry) bool, limit int) []RecordedEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var found []RecordedEntry
	for _, entry := range j.entries {
		if match == nil || match(entry) {
			found = append(found, entry)
			if len(found) == limit {
				break
			}
		}
	}
	return found
}

// Recorder is an implementation of log.FieldLogger that
// records all logged entries for later inspection in tests.
type Recorder struct {
	*log.LogfAdapter
	journal *journal
}

// NewRecorder returns an initialized Recorder.
func NewRecorder() *Recorder {
	j := &journal{}
	return &Recorder{&log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, j)}, j}
}

func (r *Recorder) derive(l log.FieldLogger) *Recorder {
	return &Recorder{l.(*log.LogfAdapter), r.journal}
}

// With returns a new Recorder with the given additional fields. Entries go to the same journal.
func (r *Recorder) With(fs ...log.Field) log.FieldLogger {
	return r.derive(r.LogfAdapter.With(fs...))
}

// WithLevel returns a new Recorder with the given additional level check. Entries go to the same journal.
func (r *Recorder) WithLevel(level log.Level) log.FieldLogger {
	return r.derive(r.LogfAdapter.WithLevel(level))
}

// Entries returns all recorded logging entries.
func (r *Recorder) Entries() []RecordedEntry {
	return r.journal.filter(nil, -1)
}

// FindEntry tries to find recorded logging entry by message.
func (r *Recorder) FindEntry(msg string) (RecordedEntry, bool) {
	return r.FindEntryByFilter(hasText(msg))
}

// FindAllEntries returns all recorded logging entries with the given message.
func (r *Recorder) FindAllEntries(msg string) []RecordedEntry {
	return r.FindAllEntriesByFilter(hasText(msg))
}

// FindEntryByFilter tries to find recorded logging entry by filter (callback).
func (r *Recorder) FindEntryByFilter(filter func(entry RecordedEntry) bool) (RecordedEntry, bool) {
	if found := r.journal.filter(filter, 1); len(found) > 0 {
		return found[0], true
	}
	return RecordedEntry{}, false
}

// FindAllEntriesByFilter tries to find all recorded logging entries by filter (callback).
func (r *Recorder) FindAllEntriesByFilter(filter func(entry RecordedEntry) bool) []RecordedEntry {
	return r.journal.filter(filter, -1)
}

// Reset resets all recorded logs.
func (r *Recorder) Reset() {
	r.journal.mu.Lock()
	r.journal.entries = nil
	r.journal.mu.Unlock()
}

func hasText(msg string) func(RecordedEntry) bool {
	return func(entry RecordedEntry) bool { return entry.Text == msg }
}
