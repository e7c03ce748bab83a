/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package log

import (
	"time"

	"github.com/ssgreg/logf"
)

// Field hold data of a specific field.
type Field = logf.Field

// Field constructors re-exported from logf so callers never import it directly.
var (
	Error      = logf.Error
	NamedError = logf.NamedError
	String     = logf.String
	Strings    = logf.Strings
	Int        = logf.Int
	Int64      = logf.Int64
	Float64    = logf.Float64
	Bool       = logf.Bool
	Duration   = logf.Duration
	Time       = logf.Time
	Any        = logf.Any
)

// Region returns a new Field with the "region" key.
func Region(region string) Field {
	return String("region", region)
}

// Endpoint returns a new Field with the "endpoint" key.
func Endpoint(name string) Field {
	return String("endpoint", name)
}

// Group returns a new Field with the "group" key. Group is the rate limiting scope of an endpoint.
func Group(name string) Field {
	return String("group", name)
}

// DurationIn returns a new Field with the "duration" as key and received duration in unit as value (int64).
func DurationIn(val, unit time.Duration) Field {
	return Int64("duration", val.Nanoseconds()/unit.Nanoseconds())
}
