/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLimit is returned when a limit specification cannot be parsed.
var ErrInvalidLimit = errors.New("invalid limit specification")

// Limit describes the maximum number of actions allowed within an interval.
type Limit struct {
	Max      int
	Interval time.Duration
}

// ParseLimit parses limit specification in "max:intervalSeconds" form, e.g. "20:1".
// Riot may report several comma-separated pairs ("20:1,100:120"), only the first one is taken.
func ParseLimit(spec string) (Limit, error) {
	first := strings.TrimSpace(strings.SplitN(spec, ",", 2)[0])
	parts := strings.Split(first, ":")
	if len(parts) != 2 {
		return Limit{}, fmt.Errorf("%w %q: expected max:intervalSeconds", ErrInvalidLimit, spec)
	}
	maxReqs, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || maxReqs <= 0 {
		return Limit{}, fmt.Errorf("%w %q: max should be a positive integer", ErrInvalidLimit, spec)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || seconds <= 0 {
		return Limit{}, fmt.Errorf("%w %q: interval should be a positive number of seconds", ErrInvalidLimit, spec)
	}
	return Limit{Max: maxReqs, Interval: time.Duration(seconds) * time.Second}, nil
}

// MustParseLimit is like ParseLimit but panics on error.
func MustParseLimit(spec string) Limit {
	l, err := ParseLimit(spec)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the limit in "max:intervalSeconds" form.
func (l Limit) String() string {
	return fmt.Sprintf("%d:%d", l.Max, int64(l.Interval/time.Second))
}

// MinSpacing returns the minimal spacing between two actions that spreads the limit evenly
// over its interval, multiplied by factor and rounded up to whole milliseconds.
// Zero or negative factor disables spacing.
func (l Limit) MinSpacing(factor float64) time.Duration {
	if factor <= 0 || l.Max <= 0 {
		return 0
	}
	ms := float64(l.Interval.Milliseconds()) / float64(l.Max) * factor
	return time.Duration(math.Ceil(ms)) * time.Millisecond
}
