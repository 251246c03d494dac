// Package clock abstracts wall-clock access so aggregates can be tested
// against fixed times.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Test double.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// Millis converts a time to milliseconds since the Unix epoch, the timestamp
// unit used throughout the persisted shapes.
func Millis(t time.Time) int64 { return t.UnixMilli() }
