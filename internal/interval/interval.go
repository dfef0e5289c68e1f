// Package interval models the half-open time range a training session
// occupies on a single calendar day and answers overlap queries for it.
package interval

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval indicates the end of a range does not fall after its start.
var ErrInvalidInterval = errors.New("interval: end must be after start")

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses a clock value in "15:04" form.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("interval: invalid time %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("interval: time %q out of range", value)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Valid reports whether the value falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String renders the value in "15:04" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Interval is a half-open range [Start, End) within one day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// New constructs an interval, rejecting ranges that do not move forward
// or that escape the day.
func New(start, end TimeOfDay) (Interval, error) {
	if !start.Valid() || end < 0 || end > minutesPerDay {
		return Interval{}, fmt.Errorf("%w: %s-%s out of range", ErrInvalidInterval, start, end)
	}
	if end <= start {
		return Interval{}, fmt.Errorf("%w: got %s-%s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// MustParse builds an interval from "15:04" strings, panicking on malformed
// input. Intended for fixtures and seed data only.
func MustParse(start, end string) Interval {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	iv, err := New(s, e)
	if err != nil {
		panic(err)
	}
	return iv
}

// Overlaps reports whether two ranges share any instant. Half-open semantics
// mean a range ending at T never overlaps one starting at T.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Duration returns the length of the range in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

// String renders the range as "09:00-10:30".
func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
