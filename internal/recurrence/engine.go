// Package recurrence expands one scheduling request into the ordered
// sequence of candidate dates it covers.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// Cadence represents the supported repetition patterns.
type Cadence string

const (
	// CadenceSingle schedules exactly one date.
	CadenceSingle Cadence = "single"
	// CadenceDaily schedules every date from the start through the end bound.
	CadenceDaily Cadence = "daily"
	// CadenceWeekly schedules every seventh date from the start through the end bound.
	CadenceWeekly Cadence = "weekly"
)

// ErrInvalidRecurrence indicates a repeating cadence without a usable end bound.
var ErrInvalidRecurrence = errors.New("recurrence: repeating cadence requires an end date on or after the start")

// ParseCadence maps a wire value onto a Cadence.
func ParseCadence(value string) (Cadence, error) {
	switch Cadence(value) {
	case CadenceSingle, CadenceDaily, CadenceWeekly:
		return Cadence(value), nil
	default:
		return "", fmt.Errorf("recurrence: unknown cadence %q", value)
	}
}

// Location returns the college-local zone all dates are normalized to.
func Location() *time.Location {
	return ist
}

// Date truncates a timestamp to midnight in the college-local zone.
func Date(t time.Time) time.Time {
	y, m, d := t.In(ist).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ist)
}

// Expand produces the ascending candidate dates for a scheduling request.
// The start date is always the first element. For CadenceSingle the end bound
// is ignored; for the repeating cadences it is inclusive and must not precede
// the start, otherwise ErrInvalidRecurrence is returned.
func Expand(start time.Time, cadence Cadence, until *time.Time) ([]time.Time, error) {
	startDate := Date(start)

	if cadence == CadenceSingle {
		return []time.Time{startDate}, nil
	}

	if until == nil {
		return nil, ErrInvalidRecurrence
	}
	untilDate := Date(*until)
	if untilDate.Before(startDate) {
		return nil, fmt.Errorf("%w: %s precedes %s", ErrInvalidRecurrence,
			untilDate.Format(time.DateOnly), startDate.Format(time.DateOnly))
	}

	freq := rrule.DAILY
	if cadence == CadenceWeekly {
		freq = rrule.WEEKLY
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: startDate,
		Until:   untilDate,
	})
	if err != nil {
		return nil, fmt.Errorf("recurrence: building rule: %w", err)
	}

	occurrences := rule.All()
	dates := make([]time.Time, 0, len(occurrences))
	for _, occurrence := range occurrences {
		dates = append(dates, Date(occurrence))
	}
	return dates, nil
}
