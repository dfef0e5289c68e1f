// Package conflict decides whether a candidate booking collides with the
// sessions already scheduled at a venue on a given date. Pure value logic;
// callers supply the existing bookings from the store.
package conflict

import "github.com/example/training-scheduler/internal/interval"

// Booking is the slice of session state the checker needs: identity, the
// occupied time range, and whether the session still holds its slot.
type Booking struct {
	SessionID string
	Interval  interval.Interval
	Cancelled bool
}

// FindConflicts returns every existing booking whose range overlaps the
// candidate. Cancelled bookings never conflict, and excludeID omits a session
// from the comparison set so an edit is not reported against itself.
//
// All matches are returned, in the order given, so callers can show the user
// exactly which bookings collide. An empty result means the slot is free.
func FindConflicts(existing []Booking, candidate interval.Interval, excludeID string) []Booking {
	var conflicts []Booking
	for _, booking := range existing {
		if booking.Cancelled {
			continue
		}
		if excludeID != "" && booking.SessionID == excludeID {
			continue
		}
		if booking.Interval.Overlaps(candidate) {
			conflicts = append(conflicts, booking)
		}
	}
	return conflicts
}
