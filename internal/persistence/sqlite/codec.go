package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/training-scheduler/internal/recurrence"
)

// Dates are stored as "YYYY-MM-DD" and timestamps as RFC3339 text. Dates are
// interpreted in the campus timezone so midnight round-trips exactly.

func formatDate(t time.Time) string {
	return t.In(recurrence.Location()).Format(time.DateOnly)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, recurrence.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: invalid stored date %q: %w", s, err)
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatNullableTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

func parseNullableTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
