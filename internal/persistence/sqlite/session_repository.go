package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"time"

	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/persistence"
)

// SessionRepository persists training sessions. Writes re-check venue
// exclusivity inside the transaction so two racing bookings cannot both land,
// and retry with backoff while SQLite reports lock contention.
type SessionRepository struct {
	pool  *ConnectionPool
	retry RetryConfig
}

// NewSessionRepository creates a session repository backed by the pool.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool, retry: DefaultRetryConfig()}
}

const sessionColumns = `id, batch_id, venue_id, date, start_minute, end_minute, topic, trainer, cancelled, created_at, updated_at`

// CreateSession inserts a session after verifying no live session overlaps it
// at the same venue and date. A racing overlap surfaces as ErrOverlap.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.TrainingSession) error {
	return WithRetry(ctx, r.retry, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := guardOverlap(ctx, tx, session); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO training_sessions (`+sessionColumns+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				session.ID, session.BatchID, session.VenueID,
				formatDate(session.Date), int(session.Start), int(session.End),
				session.Topic, session.Trainer, boolToInt(session.Cancelled),
				formatTimestamp(session.CreatedAt), formatTimestamp(session.UpdatedAt))
			if err != nil {
				return mapError(err)
			}
			return nil
		})
	})
}

// UpdateSession rewrites a session row, re-running the overlap guard for the
// new venue, date and time range.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.TrainingSession) error {
	return WithRetry(ctx, r.retry, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := guardOverlap(ctx, tx, session); err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx,
				`UPDATE training_sessions
				 SET batch_id = ?, venue_id = ?, date = ?, start_minute = ?, end_minute = ?,
				     topic = ?, trainer = ?, cancelled = ?, updated_at = ?
				 WHERE id = ?`,
				session.BatchID, session.VenueID, formatDate(session.Date),
				int(session.Start), int(session.End), session.Topic, session.Trainer,
				boolToInt(session.Cancelled), formatTimestamp(session.UpdatedAt), session.ID)
			if err != nil {
				return mapError(err)
			}
			return requireRow(result)
		})
	})
}

// guardOverlap rejects the write when another live session at the same venue
// and date intersects the half-open time range.
func guardOverlap(ctx context.Context, tx *sql.Tx, session persistence.TrainingSession) error {
	if session.Cancelled {
		return nil
	}
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM training_sessions
		 WHERE venue_id = ? AND date = ? AND cancelled = 0 AND id != ?
		   AND start_minute < ? AND ? < end_minute`,
		session.VenueID, formatDate(session.Date), session.ID,
		int(session.End), int(session.Start)).Scan(&count)
	if err != nil {
		return mapError(err)
	}
	if count > 0 {
		return persistence.ErrOverlap
	}
	return nil
}

// GetSession fetches one session by id.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.TrainingSession, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = ?`, id)
	return scanSession(row)
}

// DeleteSession removes a session row.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM training_sessions WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// SessionsFor lists the sessions booked at a venue on a date ordered by start
// time. With excludeCancelled the result is the conflict candidate set.
func (r *SessionRepository) SessionsFor(ctx context.Context, venueID string, date time.Time, excludeCancelled bool) ([]persistence.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE venue_id = ? AND date = ?`
	if excludeCancelled {
		query += ` AND cancelled = 0`
	}
	query += ` ORDER BY start_minute, id`

	rows, err := r.pool.db.QueryContext(ctx, query, venueID, formatDate(date))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListSessionsForBatch lists every session for a batch ordered by date then
// start time.
func (r *SessionRepository) ListSessionsForBatch(ctx context.Context, batchID string) ([]persistence.TrainingSession, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions
		 WHERE batch_id = ? ORDER BY date, start_minute, id`, batchID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.TrainingSession, error) {
	var (
		s                    persistence.TrainingSession
		date                 string
		startMin, endMin     int
		cancelled            int
		createdAt, updatedAt string
	)
	err := row.Scan(&s.ID, &s.BatchID, &s.VenueID, &date, &startMin, &endMin,
		&s.Topic, &s.Trainer, &cancelled, &createdAt, &updatedAt)
	if err != nil {
		return persistence.TrainingSession{}, mapError(err)
	}

	if s.Date, err = parseDate(date); err != nil {
		return persistence.TrainingSession{}, err
	}
	s.Start = interval.TimeOfDay(startMin)
	s.End = interval.TimeOfDay(endMin)
	s.Cancelled = cancelled != 0
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.TrainingSession{}, err
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.TrainingSession{}, err
	}
	return s, nil
}

func collectSessions(rows *sql.Rows) ([]persistence.TrainingSession, error) {
	var sessions []persistence.TrainingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return sessions, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
