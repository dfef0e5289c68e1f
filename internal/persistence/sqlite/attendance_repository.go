package sqlite

import (
	"context"

	"github.com/example/training-scheduler/internal/persistence"
)

// AttendanceRepository persists per-session attendance rows.
type AttendanceRepository struct {
	pool *ConnectionPool
}

// NewAttendanceRepository creates an attendance repository backed by the pool.
func NewAttendanceRepository(pool *ConnectionPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// AddRecord inserts one attendance row. A second row for the same student and
// session maps to ErrDuplicate.
func (r *AttendanceRepository) AddRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO attendance_records (id, session_id, student_id, present, marked_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.SessionID, record.StudentID,
		boolToInt(record.Present), formatTimestamp(record.MarkedAt))
	return mapError(err)
}

// ListBySession returns the attendance rows for a session ordered by student.
func (r *AttendanceRepository) ListBySession(ctx context.Context, sessionID string) ([]persistence.AttendanceRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, session_id, student_id, present, marked_at
		 FROM attendance_records WHERE session_id = ? ORDER BY student_id, id`, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []persistence.AttendanceRecord
	for rows.Next() {
		var (
			rec      persistence.AttendanceRecord
			present  int
			markedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.StudentID, &present, &markedAt); err != nil {
			return nil, mapError(err)
		}
		rec.Present = present != 0
		if rec.MarkedAt, err = parseTimestamp(markedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

// CountBySession reports how many attendance rows a session carries.
func (r *AttendanceRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM attendance_records WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// DeleteBySession removes every attendance row for a session. Deleting zero
// rows is not an error; sessions without marked attendance are common.
func (r *AttendanceRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM attendance_records WHERE session_id = ?`, sessionID)
	return mapError(err)
}
