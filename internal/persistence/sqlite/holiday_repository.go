package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/persistence"
)

// HolidayRepository persists holiday calendar entries.
type HolidayRepository struct {
	pool *ConnectionPool
}

// NewHolidayRepository creates a holiday repository backed by the pool.
func NewHolidayRepository(pool *ConnectionPool) *HolidayRepository {
	return &HolidayRepository{pool: pool}
}

const holidayColumns = `id, date, name, description, scope, scope_id, created_at, updated_at`

// CreateHoliday inserts one calendar entry. A second entry for the same date,
// scope and owner trips the unique index and maps to ErrDuplicate.
func (r *HolidayRepository) CreateHoliday(ctx context.Context, h persistence.Holiday) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO holidays (`+holidayColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, formatDate(h.Date), h.Name, h.Description, string(h.Scope), h.ScopeID,
		formatTimestamp(h.CreatedAt), formatTimestamp(h.UpdatedAt))
	return mapError(err)
}

// GetHoliday fetches one entry by id.
func (r *HolidayRepository) GetHoliday(ctx context.Context, id string) (persistence.Holiday, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+holidayColumns+` FROM holidays WHERE id = ?`, id)
	return scanHoliday(row)
}

// DeleteHoliday removes one entry by id.
func (r *HolidayRepository) DeleteHoliday(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// HolidaysInRange returns entries dated within [start, end] whose scope is
// global, the given department, or the given batch. The scheduler prefetches
// this once per recurring expansion instead of querying per occurrence.
func (r *HolidayRepository) HolidaysInRange(ctx context.Context, start, end time.Time, departmentID, batchID string) ([]persistence.Holiday, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT `+holidayColumns+` FROM holidays
		 WHERE date >= ? AND date <= ?
		   AND (scope = 'global'
		        OR (scope = 'department' AND scope_id = ?)
		        OR (scope = 'batch' AND scope_id = ?))
		 ORDER BY date, scope, id`,
		formatDate(start), formatDate(end), departmentID, batchID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectHolidays(rows)
}

// ListHolidays returns every stored entry ordered by date.
func (r *HolidayRepository) ListHolidays(ctx context.Context) ([]persistence.Holiday, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT `+holidayColumns+` FROM holidays ORDER BY date, scope, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectHolidays(rows)
}

func scanHoliday(row rowScanner) (persistence.Holiday, error) {
	var (
		h                    persistence.Holiday
		date, scope          string
		createdAt, updatedAt string
	)
	err := row.Scan(&h.ID, &date, &h.Name, &h.Description, &scope, &h.ScopeID, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Holiday{}, mapError(err)
	}

	if h.Date, err = parseDate(date); err != nil {
		return persistence.Holiday{}, err
	}
	if h.Scope, err = holiday.ParseScope(scope); err != nil {
		return persistence.Holiday{}, err
	}
	if h.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Holiday{}, err
	}
	if h.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Holiday{}, err
	}
	return h, nil
}

func collectHolidays(rows *sql.Rows) ([]persistence.Holiday, error) {
	var holidays []persistence.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return holidays, nil
}
