package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one ordered schema step. Version numbers are contiguous and
// never reused.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "catalog tables",
		stmts: []string{
			`CREATE TABLE venues (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				room TEXT NOT NULL DEFAULT '',
				capacity INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE batches (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				department_id TEXT NOT NULL,
				academic_year TEXT NOT NULL,
				active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "holidays",
		stmts: []string{
			`CREATE TABLE holidays (
				id TEXT PRIMARY KEY,
				date TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				scope TEXT NOT NULL CHECK (scope IN ('global', 'department', 'batch')),
				scope_id TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE (date, scope, scope_id)
			)`,
			`CREATE INDEX idx_holidays_date ON holidays (date)`,
		},
	},
	{
		version: 3,
		name:    "training sessions",
		stmts: []string{
			`CREATE TABLE training_sessions (
				id TEXT PRIMARY KEY,
				batch_id TEXT NOT NULL REFERENCES batches (id),
				venue_id TEXT NOT NULL REFERENCES venues (id),
				date TEXT NOT NULL,
				start_minute INTEGER NOT NULL CHECK (start_minute >= 0 AND start_minute < 1440),
				end_minute INTEGER NOT NULL CHECK (end_minute > start_minute AND end_minute <= 1440),
				topic TEXT NOT NULL,
				trainer TEXT NOT NULL DEFAULT '',
				cancelled INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX idx_sessions_venue_date ON training_sessions (venue_id, date)`,
			`CREATE INDEX idx_sessions_batch ON training_sessions (batch_id)`,
		},
	},
	{
		version: 4,
		name:    "attendance",
		stmts: []string{
			`CREATE TABLE attendance_records (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL REFERENCES training_sessions (id),
				student_id TEXT NOT NULL,
				present INTEGER NOT NULL DEFAULT 0,
				marked_at TEXT NOT NULL,
				UNIQUE (session_id, student_id)
			)`,
			`CREATE INDEX idx_attendance_session ON attendance_records (session_id)`,
		},
	},
	{
		version: 5,
		name:    "admin accounts",
		stmts: []string{
			`CREATE TABLE admin_users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				display_name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE auth_sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES admin_users (id),
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
			`CREATE INDEX idx_auth_sessions_expiry ON auth_sessions (expires_at)`,
		},
	},
}

// Migrate applies any schema migrations not yet recorded in schema_migrations.
// Each migration runs in its own transaction.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("sqlite: creating schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, pool.db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("sqlite: migration %d (%s): %w", m.version, m.name, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, datetime('now'))`,
				m.version, m.name)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func migrationApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking migration %d: %w", version, err)
	}
	return count > 0, nil
}
