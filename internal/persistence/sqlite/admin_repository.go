package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/training-scheduler/internal/persistence"
)

// AdminRepository persists administrator accounts and their login sessions.
type AdminRepository struct {
	pool *ConnectionPool
}

// NewAdminRepository creates an admin repository backed by the pool.
func NewAdminRepository(pool *ConnectionPool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// CreateAdminUser inserts one administrator account. Emails are unique.
func (r *AdminRepository) CreateAdminUser(ctx context.Context, user persistence.AdminUser) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO admin_users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash,
		formatTimestamp(user.CreatedAt), formatTimestamp(user.UpdatedAt))
	return mapError(err)
}

// GetAdminUser fetches one account by id.
func (r *AdminRepository) GetAdminUser(ctx context.Context, id string) (persistence.AdminUser, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM admin_users WHERE id = ?`, id)
	return scanAdminUser(row)
}

// GetAdminUserByEmail fetches one account by its login email.
func (r *AdminRepository) GetAdminUserByEmail(ctx context.Context, email string) (persistence.AdminUser, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM admin_users WHERE email = ?`, email)
	return scanAdminUser(row)
}

func scanAdminUser(row rowScanner) (persistence.AdminUser, error) {
	var (
		u                    persistence.AdminUser
		createdAt, updatedAt string
	)
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return persistence.AdminUser{}, mapError(err)
	}
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.AdminUser{}, err
	}
	if u.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.AdminUser{}, err
	}
	return u, nil
}

// CreateAuthSession inserts one login session row.
func (r *AdminRepository) CreateAuthSession(ctx context.Context, session persistence.AuthSession) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO auth_sessions (id, user_id, token, expires_at, created_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Token,
		formatTimestamp(session.ExpiresAt), formatTimestamp(session.CreatedAt),
		formatNullableTimestamp(session.RevokedAt))
	return mapError(err)
}

// GetAuthSession fetches one login session by its opaque token.
func (r *AdminRepository) GetAuthSession(ctx context.Context, token string) (persistence.AuthSession, error) {
	var (
		s                    persistence.AuthSession
		expiresAt, createdAt string
		revokedAt            sql.NullString
	)
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, user_id, token, expires_at, created_at, revoked_at
		 FROM auth_sessions WHERE token = ?`, token).
		Scan(&s.ID, &s.UserID, &s.Token, &expiresAt, &createdAt, &revokedAt)
	if err != nil {
		return persistence.AuthSession{}, mapError(err)
	}

	if s.ExpiresAt, err = parseTimestamp(expiresAt); err != nil {
		return persistence.AuthSession{}, err
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.AuthSession{}, err
	}
	if s.RevokedAt, err = parseNullableTimestamp(revokedAt); err != nil {
		return persistence.AuthSession{}, err
	}
	return s, nil
}

// RevokeAuthSession stamps a login session as revoked.
func (r *AdminRepository) RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE auth_sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`,
		formatTimestamp(revokedAt), token)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// DeleteExpiredAuthSessions removes sessions that expired before the
// reference instant. Run nightly by the entrypoint's cron job.
func (r *AdminRepository) DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM auth_sessions WHERE expires_at < ?`, formatTimestamp(reference))
	return mapError(err)
}
