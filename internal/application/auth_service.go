package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/training-scheduler/internal/persistence"
)

// CredentialStore exposes administrator account lookup.
type CredentialStore interface {
	GetAdminUser(ctx context.Context, id string) (persistence.AdminUser, error)
	GetAdminUserByEmail(ctx context.Context, email string) (persistence.AdminUser, error)
}

// AuthSessionStore exposes login session persistence.
type AuthSessionStore interface {
	CreateAuthSession(ctx context.Context, session persistence.AuthSession) error
	GetAuthSession(ctx context.Context, token string) (persistence.AuthSession, error)
	RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error
}

// AuthService authenticates administrators and issues opaque login tokens.
// The resulting Principal is passed explicitly into every scheduler call.
type AuthService struct {
	credentials    CredentialStore
	sessions       AuthSessionStore
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	ttl            time.Duration
	logger         *slog.Logger
}

// NewAuthService wires dependencies for admin authentication.
func NewAuthService(credentials CredentialStore, sessions AuthSessionStore, idGenerator, tokenGenerator func() string, now func() time.Time, ttl time.Duration) *AuthService {
	return NewAuthServiceWithLogger(credentials, sessions, idGenerator, tokenGenerator, now, ttl, nil)
}

// NewAuthServiceWithLogger wires dependencies plus a base logger.
func NewAuthServiceWithLogger(credentials CredentialStore, sessions AuthSessionStore, idGenerator, tokenGenerator func() string, now func() time.Time, ttl time.Duration, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		ttl:            ttl,
		logger:         defaultLogger(logger),
	}
}

// Authenticate verifies a login attempt and issues a session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (AuthenticateResult, error) {
	if s == nil {
		return AuthenticateResult{}, fmt.Errorf("AuthService is nil")
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.Password == "" {
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	user, err := s.credentials.GetAdminUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}

	if err := VerifyPassword(user.PasswordHash, params.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			serviceLogger(ctx, s.logger, "auth", "authenticate", "email", email).
				WarnContext(ctx, "login rejected")
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}

	issuedAt := s.now()
	session := persistence.AuthSession{
		ID:        s.idGenerator(),
		UserID:    user.ID,
		Token:     s.tokenGenerator(),
		ExpiresAt: issuedAt.Add(s.ttl),
		CreatedAt: issuedAt,
	}
	if err := s.sessions.CreateAuthSession(ctx, session); err != nil {
		return AuthenticateResult{}, err
	}

	serviceLogger(ctx, s.logger, "auth", "authenticate", "user_id", user.ID).
		InfoContext(ctx, "admin logged in")

	return AuthenticateResult{
		Principal: Principal{UserID: user.ID, DisplayName: user.DisplayName},
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// ValidateSession resolves a bearer token to the acting principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	session, err := s.sessions.GetAuthSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}

	user, err := s.credentials.GetAdminUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	return Principal{UserID: user.ID, DisplayName: user.DisplayName}, nil
}

// RevokeSession invalidates a token at logout.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if token == "" {
		return ErrUnauthorized
	}
	if err := s.sessions.RevokeAuthSession(ctx, token, s.now()); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}

// PurgeExpiredSessions removes stale login rows. Scheduled from the
// entrypoint's cron job.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if err := s.sessions.DeleteExpiredAuthSessions(ctx, s.now()); err != nil {
		return err
	}
	serviceLogger(ctx, s.logger, "auth", "purge_sessions").InfoContext(ctx, "expired sessions purged")
	return nil
}
