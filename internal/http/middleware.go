package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/logging"
)

type principalKey struct{}

func contextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the authenticated principal attached by
// RequireSession, or a zero principal outside protected routes.
func PrincipalFromContext(ctx context.Context) application.Principal {
	principal, _ := ctx.Value(principalKey{}).(application.Principal)
	return principal
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger attaches the base logger to the request context and emits one
// access line per request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx := logging.ContextWithLogger(r.Context(), base)
			next.ServeHTTP(recorder, r.WithContext(ctx))

			base.InfoContext(ctx, "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

// RequireSession resolves the bearer token to a principal and stores it in
// the request context, rejecting requests without a valid login.
func RequireSession(auth *application.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			principal, err := auth.ValidateSession(r.Context(), token)
			if err != nil {
				handleServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
