package http

import (
	"log/slog"
	"net/http"

	"github.com/example/training-scheduler/internal/application"
)

// RouterConfig carries the handlers and middleware dependencies for the API.
type RouterConfig struct {
	Auth      *application.AuthService
	Scheduler *application.SchedulerService
	Holidays  *application.HolidayService
	Catalog   *application.CatalogService
	Logger    *slog.Logger
}

// NewRouter builds the API mux. Everything under /api except login requires a
// valid admin session.
func NewRouter(cfg RouterConfig) http.Handler {
	sessions := NewSessionHandler(cfg.Scheduler)
	holidays := NewHolidayHandler(cfg.Holidays)
	catalog := NewCatalogHandler(cfg.Catalog)
	auth := NewAuthHandler(cfg.Auth)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/auth/logout", auth.Logout)

	protected.HandleFunc("POST /api/sessions", sessions.CreateSingle)
	protected.HandleFunc("POST /api/sessions/recurring", sessions.CreateRecurring)
	protected.HandleFunc("GET /api/sessions/{id}", sessions.Get)
	protected.HandleFunc("PUT /api/sessions/{id}", sessions.Update)
	protected.HandleFunc("POST /api/sessions/{id}/toggle-cancelled", sessions.ToggleCancelled)
	protected.HandleFunc("DELETE /api/sessions/{id}", sessions.Delete)

	protected.HandleFunc("POST /api/holidays", holidays.Create)
	protected.HandleFunc("GET /api/holidays", holidays.List)
	protected.HandleFunc("DELETE /api/holidays/{id}", holidays.Delete)

	protected.HandleFunc("GET /api/venues", catalog.ListVenues)
	protected.HandleFunc("GET /api/venues/{id}", catalog.GetVenue)
	protected.HandleFunc("GET /api/venues/{id}/sessions", sessions.ListForVenue)
	protected.HandleFunc("GET /api/batches", catalog.ListBatches)
	protected.HandleFunc("GET /api/batches/{id}", catalog.GetBatch)
	protected.HandleFunc("GET /api/batches/{id}/sessions", sessions.ListForBatch)

	root := http.NewServeMux()
	root.HandleFunc("POST /api/auth/login", auth.Login)
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Handle("/api/", RequireSession(cfg.Auth)(protected))

	return RequestLogger(cfg.Logger)(root)
}
