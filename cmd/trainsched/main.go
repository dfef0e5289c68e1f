// Command trainsched runs the training session scheduler API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/config"
	"github.com/example/training-scheduler/internal/holiday"
	httpapi "github.com/example/training-scheduler/internal/http"
	"github.com/example/training-scheduler/internal/logging"
	"github.com/example/training-scheduler/internal/persistence/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trainsched: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stdout, logLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := sqlite.Migrate(ctx, pool); err != nil {
		return err
	}

	sessionRepo := sqlite.NewSessionRepository(pool)
	holidayRepo := sqlite.NewHolidayRepository(pool)
	venueRepo := sqlite.NewVenueRepository(pool)
	batchRepo := sqlite.NewBatchRepository(pool)
	attendanceRepo := sqlite.NewAttendanceRepository(pool)
	adminRepo := sqlite.NewAdminRepository(pool)

	sessionStore := application.SessionStoreAdapter{Repo: sessionRepo}
	holidayStore := application.HolidayStoreAdapter{Repo: holidayRepo, Now: time.Now}
	catalog := application.CatalogAdapter{Venues: venueRepo, Batches: batchRepo}
	attendance := application.AttendanceAdapter{Repo: attendanceRepo}

	scheduler := application.NewSchedulerServiceWithLogger(
		sessionStore, holidayStore, catalog, catalog, attendance,
		uuid.NewString, time.Now, logger)
	holidayService := application.NewHolidayServiceWithLogger(holidayStore, uuid.NewString, logger)
	catalogService := application.NewCatalogServiceWithLogger(catalog, logger)
	authService := application.NewAuthServiceWithLogger(
		adminRepo, adminRepo, uuid.NewString, uuid.NewString, time.Now, cfg.SessionTTL, logger)

	if cfg.HolidaySeedPath != "" {
		entries, err := holiday.LoadSeedFile(cfg.HolidaySeedPath)
		if err != nil {
			return fmt.Errorf("loading holiday seed: %w", err)
		}
		inserted, err := holidayService.ImportSeed(ctx, entries)
		if err != nil {
			return fmt.Errorf("importing holiday seed: %w", err)
		}
		logger.Info("holiday seed applied", "path", cfg.HolidaySeedPath, "inserted", inserted)
	}

	// Stale login sessions are swept every night.
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc("@daily", func() {
		if err := authService.PurgeExpiredSessions(context.Background()); err != nil {
			logger.Error("auth session purge failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("registering purge job: %w", err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Auth:      authService,
		Scheduler: scheduler,
		Holidays:  holidayService,
		Catalog:   catalogService,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
