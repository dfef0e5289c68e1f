package config

import (
	"testing"
	"time"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("TRAINSCHED_HTTP_PORT", "")
	t.Setenv("TRAINSCHED_SQLITE_DSN", "")
	t.Setenv("TRAINSCHED_SESSION_TTL", "")
	t.Setenv("TRAINSCHED_HOLIDAY_SEED", "")
	t.Setenv("TRAINSCHED_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default TTL 24h, got %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestLoad_ReadsOverrides(t *testing.T) {
	t.Setenv("TRAINSCHED_HTTP_PORT", "9090")
	t.Setenv("TRAINSCHED_SQLITE_DSN", "file:other.db")
	t.Setenv("TRAINSCHED_SESSION_TTL", "8h")
	t.Setenv("TRAINSCHED_HOLIDAY_SEED", "/etc/trainsched/holidays.yaml")
	t.Setenv("TRAINSCHED_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 9090 || cfg.SQLiteDSN != "file:other.db" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 8*time.Hour || cfg.HolidaySeedPath != "/etc/trainsched/holidays.yaml" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("TRAINSCHED_HTTP_PORT", "not-a-port")
	t.Setenv("TRAINSCHED_SESSION_TTL", "")
	t.Setenv("TRAINSCHED_LOG_LEVEL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid port to be rejected")
	}
}
