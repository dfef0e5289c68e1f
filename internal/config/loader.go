// Package config loads environment driven settings for the scheduler service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	SessionTTL      time.Duration
	HolidaySeedPath string
	LogLevel        string
}

// Load parses configuration from the process environment. A local .env file
// is merged in first when present; real environment variables win.
func Load() (Config, error) {
	// Ignore a missing .env; it is a development convenience only.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:trainsched.db?_pragma=foreign_keys(1)",
		SessionTTL: 24 * time.Hour,
		LogLevel:   "info",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("TRAINSCHED_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "TRAINSCHED_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("TRAINSCHED_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("TRAINSCHED_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "TRAINSCHED_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if seed := strings.TrimSpace(os.Getenv("TRAINSCHED_HOLIDAY_SEED")); seed != "" {
		cfg.HolidaySeedPath = seed
	}

	if level := strings.TrimSpace(os.Getenv("TRAINSCHED_LOG_LEVEL")); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(level)
		default:
			invalid = append(invalid, "TRAINSCHED_LOG_LEVEL")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
