package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

type Config struct {
	Addr          string
	StoreDriver   string
	DBPath        string
	BadgerDir     string
	StorageKey    string
	LogLevel      string
	SplashDelay   time.Duration
	FeedbackDelay time.Duration
	LoginDelay    time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:          envOr("ADDR", ":8080"),
		StoreDriver:   strings.ToLower(envOr("STORE_DRIVER", DriverSQLite)),
		DBPath:        envOr("DB_PATH", "file:learnearn.db"),
		BadgerDir:     envOr("BADGER_DIR", "data/badger"),
		StorageKey:    envOr("STORAGE_KEY", "learnearn_users"),
		LogLevel:      envOr("LOG_LEVEL", "INFO"),
		SplashDelay:   envDurationOr("SPLASH_DELAY", 2500*time.Millisecond),
		FeedbackDelay: envDurationOr("FEEDBACK_DELAY", 2*time.Second),
		LoginDelay:    envDurationOr("LOGIN_DELAY", 500*time.Millisecond),
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH cannot be empty when STORE_DRIVER=sqlite")
		}
	case DriverBadger:
		if c.BadgerDir == "" {
			problems = append(problems, "BADGER_DIR cannot be empty when STORE_DRIVER=badger")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be one of sqlite, badger, memory (got %q)", c.StoreDriver))
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		problems = append(problems, "STORAGE_KEY cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR (got %q)", c.LogLevel))
	}
	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"SPLASH_DELAY", c.SplashDelay},
		{"FEEDBACK_DELAY", c.FeedbackDelay},
		{"LOGIN_DELAY", c.LoginDelay},
	} {
		if d.value < 0 {
			problems = append(problems, fmt.Sprintf("%s cannot be negative", d.key))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare numbers are milliseconds
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	return def
}
