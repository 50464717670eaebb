package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment (and .env, if present).
type Config struct {
	Port           string
	ContentDir     string        // root with one directory per subject
	DBPath         string        // SQLite file
	DefaultSubject string        // used when a request has no ?subject=
	SecureCookies  bool          // true behind HTTPS
	AllowedOrigins []string      // exact origins besides http://localhost:*
	LogLevel       slog.Level
	TickInterval   time.Duration // session timer resolution
	SessionIdleTTL time.Duration // live sessions untouched this long are dropped
}

func LoadConfig() Config {
	// .env is optional
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "8080"),
		ContentDir:     getenv("CONTENT_DIR", "public"),
		DBPath:         getenv("DB_PATH", "sesja.db"),
		DefaultSubject: getenv("DEFAULT_SUBJECT", "test"),
		SecureCookies:  os.Getenv("SECURE_COOKIES") == "true",
		TickInterval:   time.Second,
		SessionIdleTTL: 30 * time.Minute,
	}

	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		cfg.LogLevel = slog.LevelInfo
	}

	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TickInterval = d
		}
	}
	if v := os.Getenv("SESSION_IDLE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionIdleTTL = d
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
