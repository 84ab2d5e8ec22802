// Package config provides centralized configuration loaded from environment
// variables. Shared by every lckbot subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	// DefaultScheduleURL is the Naver esports schedule page the scraper
	// renders. One layout at a time — expect breakage when Naver ships a
	// new class-name hash.
	DefaultScheduleURL = "https://game.naver.com/esports/League_of_Legends/schedule/world_championship"

	// DefaultTimezone is the wall clock matches are stored and displayed in.
	DefaultTimezone = "Asia/Seoul"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Scraper
	ScheduleURL   string
	LookaheadDays int
	FetchTimeout  time.Duration

	// Notifications
	Webhooks    map[string]string // team table -> Discord webhook URL
	BotUsername string
	NotifyPause time.Duration
	Timezone    string

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("SUPABASE_DB_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or SUPABASE_DB_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		ScheduleURL:   envOr("SCHEDULE_URL", DefaultScheduleURL),
		LookaheadDays: envInt("LOOKAHEAD_DAYS", 7),
		FetchTimeout:  time.Duration(envInt("FETCH_TIMEOUT_SECONDS", 60)) * time.Second,

		Webhooks: map[string]string{
			"t1_matches":   os.Getenv("T1_WEBHOOK_URL"),
			"geng_matches": os.Getenv("GENG_WEBHOOK_URL"),
			"hle_matches":  os.Getenv("HLE_WEBHOOK_URL"),
			"kt_matches":   os.Getenv("KT_WEBHOOK_URL"),
		},
		BotUsername: envOr("BOT_USERNAME", "LOL 경기 알림봇"),
		NotifyPause: time.Duration(envInt("NOTIFY_PAUSE_MS", 1000)) * time.Millisecond,
		Timezone:    envOr("MATCH_TIMEZONE", DefaultTimezone),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
