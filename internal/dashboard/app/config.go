package app

import (
	"os"
	"strconv"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for all signed tokens

	SigningKeyFile string        // Optional: PKCS8 PEM Ed25519 key; ephemeral key generated when unset
	SigningKeyID   string        // Optional: kid stamped into token headers (default: "primary")
	AccessTTL      time.Duration // Access token lifetime (default: 15m)
	RefreshTTL     time.Duration // Refresh token lifetime (default: 7d)

	CodeTTL        time.Duration // One-time companion code lifetime (default: 15m)
	LivenessWindow time.Duration // Heartbeat window for "active" sessions (default: 5m)

	BootstrapEmail    string // Optional: seed admin email for empty databases
	BootstrapName     string // Optional: seed admin display name
	BootstrapPassword string // Optional: seed admin password

	DatabaseFile         string        // Path to SQLite database file (default: ./dashboard.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping sweep interval (default: 1m)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("DASHBOARD_ISSUER", "phishguard-dashboard"),
		SigningKeyFile: os.Getenv("DASHBOARD_SIGNING_KEY_FILE"),
		SigningKeyID:   getEnvOrDefault("DASHBOARD_SIGNING_KEY_ID", "primary"),
		AccessTTL:      getEnvDurationOrDefault("DASHBOARD_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:     getEnvDurationOrDefault("DASHBOARD_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		CodeTTL:        getEnvDurationOrDefault("DASHBOARD_CODE_TTL", service.DefaultCodeTTL),
		LivenessWindow: getEnvDurationOrDefault("DASHBOARD_LIVENESS_WINDOW", service.DefaultLivenessWindow),

		BootstrapEmail:    os.Getenv("DASHBOARD_BOOTSTRAP_EMAIL"),
		BootstrapName:     getEnvOrDefault("DASHBOARD_BOOTSTRAP_NAME", "Administrator"),
		BootstrapPassword: os.Getenv("DASHBOARD_BOOTSTRAP_PASSWORD"),

		DatabaseFile:         getEnvOrDefault("DASHBOARD_DATABASE_FILE", "dashboard.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", service.DefaultSweepInterval),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
