package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings. It is read from the environment once
// at startup and treated as immutable afterwards.
type Config struct {
	// Storage
	DBPath string // empty means the default data location

	// Logging
	LogFile  string // empty discards log output
	LogLevel slog.Level

	// Metrics
	MetricsAddr string // empty disables the /metrics listener

	// Sign-in throttling
	SignInBurst    int
	SignInInterval time.Duration
}

// Load reads Config from FCM_* environment variables. Malformed values fall
// back to their defaults.
func Load() *Config {
	return &Config{
		DBPath:         getEnvString("FCM_DB_PATH", ""),
		LogFile:        getEnvString("FCM_LOG_FILE", ""),
		LogLevel:       getEnvLevel("FCM_LOG_LEVEL", slog.LevelInfo),
		MetricsAddr:    getEnvString("FCM_METRICS_ADDR", ""),
		SignInBurst:    getEnvInt("FCM_SIGNIN_BURST", 5),
		SignInInterval: getEnvDuration("FCM_SIGNIN_INTERVAL", time.Minute),
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
