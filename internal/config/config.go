package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the CLI defaults; command-line flags override every field.
type Config struct {
	// Diagram
	Scale int    // scale level 1..10
	Font  string // font name passed to fonts.Load, empty keeps the plan's font

	// Output
	Format   string // pdf | svg | png
	OutDir   string
	DebugDir string // JSON plan dump directory, empty disables

	LogLevel string // debug | info | warn | error
}

func Load() *Config {
	return &Config{
		Scale:    getEnvInt("CHORDIFY_SCALE", 4),
		Font:     getEnv("CHORDIFY_FONT", ""),
		Format:   getEnv("CHORDIFY_FORMAT", "pdf"),
		OutDir:   getEnv("CHORDIFY_OUT", "."),
		DebugDir: getEnv("CHORDIFY_DEBUG_DIR", ""),
		LogLevel: getEnv("CHORDIFY_LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset or not a number.
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// SlogLevel maps LogLevel to a slog level; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
