// Package config loads calculator settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// History backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds settings shared by the command line and the shell.
type Config struct {
	HistoryPath    string        `env:"CALC_HISTORY_PATH"`
	HistoryBackend string        `env:"CALC_HISTORY_BACKEND" envDefault:"json"`
	HistoryMax     int           `env:"CALC_HISTORY_MAX" envDefault:"10"`
	DecimalPlaces  int           `env:"CALC_DECIMAL_PLACES" envDefault:"8"`
	MaxInput       int           `env:"CALC_MAX_INPUT" envDefault:"60"`
	Debounce       time.Duration `env:"CALC_DEBOUNCE" envDefault:"100ms"`
	LogLevel       slog.Level    `env:"CALC_LOG_LEVEL" envDefault:"warn"`
	LogPath        string        `env:"CALC_LOG_PATH"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch c.HistoryBackend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("CALC_HISTORY_BACKEND must be %q or %q, not %q", BackendJSON, BackendSQLite, c.HistoryBackend)
	}
	if c.HistoryMax < 1 {
		return fmt.Errorf("CALC_HISTORY_MAX must be positive, not %d", c.HistoryMax)
	}
	if c.DecimalPlaces < 0 {
		return fmt.Errorf("CALC_DECIMAL_PLACES must not be negative, not %d", c.DecimalPlaces)
	}
	if c.MaxInput < 1 {
		return fmt.Errorf("CALC_MAX_INPUT must be positive, not %d", c.MaxInput)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("CALC_DEBOUNCE must not be negative, not %v", c.Debounce)
	}
	return nil
}

// Logger creates a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// FileLogger creates a logger appending to LogPath, or a logger that discards
// everything if LogPath is empty. The returned function closes the log file.
func (c Config) FileLogger() (*slog.Logger, func() error, error) {
	if c.LogPath == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return c.Logger(f), f.Close, nil
}
