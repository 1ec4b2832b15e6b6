package config

import (
	"io"
	"log/slog"
)

// NewLogger builds the application logger. Production writes JSON, everything
// else writes text. An unrecognised LOG_LEVEL falls back to info.
//
// Commands print their results on stdout, so callers pass stderr here.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts)).With("service", "minibadge")
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
