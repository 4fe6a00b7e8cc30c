// Package logging wraps log/slog with the structured, level-controlled
// style used throughout this codebase: a package-global default logger with
// plain and *Context variants, configurable via SetLevel/SetVerbose.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Default is the global structured logger. Safe for concurrent use; replaced
// wholesale by SetLevel/SetVerbose rather than mutated in place.
var Default *slog.Logger

func init() {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level = ParseLevel(raw)
	}
	Default = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a config/env level name to a slog.Level, defaulting to
// Info for an empty or unrecognized value.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
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

// SetLevel replaces Default with a logger at the given level name (see
// ParseLevel).
func SetLevel(levelName string) {
	Default = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(levelName)}))
}

// SetVerbose is a convenience wrapper for command-line -v flags.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel("debug")
		return
	}
	SetLevel("info")
}

func Info(msg string, args ...any)  { Default.Info(msg, args...) }
func Debug(msg string, args ...any) { Default.Debug(msg, args...) }
func Warn(msg string, args ...any)  { Default.Warn(msg, args...) }
func Error(msg string, args ...any) { Default.Error(msg, args...) }

func InfoContext(ctx context.Context, msg string, args ...any) {
	Default.InfoContext(ctx, msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	Default.DebugContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Default.WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Default.ErrorContext(ctx, msg, args...)
}
