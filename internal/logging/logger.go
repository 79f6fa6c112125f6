// Package logging is the hubugs diagnostic log. Records go to stderr so that
// they never mix with rendered bug listings on stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel is a LOG_LEVEL value.
type LogLevel string

const (
	// LevelDebug traces every API request and template lookup.
	LevelDebug LogLevel = "debug"
	// LevelInfo adds one-off events such as a verified setup token.
	LevelInfo LogLevel = "info"
	// LevelWarn reports skipped work, such as a label that already exists.
	LevelWarn LogLevel = "warn"
	// LevelError only reports failed commands.
	LevelError LogLevel = "error"
)

// quietLevel keeps command output clean unless LOG_LEVEL asks for more.
const quietLevel = LevelWarn

var slogLevels = map[LogLevel]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

var defaultLogger *slog.Logger

func init() {
	SetupLogger(os.Stderr, LevelFromEnv())
}

// LevelFromEnv returns LOG_LEVEL, lower cased, or warn when it is unset.
func LevelFromEnv() LogLevel {
	if level := strings.ToLower(os.Getenv("LOG_LEVEL")); level != "" {
		return LogLevel(level)
	}
	return quietLevel
}

// SetupLogger sends log records at or above level to w. An unknown level
// is treated as warn.
func SetupLogger(w io.Writer, level LogLevel) {
	lvl, ok := slogLevels[level]
	if !ok {
		lvl = slogLevels[quietLevel]
	}
	defaultLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(defaultLogger)
}

// Debug records request level detail.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info records a notable event.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn records work that was skipped or degraded.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error records a failed command.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// GetLogger returns the shared logger.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// MaskSensitive hides all but the first four characters of a token.
func MaskSensitive(value string) string {
	switch {
	case value == "":
		return "<not set>"
	case len(value) <= 4:
		return "<set>"
	}
	return value[:4] + "...***"
}
