// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"log/slog"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// levelFromString parses a configured log level name, defaulting to Info
// for an empty or unrecognized value.
func levelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a structured logger backed by zerolog's console writer, with
// timestamps, at the given level name ("debug", "info", "warn", "error").
func New(level string) *slog.Logger {
	zeroLogger := zerolog.
		New(zerolog.NewConsoleWriter()).
		With().
		Timestamp().
		Logger()

	handler := slogzerolog.Option{
		Level:  levelFromString(level),
		Logger: &zeroLogger,
	}.NewZerologHandler()

	return slog.New(handler)
}
