package geocatalog

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with catalog-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithTable adds the catalog table name to the logger.
func (l *Logger) WithTable(table string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", table),
	}
}

// WithVersionID adds a version identifier to the logger.
func (l *Logger) WithVersionID(versionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("version_id", versionID),
	}
}

// LogScan logs a catalog scan.
func (l *Logger) LogScan(ctx context.Context, table string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "catalog scan failed",
			"table", table,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "catalog scan completed",
			"table", table,
			"records", records,
		)
	}
}

// LogRetrieve logs a dataset retrieval.
func (l *Logger) LogRetrieve(ctx context.Context, versionID string, layers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset retrieval failed",
			"version_id", versionID,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset retrieval completed",
			"version_id", versionID,
			"layers", layers,
		)
	}
}
