package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys to avoid collisions with
// other packages that store values in the same context.
type contextKey int

// loggerKey is the context key under which the request-scoped logger is stored.
const loggerKey contextKey = iota

// WithLogger returns a new context carrying the given logger. Handlers and
// middleware use this to flow a request-scoped logger (e.g. one annotated
// with a trace ID) down into services and stores.
// Panics if logger is nil; callers should always have a logger to attach.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger stored in the context.
// Falls back to slog.Default() when the context carries no logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in the context, falling
// back to the given default logger. If defaultLogger is nil, slog.Default()
// is used as the final fallback.
func FromContextOrDefault(ctx context.Context, defaultLogger *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.Default()
}
