// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that adds a trace ID to the request
// context and attaches a trace-annotated logger for downstream handlers.
// It should be applied early in the middleware chain so that all subsequent
// handlers log with the trace ID and error responses can echo it back.
func NewTraceMiddleware(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Add a trace ID to the context
			ctx := shared.SetTraceID(r.Context())

			// Get the trace ID for logging
			traceID := shared.GetTraceID(ctx)

			// Carry a trace-annotated logger in the context
			log := baseLogger.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			// Continue with the updated context
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
