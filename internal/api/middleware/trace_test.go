package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

func TestNewTraceMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("adds trace ID to request context", func(t *testing.T) {
		var capturedTraceID string
		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedTraceID = shared.GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		middleware := NewTraceMiddleware(slog.Default())
		handler := middleware(nextHandler)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotEmpty(t, capturedTraceID, "trace ID should be set in context")

		_, err := uuid.Parse(capturedTraceID)
		assert.NoError(t, err, "trace ID should be a valid UUID")
	})

	t.Run("each request gets a distinct trace ID", func(t *testing.T) {
		var traceIDs []string
		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceIDs = append(traceIDs, shared.GetTraceID(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		handler := NewTraceMiddleware(slog.Default())(nextHandler)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		require.Len(t, traceIDs, 2)
		assert.NotEqual(t, traceIDs[0], traceIDs[1])
	})

	t.Run("attaches trace-annotated logger to context", func(t *testing.T) {
		var buf bytes.Buffer
		baseLogger := slog.New(slog.NewJSONHandler(&buf, nil))

		var capturedTraceID string
		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedTraceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).Info("handler log line")
			w.WriteHeader(http.StatusOK)
		})

		handler := NewTraceMiddleware(baseLogger)(nextHandler)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		logged := buf.String()
		assert.Contains(t, logged, "handler log line")
		assert.Contains(t, logged, "trace_id")
		assert.Contains(t, logged, capturedTraceID)
	})

	t.Run("nil base logger falls back to default", func(t *testing.T) {
		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		handler := NewTraceMiddleware(nil)(nextHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
