package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/phrazzld/task-api/internal/ciutil"
)

// CIHandler is a custom slog.Handler that adds CI environment metadata
// and source code location to log records.
type CIHandler struct {
	// The underlying handler (usually JSON)
	handler slog.Handler
	// CI metadata to add to every log record
	metadata map[string]string
	// Whether to add source location info
	addSource bool
}

// NewCIHandler creates a new CIHandler that wraps a JSON handler writing to
// out. Every record is annotated with pipeline metadata so CI log output
// can be traced back to the run that produced it.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	metadata := ciutil.Metadata()

	// Clone the options to avoid modifying the caller's options
	var handlerOpts *slog.HandlerOptions
	if opts != nil {
		handlerOptsCopy := *opts
		handlerOpts = &handlerOptsCopy
	} else {
		handlerOpts = &slog.HandlerOptions{}
	}

	jsonHandler := slog.NewJSONHandler(out, handlerOpts)

	return &CIHandler{
		handler:   jsonHandler,
		metadata:  metadata,
		addSource: handlerOpts.AddSource,
	}
}

// Enabled implements the slog.Handler interface.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{
		handler:   h.handler.WithAttrs(attrs),
		metadata:  h.metadata,
		addSource: h.addSource,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{
		handler:   h.handler.WithGroup(name),
		metadata:  h.metadata,
		addSource: h.addSource,
	}
}

// Handle implements the slog.Handler interface.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	// Clone the record to avoid modifying the original
	enhanced := record.Clone()

	// Add source information if enabled
	if h.addSource {
		pc, file, line, ok := runtime.Caller(4) // Adjust frames as needed
		if ok {
			funcName := runtime.FuncForPC(pc).Name()
			enhanced.AddAttrs(
				slog.String("source_file", file),
				slog.Int("source_line", line),
				slog.String("source_func", funcName),
			)
		}
	}

	// Add CI metadata as attributes
	for key, value := range h.metadata {
		enhanced.AddAttrs(slog.String(key, value))
	}

	// Sub-second precision helps order interleaved CI log lines
	nanoseconds := enhanced.Time.UnixNano() % int64(time.Second)
	enhanced.AddAttrs(slog.Int64("timestamp_nano", nanoseconds))

	// Forward the enhanced record to the underlying handler
	return h.handler.Handle(ctx, enhanced)
}
