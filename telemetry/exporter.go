package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter implements sdktrace.SpanExporter by writing spans to a logger.
type LogExporter struct {
	logger *slog.Logger
}

// NewLogExporter returns an exporter writing to logger.
func NewLogExporter(logger *slog.Logger) *LogExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogExporter{logger: logger}
}

// ExportSpans logs each span at debug level, or at warn level when the span ended
// with an error status. It never fails.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		level := slog.LevelDebug
		if span.Status().Code == codes.Error {
			level = slog.LevelWarn
		}

		args := []any{
			"span", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"span_id", span.SpanContext().SpanID().String(),
			"duration", span.EndTime().Sub(span.StartTime()),
			"status", span.Status().Code.String(),
		}
		if desc := span.Status().Description; desc != "" {
			args = append(args, "status_message", desc)
		}
		if attrs := span.Attributes(); len(attrs) > 0 {
			args = append(args, slog.Group("attributes", attributesToArgs(attrs)...))
		}

		e.logger.Log(ctx, level, "span ended", args...)
	}
	return nil
}

// Shutdown is a no-op; the logger outlives the exporter.
func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

func attributesToArgs(attrs []attribute.KeyValue) []any {
	out := make([]any, 0, 2*len(attrs))
	for _, kv := range attrs {
		out = append(out, string(kv.Key), kv.Value.AsInterface())
	}
	return out
}
