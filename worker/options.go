package worker

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Level.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	tp      trace.TracerProvider
	mp      metric.MeterProvider
	session string
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider sets the provider for start and destroy spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// WithMeterProvider sets the provider for fault and face update counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.mp = mp
	}
}

// WithSession sets the session id. Defaults to a random UUID.
func WithSession(id string) Option {
	return func(o *options) {
		o.session = id
	}
}
