package loader

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Loader.
type Option func(*Loader)

// WithOpener sets how libraries are opened. Defaults to PluginOpener.
func WithOpener(o Opener) Option {
	return func(l *Loader) {
		l.opener = o
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithTracerProvider sets the provider for the loader.Load span. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(l *Loader) {
		l.tp = tp
	}
}

// WithMeterProvider sets the provider for load counters. Defaults to the global
// provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(l *Loader) {
		l.mp = mp
	}
}
