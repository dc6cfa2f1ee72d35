package levels

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/infinifold/levels/loader"
)

// HostOption configures a Host.
type HostOption func(*hostConfig)

type hostConfig struct {
	logger *slog.Logger
	tp     trace.TracerProvider
	mp     metric.MeterProvider
	opener loader.Opener
	static map[string]func() loader.Library
}

// WithLogger sets the host logger. Defaults to the logger described by the
// configuration's log section, writing to stderr.
func WithLogger(logger *slog.Logger) HostOption {
	return func(c *hostConfig) {
		c.logger = logger
	}
}

// WithTracerProvider sets the tracer provider passed to the loader and the workers.
func WithTracerProvider(tp trace.TracerProvider) HostOption {
	return func(c *hostConfig) {
		c.tp = tp
	}
}

// WithMeterProvider sets the meter provider passed to the loader and the workers.
func WithMeterProvider(mp metric.MeterProvider) HostOption {
	return func(c *hostConfig) {
		c.mp = mp
	}
}

// WithOpener replaces the opener chosen from the isolation mode. Static levels are
// still consulted first.
func WithOpener(o loader.Opener) HostOption {
	return func(c *hostConfig) {
		c.opener = o
	}
}

// WithStaticLevel links a level into the host under base. open is called on every
// Start, so each run gets fresh library state.
func WithStaticLevel(base string, open func() loader.Library) HostOption {
	return func(c *hostConfig) {
		if c.static == nil {
			c.static = make(map[string]func() loader.Library)
		}
		c.static[base] = open
	}
}
