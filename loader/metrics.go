package loader

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/infinifold/levels/levelerr"
)

// loadMetrics holds the instruments for library loads. Created once per Loader.
type loadMetrics struct {
	loads    metric.Int64Counter
	failures metric.Int64Counter
}

func newLoadMetrics(meter metric.Meter) (*loadMetrics, error) {
	m := &loadMetrics{}
	var err error

	m.loads, err = meter.Int64Counter(
		"levels.loader.loads",
		metric.WithDescription("Level libraries loaded successfully"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create loads counter: %w", err)
	}

	m.failures, err = meter.Int64Counter(
		"levels.loader.failures",
		metric.WithDescription("Level library loads that failed, by error kind"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}

	return m, nil
}

func (m *loadMetrics) record(ctx context.Context, err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.loads.Add(ctx, 1)
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(levelerr.KindOf(err))),
	))
}
