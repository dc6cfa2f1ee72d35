package worker

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type levelMetrics struct {
	faults      metric.Int64Counter
	faceUpdates metric.Int64Counter
	running     metric.Int64UpDownCounter
	attrs       metric.MeasurementOption
}

func newLevelMetrics(meter metric.Meter, attrs ...attribute.KeyValue) (*levelMetrics, error) {
	m := &levelMetrics{attrs: metric.WithAttributes(attrs...)}
	var err error

	m.faults, err = meter.Int64Counter(
		"levels.worker.faults",
		metric.WithDescription("Levels stopped by a runtime fault"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create faults counter: %w", err)
	}

	m.faceUpdates, err = meter.Int64Counter(
		"levels.worker.face_updates",
		metric.WithDescription("Face snapshots replaced after an angle change"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create face updates counter: %w", err)
	}

	m.running, err = meter.Int64UpDownCounter(
		"levels.worker.running",
		metric.WithDescription("Level workers currently running"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create running counter: %w", err)
	}

	return m, nil
}

func (m *levelMetrics) fault() {
	if m != nil {
		m.faults.Add(context.Background(), 1, m.attrs)
	}
}

func (m *levelMetrics) faceUpdate() {
	if m != nil {
		m.faceUpdates.Add(context.Background(), 1, m.attrs)
	}
}

func (m *levelMetrics) started() {
	if m != nil {
		m.running.Add(context.Background(), 1, m.attrs)
	}
}

func (m *levelMetrics) stopped() {
	if m != nil {
		m.running.Add(context.Background(), -1, m.attrs)
	}
}
