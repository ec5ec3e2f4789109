package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeteredAPI forwards every report to an inner API and additionally records
// counts as otel gauges and broken/warning reports as otel counters.
type MeteredAPI struct {
	inner    API
	meter    metric.Meter
	problems metric.Int64Counter

	mu     sync.Mutex
	gauges map[string]metric.Int64Gauge
}

// NewMeteredAPI uses the global meter provider, so it should be created after Setup.
func NewMeteredAPI(meterName string, inner API) *MeteredAPI {
	meter := otel.Meter(meterName)
	problems, _ := meter.Int64Counter("reported_problems")
	return &MeteredAPI{
		inner:    inner,
		meter:    meter,
		problems: problems,
		gauges:   map[string]metric.Int64Gauge{},
	}
}

func (m *MeteredAPI) gauge(id string) metric.Int64Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.gauges[id]; ok {
		return g
	}
	g, err := m.meter.Int64Gauge(id)
	if err != nil {
		m.inner.ReportWarning("metered.gauge", err, id)
	}
	m.gauges[id] = g
	return g
}

func (m *MeteredAPI) ReportBroken(id string, params ...any) {
	m.inner.ReportBroken(id, params...)
	if m.problems != nil {
		m.problems.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("kind", "broken"),
			attribute.String("id", id),
		))
	}
}

func (m *MeteredAPI) ReportWarning(id string, params ...any) {
	m.inner.ReportWarning(id, params...)
	if m.problems != nil {
		m.problems.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("kind", "warning"),
			attribute.String("id", id),
		))
	}
}

func (m *MeteredAPI) ReportDebug(msg string, params ...any) {
	m.inner.ReportDebug(msg, params...)
}

func (m *MeteredAPI) ReportCount(id string, count int64) {
	m.inner.ReportCount(id, count)
	if g := m.gauge(id); g != nil {
		g.Record(context.Background(), count)
	}
}
