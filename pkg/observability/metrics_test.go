package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetricsRegistersAllCounters(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider())
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	m.RecordSubmission(ctx)
	m.RecordRejection(ctx)
	m.RecordQuery(ctx, true)
	m.RecordQuery(ctx, false)
	m.RecordExpiry(ctx)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics

	ctx := context.Background()
	m.RecordSubmission(ctx)
	m.RecordRejection(ctx)
	m.RecordQuery(ctx, true)
	m.RecordExpiry(ctx)
}
