// Package observability exposes the trust core's OpenTelemetry
// instruments. The core records against the metric API only; wiring an
// exporter pipeline is the embedding application's concern.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the counters recorded by the attestation processor.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	submissions metric.Int64Counter
	rejections  metric.Int64Counter
	queries     metric.Int64Counter
	pathsFound  metric.Int64Counter
	expiries    metric.Int64Counter
}

// NewMetrics registers the trust counters on the given provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("github.com/veriot/trustgraph")

	m := &Metrics{}
	var err error
	if m.submissions, err = meter.Int64Counter("trustgraph.evidence.submissions",
		metric.WithDescription("Accepted evidence submissions")); err != nil {
		return nil, fmt.Errorf("register submissions counter: %w", err)
	}
	if m.rejections, err = meter.Int64Counter("trustgraph.transactions.rejected",
		metric.WithDescription("Transactions rejected as invalid")); err != nil {
		return nil, fmt.Errorf("register rejections counter: %w", err)
	}
	if m.queries, err = meter.Int64Counter("trustgraph.queries.total",
		metric.WithDescription("Trust queries processed")); err != nil {
		return nil, fmt.Errorf("register queries counter: %w", err)
	}
	if m.pathsFound, err = meter.Int64Counter("trustgraph.queries.paths_found",
		metric.WithDescription("Trust queries answered with a qualifying path")); err != nil {
		return nil, fmt.Errorf("register paths counter: %w", err)
	}
	if m.expiries, err = meter.Int64Counter("trustgraph.evidence.expired",
		metric.WithDescription("Evidence records removed by lazy expiry")); err != nil {
		return nil, fmt.Errorf("register expiries counter: %w", err)
	}
	return m, nil
}

// RecordSubmission counts one accepted evidence submission.
func (m *Metrics) RecordSubmission(ctx context.Context) {
	if m == nil {
		return
	}
	m.submissions.Add(ctx, 1)
}

// RecordRejection counts one invalid transaction.
func (m *Metrics) RecordRejection(ctx context.Context) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1)
}

// RecordQuery counts one processed trust query, found or not.
func (m *Metrics) RecordQuery(ctx context.Context, pathFound bool) {
	if m == nil {
		return
	}
	m.queries.Add(ctx, 1)
	if pathFound {
		m.pathsFound.Add(ctx, 1)
	}
}

// RecordExpiry counts one lazily deleted evidence record.
func (m *Metrics) RecordExpiry(ctx context.Context) {
	if m == nil {
		return
	}
	m.expiries.Add(ctx, 1)
}
