package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/veriot/trustgraph/pkg/graph"
	"github.com/veriot/trustgraph/pkg/observability"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

// Event types emitted for trust query results.
const (
	EventTrustPath  = "attestation/trustpath"
	EventEntryPoint = "attestation/entrypoint"
)

// QueryHandler validates trust queries, runs the graph search and
// emits exactly one result event per answered query.
type QueryHandler struct {
	state    state.Store
	searcher *graph.Searcher
	events   state.EventSink
	metrics  *observability.Metrics
}

// NewQueryHandler creates a query handler over the given searcher.
func NewQueryHandler(st state.Store, searcher *graph.Searcher, events state.EventSink) *QueryHandler {
	return &QueryHandler{state: st, searcher: searcher, events: events}
}

// Handle answers one trust query: does a path of attested trust with
// aggregate reliability of at least MinReliability lead from the
// trustee (prover) to the trustor (verifier)?
func (q *QueryHandler) Handle(query record.TrustQuery, sender string) error {
	if err := q.validate(query); err != nil {
		return err
	}

	maxDepth, err := record.SecurityParameter(q.state)
	if err != nil {
		return err
	}

	res, err := q.searcher.BuildPath(query.Trustee, query.Trustor, maxDepth, query.MinReliability)
	if err != nil {
		return err
	}
	q.metrics.RecordQuery(context.Background(), res.Found)

	if res.Found {
		q.events.Emit(EventTrustPath, []state.Attribute{
			{Key: "verifier", Value: query.Trustor},
			{Key: "prover", Value: query.Trustee},
			{Key: "path", Value: strings.Join(res.Path, ",")},
			{Key: "finalRating", Value: formatRating(res.FinalRating)},
		})
		return nil
	}

	q.events.Emit(EventEntryPoint, []state.Attribute{
		{Key: "verifier", Value: sender},
		{Key: "path", Value: strings.Join(res.Path, ",")},
		{Key: "finalRating", Value: formatRating(res.FinalRating)},
		{Key: "entryPoint", Value: res.EntryPoint},
	})
	return nil
}

func (q *QueryHandler) validate(query record.TrustQuery) error {
	if _, ok, err := record.FindDevice(q.state, query.Trustor); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: trustor %q is not a registered device",
			record.ErrInvalidTransaction, query.Trustor)
	}
	if _, ok, err := record.FindDevice(q.state, query.Trustee); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: trustee %q is not a registered device",
			record.ErrInvalidTransaction, query.Trustee)
	}
	if query.MinReliability < 0 || query.MinReliability > 1 {
		return fmt.Errorf("%w: minimum reliability %v outside [0,1]",
			record.ErrInvalidTransaction, query.MinReliability)
	}
	return nil
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}
