// Package processor dispatches decoded attestation transactions to the
// evidence submission and trust query handlers.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veriot/trustgraph/pkg/decay"
	"github.com/veriot/trustgraph/pkg/evidence"
	"github.com/veriot/trustgraph/pkg/graph"
	"github.com/veriot/trustgraph/pkg/observability"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/score"
	"github.com/veriot/trustgraph/pkg/state"
)

// Transaction family identification.
const (
	FamilyName    = "attestation"
	FamilyVersion = "1.0"
)

// Actions accepted by the attestation family.
const (
	ActionSubmitEvidence = "submitEvidence"
	ActionTrustQuery     = "trustQuery"
)

// Handler routes attestation transactions. One Apply call is one unit
// of work against a consistent state snapshot; the hosting ledger
// serializes invocations.
type Handler struct {
	submitter *evidence.Submitter
	queries   *QueryHandler
	metrics   *observability.Metrics
}

// NewHandler wires the attestation processing pipeline over the given
// collaborators.
func NewHandler(st state.Store, events state.EventSink, clock state.TimeSource, eval *decay.Evaluator) *Handler {
	evStore := evidence.NewStore(st, events)
	calc := score.NewCalculator(st, eval)
	searcher := graph.NewSearcher(evStore, calc, clock)
	return &Handler{
		submitter: evidence.NewSubmitter(st, evStore, events, clock),
		queries:   NewQueryHandler(st, searcher, events),
	}
}

// WithMetrics attaches transaction counters to the handler.
func (h *Handler) WithMetrics(m *observability.Metrics) *Handler {
	h.metrics = m
	h.queries.metrics = m
	return h
}

// Apply executes one decoded transaction. Unrecognized actions are
// rejected as invalid input rather than silently ignored.
func (h *Handler) Apply(req state.Request) error {
	receiptID := uuid.NewString()
	slog.Info("applying attestation transaction",
		"receipt_id", receiptID, "action", req.Action, "sender", req.Sender)

	err := h.apply(req)
	if errors.Is(err, record.ErrInvalidTransaction) {
		h.metrics.RecordRejection(context.Background())
	}
	if err == nil && req.Action == ActionSubmitEvidence {
		h.metrics.RecordSubmission(context.Background())
	}
	return err
}

func (h *Handler) apply(req state.Request) error {
	switch req.Action {
	case ActionSubmitEvidence:
		var ev record.Evidence
		if err := json.Unmarshal(req.Payload, &ev); err != nil {
			return fmt.Errorf("%w: decode evidence payload: %v", record.ErrInvalidTransaction, err)
		}
		return h.submitter.Submit(ev, req.Sender)

	case ActionTrustQuery:
		var query record.TrustQuery
		if err := json.Unmarshal(req.Payload, &query); err != nil {
			return fmt.Errorf("%w: decode trust query payload: %v", record.ErrInvalidTransaction, err)
		}
		return h.queries.Handle(query, req.Sender)

	default:
		return fmt.Errorf("%w: unrecognized action %q", record.ErrInvalidTransaction, req.Action)
	}
}
