// Package score computes decayed, reliability-weighted trust scores
// for stored evidence.
package score

import (
	"fmt"

	"github.com/veriot/trustgraph/pkg/decay"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

// Result of scoring one piece of evidence.
type Result struct {
	// Weight is the decayed, reliability-weighted score in [0,1].
	Weight float64
	// Expired is set when the evidence age exceeded xmax. The caller
	// owns removal of expired evidence; the calculator never writes.
	Expired bool
}

// Calculator scores evidence against the attestation properties
// database. It is pure: every invocation only reads state.
type Calculator struct {
	store state.Store
	decay *decay.Evaluator
}

// NewCalculator creates a calculator over the given state snapshot.
func NewCalculator(store state.Store, eval *decay.Evaluator) *Calculator {
	return &Calculator{store: store, decay: eval}
}

// Score computes the current trust score of ev at ledger time now.
//
// The decay is piecewise over the evidence age: full weight up to xmin,
// the configured decay expression between xmin and xmax, zero (and
// expired) beyond xmax. The decayed weight is multiplied by the static
// reliability score of the attestation type.
func (c *Calculator) Score(ev record.Evidence, now int64) (Result, error) {
	props, ok, err := record.FindProperties(c.store, ev.AttestationType)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: no properties registered for attestation type %q",
			record.ErrInvalidTransaction, ev.AttestationType)
	}
	if props.XMin > props.XMax {
		return Result{}, fmt.Errorf("%w: properties for %q violate xmin <= xmax (%d > %d)",
			record.ErrInternal, ev.AttestationType, props.XMin, props.XMax)
	}

	age := now - ev.Timestamp
	if age < 0 {
		return Result{}, fmt.Errorf("%w: evidence timestamp %d is ahead of ledger time %d",
			record.ErrInternal, ev.Timestamp, now)
	}

	var weight float64
	switch {
	case age <= props.XMin:
		weight = 1
	case age <= props.XMax:
		w, err := c.decay.Eval(props.TimeFunction, float64(age))
		if err != nil {
			return Result{}, fmt.Errorf("%w: decay function for %q: %v",
				record.ErrInternal, ev.AttestationType, err)
		}
		weight = clamp01(w)
	default:
		return Result{Weight: 0, Expired: true}, nil
	}

	return Result{Weight: weight * props.ReliabilityScore}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
