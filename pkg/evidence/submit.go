package evidence

import (
	"fmt"
	"log/slog"

	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

// Submitter validates and records newly submitted evidence.
type Submitter struct {
	state  state.Store
	store  *Store
	events state.EventSink
	clock  state.TimeSource
}

// NewSubmitter creates a submitter writing through the given store.
func NewSubmitter(st state.Store, store *Store, events state.EventSink, clock state.TimeSource) *Submitter {
	return &Submitter{state: st, store: store, events: events, clock: clock}
}

// Submit runs the acceptance gates on ev and, when all pass, stamps it
// with the current ledger time and appends it to the prover's list.
// The client-supplied timestamp is always discarded. sender is
// reserved for enforcing that the verifier signed the transaction once
// submitter keys carry device identities.
func (s *Submitter) Submit(ev record.Evidence, sender string) error {
	_ = sender // future gate: ev.VerifierIdentity == sender

	if err := s.validate(ev); err != nil {
		return err
	}

	ev.Timestamp = s.clock.Now()
	if err := s.store.Append(ev); err != nil {
		return err
	}

	slog.Info("evidence accepted",
		"verifier", ev.VerifierIdentity,
		"prover", ev.ProverIdentity,
		"attestation_type", ev.AttestationType,
		"timestamp", ev.Timestamp)

	s.events.Emit(EventSubmission, []state.Attribute{
		{Key: "verifier", Value: ev.VerifierIdentity},
		{Key: "prover", Value: ev.ProverIdentity},
	})
	return nil
}

// validate enforces the five acceptance gates in order; the first
// failing gate rejects the submission.
func (s *Submitter) validate(ev record.Evidence) error {
	// 1. The verifier is a registered device.
	if _, ok, err := record.FindDevice(s.state, ev.VerifierIdentity); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: verifier %q is not a registered device",
			record.ErrInvalidTransaction, ev.VerifierIdentity)
	}

	// 2. The prover is a registered device.
	prover, ok, err := record.FindDevice(s.state, ev.ProverIdentity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: prover %q is not a registered device",
			record.ErrInvalidTransaction, ev.ProverIdentity)
	}

	// 3. The claimed device class matches the registration.
	if prover.DeviceClass != ev.ProverDeviceClass {
		return fmt.Errorf("%w: prover class mismatch: registered %q, submitted %q",
			record.ErrInvalidTransaction, prover.DeviceClass, ev.ProverDeviceClass)
	}

	// 4. A policy row accepts the measurement.
	policy, ok, err := record.FindPolicy(s.state, ev.ProverDeviceClass, ev.AttestationType, ev.ProverVersion, ev.Measurement)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: measurement %q not in policy database",
			record.ErrInvalidTransaction, ev.Measurement)
	}

	// 5. The warrant flag matches the policy; when a warrant is
	// required, one must authorize this verifier for this prover.
	requiredWarrant := policy.RequiresWarrant()
	if ev.IsWarrantAttestation != requiredWarrant {
		return fmt.Errorf("%w: warrant flag %t does not match policy requirement %t",
			record.ErrInvalidTransaction, ev.IsWarrantAttestation, requiredWarrant)
	}
	if requiredWarrant {
		ok, err := record.HasWarrant(s.state, ev.VerifierIdentity, ev.ProverIdentity, ev.AttestationType)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no warrant authorizes %q to vouch for %q",
				record.ErrInvalidTransaction, ev.VerifierIdentity, ev.ProverIdentity)
		}
	}

	return nil
}
