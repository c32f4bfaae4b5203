// Package evidence implements the append-only per-prover evidence
// lists and the submission validator of the attestation transaction
// family.
package evidence

import (
	"encoding/json"
	"fmt"

	"github.com/veriot/trustgraph/pkg/addressing"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

// Event types emitted by the attestation family.
const (
	EventSubmission = "attestation/evidence_submission"
	EventDeletion   = "attestation/evidence_deletion"
)

// Store manages the per-prover evidence lists in ledger state. Lists
// only ever grow through Append and shrink through expiry Delete.
type Store struct {
	state  state.Store
	events state.EventSink
}

// NewStore creates an evidence store over the given state snapshot.
func NewStore(st state.Store, events state.EventSink) *Store {
	return &Store{state: st, events: events}
}

// ListFor returns all evidence recorded for a prover. A prover with no
// prior submissions yields an empty list.
func (s *Store) ListFor(proverIdentity string) ([]record.Evidence, error) {
	list, _, err := s.listAt(addressing.EvidenceAddress(proverIdentity))
	return list, err
}

// Append adds ev to its prover's evidence list, creating the list on
// first write.
func (s *Store) Append(ev record.Evidence) error {
	address := addressing.EvidenceAddress(ev.ProverIdentity)
	list, _, err := s.listAt(address)
	if err != nil {
		return err
	}
	list = append(list, ev)
	return s.writeAt(address, list)
}

// Delete removes every entry structurally equal to ev from its
// prover's list and emits an evidence_deletion event. Deleting an
// entry that is not stored leaves the list unchanged; deleting at a
// never-written address is a no-op.
func (s *Store) Delete(ev record.Evidence) error {
	target, err := ev.Digest()
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrInternal, err)
	}

	address := addressing.EvidenceAddress(ev.ProverIdentity)
	list, written, err := s.listAt(address)
	if err != nil {
		return err
	}
	if !written {
		return nil
	}

	kept := make([]record.Evidence, 0, len(list))
	for _, cur := range list {
		digest, err := cur.Digest()
		if err != nil {
			return fmt.Errorf("%w: %v", record.ErrInternal, err)
		}
		if digest != target {
			kept = append(kept, cur)
		}
	}

	if err := s.writeAt(address, kept); err != nil {
		return err
	}
	s.events.Emit(EventDeletion, []state.Attribute{
		{Key: "verifier", Value: ev.VerifierIdentity},
		{Key: "prover", Value: ev.ProverIdentity},
	})
	return nil
}

func (s *Store) listAt(address string) ([]record.Evidence, bool, error) {
	raw, ok, err := s.state.Get(address)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read evidence list: %v", record.ErrInternal, err)
	}
	if !ok {
		return nil, false, nil
	}
	var list record.EvidenceList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, fmt.Errorf("%w: decode evidence list: %v", record.ErrInternal, err)
	}
	return list.Evidences, true, nil
}

func (s *Store) writeAt(address string, list []record.Evidence) error {
	raw, err := json.Marshal(record.EvidenceList{Evidences: list})
	if err != nil {
		return fmt.Errorf("%w: encode evidence list: %v", record.ErrInternal, err)
	}
	if err := s.state.Set(address, raw); err != nil {
		return fmt.Errorf("%w: write evidence list: %v", record.ErrInternal, err)
	}
	return nil
}
