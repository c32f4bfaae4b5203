// Package graph implements the bounded breadth-first search over the
// trust graph implied by stored evidence.
//
// A directed edge runs from prover P to verifier V whenever evidence
// "V attested P" is stored; P's evidence list is the adjacency list of
// outgoing edges. Edge weights are trust scores computed at evaluation
// time, so the same graph decays between queries.
package graph

import (
	"context"
	"log/slog"

	"github.com/veriot/trustgraph/pkg/evidence"
	"github.com/veriot/trustgraph/pkg/observability"
	"github.com/veriot/trustgraph/pkg/score"
	"github.com/veriot/trustgraph/pkg/state"
)

// Result of a trust path search.
type Result struct {
	// Found reports whether a qualifying path to the verifier exists.
	Found bool
	// FinalRating is the aggregate reliability of the path when found,
	// or of the recommended entry point otherwise.
	FinalRating float64
	// EntryPoint names the node the verifier should attest to enter
	// the graph. Only set when no qualifying path was found.
	EntryPoint string
	// Path is the node sequence from the prover, ending at the
	// verifier when found, or at the entry point otherwise.
	Path []string
}

// visit records the best known route from the prover to a node. A node
// is visited at most once and its record never overwritten, which
// excludes cycles and bounds the search to one path per node.
type visit struct {
	reliability float64
	depth       int
	path        []string
}

// Searcher walks the trust graph.
type Searcher struct {
	evidence *evidence.Store
	scores   *score.Calculator
	clock    state.TimeSource
	metrics  *observability.Metrics
}

// NewSearcher creates a searcher over the given evidence store.
func NewSearcher(ev *evidence.Store, scores *score.Calculator, clock state.TimeSource) *Searcher {
	return &Searcher{evidence: ev, scores: scores, clock: clock}
}

// WithMetrics attaches expiry counters to the searcher.
func (s *Searcher) WithMetrics(m *observability.Metrics) *Searcher {
	s.metrics = m
	return s
}

// BuildPath searches for a trust path from proverID to verifierID of
// at most maxDepth hops whose aggregate reliability reaches
// minReliability. Evidence found expired along the way is deleted
// (lazy expiry). When no qualifying path exists, the visited nodes are
// ranked and the best entry point for establishing new trust is
// recommended instead; if no visited node qualifies either, the query
// is rejected.
func (s *Searcher) BuildPath(proverID, verifierID string, maxDepth int, minReliability float64) (Result, error) {
	if proverID == verifierID {
		return Result{Found: true, FinalRating: 1, Path: []string{proverID}}, nil
	}

	now := s.clock.Now()
	visited := map[string]visit{
		proverID: {reliability: 1, depth: 0, path: []string{proverID}},
	}
	fringe := []string{proverID}

	for depth := 1; depth <= maxDepth && len(fringe) > 0; depth++ {
		slog.Debug("expanding trust graph", "depth", depth, "fringe", len(fringe))
		var next []string
		for _, node := range fringe {
			list, err := s.evidence.ListFor(node)
			if err != nil {
				return Result{}, err
			}
			for _, ev := range list {
				res, err := s.scores.Score(ev, now)
				if err != nil {
					return Result{}, err
				}
				if res.Expired {
					if err := s.evidence.Delete(ev); err != nil {
						return Result{}, err
					}
					s.metrics.RecordExpiry(context.Background())
				}
				if res.Weight == 0 {
					continue
				}

				pathScore := res.Weight
				if depth > 1 {
					pathScore *= visited[node].reliability
				}

				if ev.VerifierIdentity == verifierID && pathScore >= minReliability {
					return Result{
						Found:       true,
						FinalRating: pathScore,
						Path:        extend(visited[node].path, ev.VerifierIdentity),
					}, nil
				}

				if _, seen := visited[ev.VerifierIdentity]; !seen && depth < maxDepth {
					visited[ev.VerifierIdentity] = visit{
						reliability: pathScore,
						depth:       depth,
						path:        extend(visited[node].path, ev.VerifierIdentity),
					}
					next = append(next, ev.VerifierIdentity)
				}
			}
		}
		fringe = next
	}

	return entryPoint(visited, minReliability)
}

// extend copies a recorded path and appends a node. Paths are never
// mutated in place: several frontier nodes may share one ancestor path.
func extend(path []string, node string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = node
	return out
}
