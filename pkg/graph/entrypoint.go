package graph

import (
	"fmt"
	"sort"

	"github.com/veriot/trustgraph/pkg/record"
)

type candidate struct {
	node string
	visit
}

// entryPoint ranks the visited nodes whose recorded reliability
// strictly exceeds minReliability and recommends the winner as the
// point where the verifier should establish new trust.
//
// Candidates are ordered by reliability descending and the ordered
// list is then re-sorted, stably, by depth descending. The net effect
// is that depth dominates: the deepest qualifying node wins, with
// higher reliability breaking depth ties. Preferring deeper nodes
// pushes the new-trust boundary toward the unverified edge of the
// known graph instead of re-attesting well-connected nodes.
func entryPoint(visited map[string]visit, minReliability float64) (Result, error) {
	var candidates []candidate
	for node, v := range visited {
		if v.reliability > minReliability {
			candidates = append(candidates, candidate{node: node, visit: v})
		}
	}
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("%w: no visited node exceeds reliability %v to serve as entry point",
			record.ErrInvalidTransaction, minReliability)
	}

	// Node-name pre-sort makes the outcome independent of map order
	// when both reliability and depth tie.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].node < candidates[j].node
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].reliability > candidates[j].reliability
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].depth > candidates[j].depth
	})

	best := candidates[0]
	return Result{
		FinalRating: best.reliability,
		EntryPoint:  best.node,
		Path:        best.path,
	}, nil
}
