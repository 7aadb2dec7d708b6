// Package recom: proposal options and the Propose operation.
package recom

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/indianahuey/california-redistricting-analysis/partition"
	"github.com/indianahuey/california-redistricting-analysis/tree"
)

// Sentinel errors for recombination proposals.
var (
	// ErrProposalExhausted indicates the selected district pair admitted no
	// balanced re-split within the NodeRepeats budget. Recoverable: the
	// driver should redraw a pair.
	ErrProposalExhausted = errors.New("recom: proposal budget exhausted for selected pair")

	// ErrNoCutEdges indicates a partition with no district boundary to recombine.
	ErrNoCutEdges = errors.New("recom: partition has no cut edges")

	// ErrMergedDisconnected indicates the merged pair's induced subgraph is
	// disconnected. Cannot occur for contiguous districts sharing a cut
	// edge; surfaced rather than silently retried if it ever does.
	ErrMergedDisconnected = errors.New("recom: merged districts are disconnected")

	// ErrBadPairPolicy indicates an unknown pair-selection policy.
	ErrBadPairPolicy = errors.New("recom: unknown pair-selection policy")

	// ErrBadNodeRepeats indicates a non-positive NodeRepeats budget.
	ErrBadNodeRepeats = errors.New("recom: node repeats must be positive")

	// ErrNilRNG indicates a nil random source.
	ErrNilRNG = errors.New("recom: nil random source")
)

// PairPolicy selects how the two districts to recombine are drawn.
type PairPolicy int

const (
	// PairCutEdgeUniform draws a cut edge uniformly and takes its endpoint
	// districts (boundary-length weighted).
	PairCutEdgeUniform PairPolicy = iota

	// PairDistrictUniform draws uniformly over distinct adjacent district pairs.
	PairDistrictUniform
)

// DefaultNodeRepeats is the bipartition-try budget per selected pair.
const DefaultNodeRepeats = 1

// Options tunes a recombination proposal.
//
// Fields:
//
//	PopAttr     string     — population column gating the re-split balance.
//	Ideal       float64    — per-district ideal population target.
//	Epsilon     float64    — relative tolerance for each new half.
//	NodeRepeats int        — bipartition tries for the selected pair.
//	Policy      PairPolicy — pair selection scheme.
//	Attempts    int        — spanning-tree redraws inside each bipartition try.
type Options struct {
	PopAttr     string
	Ideal       float64
	Epsilon     float64
	NodeRepeats int
	Policy      PairPolicy
	Attempts    int
}

// DefaultOptions returns recombination defaults matching the tree package:
// PopAttr="total_pop", Epsilon=0.02, NodeRepeats=1, cut-edge-uniform pairs.
// Ideal has no sensible default and must be set by the caller.
func DefaultOptions() Options {
	return Options{
		PopAttr:     tree.DefaultPopAttr,
		Epsilon:     tree.DefaultEpsilon,
		NodeRepeats: DefaultNodeRepeats,
		Policy:      PairCutEdgeUniform,
		Attempts:    tree.DefaultAttempts,
	}
}

// Validate rejects unusable options eagerly.
func (o Options) Validate() error {
	if o.PopAttr == "" {
		return tree.ErrEmptyPopAttr
	}
	if o.Ideal <= 0 {
		return fmt.Errorf("%w: ideal %g", tree.ErrBadTarget, o.Ideal)
	}
	if o.Epsilon <= 0 {
		return tree.ErrBadEpsilon
	}
	if o.NodeRepeats <= 0 {
		return ErrBadNodeRepeats
	}
	if o.Attempts <= 0 {
		return tree.ErrBadAttempts
	}
	if o.Policy != PairCutEdgeUniform && o.Policy != PairDistrictUniform {
		return ErrBadPairPolicy
	}

	return nil
}

// Propose produces one candidate partition from the current one.
//
// Steps:
//  1. Draw a district pair (a, b), a < b, per the configured policy.
//  2. Merge the pair's nodes and induce the subgraph; a disconnected merge
//     surfaces ErrMergedDisconnected.
//  3. Up to NodeRepeats times, re-split the merge with tree.BipartitionTree,
//     K=2, both targets the shared per-district ideal (every district in
//     this engine carries the same target, so the pair's combined ideal
//     splits evenly).
//  4. Relabel: the target-A side takes label a, the rest label b, and the
//     candidate is materialized through the partition's incremental Flip.
//
// The current partition is never mutated. ErrProposalExhausted is the
// recoverable no-result outcome for this pair.
// Complexity: O(V) merge collection + NodeRepeats bipartition tries.
func Propose(p *partition.Partition, rng *rand.Rand, opts Options) (*partition.Partition, error) {
	if rng == nil {
		return nil, ErrNilRNG
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// 1. District pair.
	a, b, err := drawPair(p, rng, opts.Policy)
	if err != nil {
		return nil, err
	}

	// 2. Merged induced subgraph.
	merged := make([]int, 0, p.Graph().NumNodes())
	for v := 0; v < p.Graph().NumNodes(); v++ {
		if d := p.District(v); d == a || d == b {
			merged = append(merged, v)
		}
	}
	sub, err := p.Graph().Induced(merged)
	if err != nil {
		return nil, err
	}
	if !sub.Connected() {
		return nil, fmt.Errorf("%w: districts %d and %d", ErrMergedDisconnected, a, b)
	}

	// 3. Balanced re-split, NodeRepeats tries.
	treeOpts := tree.Options{
		PopAttr:  opts.PopAttr,
		Epsilon:  opts.Epsilon,
		Attempts: opts.Attempts,
	}
	var inA []bool
	for try := 0; try < opts.NodeRepeats; try++ {
		inA, err = tree.BipartitionTree(sub, opts.Ideal, opts.Ideal, rng, treeOpts)
		if err == nil {
			break
		}
		if !errors.Is(err, tree.ErrNoBalancedCut) {
			return nil, err
		}
	}
	if inA == nil {
		return nil, fmt.Errorf("%w: districts %d and %d after %d tries", ErrProposalExhausted, a, b, opts.NodeRepeats)
	}

	// 4. Relabel and flip.
	origin := sub.Origin()
	moves := make(map[int]int, len(origin))
	for local, isA := range inA {
		label := b
		if isA {
			label = a
		}
		if p.District(origin[local]) != label {
			moves[origin[local]] = label
		}
	}

	return p.Flip(moves)
}

// drawPair picks two adjacent districts (a < b) per the policy.
func drawPair(p *partition.Partition, rng *rand.Rand, policy PairPolicy) (int, int, error) {
	cut := p.CutEdges()
	if len(cut) == 0 {
		return 0, 0, ErrNoCutEdges
	}

	switch policy {
	case PairCutEdgeUniform:
		e := p.Graph().Edge(cut[rng.Intn(len(cut))])
		a, b := p.District(e.U), p.District(e.V)
		if a > b {
			a, b = b, a
		}

		return a, b, nil

	case PairDistrictUniform:
		// Distinct adjacent pairs in deterministic (a, b) order. Cut edges
		// are sorted, so the pair list is reproducible.
		seen := make(map[[2]int]bool)
		var pairs [][2]int
		for _, eid := range cut {
			e := p.Graph().Edge(eid)
			a, b := p.District(e.U), p.District(e.V)
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if !seen[key] {
				seen[key] = true
				pairs = append(pairs, key)
			}
		}
		pair := pairs[rng.Intn(len(pairs))]

		return pair[0], pair[1], nil

	default:
		return 0, 0, ErrBadPairPolicy
	}
}
