package tree

import (
	"fmt"
	"math/rand"

	"github.com/indianahuey/california-redistricting-analysis/graph"
)

// RecursiveTreePart partitions a connected attributed graph into k contiguous
// parts, each with population strictly within opts.Epsilon of ideal, and
// returns the node → label assignment with labels in [0, k).
//
// Steps:
//  1. Eager validation: options, k in [1, V], ideal > 0, population column
//     present, graph connected. No randomness is consumed on invalid input.
//  2. Recursive halving: split the current node set into a ⌈K/2⌉-share side
//     and a ⌊K/2⌋-share side via BipartitionTree with targets kA·ideal and
//     kB·ideal, then recurse; the A side takes the lower label range
//     [base, base+kA), the B side [base+kA, base+k). K == 1 labels the whole
//     set.
//
// Failure at any recursion level (ErrNoBalancedCut) aborts the whole build;
// the caller may retry with a fresh seed.
//
// Determinism: identical (graph, RNG state, options) produce an identical
// assignment.
// Complexity: O(log k) levels of O(Attempts·(V+E)) worst-case bipartitions.
func RecursiveTreePart(g *graph.Graph, k int, ideal float64, rng *rand.Rand, opts Options) ([]int, error) {
	// 1. Eager validation.
	if rng == nil {
		return nil, ErrNilRNG
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if k < 1 || k > g.NumNodes() {
		return nil, fmt.Errorf("%w: k=%d for %d nodes", ErrInvalidK, k, g.NumNodes())
	}
	if ideal <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadTarget, ideal)
	}
	if _, err := g.Attr(opts.PopAttr); err != nil {
		return nil, err
	}
	if !g.Connected() {
		return nil, ErrDisconnected
	}

	assignment := make([]int, g.NumNodes())
	nodes := make([]int, g.NumNodes())
	for v := range nodes {
		nodes[v] = v
	}

	// 2. Recursive halving over root-graph node lists.
	if err := splitPart(g, nodes, k, 0, ideal, rng, opts, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

// splitPart assigns labels [base, base+k) to the given root-graph node set.
func splitPart(g *graph.Graph, nodes []int, k, base int, ideal float64, rng *rand.Rand, opts Options, assignment []int) error {
	if k == 1 {
		for _, v := range nodes {
			assignment[v] = base
		}

		return nil
	}

	// One induced subgraph per recursion level; every bipartition attempt at
	// this level reuses it.
	sub, err := g.Induced(nodes)
	if err != nil {
		return err
	}

	kA := (k + 1) / 2 // ⌈K/2⌉ parts' worth on side A
	kB := k - kA      // ⌊K/2⌋ on side B
	// Both sides fit a single-district absolute window ε·ideal, whatever the
	// side's part count; see bipartitionWindows for why the window must not
	// scale with kA/kB.
	window := opts.Epsilon * ideal
	inA, err := bipartitionWindows(sub, float64(kA)*ideal, window, float64(kB)*ideal, window, rng, opts)
	if err != nil {
		return err
	}

	origin := sub.Origin()
	sideA := make([]int, 0, len(origin))
	sideB := make([]int, 0, len(origin))
	for local, isA := range inA {
		if isA {
			sideA = append(sideA, origin[local])
		} else {
			sideB = append(sideB, origin[local])
		}
	}

	if err := splitPart(g, sideA, kA, base, ideal, rng, opts, assignment); err != nil {
		return err
	}

	return splitPart(g, sideB, kB, base+kA, ideal, rng, opts, assignment)
}
