package tree

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/indianahuey/california-redistricting-analysis/graph"
)

// BipartitionTree splits a connected attributed graph into two contiguous
// sides whose populations land strictly within opts.Epsilon (relative) of
// targetA and targetB respectively.
//
// Returns inA, where inA[v] == true means local node v belongs to the
// targetA side.
//
// Errors: ErrNilRNG, option validation errors, ErrBadTarget,
// ErrDisconnected (immediately — retries cannot fix topology), and
// ErrNoBalancedCut once the attempt budget is exhausted.
//
// Determinism: the RNG is the sole source of variation; identical graph and
// RNG state yield an identical split.
func BipartitionTree(g *graph.Graph, targetA, targetB float64, rng *rand.Rand, opts Options) ([]bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return bipartitionWindows(g, targetA, opts.Epsilon*targetA, targetB, opts.Epsilon*targetB, rng, opts)
}

// bipartitionWindows is the balanced-cut core, with explicit absolute
// tolerance windows per side. The recursive partitioner calls it with a
// single-district window (ε·ideal) regardless of how many parts a side is
// worth, so the tolerance does not dilate at upper recursion levels and
// leaf districts stay individually reachable.
//
// Steps, per attempt (up to opts.Attempts):
//  1. Draw a random spanning tree with the caller's RNG (see spanner.draw).
//  2. Accumulate subtree populations in reverse BFS order.
//  3. Scan candidate cut edges (child v, parent[v]) for v in ascending node
//     id — a fixed deterministic order — and take the first edge where one
//     side fits targetA and the complement fits targetB, in either
//     orientation. When both orientations fit, the subtree is side A.
//
// Complexity: O(E + V) per attempt, with all scratch reused across attempts.
func bipartitionWindows(g *graph.Graph, targetA, windowA, targetB, windowB float64, rng *rand.Rand, opts Options) ([]bool, error) {
	if rng == nil {
		return nil, ErrNilRNG
	}
	if targetA <= 0 || targetB <= 0 {
		return nil, fmt.Errorf("%w: %g / %g", ErrBadTarget, targetA, targetB)
	}
	n := g.NumNodes()
	if n < 2 {
		return nil, fmt.Errorf("%w: %d nodes cannot form two parts", ErrNoBalancedCut, n)
	}

	pops, err := g.Attr(opts.PopAttr)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, p := range pops {
		total += p
	}

	s := newSpanner(g)
	sub := make([]int64, n) // subtree population arena, rewritten per attempt

	for attempt := 0; attempt < opts.Attempts; attempt++ {
		if err := s.draw(rng); err != nil {
			return nil, err
		}

		// 2. Subtree sums: children precede parents in reverse BFS order.
		for v := 0; v < n; v++ {
			sub[v] = pops[v]
		}
		for i := len(s.order) - 1; i > 0; i-- {
			v := s.order[i]
			sub[s.parent[v]] += sub[v]
		}

		// 3. First fitting cut edge in ascending child order.
		for v := 1; v < n; v++ {
			popS := float64(sub[v])
			popC := float64(total) - popS
			switch {
			case fits(popS, targetA, windowA) && fits(popC, targetB, windowB):
				return s.sideOfSubtree(v, true), nil
			case fits(popS, targetB, windowB) && fits(popC, targetA, windowA):
				return s.sideOfSubtree(v, false), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %d attempts", ErrNoBalancedCut, opts.Attempts)
}

// fits reports whether pop lies strictly within the absolute window of
// target. Strictness is a documented policy: boundary splits are rejected.
func fits(pop, target, window float64) bool {
	return math.Abs(pop-target) < window
}

// sideOfSubtree collects the subtree rooted at cut child v (relative to the
// current draw) and returns the side-A membership mask: the subtree when
// subtreeIsA, otherwise its complement.
func (s *spanner) sideOfSubtree(v int, subtreeIsA bool) []bool {
	inSub := make([]bool, s.n)
	stack := []int{v}
	inSub[v] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for it := s.head[u]; it != -1; it = s.next[it] {
			w := s.to[it]
			if w == s.parent[u] || inSub[w] {
				continue
			}
			inSub[w] = true
			stack = append(stack, w)
		}
	}

	if !subtreeIsA {
		for i := range inSub {
			inSub[i] = !inSub[i]
		}
	}

	return inSub
}
