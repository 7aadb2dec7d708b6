// Package partition: construction, validation, and read accessors.
package partition

import (
	"errors"
	"fmt"
	"sort"

	"github.com/indianahuey/california-redistricting-analysis/graph"
)

// Sentinel errors for partition construction and mutation.
var (
	// ErrAssignmentLength indicates the assignment does not cover every node exactly once.
	ErrAssignmentLength = errors.New("partition: assignment length mismatch")

	// ErrLabelRange indicates a district label outside [0, K).
	ErrLabelRange = errors.New("partition: district label out of range")

	// ErrEmptyDistrict indicates a label in [0, K) with no member nodes.
	ErrEmptyDistrict = errors.New("partition: empty district")

	// ErrNotContiguous indicates a district whose induced subgraph is disconnected.
	ErrNotContiguous = errors.New("partition: district not contiguous")

	// ErrDistrictIndex indicates a district query outside [0, K).
	ErrDistrictIndex = errors.New("partition: district index out of range")
)

// Partition is a population-balanced-plan state: a node → district labeling
// plus incrementally maintained aggregates. Once handed out it is treated as
// an immutable snapshot; Flip returns a fresh Partition.
type Partition struct {
	g *graph.Graph
	k int

	// assignment[v] is the district label of node v.
	assignment []int

	// tallies[name][d] is the sum of attribute name over district d.
	tallies map[string][]int64

	// cutEdges holds the indices of edges whose endpoints differ in label,
	// sorted ascending for determinism.
	cutEdges []int
}

// New builds a Partition over g from a full node → label assignment.
//
// Steps:
//  1. Validate assignment length, label range, and that no label is empty.
//  2. Verify contiguity: one BFS per district over same-label neighbors.
//  3. Accumulate per-district tallies for every attribute column.
//  4. Collect the cut-edge set in ascending edge order.
//
// The assignment slice is copied. Complexity: O(V + E + K·A) where A is the
// attribute count.
func New(g *graph.Graph, assignment []int, k int) (*Partition, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: K=%d", ErrLabelRange, k)
	}
	if len(assignment) != g.NumNodes() {
		return nil, fmt.Errorf("%w: %d labels for %d nodes", ErrAssignmentLength, len(assignment), g.NumNodes())
	}

	// 1. Labels in range, every district inhabited.
	sizes := make([]int, k)
	for v, d := range assignment {
		if d < 0 || d >= k {
			return nil, fmt.Errorf("%w: node %d has label %d", ErrLabelRange, v, d)
		}
		sizes[d]++
	}
	for d, size := range sizes {
		if size == 0 {
			return nil, fmt.Errorf("%w: %d", ErrEmptyDistrict, d)
		}
	}

	p := &Partition{
		g:          g,
		k:          k,
		assignment: append([]int(nil), assignment...),
	}

	// 2. Contiguity of every district.
	if bad, ok := p.firstDisconnectedDistrict(); !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotContiguous, bad)
	}

	// 3. Tallies from scratch.
	p.tallies = make(map[string][]int64)
	for _, name := range g.AttrNames() {
		col, err := g.Attr(name)
		if err != nil {
			return nil, err
		}
		sums := make([]int64, k)
		for v, d := range p.assignment {
			sums[d] += col[v]
		}
		p.tallies[name] = sums
	}

	// 4. Cut edges in edge-index order (already ascending by construction).
	for eid := 0; eid < g.NumEdges(); eid++ {
		e := g.Edge(eid)
		if p.assignment[e.U] != p.assignment[e.V] {
			p.cutEdges = append(p.cutEdges, eid)
		}
	}

	return p, nil
}

// firstDisconnectedDistrict BFS-verifies each district within same-label
// adjacency. Returns (label, false) for the first disconnected district, or
// (0, true) when all districts are contiguous. O(V + E).
func (p *Partition) firstDisconnectedDistrict() (int, bool) {
	n := p.g.NumNodes()
	visited := make([]bool, n)
	queue := make([]int, 0, n)
	reached := make([]int, p.k)
	sizes := make([]int, p.k)
	for _, d := range p.assignment {
		sizes[d]++
	}

	for v := 0; v < n; v++ {
		d := p.assignment[v]
		if visited[v] {
			continue
		}
		if reached[d] > 0 {
			// A second component of district d starts here.
			return d, false
		}
		// BFS restricted to district d.
		queue = queue[:0]
		queue = append(queue, v)
		visited[v] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			reached[d]++
			p.g.Neighbors(u, func(w, _ int) bool {
				if !visited[w] && p.assignment[w] == d {
					visited[w] = true
					queue = append(queue, w)
				}

				return true
			})
		}
	}

	for d := 0; d < p.k; d++ {
		if reached[d] != sizes[d] {
			return d, false
		}
	}

	return 0, true
}

// Graph returns the underlying immutable graph.
func (p *Partition) Graph() *graph.Graph { return p.g }

// K returns the district count.
func (p *Partition) K() int { return p.k }

// District returns the label of node v.
func (p *Partition) District(v int) int { return p.assignment[v] }

// Assignment returns a copy of the full node → label mapping.
func (p *Partition) Assignment() []int {
	return append([]int(nil), p.assignment...)
}

// DistrictNodes returns the member nodes of district d in ascending order.
func (p *Partition) DistrictNodes(d int) ([]int, error) {
	if d < 0 || d >= p.k {
		return nil, fmt.Errorf("%w: %d", ErrDistrictIndex, d)
	}
	var nodes []int
	for v, label := range p.assignment {
		if label == d {
			nodes = append(nodes, v)
		}
	}

	return nodes, nil
}

// Tally returns the aggregate of attribute name over district d.
func (p *Partition) Tally(name string, d int) (int64, error) {
	sums, ok := p.tallies[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", graph.ErrAttrNotFound, name)
	}
	if d < 0 || d >= p.k {
		return 0, fmt.Errorf("%w: %d", ErrDistrictIndex, d)
	}

	return sums[d], nil
}

// CutEdges returns the indices of edges crossing district boundaries, sorted
// ascending. The returned slice is internal state and must not be modified.
func (p *Partition) CutEdges() []int { return p.cutEdges }

// NumCutEdges returns the size of the cut-edge set.
func (p *Partition) NumCutEdges() int { return len(p.cutEdges) }

// Contiguous re-verifies that every district's induced subgraph is connected.
// Construction already guarantees this; the check exists for callers that
// apply Flip with externally computed moves.
func (p *Partition) Contiguous() bool {
	_, ok := p.firstDisconnectedDistrict()

	return ok
}

// Flip returns a new Partition with the given node → label reassignments
// applied. Aggregates are updated incrementally:
//
//  1. Copy the assignment and apply moves (validating label range).
//  2. For each moved node, shift its attribute values from the old district's
//     tally to the new one. Only touched districts change.
//  3. Rebuild the cut-edge set from the old one: drop entries incident to a
//     moved node, re-test every edge incident to a moved node exactly once,
//     and restore ascending order with one sort.
//
// Contiguity is NOT re-verified here; callers must move node sets that keep
// every district connected (the recombination proposal guarantees this).
// Complexity: O(M·A + cut + Σ deg(moved) · log) for M moved nodes.
func (p *Partition) Flip(moves map[int]int) (*Partition, error) {
	next := &Partition{
		g:          p.g,
		k:          p.k,
		assignment: append([]int(nil), p.assignment...),
	}

	// 1. Apply moves; remember which nodes actually changed label.
	moved := make(map[int]bool, len(moves))
	for v, d := range moves {
		if v < 0 || v >= p.g.NumNodes() {
			return nil, fmt.Errorf("%w: node %d", graph.ErrNodeIndex, v)
		}
		if d < 0 || d >= p.k {
			return nil, fmt.Errorf("%w: node %d to label %d", ErrLabelRange, v, d)
		}
		if p.assignment[v] == d {
			continue
		}
		next.assignment[v] = d
		moved[v] = true
	}

	// 2. Incremental tallies: copy each arena, then shift moved nodes.
	next.tallies = make(map[string][]int64, len(p.tallies))
	for _, name := range p.g.AttrNames() {
		col, err := p.g.Attr(name)
		if err != nil {
			return nil, err
		}
		sums := append([]int64(nil), p.tallies[name]...)
		for v := range moved {
			sums[p.assignment[v]] -= col[v]
			sums[next.assignment[v]] += col[v]
		}
		next.tallies[name] = sums
	}

	// Guard against a move emptying a district.
	sizes := make([]int, p.k)
	for _, d := range next.assignment {
		sizes[d]++
	}
	for d, size := range sizes {
		if size == 0 {
			return nil, fmt.Errorf("%w: %d", ErrEmptyDistrict, d)
		}
	}

	// 3. Incremental cut-edge set.
	next.cutEdges = make([]int, 0, len(p.cutEdges))
	for _, eid := range p.cutEdges {
		e := p.g.Edge(eid)
		if !moved[e.U] && !moved[e.V] {
			next.cutEdges = append(next.cutEdges, eid)
		}
	}
	for v := range moved {
		p.g.Neighbors(v, func(u, eid int) bool {
			// Visit each incident edge once: from its moved endpoint, or for
			// doubly moved edges from the lower endpoint only.
			if moved[u] && u < v {
				return true
			}
			e := p.g.Edge(eid)
			if next.assignment[e.U] != next.assignment[e.V] {
				next.cutEdges = append(next.cutEdges, eid)
			}

			return true
		})
	}
	sort.Ints(next.cutEdges)

	return next, nil
}
