// Package graph defines the read-only attributed graph and its constructor.
// Algorithms live elsewhere; this file owns storage and validation only.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for graph construction and queries.
var (
	// ErrEdgeEndpoint indicates an edge endpoint outside the node range.
	ErrEdgeEndpoint = errors.New("graph: edge endpoint out of range")

	// ErrSelfLoop indicates an edge from a node to itself.
	ErrSelfLoop = errors.New("graph: self-loop not allowed")

	// ErrDuplicateEdge indicates the same unordered node pair appears twice.
	ErrDuplicateEdge = errors.New("graph: duplicate edge")

	// ErrAttrLength indicates an attribute column whose length differs from the node count.
	ErrAttrLength = errors.New("graph: attribute column length mismatch")

	// ErrAttrNotFound indicates a lookup of a non-existent attribute column.
	ErrAttrNotFound = errors.New("graph: attribute not found")

	// ErrEmptySubset indicates an induced-subgraph request over zero nodes.
	ErrEmptySubset = errors.New("graph: empty node subset")

	// ErrNodeIndex indicates a node id outside [0, n).
	ErrNodeIndex = errors.New("graph: node index out of range")
)

// Edge is an undirected adjacency between two nodes, stored with U < V.
type Edge struct {
	U, V int
}

// Graph is the immutable attributed dual graph.
//
// All fields are fixed at construction; a Graph may be shared read-only across
// goroutines with no synchronization.
type Graph struct {
	n     int
	edges []Edge

	// CSR adjacency: for node v, neighbors are adjNode[adjOff[v]:adjOff[v+1]]
	// and the corresponding edge indices are adjEdge over the same range.
	adjOff  []int
	adjNode []int
	adjEdge []int

	// attrs maps an attribute name to its per-node column, indexed by node id.
	attrs map[string][]int64

	// origin maps local node ids back to the parent graph for induced
	// subgraphs; nil for a root graph.
	origin []int
}

// New builds an immutable Graph over n nodes with the given undirected edges
// and attribute columns. Edge endpoint order is normalized to U < V.
//
// Steps:
//  1. Validate every edge: endpoints in [0, n), no self-loops, no duplicates.
//  2. Validate every attribute column has exactly n entries.
//  3. Build the CSR adjacency arrays with a counting pass plus a fill pass.
//
// Attribute columns are copied; the caller keeps ownership of its slices.
// Complexity: O(V + E) time and memory.
func New(n int, edges []Edge, attrs map[string][]int64) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrNodeIndex, n)
	}

	// 1. Normalize and validate edges.
	normalized := make([]Edge, len(edges))
	seen := make(map[Edge]struct{}, len(edges))
	for i, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("%w: edge %d-%d", ErrEdgeEndpoint, e.U, e.V)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("%w: node %d", ErrSelfLoop, e.U)
		}
		if e.U > e.V {
			e.U, e.V = e.V, e.U
		}
		if _, dup := seen[e]; dup {
			return nil, fmt.Errorf("%w: edge %d-%d", ErrDuplicateEdge, e.U, e.V)
		}
		seen[e] = struct{}{}
		normalized[i] = e
	}

	// 2. Validate and copy attribute columns.
	cols := make(map[string][]int64, len(attrs))
	for name, col := range attrs {
		if len(col) != n {
			return nil, fmt.Errorf("%w: %q has %d entries for %d nodes", ErrAttrLength, name, len(col), n)
		}
		dup := make([]int64, n)
		copy(dup, col)
		cols[name] = dup
	}

	g := &Graph{
		n:     n,
		edges: normalized,
		attrs: cols,
	}
	g.buildCSR()

	return g, nil
}

// buildCSR fills adjOff/adjNode/adjEdge from g.edges. Each undirected edge
// contributes one entry per endpoint.
func (g *Graph) buildCSR() {
	g.adjOff = make([]int, g.n+1)
	for _, e := range g.edges {
		g.adjOff[e.U+1]++
		g.adjOff[e.V+1]++
	}
	for v := 0; v < g.n; v++ {
		g.adjOff[v+1] += g.adjOff[v]
	}

	g.adjNode = make([]int, 2*len(g.edges))
	g.adjEdge = make([]int, 2*len(g.edges))
	cursor := make([]int, g.n)
	copy(cursor, g.adjOff[:g.n])
	for eid, e := range g.edges {
		g.adjNode[cursor[e.U]] = e.V
		g.adjEdge[cursor[e.U]] = eid
		cursor[e.U]++
		g.adjNode[cursor[e.V]] = e.U
		g.adjEdge[cursor[e.V]] = eid
		cursor[e.V]++
	}
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return g.n }

// NumEdges returns the undirected edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Edge returns the endpoints of edge eid (U < V). Panics are avoided by
// contract: eid must come from this graph's adjacency or cut-edge sets.
func (g *Graph) Edge(eid int) Edge { return g.edges[eid] }

// Degree returns the number of neighbors of node v.
func (g *Graph) Degree(v int) int { return g.adjOff[v+1] - g.adjOff[v] }

// Neighbors invokes fn for every neighbor u of v with the connecting edge
// index. Iteration stops early when fn returns false.
// Zero allocations; order is fixed by construction.
func (g *Graph) Neighbors(v int, fn func(u, eid int) bool) {
	for i := g.adjOff[v]; i < g.adjOff[v+1]; i++ {
		if !fn(g.adjNode[i], g.adjEdge[i]) {
			return
		}
	}
}

// Attr returns the attribute column for name, or ErrAttrNotFound.
// The returned slice is the graph's own storage and must not be modified.
func (g *Graph) Attr(name string) ([]int64, error) {
	col, ok := g.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAttrNotFound, name)
	}

	return col, nil
}

// Value returns the attribute value of a single node.
func (g *Graph) Value(name string, v int) (int64, error) {
	col, err := g.Attr(name)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= g.n {
		return 0, fmt.Errorf("%w: %d", ErrNodeIndex, v)
	}

	return col[v], nil
}

// AttrNames returns the attribute column names in sorted order.
func (g *Graph) AttrNames() []string {
	names := make([]string, 0, len(g.attrs))
	for name := range g.attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// AttrTotal returns the sum of an attribute column over all nodes.
func (g *Graph) AttrTotal(name string) (int64, error) {
	col, err := g.Attr(name)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, v := range col {
		total += v
	}

	return total, nil
}

// Origin maps local node ids of an induced subgraph back to the parent graph.
// It returns nil for a root graph. The returned slice must not be modified.
func (g *Graph) Origin() []int { return g.origin }
