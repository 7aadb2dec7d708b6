package tree

import (
	"math/rand"

	"github.com/indianahuey/california-redistricting-analysis/graph"
)

// unionFind is an array-based disjoint-set with path compression and union by
// rank, indexed by dense node ids. Reset reuses the arrays across attempts so
// repeated spanning-tree draws allocate nothing.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	uf.reset()

	return uf
}

func (uf *unionFind) reset() {
	for i := range uf.parent {
		uf.parent[i] = i
		uf.rank[i] = 0
	}
}

// find walks to the root, halving the path as it goes.
func (uf *unionFind) find(v int) int {
	for uf.parent[v] != v {
		uf.parent[v] = uf.parent[uf.parent[v]]
		v = uf.parent[v]
	}

	return v
}

// union merges the sets of u and v; false when already joined.
func (uf *unionFind) union(u, v int) bool {
	ru, rv := uf.find(u), uf.find(v)
	if ru == rv {
		return false
	}
	if uf.rank[ru] < uf.rank[rv] {
		ru, rv = rv, ru
	}
	uf.parent[rv] = ru
	if uf.rank[ru] == uf.rank[rv] {
		uf.rank[ru]++
	}

	return true
}

// spanner draws random spanning trees of one graph and roots them, reusing
// all scratch arenas between draws. One spanner serves every attempt of a
// bipartition call.
type spanner struct {
	g *graph.Graph
	n int

	uf   *unionFind
	perm []int // edge-index permutation, reshuffled per draw

	// Rooted-tree state, valid after a successful draw:
	// the tree adjacency as head/next linked arrays, BFS parent and order.
	head   []int // head[v] = first slot of v's tree-adjacency list, -1 none
	next   []int // next[slot] = following slot, -1 end
	to     []int // to[slot] = neighbor node
	parent []int // parent[v] in the tree rooted at node 0, -1 for the root
	order  []int // BFS visit order from the root

	// Epoch-stamped visited marks: seen[v] == epoch means visited this draw.
	// Stamping avoids clearing a bool array on every attempt.
	seen  []int
	epoch int
}

func newSpanner(g *graph.Graph) *spanner {
	n := g.NumNodes()
	slots := 0
	if n >= 2 {
		slots = 2 * (n - 1)
	}
	s := &spanner{
		g:      g,
		n:      n,
		uf:     newUnionFind(n),
		perm:   make([]int, g.NumEdges()),
		head:   make([]int, n),
		next:   make([]int, slots),
		to:     make([]int, slots),
		parent: make([]int, n),
		order:  make([]int, 0, n),
		seen:   make([]int, n),
	}
	for i := range s.perm {
		s.perm[i] = i
	}

	return s
}

// draw samples a random spanning tree and roots it at node 0.
//
// Steps:
//  1. Fisher–Yates shuffle the edge permutation with the caller's RNG; a
//     uniformly random scan order is equivalent to i.i.d. random edge
//     weights fed to Kruskal.
//  2. Scan edges through the union-find, linking the n-1 edges that join
//     distinct components into the tree adjacency arenas.
//  3. BFS from node 0 to fix parent links and visit order.
//
// Returns ErrDisconnected when fewer than n-1 edges link up.
// Complexity: O(E α(V)) time, zero allocations after construction.
func (s *spanner) draw(rng *rand.Rand) error {
	if s.n == 0 {
		return ErrDisconnected
	}

	// 1. Shuffle edge order.
	for i := len(s.perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s.perm[i], s.perm[j] = s.perm[j], s.perm[i]
	}

	// 2. Kruskal scan into the arena adjacency.
	s.uf.reset()
	for v := range s.head {
		s.head[v] = -1
	}
	slot := 0
	linked := 0
	for _, eid := range s.perm {
		e := s.g.Edge(eid)
		if !s.uf.union(e.U, e.V) {
			continue
		}
		s.to[slot] = e.V
		s.next[slot] = s.head[e.U]
		s.head[e.U] = slot
		slot++
		s.to[slot] = e.U
		s.next[slot] = s.head[e.V]
		s.head[e.V] = slot
		slot++
		linked++
		if linked == s.n-1 {
			break
		}
	}
	if linked != s.n-1 {
		return ErrDisconnected
	}

	// 3. Root at node 0.
	s.epoch++
	s.order = s.order[:0]
	s.parent[0] = -1
	s.seen[0] = s.epoch
	s.order = append(s.order, 0)
	for qi := 0; qi < len(s.order); qi++ {
		v := s.order[qi]
		for it := s.head[v]; it != -1; it = s.next[it] {
			u := s.to[it]
			if s.seen[u] == s.epoch {
				continue
			}
			s.seen[u] = s.epoch
			s.parent[u] = v
			s.order = append(s.order, u)
		}
	}

	return nil
}
