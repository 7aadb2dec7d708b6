package graph

import (
	"fmt"
	"sort"
)

// Induced extracts the subgraph over the given node subset.
//
// Steps:
//  1. Sort and deduplicate the subset; reject empty input or out-of-range ids.
//  2. Build a parent-id → local-id index.
//  3. Keep every parent edge whose endpoints both lie in the subset,
//     re-expressed in local ids, and slice out the attribute columns.
//
// The result's Origin() maps local ids back to this graph's ids in ascending
// parent order, so recursion over subsets stays deterministic.
// Complexity: O(V' log V' + Σ deg(v)) time, O(V' + E') memory.
func (g *Graph) Induced(nodes []int) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptySubset
	}

	// 1. Sorted, deduplicated copy of the subset.
	subset := make([]int, len(nodes))
	copy(subset, nodes)
	sort.Ints(subset)
	w := 0
	for i, v := range subset {
		if v < 0 || v >= g.n {
			return nil, fmt.Errorf("%w: %d", ErrNodeIndex, v)
		}
		if i > 0 && v == subset[w-1] {
			continue
		}
		subset[w] = v
		w++
	}
	subset = subset[:w]

	// 2. Parent → local index. A map keeps the cost proportional to the
	// subset rather than to the parent graph, which matters when many small
	// district merges are induced from one large state graph.
	local := make(map[int]int, len(subset))
	for i, v := range subset {
		local[v] = i
	}

	// 3. Collect internal edges once each, from the lower parent endpoint,
	// in ascending parent order (deterministic). subset is sorted, so the
	// local id of subset[i] is i.
	var edges []Edge
	for i, v := range subset {
		for a := g.adjOff[v]; a < g.adjOff[v+1]; a++ {
			u := g.adjNode[a]
			lu, ok := local[u]
			if !ok || u < v {
				continue
			}
			edges = append(edges, Edge{U: i, V: lu})
		}
	}

	attrs := make(map[string][]int64, len(g.attrs))
	for name, col := range g.attrs {
		sub := make([]int64, len(subset))
		for i, v := range subset {
			sub[i] = col[v]
		}
		attrs[name] = sub
	}

	out, err := New(len(subset), edges, attrs)
	if err != nil {
		return nil, err
	}
	out.origin = subset

	return out, nil
}

// Connected reports whether the graph is a single connected component.
// An empty graph is vacuously connected.
// Complexity: O(V + E) BFS, O(V) memory.
func (g *Graph) Connected() bool {
	if g.n == 0 {
		return true
	}

	visited := make([]bool, g.n)
	queue := make([]int, 0, g.n)
	queue = append(queue, 0)
	visited[0] = true
	count := 1
	for qi := 0; qi < len(queue); qi++ {
		v := queue[qi]
		for a := g.adjOff[v]; a < g.adjOff[v+1]; a++ {
			u := g.adjNode[a]
			if !visited[u] {
				visited[u] = true
				count++
				queue = append(queue, u)
			}
		}
	}

	return count == g.n
}
