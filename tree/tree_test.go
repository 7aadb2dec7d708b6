package tree_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indianahuey/california-redistricting-analysis/graph"
	"github.com/indianahuey/california-redistricting-analysis/tree"
)

// buildCycle4 builds nodes 0-3 in a cycle, population 10 each.
func buildCycle4(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		4,
		[]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}, {U: 3, V: 0}},
		map[string][]int64{"total_pop": {10, 10, 10, 10}},
	)
	require.NoError(t, err)

	return g
}

// buildGrid constructs a w×h grid with the given per-node population.
func buildGrid(t testing.TB, w, h int, pop int64) *graph.Graph {
	t.Helper()
	var edges []graph.Edge
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := y*w + x
			if x+1 < w {
				edges = append(edges, graph.Edge{U: v, V: v + 1})
			}
			if y+1 < h {
				edges = append(edges, graph.Edge{U: v, V: v + w})
			}
		}
	}
	pops := make([]int64, w*h)
	for i := range pops {
		pops[i] = pop
	}
	g, err := graph.New(w*h, edges, map[string][]int64{"total_pop": pops})
	require.NoError(t, err)

	return g
}

// districtPops sums the population column per label.
func districtPops(t *testing.T, g *graph.Graph, assignment []int, k int) []int64 {
	t.Helper()
	col, err := g.Attr("total_pop")
	require.NoError(t, err)
	sums := make([]int64, k)
	for v, d := range assignment {
		sums[d] += col[v]
	}

	return sums
}

func TestRecursiveTreePart_Cycle4(t *testing.T) {
	g := buildCycle4(t)
	opts := tree.DefaultOptions()
	opts.Epsilon = 0.5

	// Even with a huge tolerance, strict fitting admits only the 20/20 cut:
	// a 10/30 split sits exactly on the boundary and is rejected.
	assignment, err := tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(1)), opts)
	require.NoError(t, err)

	pops := districtPops(t, g, assignment, 2)
	assert.Equal(t, []int64{20, 20}, pops)

	// Both districts are two contiguous nodes.
	sizes := make([]int, 2)
	for _, d := range assignment {
		sizes[d]++
	}
	assert.Equal(t, []int{2, 2}, sizes)
}

func TestRecursiveTreePart_GridBalanced(t *testing.T) {
	g := buildGrid(t, 6, 6, 100)
	opts := tree.DefaultOptions()
	opts.Epsilon = 0.15
	k := 4
	ideal := float64(36*100) / float64(k) // 900

	assignment, err := tree.RecursiveTreePart(g, k, ideal, rand.New(rand.NewSource(7)), opts)
	require.NoError(t, err)

	for d, pop := range districtPops(t, g, assignment, k) {
		assert.InDelta(t, ideal, float64(pop), opts.Epsilon*ideal, "district %d", d)
	}
}

func TestRecursiveTreePart_Deterministic(t *testing.T) {
	g := buildGrid(t, 5, 5, 10)
	opts := tree.DefaultOptions()
	opts.Epsilon = 0.2

	first, err := tree.RecursiveTreePart(g, 3, 250.0/3.0, rand.New(rand.NewSource(42)), opts)
	require.NoError(t, err)
	second, err := tree.RecursiveTreePart(g, 3, 250.0/3.0, rand.New(rand.NewSource(42)), opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// A different seed is allowed to differ (and on 5×5 with k=3 it does in
	// practice); only equality under identical seeds is guaranteed.
	_, err = tree.RecursiveTreePart(g, 3, 250.0/3.0, rand.New(rand.NewSource(43)), opts)
	require.NoError(t, err)
}

func TestRecursiveTreePart_Validation(t *testing.T) {
	g := buildCycle4(t)
	opts := tree.DefaultOptions()

	_, err := tree.RecursiveTreePart(g, 2, 20, nil, opts)
	assert.ErrorIs(t, err, tree.ErrNilRNG)

	_, err = tree.RecursiveTreePart(g, 0, 20, rand.New(rand.NewSource(1)), opts)
	assert.ErrorIs(t, err, tree.ErrInvalidK)

	_, err = tree.RecursiveTreePart(g, 5, 20, rand.New(rand.NewSource(1)), opts)
	assert.ErrorIs(t, err, tree.ErrInvalidK)

	_, err = tree.RecursiveTreePart(g, 2, 0, rand.New(rand.NewSource(1)), opts)
	assert.ErrorIs(t, err, tree.ErrBadTarget)

	bad := opts
	bad.Epsilon = 0
	_, err = tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(1)), bad)
	assert.ErrorIs(t, err, tree.ErrBadEpsilon)

	bad = opts
	bad.Attempts = 0
	_, err = tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(1)), bad)
	assert.ErrorIs(t, err, tree.ErrBadAttempts)

	bad = opts
	bad.PopAttr = ""
	_, err = tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(1)), bad)
	assert.ErrorIs(t, err, tree.ErrEmptyPopAttr)

	bad = opts
	bad.PopAttr = "missing"
	_, err = tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(1)), bad)
	assert.ErrorIs(t, err, graph.ErrAttrNotFound)
}

func TestRecursiveTreePart_Disconnected(t *testing.T) {
	g, err := graph.New(
		4,
		[]graph.Edge{{U: 0, V: 1}, {U: 2, V: 3}},
		map[string][]int64{"total_pop": {10, 10, 10, 10}},
	)
	require.NoError(t, err)

	_, err = tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(1)), tree.DefaultOptions())
	assert.ErrorIs(t, err, tree.ErrDisconnected)
}

func TestBipartitionTree_NoBalancedCut(t *testing.T) {
	// A path 0-1-2 with one heavy endpoint: no cut reaches a 15/15 split
	// within 1%, regardless of the spanning tree (there is only one).
	g, err := graph.New(
		3,
		[]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}},
		map[string][]int64{"total_pop": {25, 4, 1}},
	)
	require.NoError(t, err)

	opts := tree.DefaultOptions()
	opts.Epsilon = 0.01
	opts.Attempts = 50

	_, err = tree.BipartitionTree(g, 15, 15, rand.New(rand.NewSource(1)), opts)
	assert.ErrorIs(t, err, tree.ErrNoBalancedCut)
}

func TestBipartitionTree_FitsBothOrientations(t *testing.T) {
	// Path 0-1-2-3 with pops 30,10,10,30: targets 40/40 are met by the middle
	// edge only; the subtree side may be either orientation depending on the
	// drawn root order, and both must map back to a valid split.
	g, err := graph.New(
		4,
		[]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}},
		map[string][]int64{"total_pop": {30, 10, 10, 30}},
	)
	require.NoError(t, err)

	opts := tree.DefaultOptions()
	opts.Epsilon = 0.05

	inA, err := tree.BipartitionTree(g, 40, 40, rand.New(rand.NewSource(3)), opts)
	require.NoError(t, err)

	var popA int64
	col, err := g.Attr("total_pop")
	require.NoError(t, err)
	for v, isA := range inA {
		if isA {
			popA += col[v]
		}
	}
	assert.Equal(t, int64(40), popA)
}

func BenchmarkRecursiveTreePart(b *testing.B) {
	g := buildGrid(b, 20, 20, 100)
	opts := tree.DefaultOptions()
	opts.Epsilon = 0.1
	ideal := float64(400*100) / 8

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.RecursiveTreePart(g, 8, ideal, rand.New(rand.NewSource(int64(i))), opts); err != nil {
			b.Fatal(err)
		}
	}
}
