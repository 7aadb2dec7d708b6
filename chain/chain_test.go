package chain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indianahuey/california-redistricting-analysis/chain"
	"github.com/indianahuey/california-redistricting-analysis/constraints"
	"github.com/indianahuey/california-redistricting-analysis/graph"
	"github.com/indianahuey/california-redistricting-analysis/partition"
	"github.com/indianahuey/california-redistricting-analysis/recom"
	"github.com/indianahuey/california-redistricting-analysis/tree"
)

// buildGrid constructs a w×h grid with uniform population.
func buildGrid(t *testing.T, w, h int, pop int64) *graph.Graph {
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

// startingState builds a valid two-district plan on a 4×4 grid: ideal 80,
// vertical halves.
func startingState(t *testing.T) (*partition.Partition, recom.Options, chain.Constraint) {
	t.Helper()
	g := buildGrid(t, 4, 4, 10)
	assignment := make([]int, 16)
	for v := range assignment {
		if v%4 >= 2 {
			assignment[v] = 1
		}
	}
	p, err := partition.New(g, assignment, 2)
	require.NoError(t, err)

	opts := recom.DefaultOptions()
	opts.Ideal = 80
	opts.Epsilon = 0.3

	within, err := constraints.WithinPercentOfIdeal("total_pop", 80, 0.3)
	require.NoError(t, err)

	return p, opts, chain.Constraint(within)
}

func TestRun_YieldsValidStates(t *testing.T) {
	initial, opts, within := startingState(t)

	c, err := chain.New(initial, chain.Config{
		TotalSteps:  12,
		Seed:        3,
		Proposal:    opts,
		Constraints: []chain.Constraint{within},
	})
	require.NoError(t, err)

	steps := 0
	err = c.Run(context.Background(), func(step int, p *partition.Partition) error {
		assert.Equal(t, steps, step)
		steps++

		// Every accepted state honors population bounds and contiguity.
		assert.NoError(t, within(p))
		assert.True(t, p.Contiguous())

		// Aggregates never drift from a from-scratch rebuild.
		rebuilt, err := partition.New(p.Graph(), p.Assignment(), p.K())
		require.NoError(t, err)
		for d := 0; d < p.K(); d++ {
			want, err := rebuilt.Tally("total_pop", d)
			require.NoError(t, err)
			got, err := p.Tally("total_pop", d)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 12, steps)
	assert.Equal(t, int64(3), c.Seed())
}

func TestRun_Deterministic(t *testing.T) {
	run := func() []float64 {
		initial, opts, within := startingState(t)
		c, err := chain.New(initial, chain.Config{
			TotalSteps:  10,
			Seed:        11,
			Proposal:    opts,
			Constraints: []chain.Constraint{within},
		})
		require.NoError(t, err)

		var cuts []float64
		err = c.Run(context.Background(), func(_ int, p *partition.Partition) error {
			cuts = append(cuts, float64(p.NumCutEdges()))

			return nil
		})
		require.NoError(t, err)

		return cuts
	}

	assert.Equal(t, run(), run())
}

func TestRun_Cancellation(t *testing.T) {
	initial, opts, within := startingState(t)
	c, err := chain.New(initial, chain.Config{
		TotalSteps:  1000,
		Seed:        1,
		Proposal:    opts,
		Constraints: []chain.Constraint{within},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	visited := 0
	err = c.Run(ctx, func(step int, _ *partition.Partition) error {
		visited++
		if step == 3 {
			cancel()
		}

		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, visited)
}

func TestRun_Stalled(t *testing.T) {
	// Path with prefix sums 12, 21, 33: no tree cut lands within a hair of
	// the 20/20 target, so every proposal exhausts and the chain stalls.
	g, err := graph.New(4,
		[]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}},
		map[string][]int64{"total_pop": {12, 9, 12, 7}})
	require.NoError(t, err)
	initial, err := partition.New(g, []int{0, 0, 1, 1}, 2)
	require.NoError(t, err)

	opts := recom.DefaultOptions()
	opts.Ideal = 20
	opts.Epsilon = 0.001
	opts.Attempts = 3

	c, err := chain.New(initial, chain.Config{
		TotalSteps:  5,
		Seed:        2,
		StepRetries: 8,
		Proposal:    opts,
	})
	require.NoError(t, err)

	err = c.Run(context.Background(), func(int, *partition.Partition) error { return nil })
	assert.ErrorIs(t, err, chain.ErrStalled)
	assert.ErrorContains(t, err, "step 1")
	assert.ErrorContains(t, err, "seed 2")
}

func TestNew_Validation(t *testing.T) {
	initial, opts, _ := startingState(t)

	_, err := chain.New(nil, chain.Config{TotalSteps: 1, Proposal: opts})
	assert.ErrorIs(t, err, chain.ErrNilInitial)

	_, err = chain.New(initial, chain.Config{TotalSteps: 0, Proposal: opts})
	assert.ErrorIs(t, err, chain.ErrBadSteps)

	bad := opts
	bad.Epsilon = 0
	_, err = chain.New(initial, chain.Config{TotalSteps: 1, Proposal: bad})
	assert.ErrorIs(t, err, tree.ErrBadEpsilon)

	_, err = chain.New(initial, chain.Config{TotalSteps: 1, StepRetries: -1, Proposal: opts})
	assert.ErrorIs(t, err, chain.ErrBadRetries)

	// An initial state violating a constraint is rejected eagerly.
	tight, err := constraints.WithinPercentOfIdeal("total_pop", 200, 0.01)
	require.NoError(t, err)
	_, err = chain.New(initial, chain.Config{
		TotalSteps:  1,
		Proposal:    opts,
		Constraints: []chain.Constraint{chain.Constraint(tight)},
	})
	assert.ErrorIs(t, err, chain.ErrInitialInvalid)
}
