package tree_test

import (
	"fmt"
	"math/rand"

	"github.com/indianahuey/california-redistricting-analysis/graph"
	"github.com/indianahuey/california-redistricting-analysis/tree"
)

// ExampleRecursiveTreePart splits a 4-cycle of equal-population nodes into two
// districts. With a tolerance of 0.5 around an ideal of 20, only exact 20/20
// splits are admissible, so the district populations are seed-independent.
func ExampleRecursiveTreePart() {
	g, err := graph.New(4,
		[]graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}, {U: 0, V: 3}},
		map[string][]int64{"total_pop": {10, 10, 10, 10}},
	)
	if err != nil {
		fmt.Println("build:", err)
		return
	}

	opts := tree.DefaultOptions()
	opts.Epsilon = 0.5

	assignment, err := tree.RecursiveTreePart(g, 2, 20, rand.New(rand.NewSource(42)), opts)
	if err != nil {
		fmt.Println("partition:", err)
		return
	}

	pops, err := g.Attr("total_pop")
	if err != nil {
		fmt.Println("attr:", err)
		return
	}
	totals := make([]int64, 2)
	for v, d := range assignment {
		totals[d] += pops[v]
	}
	fmt.Println("district populations:", totals)
	// Output:
	// district populations: [20 20]
}
