// Package redistricting generates ensembles of graph partitions — districting
// plans — by recombination Markov chains over attributed adjacency graphs.
//
// A plan is a labeling of graph nodes into contiguous, population-balanced
// districts. The chain walks plan space one recombination at a time: merge
// two adjacent districts, draw a random spanning tree over the merge, cut a
// balanced edge, and accept the re-split. Statistics extracted along the walk
// form the ensembles used to judge any single plan against the space of
// alternatives.
//
// Everything is organized under focused subpackages:
//
//	graph/       — immutable attributed adjacency graph (CSR storage, induced subgraphs)
//	partition/   — district assignment with incremental tallies and cut edges
//	tree/        — random spanning trees, balanced cuts, recursive tree partitioning
//	recom/       — the recombination proposal
//	constraints/ — validity predicates over candidate plans
//	chain/       — the sequential accept/retry driver
//	ensemble/    — statistic extractors, series recording, regional combination
//	cmd/ensembles/ — runnable generator: YAML config in, JSON series out
//
// Determinism is a load-bearing property: every source of randomness is an
// explicitly seeded *rand.Rand, and identical (graph, seed, config) inputs
// reproduce identical ensembles bit for bit.
//
// Quick sketch, one chain over one region:
//
//	assignment, _ := tree.RecursiveTreePart(g, k, ideal, rng, tree.DefaultOptions())
//	initial, _ := partition.New(g, assignment, k)
//	c, _ := chain.New(initial, chain.Config{TotalSteps: 50000, Seed: 3, Proposal: opts})
//	rec, _ := ensemble.NewRecorder(ensemble.CutEdges())
//	_ = c.Run(ctx, rec.Observe)
package redistricting
