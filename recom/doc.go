// Package recom implements the recombination Markov chain move: merge two
// adjacent districts and re-split them with a random spanning-tree cut.
//
// What:
//
//   - Propose takes the current partition and produces a candidate partition
//     that differs only inside one pair of previously adjacent districts.
//     The pair is chosen at random, their node sets are merged into an
//     induced subgraph, tree.BipartitionTree re-splits it into two balanced
//     contiguous halves, and the halves take over the original pair's
//     labels. Untouched districts are carried over verbatim through the
//     partition's incremental Flip.
//
// Pair selection policy:
//
//   - PairCutEdgeUniform (default): draw a cut edge uniformly and take its
//     endpoint districts. Pairs sharing longer boundaries are proposed more
//     often; this is the classic recombination weighting.
//   - PairDistrictUniform: draw uniformly over the distinct adjacent
//     district pairs, ignoring boundary length.
//
// The policy is configurable because the weighting materially changes the
// ensemble's stationary distribution; both schemes are deterministic given
// the RNG state.
//
// Failure:
//
//   - ErrProposalExhausted: the selected pair admitted no balanced re-split
//     within Options.NodeRepeats bipartition tries. Recoverable — the chain
//     driver redraws a fresh pair and tries again.
//   - ErrNoCutEdges: the partition has a single district or no boundary;
//     no move exists.
//
// Contiguity of both new halves is guaranteed by the spanning-tree cut, so
// candidates never need a contiguity re-check.
package recom
