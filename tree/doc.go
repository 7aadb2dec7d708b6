// Package tree builds contiguous, population-balanced graph partitions by
// cutting random spanning trees.
//
// What:
//
//   - BipartitionTree splits a connected attributed graph into two contiguous
//     parts whose populations land strictly within a relative tolerance of
//     two caller-supplied targets, by drawing random spanning trees and
//     searching each one for a balanced cut edge.
//   - RecursiveTreePart produces a full K-district plan by recursive halving:
//     split into ⌈K/2⌉ and ⌊K/2⌋ shares, recurse on each side, and union the
//     sub-results over disjoint label ranges.
//
// How:
//
//   - A random spanning tree is drawn by scanning the edge set in a uniformly
//     shuffled order through an array-based union-find (path compression plus
//     union by rank) — equivalent to assigning i.i.d. random weights and
//     taking the minimum spanning tree, without the sort.
//   - The tree is rooted at local node 0; subtree populations are accumulated
//     in reverse BFS order; candidate edges are then scanned in ascending
//     child-node order, and the FIRST edge whose two sides both fit their
//     targets wins. Drawing and scanning are the only randomness consumers,
//     so identical (graph, RNG state) gives identical output.
//
// Tolerance policy:
//
//   - A side "fits" when |pop − target| lands strictly inside its tolerance
//     window. BipartitionTree uses the relative window ε·target per side;
//     the recursive partitioner pins every side to the single-district
//     window ε·ideal so the tolerance does not dilate at upper recursion
//     levels and leaf districts stay individually reachable.
//   - Strictness matters: with ε = 0.5 on a 4-node uniform cycle the even
//     20/20 cut is admitted but a 10/30 cut sitting exactly on the boundary
//     is not.
//
// Failure:
//
//   - Options.Attempts spanning-tree redraws are allowed per bipartition
//     call; exhaustion surfaces ErrNoBalancedCut, which is fatal to that
//     build attempt (callers may retry under a different seed).
//   - A disconnected input surfaces ErrDisconnected immediately; redrawing
//     trees cannot fix topology.
//
// Complexity per attempt: O(E) tree draw + O(V) accumulation and scan.
package tree
