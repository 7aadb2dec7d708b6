// Package partition maintains district assignments over an attributed graph,
// together with the derived state the sampling engine reads on every step:
// per-district attribute tallies and the live cut-edge set.
//
// What:
//
//   - Partition binds an immutable graph.Graph to a node → district labeling
//     with labels in [0, K).
//   - Per-district sums of every attribute column are kept in dense arenas
//     indexed by label, and the set of edges crossing district boundaries is
//     kept sorted by edge index.
//   - Flip produces a NEW Partition from a node-reassignment map, updating
//     only the tallies of touched districts and only the cut edges incident
//     to moved nodes. A recorded Partition is never mutated in place.
//
// Why:
//
//   - A recombination chain applies tens of thousands of two-district moves;
//     recomputing K tallies and E cut checks from scratch each step would
//     dominate the run. Incremental updates keep a step proportional to the
//     two districts actually touched.
//
// Invariants:
//
//   - Every node carries exactly one label, every label in [0, K) is
//     non-empty, and each district's induced subgraph is connected (verified
//     at construction; Flip callers must preserve it — the recombination
//     proposal does so by construction, and Contiguous() re-verifies).
//   - Tallies always equal the sum of member-node attribute values; cut edges
//     always equal the set of edges whose endpoints carry different labels.
//
// Errors:
//
//   - ErrAssignmentLength: assignment length differs from the node count.
//   - ErrLabelRange: a label outside [0, K).
//   - ErrEmptyDistrict: some label in [0, K) has no members.
//   - ErrNotContiguous: a district's induced subgraph is disconnected.
package partition
