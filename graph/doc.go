// Package graph provides the immutable attributed dual graph consumed by the
// partition-ensemble engine.
//
// What:
//
//   - Graph stores a fixed node set [0, n), an undirected edge set, and named
//     per-node integer attribute columns (population counts, vote counts).
//   - Adjacency is kept in CSR form (offset array plus flat neighbor and edge
//     index arrays), so neighbor enumeration in the sampling hot loop is
//     allocation-free and cache-friendly.
//   - Induced(nodes) extracts the subgraph over a node subset together with an
//     Origin mapping back to parent ids, which is how district merges are
//     handed to the spanning-tree machinery.
//
// Why:
//
//   - Geographic units (tracts, precincts) become nodes; shared borders become
//     edges. Every downstream component (partitions, tree cuts, recombination
//     proposals) only ever reads this structure, so it is built once and then
//     shared freely across parallel chains without locking.
//
// Node identity:
//
//   - Nodes are dense integers. Name-based ingestion keys must be resolved to
//     indices by the caller before construction; the engine never performs
//     string lookups.
//
// Complexity:
//
//   - New:       O(V + E) time and memory.
//   - Neighbors: O(deg(v)) per enumeration, zero allocations.
//   - Induced:   O(V' + E') for the subset sizes.
//   - Connected: O(V + E) BFS.
//
// Errors:
//
//   - ErrEdgeEndpoint: an edge references a node outside [0, n).
//   - ErrSelfLoop: an edge connects a node to itself.
//   - ErrDuplicateEdge: the same unordered pair appears twice.
//   - ErrAttrLength: an attribute column length differs from the node count.
//   - ErrAttrNotFound: a named attribute column does not exist.
//   - ErrEmptySubset: Induced was given no nodes.
//   - ErrNodeIndex: a subset node id is outside [0, n).
package graph
