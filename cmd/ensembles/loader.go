package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/indianahuey/california-redistricting-analysis/graph"
)

// Sentinel errors for graph files.
var (
	// ErrNoNodes indicates a graph file with an empty node list.
	ErrNoNodes = errors.New("loader: graph file has no nodes")

	// ErrRaggedAttrs indicates a node missing an attribute that other nodes carry.
	ErrRaggedAttrs = errors.New("loader: node missing attribute")

	// ErrBadEdge indicates an edge entry that is not a [u, v] pair.
	ErrBadEdge = errors.New("loader: edge must be a [u, v] pair")
)

// graphFile is the on-disk form of an attributed adjacency graph: one
// attribute map per node, edges as index pairs.
type graphFile struct {
	Nodes []map[string]int64 `json:"nodes"`
	Edges [][]int            `json:"edges"`
}

// LoadGraph reads a JSON graph file and builds the immutable in-memory graph.
// Every node must carry the same attribute set; the first node defines it.
func LoadGraph(path string) (*graph.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	var gf graphFile
	if err := json.Unmarshal(raw, &gf); err != nil {
		return nil, fmt.Errorf("decode graph %s: %w", path, err)
	}
	if len(gf.Nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoNodes, path)
	}

	attrs := make(map[string][]int64, len(gf.Nodes[0]))
	for name := range gf.Nodes[0] {
		attrs[name] = make([]int64, len(gf.Nodes))
	}
	for v, node := range gf.Nodes {
		for name, column := range attrs {
			val, ok := node[name]
			if !ok {
				return nil, fmt.Errorf("%w: node %d, attribute %q", ErrRaggedAttrs, v, name)
			}
			column[v] = val
		}
		if len(node) != len(attrs) {
			return nil, fmt.Errorf("%w: node %d carries extra attributes", ErrRaggedAttrs, v)
		}
	}

	edges := make([]graph.Edge, len(gf.Edges))
	for i, e := range gf.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("%w: entry %d", ErrBadEdge, i)
		}
		edges[i] = graph.Edge{U: e[0], V: e[1]}
	}

	return graph.New(len(gf.Nodes), edges, attrs)
}
