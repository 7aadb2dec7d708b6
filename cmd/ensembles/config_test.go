package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indianahuey/california-redistricting-analysis/recom"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

const validYAML = `
name: test-run
output_dir: out
pop_attr: total_pop
epsilon: 0.02
total_steps: 100
seeds: [0, 3, 4]
total_seats: 12
pair_policy: district
regions:
  - name: north
    graph_file: north.json
  - name: south
    graph_file: south.json
statistics:
  cut_edges: true
  majority_total: total_pop
  majority_subs: [black_pop]
`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "run.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-run", cfg.Name)
	assert.Equal(t, []int64{0, 3, 4}, cfg.Seeds)
	assert.Len(t, cfg.Regions, 2)

	policy, err := cfg.pairPolicy()
	require.NoError(t, err)
	assert.Equal(t, recom.PairDistrictUniform, policy)
}

func TestLoadConfig_Rejections(t *testing.T) {
	// Seats both apportioned and pinned.
	cfg := `
name: x
output_dir: out
pop_attr: total_pop
epsilon: 0.02
total_steps: 1
seeds: [0]
total_seats: 4
regions:
  - name: a
    graph_file: a.json
    districts: 2
statistics:
  cut_edges: true
`
	_, err := LoadConfig(writeFile(t, "mixed.yaml", cfg))
	assert.ErrorIs(t, err, ErrDistrictCounts)

	// No statistic selected.
	cfg = `
name: x
output_dir: out
pop_attr: total_pop
epsilon: 0.02
total_steps: 1
seeds: [0]
regions:
  - name: a
    graph_file: a.json
    districts: 2
statistics: {}
`
	_, err = LoadConfig(writeFile(t, "nostats.yaml", cfg))
	assert.ErrorIs(t, err, ErrNoStatistics)

	// Missing required field.
	cfg = `
output_dir: out
pop_attr: total_pop
epsilon: 0.02
total_steps: 1
seeds: [0]
regions:
  - name: a
    graph_file: a.json
    districts: 2
statistics: {cut_edges: true}
`
	_, err = LoadConfig(writeFile(t, "noname.yaml", cfg))
	assert.Error(t, err)

	// Unknown pair policy.
	cfg = `
name: x
output_dir: out
pop_attr: total_pop
epsilon: 0.02
total_steps: 1
seeds: [0]
pair_policy: roulette
regions:
  - name: a
    graph_file: a.json
    districts: 2
statistics: {cut_edges: true}
`
	_, err = LoadConfig(writeFile(t, "policy.yaml", cfg))
	assert.ErrorIs(t, err, ErrBadPairPolicy)
}

func TestLoadGraph(t *testing.T) {
	path := writeFile(t, "g.json", `{
		"nodes": [
			{"total_pop": 10, "black_pop": 4},
			{"total_pop": 20, "black_pop": 12},
			{"total_pop": 30, "black_pop": 1}
		],
		"edges": [[0, 1], [1, 2]]
	}`)

	g, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())

	total, err := g.AttrTotal("total_pop")
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)
	sub, err := g.AttrTotal("black_pop")
	require.NoError(t, err)
	assert.Equal(t, int64(17), sub)
}

func TestLoadGraph_Rejections(t *testing.T) {
	_, err := LoadGraph(writeFile(t, "empty.json", `{"nodes": [], "edges": []}`))
	assert.ErrorIs(t, err, ErrNoNodes)

	_, err = LoadGraph(writeFile(t, "ragged.json", `{
		"nodes": [{"total_pop": 1}, {"other": 2}],
		"edges": [[0, 1]]
	}`))
	assert.ErrorIs(t, err, ErrRaggedAttrs)

	_, err = LoadGraph(writeFile(t, "edge.json", `{
		"nodes": [{"total_pop": 1}, {"total_pop": 2}],
		"edges": [[0]]
	}`))
	assert.ErrorIs(t, err, ErrBadEdge)
}
