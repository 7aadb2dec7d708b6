package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/indianahuey/california-redistricting-analysis/recom"
)

// Sentinel errors for run configuration.
var (
	// ErrDistrictCounts indicates the config neither sets total_seats nor a
	// districts count on every region.
	ErrDistrictCounts = errors.New("config: set total_seats or a districts count per region, not a mix")

	// ErrBadPairPolicy indicates an unknown pair_policy string.
	ErrBadPairPolicy = errors.New("config: pair_policy must be cut_edge or district")

	// ErrNoStatistics indicates a run that would record nothing.
	ErrNoStatistics = errors.New("config: no statistics selected")
)

// Region names one territory sampled by its own chain.
type Region struct {
	Name      string `yaml:"name" validate:"required"`
	GraphFile string `yaml:"graph_file" validate:"required"`
	// Districts pins the region's district count. Leave zero on every region
	// to apportion total_seats by population share instead.
	Districts int `yaml:"districts" validate:"min=0"`
}

// Statistics selects which ensembles the run records.
type Statistics struct {
	CutEdges bool `yaml:"cut_edges"`

	// MajorityTotal/MajoritySubs record, per subgroup column, the number of
	// districts where the subgroup is a strict majority of the total column.
	MajorityTotal string   `yaml:"majority_total"`
	MajoritySubs  []string `yaml:"majority_subs"`

	// VotesTotal/VotesA/VotesB enable the two-category election statistics:
	// seats won by A and the efficiency gap signed toward A.
	VotesTotal string `yaml:"votes_total"`
	VotesA     string `yaml:"votes_a"`
	VotesB     string `yaml:"votes_b"`
}

// Config is the YAML run description.
type Config struct {
	Name      string `yaml:"name" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`

	PopAttr     string  `yaml:"pop_attr" validate:"required"`
	Epsilon     float64 `yaml:"epsilon" validate:"gt=0"`
	TotalSteps  int     `yaml:"total_steps" validate:"min=1"`
	StepRetries int     `yaml:"step_retries" validate:"min=0"`
	NodeRepeats int     `yaml:"node_repeats" validate:"min=0"`
	PairPolicy  string  `yaml:"pair_policy"`
	LogEvery    int     `yaml:"log_every" validate:"min=0"`

	Seeds []int64 `yaml:"seeds" validate:"min=1"`

	// TotalSeats, when positive, is apportioned across regions by rounded
	// population share; otherwise every region must carry its own count.
	TotalSeats int `yaml:"total_seats" validate:"min=0"`

	Regions    []Region   `yaml:"regions" validate:"min=1,dive"`
	Statistics Statistics `yaml:"statistics"`
}

// LoadConfig reads, decodes, and validates a YAML run config.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	pinned := 0
	for _, r := range cfg.Regions {
		if r.Districts > 0 {
			pinned++
		}
	}
	switch {
	case cfg.TotalSeats > 0 && pinned > 0:
		return nil, ErrDistrictCounts
	case cfg.TotalSeats == 0 && pinned != len(cfg.Regions):
		return nil, ErrDistrictCounts
	}

	if _, err := cfg.pairPolicy(); err != nil {
		return nil, err
	}
	if !cfg.Statistics.CutEdges &&
		len(cfg.Statistics.MajoritySubs) == 0 &&
		cfg.Statistics.VotesTotal == "" {
		return nil, ErrNoStatistics
	}

	return &cfg, nil
}

// pairPolicy maps the YAML string onto the proposal policy; empty means the
// default cut-edge-uniform draw.
func (c *Config) pairPolicy() (recom.PairPolicy, error) {
	switch c.PairPolicy {
	case "", "cut_edge":
		return recom.PairCutEdgeUniform, nil
	case "district":
		return recom.PairDistrictUniform, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadPairPolicy, c.PairPolicy)
	}
}
