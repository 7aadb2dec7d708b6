package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/indianahuey/california-redistricting-analysis/chain"
	"github.com/indianahuey/california-redistricting-analysis/constraints"
	"github.com/indianahuey/california-redistricting-analysis/ensemble"
	"github.com/indianahuey/california-redistricting-analysis/graph"
	"github.com/indianahuey/california-redistricting-analysis/partition"
	"github.com/indianahuey/california-redistricting-analysis/recom"
	"github.com/indianahuey/california-redistricting-analysis/tree"
)

// ErrSeatConservation indicates rounded population shares did not add up to
// the configured seat total, so no fair apportionment exists at this rounding.
var ErrSeatConservation = errors.New("run: apportioned seats do not sum to total_seats")

// regionPlan is one region with its loaded graph and resolved district count.
type regionPlan struct {
	name      string
	g         *graph.Graph
	districts int
	pop       int64
}

// runner drives one full ensemble run: every region crossed with every seed,
// then per-seed regional combination.
type runner struct {
	cfg    *Config
	logger *zap.Logger
	runID  string
}

// result holds one finished chain's recorded series.
type result struct {
	region string
	seed   int64
	rec    *ensemble.Recorder
}

func (r *runner) run(ctx context.Context) error {
	regions, err := r.prepareRegions()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	// One goroutine per (region, seed): regions are independent territories
	// and seeds are independent replicate walks, so the whole grid fans out.
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	var results []result
	for _, region := range regions {
		for _, seed := range r.cfg.Seeds {
			region, seed := region, seed
			g.Go(func() error {
				rec, err := r.runChain(ctx, region, seed)
				if err != nil {
					return fmt.Errorf("region %s seed %d: %w", region.name, seed, err)
				}
				mu.Lock()
				results = append(results, result{region: region.name, seed: seed, rec: rec})
				mu.Unlock()

				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return r.writeOutputs(results)
}

// prepareRegions loads every graph and resolves district counts, apportioning
// total_seats by rounded population share when the counts are not pinned.
func (r *runner) prepareRegions() ([]regionPlan, error) {
	regions := make([]regionPlan, len(r.cfg.Regions))
	var totalPop int64
	for i, rc := range r.cfg.Regions {
		g, err := LoadGraph(rc.GraphFile)
		if err != nil {
			return nil, err
		}
		pop, err := g.AttrTotal(r.cfg.PopAttr)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", rc.Name, err)
		}
		regions[i] = regionPlan{name: rc.Name, g: g, districts: rc.Districts, pop: pop}
		totalPop += pop
	}

	if r.cfg.TotalSeats > 0 {
		assigned := 0
		for i := range regions {
			share := float64(r.cfg.TotalSeats) * float64(regions[i].pop) / float64(totalPop)
			regions[i].districts = int(math.Round(share))
			assigned += regions[i].districts
		}
		// Rounding must conserve the chamber size; anything else silently
		// shrinks or grows the map.
		if assigned != r.cfg.TotalSeats {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrSeatConservation, assigned, r.cfg.TotalSeats)
		}
		for _, region := range regions {
			r.logger.Info("apportioned seats",
				zap.String("region", region.name),
				zap.Int64("population", region.pop),
				zap.Int("districts", region.districts),
			)
		}
	}

	return regions, nil
}

// runChain seeds a plan, walks one chain over it, and records every selected
// statistic along the walk.
func (r *runner) runChain(ctx context.Context, region regionPlan, seed int64) (*ensemble.Recorder, error) {
	ideal := float64(region.pop) / float64(region.districts)

	treeOpts := tree.DefaultOptions()
	treeOpts.PopAttr = r.cfg.PopAttr
	treeOpts.Epsilon = r.cfg.Epsilon
	rng := rand.New(rand.NewSource(seed))
	assignment, err := tree.RecursiveTreePart(region.g, region.districts, ideal, rng, treeOpts)
	if err != nil {
		return nil, fmt.Errorf("initial plan: %w", err)
	}
	initial, err := partition.New(region.g, assignment, region.districts)
	if err != nil {
		return nil, err
	}

	within, err := constraints.WithinPercentOfIdeal(r.cfg.PopAttr, ideal, r.cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	policy, err := r.cfg.pairPolicy()
	if err != nil {
		return nil, err
	}
	proposal := recom.DefaultOptions()
	proposal.PopAttr = r.cfg.PopAttr
	proposal.Ideal = ideal
	proposal.Epsilon = r.cfg.Epsilon
	proposal.Policy = policy
	if r.cfg.NodeRepeats > 0 {
		proposal.NodeRepeats = r.cfg.NodeRepeats
	}

	rec, err := ensemble.NewRecorder(r.extractors()...)
	if err != nil {
		return nil, err
	}

	c, err := chain.New(initial, chain.Config{
		TotalSteps:  r.cfg.TotalSteps,
		Seed:        seed,
		StepRetries: r.cfg.StepRetries,
		Proposal:    proposal,
		Constraints: []chain.Constraint{chain.Constraint(within)},
		Logger: r.logger.With(
			zap.String("region", region.name),
			zap.Int64("seed", seed),
		),
		LogEvery: r.cfg.LogEvery,
	})
	if err != nil {
		return nil, err
	}

	if err := c.Run(ctx, rec.Observe); err != nil {
		return nil, err
	}
	r.logger.Info("chain finished",
		zap.String("region", region.name),
		zap.Int64("seed", seed),
		zap.Int("steps", rec.Len()),
	)

	return rec, nil
}

// extractors materializes the configured statistic selection.
func (r *runner) extractors() []ensemble.Extractor {
	var exs []ensemble.Extractor
	s := r.cfg.Statistics
	if s.CutEdges {
		exs = append(exs, ensemble.CutEdges())
	}
	for _, sub := range s.MajoritySubs {
		exs = append(exs, ensemble.MajorityCount(s.MajorityTotal, sub))
	}
	if s.VotesTotal != "" {
		exs = append(exs,
			ensemble.SeatsWon(s.VotesTotal, s.VotesA, s.VotesB),
			ensemble.EfficiencyGap(s.VotesTotal, s.VotesA, s.VotesB),
		)
	}

	return exs
}

// seriesFile is the JSON shape of one written ensemble.
type seriesFile struct {
	RunID     string          `json:"run_id"`
	Name      string          `json:"name"`
	Statistic string          `json:"statistic"`
	Scope     string          `json:"scope"`
	Seed      int64           `json:"seed"`
	Steps     int             `json:"steps"`
	Values    ensemble.Series `json:"values"`
}

// writeOutputs emits one JSON file per (statistic, region, seed), then sums
// the regions of each seed element-wise into a combined whole-territory file.
// Count statistics add naturally; element-wise sums of ratio statistics such
// as the efficiency gap are written as-is and left to downstream analysis.
func (r *runner) writeOutputs(results []result) error {
	for _, res := range results {
		for _, name := range res.rec.Names() {
			series, err := res.rec.Series(name)
			if err != nil {
				return err
			}
			if err := r.writeSeries(name, res.region, res.seed, series); err != nil {
				return err
			}
		}
	}

	if len(r.cfg.Regions) < 2 {
		return nil
	}
	for _, seed := range r.cfg.Seeds {
		byName := make(map[string][]ensemble.Series)
		var names []string
		for _, res := range results {
			if res.seed != seed {
				continue
			}
			for _, name := range res.rec.Names() {
				series, err := res.rec.Series(name)
				if err != nil {
					return err
				}
				if _, seen := byName[name]; !seen {
					names = append(names, name)
				}
				byName[name] = append(byName[name], series)
			}
		}
		for _, name := range names {
			combined, err := ensemble.Combine(byName[name]...)
			if err != nil {
				return fmt.Errorf("combine %s seed %d: %w", name, seed, err)
			}
			if err := r.writeSeries(name, "combined", seed, combined); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *runner) writeSeries(statistic, scope string, seed int64, values ensemble.Series) error {
	out := seriesFile{
		RunID:     r.runID,
		Name:      r.cfg.Name,
		Statistic: statistic,
		Scope:     scope,
		Seed:      seed,
		Steps:     len(values),
		Values:    values,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(r.cfg.OutputDir,
		fmt.Sprintf("%s_%s_seed%d_%s.json", statistic, scope, seed, r.runID))

	return os.WriteFile(path, raw, 0o644)
}
