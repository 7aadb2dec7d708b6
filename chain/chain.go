// Package chain: configuration, construction, and the Run loop.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/indianahuey/california-redistricting-analysis/partition"
	"github.com/indianahuey/california-redistricting-analysis/recom"
)

// Sentinel errors for chain configuration and execution.
var (
	// ErrStalled indicates no valid candidate was found within the per-step
	// retry ceiling. Fatal: surfaced with step index and seed for diagnosis.
	ErrStalled = errors.New("chain: stalled, no valid candidate within retry ceiling")

	// ErrBadSteps indicates a non-positive total step count.
	ErrBadSteps = errors.New("chain: total steps must be positive")

	// ErrBadRetries indicates a non-positive step retry ceiling.
	ErrBadRetries = errors.New("chain: step retries must be positive")

	// ErrNilInitial indicates a nil initial partition.
	ErrNilInitial = errors.New("chain: nil initial partition")

	// ErrInitialInvalid indicates the starting partition violates a constraint.
	ErrInitialInvalid = errors.New("chain: initial partition violates constraints")
)

// DefaultStepRetries bounds how many fresh pair draws a single step may
// consume before the chain is declared stalled.
const DefaultStepRetries = 10000

// Visitor receives each accepted state in step order. Returning an error
// aborts the run. The partition is an immutable snapshot; visitors may
// retain it.
type Visitor func(step int, p *partition.Partition) error

// Constraint mirrors constraints.Constraint without importing it, keeping
// the driver decoupled from any one rule set.
type Constraint func(*partition.Partition) error

// Config assembles a chain.
//
// Fields:
//
//	TotalSteps  int        — accepted states to yield, INCLUDING step 0 (the initial state).
//	Seed        int64      — seeds the chain-owned RNG; identical seeds replay identical walks.
//	StepRetries int        — fresh pair draws allowed per step before ErrStalled; 0 means DefaultStepRetries.
//	Proposal    recom.Options — recombination tuning (ideal, tolerance, pair policy, budgets).
//	Constraints []Constraint  — validity gates applied to every candidate.
//	Logger      *zap.Logger   — optional; nil disables progress logging.
//	LogEvery    int        — steps between progress log lines; 0 disables.
type Config struct {
	TotalSteps  int
	Seed        int64
	StepRetries int
	Proposal    recom.Options
	Constraints []Constraint
	Logger      *zap.Logger
	LogEvery    int
}

// Chain is a single sequential recombination walk.
type Chain struct {
	cfg     Config
	state   *partition.Partition
	rng     *rand.Rand
	retries int
	logger  *zap.Logger
}

// New validates cfg eagerly and builds a Chain positioned at the initial
// partition.
//
// Steps:
//  1. Structural checks: initial non-nil, TotalSteps ≥ 1, proposal options
//     valid, retry ceiling sane.
//  2. The initial state must itself satisfy every constraint; a walk seeded
//     from an illegal state would corrupt every downstream statistic.
//
// No randomness is consumed here. Complexity: O(K) per constraint.
func New(initial *partition.Partition, cfg Config) (*Chain, error) {
	if initial == nil {
		return nil, ErrNilInitial
	}
	if cfg.TotalSteps < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadSteps, cfg.TotalSteps)
	}
	if err := cfg.Proposal.Validate(); err != nil {
		return nil, err
	}
	retries := cfg.StepRetries
	if retries == 0 {
		retries = DefaultStepRetries
	}
	if retries < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadRetries, cfg.StepRetries)
	}
	for _, c := range cfg.Constraints {
		if err := c(initial); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInitialInvalid, err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Chain{
		cfg:     cfg,
		state:   initial,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		retries: retries,
		logger:  logger,
	}, nil
}

// Run walks the chain for cfg.TotalSteps accepted states, invoking visit for
// each in order (step 0 is the initial state).
//
// Per step: propose, validate, accept-or-redraw. Recoverable proposal
// outcomes (recom.ErrProposalExhausted, a constraint rejection) consume one
// retry; anything else aborts immediately. Exceeding the retry ceiling
// yields ErrStalled, wrapped with the step index and seed.
//
// ctx is checked at every step boundary; cancellation returns ctx.Err().
func (c *Chain) Run(ctx context.Context, visit Visitor) error {
	if err := visit(0, c.state); err != nil {
		return err
	}

	for step := 1; step < c.cfg.TotalSteps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		accepted, err := c.step(step)
		if err != nil {
			return err
		}
		c.state = accepted

		if err := visit(step, accepted); err != nil {
			return err
		}
		if c.cfg.LogEvery > 0 && step%c.cfg.LogEvery == 0 {
			c.logger.Info("chain progress",
				zap.Int("step", step),
				zap.Int("total_steps", c.cfg.TotalSteps),
				zap.Int("cut_edges", accepted.NumCutEdges()),
			)
		}
	}

	return nil
}

// step draws candidates until one passes every constraint, bounded by the
// retry ceiling.
func (c *Chain) step(step int) (*partition.Partition, error) {
	for try := 0; try < c.retries; try++ {
		cand, err := recom.Propose(c.state, c.rng, c.cfg.Proposal)
		if err != nil {
			if errors.Is(err, recom.ErrProposalExhausted) {
				// Recoverable: redraw a fresh pair.
				continue
			}

			return nil, err
		}

		if c.valid(cand) {
			return cand, nil
		}
	}

	return nil, fmt.Errorf("%w: step %d, seed %d, %d retries",
		ErrStalled, step, c.cfg.Seed, c.retries)
}

// valid applies all constraints; rejection details are deliberately dropped
// because rejected candidates are routine, not diagnostic.
func (c *Chain) valid(p *partition.Partition) bool {
	for _, constraint := range c.cfg.Constraints {
		if constraint(p) != nil {
			return false
		}
	}

	return true
}

// State returns the most recently accepted partition.
func (c *Chain) State() *partition.Partition { return c.state }

// Seed returns the chain's RNG seed, for diagnostics and reproduction.
func (c *Chain) Seed() int64 { return c.cfg.Seed }
