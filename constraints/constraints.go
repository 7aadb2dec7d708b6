// Package constraints defines validity checks over partitions that gate
// which candidate states a Markov chain may accept.
//
// A Constraint is a pure function: nil means the partition is a legal chain
// state, a non-nil error names the violated rule. Constraints never mutate
// the partition and run in O(K).
package constraints

import (
	"errors"
	"fmt"
	"math"

	"github.com/indianahuey/california-redistricting-analysis/partition"
)

// ErrPopulationBounds indicates a district whose population tally falls
// outside the configured tolerance band around the ideal.
var ErrPopulationBounds = errors.New("constraints: district population out of bounds")

// ErrBadIdeal indicates a non-positive ideal population.
var ErrBadIdeal = errors.New("constraints: ideal population must be positive")

// ErrBadEpsilon indicates a non-positive tolerance.
var ErrBadEpsilon = errors.New("constraints: tolerance must be positive")

// Constraint reports whether a partition is a legal chain state.
type Constraint func(*partition.Partition) error

// WithinPercentOfIdeal returns a Constraint requiring every district's
// popAttr tally to lie within ±epsilon (relative, inclusive) of ideal.
//
// The band is inclusive: a tally sitting exactly on the boundary is legal.
// This intentionally differs from the strict window the tree cutter uses to
// CHOOSE splits — the constraint validates states, the cutter searches for
// them, and a strict search inside an inclusive band can never produce an
// illegal state.
//
// Complexity: O(K) per evaluation.
func WithinPercentOfIdeal(popAttr string, ideal, epsilon float64) (Constraint, error) {
	if ideal <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadIdeal, ideal)
	}
	if epsilon <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadEpsilon, epsilon)
	}

	bound := epsilon * ideal

	return func(p *partition.Partition) error {
		for d := 0; d < p.K(); d++ {
			pop, err := p.Tally(popAttr, d)
			if err != nil {
				return err
			}
			if math.Abs(float64(pop)-ideal) > bound {
				return fmt.Errorf("%w: district %d has %d against ideal %g ±%g",
					ErrPopulationBounds, d, pop, ideal, bound)
			}
		}

		return nil
	}, nil
}

// Contiguous returns a Constraint requiring every district's induced
// subgraph to be connected. The recombination proposal preserves contiguity
// by construction, so chains normally omit this; it exists for externally
// supplied flips and for verification runs. O(V + E) per evaluation.
func Contiguous() Constraint {
	return func(p *partition.Partition) error {
		if !p.Contiguous() {
			return partition.ErrNotContiguous
		}

		return nil
	}
}
