// Package tree configuration options and sentinel errors.
package tree

import "errors"

// Sentinel errors for balanced tree partitioning.
var (
	// ErrNoBalancedCut indicates no spanning tree admitted a balanced cut
	// within the attempt budget. Fatal to this build attempt.
	ErrNoBalancedCut = errors.New("tree: no balanced cut within attempt budget")

	// ErrDisconnected indicates the (sub)graph has no spanning tree at all.
	ErrDisconnected = errors.New("tree: graph is disconnected")

	// ErrInvalidK indicates a part count outside [1, number of nodes].
	ErrInvalidK = errors.New("tree: invalid number of parts")

	// ErrBadTarget indicates a non-positive population target.
	ErrBadTarget = errors.New("tree: population target must be positive")

	// ErrBadEpsilon indicates a non-positive relative tolerance.
	ErrBadEpsilon = errors.New("tree: tolerance must be positive")

	// ErrBadAttempts indicates a non-positive spanning-tree retry budget.
	ErrBadAttempts = errors.New("tree: attempts must be positive")

	// ErrEmptyPopAttr indicates no population attribute name was configured.
	ErrEmptyPopAttr = errors.New("tree: population attribute name is empty")

	// ErrNilRNG indicates a nil random source. Every stochastic call owns an
	// explicit *rand.Rand; there is no global fallback.
	ErrNilRNG = errors.New("tree: nil random source")
)

// DefaultEpsilon is the relative population tolerance used when none is set:
// every part must land strictly within ±2% of its target.
const DefaultEpsilon = 0.02

// DefaultAttempts is the spanning-tree redraw budget per bipartition call.
const DefaultAttempts = 10000

// DefaultPopAttr is the attribute column treated as the primary population.
const DefaultPopAttr = "total_pop"

// Options tunes the balanced-cut search.
//
// Fields:
//
//	PopAttr  string  — attribute column summed as population.
//	Epsilon  float64 — relative tolerance; a side fits when |pop−target| < Epsilon·target.
//	Attempts int     — spanning-tree redraws per bipartition before ErrNoBalancedCut.
type Options struct {
	PopAttr  string
	Epsilon  float64
	Attempts int
}

// DefaultOptions returns Options with the package defaults:
// PopAttr="total_pop", Epsilon=0.02, Attempts=10000.
// Complexity: O(1).
func DefaultOptions() Options {
	return Options{
		PopAttr:  DefaultPopAttr,
		Epsilon:  DefaultEpsilon,
		Attempts: DefaultAttempts,
	}
}

// Validate rejects unusable options eagerly, before any stochastic work.
func (o Options) Validate() error {
	if o.PopAttr == "" {
		return ErrEmptyPopAttr
	}
	if o.Epsilon <= 0 {
		return ErrBadEpsilon
	}
	if o.Attempts <= 0 {
		return ErrBadAttempts
	}

	return nil
}
