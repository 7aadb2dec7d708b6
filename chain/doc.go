// Package chain drives the recombination Markov chain: a fixed-length random
// walk over valid district plans.
//
// What:
//
//   - A Chain owns an initial partition, a per-chain RNG, recombination
//     options, and a list of validity constraints. Run yields the accepted
//     state sequence to a visitor callback: step 0 is the initial state,
//     every later step is the first proposed candidate that passed all
//     constraints. Valid candidates are always accepted — there is no
//     Metropolis-Hastings rejection beyond validity.
//
// Failure semantics:
//
//   - Recoverable proposal failures (an exhausted pair budget) cause a fresh
//     pair draw, up to Config.StepRetries per step. Exceeding the ceiling
//     surfaces ErrStalled wrapped with the step index and seed: a stalled
//     chain signals a configuration problem (tolerance too tight, graph too
//     fragmented), never something to retry forever.
//   - All configuration is validated eagerly by New, including that the
//     initial state itself satisfies every constraint, so no stochastic work
//     happens on a bad setup.
//
// Concurrency:
//
//   - A Chain is single-goroutine by design: each step depends on the prior
//     accepted state. Independent chains (different seeds or regions) share
//     nothing mutable — graphs are read-only — and run in parallel freely.
//   - Run checks ctx at every step boundary, the cooperative cancellation
//     hook for long walks.
//
// Determinism: identical (initial partition, seed, config) produce the
// identical accepted sequence, and therefore bit-identical ensembles.
package chain
