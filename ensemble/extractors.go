// Package ensemble: statistic extractors over partitions.
package ensemble

import (
	"errors"
	"fmt"

	"github.com/indianahuey/california-redistricting-analysis/partition"
)

// Sentinel errors for extraction and accumulation.
var (
	// ErrLengthMismatch indicates series of differing lengths passed to Combine.
	ErrLengthMismatch = errors.New("ensemble: series lengths differ")

	// ErrNoSeries indicates Combine was called with nothing to combine.
	ErrNoSeries = errors.New("ensemble: no series to combine")

	// ErrNoExtractors indicates a Recorder with nothing to record.
	ErrNoExtractors = errors.New("ensemble: no extractors")

	// ErrDuplicateName indicates two extractors sharing a series name.
	ErrDuplicateName = errors.New("ensemble: duplicate extractor name")

	// ErrUnknownSeries indicates a lookup of a series the recorder does not hold.
	ErrUnknownSeries = errors.New("ensemble: unknown series")

	// ErrNoVotes indicates an efficiency-gap evaluation over a plan with no
	// votes cast at all; the gap is undefined there.
	ErrNoVotes = errors.New("ensemble: no votes cast in plan")
)

// Extractor computes one scalar summary of a partition. Extractors must be
// pure: no state, no mutation, identical output for identical input.
type Extractor struct {
	// Name labels the resulting series.
	Name string

	// Extract computes the statistic from the partition's aggregates.
	Extract func(*partition.Partition) (float64, error)
}

// CutEdges counts edges whose endpoints lie in different districts.
// O(1): the partition maintains the set incrementally.
func CutEdges() Extractor {
	return Extractor{
		Name: "cut_edges",
		Extract: func(p *partition.Partition) (float64, error) {
			return float64(p.NumCutEdges()), nil
		},
	}
}

// MajorityCount counts districts where subAttr exceeds half of totalAttr,
// strictly: a district sitting at exactly 50% is not a majority district.
// Integer arithmetic keeps the boundary exact. O(K).
func MajorityCount(totalAttr, subAttr string) Extractor {
	return Extractor{
		Name: "majority_" + subAttr,
		Extract: func(p *partition.Partition) (float64, error) {
			count := 0
			for d := 0; d < p.K(); d++ {
				total, err := p.Tally(totalAttr, d)
				if err != nil {
					return 0, err
				}
				sub, err := p.Tally(subAttr, d)
				if err != nil {
					return 0, err
				}
				if 2*sub > total {
					count++
				}
			}

			return float64(count), nil
		},
	}
}

// SeatsWon counts districts where category A's tally strictly exceeds half
// of the cast total. Exact ties seat no one. O(K).
func SeatsWon(totalAttr, aAttr, bAttr string) Extractor {
	_ = bAttr // a seat is decided by A against the cast total alone
	return Extractor{
		Name: "seats_" + aAttr,
		Extract: func(p *partition.Partition) (float64, error) {
			seats := 0
			for d := 0; d < p.K(); d++ {
				total, err := p.Tally(totalAttr, d)
				if err != nil {
					return 0, err
				}
				a, err := p.Tally(aAttr, d)
				if err != nil {
					return 0, err
				}
				if 2*a > total {
					seats++
				}
			}

			return float64(seats), nil
		},
	}
}

// EfficiencyGap computes the two-category wasted-vote gap, signed so that a
// positive value favors category A.
//
// Per district: the winner is whichever category strictly exceeds half the
// cast total; the loser wastes all its votes, the winner wastes votes above
// the bare-majority threshold (total/2). Districts where neither category
// clears 50% — exact ties, or multi-way splits where a third category holds
// the balance — contribute no wasted votes. That edge rule is explicit
// policy, not an accident; see the package doc.
//
// gap = (wasted_B − wasted_A) / total votes cast across the plan.
// ErrNoVotes when the plan casts no votes at all. O(K).
func EfficiencyGap(totalAttr, aAttr, bAttr string) Extractor {
	return Extractor{
		Name: "efficiency_gap_" + aAttr,
		Extract: func(p *partition.Partition) (float64, error) {
			var wastedA, wastedB, planTotal float64
			for d := 0; d < p.K(); d++ {
				total, err := p.Tally(totalAttr, d)
				if err != nil {
					return 0, err
				}
				a, err := p.Tally(aAttr, d)
				if err != nil {
					return 0, err
				}
				b, err := p.Tally(bAttr, d)
				if err != nil {
					return 0, err
				}

				needed := float64(total) / 2
				switch {
				case 2*a > total:
					wastedA += float64(a) - needed
					wastedB += float64(b)
				case 2*b > total:
					wastedB += float64(b) - needed
					wastedA += float64(a)
				}
				planTotal += float64(total)
			}
			if planTotal == 0 {
				return 0, ErrNoVotes
			}

			return (wastedB - wastedA) / planTotal, nil
		},
	}
}

// Series is an append-only, step-ordered sequence of statistic values.
type Series []float64

// Combine sums series element-wise by step index: regional sub-chain
// ensembles over disjoint territory aggregate into one combined ensemble.
// All inputs must have identical length (identical step counts).
func Combine(series ...Series) (Series, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}
	n := len(series[0])
	for i, s := range series {
		if len(s) != n {
			return nil, fmt.Errorf("%w: series 0 has %d steps, series %d has %d",
				ErrLengthMismatch, n, i, len(s))
		}
	}

	combined := make(Series, n)
	for _, s := range series {
		for i, v := range s {
			combined[i] += v
		}
	}

	return combined, nil
}
