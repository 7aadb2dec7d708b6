package ensemble

import (
	"fmt"

	"github.com/indianahuey/california-redistricting-analysis/partition"
)

// Recorder appends one value per extractor per observed chain state,
// producing step-ordered series. It plugs into the chain driver directly:
// chain.Run(ctx, recorder.Observe).
//
// A Recorder belongs to one chain; it is not goroutine-safe.
type Recorder struct {
	extractors []Extractor
	series     []Series
	index      map[string]int
}

// NewRecorder builds a Recorder over the given extractors. Names must be
// unique and non-empty since they key the output series.
func NewRecorder(extractors ...Extractor) (*Recorder, error) {
	if len(extractors) == 0 {
		return nil, ErrNoExtractors
	}
	index := make(map[string]int, len(extractors))
	for i, ex := range extractors {
		if ex.Name == "" || ex.Extract == nil {
			return nil, fmt.Errorf("%w: extractor %d", ErrNoExtractors, i)
		}
		if _, dup := index[ex.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, ex.Name)
		}
		index[ex.Name] = i
	}

	return &Recorder{
		extractors: extractors,
		series:     make([]Series, len(extractors)),
		index:      index,
	}, nil
}

// Observe extracts every statistic from p and appends the results in step
// order. The step argument exists to satisfy the chain visitor signature;
// series order is defined by call order.
func (r *Recorder) Observe(step int, p *partition.Partition) error {
	_ = step
	for i, ex := range r.extractors {
		v, err := ex.Extract(p)
		if err != nil {
			return fmt.Errorf("ensemble: extractor %q at step %d: %w", ex.Name, step, err)
		}
		r.series[i] = append(r.series[i], v)
	}

	return nil
}

// Series returns the accumulated sequence for the named extractor.
func (r *Recorder) Series(name string) (Series, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
	}

	return r.series[i], nil
}

// Names returns the extractor names in registration order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.extractors))
	for i, ex := range r.extractors {
		names[i] = ex.Name
	}

	return names
}

// Len returns the number of observed states.
func (r *Recorder) Len() int {
	if len(r.series) == 0 {
		return 0
	}

	return len(r.series[0])
}
