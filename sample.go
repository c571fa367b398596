package statbench

import "fmt"

// Sample is the raw outcome of one benchmark run: parallel sequences of
// iteration counts and measured values, one entry per measurement
// window. The measured value is the total for the whole window; divide
// by the iteration count for the per-iteration cost.
//
// A Sample is immutable once collected and is persisted verbatim so
// that future runs can compare against it.
type Sample struct {
	Iterations []uint64  `json:"iterations"`
	Values     []float64 `json:"values"`
}

// Len returns the number of measurement windows in the sample.
func (s *Sample) Len() int { return len(s.Values) }

// PerIteration returns the average cost of a single iteration in each
// window. All univariate statistics (mean, median, MAD, std dev,
// outlier classification, comparison) operate on these values.
func (s *Sample) PerIteration() []float64 {
	times := make([]float64, len(s.Values))
	for i, v := range s.Values {
		times[i] = v / float64(s.Iterations[i])
	}
	return times
}

// validate checks the structural invariants: parallel slices of equal
// length, at least two windows, every window with at least one
// iteration.
func (s *Sample) validate() error {
	if len(s.Iterations) != len(s.Values) {
		return fmt.Errorf("sample has %d iteration counts but %d values", len(s.Iterations), len(s.Values))
	}
	if len(s.Values) < 2 {
		return fmt.Errorf("sample has %d windows, need at least 2", len(s.Values))
	}
	for i, it := range s.Iterations {
		if it == 0 {
			return fmt.Errorf("window %d has zero iterations", i)
		}
	}
	return nil
}
