package statbench

import (
	"errors"
	"fmt"
)

// Fatal conditions abort a single benchmark: they mean that benchmark
// cannot produce meaningful data. They never abort sibling benchmarks.
var (
	// ErrSampleSize marks a configured sample size below 2.
	ErrSampleSize = errors.New("sample size below 2")

	// ErrNeverIterated marks a benchmark function that returned
	// without driving the timing loop, or whose loop never advanced:
	// zero elapsed time across an entire warmup doubling sequence.
	ErrNeverIterated = errors.New("timing loop never iterated")

	// ErrBadMeasurement marks a Measurement that produced a NaN,
	// infinite or negative value. Negative elapsed values indicate a
	// non-monotonic clock; they are not clamped to zero because
	// clamping hides real instrumentation bugs.
	ErrBadMeasurement = errors.New("measurement produced a non-monotonic or non-finite value")

	// ErrBaselineNotFound is returned by BaselineStore.Load when no
	// record exists for the identity and name.
	ErrBaselineNotFound = errors.New("baseline not found")
)

// BenchmarkError ties an error to the benchmark identity it occurred
// in. Suite.Run collects these instead of aborting the run.
type BenchmarkError struct {
	ID  BenchmarkID
	Err error
}

// Error implements error.
func (e *BenchmarkError) Error() string {
	return fmt.Sprintf("benchmark %s: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *BenchmarkError) Unwrap() error { return e.Err }
