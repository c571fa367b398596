package statbench

import (
	"encoding/json"
	"fmt"
	"io"
)

// The machine-readable event stream: one JSON object per line,
// consumed by external report generators. Two event kinds exist, one
// per completed benchmark and one per completed group; the "reason"
// field discriminates.

// BenchmarkCompleteEvent is emitted after a benchmark finishes its
// analysis.
type BenchmarkCompleteEvent struct {
	Reason         string      `json:"reason"` // always "benchmark-complete"
	ID             BenchmarkID `json:"id"`
	IterationCount []uint64    `json:"iteration_count"`
	MeasuredValues []float64   `json:"measured_values"`
	Unit           string      `json:"unit"`
	Throughput     *Throughput `json:"throughput,omitempty"`

	Typical      Estimate  `json:"typical"`
	Mean         Estimate  `json:"mean"`
	Median       Estimate  `json:"median"`
	MedianAbsDev Estimate  `json:"median_abs_dev"`
	Slope        *Estimate `json:"slope,omitempty"`

	Change *ChangeReport `json:"change,omitempty"`

	// Quick is set instead of the estimate fields when the benchmark
	// ran in quick mode; the two result kinds must stay
	// distinguishable downstream.
	Quick *QuickEstimate `json:"quick,omitempty"`
}

// GroupCompleteEvent is emitted after the last benchmark of a group.
type GroupCompleteEvent struct {
	Reason     string   `json:"reason"` // always "group-complete"
	Group      string   `json:"group"`
	Benchmarks []string `json:"benchmarks"`
}

// emitter writes the event stream.
type emitter struct {
	enc *json.Encoder
}

func newEmitter(w io.Writer) *emitter {
	return &emitter{enc: json.NewEncoder(w)}
}

func (e *emitter) benchmarkComplete(rep *Report) error {
	ev := BenchmarkCompleteEvent{
		Reason:     "benchmark-complete",
		ID:         rep.ID,
		Unit:       rep.Unit.Label,
		Throughput: rep.Throughput,
		Quick:      rep.Quick,
		Change:     rep.Change,
	}
	if rep.Sample != nil {
		ev.IterationCount = rep.Sample.Iterations
		ev.MeasuredValues = rep.Sample.Values
	}
	if rep.Quick == nil {
		ev.Typical = rep.Estimates.Typical()
		ev.Mean = rep.Estimates.Mean
		ev.Median = rep.Estimates.Median
		ev.MedianAbsDev = rep.Estimates.MedianAbsDev
		ev.Slope = rep.Estimates.Slope
	}
	if err := e.enc.Encode(ev); err != nil {
		return fmt.Errorf("emit benchmark-complete for %s: %w", rep.ID, err)
	}
	return nil
}

func (e *emitter) groupComplete(group string, benchmarks []string) error {
	ev := GroupCompleteEvent{
		Reason:     "group-complete",
		Group:      group,
		Benchmarks: benchmarks,
	}
	if err := e.enc.Encode(ev); err != nil {
		return fmt.Errorf("emit group-complete for %s: %w", group, err)
	}
	return nil
}
