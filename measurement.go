package statbench

import (
	"math"
	"sync"
	"time"
)

// Intermediate is the opaque token returned by Measurement.Start and
// consumed by Measurement.End. Its concrete type belongs to the
// Measurement implementation; callers only carry it across one window.
type Intermediate any

// Value is one measured quantity for a whole measurement window.
// Values are additive: batched timing loops sum partial-window values
// via Measurement.Add before the window's total enters the sample.
type Value any

// Unit describes how raw measured values are displayed. The analysis
// always operates on the raw float64 returned by Measurement.Float64;
// Scale is a display-only multiplier.
type Unit struct {
	Label string
	Scale float64
}

// Measurement abstracts the quantity sampled by the timing loop:
// wall-clock time by default, but any monotonically accumulating
// counter (CPU cycles, cache misses, a user-maintained tally) works.
//
// Start and End bracket one measurement window — one full sample, not
// one iteration. Implementations must guarantee that End never returns
// a value that converts to a negative, NaN or infinite float64: the
// sampling planner's math degrades on such values, so the harness
// treats them as fatal for the benchmark rather than clamping them.
type Measurement interface {
	// Start opens a measurement window.
	Start() Intermediate
	// End closes the window opened by Start and returns its value.
	End(Intermediate) Value
	// Add combines two measured values.
	Add(a, b Value) Value
	// Zero returns the additive identity.
	Zero() Value
	// Float64 converts a value to the raw number used by the analysis.
	Float64(Value) float64
	// Unit describes the raw values for display purposes.
	Unit() Unit
}

// WallTime measures elapsed wall-clock time in nanoseconds using the
// highest-precision monotonic clock available on the platform. It is
// the default Measurement.
type WallTime struct{}

// Start implements Measurement.
func (WallTime) Start() Intermediate { return now() }

// End implements Measurement.
func (WallTime) End(i Intermediate) Value { return sinceTimePoint(i.(timePoint)) }

// Add implements Measurement.
func (WallTime) Add(a, b Value) Value { return a.(time.Duration) + b.(time.Duration) }

// Zero implements Measurement.
func (WallTime) Zero() Value { return time.Duration(0) }

// Float64 implements Measurement. Values are reported in nanoseconds.
func (WallTime) Float64(v Value) float64 { return float64(v.(time.Duration).Nanoseconds()) }

// Unit implements Measurement.
func (WallTime) Unit() Unit { return Unit{Label: "ns", Scale: 1} }

// Counter is a Measurement backed by a caller-supplied monotonically
// increasing reading, e.g. a hardware cycle counter or an operation
// tally maintained by the benchmarked code itself.
type Counter struct {
	// Label names the counted quantity ("cycles", "ops", ...).
	Label string
	// Read returns the current counter value. It must never decrease
	// while a measurement window is open.
	Read func() float64
}

// Start implements Measurement.
func (c Counter) Start() Intermediate { return c.Read() }

// End implements Measurement.
func (c Counter) End(i Intermediate) Value { return c.Read() - i.(float64) }

// Add implements Measurement.
func (Counter) Add(a, b Value) Value { return a.(float64) + b.(float64) }

// Zero implements Measurement.
func (Counter) Zero() Value { return float64(0) }

// Float64 implements Measurement.
func (Counter) Float64(v Value) float64 { return v.(float64) }

// Unit implements Measurement.
func (c Counter) Unit() Unit { return Unit{Label: c.Label, Scale: 1} }

// TimerPrecision reports the smallest nonzero interval observable with
// the wall clock on this system, in nanoseconds. Expect around 100ns on
// Windows and 20-100ns on Linux and macOS. The first call calibrates;
// later calls return the cached value.
func TimerPrecision() time.Duration {
	precisionOnce.Do(func() {
		minDiff := math.MaxInt64
		for range precisionProbes {
			t1 := now()
			t2 := now()
			d := int(sinceBetween(t1, t2).Nanoseconds())
			if d > 0 && d < minDiff {
				minDiff = d
			}
		}
		timerPrecision = time.Duration(minDiff)
	})
	return timerPrecision
}

const precisionProbes = 100_000

var (
	precisionOnce  sync.Once
	timerPrecision time.Duration
)
