package statbench

import (
	"fmt"
	"time"
)

// SamplingMode selects how the planner distributes iterations across
// measurement windows.
type SamplingMode int

const (
	// SamplingAuto picks SamplingLinear unless the warmup estimate
	// indicates the routine is too slow for a linear ramp to fit the
	// time budget, in which case it picks SamplingFlat.
	SamplingAuto SamplingMode = iota

	// SamplingLinear ramps iteration counts linearly (k·f for window
	// k), so later windows dominate total time and the per-iteration
	// cost can be recovered as a regression slope.
	SamplingLinear

	// SamplingFlat gives every window the same iteration count. Meant
	// for slow routines where a linear ramp would make the first
	// window absurdly short or the last absurdly long. No slope
	// estimate is produced in this mode.
	SamplingFlat
)

// String returns the mode name used in events and baselines.
func (m SamplingMode) String() string {
	switch m {
	case SamplingLinear:
		return "linear"
	case SamplingFlat:
		return "flat"
	default:
		return "auto"
	}
}

// BaselineMode controls how a missing baseline is treated during
// comparison.
type BaselineMode int

const (
	// BaselineLenient silently skips the comparison for a benchmark
	// whose baseline is missing. The default.
	BaselineLenient BaselineMode = iota

	// BaselineStrict reports a missing baseline as a per-benchmark
	// error. Sibling benchmarks still run.
	BaselineStrict
)

// Config holds every knob the measurement and analysis engine consumes.
// It is an explicit, immutable value: construct one (usually starting
// from DefaultConfig), hand it to a suite or group, and never mutate it
// afterwards. There is no process-wide configuration state.
type Config struct {
	// WarmUpTime is how long the routine runs before measurement
	// starts, to populate caches and reach steady state.
	WarmUpTime time.Duration

	// MeasurementTime is the target for the sum of all measurement
	// windows. A slow routine may overshoot it; the overshoot is
	// reported, never silently truncated.
	MeasurementTime time.Duration

	// SampleSize is the number of measurement windows to collect.
	// Values below 2 are rejected: no dispersion statistic exists for
	// fewer points.
	SampleSize int

	// ConfidenceLevel is the coverage of the bootstrap confidence
	// intervals, in (0, 1).
	ConfidenceLevel float64

	// SignificanceLevel is the p-value threshold of the comparison
	// test, and doubles as the convergence threshold of quick mode.
	SignificanceLevel float64

	// NoiseThreshold is the relative change below which a
	// statistically detectable difference is still reported as noise.
	NoiseThreshold float64

	// Resamples is the bootstrap resample count.
	Resamples int

	// SamplingMode selects the iteration ramp. See the mode constants.
	SamplingMode SamplingMode

	// Quick trades statistical rigor for speed: a geometric-doubling
	// estimator replaces the full sample-and-bootstrap pipeline.
	Quick bool

	// ProfileTime, when positive, bypasses analysis entirely: the
	// routine is exercised for roughly this long so an external
	// profiler can observe it, and no statistics are produced.
	ProfileTime time.Duration

	// BaselineName is the stored baseline this run compares against
	// and overwrites on success. Defaults to "base".
	BaselineName string

	// LoadBaseline, when set, treats the named stored baseline as the
	// current data instead of measuring anything.
	LoadBaseline string

	// BaselineMode selects strict or lenient handling of missing
	// baselines.
	BaselineMode BaselineMode

	// Seed fixes the PRNG streams of the bootstrap for reproducible
	// intervals. Zero means pick a random seed per run.
	Seed uint64
}

// DefaultConfig returns the defaults: 3s warmup, 5s measurement, 100
// windows, 95% confidence, 5% significance, 2% noise threshold and
// 100000 resamples.
func DefaultConfig() Config {
	return Config{
		WarmUpTime:        3 * time.Second,
		MeasurementTime:   5 * time.Second,
		SampleSize:        100,
		ConfidenceLevel:   0.95,
		SignificanceLevel: 0.05,
		NoiseThreshold:    0.02,
		Resamples:         100_000,
		SamplingMode:      SamplingAuto,
		BaselineName:      "base",
	}
}

// validate reports the first fatal configuration problem, if any.
func (c Config) validate() error {
	if c.SampleSize < 2 {
		return fmt.Errorf("%w: sample size %d", ErrSampleSize, c.SampleSize)
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence level %v outside (0, 1)", c.ConfidenceLevel)
	}
	if c.SignificanceLevel <= 0 || c.SignificanceLevel >= 1 {
		return fmt.Errorf("significance level %v outside (0, 1)", c.SignificanceLevel)
	}
	if c.Resamples < 1 {
		return fmt.Errorf("resample count %d below 1", c.Resamples)
	}
	if c.WarmUpTime <= 0 {
		return fmt.Errorf("warm-up time %v not positive", c.WarmUpTime)
	}
	if c.MeasurementTime <= 0 {
		return fmt.Errorf("measurement time %v not positive", c.MeasurementTime)
	}
	return nil
}

func (c Config) seed() uint64 { return c.Seed }
