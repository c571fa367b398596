package statbench

import (
	"fmt"
	"math"
	"time"
)

// The sampling planner runs a benchmark in two phases. Warmup doubles
// the iteration count until the warm-up budget is spent and yields d,
// the estimated cost of a single iteration. Measure then collects the
// configured number of windows with iteration counts chosen so the
// whole measurement approximates the time budget.
//
// Measurement is strictly single-threaded and sequential: nothing else
// in the harness runs while a bracket is open, and budgets are only
// consulted between brackets. An open bracket always runs to
// completion.

// executor binds a benchmark function to its measurement and runs
// individual measurement windows.
type executor struct {
	m  Measurement
	fn func(*Bencher)

	// perIteration records that some window used the PerIteration
	// batch policy, which inflates measurements.
	perIteration bool
}

// window runs one measurement window of the given iteration count and
// returns the raw measured value.
func (x *executor) window(iters uint64) (float64, error) {
	b := &Bencher{iters: iters, value: x.m.Zero(), m: x.m}
	x.fn(b)
	if !b.iterated {
		return 0, ErrNeverIterated
	}
	if b.perIteration {
		x.perIteration = true
	}
	v := x.m.Float64(b.value)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %v over %d iterations", ErrBadMeasurement, v, iters)
	}
	return v, nil
}

// warmUp runs the routine with doubling iteration counts (1, 2, 4, ...)
// until the accumulated wall-clock time reaches the warm-up budget, and
// returns the single-iteration time estimate d = elapsed/iterations in
// nanoseconds. Planning always works in wall time, even for custom
// measurements, because the budgets are wall-time budgets.
func (x *executor) warmUp(budget time.Duration) (d float64, err error) {
	var totalIters uint64
	iters := uint64(1)
	start := now()
	for {
		if _, err := x.window(iters); err != nil {
			return 0, err
		}
		totalIters += iters

		elapsed := sinceTimePoint(start)
		if elapsed >= budget {
			return float64(elapsed.Nanoseconds()) / float64(totalIters), nil
		}
		if elapsed == 0 && iters > 1<<32 {
			// The loop body cannot really be running.
			return 0, ErrNeverIterated
		}
		iters *= 2
	}
}

// samplingPlan is the resolved decision of how many iterations each
// measurement window runs.
type samplingPlan struct {
	mode       SamplingMode // SamplingLinear or SamplingFlat, never SamplingAuto
	iters      []uint64
	expectedNs float64
}

// buildPlan chooses iteration counts from the warm-up estimate d.
//
// Linear mode solves f from
//
//	(1 + 2 + ... + N)·f·d = measurement_time
//
// so window k runs k·f iterations and the sum of all windows
// approximates the budget; f is floored at 1, which means a slow
// routine overshoots the budget rather than losing windows.
//
// Flat mode gives all N windows the same count, sized so one window
// takes measurement_time/N.
//
// Auto mode picks Linear unless the projected linear run exceeds twice
// the budget even at f = 1, which marks the routine as too slow for a
// ramp.
func buildPlan(cfg Config, d float64) samplingPlan {
	n := uint64(cfg.SampleSize)
	budget := float64(cfg.MeasurementTime.Nanoseconds())
	totalRuns := float64(n) * float64(n+1) / 2

	f := math.Round(budget / (d * totalRuns))
	if f < 1 {
		f = 1
	}
	expectedLinear := totalRuns * f * d

	mode := cfg.SamplingMode
	if mode == SamplingAuto {
		if expectedLinear > 2*budget {
			mode = SamplingFlat
		} else {
			mode = SamplingLinear
		}
	}

	p := samplingPlan{mode: mode, iters: make([]uint64, n)}
	switch mode {
	case SamplingFlat:
		per := math.Ceil(budget / (float64(n) * d))
		if per < 1 {
			per = 1
		}
		for i := range p.iters {
			p.iters[i] = uint64(per)
		}
		p.expectedNs = float64(n) * per * d
	default:
		for i := range p.iters {
			p.iters[i] = (uint64(i) + 1) * uint64(f)
		}
		p.expectedNs = expectedLinear
	}
	return p
}

// collect runs every window of the plan in order and assembles the
// sample. Windows are never interrupted; a routine slower than
// estimated simply takes longer than the budget.
func (x *executor) collect(p samplingPlan) (*Sample, error) {
	s := &Sample{
		Iterations: p.iters,
		Values:     make([]float64, 0, len(p.iters)),
	}
	for _, iters := range p.iters {
		v, err := x.window(iters)
		if err != nil {
			return nil, err
		}
		s.Values = append(s.Values, v)
	}
	return s, nil
}

// profile exercises the routine for roughly the given duration without
// taking any measurements that will be analyzed. It keeps suite
// runtime stable under a profiler with unknown overhead and keeps the
// process inside the benchmarked code rather than inside harness code.
func (x *executor) profile(profileTime time.Duration) error {
	d, err := x.warmUp(time.Second)
	if err != nil {
		return err
	}
	remaining := float64(profileTime.Nanoseconds()) - float64(time.Second.Nanoseconds())
	if remaining <= 0 {
		return nil
	}
	iters := uint64(remaining / d)
	if iters == 0 {
		return nil
	}
	_, err = x.window(iters)
	return err
}
