package statbench

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"
)

// ThroughputKind distinguishes what a throughput figure counts.
type ThroughputKind string

const (
	ThroughputBytes    ThroughputKind = "bytes"
	ThroughputElements ThroughputKind = "elements"
)

// Throughput declares how much work one iteration of a benchmark
// performs, so consumers can convert time-per-iteration into
// bytes-per-second or elements-per-second.
type Throughput struct {
	Kind   ThroughputKind `json:"kind"`
	Amount uint64         `json:"amount"`
}

// Benchmark declares one benchmarked function.
type Benchmark struct {
	// Name identifies the function within its group.
	Name string

	// Parameter distinguishes variants of the same function run with
	// different input sizes or shapes. Optional.
	Parameter string

	// Fn is the benchmark body. It must call exactly one of the
	// Bencher's Iter variants.
	Fn func(*Bencher)

	// Throughput optionally declares the work done per iteration.
	Throughput *Throughput

	// Measurement overrides the group's measurement. Nil means
	// wall-clock time.
	Measurement Measurement
}

// Group is a named collection of benchmarks sharing one configuration.
type Group struct {
	name    string
	cfg     Config
	benches []Benchmark
}

// Add registers a benchmark. Benchmarks run in registration order.
func (g *Group) Add(b Benchmark) {
	g.benches = append(g.benches, b)
}

// Bench registers a plain benchmark by name.
func (g *Group) Bench(name string, fn func(*Bencher)) {
	g.Add(Benchmark{Name: name, Fn: fn})
}

// BenchWith registers a parameterized benchmark variant.
func (g *Group) BenchWith(name, parameter string, fn func(*Bencher)) {
	g.Add(Benchmark{Name: name, Parameter: parameter, Fn: fn})
}

// Report is the full record of one benchmark's run: the raw sample it
// produced together with everything the analysis derived from it. The
// sample and estimates are owned by this record; the comparison engine
// only ever borrows them.
type Report struct {
	ID         BenchmarkID
	Unit       Unit
	Throughput *Throughput

	// Mode is the resolved sampling mode, SamplingLinear or
	// SamplingFlat. Meaningless for quick or profile runs.
	Mode SamplingMode

	Sample    *Sample
	Estimates Estimates
	Outliers  OutlierReport

	// RSquared is the goodness of fit of the slope regression; only
	// meaningful when Estimates.Slope is set.
	RSquared float64

	// Change is present only when a prior baseline for this identity
	// was found.
	Change *ChangeReport

	// Quick is set instead of Sample/Estimates for quick-mode runs.
	Quick *QuickEstimate

	// Profiled marks a profile-time run: the routine was exercised but
	// nothing was analyzed.
	Profiled bool

	// Warnings are reliability annotations: high outlier fraction, low
	// regression fit, budget overshoot, per-iteration batching.
	Warnings []string
}

// Typical returns the preferred time-per-iteration estimate.
func (r *Report) Typical() Estimate { return r.Estimates.Typical() }

// RunReport collects the outcome of Suite.Run.
type RunReport struct {
	Reports  []*Report
	Failures []*BenchmarkError
}

// Err joins all per-benchmark failures, or returns nil if every
// benchmark completed.
func (r *RunReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Regressions returns the reports whose comparison verdict was
// Regressed.
func (r *RunReport) Regressions() []*Report {
	var out []*Report
	for _, rep := range r.Reports {
		if rep.Change != nil && rep.Change.Verdict == VerdictRegressed {
			out = append(out, rep)
		}
	}
	return out
}

// Suite owns a set of benchmark groups and runs them sequentially, in
// declaration order, one at a time. Nothing runs concurrently with an
// open measurement bracket; the analysis of one benchmark finishes
// before the next benchmark's warmup begins.
type Suite struct {
	// Store persists baselines and enables comparisons. Nil disables
	// both.
	Store BaselineStore

	// Events receives the machine-readable event stream. Nil disables
	// it.
	Events io.Writer

	// Logger receives progress and reliability warnings. Nil means
	// slog.Default().
	Logger *slog.Logger

	cfg    Config
	groups []*Group
}

// NewSuite returns a suite whose groups default to cfg.
func NewSuite(cfg Config) *Suite {
	return &Suite{cfg: cfg}
}

// Group declares a benchmark group using the suite's configuration.
func (s *Suite) Group(name string) *Group {
	return s.GroupWithConfig(name, s.cfg)
}

// GroupWithConfig declares a benchmark group with its own
// configuration, constructed once and fixed for the group's lifetime.
func (s *Suite) GroupWithConfig(name string, cfg Config) *Group {
	g := &Group{name: name, cfg: cfg}
	s.groups = append(s.groups, g)
	return g
}

func (s *Suite) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run executes every group's benchmarks in declaration order. A fatal
// condition in one benchmark is recorded as a failure and the
// remaining benchmarks still run; inspect RunReport.Err for CI
// semantics.
func (s *Suite) Run() *RunReport {
	out := &RunReport{}
	var em *emitter
	if s.Events != nil {
		em = newEmitter(s.Events)
	}

	seen := make(map[BenchmarkID]bool)
	for _, g := range s.groups {
		var completed []string
		for i := range g.benches {
			bm := g.benches[i]
			id := BenchmarkID{Group: g.name, Function: bm.Name, Parameter: bm.Parameter}

			if seen[id] {
				out.Failures = append(out.Failures, &BenchmarkError{
					ID: id, Err: fmt.Errorf("duplicate benchmark identity"),
				})
				continue
			}
			seen[id] = true

			rep, err := s.runOne(g.cfg, id, bm)
			if rep != nil {
				out.Reports = append(out.Reports, rep)
				completed = append(completed, bm.Name)
				s.logReport(rep)
				// Profile runs measure nothing; emitting their
				// zero-valued estimates would look like real data.
				if em != nil && !rep.Profiled {
					if eerr := em.benchmarkComplete(rep); eerr != nil {
						s.logger().Warn("event stream write failed", "err", eerr)
					}
				}
			}
			if err != nil {
				out.Failures = append(out.Failures, &BenchmarkError{ID: id, Err: err})
				s.logger().Error("benchmark failed", "id", id.String(), "err", err)
			}
		}
		if em != nil {
			if eerr := em.groupComplete(g.name, completed); eerr != nil {
				s.logger().Warn("event stream write failed", "err", eerr)
			}
		}
	}
	return out
}

// runOne executes a single benchmark end to end. A non-nil Report can
// accompany a non-nil error: a strict-baseline miss is a failure, but
// the measurement that ran is still worth reporting.
func (s *Suite) runOne(cfg Config, id BenchmarkID, bm Benchmark) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	m := bm.Measurement
	if m == nil {
		m = WallTime{}
	}
	x := &executor{m: m, fn: bm.Fn}
	rep := &Report{ID: id, Unit: m.Unit(), Throughput: bm.Throughput}

	if cfg.ProfileTime > 0 {
		s.logger().Info("profiling", "id", id.String(), "for", cfg.ProfileTime)
		if err := x.profile(cfg.ProfileTime); err != nil {
			return nil, err
		}
		rep.Profiled = true
		return rep, nil
	}

	if cfg.Quick {
		s.logger().Info("quick-estimating", "id", id.String())
		q, err := x.quick(cfg)
		if err != nil {
			return nil, err
		}
		rep.Quick = q
		return rep, nil
	}

	sample, mode, warnings, err := s.obtainSample(cfg, id, x)
	if err != nil {
		return nil, err
	}
	if err := sample.validate(); err != nil {
		return nil, err
	}
	rep.Sample = sample
	rep.Mode = mode
	rep.Warnings = warnings

	res := analyze(sample, cfg, mode == SamplingLinear)
	rep.Estimates = res.estimates
	rep.Outliers = res.outliers
	rep.RSquared = res.rSquared

	if res.outliers.Fraction() > outlierWarnFraction {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"%.0f%% of measurements are outliers; results may be unreliable",
			res.outliers.Fraction()*100))
	}
	if res.estimates.Slope != nil && res.rSquared < rSquaredWarnThreshold {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"slope regression fit R²=%.3f; per-iteration cost may not be uniform",
			res.rSquared))
	}
	if x.perIteration {
		rep.Warnings = append(rep.Warnings,
			"per-iteration batching puts setup and drop cost inside the measurement; values are inflated")
	}

	return rep, s.finishBaseline(cfg, id, rep)
}

// obtainSample either measures fresh data or, in load mode, treats a
// stored baseline as the current data without re-measuring.
func (s *Suite) obtainSample(cfg Config, id BenchmarkID, x *executor) (*Sample, SamplingMode, []string, error) {
	if cfg.LoadBaseline != "" {
		if s.Store == nil {
			return nil, 0, nil, errors.New("baseline load requested but no store configured")
		}
		b, err := s.Store.Load(id, cfg.LoadBaseline)
		if err != nil {
			return nil, 0, nil, err
		}
		// Store contents are external input; a malformed record must
		// fail this benchmark, not panic the suite.
		if b.Sample == nil {
			return nil, 0, nil, fmt.Errorf("baseline %q has no sample data", cfg.LoadBaseline)
		}
		if err := b.Sample.validate(); err != nil {
			return nil, 0, nil, fmt.Errorf("baseline %q: %w", cfg.LoadBaseline, err)
		}
		return b.Sample, sampleMode(b.Sample), nil, nil
	}

	s.logger().Info("warming up", "id", id.String(), "for", cfg.WarmUpTime)
	d, err := x.warmUp(cfg.WarmUpTime)
	if err != nil {
		return nil, 0, nil, err
	}

	plan := buildPlan(cfg, d)
	var warnings []string
	budget := float64(cfg.MeasurementTime.Nanoseconds())
	if plan.expectedNs > budget {
		w := fmt.Sprintf("measuring %d samples will take about %v, exceeding the %v budget",
			cfg.SampleSize,
			time.Duration(plan.expectedNs).Round(100*time.Millisecond),
			cfg.MeasurementTime)
		warnings = append(warnings, w)
		s.logger().Warn(w, "id", id.String())
	}

	s.logger().Info("measuring", "id", id.String(),
		"samples", cfg.SampleSize, "mode", plan.mode.String())
	sample, err := x.collect(plan)
	if err != nil {
		return nil, 0, nil, err
	}
	return sample, plan.mode, warnings, nil
}

// finishBaseline records the run under the reserved "new" name, runs
// the comparison against the active baseline, and overwrites the
// active baseline with this run's data.
func (s *Suite) finishBaseline(cfg Config, id BenchmarkID, rep *Report) error {
	if s.Store == nil {
		return nil
	}

	current := &Baseline{Name: NewBaselineName, Sample: rep.Sample, Estimates: rep.Estimates}
	if err := s.Store.Store(id, NewBaselineName, current); err != nil {
		return err
	}

	prior, err := s.Store.Load(id, cfg.BaselineName)
	switch {
	case err == nil:
		change := compareSamples(rep.Sample.PerIteration(), prior.Sample.PerIteration(), cfg)
		rep.Change = &change
	case errors.Is(err, ErrBaselineNotFound):
		if cfg.BaselineMode == BaselineStrict {
			return err
		}
	default:
		return err
	}

	if cfg.LoadBaseline != "" {
		// Loaded data never overwrites the baseline it was compared to.
		return nil
	}
	saved := &Baseline{Name: cfg.BaselineName, Sample: rep.Sample, Estimates: rep.Estimates}
	return s.Store.Store(id, cfg.BaselineName, saved)
}

// sampleMode infers the sampling mode of a stored sample from its
// iteration counts: equal counts mean flat sampling.
func sampleMode(s *Sample) SamplingMode {
	for _, it := range s.Iterations[1:] {
		if it != s.Iterations[0] {
			return SamplingLinear
		}
	}
	return SamplingFlat
}

func (s *Suite) logReport(rep *Report) {
	log := s.logger()
	switch {
	case rep.Profiled:
		log.Info("profiled", "id", rep.ID.String())
	case rep.Quick != nil:
		log.Info("quick estimate", "id", rep.ID.String(),
			"per_iteration", fmt.Sprintf("%.2f%s", rep.Quick.PerIteration, rep.Unit.Label),
			"converged", rep.Quick.Converged)
	default:
		typ := rep.Typical()
		log.Info("measured", "id", rep.ID.String(),
			"typical", fmt.Sprintf("%.2f%s", typ.Point, rep.Unit.Label),
			"lo", fmt.Sprintf("%.2f%s", typ.LowerBound, rep.Unit.Label),
			"hi", fmt.Sprintf("%.2f%s", typ.UpperBound, rep.Unit.Label))
		if rep.Change != nil {
			log.Info("change", "id", rep.ID.String(),
				"verdict", rep.Change.Verdict.String(),
				"p", fmt.Sprintf("%.4f", rep.Change.PValue),
				"mean", fmt.Sprintf("%+.2f%%", rep.Change.MeanDelta.Point*100))
		}
	}
	for _, w := range rep.Warnings {
		log.Warn(w, "id", rep.ID.String())
	}
}

const (
	// outlierWarnFraction is the outlier share above which a run is
	// flagged as unreliable. Outliers are still never removed.
	outlierWarnFraction = 0.10

	// rSquaredWarnThreshold flags a slope regression that explains too
	// little of the variance.
	rSquaredWarnThreshold = 0.90
)
