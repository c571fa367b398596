package statbench

import (
	"fmt"
	"strings"
	"testing"
)

// AssertionConfig contains thresholds for performance gates.
type AssertionConfig struct {
	// Maximum tolerated mean slowdown (0.05 = 5% slower still passes)
	MaxRegression float64

	// Minimum R² for the slope regression fit
	MinRSquared float64

	// Maximum tolerated outlier share of the sample
	MaxOutlierFraction float64

	// Fail when a benchmark produced warnings
	FailOnWarnings bool
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MaxRegression:      0.0,  // any confirmed regression fails
		MinRSquared:        0.90, // 90% model fit
		MaxOutlierFraction: 0.10, // 10% outliers
		FailOnWarnings:     false,
	}
}

// AssertNoRegression verifies no benchmark in the run got confirmedly
// slower than its baseline.
//
// A benchmark fails when its verdict is Regressed and the lower bound
// of its mean-change interval exceeds MaxRegression. Benchmarks
// without a stored baseline are skipped; the first run of a new
// benchmark cannot regress.
func AssertNoRegression(t *testing.T, run *RunReport, cfg AssertionConfig) {
	t.Helper()

	if err := run.Err(); err != nil {
		t.Fatalf("Benchmark run failed: %v", err)
	}

	failures := regressionFailures(run, cfg)
	if len(failures) > 0 {
		t.Errorf("Performance regressed:\n%s\n"+
			"Compare against the saved baseline to find the offending change.",
			strings.Join(failures, "\n"))
		return
	}

	t.Logf("✓ No regression: %d benchmarks within %.1f%% of baseline",
		len(run.Reports), cfg.MaxRegression*100)
}

// regressionFailures returns one formatted line per confirmed
// regression exceeding the threshold.
func regressionFailures(run *RunReport, cfg AssertionConfig) []string {
	var failures []string
	for _, rep := range run.Reports {
		if rep.Change == nil {
			continue
		}
		if rep.Change.Verdict == VerdictRegressed && rep.Change.MeanDelta.LowerBound > cfg.MaxRegression {
			failures = append(failures, fmt.Sprintf(
				"  %s: mean %+.2f%% [%+.2f%%, %+.2f%%], p=%.4f",
				rep.ID.String(),
				rep.Change.MeanDelta.Point*100,
				rep.Change.MeanDelta.LowerBound*100,
				rep.Change.MeanDelta.UpperBound*100,
				rep.Change.PValue))
		}
	}
	return failures
}

// AssertReliable verifies a single report's measurements are trustworthy.
//
// Too many outliers or a poor slope fit mean the environment was noisy
// (frequency scaling, background load, GC pressure) and the estimates
// should not gate anything.
func AssertReliable(t *testing.T, rep *Report, cfg AssertionConfig) {
	t.Helper()

	if rep.Sample == nil {
		t.Fatalf("Report %s has no sample; quick and profile runs cannot be asserted on", rep.ID.String())
	}

	frac := rep.Outliers.Fraction()
	if frac > cfg.MaxOutlierFraction {
		t.Errorf("Too many outliers in %s: %.1f%% (max: %.1f%%)\n"+
			"The measurement environment is noisy. Pin CPU frequency or isolate cores.",
			rep.ID.String(), frac*100, cfg.MaxOutlierFraction*100)
	}

	if rep.Estimates.Slope != nil && rep.RSquared < cfg.MinRSquared {
		t.Errorf("Poor regression fit in %s: R² = %.4f (min: %.4f)\n"+
			"Per-iteration cost is not uniform. Check for caching or allocator effects.",
			rep.ID.String(), rep.RSquared, cfg.MinRSquared)
	}

	if cfg.FailOnWarnings && len(rep.Warnings) > 0 {
		t.Errorf("Benchmark %s produced warnings:\n  %s",
			rep.ID.String(), strings.Join(rep.Warnings, "\n  "))
	}

	t.Logf("✓ Reliable: %s outliers=%.1f%% R²=%.4f", rep.ID.String(), frac*100, rep.RSquared)
}

// AssertStable runs both gates over every report with default
// thresholds.
func AssertStable(t *testing.T, run *RunReport) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("NoRegression", func(t *testing.T) {
		AssertNoRegression(t, run, cfg)
	})

	for _, rep := range run.Reports {
		t.Run("Reliable/"+rep.ID.String(), func(t *testing.T) {
			AssertReliable(t, rep, cfg)
		})
	}
}

// PrintReport outputs a detailed per-benchmark summary to the test log.
func PrintReport(t *testing.T, rep *Report) {
	t.Helper()

	t.Logf("\n=== %s ===", rep.ID.String())
	switch {
	case rep.Profiled:
		t.Logf("profile run, nothing analyzed")
		return
	case rep.Quick != nil:
		t.Logf("quick estimate: %.2f%s per iteration (doublings=%d, converged=%v)",
			rep.Quick.PerIteration, rep.Unit.Label, rep.Quick.Doublings, rep.Quick.Converged)
		return
	}

	t.Logf("Estimates (per iteration, %s):", rep.Unit.Label)
	t.Logf("  mean    = %12.2f  [%12.2f, %12.2f]",
		rep.Estimates.Mean.Point, rep.Estimates.Mean.LowerBound, rep.Estimates.Mean.UpperBound)
	t.Logf("  median  = %12.2f  [%12.2f, %12.2f]",
		rep.Estimates.Median.Point, rep.Estimates.Median.LowerBound, rep.Estimates.Median.UpperBound)
	t.Logf("  std dev = %12.2f  [%12.2f, %12.2f]",
		rep.Estimates.StdDev.Point, rep.Estimates.StdDev.LowerBound, rep.Estimates.StdDev.UpperBound)
	if rep.Estimates.Slope != nil {
		t.Logf("  slope   = %12.2f  [%12.2f, %12.2f]  R²=%.4f",
			rep.Estimates.Slope.Point, rep.Estimates.Slope.LowerBound,
			rep.Estimates.Slope.UpperBound, rep.RSquared)
	}

	o := rep.Outliers
	t.Logf("Outliers: %d of %d (%.1f%%)", o.Total(), rep.Sample.Len(), o.Fraction()*100)
	if o.Total() > 0 {
		t.Logf("  low severe=%d  low mild=%d  high mild=%d  high severe=%d",
			o.LowSevere, o.LowMild, o.HighMild, o.HighSevere)
	}

	if rep.Change != nil {
		t.Logf("Change vs baseline: %s", rep.Change.Verdict.String())
		t.Logf("  p       = %.4f", rep.Change.PValue)
		t.Logf("  mean    = %+.2f%%  [%+.2f%%, %+.2f%%]",
			rep.Change.MeanDelta.Point*100, rep.Change.MeanDelta.LowerBound*100,
			rep.Change.MeanDelta.UpperBound*100)
		t.Logf("  median  = %+.2f%%  [%+.2f%%, %+.2f%%]",
			rep.Change.MedianDelta.Point*100, rep.Change.MedianDelta.LowerBound*100,
			rep.Change.MedianDelta.UpperBound*100)
	}

	for _, w := range rep.Warnings {
		t.Logf("⚠ %s", w)
	}
}
