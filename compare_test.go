package statbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareConfig() Config {
	cfg := DefaultConfig()
	cfg.Resamples = 2000
	cfg.Seed = 42
	return cfg
}

// jittered returns n values around center with a small deterministic
// spread, standing in for per-iteration times.
func jittered(n int, center, step float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = center + float64(i%10)*step
	}
	return xs
}

func TestCompare_IdenticalSamples(t *testing.T) {
	xs := jittered(50, 1000, 1)

	r := compareSamples(xs, xs, compareConfig())

	assert.Equal(t, VerdictNoChange, r.Verdict)
	assert.Greater(t, r.PValue, 0.05, "identical data must not look significant")
	assert.InDelta(t, 0, r.MeanDelta.Point, 1e-12)
	assert.InDelta(t, 0, r.MedianDelta.Point, 1e-12)
}

func TestCompare_Regression(t *testing.T) {
	baseline := jittered(50, 1000, 1)
	current := make([]float64, len(baseline))
	for i, v := range baseline {
		current[i] = v * 1.3
	}

	r := compareSamples(current, baseline, compareConfig())

	require.Equal(t, VerdictRegressed, r.Verdict)
	assert.LessOrEqual(t, r.PValue, 0.05)
	assert.InDelta(t, 0.3, r.MeanDelta.Point, 0.01)
	assert.Greater(t, r.MeanDelta.LowerBound, 0.02, "whole interval must clear the noise threshold")
}

func TestCompare_Improvement(t *testing.T) {
	baseline := jittered(50, 1000, 1)
	current := make([]float64, len(baseline))
	for i, v := range baseline {
		current[i] = v * 0.7
	}

	r := compareSamples(current, baseline, compareConfig())

	require.Equal(t, VerdictImproved, r.Verdict)
	assert.InDelta(t, -0.3, r.MeanDelta.Point, 0.01)
	assert.Less(t, r.MeanDelta.UpperBound, -0.02)
}

// TestCompare_SignificantButNoise: a 0.3% shift with almost no variance
// is statistically unmistakable yet practically irrelevant, and must be
// reported as noise rather than a regression.
func TestCompare_SignificantButNoise(t *testing.T) {
	baseline := jittered(50, 1000, 0.01)
	current := make([]float64, len(baseline))
	for i, v := range baseline {
		current[i] = v + 3
	}

	r := compareSamples(current, baseline, compareConfig())

	require.Equal(t, VerdictNoise, r.Verdict)
	assert.LessOrEqual(t, r.PValue, 0.05, "the shift itself is clearly detectable")
	assert.Less(t, r.MeanDelta.UpperBound, 0.02, "but it stays under the noise threshold")
}

// TestCompare_ConstantSamples: two identical constant samples leave
// every resampled t statistic degenerate. An empty null distribution
// is evidence of nothing, so the verdict must be a clean no-change
// with a well-defined p-value.
func TestCompare_ConstantSamples(t *testing.T) {
	xs := make([]float64, 30)
	for i := range xs {
		xs[i] = 1000
	}

	r := compareSamples(xs, xs, compareConfig())

	assert.Equal(t, VerdictNoChange, r.Verdict)
	assert.Equal(t, 1.0, r.PValue)
	assert.InDelta(t, 0, r.MeanDelta.Point, 1e-12)
}

func TestVerdict_String(t *testing.T) {
	cases := map[Verdict]string{
		VerdictNoChange:  "no change",
		VerdictNoise:     "noise",
		VerdictImproved:  "improved",
		VerdictRegressed: "regressed",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("verdict %d: expected %q, got %q", v, want, got)
		}
	}
}
