package statbench

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegressionFailures_Format pins the per-benchmark failure line
// layout: one indented line per confirmed regression, joinable with
// newlines rather than printed as a Go slice literal.
func TestRegressionFailures_Format(t *testing.T) {
	run := &RunReport{
		Reports: []*Report{
			{
				ID: BenchmarkID{Group: "g", Function: "slow"},
				Change: &ChangeReport{
					Verdict:   VerdictRegressed,
					PValue:    0.001,
					MeanDelta: Estimate{Point: 0.30, LowerBound: 0.25, UpperBound: 0.35},
				},
			},
			{
				ID: BenchmarkID{Group: "g", Function: "noisy"},
				Change: &ChangeReport{
					Verdict:   VerdictNoise,
					MeanDelta: Estimate{Point: 0.01, LowerBound: 0.005, UpperBound: 0.015},
				},
			},
			{ID: BenchmarkID{Group: "g", Function: "fresh"}},
		},
	}

	lines := regressionFailures(run, DefaultAssertionConfig())
	require.Len(t, lines, 1, "only the confirmed regression counts")
	assert.Equal(t, "  g/slow: mean +30.00% [+25.00%, +35.00%], p=0.0010", lines[0])
}

func TestRegressionFailures_MultilineJoin(t *testing.T) {
	regressed := func(fn string) *Report {
		return &Report{
			ID: BenchmarkID{Group: "g", Function: fn},
			Change: &ChangeReport{
				Verdict:   VerdictRegressed,
				PValue:    0.002,
				MeanDelta: Estimate{Point: 0.10, LowerBound: 0.08, UpperBound: 0.12},
			},
		}
	}
	run := &RunReport{Reports: []*Report{regressed("a"), regressed("b")}}

	lines := regressionFailures(run, DefaultAssertionConfig())
	require.Len(t, lines, 2)

	msg := strings.Join(lines, "\n")
	assert.Equal(t, 1, strings.Count(msg, "\n"), "entries separated by newlines")
	assert.False(t, strings.HasPrefix(msg, "["), "must not render as a slice literal")
}

// TestRegressionFailures_Threshold verifies MaxRegression gates on the
// interval's lower bound, not the point estimate.
func TestRegressionFailures_Threshold(t *testing.T) {
	run := &RunReport{
		Reports: []*Report{{
			ID: BenchmarkID{Group: "g", Function: "small"},
			Change: &ChangeReport{
				Verdict:   VerdictRegressed,
				MeanDelta: Estimate{Point: 0.06, LowerBound: 0.03, UpperBound: 0.09},
			},
		}},
	}

	cfg := DefaultAssertionConfig()
	cfg.MaxRegression = 0.05
	assert.Empty(t, regressionFailures(run, cfg), "lower bound below the tolerance passes")

	cfg.MaxRegression = 0.0
	assert.Len(t, regressionFailures(run, cfg), 1)
}
