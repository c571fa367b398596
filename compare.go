package statbench

import "math"

// The comparison engine decides whether two runs of the same benchmark
// differ by more than noise. It never mutates either run's data; it
// borrows the two samples, bootstraps the difference, and produces a
// ChangeReport.

// Verdict is the comparison engine's decision.
type Verdict int

const (
	// VerdictNoChange: the significance test could not reject "no
	// difference".
	VerdictNoChange Verdict = iota

	// VerdictNoise: a difference was detected but its confidence
	// interval lies entirely within the noise threshold, so it is
	// practically insignificant.
	VerdictNoise

	// VerdictImproved: the benchmark got faster by more than the noise
	// threshold.
	VerdictImproved

	// VerdictRegressed: the benchmark got slower by more than the
	// noise threshold.
	VerdictRegressed
)

// String returns the verdict name used in events and logs.
func (v Verdict) String() string {
	switch v {
	case VerdictNoise:
		return "noise"
	case VerdictImproved:
		return "improved"
	case VerdictRegressed:
		return "regressed"
	default:
		return "no change"
	}
}

// ChangeReport describes how the current run compares to a stored
// baseline of the same benchmark identity.
type ChangeReport struct {
	// PValue is the bootstrap probability of observing a t statistic
	// at least as extreme as the measured one if both runs came from
	// the same population.
	PValue float64 `json:"p_value"`

	// MeanDelta and MedianDelta are the relative changes of the mean
	// and median per-iteration times: 0.05 means 5% slower, -0.05
	// means 5% faster.
	MeanDelta   Estimate `json:"mean_delta"`
	MedianDelta Estimate `json:"median_delta"`

	Verdict Verdict `json:"verdict"`
}

// compareSamples runs the two-phase decision procedure on the
// per-iteration times of the current run and the baseline.
//
// Phase one builds the null distribution of the Welch t statistic by
// mixed bootstrap: both samples are pooled and each draw splits the
// pool back into two, simulating "no difference". If the p-value of
// the observed statistic exceeds the significance level the verdict is
// NoChange.
//
// Phase two bootstraps the relative change in mean and median. If the
// mean-change confidence interval lies entirely below the negative
// noise threshold the verdict is Improved; entirely above the positive
// threshold, Regressed; otherwise the change is statistically
// detectable but practically insignificant: Noise.
func compareSamples(current, baseline []float64, cfg Config) ChangeReport {
	tObs := welchT(current, baseline)
	tDist := bootstrapMixed(current, baseline, cfg.Resamples, cfg.seed(), welchT)

	// Degenerate resamples (zero pooled variance) produce non-finite t
	// values; they carry no ordering information, so drop them.
	finite := tDist[:0:len(tDist)]
	for _, t := range tDist {
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			finite = append(finite, t)
		}
	}

	relChange := func(a, b []float64) (float64, float64) {
		return Mean(a)/Mean(b) - 1, Median(a)/Median(b) - 1
	}
	meanDist, medianDist := bootstrapTwoSample(current, baseline, cfg.Resamples, cfg.seed(), relChange)
	meanPoint, medianPoint := relChange(current, baseline)

	// With no finite resamples left (two constant samples) the null
	// distribution carries no evidence against "no difference".
	pValue := 1.0
	if len(finite) > 0 {
		pValue = finite.PValue(tObs)
	}

	r := ChangeReport{
		PValue:      pValue,
		MeanDelta:   newEstimate(meanPoint, meanDist, cfg.ConfidenceLevel),
		MedianDelta: newEstimate(medianPoint, medianDist, cfg.ConfidenceLevel),
	}

	switch {
	case r.PValue > cfg.SignificanceLevel:
		r.Verdict = VerdictNoChange
	case r.MeanDelta.LowerBound < -cfg.NoiseThreshold && r.MeanDelta.UpperBound < -cfg.NoiseThreshold:
		r.Verdict = VerdictImproved
	case r.MeanDelta.LowerBound > cfg.NoiseThreshold && r.MeanDelta.UpperBound > cfg.NoiseThreshold:
		r.Verdict = VerdictRegressed
	default:
		r.Verdict = VerdictNoise
	}
	return r
}
