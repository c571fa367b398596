package statbench

import (
	"math"
	"sort"
)

// Shared statistics primitives. Every estimator in this package funnels
// through these: the bootstrap resamples call the same functions as the
// point estimates, so a point estimate and its interval always agree on
// the definition of the statistic.

// Mean returns the arithmetic average of xs.
func Mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the unbiased sample variance of xs (divisor n-1).
func Variance(xs []float64, mean float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs, Mean(xs)))
}

// Percentile returns the p-th percentile (0 ≤ p ≤ 100) of xs using
// linear interpolation between order statistics.
func Percentile(xs []float64, p float64) float64 {
	sorted := sortedCopy(xs)
	return percentileSorted(sorted, p)
}

// Median returns the 50th percentile of xs.
func Median(xs []float64) float64 {
	return Percentile(xs, 50)
}

// MedianAbsDev returns the median absolute deviation of xs scaled by
// 1.4826, which makes it a consistent estimator of the standard
// deviation for normally distributed data.
func MedianAbsDev(xs []float64) float64 {
	return medianAbsDev(xs, Median(xs))
}

func medianAbsDev(xs []float64, median float64) float64 {
	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - median)
	}
	sort.Float64s(devs)
	return percentileSorted(devs, 50) * 1.4826
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}

// percentileSorted computes an interpolated percentile of already
// sorted data: rank r = p/100·(n-1), result = linear blend of the
// order statistics either side of r.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

func dot(xs, ys []float64) float64 {
	var sum float64
	for i, x := range xs {
		sum += x * ys[i]
	}
	return sum
}

// slopeThroughOrigin fits y = m·x by ordinary least squares with the
// intercept forced to zero: m = Σxy / Σx². A measurement of zero
// iterations must cost zero, so the regression of elapsed time against
// iteration count never gets a free intercept.
func slopeThroughOrigin(xs, ys []float64) float64 {
	return dot(xs, ys) / dot(xs, xs)
}

// rSquaredThroughOrigin returns the coefficient of determination for
// the fit y = m·x against the observations.
func rSquaredThroughOrigin(xs, ys []float64, m float64) float64 {
	yBar := Mean(ys)
	var ssRes, ssTot float64
	for i, x := range xs {
		r := ys[i] - m*x
		ssRes += r * r
		t := ys[i] - yBar
		ssTot += t * t
	}
	return 1 - ssRes/ssTot
}

// welchT returns the Welch two-sample t statistic between a and b:
//
//	t = (ā - b̄) / sqrt(s²_a/n_a + s²_b/n_b)
//
// No normality assumption is needed here: the statistic's distribution
// under the null hypothesis is estimated by bootstrapping, not looked
// up in a t table.
func welchT(a, b []float64) float64 {
	aBar, bBar := Mean(a), Mean(b)
	va, vb := Variance(a, aBar), Variance(b, bBar)
	return (aBar - bBar) / math.Sqrt(va/float64(len(a))+vb/float64(len(b)))
}
