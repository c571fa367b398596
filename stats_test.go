package statbench

import (
	"math"
	"testing"
)

// TestMeanVariance verifies the basic moments on a known dataset.
func TestMeanVariance(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean := Mean(xs)
	if mean != 5 {
		t.Errorf("Mean: expected 5, got %v", mean)
	}

	// Squared deviations sum to 32; the unbiased divisor is n-1 = 7.
	v := Variance(xs, mean)
	if math.Abs(v-32.0/7.0) > 1e-12 {
		t.Errorf("Variance: expected %v, got %v", 32.0/7.0, v)
	}

	sd := StdDev(xs)
	if math.Abs(sd-math.Sqrt(32.0/7.0)) > 1e-12 {
		t.Errorf("StdDev: expected %v, got %v", math.Sqrt(32.0/7.0), sd)
	}
}

// TestPercentile_Interpolation verifies the linear interpolation
// between order statistics.
func TestPercentile_Interpolation(t *testing.T) {
	xs := []float64{4, 1, 3, 2} // unsorted on purpose

	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, c := range cases {
		got := Percentile(xs, c.p)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Percentile(%v): expected %v, got %v", c.p, c.want, got)
		}
	}
}

func TestMedian(t *testing.T) {
	if m := Median([]float64{5, 1, 3}); m != 3 {
		t.Errorf("odd length: expected 3, got %v", m)
	}
	if m := Median([]float64{4, 1, 3, 2}); m != 2.5 {
		t.Errorf("even length: expected 2.5, got %v", m)
	}
}

// TestMedianAbsDev verifies the MAD with its 1.4826 consistency factor.
func TestMedianAbsDev(t *testing.T) {
	xs := []float64{1, 1, 2, 2, 4, 6, 9}
	// median = 2, absolute deviations sorted: 0 0 1 1 2 4 7, median 1.
	got := MedianAbsDev(xs)
	if math.Abs(got-1.4826) > 1e-12 {
		t.Errorf("MedianAbsDev: expected 1.4826, got %v", got)
	}
}

// TestSlopeThroughOrigin verifies the regression on exactly linear
// data.
func TestSlopeThroughOrigin(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{2, 4, 6, 8}

	m := slopeThroughOrigin(xs, ys)
	if m != 2 {
		t.Errorf("slope: expected 2, got %v", m)
	}

	r2 := rSquaredThroughOrigin(xs, ys, m)
	if r2 != 1 {
		t.Errorf("R²: expected 1, got %v", r2)
	}
}

func TestRSquared_ImperfectFit(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{2.1, 3.9, 6.2, 7.8}

	m := slopeThroughOrigin(xs, ys)
	r2 := rSquaredThroughOrigin(xs, ys, m)
	if r2 <= 0.99 || r2 >= 1 {
		t.Errorf("R²: expected slightly below 1, got %v", r2)
	}
}

// TestWelchT verifies sign and symmetry of the t statistic.
func TestWelchT(t *testing.T) {
	a := []float64{10, 11, 12, 13, 14}
	b := []float64{20, 21, 22, 23, 24}

	if got := welchT(a, a); got != 0 {
		t.Errorf("identical samples: expected t=0, got %v", got)
	}

	ab := welchT(a, b)
	if ab >= 0 {
		t.Errorf("a < b: expected negative t, got %v", ab)
	}
	if ba := welchT(b, a); ba != -ab {
		t.Errorf("expected antisymmetry, got %v and %v", ab, ba)
	}
}
