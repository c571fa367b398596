package statbench

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
)

// Bootstrap resampling: draw many synthetic datasets, with replacement,
// from the observed data and compute the statistic of interest on each.
// The resulting empirical distribution stands in for the unknown
// sampling distribution of the statistic, giving confidence intervals
// without any normality assumption.
//
// Resampling is CPU-bound and independent per draw, so it fans out
// across GOMAXPROCS workers. Each worker owns a disjoint chunk of the
// output slice and its own PRNG stream; the merge is just the shared
// backing array, so no locking is needed beyond the WaitGroup barrier.
// This parallelism runs strictly in the analysis phase, never while a
// measurement window is open.

// Distribution is the bootstrap distribution of a statistic.
type Distribution []float64

// ConfidenceInterval returns the percentile confidence interval of the
// distribution at the given confidence level: the [α/2, 1-α/2]
// percentile pair with α = 1 - level.
func (d Distribution) ConfidenceInterval(level float64) (lower, upper float64) {
	sorted := sortedCopy(d)
	lower = percentileSorted(sorted, 50*(1-level))
	upper = percentileSorted(sorted, 50*(1+level))
	return lower, upper
}

// PValue returns the two-tailed probability of seeing the observed
// statistic t, or a more extreme one, under this distribution:
// 2·min(hits, n-hits)/n with hits = #{x : x < t}. A resampled
// statistic exactly equal to t counts toward the non-extreme side;
// at the resample counts used here the choice of convention moves the
// p-value by well under 1/nresamples.
func (d Distribution) PValue(t float64) float64 {
	hits := 0
	for _, x := range d {
		if x < t {
			hits++
		}
	}
	n := len(d)
	return float64(min(hits, n-hits)) / float64(n) * 2
}

// Estimate is a point estimate of a population statistic together with
// its bootstrap confidence interval. Estimates are produced only by the
// bootstrap machinery, which maintains
// LowerBound ≤ Point ≤ UpperBound.
type Estimate struct {
	Point           float64 `json:"point"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	StandardError   float64 `json:"standard_error"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// newEstimate builds an Estimate from the statistic computed on the
// original data and its bootstrap distribution.
func newEstimate(point float64, dist Distribution, level float64) Estimate {
	lower, upper := dist.ConfidenceInterval(level)
	// With very small samples the percentile interval can land just
	// past the point estimate; widen it to keep the invariant.
	lower = math.Min(lower, point)
	upper = math.Max(upper, point)
	return Estimate{
		Point:           point,
		LowerBound:      lower,
		UpperBound:      upper,
		StandardError:   StdDev(dist),
		ConfidenceLevel: level,
	}
}

// resampler is a deterministic source of bootstrap draws. Worker i of a
// run seeded with s uses the stream (s, i), so results are reproducible
// for a fixed seed and worker count while streams never overlap.
type resampler struct {
	rng *rand.Rand
	buf []float64
}

func newResampler(seed uint64, worker int, size int) *resampler {
	return &resampler{
		rng: rand.New(rand.NewPCG(seed, uint64(worker))),
		buf: make([]float64, size),
	}
}

// draw fills the resampler's buffer with a sample of src taken with
// replacement and returns it. The buffer is reused across draws.
func (r *resampler) draw(src []float64) []float64 {
	n := len(src)
	for i := range r.buf[:n] {
		r.buf[i] = src[r.rng.IntN(n)]
	}
	return r.buf[:n]
}

// fanOut splits nresamples across workers and waits for all of them.
// Each worker receives its index and the half-open range of resample
// indices it owns.
func fanOut(nresamples int, fn func(worker, start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > nresamples {
		workers = 1
	}
	per := (nresamples + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * per
		end := min(start+per, nresamples)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			fn(worker, start, end)
		}(w, start, end)
	}
	wg.Wait()
}

// bootstrapUnivariate resamples xs nresamples times and evaluates every
// statistic in stats on each draw, producing one distribution per
// statistic. Evaluating all statistics on the same draws costs one
// resampling pass instead of len(stats).
func bootstrapUnivariate(xs []float64, nresamples int, seed uint64, stats []func([]float64) float64) []Distribution {
	dists := make([]Distribution, len(stats))
	for i := range dists {
		dists[i] = make(Distribution, nresamples)
	}
	fanOut(nresamples, func(worker, start, end int) {
		r := newResampler(seed, worker, len(xs))
		for i := start; i < end; i++ {
			draw := r.draw(xs)
			for j, stat := range stats {
				dists[j][i] = stat(draw)
			}
		}
	})
	return dists
}

// bootstrapPairs resamples (x, y) pairs jointly, preserving the pairing
// between iteration counts and measured values, and evaluates stat on
// each draw. Used for the regression slope.
func bootstrapPairs(xs, ys []float64, nresamples int, seed uint64, stat func(xs, ys []float64) float64) Distribution {
	dist := make(Distribution, nresamples)
	n := len(xs)
	fanOut(nresamples, func(worker, start, end int) {
		rng := rand.New(rand.NewPCG(seed, uint64(worker)))
		rx := make([]float64, n)
		ry := make([]float64, n)
		for i := start; i < end; i++ {
			for k := 0; k < n; k++ {
				idx := rng.IntN(n)
				rx[k] = xs[idx]
				ry[k] = ys[idx]
			}
			dist[i] = stat(rx, ry)
		}
	})
	return dist
}

// bootstrapMixed performs a mixed two-sample bootstrap: a and b are
// pooled, each draw resamples the pool and splits it back at len(a),
// simulating the null hypothesis that both samples come from the same
// population. Used to build the null distribution of the t statistic.
func bootstrapMixed(a, b []float64, nresamples int, seed uint64, stat func(a, b []float64) float64) Distribution {
	pooled := make([]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)

	dist := make(Distribution, nresamples)
	fanOut(nresamples, func(worker, start, end int) {
		r := newResampler(seed, worker, len(pooled))
		for i := start; i < end; i++ {
			draw := r.draw(pooled)
			dist[i] = stat(draw[:len(a)], draw[len(a):])
		}
	})
	return dist
}

// bootstrapTwoSample resamples a and b independently and evaluates a
// two-valued statistic on each draw. Used for the relative change in
// mean and median, where the two runs really are different populations.
func bootstrapTwoSample(a, b []float64, nresamples int, seed uint64, stat func(a, b []float64) (float64, float64)) (Distribution, Distribution) {
	first := make(Distribution, nresamples)
	second := make(Distribution, nresamples)
	fanOut(nresamples, func(worker, start, end int) {
		ra := newResampler(seed, worker, len(a))
		// Offset the b streams so they never collide with the a streams.
		rb := newResampler(seed+1, worker, len(b))
		for i := start; i < end; i++ {
			first[i], second[i] = stat(ra.draw(a), rb.draw(b))
		}
	})
	return first, second
}
