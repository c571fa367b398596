package statbench

// Estimates bundles the bootstrap estimates for one benchmark run. All
// statistics describe the per-iteration time distribution except Slope,
// which is recovered from the (iterations, value) pairs by linear
// regression and only exists when iteration counts varied across
// windows (linear sampling). When present, the slope is the preferred
// "typical cost" figure: unlike the mean of per-window averages it
// weights every iteration equally instead of every window.
type Estimates struct {
	Mean         Estimate  `json:"mean"`
	Median       Estimate  `json:"median"`
	MedianAbsDev Estimate  `json:"median_abs_dev"`
	StdDev       Estimate  `json:"std_dev"`
	Slope        *Estimate `json:"slope,omitempty"`
}

// Typical returns the slope estimate when available, the mean
// otherwise.
func (e Estimates) Typical() Estimate {
	if e.Slope != nil {
		return *e.Slope
	}
	return e.Mean
}

// analysisResult is everything the estimator derives from one sample.
type analysisResult struct {
	estimates Estimates
	outliers  OutlierReport
	rSquared  float64 // meaningful only when estimates.Slope != nil
}

// analyze turns a collected sample into outlier counts and bootstrap
// estimates. withSlope selects whether the regression runs; flat-mode
// samples share one iteration count, which leaves the regression with a
// single support point, so the slope is skipped for them and Typical
// falls back to the mean.
func analyze(sample *Sample, cfg Config, withSlope bool) analysisResult {
	times := sample.PerIteration()

	statFns := []func([]float64) float64{
		Mean,
		Median,
		MedianAbsDev,
		StdDev,
	}
	points := make([]float64, len(statFns))
	for i, f := range statFns {
		points[i] = f(times)
	}
	dists := bootstrapUnivariate(times, cfg.Resamples, cfg.seed(), statFns)

	res := analysisResult{
		estimates: Estimates{
			Mean:         newEstimate(points[0], dists[0], cfg.ConfidenceLevel),
			Median:       newEstimate(points[1], dists[1], cfg.ConfidenceLevel),
			MedianAbsDev: newEstimate(points[2], dists[2], cfg.ConfidenceLevel),
			StdDev:       newEstimate(points[3], dists[3], cfg.ConfidenceLevel),
		},
		outliers: ClassifyOutliers(times),
	}

	if withSlope {
		xs := make([]float64, sample.Len())
		for i, it := range sample.Iterations {
			xs[i] = float64(it)
		}
		point := slopeThroughOrigin(xs, sample.Values)
		dist := bootstrapPairs(xs, sample.Values, cfg.Resamples, cfg.seed(), slopeThroughOrigin)
		slope := newEstimate(point, dist, cfg.ConfidenceLevel)
		res.estimates.Slope = &slope
		res.rSquared = rSquaredThroughOrigin(xs, sample.Values, point)
	}
	return res
}
