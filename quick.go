package statbench

import "math"

// Quick mode trades the full sample-and-bootstrap pipeline for a
// geometric-doubling estimator. It produces a single per-iteration
// figure with no confidence interval, no outlier census and no
// comparison support, so its results must never be mixed with the
// bootstrap-based ones in reports.

// QuickEstimate is the result of a quick-mode run.
type QuickEstimate struct {
	// PerIteration is the estimated cost of one iteration, in the
	// measurement's raw unit.
	PerIteration float64 `json:"per_iteration"`

	// Doublings is how many times the iteration count doubled before
	// the estimate converged or the budget ran out.
	Doublings int `json:"doublings"`

	// Converged reports whether the estimate met the deviation
	// threshold, as opposed to stopping on budget exhaustion.
	Converged bool `json:"converged"`
}

// quick measures t_n (the value for n iterations) and t_2n, estimates
// the per-iteration cost with the closed form
//
//	t = (t_n + 2·t_2n) / (5n)
//
// which minimizes the squared deviation of (n·t, 2n·t) from
// (t_n, t_2n), and accepts the estimate once that relative deviation
// drops below the significance threshold. Otherwise n doubles and the
// pair is measured again, until the measurement-time budget is
// exhausted; budget checks happen only between brackets, so the final
// doubling may overshoot by at most one step.
func (x *executor) quick(cfg Config) (*QuickEstimate, error) {
	budget := cfg.MeasurementTime
	start := now()

	n := uint64(1)
	for doublings := 0; ; doublings++ {
		tn, err := x.window(n)
		if err != nil {
			return nil, err
		}
		t2n, err := x.window(2 * n)
		if err != nil {
			return nil, err
		}

		t := (tn + 2*t2n) / (5 * float64(n))

		// Relative Euclidean residual of the model (n·t, 2n·t)
		// against the observations.
		rn := float64(n)*t - tn
		r2n := 2*float64(n)*t - t2n
		norm := math.Sqrt(tn*tn + t2n*t2n)
		converged := norm > 0 && math.Sqrt(rn*rn+r2n*r2n)/norm < cfg.SignificanceLevel

		est := &QuickEstimate{PerIteration: t, Doublings: doublings, Converged: converged}
		if converged {
			return est, nil
		}
		if sinceTimePoint(start) >= budget {
			return est, nil
		}
		if n >= 1<<62 {
			return est, nil
		}
		n *= 2
	}
}
