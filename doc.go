// Package statbench provides statistics-driven micro-benchmarking with
// regression detection.
//
// # Overview
//
// statbench measures how long a routine takes per iteration, quantifies
// the uncertainty of that figure with bootstrap confidence intervals,
// and decides whether performance changed between runs using a
// significance test rather than eyeballing two numbers.
//
// # Architecture
//
// The package layers:
//
//   - measurement  - pluggable value collection (wall time, counters)
//   - planning     - warmup, linear/flat sampling plans, quick mode
//   - analysis     - bootstrap estimates, outlier census, slope fit
//   - comparison   - baseline persistence and change verdicts
//   - assertions   - test helpers for performance gates
//
// # Quick Start
//
// Declare a suite, register benchmarks, run:
//
//	suite := statbench.NewSuite(statbench.DefaultConfig())
//	suite.Store, _ = statbench.NewDirStore("bench-data")
//
//	g := suite.Group("hashing")
//	g.Bench("fnv", func(b *statbench.Bencher) {
//	    b.Iter(func() { hashInput(data) })
//	})
//
//	run := suite.Run()
//	if err := run.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// Each benchmark warms up, collects a sample of timing windows, and
// reports a typical time per iteration with a confidence interval:
//
//	for _, rep := range run.Reports {
//	    typ := rep.Typical()
//	    fmt.Printf("%s: %.2f%s [%.2f, %.2f]\n",
//	        rep.ID, typ.Point, rep.Unit.Label, typ.LowerBound, typ.UpperBound)
//	}
//
// # Measurement Loops
//
// The Bencher offers several iteration shapes. Iter times a bare
// closure; IterValue keeps the routine's result alive so the compiler
// cannot discard the work; IterBatched moves per-input setup and
// cleanup outside the timed bracket:
//
//	g.Bench("sort", func(b *statbench.Bencher) {
//	    statbench.IterBatched(b,
//	        func() []int { return rand.Perm(1000) },
//	        func(xs []int) []int { sort.Ints(xs); return xs },
//	        statbench.SmallInput)
//	})
//
// # Change Detection
//
// With a store configured, every run is compared against the previous
// one. The verdict separates statistical significance from practical
// relevance:
//
//	if rep.Change != nil {
//	    switch rep.Change.Verdict {
//	    case statbench.VerdictRegressed:
//	        log.Printf("%s got %.1f%% slower (p=%.4f)",
//	            rep.ID, rep.Change.MeanDelta.Point*100, rep.Change.PValue)
//	    case statbench.VerdictNoise:
//	        // Detectable but below the noise threshold. Ignore.
//	    }
//	}
//
// The decision runs in two phases. A mixed two-sample bootstrap of the
// Welch t statistic tests "did anything change at all"; only if that
// rejects does the relative-change interval decide between Improved,
// Regressed, and Noise.
//
// # Outliers
//
// Every sample gets a Tukey-fence census: mild outliers beyond 1.5 IQR,
// severe beyond 3 IQR. Outliers are counted and reported, never
// removed; the bootstrap absorbs them, and hiding them would hide real
// tail behavior.
//
// # Testing
//
// Use assertions to gate merges on performance:
//
//	func TestPerformance(t *testing.T) {
//	    run := buildSuite().Run()
//	    statbench.AssertNoRegression(t, run, statbench.DefaultAssertionConfig())
//	}
//
// # Philosophy
//
// A single timing number answers: "how fast was it this time?"
// statbench answers: "how fast is it, how sure are we, and did it
// change?"
//
//   - Point estimates carry confidence intervals, not false precision.
//   - Comparisons carry p-values, not gut feel.
//   - A 0.3% delta with p=0.001 is real but irrelevant; the noise
//     threshold keeps it out of your CI failures.
//
// # See Also
//
//   - examples/setbench - a complete suite benchmarking a set library
package statbench
