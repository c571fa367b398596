package statbench

// BatchSize is the policy controlling how many fresh inputs a batched
// timing loop generates and times together inside one measurement
// bracket, trading memory for measurement overhead.
type BatchSize struct {
	kind  batchKind
	count uint64
}

type batchKind int8

const (
	batchSmall batchKind = iota
	batchLarge
	batchPerIteration
	batchFixed
)

// SmallInput batches roughly a tenth of the window's iterations at a
// time. The right choice when inputs are cheap to hold in memory.
var SmallInput = BatchSize{kind: batchSmall}

// LargeInput batches roughly a thousandth of the window's iterations at
// a time, keeping memory bounded for big inputs at a small increase in
// bracketing overhead.
var LargeInput = BatchSize{kind: batchLarge}

// PerIteration sets up and drops each input on the critical path of
// every single iteration. Measurements taken this way are inflated by
// the setup and drop cost; the run is annotated with a warning. Use it
// only when an input genuinely cannot be shared or batched.
var PerIteration = BatchSize{kind: batchPerIteration}

// FixedBatchSize batches exactly n iterations per bracket.
func FixedBatchSize(n uint64) BatchSize {
	return BatchSize{kind: batchFixed, count: n}
}

// itersPerBatch resolves the policy for a window of total iterations.
func (s BatchSize) itersPerBatch(total uint64) uint64 {
	switch s.kind {
	case batchSmall:
		return (total + 9) / 10
	case batchLarge:
		return (total + 999) / 1000
	case batchPerIteration:
		return 1
	default:
		return max(s.count, 1)
	}
}

// Bencher drives the benchmarked routine for one measurement window.
// The planner decides the iteration count; the benchmark function
// chooses the execution strategy by calling exactly one of the Iter
// variants, which must run the routine that many times and record one
// measured value.
type Bencher struct {
	iters        uint64
	value        Value
	m            Measurement
	iterated     bool
	perIteration bool

	// sink keeps routine outputs alive past the measurement bracket so
	// the compiler cannot elide the benchmarked work. It is written
	// only after End.
	sink any
}

// Iterations returns the number of iterations this window must run.
// Only IterCustom callers normally need it.
func (b *Bencher) Iterations() uint64 { return b.iters }

// Iter times routine back-to-back with zero per-iteration overhead.
// For routines whose result must be kept alive to prevent the work
// being optimized away, use IterValue instead.
func (b *Bencher) Iter(routine func()) {
	b.iterated = true
	start := b.m.Start()
	for i := uint64(0); i < b.iters; i++ {
		routine()
	}
	b.value = b.m.Add(b.value, b.m.End(start))
}

// IterCustom hands the whole window to the caller: f must execute
// iters iterations of the workload, timing them itself, and return the
// measured value. Used for workloads that cannot be expressed as "call
// this closure N times", such as driving an external process or
// measuring a thread pool's aggregate throughput.
func (b *Bencher) IterCustom(f func(iters uint64) Value) {
	b.iterated = true
	b.value = b.m.Add(b.value, f(b.iters))
}

// IterValue times routine back-to-back and keeps its last return value
// alive until after the measurement bracket closes, so the routine's
// result is consumed without adding any work inside the bracket.
func IterValue[R any](b *Bencher, routine func() R) {
	b.iterated = true
	var last R
	start := b.m.Start()
	for i := uint64(0); i < b.iters; i++ {
		last = routine()
	}
	b.value = b.m.Add(b.value, b.m.End(start))
	b.sink = last
}

// IterBatched generates batches of fresh inputs with setup, times
// routine over each input inside one bracket per batch, and defers
// dropping the collected outputs until the bracket has closed. Input
// generation and output disposal therefore stay off the measurement's
// critical path for every policy except PerIteration.
func IterBatched[I, O any](b *Bencher, setup func() I, routine func(I) O, size BatchSize) {
	iterBatched(b, setup, routine, size)
}

// IterBatchedRef is IterBatched for routines that mutate their input in
// place rather than consuming it.
func IterBatchedRef[I, O any](b *Bencher, setup func() I, routine func(*I) O, size BatchSize) {
	iterBatched(b, setup, func(in I) O { return routine(&in) }, size)
}

func iterBatched[I, O any](b *Bencher, setup func() I, routine func(I) O, size BatchSize) {
	b.iterated = true
	if size.kind == batchPerIteration {
		b.perIteration = true
	}
	remaining := b.iters
	batch := size.itersPerBatch(b.iters)
	for remaining > 0 {
		n := min(batch, remaining)

		inputs := make([]I, 0, n)
		for i := uint64(0); i < n; i++ {
			inputs = append(inputs, setup())
		}
		outputs := make([]O, 0, n)

		start := b.m.Start()
		for _, in := range inputs {
			outputs = append(outputs, routine(in))
		}
		b.value = b.m.Add(b.value, b.m.End(start))

		// Outputs (and inputs) become garbage only here, outside the
		// bracket.
		b.sink = outputs
		remaining -= n
	}
}
