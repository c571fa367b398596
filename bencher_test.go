package statbench

import (
	"testing"
	"time"
)

// bracketCounter is a Measurement whose value counts closed brackets,
// which makes batching behavior directly observable.
type bracketCounter struct{ brackets int }

func (c *bracketCounter) Start() Intermediate     { c.brackets++; return nil }
func (c *bracketCounter) End(Intermediate) Value  { return float64(1) }
func (c *bracketCounter) Add(a, b Value) Value    { return a.(float64) + b.(float64) }
func (c *bracketCounter) Zero() Value             { return float64(0) }
func (c *bracketCounter) Float64(v Value) float64 { return v.(float64) }
func (c *bracketCounter) Unit() Unit              { return Unit{Label: "brackets", Scale: 1} }

func newBencher(m Measurement, iters uint64) *Bencher {
	return &Bencher{iters: iters, value: m.Zero(), m: m}
}

func TestBencher_Iter(t *testing.T) {
	m := &bracketCounter{}
	b := newBencher(m, 100)

	calls := 0
	b.Iter(func() { calls++ })

	if calls != 100 {
		t.Errorf("expected 100 calls, got %d", calls)
	}
	if !b.iterated {
		t.Error("iterated flag not set")
	}
	if m.brackets != 1 {
		t.Errorf("expected a single bracket, got %d", m.brackets)
	}
}

func TestBencher_IterValue(t *testing.T) {
	b := newBencher(&bracketCounter{}, 10)

	calls := 0
	IterValue(b, func() int { calls++; return calls })

	if calls != 10 {
		t.Errorf("expected 10 calls, got %d", calls)
	}
	if b.sink != 10 {
		t.Errorf("expected last value 10 kept alive, got %v", b.sink)
	}
}

func TestBencher_IterCustom(t *testing.T) {
	b := newBencher(WallTime{}, 64)

	b.IterCustom(func(iters uint64) Value {
		return time.Duration(iters) * time.Microsecond
	})

	got := WallTime{}.Float64(b.value)
	if got != 64_000 {
		t.Errorf("expected 64000ns, got %v", got)
	}
	if b.Iterations() != 64 {
		t.Errorf("Iterations: expected 64, got %d", b.Iterations())
	}
}

func TestBencher_IterBatched(t *testing.T) {
	m := &bracketCounter{}
	b := newBencher(m, 20)

	setups, calls := 0, 0
	IterBatched(b,
		func() int { setups++; return setups },
		func(in int) int { calls++; return in * 2 },
		FixedBatchSize(7))

	if setups != 20 || calls != 20 {
		t.Errorf("expected 20 setups and 20 calls, got %d and %d", setups, calls)
	}
	// 20 iterations in batches of 7: 7 + 7 + 6.
	if m.brackets != 3 {
		t.Errorf("expected 3 brackets, got %d", m.brackets)
	}
	if b.perIteration {
		t.Error("perIteration flag must not be set for fixed batches")
	}
}

func TestBencher_IterBatchedRef(t *testing.T) {
	b := newBencher(&bracketCounter{}, 5)

	IterBatchedRef(b,
		func() []int { return []int{3, 1, 2} },
		func(in *[]int) int { (*in)[0] = 0; return len(*in) },
		SmallInput)

	if !b.iterated {
		t.Error("iterated flag not set")
	}
}

func TestBencher_PerIterationFlag(t *testing.T) {
	m := &bracketCounter{}
	b := newBencher(m, 8)

	IterBatched(b,
		func() int { return 1 },
		func(in int) int { return in },
		PerIteration)

	if !b.perIteration {
		t.Error("perIteration flag not set")
	}
	if m.brackets != 8 {
		t.Errorf("expected one bracket per iteration, got %d", m.brackets)
	}
}

func TestBatchSize_ItersPerBatch(t *testing.T) {
	cases := []struct {
		name  string
		size  BatchSize
		total uint64
		want  uint64
	}{
		{"small exact", SmallInput, 100, 10},
		{"small rounds up", SmallInput, 101, 11},
		{"large", LargeInput, 5000, 5},
		{"large rounds up", LargeInput, 1001, 2},
		{"per iteration", PerIteration, 1000, 1},
		{"fixed", FixedBatchSize(64), 1000, 64},
		{"fixed zero floors at one", FixedBatchSize(0), 1000, 1},
	}
	for _, c := range cases {
		if got := c.size.itersPerBatch(c.total); got != c.want {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, got)
		}
	}
}
