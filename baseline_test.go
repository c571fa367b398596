package statbench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBaseline(name string) *Baseline {
	return &Baseline{
		Name: name,
		Sample: &Sample{
			Iterations: []uint64{10, 20, 30},
			Values:     []float64{105.5, 198.25, 310.125},
		},
		Estimates: Estimates{
			Mean:   Estimate{Point: 10.2, LowerBound: 9.8, UpperBound: 10.7, StandardError: 0.2, ConfidenceLevel: 0.95},
			Median: Estimate{Point: 10.0, LowerBound: 9.7, UpperBound: 10.4, StandardError: 0.15, ConfidenceLevel: 0.95},
		},
	}
}

func TestBenchmarkID_String(t *testing.T) {
	id := BenchmarkID{Group: "hashing", Function: "fnv"}
	assert.Equal(t, "hashing/fnv", id.String())

	id.Parameter = "1024"
	assert.Equal(t, "hashing/fnv/1024", id.String())
}

func TestDirStore_RoundTrip(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	id := BenchmarkID{Group: "hashing", Function: "fnv", Parameter: "1024"}
	in := sampleBaseline("base")

	require.NoError(t, store.Store(id, "base", in))

	out, err := store.Load(id, "base")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDirStore_Missing(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(BenchmarkID{Group: "g", Function: "f"}, "base")
	assert.ErrorIs(t, err, ErrBaselineNotFound)
}

// TestDirStore_HostileNames checks identity parts that would escape
// the store's directory layout.
func TestDirStore_HostileNames(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	id := BenchmarkID{Group: "io", Function: "read/write", Parameter: "n:1000"}
	in := sampleBaseline("base")

	require.NoError(t, store.Store(id, "base", in))
	out, err := store.Load(id, "base")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDirStore_Overwrite(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	id := BenchmarkID{Group: "g", Function: "f"}
	require.NoError(t, store.Store(id, "base", sampleBaseline("base")))

	updated := sampleBaseline("base")
	updated.Sample.Values[0] = 999
	require.NoError(t, store.Store(id, "base", updated))

	out, err := store.Load(id, "base")
	require.NoError(t, err)
	assert.Equal(t, 999.0, out.Sample.Values[0])
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	id := BenchmarkID{Group: "g", Function: "f"}

	_, err := store.Load(id, "base")
	if !errors.Is(err, ErrBaselineNotFound) {
		t.Fatalf("expected ErrBaselineNotFound, got %v", err)
	}

	in := sampleBaseline("base")
	require.NoError(t, store.Store(id, "base", in))

	out, err := store.Load(id, "base")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// Same function, different parameter: a distinct identity.
	_, err = store.Load(BenchmarkID{Group: "g", Function: "f", Parameter: "x"}, "base")
	assert.ErrorIs(t, err, ErrBaselineNotFound)
}
