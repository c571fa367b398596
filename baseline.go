package statbench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BenchmarkID names one benchmark: group name plus function name plus
// an optional parameter value for parameterized benchmarks. Baselines
// are keyed by it; no two benchmarks in a suite may share an identity.
type BenchmarkID struct {
	Group     string `json:"group"`
	Function  string `json:"function"`
	Parameter string `json:"parameter,omitempty"`
}

// String renders the identity as group/function or
// group/function/parameter.
func (id BenchmarkID) String() string {
	if id.Parameter == "" {
		return id.Group + "/" + id.Function
	}
	return id.Group + "/" + id.Function + "/" + id.Parameter
}

// Baseline is a named, persisted benchmark result: the raw sample plus
// the estimates derived from it, as stored for future comparison.
type Baseline struct {
	Name      string    `json:"name"`
	Sample    *Sample   `json:"sample"`
	Estimates Estimates `json:"estimates"`
}

// BaselineStore is the durable record of named runs. The core reads a
// store once at comparison start and writes it once at run end per
// benchmark identity; the on-disk or on-wire format is the store's
// concern, not the statistics engine's. Concurrent processes writing
// the same identity and name are not safe against each other and must
// be serialized by the caller.
type BaselineStore interface {
	// Load returns the stored baseline for the identity under the
	// given name, or an error wrapping ErrBaselineNotFound if no such
	// record exists.
	Load(id BenchmarkID, name string) (*Baseline, error)

	// Store durably records the baseline for the identity under the
	// given name, replacing any previous record.
	Store(id BenchmarkID, name string, b *Baseline) error
}

// NewBaselineName is the reserved name under which the just-completed
// run's own data is stored for the duration of one invocation, so the
// comparison engine can diff it against any requested baseline without
// re-running anything.
const NewBaselineName = "new"

// DirStore is the default BaselineStore: one JSON file per identity
// and name under root/group/function[/parameter]/name.json.
type DirStore struct {
	root string
}

// NewDirStore creates the root directory if needed and returns a store
// rooted there.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create baseline root %s: %w", root, err)
	}
	return &DirStore{root: root}, nil
}

func (s *DirStore) path(id BenchmarkID, name string) string {
	parts := []string{s.root, pathComponent(id.Group), pathComponent(id.Function)}
	if id.Parameter != "" {
		parts = append(parts, pathComponent(id.Parameter))
	}
	parts = append(parts, pathComponent(name)+".json")
	return filepath.Join(parts...)
}

// Load implements BaselineStore.
func (s *DirStore) Load(id BenchmarkID, name string) (*Baseline, error) {
	data, err := os.ReadFile(s.path(id, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s %q", ErrBaselineNotFound, id, name)
		}
		return nil, fmt.Errorf("load baseline %s %q: %w", id, name, err)
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode baseline %s %q: %w", id, name, err)
	}
	return &b, nil
}

// Store implements BaselineStore.
func (s *DirStore) Store(id BenchmarkID, name string, b *Baseline) error {
	path := s.path(id, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create baseline dir for %s: %w", id, err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode baseline %s %q: %w", id, name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store baseline %s %q: %w", id, name, err)
	}
	return nil
}

// pathComponent makes an identity part safe to use as a directory
// entry.
func pathComponent(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
}

// MemStore is an in-memory BaselineStore for tests and for callers who
// manage persistence themselves.
type MemStore struct {
	records map[string]*Baseline
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]*Baseline)}
}

func memKey(id BenchmarkID, name string) string {
	return id.String() + "\x00" + name
}

// Load implements BaselineStore.
func (s *MemStore) Load(id BenchmarkID, name string) (*Baseline, error) {
	b, ok := s.records[memKey(id, name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrBaselineNotFound, id, name)
	}
	return b, nil
}

// Store implements BaselineStore.
func (s *MemStore) Store(id BenchmarkID, name string, b *Baseline) error {
	s.records[memKey(id, name)] = b
	return nil
}
