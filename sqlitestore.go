package statbench

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// SQLiteStore is a BaselineStore backed by an embedded SQLite
// database: a single portable file that survives renames of the
// benchmark source tree and can be queried with external tooling.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at path
// and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open baseline database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping baseline database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate baseline database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS baselines (
		group_name    TEXT NOT NULL,
		function_name TEXT NOT NULL,
		parameter     TEXT NOT NULL DEFAULT '',
		baseline_name TEXT NOT NULL,
		record        TEXT NOT NULL,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (group_name, function_name, parameter, baseline_name)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load implements BaselineStore.
func (s *SQLiteStore) Load(id BenchmarkID, name string) (*Baseline, error) {
	query := `SELECT record FROM baselines
		WHERE group_name = ? AND function_name = ? AND parameter = ? AND baseline_name = ?`
	var record string
	err := s.db.QueryRow(query, id.Group, id.Function, id.Parameter, name).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %q", ErrBaselineNotFound, id, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load baseline %s %q: %w", id, name, err)
	}
	var b Baseline
	if err := json.Unmarshal([]byte(record), &b); err != nil {
		return nil, fmt.Errorf("decode baseline %s %q: %w", id, name, err)
	}
	return &b, nil
}

// Store implements BaselineStore.
func (s *SQLiteStore) Store(id BenchmarkID, name string, b *Baseline) error {
	record, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline %s %q: %w", id, name, err)
	}
	query := `INSERT INTO baselines (group_name, function_name, parameter, baseline_name, record, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (group_name, function_name, parameter, baseline_name)
		DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.Exec(query, id.Group, id.Function, id.Parameter, name, string(record)); err != nil {
		return fmt.Errorf("store baseline %s %q: %w", id, name, err)
	}
	return nil
}
