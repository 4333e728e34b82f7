// Package duckdb stores translation results in DuckDB so that validation
// runs can be queried after the fact.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding translation results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, "" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS run_ids START 1`,
	`CREATE TABLE IF NOT EXISTS runs (
		id BIGINT PRIMARY KEY DEFAULT nextval('run_ids'),
		input_path VARCHAR,
		input_size BIGINT,
		input_mtime_ns BIGINT,
		mode VARCHAR,
		features BIGINT DEFAULT 0,
		failed BIGINT DEFAULT 0,
		fixed BIGINT DEFAULT 0,
		started_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS translation_results (
		run_id BIGINT,
		feature_seq BIGINT,
		accession VARCHAR,
		location VARCHAR,
		fixed_location VARCHAR,
		table_id BIGINT,
		status VARCHAR,
		protein VARCHAR,
		left_partial BOOLEAN,
		right_partial BOOLEAN,
		pseudo BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS translation_messages (
		run_id BIGINT,
		feature_seq BIGINT,
		accession VARCHAR,
		location VARCHAR,
		severity VARCHAR,
		code VARCHAR,
		text VARCHAR
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
