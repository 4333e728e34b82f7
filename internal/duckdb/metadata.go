package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run describes one recorded validation run.
type Run struct {
	ID        int64
	Input     FileFingerprint
	Mode      string
	Features  int
	Failed    int
	Fixed     int
	StartedAt time.Time
}

// Matches reports whether the run was made over an identical input file.
func (r *Run) Matches(fp FileFingerprint) bool {
	return r.Input.Path == fp.Path &&
		r.Input.Size == fp.Size &&
		r.Input.ModTime.UnixNano() == fp.ModTime.UnixNano()
}

// StartRun records a new run over input and returns its id.
func (s *Store) StartRun(input FileFingerprint, mode string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`INSERT INTO runs (input_path, input_size, input_mtime_ns, mode, started_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		input.Path, input.Size, input.ModTime.UnixNano(), mode, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// FinishRun stores the feature counts of a completed run.
func (s *Store) FinishRun(id int64, features, failed, fixed int) error {
	_, err := s.db.Exec(`UPDATE runs SET features=?, failed=?, fixed=? WHERE id=?`,
		int64(features), int64(failed), int64(fixed), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run over the given input path, or nil if
// there is none.
func (s *Store) LastRun(path string) (*Run, error) {
	var (
		r     Run
		mtime int64
	)
	err := s.db.QueryRow(`SELECT id, input_path, input_size, input_mtime_ns, mode,
		features, failed, fixed, started_at
		FROM runs WHERE input_path=? ORDER BY id DESC LIMIT 1`, path).Scan(
		&r.ID, &r.Input.Path, &r.Input.Size, &mtime, &r.Mode,
		&r.Features, &r.Failed, &r.Fixed, &r.StartedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}
	r.Input.ModTime = time.Unix(0, mtime)
	return &r, nil
}
