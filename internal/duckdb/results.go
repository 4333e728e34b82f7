package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/enasequence/sequencetools-sub002/internal/diag"
)

// FeatureResult is the stored translation outcome of one coding feature.
type FeatureResult struct {
	Seq           int // position of the feature in the run
	Accession     string
	Location      string
	FixedLocation string // empty unless the feature was repaired
	TableID       int
	Status        string
	Protein       string
	LeftPartial   bool
	RightPartial  bool
	Pseudo        bool
	Messages      diag.List
}

// resultKey identifies a feature within a run. Seq keeps features that share
// a location in the same entry apart.
type resultKey struct {
	accession, location string
	seq                 int
}

// WriteResults batch-inserts feature results for a run using the Appender API.
// A feature repeated within results (same Seq, accession and location) is
// only written once.
func (s *Store) WriteResults(runID int64, results []FeatureResult) error {
	if len(results) == 0 {
		return nil
	}

	seen := make(map[resultKey]bool, len(results))
	deduped := make([]FeatureResult, 0, len(results))
	for _, r := range results {
		k := resultKey{r.Accession, r.Location, r.Seq}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var resultApp, messageApp *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		resultApp, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "translation_results")
		if err != nil {
			return err
		}
		messageApp, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "translation_messages")
		return err
	}); err != nil {
		if resultApp != nil {
			resultApp.Close()
		}
		return fmt.Errorf("create appender: %w", err)
	}
	defer resultApp.Close()
	defer messageApp.Close()

	for _, r := range deduped {
		if err := resultApp.AppendRow(
			runID, int64(r.Seq), r.Accession, r.Location, r.FixedLocation, int64(r.TableID),
			r.Status, r.Protein, r.LeftPartial, r.RightPartial, r.Pseudo,
		); err != nil {
			return fmt.Errorf("append translation result: %w", err)
		}
		for _, m := range r.Messages {
			if err := messageApp.AppendRow(
				runID, int64(r.Seq), r.Accession, r.Location, string(m.Severity), string(m.Code), m.Text,
			); err != nil {
				return fmt.Errorf("append translation message: %w", err)
			}
		}
	}

	if err := resultApp.Flush(); err != nil {
		return fmt.Errorf("flush translation results: %w", err)
	}
	return messageApp.Flush()
}

// ClearResults removes all stored results, messages and runs.
func (s *Store) ClearResults() error {
	for _, table := range []string{"translation_messages", "translation_results", "runs"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// LookupFeature returns the most recently stored result for a feature, or
// nil if it was never translated. If several features of the entry share the
// location, the first one of the run is returned.
func (s *Store) LookupFeature(accession, location string) (*FeatureResult, error) {
	rows, err := s.db.Query(`SELECT
		run_id, feature_seq, accession, location, fixed_location, table_id,
		status, protein, left_partial, right_partial, pseudo
		FROM translation_results
		WHERE accession=? AND location=?
		ORDER BY run_id DESC, feature_seq LIMIT 1`, accession, location)
	if err != nil {
		return nil, fmt.Errorf("query feature: %w", err)
	}
	runs, found, err := scanFeatureResults(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}

	r := &found[0]
	r.Messages, err = s.messages(runs[0], r)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SearchByStatus returns the results of a run with the given status
// (ERROR, FIXED, WARNING or OK), in feature order.
func (s *Store) SearchByStatus(runID int64, status string) ([]FeatureResult, error) {
	rows, err := s.db.Query(`SELECT
		run_id, feature_seq, accession, location, fixed_location, table_id,
		status, protein, left_partial, right_partial, pseudo
		FROM translation_results
		WHERE run_id=? AND status=?
		ORDER BY feature_seq`, runID, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	_, found, err := scanFeatureResults(rows)
	return found, err
}

// CountByCode returns the number of messages per code stored for a run.
func (s *Store) CountByCode(runID int64) (map[diag.Code]int, error) {
	rows, err := s.db.Query(`SELECT code, COUNT(*) FROM translation_messages
		WHERE run_id=? GROUP BY code`, runID)
	if err != nil {
		return nil, fmt.Errorf("count by code: %w", err)
	}
	defer rows.Close()

	counts := make(map[diag.Code]int)
	for rows.Next() {
		var (
			code string
			n    int
		)
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("scan code count: %w", err)
		}
		counts[diag.Code(code)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate code counts: %w", err)
	}
	return counts, nil
}

func (s *Store) messages(runID int64, r *FeatureResult) (diag.List, error) {
	rows, err := s.db.Query(`SELECT severity, code, text FROM translation_messages
		WHERE run_id=? AND feature_seq=? AND accession=? AND location=?`,
		runID, int64(r.Seq), r.Accession, r.Location)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs diag.List
	for rows.Next() {
		var sev, code, text string
		if err := rows.Scan(&sev, &code, &text); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, diag.Message{Severity: diag.Severity(sev), Code: diag.Code(code), Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}

// scanFeatureResults scans and closes rows, returning each result's run id
// alongside it.
func scanFeatureResults(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}) ([]int64, []FeatureResult, error) {
	defer rows.Close()

	var (
		runs    []int64
		results []FeatureResult
	)
	for rows.Next() {
		var (
			runID int64
			r     FeatureResult
		)
		if err := rows.Scan(
			&runID, &r.Seq, &r.Accession, &r.Location, &r.FixedLocation, &r.TableID,
			&r.Status, &r.Protein, &r.LeftPartial, &r.RightPartial, &r.Pseudo,
		); err != nil {
			return nil, nil, fmt.Errorf("scan translation result: %w", err)
		}
		runs = append(runs, runID)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate translation results: %w", err)
	}
	return runs, results, nil
}
