package duckdb

import (
	"github.com/enasequence/sequencetools-sub002/internal/validate"
)

// defaultBatchSize is the number of results buffered before an append.
const defaultBatchSize = 1000

// ResultWriter stores validation results of one run. It implements
// validate.ResultWriter.
type ResultWriter struct {
	store     *Store
	runID     int64
	batchSize int
	pending   []FeatureResult
}

// NewResultWriter creates a writer appending to the given run.
func NewResultWriter(s *Store, runID int64) *ResultWriter {
	return &ResultWriter{store: s, runID: runID, batchSize: defaultBatchSize}
}

// WriteResult buffers a result, appending the batch once it is full.
func (w *ResultWriter) WriteResult(r *validate.Result) error {
	w.pending = append(w.pending, featureResult(r))
	if len(w.pending) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush appends all buffered results.
func (w *ResultWriter) Flush() error {
	if err := w.store.WriteResults(w.runID, w.pending); err != nil {
		return err
	}
	w.pending = w.pending[:0]
	return nil
}

func featureResult(r *validate.Result) FeatureResult {
	fr := FeatureResult{
		Seq:          r.Seq,
		Accession:    r.Accession,
		Location:     r.Location,
		TableID:      r.Report.TableID,
		Status:       r.Status(),
		Protein:      r.Report.Protein(),
		LeftPartial:  r.Report.LeftPartial,
		RightPartial: r.Report.RightPartial,
		Pseudo:       r.Report.Pseudo,
		Messages:     r.Report.Messages,
	}
	if !r.Report.Fix.Empty() && r.Feature != nil {
		fr.FixedLocation = r.Feature.Loc.String()
	}
	return fr
}
