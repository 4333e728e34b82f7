// Package validate runs the coding feature translator over every CDS
// feature of a set of entries.
package validate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/enasequence/sequencetools-sub002/internal/cds"
	"github.com/enasequence/sequencetools-sub002/internal/diag"
	"github.com/enasequence/sequencetools-sub002/internal/entry"
)

// Result is the translation outcome of one coding feature.
type Result struct {
	Seq       int
	Accession string
	// Location is the feature location before any fix was applied.
	Location string
	Feature  *entry.Feature
	Report   *cds.Report
}

// Status summarises a result as ERROR, FIXED, WARNING or OK.
func (r *Result) Status() string {
	switch {
	case r.Report.HasErrors():
		return "ERROR"
	case !r.Report.Fix.Empty():
		return "FIXED"
	case r.Report.Messages.Count(diag.SeverityWarning) > 0:
		return "WARNING"
	default:
		return "OK"
	}
}

// ResultWriter consumes results in feature order.
type ResultWriter interface {
	WriteResult(r *Result) error
	Flush() error
}

// Summary counts the outcome of a validation run.
type Summary struct {
	Entries  int
	Features int
	Failed   int
	Fixed    int
	Messages diag.List
}

// Validator translates coding features, optionally repairing them.
type Validator struct {
	translator *cds.Translator
	workers    int
	logger     *zap.Logger
}

// NewValidator creates a validator using the given translator.
func NewValidator(t *cds.Translator) *Validator {
	return &Validator{
		translator: t,
		logger:     zap.NewNop(),
	}
}

// SetWorkers sets the number of translation workers. Zero uses
// runtime.NumCPU().
func (v *Validator) SetWorkers(n int) {
	v.workers = n
}

// SetLogger sets the logger for progress and failure messages.
func (v *Validator) SetLogger(l *zap.Logger) {
	v.logger = l
	v.translator.SetLogger(l)
}

// Validate translates every CDS feature in set and passes the results to
// writers in entry and feature order. In fix mode the repairs are applied
// to the features in set. Translation failures are reported per feature
// and never stop the run; writer errors and cancellation do.
func (v *Validator) Validate(ctx context.Context, set *entry.Set, writers ...ResultWriter) (*Summary, error) {
	items := make(chan WorkItem, 2*max(v.workers, 1))
	go func() {
		defer close(items)
		seq := 0
		for _, e := range set.Entries() {
			for _, f := range e.CodingFeatures() {
				select {
				case items <- WorkItem{Seq: seq, Entry: e, Feature: f, Location: f.Loc.String()}:
					seq++
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	summary := &Summary{Entries: set.Len()}
	fix := v.translator.Options().Mode == cds.ModeFix
	err := OrderedCollect(v.ParallelTranslate(items, v.workers), func(wr WorkResult) error {
		report := wr.Report
		if fix && !report.Fix.Empty() {
			report.Fix.Apply(wr.Feature)
			summary.Fixed++
			v.logger.Info("fixed coding feature",
				zap.String("entry", wr.Entry.Accession),
				zap.String("location", wr.Location),
				zap.String("fixed_location", wr.Feature.Loc.String()),
				zap.Int("fixes", len(report.Fix.Strategies)))
		}
		if report.HasErrors() {
			summary.Failed++
			v.logger.Warn("coding feature failed translation",
				zap.String("entry", wr.Entry.Accession),
				zap.String("location", wr.Location),
				zap.String("messages", report.Messages.String()))
		}
		summary.Features++
		summary.Messages = append(summary.Messages, report.Messages...)

		r := &Result{
			Seq:       wr.Seq,
			Accession: wr.Entry.Accession,
			Location:  wr.Location,
			Feature:   wr.Feature,
			Report:    report,
		}
		for _, w := range writers {
			if err := w.WriteResult(r); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	for _, w := range writers {
		if err := w.Flush(); err != nil {
			return summary, fmt.Errorf("flush results: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
