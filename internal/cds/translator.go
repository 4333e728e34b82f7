package cds

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/enasequence/sequencetools-sub002/internal/diag"
	"github.com/enasequence/sequencetools-sub002/internal/gencode"
	"github.com/enasequence/sequencetools-sub002/internal/translator"
)

// Mode selects whether failures are only reported or also repaired.
type Mode int

const (
	ModeReport Mode = iota
	ModeFix
)

func (m Mode) String() string {
	if m == ModeFix {
		return "fix"
	}
	return "report"
}

// maxFixPasses bounds the translate/repair loop. Each strategy flips at
// most two flags and never reverses an earlier repair, so four passes
// always reach a fixed point.
const maxFixPasses = 4

// Options configures a Translator.
type Options struct {
	Mode Mode
	// DefaultTable is used for features without /transl_table.
	DefaultTable int
	// FixDegenerateStartCodon and FixRightPartialCodon only take effect in
	// fix mode.
	FixDegenerateStartCodon bool
	FixRightPartialCodon    bool
}

// DefaultOptions returns report mode with the standard genetic code.
func DefaultOptions() Options {
	return Options{
		Mode:                    ModeReport,
		DefaultTable:            1,
		FixDegenerateStartCodon: true,
		FixRightPartialCodon:    true,
	}
}

// Report is the outcome of translating one feature.
type Report struct {
	TableID int
	// Result is nil when the feature could not be translated at all.
	Result   *translator.Result
	Messages diag.List
	Fix      FixOutcome

	// Final feature state, after any fixes.
	LeftPartial  bool
	RightPartial bool
	Pseudo       bool
}

// HasErrors returns true if any ERROR message remains.
func (r *Report) HasErrors() bool {
	return r.Messages.HasErrors()
}

// Protein returns the conceptual translation, or "" if none was produced.
func (r *Report) Protein() string {
	if r.Result == nil {
		return ""
	}
	return r.Result.ConceptualTranslation
}

// Translator translates coding features.
type Translator struct {
	opts   Options
	logger *zap.Logger
}

// New creates a translator with the given options.
func New(opts Options) *Translator {
	if opts.DefaultTable == 0 {
		opts.DefaultTable = 1
	}
	return &Translator{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for fix and failure messages.
func (t *Translator) SetLogger(l *zap.Logger) {
	t.logger = l
}

// Options returns the translator configuration.
func (t *Translator) Options() Options {
	return t.opts
}

type prepared struct {
	bases      []byte
	table      int
	exceptions []translator.Exception
	codons     []translator.CodonException
}

// Translate translates f using bases from src. The feature is never
// modified; in fix mode the repairs are returned in Report.Fix for the
// caller to apply.
func (t *Translator) Translate(f Feature, src SequenceSource) *Report {
	s := newState(f)
	p, msgs := t.prepare(f, src)
	report := &Report{TableID: p.table}
	if msgs.HasErrors() {
		report.Messages = msgs
		report.LeftPartial, report.RightPartial, report.Pseudo = s.left, s.right, s.pseudo
		return report
	}

	res, msgs := t.run(s, p)
	if t.opts.Mode == ModeFix {
		fx := newFixer(s)
		var fixes diag.List
		for pass := 0; pass < maxFixPasses && msgs.HasErrors(); pass++ {
			m, ok := fx.apply(msgs)
			if !ok {
				break
			}
			fixes = append(fixes, m)
			t.logger.Debug("applied translation fix",
				zap.String("fix", string(m.Code)),
				zap.String("location", f.Location().String()))
			res, msgs = t.run(s, p)
		}
		report.Fix = fx.outcome
		msgs = append(fixes, msgs...)
	}

	if msgs.HasErrors() {
		t.logger.Debug("translation failed",
			zap.String("location", f.Location().String()),
			zap.String("messages", msgs.String()))
	}
	report.Result = res
	report.Messages = msgs
	report.LeftPartial, report.RightPartial, report.Pseudo = s.left, s.right, s.pseudo
	return report
}

// prepare extracts the bases and resolves the table and exceptions, none
// of which change between fix passes.
func (t *Translator) prepare(f Feature, src SequenceSource) (prepared, diag.List) {
	var p prepared
	var msgs diag.List

	loc := f.Location()
	if loc == nil {
		return p, diag.List{diag.Error(diag.CDSNoSequence)}
	}
	bases, err := src.Bases(loc)
	if err != nil || len(bases) == 0 {
		if err != nil {
			t.logger.Debug("extract feature bases", zap.String("location", loc.String()), zap.Error(err))
		}
		msgs = append(msgs, diag.Error(diag.CDSNoSequence))
	}
	p.bases = bases

	p.table = f.TranslationTable()
	if p.table == 0 {
		p.table = t.opts.DefaultTable
	}
	if _, err := gencode.Get(p.table); err != nil {
		msgs = append(msgs, diag.Error(diag.CDSInvalidTable, p.table))
	}

	for _, v := range f.QualifierValues(QualifierTranslExcept) {
		te, err := ParseTranslExcept(v)
		if err != nil {
			msgs = append(msgs, diag.Error(diag.CDSInvalidTranslExcept, v, err))
			continue
		}
		e, ok := featureException(te, loc)
		if !ok {
			r := te.Pos.Ranges[0]
			msgs = append(msgs, diag.Error(diag.CDSExceptionOutOfRange, r.Start, r.End))
			continue
		}
		p.exceptions = append(p.exceptions, e)
	}

	for _, v := range f.QualifierValues(QualifierCodon) {
		ce, err := ParseCodon(v)
		if err != nil {
			msgs = append(msgs, diag.Error(diag.CDSInvalidCodon, v, err))
			continue
		}
		p.codons = append(p.codons, ce)
	}
	return p, msgs
}

// run translates the current feature state once.
func (t *Translator) run(s *state, p prepared) (*translator.Result, diag.List) {
	var msgs diag.List
	declared, hasDeclared := s.Translation()
	if s.Pseudo() && hasDeclared {
		msgs = append(msgs, diag.Warning(diag.CDSPseudoTranslation))
	}

	fix := t.opts.Mode == ModeFix
	in := &translator.Input{
		Bases:                   p.bases,
		CodonStart:              s.CodonStart(),
		TableID:                 p.table,
		LeftPartial:             s.LeftPartial(),
		RightPartial:            s.RightPartial(),
		NonTranslating:          s.NonTranslating(),
		Pseudo:                  s.Pseudo(),
		FixDegenerateStartCodon: fix && t.opts.FixDegenerateStartCodon,
		FixRightPartialCodon:    fix && t.opts.FixRightPartialCodon,
		Exceptions:              p.exceptions,
		CodonExceptions:         p.codons,
	}

	res, err := translator.Translate(in)
	if err != nil {
		var failure *translator.Failure
		if errors.As(err, &failure) {
			return failure.Result, append(msgs, failure.Messages...)
		}
		return nil, append(msgs, diag.Error(diag.TranslatorInvalidException, err.Error()))
	}

	if hasDeclared && !s.Pseudo() && !s.NonTranslating() {
		computed, want := normalizeProtein(res.ConceptualTranslation), normalizeProtein(declared)
		if computed != want {
			msgs = append(msgs, diag.Error(diag.CDSTranslationMismatch, computed, want))
		}
	}
	return res, msgs
}

func normalizeProtein(p string) string {
	return strings.Join(strings.Fields(strings.ToUpper(p)), "")
}
