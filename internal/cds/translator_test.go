package cds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enasequence/sequencetools-sub002/internal/diag"
	"github.com/enasequence/sequencetools-sub002/internal/location"
)

type fakeFeature struct {
	loc            *location.Location
	codonStart     int
	table          int
	pseudo         bool
	nonTranslating bool
	translation    string
	hasTranslation bool
	qualifiers     map[string][]string
}

func (f *fakeFeature) Location() *location.Location { return f.loc }
func (f *fakeFeature) CodonStart() int              { return f.codonStart }
func (f *fakeFeature) TranslationTable() int        { return f.table }
func (f *fakeFeature) LeftPartial() bool            { return f.loc.FivePrimePartial() }
func (f *fakeFeature) RightPartial() bool           { return f.loc.ThreePrimePartial() }
func (f *fakeFeature) Pseudo() bool                 { return f.pseudo }
func (f *fakeFeature) NonTranslating() bool         { return f.nonTranslating }

func (f *fakeFeature) Translation() (string, bool) { return f.translation, f.hasTranslation }

func (f *fakeFeature) QualifierValues(name string) []string { return f.qualifiers[name] }

func (f *fakeFeature) SetLeftPartial(p bool)  { f.loc.SetFivePrimePartial(p) }
func (f *fakeFeature) SetRightPartial(p bool) { f.loc.SetThreePrimePartial(p) }
func (f *fakeFeature) MarkPseudo()            { f.pseudo = true }
func (f *fakeFeature) ClearDeclaredTranslation() {
	f.translation, f.hasTranslation = "", false
}

type fakeSequence []byte

func (s fakeSequence) Bases(loc *location.Location) ([]byte, error) {
	return loc.Extract(s)
}

func newFeature(t *testing.T, loc string, table int) *fakeFeature {
	t.Helper()
	l, err := location.Parse(loc)
	require.NoError(t, err)
	return &fakeFeature{loc: l, table: table, qualifiers: map[string][]string{}}
}

func reportTranslator() *Translator {
	return New(DefaultOptions())
}

func fixTranslator() *Translator {
	opts := DefaultOptions()
	opts.Mode = ModeFix
	return New(opts)
}

func TestTranslate_InternalStopReport(t *testing.T) {
	f := newFeature(t, "1..12", 11)
	r := reportTranslator().Translate(f, fakeSequence("atgtagaaatag"))

	assert.True(t, r.HasErrors())
	assert.Equal(t, []diag.Code{diag.TranslatorInternalStopCodon}, r.Messages.Codes())
	assert.True(t, r.Fix.Empty())
	assert.Equal(t, "M*K", r.Protein())
	assert.False(t, f.pseudo)
}

func TestTranslate_InternalStopFixMakesPseudo(t *testing.T) {
	f := newFeature(t, "1..12", 11)
	f.translation, f.hasTranslation = "MK", true

	r := fixTranslator().Translate(f, fakeSequence("atgtagaaatag"))
	assert.False(t, r.HasErrors(), "messages: %s", r.Messages)
	assert.Equal(t, []diag.Code{diag.FixInternalStopCodonMakePseudo}, r.Messages.Codes())
	assert.Equal(t, diag.SeverityFix, r.Messages[0].Severity)
	assert.Equal(t, []Mutation{{Kind: MarkPseudo}, {Kind: ClearDeclaredTranslation}}, r.Fix.Mutations)
	assert.True(t, r.Pseudo)
	assert.Empty(t, r.Protein())

	// The engine itself never touches the feature.
	assert.False(t, f.pseudo)
	r.Fix.Apply(f)
	assert.True(t, f.pseudo)
	assert.False(t, f.hasTranslation)
	assert.Equal(t, "1..12", f.loc.String())
}

func TestTranslate_NoStopCodon(t *testing.T) {
	f := newFeature(t, "1..3", 1)
	r := reportTranslator().Translate(f, fakeSequence("atg"))
	assert.Equal(t, []diag.Code{diag.TranslatorNoStopCodon}, r.Messages.Codes())

	r = fixTranslator().Translate(f, fakeSequence("atg"))
	assert.False(t, r.HasErrors())
	assert.Equal(t, []diag.Code{diag.FixNoStopCodonMake3Partial}, r.Messages.Codes())
	assert.Equal(t, []Mutation{{Kind: SetRightPartial, Value: true}}, r.Fix.Mutations)
	assert.True(t, r.RightPartial)
	assert.Equal(t, "M", r.Protein())

	r.Fix.Apply(f)
	assert.True(t, f.RightPartial())
	assert.Equal(t, "1..>3", f.loc.String())
}

func TestTranslate_FixIsIdempotent(t *testing.T) {
	seq := fakeSequence("atgaaag")
	f := newFeature(t, "1..7", 1)
	tr := fixTranslator()

	first := tr.Translate(f, seq)
	require.False(t, first.HasErrors(), "messages: %s", first.Messages)
	require.False(t, first.Fix.Empty())
	first.Fix.Apply(f)

	second := tr.Translate(f, seq)
	assert.True(t, second.Fix.Empty())
	assert.Zero(t, second.Messages.Count(diag.SeverityFix))
	assert.Equal(t, first.Protein(), second.Protein())
	assert.Equal(t, first.LeftPartial, second.LeftPartial)
	assert.Equal(t, first.RightPartial, second.RightPartial)
}

func TestTranslate_FixStrategies(t *testing.T) {
	tests := []struct {
		name       string
		loc        string
		codonStart int
		seq        string
		report     diag.Code
		fix        diag.Code
		wantLoc    string
		protein    string
	}{
		{"non multiple of three", "1..7", 0, "atgaaag", diag.TranslatorNonMultipleOfThree, diag.FixNonMultipleOfThreeMake3And5Partial, "<1..>7", "MK"},
		{"stop codon on 3' partial", "1..>6", 0, "atgtaa", diag.TranslatorStopCodon3Partial, diag.FixValidStopCodonRemove3Partial, "1..6", "M"},
		{"no start codon", "1..6", 0, "aaataa", diag.TranslatorNoStartCodon, diag.FixNoStartCodonMake5Partial, "<1..6", "K"},
		{"codon start not one", "1..10", 2, "aatgaaataa", diag.TranslatorCodonStartNotOne, diag.FixCodonStartNotOneMake5Partial, "<1..10", "MK"},
		{"no stop codon on complement", "complement(1..3)", 0, "cat", diag.TranslatorNoStopCodon, diag.FixNoStopCodonMake3Partial, "complement(<1..3)", "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeature(t, tt.loc, 1)
			f.codonStart = tt.codonStart

			r := reportTranslator().Translate(f, fakeSequence(tt.seq))
			assert.True(t, r.Messages.Has(tt.report), "report messages: %s", r.Messages)

			r = fixTranslator().Translate(f, fakeSequence(tt.seq))
			require.False(t, r.HasErrors(), "fix messages: %s", r.Messages)
			assert.Equal(t, []diag.Code{tt.fix}, r.Fix.Strategies)
			assert.Equal(t, tt.protein, r.Protein())

			r.Fix.Apply(f)
			assert.Equal(t, tt.wantLoc, f.loc.String())
		})
	}
}

func TestTranslate_UnresolvedErrorsDegradeToReport(t *testing.T) {
	f := newFeature(t, "1..12", 1)
	r := fixTranslator().Translate(f, fakeSequence("atgaaataataa"))
	assert.Equal(t, []diag.Code{diag.TranslatorMultipleStopCodons}, r.Messages.Codes())
	assert.Equal(t, diag.SeverityError, r.Messages[0].Severity)
	assert.True(t, r.Fix.Empty())
}

func TestTranslate_DeclaredTranslation(t *testing.T) {
	seq := fakeSequence("atgaaataa")

	f := newFeature(t, "1..9", 1)
	f.translation, f.hasTranslation = " m k ", true
	r := reportTranslator().Translate(f, seq)
	assert.Empty(t, r.Messages)

	f.translation = "MR"
	for _, tr := range []*Translator{reportTranslator(), fixTranslator()} {
		r = tr.Translate(f, seq)
		assert.Equal(t, []diag.Code{diag.CDSTranslationMismatch}, r.Messages.Codes(), "mode %s", tr.Options().Mode)
		assert.Contains(t, r.Messages[0].Text, `"MK"`)
		assert.Contains(t, r.Messages[0].Text, `"MR"`)
		assert.True(t, r.Fix.Empty())
	}
}

func TestTranslate_PseudoWithTranslation(t *testing.T) {
	f := newFeature(t, "1..12", 11)
	f.pseudo = true
	f.translation, f.hasTranslation = "MK", true

	r := reportTranslator().Translate(f, fakeSequence("atgtagaaatag"))
	assert.False(t, r.HasErrors())
	assert.Equal(t, []diag.Code{diag.CDSPseudoTranslation}, r.Messages.Codes())
	assert.Equal(t, diag.SeverityWarning, r.Messages[0].Severity)
}

func TestTranslate_FeatureErrors(t *testing.T) {
	tests := []struct {
		name string
		loc  string
		seq  string
		tbl  int
		qual map[string][]string
		want diag.Code
	}{
		{"no sequence", "1..3", "", 1, nil, diag.CDSNoSequence},
		{"location past sequence", "1..12", "atgtaa", 1, nil, diag.CDSNoSequence},
		{"invalid table", "1..6", "atgtaa", 7, nil, diag.CDSInvalidTable},
		{"malformed transl_except", "1..6", "atgtaa", 1, map[string][]string{QualifierTranslExcept: {"pos:4..6,aa:Trp"}}, diag.CDSInvalidTranslExcept},
		{"unknown amino acid", "1..6", "atgtaa", 1, map[string][]string{QualifierTranslExcept: {"(pos:4..6,aa:Foo)"}}, diag.CDSInvalidTranslExcept},
		{"exception outside feature", "1..6", "atgtaaatg", 1, map[string][]string{QualifierTranslExcept: {"(pos:7..9,aa:Trp)"}}, diag.CDSExceptionOutOfRange},
		{"bad codon", "1..6", "atgtaa", 1, map[string][]string{QualifierCodon: {`(seq:"tg",aa:Trp)`}}, diag.CDSInvalidCodon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeature(t, tt.loc, tt.tbl)
			for k, v := range tt.qual {
				f.qualifiers[k] = v
			}
			r := fixTranslator().Translate(f, fakeSequence(tt.seq))
			assert.True(t, r.Messages.Has(tt.want), "messages: %s", r.Messages)
			assert.Nil(t, r.Result)
			assert.True(t, r.Fix.Empty())
		})
	}
}

func TestTranslate_DefaultTable(t *testing.T) {
	f := newFeature(t, "1..12", 0)
	r := reportTranslator().Translate(f, fakeSequence("atgtgaaaataa"))
	assert.Equal(t, 1, r.TableID)
	assert.True(t, r.Messages.Has(diag.TranslatorInternalStopCodon))

	opts := DefaultOptions()
	opts.DefaultTable = 4
	r = New(opts).Translate(f, fakeSequence("atgtgaaaataa"))
	assert.Equal(t, 4, r.TableID)
	assert.False(t, r.HasErrors())
	assert.Equal(t, "MWK", r.Protein())
}

func TestTranslate_Exceptions(t *testing.T) {
	t.Run("frame shifted tail", func(t *testing.T) {
		f := newFeature(t, "<1..53", 2)
		f.codonStart = 2
		f.qualifiers[QualifierTranslExcept] = []string{"(pos:53,aa:TERM)"}
		r := reportTranslator().Translate(f, fakeSequence("cgtagatatcgtctgactattcctctacgtttcaatctactgatgaggttcct"))
		assert.Empty(t, r.Messages)
		assert.Equal(t, "VDIVWLFLYVSIYWWGS", r.Protein())
	})

	t.Run("complement position", func(t *testing.T) {
		// TTATCACAT is the reverse complement of ATGTGATAA.
		f := newFeature(t, "complement(1..9)", 1)
		f.qualifiers[QualifierTranslExcept] = []string{"(pos:complement(4..6),aa:Sec)"}
		r := reportTranslator().Translate(f, fakeSequence("ttatcacat"))
		assert.Empty(t, r.Messages)
		assert.Equal(t, "MU", r.Protein())
	})

	t.Run("codon qualifier", func(t *testing.T) {
		f := newFeature(t, "1..9", 1)
		f.qualifiers[QualifierCodon] = []string{`(seq:"tga",aa:Trp)`}
		r := reportTranslator().Translate(f, fakeSequence("atgtgataa"))
		assert.Empty(t, r.Messages)
		assert.Equal(t, "MW", r.Protein())
	})
}

func TestTranslate_FixModeToggles(t *testing.T) {
	// A degenerate start is accepted in fix mode without a FIX message.
	f := newFeature(t, "1..9", 1)
	r := reportTranslator().Translate(f, fakeSequence("ntgaaataa"))
	assert.Equal(t, []diag.Code{diag.TranslatorNoStartCodon}, r.Messages.Codes())
	r = fixTranslator().Translate(f, fakeSequence("ntgaaataa"))
	assert.Empty(t, r.Messages)
	assert.Equal(t, "MK", r.Protein())

	// A trailing partial codon on a 3' partial feature is dropped in fix mode.
	f = newFeature(t, "1..>7", 1)
	r = reportTranslator().Translate(f, fakeSequence("atgaaag"))
	assert.Equal(t, []diag.Code{diag.TranslatorRightPartialCodon}, r.Messages.Codes())
	r = fixTranslator().Translate(f, fakeSequence("atgaaag"))
	assert.Empty(t, r.Messages)
	assert.Equal(t, "MK", r.Protein())
}

func TestMutationString(t *testing.T) {
	assert.Equal(t, "setRightPartial(true)", Mutation{Kind: SetRightPartial, Value: true}.String())
	assert.Equal(t, "markPseudo()", Mutation{Kind: MarkPseudo}.String())
}
