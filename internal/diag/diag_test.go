package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_FormatsTemplate(t *testing.T) {
	m := Error(TranslatorInternalStopCodon, 4)
	assert.Equal(t, SeverityError, m.Severity)
	assert.Equal(t, Code("Translator-17"), m.Code)
	assert.Equal(t, "Internal stop codon at position 4.", m.Text)
	assert.Equal(t, "ERROR Translator-17: Internal stop codon at position 4.", m.String())
}

func TestFix_NoArgs(t *testing.T) {
	m := Fix(FixNoStopCodonMake3Partial)
	assert.Equal(t, SeverityFix, m.Severity)
	assert.Equal(t, "No stop codon: the feature was made 3' partial.", m.Text)
}

func TestList(t *testing.T) {
	l := List{
		Warning(CDSPseudoTranslation),
		Fix(FixNoStopCodonMake3Partial),
		Error(TranslatorNoStopCodon),
		Error(TranslatorNoStopCodon),
	}

	assert.True(t, l.HasErrors())
	assert.True(t, l.Has(TranslatorNoStopCodon))
	assert.False(t, l.Has(TranslatorInternalStopCodon))
	assert.Equal(t, 2, l.Count(SeverityError))
	assert.Len(t, l.Filter(SeverityWarning), 1)
	assert.Equal(t, []Code{CDSPseudoTranslation, FixNoStopCodonMake3Partial, TranslatorNoStopCodon}, l.Codes())
	assert.Equal(t, SeverityError, l.Worst())

	codes, counts := CountByCode(l)
	assert.Equal(t, []Code{CDSPseudoTranslation, TranslatorNoStopCodon, FixNoStopCodonMake3Partial}, codes)
	assert.Equal(t, 2, counts[TranslatorNoStopCodon])
}

func TestList_Empty(t *testing.T) {
	var l List
	assert.False(t, l.HasErrors())
	assert.Equal(t, Severity(""), l.Worst())
	assert.Equal(t, "", l.String())
}

func TestEveryCodeHasTemplate(t *testing.T) {
	codes := []Code{
		TranslatorTooShort, TranslatorCodonStartNotOne, TranslatorExceptionPartial,
		TranslatorExceptionNearStart, TranslatorInvalidException, TranslatorShorterThanCodon,
		TranslatorNonMultipleOfThree, TranslatorOnlyStopCodon, TranslatorMultipleStopCodons,
		TranslatorStopCodon3Partial, TranslatorNoStopCodon, TranslatorRightPartialCodon,
		TranslatorInternalStopCodon, TranslatorNoStartCodon, TranslatorAmbiguousBases,
		CDSInvalidTranslExcept, CDSPseudoTranslation, CDSTranslationMismatch, CDSInvalidCodon,
		CDSNoSequence, CDSInvalidTable, CDSExceptionOutOfRange,
		FixNoStartCodonMake5Partial, FixValidStopCodonRemove3Partial, FixNoStopCodonMake3Partial,
		FixInternalStopCodonMakePseudo, FixCodonStartNotOneMake5Partial,
		FixNonMultipleOfThreeMake3And5Partial,
	}
	for _, c := range codes {
		_, ok := Template(c)
		assert.True(t, ok, "missing template for %s", c)
	}
}
