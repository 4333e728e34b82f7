package cds

import (
	"fmt"
	"strings"

	"github.com/enasequence/sequencetools-sub002/internal/gencode"
	"github.com/enasequence/sequencetools-sub002/internal/location"
	"github.com/enasequence/sequencetools-sub002/internal/translator"
)

// Qualifier names read by the translator.
const (
	QualifierTranslExcept = "transl_except"
	QualifierCodon        = "codon"
	QualifierTranslation  = "translation"
	QualifierCodonStart   = "codon_start"
	QualifierTranslTable  = "transl_table"
	QualifierPseudo       = "pseudo"
	QualifierPseudogene   = "pseudogene"
	QualifierException    = "exception"
)

// TranslExcept is a parsed /transl_except value. Pos is in entry
// coordinates.
type TranslExcept struct {
	Pos       *location.Location
	AminoAcid byte
}

// ParseTranslExcept parses a /transl_except value such as
// "(pos:213..215,aa:Trp)", "(pos:complement(4..6),aa:Sec)" or
// "(pos:1017,aa:TERM)".
func ParseTranslExcept(value string) (TranslExcept, error) {
	pos, aa, err := splitQualifier(value, "pos:")
	if err != nil {
		return TranslExcept{}, err
	}
	loc, err := location.Parse(pos)
	if err != nil {
		return TranslExcept{}, fmt.Errorf("parse position: %w", err)
	}
	if len(loc.Ranges) != 1 {
		return TranslExcept{}, fmt.Errorf("position %q is not a single range", pos)
	}
	return TranslExcept{Pos: loc, AminoAcid: aa}, nil
}

// ParseCodon parses a /codon value such as (seq:"tga",aa:Trp).
func ParseCodon(value string) (translator.CodonException, error) {
	seq, aa, err := splitQualifier(value, "seq:")
	if err != nil {
		return translator.CodonException{}, err
	}
	seq = strings.Trim(seq, `"`)
	if len(seq) != 3 {
		return translator.CodonException{}, fmt.Errorf("codon %q is not three bases", seq)
	}
	for i := 0; i < len(seq); i++ {
		if !gencode.IsValidBase(seq[i]) || seq[i] == '-' {
			return translator.CodonException{}, fmt.Errorf("codon %q has invalid base %q", seq, seq[i])
		}
	}
	return translator.CodonException{Codon: strings.ToUpper(seq), AminoAcid: aa}, nil
}

// splitQualifier splits "(<prefix>X,aa:Y)" into X and the one letter code
// for Y.
func splitQualifier(value, prefix string) (string, byte, error) {
	s := strings.Join(strings.Fields(value), "")
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return "", 0, fmt.Errorf("value is not parenthesised")
	}
	s = s[1 : len(s)-1]

	i := strings.LastIndex(s, ",aa:")
	if i < 0 {
		return "", 0, fmt.Errorf("missing aa:")
	}
	head, name := s[:i], s[i+len(",aa:"):]
	if !strings.HasPrefix(head, prefix) {
		return "", 0, fmt.Errorf("missing %s", prefix)
	}
	aa, ok := gencode.OneLetter(name)
	if !ok {
		return "", 0, fmt.Errorf("unknown amino acid %q", name)
	}
	return strings.TrimPrefix(head, prefix), aa, nil
}

// featureException maps a /transl_except position onto the feature's own
// coordinates. It returns false when either end lies outside the location.
func featureException(te TranslExcept, loc *location.Location) (translator.Exception, bool) {
	r := te.Pos.Ranges[0]
	a, okA := loc.RelativePosition(r.Start)
	b, okB := loc.RelativePosition(r.End)
	if !okA || !okB {
		return translator.Exception{}, false
	}
	return translator.Exception{Start: min(a, b), End: max(a, b), AminoAcid: te.AminoAcid}, true
}
