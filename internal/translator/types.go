// Package translator provides conceptual translation of coding sequences
// under an NCBI genetic code, with the framing, start and stop codon
// checks applied to coding features.
package translator

import (
	"github.com/enasequence/sequencetools-sub002/internal/diag"
)

// Exception forces the amino acid of the codon beginning at Start. Start
// and End are 1-based and inclusive in feature coordinates, before the
// codon start offset is applied.
type Exception struct {
	Start     int
	End       int
	AminoAcid byte
}

// CodonException forces the amino acid of every occurrence of a literal
// codon.
type CodonException struct {
	Codon     string
	AminoAcid byte
}

// Input holds everything needed to translate one coding region. Bases are
// oriented 5' to 3'.
type Input struct {
	Bases []byte
	// CodonStart is the 1-based offset of the first codon (1-3). Zero is
	// treated as 1.
	CodonStart int
	TableID    int

	LeftPartial    bool
	RightPartial   bool
	NonTranslating bool
	Pseudo         bool

	// FixDegenerateStartCodon accepts an ambiguous first codon that could be
	// a start codon and translates it as methionine.
	FixDegenerateStartCodon bool
	// FixRightPartialCodon drops a trailing partial codon on a 3' partial
	// feature that is not also 5' partial.
	FixRightPartialCodon bool

	Exceptions      []Exception
	CodonExceptions []CodonException
}

// Codon is one translated codon.
type Codon struct {
	Bases string
	// Position is the 1-based feature coordinate of the first base.
	Position  int
	AminoAcid byte
	// Exception is set when a translation or codon exception chose the
	// amino acid.
	Exception bool
}

// Result is the outcome of a translation.
type Result struct {
	TableID int
	Codons  []Codon
	// TrailingBases are the 1-2 bases after the last complete codon that
	// were not translated.
	TrailingBases string
	// Protein is the translation with the terminal stop codons removed.
	Protein string
	// ConceptualTranslation is the protein to compare with a declared
	// translation. It is empty for pseudo and non-translating features.
	ConceptualTranslation string
	// StopCodons is the number of stop codons at the 3' end.
	StopCodons int
	Messages   diag.List
}

// Failure is returned when a translation raises errors. Result holds what
// could be translated, or nil for configuration errors.
type Failure struct {
	Messages diag.List
	Result   *Result
}

func (f *Failure) Error() string {
	return "translation failed: " + f.Messages.String()
}

// Has returns true if the failure carries the given code.
func (f *Failure) Has(code diag.Code) bool {
	return f.Messages.Has(code)
}
