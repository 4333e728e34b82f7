// Package entry provides the in-memory model of nucleotide entries and
// their features, and loaders for feature tables and FASTA sequences.
package entry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enasequence/sequencetools-sub002/internal/location"
)

// FeatureKeyCDS is the feature key for coding sequences.
const FeatureKeyCDS = "CDS"

// Qualifier is a feature qualifier. Flag qualifiers such as /pseudo have
// no value.
type Qualifier struct {
	Name  string
	Value string
}

// Feature is an annotated region of an entry.
type Feature struct {
	Key        string
	Loc        *location.Location
	Qualifiers []Qualifier
}

// Location returns the feature location.
func (f *Feature) Location() *location.Location {
	return f.Loc
}

// Qualifier returns the value of the first qualifier with the given name.
func (f *Feature) Qualifier(name string) (string, bool) {
	for _, q := range f.Qualifiers {
		if q.Name == name {
			return q.Value, true
		}
	}
	return "", false
}

// HasQualifier returns true if the feature carries the qualifier.
func (f *Feature) HasQualifier(name string) bool {
	_, ok := f.Qualifier(name)
	return ok
}

// QualifierValues returns the values of every qualifier with the given
// name, in order.
func (f *Feature) QualifierValues(name string) []string {
	var values []string
	for _, q := range f.Qualifiers {
		if q.Name == name {
			values = append(values, q.Value)
		}
	}
	return values
}

// AddQualifier appends a qualifier.
func (f *Feature) AddQualifier(name, value string) {
	f.Qualifiers = append(f.Qualifiers, Qualifier{Name: name, Value: value})
}

// RemoveQualifier removes every qualifier with the given name.
func (f *Feature) RemoveQualifier(name string) {
	kept := f.Qualifiers[:0]
	for _, q := range f.Qualifiers {
		if q.Name != name {
			kept = append(kept, q)
		}
	}
	f.Qualifiers = kept
}

// CodonStart returns /codon_start, 0 if absent or -1 if not a number.
func (f *Feature) CodonStart() int {
	return f.intQualifier("codon_start")
}

// TranslationTable returns /transl_table, 0 if absent or -1 if not a number.
func (f *Feature) TranslationTable() int {
	return f.intQualifier("transl_table")
}

func (f *Feature) intQualifier(name string) int {
	v, ok := f.Qualifier(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return -1
	}
	return n
}

// LeftPartial returns true if the 5' end is partial.
func (f *Feature) LeftPartial() bool {
	return f.Loc != nil && f.Loc.FivePrimePartial()
}

// RightPartial returns true if the 3' end is partial.
func (f *Feature) RightPartial() bool {
	return f.Loc != nil && f.Loc.ThreePrimePartial()
}

// Pseudo returns true for /pseudo and /pseudogene features.
func (f *Feature) Pseudo() bool {
	return f.HasQualifier("pseudo") || f.HasQualifier("pseudogene")
}

// NonTranslating returns true if an /exception explains why the feature
// does not translate normally.
func (f *Feature) NonTranslating() bool {
	return f.HasQualifier("exception")
}

// Translation returns the declared /translation.
func (f *Feature) Translation() (string, bool) {
	return f.Qualifier("translation")
}

// SetLeftPartial sets 5' partiality on the location.
func (f *Feature) SetLeftPartial(partial bool) {
	f.Loc.SetFivePrimePartial(partial)
}

// SetRightPartial sets 3' partiality on the location.
func (f *Feature) SetRightPartial(partial bool) {
	f.Loc.SetThreePrimePartial(partial)
}

// MarkPseudo adds /pseudo unless the feature is already pseudo.
func (f *Feature) MarkPseudo() {
	if !f.Pseudo() {
		f.AddQualifier("pseudo", "")
	}
}

// ClearDeclaredTranslation removes /translation.
func (f *Feature) ClearDeclaredTranslation() {
	f.RemoveQualifier("translation")
}

// Entry is a nucleotide sequence with its features.
type Entry struct {
	Accession   string
	Description string
	Sequence    []byte
	Features    []*Feature
}

// Bases returns the bases of loc, oriented 5' to 3' and in the case of
// the entry sequence.
func (e *Entry) Bases(loc *location.Location) ([]byte, error) {
	if len(e.Sequence) == 0 {
		return nil, fmt.Errorf("entry %s has no sequence", e.Accession)
	}
	b, err := loc.Extract(e.Sequence)
	if err != nil {
		return nil, fmt.Errorf("extract %s from %s: %w", loc, e.Accession, err)
	}
	return b, nil
}

// CodingFeatures returns the CDS features in entry order.
func (e *Entry) CodingFeatures() []*Feature {
	var out []*Feature
	for _, f := range e.Features {
		if f.Key == FeatureKeyCDS {
			out = append(out, f)
		}
	}
	return out
}
