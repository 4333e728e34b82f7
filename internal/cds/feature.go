// Package cds provides translation of coding features: it adapts a
// feature and its entry sequence into a translation, compares the result
// with the declared /translation and, in fix mode, repairs partiality and
// pseudo flags so the feature becomes self-consistent.
package cds

import "github.com/enasequence/sequencetools-sub002/internal/location"

// Feature exposes the translation attributes of a coding feature.
type Feature interface {
	Location() *location.Location
	// CodonStart returns the /codon_start value, or 0 if absent.
	CodonStart() int
	// TranslationTable returns the /transl_table value, or 0 if absent.
	TranslationTable() int
	LeftPartial() bool
	RightPartial() bool
	Pseudo() bool
	NonTranslating() bool
	// Translation returns the declared /translation.
	Translation() (string, bool)
	QualifierValues(name string) []string
}

// SequenceSource extracts the bases covered by a location, oriented 5' to 3'.
type SequenceSource interface {
	Bases(loc *location.Location) ([]byte, error)
}

// MutationSink receives the repairs computed in fix mode.
type MutationSink interface {
	SetLeftPartial(partial bool)
	SetRightPartial(partial bool)
	MarkPseudo()
	ClearDeclaredTranslation()
}

// state overlays the flags fix mode changes on top of a feature, so the
// repaired feature can be translated again without mutating the original.
type state struct {
	Feature
	left, right        bool
	pseudo             bool
	translationCleared bool
}

func newState(f Feature) *state {
	return &state{
		Feature: f,
		left:    f.LeftPartial(),
		right:   f.RightPartial(),
		pseudo:  f.Pseudo(),
	}
}

func (s *state) LeftPartial() bool  { return s.left }
func (s *state) RightPartial() bool { return s.right }
func (s *state) Pseudo() bool       { return s.pseudo }

func (s *state) Translation() (string, bool) {
	if s.translationCleared {
		return "", false
	}
	return s.Feature.Translation()
}

func (s *state) SetLeftPartial(partial bool)  { s.left = partial }
func (s *state) SetRightPartial(partial bool) { s.right = partial }
func (s *state) MarkPseudo()                  { s.pseudo = true }
func (s *state) ClearDeclaredTranslation()    { s.translationCleared = true }
