package cds

import (
	"fmt"

	"github.com/enasequence/sequencetools-sub002/internal/diag"
)

// MutationKind identifies a repair applied to a feature.
type MutationKind int

const (
	SetLeftPartial MutationKind = iota
	SetRightPartial
	MarkPseudo
	ClearDeclaredTranslation
)

func (k MutationKind) String() string {
	switch k {
	case SetLeftPartial:
		return "setLeftPartial"
	case SetRightPartial:
		return "setRightPartial"
	case MarkPseudo:
		return "markPseudo"
	case ClearDeclaredTranslation:
		return "clearDeclaredTranslation"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// Mutation is one proposed change to a feature. Value is only meaningful
// for the partiality setters.
type Mutation struct {
	Kind  MutationKind
	Value bool
}

func (m Mutation) String() string {
	switch m.Kind {
	case SetLeftPartial, SetRightPartial:
		return fmt.Sprintf("%s(%t)", m.Kind, m.Value)
	default:
		return m.Kind.String() + "()"
	}
}

// FixOutcome lists the mutations fix mode made and the strategies that
// produced them. It is data only: callers apply it with Apply.
type FixOutcome struct {
	Mutations  []Mutation
	Strategies []diag.Code
}

// Empty returns true if no change was proposed.
func (o FixOutcome) Empty() bool {
	return len(o.Mutations) == 0
}

// Apply replays the mutations against sink in order.
func (o FixOutcome) Apply(sink MutationSink) {
	for _, m := range o.Mutations {
		switch m.Kind {
		case SetLeftPartial:
			sink.SetLeftPartial(m.Value)
		case SetRightPartial:
			sink.SetRightPartial(m.Value)
		case MarkPseudo:
			sink.MarkPseudo()
		case ClearDeclaredTranslation:
			sink.ClearDeclaredTranslation()
		}
	}
}

// strategy repairs one translator error.
type strategy struct {
	trigger diag.Code
	fix     diag.Code
	plan    func(s *state) []Mutation
}

// strategies in the order they are tried. The first strategy whose
// trigger is present and which changes the feature wins the pass.
var strategies = []strategy{
	{diag.TranslatorInternalStopCodon, diag.FixInternalStopCodonMakePseudo, func(s *state) []Mutation {
		out := []Mutation{{Kind: MarkPseudo}}
		if _, ok := s.Translation(); ok {
			out = append(out, Mutation{Kind: ClearDeclaredTranslation})
		}
		return out
	}},
	{diag.TranslatorCodonStartNotOne, diag.FixCodonStartNotOneMake5Partial, func(*state) []Mutation {
		return []Mutation{{Kind: SetLeftPartial, Value: true}}
	}},
	{diag.TranslatorNoStartCodon, diag.FixNoStartCodonMake5Partial, func(*state) []Mutation {
		return []Mutation{{Kind: SetLeftPartial, Value: true}}
	}},
	{diag.TranslatorNonMultipleOfThree, diag.FixNonMultipleOfThreeMake3And5Partial, func(*state) []Mutation {
		return []Mutation{{Kind: SetRightPartial, Value: true}, {Kind: SetLeftPartial, Value: true}}
	}},
	{diag.TranslatorStopCodon3Partial, diag.FixValidStopCodonRemove3Partial, func(*state) []Mutation {
		return []Mutation{{Kind: SetRightPartial, Value: false}}
	}},
	{diag.TranslatorNoStopCodon, diag.FixNoStopCodonMake3Partial, func(*state) []Mutation {
		return []Mutation{{Kind: SetRightPartial, Value: true}}
	}},
}

// fixer tracks the mutations made during one fix-mode translation.
type fixer struct {
	state   *state
	outcome FixOutcome
	// set records the value each partiality flag was given, so a later
	// strategy cannot flip it back.
	set map[MutationKind]bool
}

func newFixer(s *state) *fixer {
	return &fixer{state: s, set: make(map[MutationKind]bool)}
}

// apply runs the first applicable strategy for msgs. It returns the FIX
// message, or false when no strategy changes anything.
func (fx *fixer) apply(msgs diag.List) (diag.Message, bool) {
	for _, st := range strategies {
		if !msgs.Has(st.trigger) {
			continue
		}
		changes := fx.effective(st.plan(fx.state))
		if len(changes) == 0 {
			continue
		}
		for _, m := range changes {
			fx.mutate(m)
		}
		fx.outcome.Strategies = append(fx.outcome.Strategies, st.fix)
		return diag.Fix(st.fix), true
	}
	return diag.Message{}, false
}

// effective drops mutations that would not change the feature or would
// reverse an earlier repair.
func (fx *fixer) effective(plan []Mutation) []Mutation {
	var out []Mutation
	for _, m := range plan {
		switch m.Kind {
		case SetLeftPartial:
			if fx.state.left == m.Value {
				continue
			}
		case SetRightPartial:
			if fx.state.right == m.Value {
				continue
			}
		case MarkPseudo:
			if fx.state.pseudo {
				continue
			}
		case ClearDeclaredTranslation:
			if fx.state.translationCleared {
				continue
			}
		}
		if prev, ok := fx.set[m.Kind]; ok && prev != m.Value {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (fx *fixer) mutate(m Mutation) {
	FixOutcome{Mutations: []Mutation{m}}.Apply(fx.state)
	fx.set[m.Kind] = m.Value
	fx.outcome.Mutations = append(fx.outcome.Mutations, m)
}
