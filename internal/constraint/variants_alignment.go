package constraint

import (
	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// The alignment/prosodic variants below are fixed-topology automata keyed
// by the hard-coded consonant/vowel/stress classification in segments.go,
// not by the constraint's own feature bundle(s) — the reference
// implementation accepts a bundle list for these variants (for descriptor
// arity-checking) without consulting it when building the automaton, and
// that quirk is preserved here rather than invented away.

// buildHeadDep enforces that every foot has a vocalic head. Dep1 is the
// start/default state, where vowel epenthesis is free; Dep2 is entered on
// a stress marker. A vowel inserted while in Dep2 (directly after a stress
// marker) costs 1.
func buildHeadDep(table *feature.Table, _ feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "HeadDep")
	dep1 := transducer.NewState("Dep1")
	dep2 := transducer.NewState("Dep2")
	t.AddState(dep1)
	t.AddState(dep2)
	t.SetInitial(dep1)
	t.AddFinal(dep1)
	t.AddFinal(dep2)

	for _, seg := range table.Segments() {
		if err := t.AddArc(transducer.Arc{Source: dep1, Input: seg, Output: feature.Null, Cost: zero(), Target: dep1}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: dep2, Input: seg, Output: feature.Null, Cost: zero(), Target: dep2}); err != nil {
			return nil, err
		}

		switch {
		case isConsonant(seg.Symbol):
			for _, arc := range []transducer.Arc{
				{Source: dep1, Input: feature.Null, Output: seg, Cost: zero(), Target: dep1},
				{Source: dep1, Input: seg, Output: seg, Cost: zero(), Target: dep1},
				{Source: dep2, Input: seg, Output: seg, Cost: zero(), Target: dep1},
				{Source: dep2, Input: feature.Null, Output: seg, Cost: zero(), Target: dep1},
			} {
				if err := t.AddArc(arc); err != nil {
					return nil, err
				}
			}
		case isVowel(seg.Symbol):
			for _, arc := range []transducer.Arc{
				{Source: dep1, Input: feature.Null, Output: seg, Cost: zero(), Target: dep1},
				{Source: dep1, Input: seg, Output: seg, Cost: zero(), Target: dep1},
				{Source: dep2, Input: seg, Output: seg, Cost: zero(), Target: dep1},
				{Source: dep2, Input: feature.Null, Output: seg, Cost: one(), Target: dep1},
			} {
				if err := t.AddArc(arc); err != nil {
					return nil, err
				}
			}
		case isStressMarker(seg.Symbol):
			for _, arc := range []transducer.Arc{
				{Source: dep1, Input: feature.Null, Output: seg, Cost: zero(), Target: dep2},
				{Source: dep1, Input: seg, Output: seg, Cost: zero(), Target: dep2},
				{Source: dep2, Input: seg, Output: seg, Cost: zero(), Target: dep2},
				{Source: dep2, Input: feature.Null, Output: seg, Cost: zero(), Target: dep2},
			} {
				if err := t.AddArc(arc); err != nil {
					return nil, err
				}
			}
		default:
			return nil, errs.NewConstraintError(seg.Symbol, "HeadDep")
		}
	}
	return t, nil
}

// buildMainLeft penalizes a vowel that surfaces before the main-stress
// marker has been seen: state 1 is "before stress," state 2 "after
// stress," state 3 "a vowel has been seen." Only the first vowel seen in
// state 1 costs 1; it moves to state 3, where nothing costs and which is
// never left.
func buildMainLeft(table *feature.Table, _ feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "MainLeft")
	s1 := transducer.NewState("1")
	s2 := transducer.NewState("2")
	s3 := transducer.NewState("3")
	t.AddState(s1)
	t.AddState(s2)
	t.AddState(s3)
	t.SetInitial(s1)
	t.AddFinal(s1)
	t.AddFinal(s2)
	t.AddFinal(s3)

	for _, seg := range table.Segments() {
		switch {
		case isVowel(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Joker, Output: seg, Cost: one(), Target: s3}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Joker, Output: seg, Cost: zero(), Target: s3}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s3, Input: feature.Joker, Output: seg, Cost: zero(), Target: s3}); err != nil {
				return nil, err
			}
		case isConsonant(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Joker, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Joker, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s3, Input: feature.Joker, Output: seg, Cost: zero(), Target: s3}); err != nil {
				return nil, err
			}
		case isStressMarker(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Joker, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Joker, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s3, Input: feature.Joker, Output: seg, Cost: zero(), Target: s3}); err != nil {
				return nil, err
			}
		default:
			return nil, errs.NewConstraintError(seg.Symbol, "MainLeft")
		}
	}
	for _, s := range []transducer.State{s1, s2, s3} {
		if err := t.AddArc(transducer.Arc{Source: s, Input: feature.Joker, Output: feature.Null, Cost: zero(), Target: s}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildPrecede penalizes a vowel surfacing before the stress marker has
// been seen (state 1 = "stress not yet seen").
func buildPrecede(table *feature.Table, _, _ feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "Precede")
	s1 := transducer.NewState("Precede1")
	s2 := transducer.NewState("Precede2")
	t.AddState(s1)
	t.AddState(s2)
	t.SetInitial(s1)
	t.AddFinal(s1)
	t.AddFinal(s2)

	for _, seg := range table.Segments() {
		switch {
		case isVowel(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Joker, Output: seg, Cost: one(), Target: s1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Joker, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
		case isStressMarker(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Joker, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Joker, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
		case isConsonant(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Joker, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Joker, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
		default:
			return nil, errs.NewConstraintError(seg.Symbol, "Precede")
		}
	}
	for _, s := range []transducer.State{s1, s2} {
		if err := t.AddArc(transducer.Arc{Source: s, Input: feature.Joker, Output: feature.Null, Cost: zero(), Target: s}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildContiguity penalizes a gap right after a stress marker: state 2 is
// entered when a stress marker surfaces faithfully; an insertion or
// deletion taken in state 2 costs 1 and returns to state 1, where
// insertions and deletions are free.
func buildContiguity(table *feature.Table, _ feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "Contiguity")
	s1 := transducer.NewState("Contiguity1")
	s2 := transducer.NewState("Contiguity2")
	t.AddState(s1)
	t.AddState(s2)
	t.SetInitial(s1)
	t.AddFinal(s1)
	t.AddFinal(s2)

	for _, seg := range table.Segments() {
		if err := t.AddArc(transducer.Arc{Source: s1, Input: feature.Null, Output: seg, Cost: zero(), Target: s1}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: s1, Input: seg, Output: feature.Null, Cost: zero(), Target: s1}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: s2, Input: feature.Null, Output: seg, Cost: one(), Target: s1}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: s2, Input: seg, Output: feature.Null, Cost: one(), Target: s1}); err != nil {
			return nil, err
		}

		switch {
		case isVowel(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: seg, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: seg, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
		case isStressMarker(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: seg, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: seg, Output: seg, Cost: zero(), Target: s2}); err != nil {
				return nil, err
			}
		case isConsonant(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: s1, Input: seg, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: s2, Input: seg, Output: seg, Cost: zero(), Target: s1}); err != nil {
				return nil, err
			}
		default:
			return nil, errs.NewConstraintError(seg.Symbol, "Contiguity")
		}
	}
	return t, nil
}

// buildTrochee penalizes stress that does not fall on the first segment of
// its foot: q0 is the foot-initial position, q_unstressed tracks a foot
// already underway without stress, q_stressed tracks one that already
// received its (left-edge) stress.
func buildTrochee(table *feature.Table) (*transducer.Transducer, error) {
	t := transducer.New(1, "Trochee")
	q0 := transducer.NewState("q0")
	qStressed := transducer.NewState("q_stressed")
	qUnstressed := transducer.NewState("q_unstressed")
	t.AddState(q0)
	t.AddState(qStressed)
	t.AddState(qUnstressed)
	t.SetInitial(q0)
	t.AddFinal(q0)
	t.AddFinal(qStressed)
	t.AddFinal(qUnstressed)

	for _, seg := range table.Segments() {
		if isStressMarker(seg.Symbol) {
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: qStressed}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qUnstressed, Input: seg, Output: seg, Cost: one(), Target: qStressed}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qStressed, Input: seg, Output: seg, Cost: one(), Target: qStressed}); err != nil {
				return nil, err
			}
		} else {
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: qUnstressed}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qUnstressed, Input: seg, Output: seg, Cost: zero(), Target: qUnstressed}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qStressed, Input: seg, Output: seg, Cost: zero(), Target: qStressed}); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range []transducer.State{q0, qStressed, qUnstressed} {
		if err := t.AddArc(transducer.Arc{Source: s, Input: feature.Null, Output: feature.Null, Cost: zero(), Target: s}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildFootBinarity penalizes feet longer than two syllables: q0 is
// foot-initial, q1 has seen one syllable nucleus, q2 has seen two (the
// accepting, binary-foot state); any further nucleus while in q2 is a
// violation.
func buildFootBinarity(table *feature.Table) (*transducer.Transducer, error) {
	t := transducer.New(1, "FootBinarity")
	q0 := transducer.NewState("q0")
	q1 := transducer.NewState("q1")
	q2 := transducer.NewState("q2")
	t.AddState(q0)
	t.AddState(q1)
	t.AddState(q2)
	t.SetInitial(q0)
	t.AddFinal(q2)

	for _, seg := range table.Segments() {
		if isSyllableNucleus(seg.Symbol) {
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q1}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: q1, Input: seg, Output: seg, Cost: zero(), Target: q2}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: q2, Input: seg, Output: seg, Cost: one(), Target: q2}); err != nil {
				return nil, err
			}
		} else {
			for _, s := range []transducer.State{q0, q1, q2} {
				if err := t.AddArc(transducer.Arc{Source: s, Input: seg, Output: seg, Cost: zero(), Target: s}); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

// buildRightmost penalizes any segment that is neither part of the head
// foot nor at the word's right edge: q0 precedes the head foot, q_head_foot
// is inside it, q_right_edge is the accepting trailing region. Consonants
// and vowels are treated as the "head foot" class and the stress marker
// and pharyngeal class as the "right edge" class, consistent with this
// engine's hard-coded prosodic classification; anything else raises
// ConstraintError.
func buildRightmost(table *feature.Table, _, _ feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "Rightmost")
	q0 := transducer.NewState("q0")
	qHeadFoot := transducer.NewState("q_head_foot")
	qRightEdge := transducer.NewState("q_right_edge")
	t.AddState(q0)
	t.AddState(qHeadFoot)
	t.AddState(qRightEdge)
	t.SetInitial(q0)
	t.AddFinal(qRightEdge)

	for _, seg := range table.Segments() {
		switch {
		case isConsonant(seg.Symbol) || isVowel(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: qHeadFoot}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qHeadFoot, Input: seg, Output: seg, Cost: one(), Target: qHeadFoot}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qRightEdge, Input: seg, Output: seg, Cost: one(), Target: qRightEdge}); err != nil {
				return nil, err
			}
		case isStressMarker(seg.Symbol) || isPharyngeal(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: qHeadFoot, Input: seg, Output: seg, Cost: zero(), Target: qRightEdge}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qRightEdge, Input: seg, Output: seg, Cost: zero(), Target: qRightEdge}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: one(), Target: q0}); err != nil {
				return nil, err
			}
		default:
			return nil, errs.NewConstraintError(seg.Symbol, "Rightmost")
		}
	}
	return t, nil
}
