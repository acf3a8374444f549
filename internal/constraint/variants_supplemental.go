package constraint

import (
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// buildVowelBeforePharyngeal compiles HighVowelBeforePharyngeal: a
// pharyngeal segment following a qualifying vowel (no syllable-boundary
// domain restriction) incurs one violation per occurrence.
func buildVowelBeforePharyngeal(table *feature.Table, qualifies func(string) bool, name string) (*transducer.Transducer, error) {
	t := transducer.New(1, name)
	q0 := transducer.NewState("q0")
	qVowel := transducer.NewState("q_high_vowel")
	t.AddState(q0)
	t.AddState(qVowel)
	t.SetInitial(q0)
	t.AddFinal(q0)

	for _, seg := range table.Segments() {
		switch {
		case qualifies(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
		case isPharyngeal(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: one(), Target: q0}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
		default:
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// buildVowelBeforePharyngealWithinSyllable compiles the syllable-scoped
// variants (HighVowelBeforePharyngealWithinSyllable,
// NonLowVowelBeforePharyngealWithinSyllable): the same violation, but a
// syllable-boundary segment resets tracking back to q0, so the vowel and
// the pharyngeal must co-occur inside one syllable to count.
func buildVowelBeforePharyngealWithinSyllable(table *feature.Table, qualifies func(string) bool, name string) (*transducer.Transducer, error) {
	t := transducer.New(1, name)
	q0 := transducer.NewState("q0")
	qVowel := transducer.NewState("q_vowel")
	qPharyngeal := transducer.NewState("q_pharyngeal")
	t.AddState(q0)
	t.AddState(qVowel)
	t.AddState(qPharyngeal)
	t.SetInitial(q0)
	t.AddFinal(q0)

	for _, seg := range table.Segments() {
		switch {
		case qualifies(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qPharyngeal, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
		case isPharyngeal(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: one(), Target: qPharyngeal}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qPharyngeal, Input: seg, Output: seg, Cost: zero(), Target: qPharyngeal}); err != nil {
				return nil, err
			}
		case isSyllableBoundary(seg.Symbol):
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qPharyngeal, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
		default:
			if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qVowel, Input: seg, Output: seg, Cost: zero(), Target: qVowel}); err != nil {
				return nil, err
			}
			if err := t.AddArc(transducer.Arc{Source: qPharyngeal, Input: seg, Output: seg, Cost: zero(), Target: qPharyngeal}); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
