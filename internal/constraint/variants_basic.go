package constraint

import (
	"github.com/GalitDotan/Oatmeal/internal/costvector"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

const singleState = "q0"

func zero() costvector.Vector { return costvector.Of(0) }
func one() costvector.Vector  { return costvector.Of(1) }

// buildMax compiles Max[B]: a segment satisfying B that is deleted incurs
// a violation. s→s cost 0; s→NULL cost 1 if s satisfies B else 0;
// NULL→s cost 0.
func buildMax(table *feature.Table, bundle feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "Max")
	q0 := transducer.NewState(singleState)
	t.SetAsSingleState(q0)

	for _, seg := range table.Segments() {
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
		cost := zero()
		if seg.Satisfies(bundle) {
			cost = one()
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: feature.Null, Cost: cost, Target: q0}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Null, Output: seg, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildDep compiles Dep[B]: a segment satisfying B that is inserted
// incurs a violation. s→s cost 0; s→NULL cost 0; NULL→s cost 1 if s
// satisfies B else 0.
func buildDep(table *feature.Table, bundle feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "Dep")
	q0 := transducer.NewState(singleState)
	t.SetAsSingleState(q0)

	for _, seg := range table.Segments() {
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: feature.Null, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
		cost := zero()
		if seg.Satisfies(bundle) {
			cost = one()
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Null, Output: seg, Cost: cost, Target: q0}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildIdent compiles Ident[B]: a segment satisfying B that surfaces as a
// segment not satisfying B incurs a violation. s→s cost 0; s→NULL,
// NULL→s cost 0; s→t cost 1 if s satisfies B and t does not (else 0).
// Substitution arcs (s→t, t≠s) are only emitted when allowChangedSegments
// is set; without it Ident has only the identity, deletion and insertion
// arcs, all at cost 0.
func buildIdent(table *feature.Table, bundle feature.Bundle, allowChangedSegments bool) (*transducer.Transducer, error) {
	t := transducer.New(1, "Ident")
	q0 := transducer.NewState(singleState)
	t.SetAsSingleState(q0)

	segments := table.Segments()
	for _, seg := range segments {
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: feature.Null, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Null, Output: seg, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
	}
	if allowChangedSegments {
		for _, s := range segments {
			for _, o := range segments {
				if s.Equal(o) {
					continue
				}
				cost := zero()
				if s.Satisfies(bundle) && !o.Satisfies(bundle) {
					cost = one()
				}
				if err := t.AddArc(transducer.Arc{Source: q0, Input: s, Output: o, Cost: cost, Target: q0}); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

// buildFaith compiles Faith: every deletion, insertion, or substitution
// incurs a violation. s→s cost 0; s→NULL, NULL→s each cost 1;
// substitution arcs s→t (t≠s, cost 1) are only emitted when
// allowChangedSegments is set — see SPEC_FULL.md §4.2.2 for why this is
// the chosen resolution of the two non-identical reference definitions.
func buildFaith(table *feature.Table, allowChangedSegments bool) (*transducer.Transducer, error) {
	t := transducer.New(1, "Faith")
	q0 := transducer.NewState(singleState)
	t.SetAsSingleState(q0)

	segments := table.Segments()
	for _, seg := range segments {
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: seg, Cost: zero(), Target: q0}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: seg, Output: feature.Null, Cost: one(), Target: q0}); err != nil {
			return nil, err
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Null, Output: seg, Cost: one(), Target: q0}); err != nil {
			return nil, err
		}
	}
	if allowChangedSegments {
		for _, s := range segments {
			for _, o := range segments {
				if s.Equal(o) {
					continue
				}
				if err := t.AddArc(transducer.Arc{Source: q0, Input: s, Output: o, Cost: one(), Target: q0}); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}
