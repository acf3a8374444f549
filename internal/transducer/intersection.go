package transducer

import (
	"github.com/GalitDotan/Oatmeal/internal/costvector"
)

// Intersect is the core composition primitive, used both for word ∩
// grammar and pairwise during constraint-set compilation. The product
// state space is pairs (stateA, stateB); a product state is final iff
// both components are final. A product arc is emitted between two source
// arcs whose output (A) and input (B) unify under segment unification;
// its cost is the concatenation of the two component costs, growing the
// composite width by B's width.
//
// Two asymmetric loop rules additionally let one side idle so that an
// epsilon-producing arc on one transducer is never blocked waiting for a
// matching idle arc that the other transducer may not happen to declare
// at every state: an arc in A whose output is NULL advances A alone
// (holding B's state fixed), and an arc in B whose input is NULL advances
// B alone (holding A's state fixed).
func Intersect(a, b *Transducer, name string) (*Transducer, error) {
	width := a.Width + b.Width
	out := New(width, name)

	pairLabel := func(sa, sb string) string { return sa + "×" + sb }

	for _, sa := range a.States() {
		for _, sb := range b.States() {
			out.AddState(NewState(pairLabel(sa.Label, sb.Label)))
		}
	}
	out.SetInitial(NewState(pairLabel(a.Initial().Label, b.Initial().Label)))
	for _, sa := range a.States() {
		for _, sb := range b.States() {
			if a.IsFinal(sa.Label) && b.IsFinal(sb.Label) {
				out.AddFinal(NewState(pairLabel(sa.Label, sb.Label)))
			}
		}
	}

	zerosA := costvector.Zeros(a.Width)
	zerosB := costvector.Zeros(b.Width)

	for _, sa := range a.States() {
		for _, sb := range b.States() {
			src := pairLabel(sa.Label, sb.Label)

			for _, arcA := range a.OutArcs(sa.Label) {
				for _, arcB := range b.OutArcs(sb.Label) {
					if _, ok := arcA.Output.Unify(arcB.Input); !ok {
						continue
					}
					cost, err := costvector.Add(costvector.Concat(arcA.Cost, zerosB), costvector.Concat(zerosA, arcB.Cost))
					if err != nil {
						return nil, err
					}
					tgt := pairLabel(arcA.Target.Label, arcB.Target.Label)
					if err := out.AddArc(Arc{
						Source: NewState(src),
						Input:  arcA.Input,
						Output: arcB.Output,
						Cost:   cost,
						Target: NewState(tgt),
					}); err != nil {
						return nil, err
					}
				}
			}

			// Rule 1: A advances alone when its output is NULL.
			for _, arcA := range a.OutArcs(sa.Label) {
				if !arcA.Output.IsNull() {
					continue
				}
				tgt := pairLabel(arcA.Target.Label, sb.Label)
				if err := out.AddArc(Arc{
					Source: NewState(src),
					Input:  arcA.Input,
					Output: arcA.Output,
					Cost:   costvector.Concat(arcA.Cost, zerosB),
					Target: NewState(tgt),
				}); err != nil {
					return nil, err
				}
			}

			// Rule 2: B advances alone when its input is NULL.
			for _, arcB := range b.OutArcs(sb.Label) {
				if !arcB.Input.IsNull() {
					continue
				}
				tgt := pairLabel(sa.Label, arcB.Target.Label)
				if err := out.AddArc(Arc{
					Source: NewState(src),
					Input:  arcB.Input,
					Output: arcB.Output,
					Cost:   costvector.Concat(zerosA, arcB.Cost),
					Target: NewState(tgt),
				}); err != nil {
					return nil, err
				}
			}
		}
	}

	out.ClearDeadStates()
	return out, nil
}
