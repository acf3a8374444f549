package constraint

import (
	"fmt"

	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// buildPhonotactic compiles Phonotactic[B0...Bn] into a KMP-style DFA
// counting (possibly overlapping) occurrences of the bundle sequence as a
// substring of the output. State (i, j) means "i bundles matched in a row,
// with j the length of the longest proper prefix of the match that is
// also a suffix of what's been consumed" — exactly as in a KMP failure
// function, rebuilt here over feature-bundle satisfaction instead of
// character equality. Every transition consumes JOKER on the input side:
// Phonotactic constrains the output string alone.
func buildPhonotactic(table *feature.Table, bundles []feature.Bundle) (*transducer.Transducer, error) {
	segments := table.Segments()

	if len(bundles) == 0 {
		return buildEmptyPhonotactic(segments)
	}
	if len(bundles) == 1 {
		return buildSingleBundlePhonotactic(segments, bundles[0])
	}

	n := len(bundles) - 1 // last valid bundle index
	t := transducer.New(1, "Phonotactic")

	// satisfies[segIndex][i] records whether segments[segIndex] satisfies bundles[i].
	satisfies := make([][]bool, len(segments))
	for si, seg := range segments {
		row := make([]bool, n+1)
		for i, b := range bundles {
			row[i] = seg.Satisfies(b)
		}
		satisfies[si] = row
	}

	maxRun := func(si int) int {
		i := 0
		for i <= n && satisfies[si][i] {
			i++
		}
		return i
	}
	fallback := func(si, j int) int {
		for k := j + 1; k > 0; k-- {
			if satisfies[si][k-1] {
				return k
			}
		}
		return 0
	}

	maxRunBySegment := make([]int, len(segments))
	for si := range segments {
		maxRunBySegment[si] = maxRun(si)
	}

	states := make([][]transducer.State, n+1)
	states[0] = []transducer.State{transducer.NewState("q0|0")}
	for i := 1; i <= n; i++ {
		states[i] = make([]transducer.State, i)
		for j := 0; j < i; j++ {
			states[i][j] = transducer.NewState(fmt.Sprintf("q%d|%d", i, j))
		}
	}

	t.SetAsSingleState(states[0][0])
	for i := 1; i <= n; i++ {
		for _, s := range states[i] {
			t.AddState(s)
		}
	}

	for si, seg := range segments {
		target := states[0][0]
		if satisfies[si][0] && n >= 1 {
			target = states[1][0]
		}
		if err := t.AddArc(transducer.Arc{Source: states[0][0], Input: feature.Joker, Output: seg, Cost: zero(), Target: target}); err != nil {
			return nil, err
		}
	}

	for i := 0; i <= n; i++ {
		for j := 0; j < len(states[i]); j++ {
			state := states[i][j]
			t.AddFinal(state)
			if i == n {
				for si, seg := range segments {
					newLevel := fallback(si, j)
					newMem := minInt(maxRunBySegment[si], abs(newLevel-1))
					cost := zero()
					if satisfies[si][i] {
						cost = one()
					}
					target := states[newLevel][newMem]
					if err := t.AddArc(transducer.Arc{Source: state, Input: feature.Joker, Output: seg, Cost: cost, Target: target}); err != nil {
						return nil, err
					}
				}
				continue
			}
			for si, seg := range segments {
				var newLevel, newMem int
				if satisfies[si][i] {
					newLevel = i + 1
					newMem = minInt(j+1, maxRunBySegment[si])
				} else {
					newLevel = fallback(si, j)
					newMem = minInt(maxRunBySegment[si], abs(newLevel-1))
				}
				target := states[newLevel][newMem]
				if err := t.AddArc(transducer.Arc{Source: state, Input: feature.Joker, Output: seg, Cost: zero(), Target: target}); err != nil {
					return nil, err
				}
			}
		}
	}

	t.ClearDeadStates()
	for _, s := range t.States() {
		if err := t.AddArc(transducer.Arc{Source: s, Input: feature.Joker, Output: feature.Null, Cost: zero(), Target: s}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// buildSingleBundlePhonotactic handles the n==0 edge case (a single
// bundle, i.e. k=1): the general KMP construction's state table is only
// ever allocated for level 0 here, so a single-state self-loop is built
// directly, with each output segment costing 1 when it satisfies the
// bundle and 0 otherwise — the Go equivalent of the Python original's
// `if not n` branch.
func buildSingleBundlePhonotactic(segments []feature.Segment, bundle feature.Bundle) (*transducer.Transducer, error) {
	t := transducer.New(1, "Phonotactic")
	q0 := transducer.NewState("q0|0")
	t.SetAsSingleState(q0)
	for _, seg := range segments {
		cost := zero()
		if seg.Satisfies(bundle) {
			cost = one()
		}
		if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Joker, Output: seg, Cost: cost, Target: q0}); err != nil {
			return nil, err
		}
	}
	if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Joker, Output: feature.Null, Cost: zero(), Target: q0}); err != nil {
		return nil, err
	}
	return t, nil
}

// buildEmptyPhonotactic handles the k=0 edge case: an empty bundle
// sequence degenerates to a constant-cost transducer (every output
// segment costs 1, matching "the nonexistent bundle" vacuously), rather
// than hitting the n=-1 index case of the general construction.
func buildEmptyPhonotactic(segments []feature.Segment) (*transducer.Transducer, error) {
	t := transducer.New(1, "Phonotactic")
	q0 := transducer.NewState("q0|0")
	t.SetAsSingleState(q0)
	for _, seg := range segments {
		if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Joker, Output: seg, Cost: one(), Target: q0}); err != nil {
			return nil, err
		}
	}
	if err := t.AddArc(transducer.Arc{Source: q0, Input: feature.Joker, Output: feature.Null, Cost: zero(), Target: q0}); err != nil {
		return nil, err
	}
	return t, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
