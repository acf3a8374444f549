package constraint

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

func testTable(t *testing.T) *feature.Table {
	t.Helper()
	features := []feature.Feature{{Label: "voice", Values: []string{"+", "-"}}}
	table, err := feature.NewTable(features, map[string][]string{
		"b": {"+"},
		"p": {"-"},
	})
	require.NoError(t, err)
	return table
}

func testBundle(t *testing.T, table *feature.Table) feature.Bundle {
	t.Helper()
	b, err := feature.NewBundle(map[string]string{"voice": "+"}, table)
	require.NoError(t, err)
	return b
}

// prosodicTable carries the hard-coded consonant/vowel/pharyngeal symbols
// (segments.go) the alignment and pharyngeal-context variants classify by
// symbol rather than by feature, plus the syllable-boundary marker.
func prosodicTable(t *testing.T) *feature.Table {
	t.Helper()
	features := []feature.Feature{{Label: "dummy", Values: []string{"+", "-"}}}
	table, err := feature.NewTable(features, map[string][]string{
		"t": {"+"}, "i": {"+"}, "u": {"+"}, "H": {"+"}, ".": {"+"},
	})
	require.NoError(t, err)
	return table
}

func TestNew_ArityValidation(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)

	_, err := New(Max, nil, false)
	assert.Error(t, err, "Max requires exactly one bundle")

	_, err = New(Faith, []feature.Bundle{bundle}, false)
	assert.Error(t, err, "Faith takes no bundles")

	_, err = New(Precede, []feature.Bundle{bundle}, false)
	assert.Error(t, err, "Precede requires exactly two bundles")

	_, err = New(Precede, []feature.Bundle{bundle, bundle}, false)
	assert.NoError(t, err)

	_, err = New(Phonotactic, nil, false)
	assert.NoError(t, err, "Phonotactic allows zero bundles")

	_, err = New(Kind("NoSuchConstraint"), nil, false)
	assert.Error(t, err)
}

func TestConstraint_StringCanonicalForm(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)

	c, err := New(Max, []feature.Bundle{bundle}, false)
	require.NoError(t, err)
	assert.Equal(t, "Max[+voice]", c.String())

	faith, err := New(Faith, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Faith", faith.String())
}

func TestConstraint_EncodingLength(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)

	faith, err := New(Faith, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 2, faith.EncodingLength())

	maxC, err := New(Max, []feature.Bundle{bundle}, false)
	require.NoError(t, err)
	assert.Equal(t, 2+bundle.EncodingLength(), maxC.EncodingLength())
}

func TestGetTransducer_MaxPenalizesMatchingDeletion(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)
	c, err := New(Max, []feature.Bundle{bundle}, false)
	require.NoError(t, err)

	tr, err := c.GetTransducer(table)
	require.NoError(t, err)

	var sawViolation, sawFree bool
	for _, a := range tr.Arcs() {
		if a.Output.IsNull() && !a.Input.IsNull() {
			seg, _ := table.NewSegment(a.Input.Symbol)
			if seg.Satisfies(bundle) && a.Cost[0] == 1 {
				sawViolation = true
			}
			if !seg.Satisfies(bundle) && a.Cost[0] == 0 {
				sawFree = true
			}
		}
	}
	assert.True(t, sawViolation, "deleting a segment satisfying the bundle must cost 1")
	assert.True(t, sawFree, "deleting a segment not satisfying the bundle must be free")
}

func TestGetTransducer_PhonotacticSingleBundlePenalizesMatchingOutput(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)
	c, err := New(Phonotactic, []feature.Bundle{bundle}, false)
	require.NoError(t, err)

	tr, err := c.GetTransducer(table)
	require.NoError(t, err)

	var sawViolation, sawFree bool
	for _, a := range tr.Arcs() {
		if a.Output.IsNull() || a.Output.IsJoker() {
			continue
		}
		seg, _ := table.NewSegment(a.Output.Symbol)
		if seg.Satisfies(bundle) && a.Cost[0] == 1 {
			sawViolation = true
		}
		if !seg.Satisfies(bundle) && a.Cost[0] == 0 {
			sawFree = true
		}
	}
	assert.True(t, sawViolation, "an output segment satisfying the single bundle must cost 1")
	assert.True(t, sawFree, "an output segment not satisfying the bundle must be free")
}

func TestGetTransducer_VowelBeforePharyngealWithinSyllable_HandlesConsecutiveQualifyingVowels(t *testing.T) {
	table := prosodicTable(t)
	c, err := New(HighVowelBeforePharyngealWithinSyllable, nil, false)
	require.NoError(t, err)

	tr, err := c.GetTransducer(table)
	require.NoError(t, err)

	arcsFrom := func(stateLabel string) []transducer.Arc {
		var out []transducer.Arc
		for _, a := range tr.Arcs() {
			if a.Source.Label == stateLabel {
				out = append(out, a)
			}
		}
		return out
	}

	hasQualifyingVowelArc := func(arcs []transducer.Arc) bool {
		for _, a := range arcs {
			if a.Input.Symbol == "i" || a.Input.Symbol == "u" {
				return true
			}
		}
		return false
	}

	assert.True(t, hasQualifyingVowelArc(arcsFrom("q_vowel")),
		"q_vowel must have an outgoing arc for a second qualifying vowel in the same syllable")
	assert.True(t, hasQualifyingVowelArc(arcsFrom("q_pharyngeal")),
		"q_pharyngeal must have an outgoing arc for a qualifying vowel starting a new tracking window")
}

func TestGetTransducer_IdentWithoutChangedSegmentsHasNoSubstitutionArcs(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)
	c, err := New(Ident, []feature.Bundle{bundle}, false)
	require.NoError(t, err)

	tr, err := c.GetTransducer(table)
	require.NoError(t, err)

	for _, a := range tr.Arcs() {
		if !a.Input.IsNull() && !a.Output.IsNull() {
			assert.True(t, a.Input.Equal(a.Output), "no substitution arcs expected when allowChangedSegments is false")
		}
	}
}

func TestGenerateRandom_RespectsArity(t *testing.T) {
	table := testTable(t)
	rng := rand.New(rand.NewPCG(1, 1))

	c, err := GenerateRandom(rng, Precede, table, 1, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, len(c.Bundles))

	c, err = GenerateRandom(rng, Phonotactic, table, 1, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 3, len(c.Bundles))

	c, err = GenerateRandom(rng, Faith, table, 1, 0, false)
	require.NoError(t, err)
	assert.Empty(t, c.Bundles)
}

func TestConstraintSet_NewValidatesBoundsAndDuplicates(t *testing.T) {
	faith, err := New(Faith, nil, false)
	require.NoError(t, err)

	_, err = NewConstraintSet([]*Constraint{faith}, 2, 5)
	assert.Error(t, err, "below min_constraints")

	_, err = NewConstraintSet([]*Constraint{faith, faith}, 0, 5)
	assert.Error(t, err, "duplicate constraint")

	cs, err := NewConstraintSet([]*Constraint{faith}, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.Size())
}

func TestConstraintSet_StringIsRankOrdered(t *testing.T) {
	table := testTable(t)
	bundle := testBundle(t, table)
	maxC, _ := New(Max, []feature.Bundle{bundle}, false)
	faith, _ := New(Faith, nil, false)

	cs, err := NewConstraintSet([]*Constraint{maxC, faith}, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "Max[+voice] >> Faith", cs.String())
}

func TestConstraintSet_Clone_Independence(t *testing.T) {
	features := []feature.Feature{
		{Label: "voice", Values: []string{"+", "-"}},
		{Label: "cons", Values: []string{"+", "-"}},
	}
	table, err := feature.NewTable(features, map[string][]string{
		"b": {"+", "+"},
		"p": {"-", "+"},
	})
	require.NoError(t, err)
	bundle := testBundle(t, table)
	phono, err := New(Phonotactic, []feature.Bundle{bundle}, false)
	require.NoError(t, err)

	cs, err := NewConstraintSet([]*Constraint{phono}, 0, 5)
	require.NoError(t, err)

	clone := cs.Clone()
	rng := rand.New(rand.NewPCG(1, 1))
	require.True(t, clone.Constraints()[0].Bundles[0].AugmentFeatureBundle(rng, 2))

	assert.Equal(t, 1, len(cs.Constraints()[0].Bundles[0].FeatureDict()),
		"mutating the clone's bundle must not affect the original")
}

func TestConstraintSet_Remove_RespectsMinConstraints(t *testing.T) {
	faith, _ := New(Faith, nil, false)
	cs, err := NewConstraintSet([]*Constraint{faith}, 1, 5)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	assert.False(t, cs.Remove(rng))
	assert.Equal(t, 1, cs.Size())
}

func TestConstraintSet_Insert_RespectsMaxConstraints(t *testing.T) {
	table := testTable(t)
	faith, _ := New(Faith, nil, false)
	cs, err := NewConstraintSet([]*Constraint{faith}, 0, 1)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	p := MutationParams{
		Table:              table,
		Rng:                rng,
		InsertionWeights:   map[Kind]int{Max: 1},
		InitialNumFeatures: 1,
	}
	assert.False(t, cs.Insert(p))
}

func TestConstraintSet_Insert_IgnoresUnknownKindWeight(t *testing.T) {
	table := testTable(t)
	faith, _ := New(Faith, nil, false)
	cs, err := NewConstraintSet([]*Constraint{faith}, 0, 5)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	p := MutationParams{
		Table:              table,
		Rng:                rng,
		InsertionWeights:   map[Kind]int{Kind("NotAConstraint"): 100, Max: 1},
		InitialNumFeatures: 1,
	}
	for i := 0; i < 20; i++ {
		assert.True(t, cs.Insert(p), "an unrecognized kind's weight must never cause a dropped pick")
		cs.constraints = []*Constraint{faith}
	}
}

func TestConstraintSet_Demote_SwapsAdjacentRanks(t *testing.T) {
	faith, _ := New(Faith, nil, false)
	phono, _ := New(Phonotactic, nil, false)
	cs, err := NewConstraintSet([]*Constraint{faith, phono}, 0, 5)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	require.True(t, cs.Demote(rng))
	assert.Equal(t, []*Constraint{phono, faith}, cs.Constraints())
}

func TestConstraintSet_MakeMutation_AllZeroWeightsReturnsFalse(t *testing.T) {
	faith, _ := New(Faith, nil, false)
	cs, err := NewConstraintSet([]*Constraint{faith}, 0, 5)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	p := MutationParams{Rng: rng}
	assert.False(t, cs.MakeMutation(p, ConstraintSetMutationWeights{}))
}

func TestConstraintSet_GetTransducer_EmptySetErrors(t *testing.T) {
	cs, err := NewConstraintSet(nil, 0, 5)
	require.NoError(t, err)

	table := testTable(t)
	_, err = cs.GetTransducer(table, NewTransducerCache(), NewTransducerCache())
	assert.Error(t, err)
}

func TestConstraintSet_GetTransducer_MemoizesByCanonicalString(t *testing.T) {
	table := testTable(t)
	faith, _ := New(Faith, nil, false)
	cs, err := NewConstraintSet([]*Constraint{faith}, 0, 5)
	require.NoError(t, err)

	constraintCache := NewTransducerCache()
	setCache := NewTransducerCache()

	tr1, err := cs.GetTransducer(table, constraintCache, setCache)
	require.NoError(t, err)
	tr2, err := cs.GetTransducer(table, constraintCache, setCache)
	require.NoError(t, err)
	assert.Same(t, tr1, tr2, "repeated calls with the same canonical string must hit the cache")
}
