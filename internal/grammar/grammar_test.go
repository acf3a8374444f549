package grammar

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GalitDotan/Oatmeal/internal/constraint"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/lexicon"
)

func testTable(t *testing.T) *feature.Table {
	t.Helper()
	features := []feature.Feature{{Label: "voice", Values: []string{"+", "-"}}}
	table, err := feature.NewTable(features, map[string][]string{
		"b": {"+"},
		"p": {"-"},
		"a": {"+"},
	})
	require.NoError(t, err)
	return table
}

func faithOnlySet(t *testing.T) *constraint.ConstraintSet {
	t.Helper()
	faith, err := constraint.New(constraint.Faith, nil, false)
	require.NoError(t, err)
	cs, err := constraint.NewConstraintSet([]*constraint.Constraint{faith}, 0, 10)
	require.NoError(t, err)
	return cs
}

func phonotacticOverFaithSet(t *testing.T, bundle feature.Bundle) *constraint.ConstraintSet {
	t.Helper()
	phonotactic, err := constraint.New(constraint.Phonotactic, []feature.Bundle{bundle}, false)
	require.NoError(t, err)
	faith, err := constraint.New(constraint.Faith, nil, false)
	require.NoError(t, err)
	cs, err := constraint.NewConstraintSet([]*constraint.Constraint{phonotactic, faith}, 0, 10)
	require.NoError(t, err)
	return cs
}

// TestGrammar_IdentityGrammar verifies that a grammar ranking Faith alone
// generates exactly the underlying form unchanged (the identity map).
func TestGrammar_IdentityGrammar(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)

	g := New(table, cs, lex, false, "identity")
	caches := NewCaches()

	outputs, err := g.Generate(lex.Words()[0], caches)
	require.NoError(t, err)
	assert.Equal(t, []string{"bab"}, outputs)
}

// TestGrammar_ComposedConstraintSetPreservesIdentityWhenNoConstraintTriggers
// folds two constraints (a genuine Intersect composition, not a single
// cached constraint transducer) and checks that an underlying form no
// constraint penalizes still surfaces unchanged.
func TestGrammar_ComposedConstraintSetPreservesIdentityWhenNoConstraintTriggers(t *testing.T) {
	table := testTable(t)
	bundle, err := feature.NewBundle(map[string]string{"voice": "+"}, table)
	require.NoError(t, err)

	// "p" is -voice, so Phonotactic[+voice] never penalizes its output;
	// Faith alone then decides, and Faith always prefers the identity map.
	lex, err := lexicon.New([]string{"p"}, table)
	require.NoError(t, err)
	cs := phonotacticOverFaithSet(t, bundle)

	g := New(table, cs, lex, false, "composed")
	caches := NewCaches()

	outputs, err := g.Generate(lex.Words()[0], caches)
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, outputs)
}

func TestGrammar_Clone_Independence(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")

	clone := g.Clone()
	rng := rand.New(rand.NewPCG(1, 1))
	clone.Lexicon.MakeMutation(rng, lexicon.MutationWeights{DeleteSegment: 1})

	assert.Equal(t, "bab", g.Lexicon.String(), "mutating the clone's lexicon must not affect the original")
}

func TestGrammar_GetTransducer_Memoizes(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")
	caches := NewCaches()

	tr1, err := g.GetTransducer(caches)
	require.NoError(t, err)
	tr2, err := g.GetTransducer(caches)
	require.NoError(t, err)
	assert.Same(t, tr1, tr2)
}

func TestGrammar_MakeMutation_NoWeightsErrors(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")

	rng := rand.New(rand.NewPCG(1, 1))
	_, err = g.MakeMutation(rng, MutationWeights{}, constraint.MutationParams{})
	assert.Error(t, err)
}

func TestGrammar_MakeMutation_PicksLexiconWhenOnlyLexiconWeighted(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")

	rng := rand.New(rand.NewPCG(3, 3))
	weights := MutationWeights{Lexicon: lexicon.MutationWeights{InsertSegment: 1}}
	mutated, err := g.MakeMutation(rng, weights, constraint.MutationParams{})
	require.NoError(t, err)
	assert.True(t, mutated)
}

func TestHypothesis_UpdateEnergy_IdentityGrammarIsParseable(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")
	caches := NewCaches()

	h := NewHypothesis(g, []string{"bab"}, 1, 1)
	energy, err := h.UpdateEnergy(caches)
	require.NoError(t, err)
	assert.Less(t, energy, Infinite)
	assert.Equal(t, energy, h.CombinedEnergy)
}

func TestHypothesis_UpdateEnergy_UnparseableDatumIsInfinite(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")
	caches := NewCaches()

	// "p" is never generated by any underlying form in the lexicon.
	h := NewHypothesis(g, []string{"p"}, 1, 1)
	energy, err := h.UpdateEnergy(caches)
	require.NoError(t, err)
	assert.Equal(t, Infinite, energy)
}

func TestHypothesis_GetNeighbor_DoesNotMutateOriginal(t *testing.T) {
	table := testTable(t)
	lex, err := lexicon.New([]string{"bab"}, table)
	require.NoError(t, err)
	cs := faithOnlySet(t)
	g := New(table, cs, lex, false, "g")
	h := NewHypothesis(g, []string{"bab"}, 1, 1)

	rng := rand.New(rand.NewPCG(3, 3))
	weights := MutationWeights{Lexicon: lexicon.MutationWeights{InsertSegment: 1}}
	mutated, neighbor, err := h.GetNeighbor(rng, weights, constraint.MutationParams{})
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.NotEqual(t, h.Grammar.Lexicon.String(), neighbor.Grammar.Lexicon.String())
	assert.Equal(t, "bab", h.Grammar.Lexicon.String())
}

func TestEncodeOutput(t *testing.T) {
	assert.Equal(t, 3, EncodeOutput(Parse{Input: "x", NumberOfOutputs: 4}, 1))
}
