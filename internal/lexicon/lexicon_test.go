package lexicon

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GalitDotan/Oatmeal/internal/feature"
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

func TestWord_NewWordAndString(t *testing.T) {
	table := testTable(t)
	w, err := NewWord("bab", table)
	require.NoError(t, err)
	assert.Equal(t, "bab", w.String())
	assert.Equal(t, 3, w.Len())
}

func TestWord_NewWord_UnknownSymbol(t *testing.T) {
	table := testTable(t)
	_, err := NewWord("bz", table)
	assert.Error(t, err)
}

func TestWord_EncodingLength(t *testing.T) {
	table := testTable(t)
	w, err := NewWord("ba", table)
	require.NoError(t, err)
	// 1 + (1 feature per segment) * 2 segments
	assert.Equal(t, 1+1+1, w.EncodingLength())
}

func TestWord_GetTransducer_Memoizes(t *testing.T) {
	table := testTable(t)
	w, err := NewWord("ba", table)
	require.NoError(t, err)

	cache := NewTransducerCache()
	tr1, err := w.GetTransducer(cache)
	require.NoError(t, err)
	tr2, err := w.GetTransducer(cache)
	require.NoError(t, err)
	assert.Same(t, tr1, tr2)
}

func TestWord_GetTransducer_RangeOfJokerOutputsIsEmptyString(t *testing.T) {
	table := testTable(t)
	w, err := NewWord("b", table)
	require.NoError(t, err)

	cache := NewTransducerCache()
	tr, err := w.GetTransducer(cache)
	require.NoError(t, err)

	outputs := tr.Range(tr.DefaultMaxPathArcs())
	assert.Contains(t, outputs, "")
}

func TestWord_DeleteSegment_Empty(t *testing.T) {
	w := &Word{}
	rng := rand.New(rand.NewPCG(1, 1))
	assert.False(t, w.DeleteSegment(rng))
}

func TestWord_ChangeSegment_AlwaysDiffers(t *testing.T) {
	table := testTable(t)
	w, err := NewWord("b", table)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 20; i++ {
		before := w.String()
		ok := w.ChangeSegment(rng)
		require.True(t, ok)
		assert.NotEqual(t, before, w.String())
	}
}

func TestLexicon_New(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"ba", "pa"}, table)
	require.NoError(t, err)
	assert.Equal(t, 2, lex.Len())
	assert.Equal(t, "ba,pa", lex.String())
}

func TestLexicon_NumberOfDistinctWords(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"ba", "ba", "pa"}, table)
	require.NoError(t, err)
	assert.Equal(t, 2, lex.NumberOfDistinctWords())
}

func TestLexicon_Clone_Independence(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"ba"}, table)
	require.NoError(t, err)

	clone := lex.Clone()
	rng := rand.New(rand.NewPCG(1, 1))
	clone.Words()[0].DeleteSegment(rng)

	assert.Equal(t, 2, lex.Words()[0].Len(), "mutating the clone's word must not affect the original")
}

func TestLexicon_EncodingLength_RestrictedVsFull(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"ba"}, table)
	require.NoError(t, err)

	full := lex.EncodingLength(false)
	restricted := lex.EncodingLength(true)
	assert.Greater(t, full, 0)
	assert.Greater(t, restricted, 0)
}

func TestLexicon_MakeMutation_ZeroWeightsReturnsFalse(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"ba"}, table)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	assert.False(t, lex.MakeMutation(rng, MutationWeights{}))
}

func TestLexicon_MakeMutation_InsertSegmentGrowsAWord(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"ba"}, table)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 7))
	before := lex.numberOfSegments()
	ok := lex.MakeMutation(rng, MutationWeights{InsertSegment: 1})
	require.True(t, ok)
	assert.Equal(t, before+1, lex.numberOfSegments())
}

func TestLexicon_DeleteSegment_RemovesMonosegmentalWord(t *testing.T) {
	table := testTable(t)
	lex, err := New([]string{"b"}, table)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	ok := lex.deleteSegment(rng)
	require.True(t, ok)
	assert.Equal(t, 0, lex.Len())
}
