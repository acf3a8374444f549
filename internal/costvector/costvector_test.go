package costvector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_EqualLength(t *testing.T) {
	out, err := Add(Of(1, 2), Of(3, 4))
	require.NoError(t, err)
	assert.Equal(t, Of(4, 6), out)
}

func TestAdd_EmptyIsIdentity(t *testing.T) {
	out, err := Add(Empty(), Of(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, Of(1, 2, 3), out)

	out, err = Add(Of(1, 2, 3), Empty())
	require.NoError(t, err)
	assert.Equal(t, Of(1, 2, 3), out)
}

func TestAdd_LengthMismatch(t *testing.T) {
	_, err := Add(Of(1, 2), Of(1, 2, 3))
	assert.Error(t, err)
}

func TestConcat(t *testing.T) {
	assert.Equal(t, Of(1, 2, 3, 4), Concat(Of(1, 2), Of(3, 4)))
	assert.Equal(t, Of(1, 2), Concat(Empty(), Of(1, 2)))
}

func TestCompare_Lexicographic(t *testing.T) {
	assert.Equal(t, -1, Compare(Of(1, 2), Of(1, 3)))
	assert.Equal(t, 1, Compare(Of(2, 0), Of(1, 9)))
	assert.Equal(t, 0, Compare(Of(1, 2), Of(1, 2)))
}

func TestLess(t *testing.T) {
	assert.True(t, Less(Of(0, 5), Of(1, 0)))
	assert.False(t, Less(Of(1, 0), Of(0, 5)))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Of(1, 2), Of(1, 2)))
	assert.False(t, Equal(Of(1, 2), Of(1, 2, 3)))
	assert.False(t, Equal(Of(1, 2), Of(1, 3)))
}

func TestZeros(t *testing.T) {
	assert.Equal(t, Vector{0, 0, 0}, Zeros(3))
}
