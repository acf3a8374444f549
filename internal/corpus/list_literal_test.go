package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListLiteral_MixedQuoting(t *testing.T) {
	words, err := parseListLiteral(`["bab", 'pat', kad]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bab", "pat", "kad"}, words)
}

func TestParseListLiteral_TrailingComma(t *testing.T) {
	words, err := parseListLiteral(`[bab, pat,]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bab", "pat"}, words)
}

func TestParseListLiteral_Malformed(t *testing.T) {
	_, err := parseListLiteral(`[bab, pat`)
	assert.Error(t, err)
}

func TestParseListLiteral_Empty(t *testing.T) {
	words, err := parseListLiteral(`[]`)
	require.Error(t, err, "grammar requires at least one element")
	_ = words
}
