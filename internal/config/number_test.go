package config

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON_PlainNumber(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte("3.5"), &n))
	assert.Equal(t, 3.5, n.Float64())
	assert.False(t, n.IsInf())
}

func TestNumber_UnmarshalJSON_Inf(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"inf"`), &n))
	assert.True(t, n.IsInf())
	assert.True(t, math.IsInf(n.Float64(), 1))
	assert.Equal(t, math.MaxInt, n.Int())
}

func TestNumber_UnmarshalJSON_InfCaseInsensitive(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"INF"`), &n))
	assert.True(t, n.IsInf())
}

func TestNumber_UnmarshalJSON_PowerLiteral(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"10**-2"`), &n))
	assert.InDelta(t, 0.01, n.Float64(), 1e-9)
}

func TestNumber_UnmarshalJSON_StringNumber(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &n))
	assert.Equal(t, 42, n.Int())
}

func TestNumber_UnmarshalJSON_InvalidLiteral(t *testing.T) {
	var n Number
	err := json.Unmarshal([]byte(`"not-a-number"`), &n)
	assert.Error(t, err)
}

func TestNumber_UnmarshalJSON_InvalidPowerLiteral(t *testing.T) {
	var n Number
	err := json.Unmarshal([]byte(`"x**y"`), &n)
	assert.Error(t, err)
}

func TestNumber_UnmarshalJSON_UnsupportedType(t *testing.T) {
	var n Number
	err := json.Unmarshal([]byte(`true`), &n)
	assert.Error(t, err)
}

func TestNumberOf(t *testing.T) {
	n := NumberOf(7)
	assert.Equal(t, 7, n.Int())
	assert.False(t, n.IsInf())
}
