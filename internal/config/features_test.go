package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFeatureTable_PrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "features.json", `{
		"feature": [{"label": "voice", "values": ["+", "-"]}],
		"feature_table": {"b": ["+"], "p": ["-"]}
	}`)
	writeFile(t, dir, "features.csv", ",voice\nd,+\nt,-\n")

	table, err := LoadFeatureTable(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "p"}, table.Alphabet())
}

func TestLoadFeatureTable_FallsBackToCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "features.csv", ",voice\nb,+\np,-\n")

	table, err := LoadFeatureTable(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "p"}, table.Alphabet())
}

func TestLoadFeatureTable_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFeatureTable(dir)
	assert.Error(t, err)
}

func TestLoadFeatureTable_CSV_MultipleFeatureColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "features.csv", ",voice,place\nb,+,lab\np,-,lab\na,+,dor\n")

	table, err := LoadFeatureTable(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "p"}, table.Alphabet())
}

func TestLoadFeatureTable_CSV_RowLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "features.csv", ",voice,place\nb,+\n")

	_, err := LoadFeatureTable(dir)
	assert.Error(t, err)
}

func TestLoadFeatureTable_JSON_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "features.json", `{not valid json`)

	_, err := LoadFeatureTable(dir)
	assert.Error(t, err)
}
