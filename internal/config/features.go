package config

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
)

type featuresFileDTO struct {
	Feature      []featureDTO        `json:"feature"`
	FeatureTable map[string][]string `json:"feature_table"`
}

type featureDTO struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// LoadFeatureTable reads features.json (preferred) or features.csv from
// folder into a *feature.Table.
func LoadFeatureTable(folder string) (*feature.Table, error) {
	jsonPath := filepath.Join(folder, "features.json")
	if _, err := os.Stat(jsonPath); err == nil {
		return loadFeatureTableJSON(jsonPath)
	}
	csvPath := filepath.Join(folder, "features.csv")
	if _, err := os.Stat(csvPath); err == nil {
		return loadFeatureTableCSV(csvPath)
	}
	return nil, errs.NewConfigurationError("MissingFile",
		fmt.Sprintf("neither features.json nor features.csv found in %s", folder), map[string]any{"folder": folder})
}

func loadFeatureTableJSON(path string) (*feature.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigurationError("MissingFile", fmt.Sprintf("cannot read %s: %v", path, err), nil)
	}
	var dto featuresFileDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, errs.NewConfigurationError("MalformedConfig", fmt.Sprintf("cannot parse %s: %v", path, err), nil)
	}
	features := make([]feature.Feature, len(dto.Feature))
	for i, f := range dto.Feature {
		features[i] = feature.Feature{Label: f.Label, Values: f.Values}
	}
	return feature.NewTable(features, dto.FeatureTable)
}

// loadFeatureTableCSV parses the CSV layout: first row is an empty cell
// followed by feature labels; each subsequent row is
// "segment, value, value, ...", in the same column order as the header.
func loadFeatureTableCSV(path string) (*feature.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.NewConfigurationError("MissingFile", fmt.Sprintf("cannot read %s: %v", path, err), nil)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errs.NewConfigurationError("MalformedConfig", fmt.Sprintf("cannot parse %s: %v", path, err), nil)
	}
	if len(rows) < 1 {
		return nil, errs.NewFeatureParseError("EmptyFeatureTable", "features.csv has no header row", nil)
	}

	header := rows[0]
	labels := header[1:]

	segmentValues := make(map[string][]string, len(rows)-1)
	valuesByLabel := make(map[string]map[string]bool, len(labels))
	for _, label := range labels {
		valuesByLabel[label] = make(map[string]bool)
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		symbol := row[0]
		values := row[1:]
		if len(values) != len(labels) {
			return nil, errs.NewFeatureParseError("FeatureCountMismatch",
				fmt.Sprintf("row for segment %s has %d values, expected %d", symbol, len(values), len(labels)),
				map[string]any{"segment": symbol})
		}
		segmentValues[symbol] = values
		for i, v := range values {
			valuesByLabel[labels[i]][v] = true
		}
	}

	features := make([]feature.Feature, len(labels))
	for i, label := range labels {
		vals := make([]string, 0, len(valuesByLabel[label]))
		for v := range valuesByLabel[label] {
			vals = append(vals, v)
		}
		slices.Sort(vals)
		features[i] = feature.Feature{Label: label, Values: vals}
	}

	return feature.NewTable(features, segmentValues)
}
