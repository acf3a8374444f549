package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GalitDotan/Oatmeal/internal/constraint"
	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
)

type constraintDTO struct {
	Type    string              `json:"type"`
	Bundles []map[string]string `json:"bundles"`
}

// LoadConstraintSet reads constraints.json from folder: a ranked list of
// constraint descriptors, rank given by list position.
func LoadConstraintSet(folder string, table *feature.Table, allowChangedSegments bool, minConstraints, maxConstraints int) (*constraint.ConstraintSet, error) {
	path := filepath.Join(folder, "constraints.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigurationError("MissingFile", fmt.Sprintf("cannot read %s: %v", path, err), nil)
	}

	var dtos []constraintDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, errs.NewGrammarParseError("MalformedConstraints", fmt.Sprintf("cannot parse %s: %v", path, err), nil)
	}

	constraints := make([]*constraint.Constraint, len(dtos))
	for i, dto := range dtos {
		bundles := make([]feature.Bundle, len(dto.Bundles))
		for j, raw := range dto.Bundles {
			b, err := feature.NewBundle(raw, table)
			if err != nil {
				return nil, err
			}
			bundles[j] = b
		}
		c, err := constraint.New(constraint.Kind(dto.Type), bundles, allowChangedSegments)
		if err != nil {
			return nil, err
		}
		constraints[i] = c
	}

	return constraint.NewConstraintSet(constraints, minConstraints, maxConstraints)
}
