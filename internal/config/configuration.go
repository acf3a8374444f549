// Package config loads a simulation folder (config.json, constraints.json,
// features.json or .csv, corpus.txt) into a validated Configuration plus
// the engine context — the PRNG and the four memoization caches — that
// the rest of the engine shares by reference instead of through
// process-wide singletons (spec.md §9).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GalitDotan/Oatmeal/internal/constraint"
	"github.com/GalitDotan/Oatmeal/internal/errs"
)

// Configuration is the typed form of config.json.
type Configuration struct {
	SimulationName string `json:"simulation_name"`

	CorpusDuplicationFactor float64 `json:"corpus_duplication_factor"`

	MaxConstraintsInConstraintSet Number `json:"max_constraints_in_constraint_set"`
	MinConstraintsInConstraintSet Number `json:"min_constraints_in_constraint_set"`

	MaxFeatureBundlesInPhonotacticConstraint Number `json:"max_feature_bundles_in_phonotactic_constraint"`
	MinFeatureBundlesInPhonotacticConstraint Number `json:"min_feature_bundles_in_phonotactic_constraint"`
	MaxFeaturesInBundle                      Number `json:"max_features_in_bundle"`
	InitialNumberOfFeatures                  Number `json:"initial_number_of_features"`
	InitialNumberOfBundlesInPhonotactic      Number `json:"initial_number_of_bundles_in_phonotactic_constraint"`

	RandomPositionForFeatureBundleInsertionInPhonotactic bool `json:"random_position_for_feature_bundle_insertion_in_phonotactic"`
	RandomPositionForFeatureBundleRemovalInPhonotactic   bool `json:"random_position_for_feature_bundle_removal_in_phonotactic"`

	RestrictionOnAlphabet              bool `json:"restriction_on_alphabet"`
	AllowCandidatesWithChangedSegments bool `json:"allow_candidates_with_changed_segments"`
	LogLexiconWords                    bool `json:"log_lexicon_words"`

	LexiconMutationWeights       map[string]int `json:"lexicon_mutation_weights"`
	ConstraintSetMutationWeights map[string]int `json:"constraint_set_mutation_weights"`
	ConstraintInsertionWeights   map[string]int `json:"constraint_insertion_weights"`

	InitialTemp   int    `json:"initial_temp"`
	Threshold     Number `json:"threshold"`
	CoolingFactor float64 `json:"cooling_factor"`

	DebugLoggingInterval          int64 `json:"debug_logging_interval"`
	ClearModulesCachingInterval   int64 `json:"clear_modules_caching_interval"`

	StepsLimitation Number `json:"steps_limitation"`

	RandomSeed bool `json:"random_seed"`
	Seed       int  `json:"seed"`

	DataEncodingLengthMultiplier    int `json:"data_encoding_length_multiplier"`
	GrammarEncodingLengthMultiplier int `json:"grammar_encoding_length_multiplier"`
}

// Load reads config.json from folder and validates it.
func Load(folder string) (*Configuration, error) {
	path := filepath.Join(folder, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigurationError("MissingFile", fmt.Sprintf("cannot read %s: %v", path, err),
			map[string]any{"path": path})
	}

	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errs.NewConfigurationError("MalformedConfig", fmt.Sprintf("cannot parse %s: %v", path, err),
			map[string]any{"path": path})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// lexiconWeightKeys and constraintSetWeightKeys are the only
// lexicon_mutation_weights / constraint_set_mutation_weights keys
// Context.MutationWeights (context.go) actually reads; weightsSum is
// restricted to them so a typoed key can't inflate Validate's sum check
// past a real weight of zero.
var (
	lexiconWeightKeys       = []string{"insert_segment", "delete_segment", "change_segment"}
	constraintSetWeightKeys = []string{
		"insert", "remove", "demote",
		"insert_feature_bundle_phonotactic", "remove_feature_bundle_phonotactic", "augment_feature_bundle",
	}
	constraintKindNames = constraintKindNamesOf(constraint.Registry)
)

func constraintKindNamesOf(registry []constraint.Kind) []string {
	names := make([]string, len(registry))
	for i, k := range registry {
		names[i] = string(k)
	}
	return names
}

func weightsSum(weights map[string]int, knownKeys []string) int {
	total := 0
	for _, key := range knownKeys {
		if w := weights[key]; w > 0 {
			total += w
		}
	}
	return total
}

// Validate enforces spec.md §6's bound and weight-sum invariants, plus
// the change_segment/allow_candidates_with_changed_segments co-gating
// validator from SPEC_FULL.md §4.2.4 (Open Question (c)).
func (c *Configuration) Validate() error {
	if c.MinConstraintsInConstraintSet.Float64() > c.MaxConstraintsInConstraintSet.Float64() {
		return errs.NewConfigurationError("MinExceedsMax",
			"min_constraints_in_constraint_set exceeds max_constraints_in_constraint_set", nil)
	}
	if c.MinFeatureBundlesInPhonotacticConstraint.Float64() > c.MaxFeatureBundlesInPhonotacticConstraint.Float64() {
		return errs.NewConfigurationError("MinExceedsMax",
			"min_feature_bundles_in_phonotactic_constraint exceeds its max", nil)
	}

	lexiconSum := weightsSum(c.LexiconMutationWeights, lexiconWeightKeys)
	constraintSetSum := weightsSum(c.ConstraintSetMutationWeights, constraintSetWeightKeys)
	if lexiconSum+constraintSetSum <= 0 {
		return errs.NewConfigurationError("ZeroMutationWeight",
			"lexicon_mutation_weights and constraint_set_mutation_weights sum to zero "+
				"(only insert_segment/delete_segment/change_segment and insert/remove/demote/"+
				"insert_feature_bundle_phonotactic/remove_feature_bundle_phonotactic/augment_feature_bundle "+
				"keys are recognized)", nil)
	}
	if weightsSum(c.ConstraintInsertionWeights, constraintKindNames) <= 0 {
		return errs.NewConfigurationError("ZeroMutationWeight",
			"constraint_insertion_weights sums to zero (keys must match a known constraint kind)", nil)
	}

	changeSegmentWeight := c.LexiconMutationWeights["change_segment"] > 0
	if changeSegmentWeight != c.AllowCandidatesWithChangedSegments {
		return errs.NewConfigurationError("ChangeSegmentGateMismatch",
			"change_segment (lexicon_mutation_weights) and allow_candidates_with_changed_segments must be enabled together",
			map[string]any{"change_segment_weight": c.LexiconMutationWeights["change_segment"],
				"allow_candidates_with_changed_segments": c.AllowCandidatesWithChangedSegments})
	}

	if c.CoolingFactor <= 0 || c.CoolingFactor >= 1 {
		return errs.NewConfigurationError("CoolingFactorOutOfRange",
			"cooling_factor must be in (0, 1)", map[string]any{"cooling_factor": c.CoolingFactor})
	}

	return nil
}
