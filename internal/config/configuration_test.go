package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfigJSON() string {
	return `{
		"simulation_name": "demo",
		"corpus_duplication_factor": 1,
		"max_constraints_in_constraint_set": 5,
		"min_constraints_in_constraint_set": 0,
		"max_feature_bundles_in_phonotactic_constraint": 3,
		"min_feature_bundles_in_phonotactic_constraint": 0,
		"max_features_in_bundle": 2,
		"initial_number_of_features": 1,
		"initial_number_of_bundles_in_phonotactic_constraint": 1,
		"restriction_on_alphabet": false,
		"allow_candidates_with_changed_segments": false,
		"log_lexicon_words": false,
		"lexicon_mutation_weights": {"insert_segment": 1, "delete_segment": 1},
		"constraint_set_mutation_weights": {"insert": 1},
		"constraint_insertion_weights": {"Max": 1},
		"initial_temp": 10,
		"threshold": "10**-2",
		"cooling_factor": 0.99,
		"debug_logging_interval": 10,
		"clear_modules_caching_interval": 10,
		"steps_limitation": "inf",
		"random_seed": false,
		"seed": 1,
		"data_encoding_length_multiplier": 1,
		"grammar_encoding_length_multiplier": 1
	}`
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", validConfigJSON())

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.SimulationName)
	assert.True(t, cfg.StepsLimitation.IsInf())
	assert.InDelta(t, 0.01, cfg.Threshold.Float64(), 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{not valid`)
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate_MinExceedsMaxConstraints(t *testing.T) {
	cfg := Configuration{
		MinConstraintsInConstraintSet: NumberOf(5),
		MaxConstraintsInConstraintSet: NumberOf(1),
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_MinExceedsMaxPhonotacticBundles(t *testing.T) {
	cfg := Configuration{
		MinFeatureBundlesInPhonotacticConstraint: NumberOf(5),
		MaxFeatureBundlesInPhonotacticConstraint: NumberOf(1),
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_ZeroMutationWeightsSum(t *testing.T) {
	cfg := Configuration{
		LexiconMutationWeights:       map[string]int{},
		ConstraintSetMutationWeights: map[string]int{},
		ConstraintInsertionWeights:   map[string]int{"Max": 1},
		CoolingFactor:                0.5,
	}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_ZeroInsertionWeights(t *testing.T) {
	cfg := Configuration{
		LexiconMutationWeights:       map[string]int{"insert_segment": 1},
		ConstraintSetMutationWeights: map[string]int{},
		ConstraintInsertionWeights:   map[string]int{},
		CoolingFactor:                0.5,
	}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_RejectsTypoedMutationWeightKey(t *testing.T) {
	cfg := Configuration{
		// "insert_segmnt" is not a key Context.MutationWeights reads;
		// Validate must not treat it as satisfying the sum check.
		LexiconMutationWeights:       map[string]int{"insert_segmnt": 5},
		ConstraintSetMutationWeights: map[string]int{},
		ConstraintInsertionWeights:   map[string]int{"Max": 1},
		CoolingFactor:                0.5,
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownConstraintInsertionKey(t *testing.T) {
	cfg := Configuration{
		LexiconMutationWeights:       map[string]int{"insert_segment": 1},
		ConstraintSetMutationWeights: map[string]int{},
		ConstraintInsertionWeights:   map[string]int{"NotAConstraint": 5},
		CoolingFactor:                0.5,
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_ChangeSegmentGateMismatch(t *testing.T) {
	cfg := Configuration{
		LexiconMutationWeights:             map[string]int{"change_segment": 1},
		ConstraintSetMutationWeights:        map[string]int{},
		ConstraintInsertionWeights:          map[string]int{"Max": 1},
		AllowCandidatesWithChangedSegments: false,
		CoolingFactor:                       0.5,
	}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_CoolingFactorOutOfRange(t *testing.T) {
	cfg := Configuration{
		LexiconMutationWeights:       map[string]int{"insert_segment": 1},
		ConstraintSetMutationWeights: map[string]int{},
		ConstraintInsertionWeights:   map[string]int{"Max": 1},
		CoolingFactor:                1.5,
	}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_AcceptsValidConfig(t *testing.T) {
	cfg := Configuration{
		MinConstraintsInConstraintSet:                        NumberOf(0),
		MaxConstraintsInConstraintSet:                        NumberOf(5),
		MinFeatureBundlesInPhonotacticConstraint:             NumberOf(0),
		MaxFeatureBundlesInPhonotacticConstraint:             NumberOf(3),
		LexiconMutationWeights:                                map[string]int{"insert_segment": 1},
		ConstraintSetMutationWeights:                          map[string]int{},
		ConstraintInsertionWeights:                             map[string]int{"Max": 1},
		AllowCandidatesWithChangedSegments:                    false,
		CoolingFactor:                                          0.5,
	}
	assert.NoError(t, cfg.Validate())
}
