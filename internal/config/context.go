package config

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/GalitDotan/Oatmeal/internal/anneal"
	"github.com/GalitDotan/Oatmeal/internal/constraint"
	"github.com/GalitDotan/Oatmeal/internal/corpus"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/grammar"
	"github.com/GalitDotan/Oatmeal/internal/lexicon"
)

// Context is the explicit engine context spec.md §9 calls for in place of
// the source's process-wide settings and memoization singletons: the
// validated configuration, the shared PRNG, the four memoization caches,
// and a logger, passed by reference through the call graph.
type Context struct {
	Configuration *Configuration
	Table         *feature.Table
	Caches        *grammar.Caches
	Rng           *rand.Rand
	Logger        *zap.Logger
}

// Build loads every file in folder and assembles the engine context plus
// the initial TraversableGrammarHypothesis the annealing driver starts
// from; the hypothesis' lexicon and its observed data are both the loaded
// corpus.
func Build(folder string, logger *zap.Logger) (*Context, *grammar.TraversableGrammarHypothesis, error) {
	cfg, err := Load(folder)
	if err != nil {
		return nil, nil, err
	}

	table, err := LoadFeatureTable(folder)
	if err != nil {
		return nil, nil, err
	}

	cs, err := LoadConstraintSet(folder, table, cfg.AllowCandidatesWithChangedSegments,
		cfg.MinConstraintsInConstraintSet.Int(), cfg.MaxConstraintsInConstraintSet.Int())
	if err != nil {
		return nil, nil, err
	}

	corpusData, err := corpus.Load(corpusPath(folder), cfg.CorpusDuplicationFactor)
	if err != nil {
		return nil, nil, err
	}

	lex, err := lexicon.New(corpusData.Words(), table)
	if err != nil {
		return nil, nil, err
	}

	seed := uint64(cfg.Seed)
	if cfg.RandomSeed {
		seed = uint64(rand.N(1000)) + 1
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	ctx := &Context{
		Configuration: cfg,
		Table:         table,
		Caches:        grammar.NewCaches(),
		Rng:           rng,
		Logger:        logger,
	}

	g := grammar.New(table, cs, lex, cfg.RestrictionOnAlphabet, cfg.SimulationName)
	hypothesis := grammar.NewHypothesis(g, corpusData.Words(), cfg.GrammarEncodingLengthMultiplier, cfg.DataEncodingLengthMultiplier)

	return ctx, hypothesis, nil
}

func corpusPath(folder string) string {
	return folder + "/corpus.txt"
}

// AnnealParams translates Configuration into anneal.Params.
func (c *Context) AnnealParams() anneal.Params {
	cfg := c.Configuration
	return anneal.Params{
		InitialTemperature:              float64(cfg.InitialTemp),
		Threshold:                       cfg.Threshold.Float64(),
		CoolingFactor:                   cfg.CoolingFactor,
		StepLimitation:                  int64(cfg.StepsLimitation.Int()),
		DebugLoggingInterval:            cfg.DebugLoggingInterval,
		ClearCachingIntervalSteps:       cfg.ClearModulesCachingInterval,
		GrammarEncodingLengthMultiplier: cfg.GrammarEncodingLengthMultiplier,
		DataEncodingLengthMultiplier:    cfg.DataEncodingLengthMultiplier,
	}
}

// MutationWeights translates Configuration's weight maps into
// grammar.MutationWeights.
func (c *Context) MutationWeights() grammar.MutationWeights {
	w := c.Configuration.LexiconMutationWeights
	cw := c.Configuration.ConstraintSetMutationWeights
	return grammar.MutationWeights{
		Lexicon: lexicon.MutationWeights{
			InsertSegment: w["insert_segment"],
			DeleteSegment: w["delete_segment"],
			ChangeSegment: w["change_segment"],
		},
		ConstraintSet: constraint.ConstraintSetMutationWeights{
			Insert:                         cw["insert"],
			Remove:                         cw["remove"],
			Demote:                         cw["demote"],
			InsertFeatureBundlePhonotactic: cw["insert_feature_bundle_phonotactic"],
			RemoveFeatureBundlePhonotactic: cw["remove_feature_bundle_phonotactic"],
			AugmentFeatureBundle:           cw["augment_feature_bundle"],
		},
	}
}

// ConstraintMutationParams translates Configuration into
// constraint.MutationParams. Rng is left nil; callers fill it in per use
// (Grammar.MakeMutation does this automatically).
func (c *Context) ConstraintMutationParams() constraint.MutationParams {
	cfg := c.Configuration
	insertionWeights := make(map[constraint.Kind]int, len(cfg.ConstraintInsertionWeights))
	for name, w := range cfg.ConstraintInsertionWeights {
		insertionWeights[constraint.Kind(name)] = w
	}
	return constraint.MutationParams{
		Table:                              c.Table,
		InsertionWeights:                   insertionWeights,
		InitialNumFeatures:                 cfg.InitialNumberOfFeatures.Int(),
		InitialNumPhonotacticBundles:       cfg.InitialNumberOfBundlesInPhonotactic.Int(),
		AllowChangedSegments:               cfg.AllowCandidatesWithChangedSegments,
		MinFeatureBundlesInPhonotactic:     cfg.MinFeatureBundlesInPhonotacticConstraint.Int(),
		MaxFeatureBundlesInPhonotactic:     cfg.MaxFeatureBundlesInPhonotacticConstraint.Int(),
		MaxFeaturesInBundle:                cfg.MaxFeaturesInBundle.Int(),
		RandomPositionInsertionPhonotactic: cfg.RandomPositionForFeatureBundleInsertionInPhonotactic,
		RandomPositionRemovalPhonotactic:   cfg.RandomPositionForFeatureBundleRemovalInPhonotactic,
	}
}
