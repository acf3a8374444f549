// Package anneal implements the simulated-annealing search driver: a
// cooling loop over TraversableGrammarHypothesis neighbors, accepting or
// rejecting each proposed mutation under the Metropolis criterion.
package anneal

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/GalitDotan/Oatmeal/internal/constraint"
	"github.com/GalitDotan/Oatmeal/internal/grammar"
)

// Params are the knobs settings.* supplies in the source: the cooling
// schedule, the step budget, and the logging/cache-flush cadence.
type Params struct {
	InitialTemperature float64
	Threshold          float64
	CoolingFactor      float64

	// StepLimitation bounds the number of steps; math.MaxInt64 (the
	// "no limit" sentinel the config layer maps "inf" onto) runs until
	// the temperature crosses Threshold instead.
	StepLimitation int64

	DebugLoggingInterval      int64
	ClearCachingIntervalSteps int64

	GrammarEncodingLengthMultiplier int
	DataEncodingLengthMultiplier    int
}

// SimulatedAnnealing drives a TraversableGrammarHypothesis through the
// cooling loop described in spec.md §4.5.
type SimulatedAnnealing struct {
	InitialHypothesis *grammar.TraversableGrammarHypothesis
	CurrentHypothesis *grammar.TraversableGrammarHypothesis

	Caches *grammar.Caches
	Rng    *rand.Rand
	Logger *zap.Logger

	Params          Params
	MutationWeights grammar.MutationWeights
	MutationParams  constraint.MutationParams

	step                    int64
	currentTemperature      float64
	currentHypothesisEnergy int
	startTime               time.Time
	previousIntervalTime    time.Time
	previousIntervalEnergy  int
}

// New builds a driver ready to Run.
func New(initial *grammar.TraversableGrammarHypothesis, caches *grammar.Caches, rng *rand.Rand, logger *zap.Logger,
	params Params, mutationWeights grammar.MutationWeights, mutationParams constraint.MutationParams) *SimulatedAnnealing {
	return &SimulatedAnnealing{
		InitialHypothesis: initial,
		CurrentHypothesis: initial,
		Caches:            caches,
		Rng:               rng,
		Logger:            logger,
		Params:            params,
		MutationWeights:   mutationWeights,
		MutationParams:    mutationParams,
	}
}

// Run executes the cooling loop to completion — until the temperature
// drops to or below the threshold, or the step limit is reached — and
// returns the number of steps taken and the final hypothesis.
func (sa *SimulatedAnnealing) Run() (int64, *grammar.TraversableGrammarHypothesis, error) {
	if err := sa.beforeLoop(); err != nil {
		return 0, nil, err
	}

	for sa.currentTemperature > sa.Params.Threshold && sa.step != sa.Params.StepLimitation {
		if err := sa.makeStep(); err != nil {
			return sa.step, nil, err
		}
	}

	sa.afterLoop()
	return sa.step, sa.CurrentHypothesis, nil
}

func (sa *SimulatedAnnealing) beforeLoop() error {
	sa.startTime = time.Now()
	sa.previousIntervalTime = sa.startTime

	energy, err := sa.CurrentHypothesis.UpdateEnergy(sa.Caches)
	if err != nil {
		return err
	}
	if energy == grammar.Infinite {
		return fmt.Errorf("first hypothesis energy cannot be infinite")
	}
	sa.currentHypothesisEnergy = energy
	sa.logHypothesisState()
	sa.previousIntervalEnergy = sa.currentHypothesisEnergy

	sa.currentTemperature = sa.Params.InitialTemperature
	return nil
}

func (sa *SimulatedAnnealing) makeStep() error {
	sa.step++
	sa.currentTemperature *= sa.Params.CoolingFactor

	sa.checkForIntervals()

	mutated, neighbor, err := sa.CurrentHypothesis.GetNeighbor(sa.Rng, sa.MutationWeights, sa.MutationParams)
	if err != nil {
		return err
	}
	if !mutated {
		return nil
	}

	neighborEnergy, err := neighbor.UpdateEnergy(sa.Caches)
	if err != nil {
		sa.Logger.Debug("discarding neighbor", zap.Error(err))
		return nil
	}
	delta := neighborEnergy - sa.currentHypothesisEnergy

	var acceptProbability float64
	if delta < 0 {
		acceptProbability = 1
	} else {
		acceptProbability = math.Exp(-float64(delta) / sa.currentTemperature)
	}

	if sa.Rng.Float64() < acceptProbability {
		sa.Logger.Debug("switch")
		sa.CurrentHypothesis = neighbor
		sa.currentHypothesisEnergy = neighborEnergy
	} else {
		sa.Logger.Debug("did not switch")
	}
	return nil
}

func (sa *SimulatedAnnealing) checkForIntervals() {
	if sa.Params.DebugLoggingInterval > 0 && sa.step%sa.Params.DebugLoggingInterval == 0 {
		sa.debugInterval()
	}
	if sa.Params.ClearCachingIntervalSteps > 0 && sa.step%sa.Params.ClearCachingIntervalSteps == 0 {
		sa.Caches.Clear()
	}
}

func (sa *SimulatedAnnealing) debugInterval() {
	now := time.Now()
	sa.Logger.Info("step", zap.Int64("step", sa.step), zap.Float64("temperature", sa.currentTemperature))
	sa.logHypothesisState()
	sa.Logger.Info("energy delta since last interval",
		zap.Int("delta", sa.currentHypothesisEnergy-sa.previousIntervalEnergy))
	sa.previousIntervalEnergy = sa.currentHypothesisEnergy
	sa.Logger.Info("time since last interval", zap.Duration("elapsed", now.Sub(sa.previousIntervalTime)))
	sa.previousIntervalTime = now
}

func (sa *SimulatedAnnealing) afterLoop() {
	sa.Logger.Info("final hypothesis")
	sa.logHypothesisState()
	sa.Logger.Info("simulated annealing runtime", zap.Duration("elapsed", time.Since(sa.startTime)))
}

func (sa *SimulatedAnnealing) logHypothesisState() {
	sa.Logger.Info("hypothesis state",
		zap.String("constraint_set", sa.CurrentHypothesis.Grammar.ConstraintSet.String()),
		zap.String("lexicon", sa.CurrentHypothesis.Grammar.Lexicon.String()),
		zap.String("parse", sa.CurrentHypothesis.GetRecentDataParse()),
		zap.String("energy", sa.CurrentHypothesis.GetRecentEnergySignature()),
	)
}
