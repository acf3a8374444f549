// Package main is the otml entry point: a single command that loads a
// simulation folder, runs simulated annealing to completion, and logs the
// final hypothesis.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GalitDotan/Oatmeal/internal/anneal"
	"github.com/GalitDotan/Oatmeal/internal/config"
)

var (
	configurationFolder string
	verbose             bool
	logger              *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "otml",
	Short: "otml learns an Optimality-Theoretic grammar from a simulation folder under the MDL principle",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&configurationFolder, "configuration", "c", "",
		"path to a folder containing config.json, constraints.json, features.json (or .csv), and corpus.txt")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("configuration")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, hypothesis, err := config.Build(configurationFolder, logger)
	if err != nil {
		logger.Error("failed to build engine context", zap.Error(err))
		return err
	}

	driver := anneal.New(hypothesis, ctx.Caches, ctx.Rng, logger, ctx.AnnealParams(), ctx.MutationWeights(), ctx.ConstraintMutationParams())

	steps, final, err := driver.Run()
	if err != nil {
		logger.Error("simulated annealing failed", zap.Error(err))
		return err
	}

	logger.Info("simulation complete",
		zap.Int64("steps", steps),
		zap.String("constraint_set", final.Grammar.ConstraintSet.String()),
		zap.String("lexicon", final.Grammar.Lexicon.String()),
		zap.Int("combined_energy", final.CombinedEnergy))

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
