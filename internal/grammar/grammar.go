// Package grammar ties a FeatureTable, a ConstraintSet, and a Lexicon
// together into the object an Optimality-Theoretic learner mutates and
// scores: generating surface realizations for an underlying word via
// transducer intersection, and exposing the structured mutation and
// encoding-length interface the MDL scorer and annealing driver need.
package grammar

import (
	"math/rand/v2"

	"github.com/GalitDotan/Oatmeal/internal/constraint"
	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/lexicon"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// Caches bundles the engine's four memoization caches (spec.md §5): one
// for individual compiled constraints, one for compiled constraint sets
// (which also holds each set's optimal-paths-reduced grammar transducer,
// under a distinct key suffix, rather than spinning up a fifth cache),
// one for generation results, and one for word input transducers.
type Caches struct {
	Constraint    *constraint.TransducerCache
	ConstraintSet *constraint.TransducerCache
	Generation    *GenerationCache
	Word          *lexicon.TransducerCache
}

// NewCaches builds four empty caches.
func NewCaches() *Caches {
	return &Caches{
		Constraint:    constraint.NewTransducerCache(),
		ConstraintSet: constraint.NewTransducerCache(),
		Generation:    NewGenerationCache(),
		Word:          lexicon.NewTransducerCache(),
	}
}

// Clear flushes all four caches, per the annealing driver's periodic
// cache-flush interval.
func (c *Caches) Clear() {
	c.Constraint.Clear()
	c.ConstraintSet.Clear()
	c.Generation.Clear()
	c.Word.Clear()
}

const reducedKeySuffix = "\x00reduced"

// Grammar is the aggregate an OT learner hypothesizes: a feature table
// fixing the segment inventory, a ranked constraint set, and a lexicon of
// underlying representations.
type Grammar struct {
	Table                 *feature.Table
	ConstraintSet         *constraint.ConstraintSet
	Lexicon               *lexicon.Lexicon
	RestrictionOnAlphabet bool
	Name                  string
}

// New constructs a Grammar from its three parts.
func New(table *feature.Table, cs *constraint.ConstraintSet, lex *lexicon.Lexicon, restrictionOnAlphabet bool, name string) *Grammar {
	return &Grammar{Table: table, ConstraintSet: cs, Lexicon: lex, RestrictionOnAlphabet: restrictionOnAlphabet, Name: name}
}

func (g *Grammar) String() string {
	return "Grammar with [" + g.ConstraintSet.String() + "]; and [" + g.Lexicon.String() + "]"
}

// Clone deep-copies the lexicon and constraint set (value-copy cloning
// strategy, spec.md §9), so that mutating the clone during annealing's
// get_neighbor step never touches the hypothesis it was copied from. The
// feature table is treated as immutable configuration and shared.
func (g *Grammar) Clone() *Grammar {
	return &Grammar{
		Table:                 g.Table,
		ConstraintSet:         g.ConstraintSet.Clone(),
		Lexicon:               g.Lexicon.Clone(),
		RestrictionOnAlphabet: g.RestrictionOnAlphabet,
		Name:                  g.Name,
	}
}

// EncodingLength is ConstraintSet.EncodingLength + Lexicon.EncodingLength.
func (g *Grammar) EncodingLength() int {
	return g.ConstraintSet.EncodingLength() + g.Lexicon.EncodingLength(g.RestrictionOnAlphabet)
}

// GetTransducer returns the memoized, optimal-paths-reduced constraint-set
// transducer — the grammar transducer proper — keyed by the constraint
// set's canonical string.
func (g *Grammar) GetTransducer(caches *Caches) (*transducer.Transducer, error) {
	key := g.ConstraintSet.String()
	if t, ok := caches.ConstraintSet.Get(key + reducedKeySuffix); ok {
		return t, nil
	}
	composite, err := g.ConstraintSet.GetTransducer(g.Table, caches.Constraint, caches.ConstraintSet)
	if err != nil {
		return nil, err
	}
	reduced := composite.OptimalPathsReduce()
	caches.ConstraintSet.Set(key+reducedKeySuffix, reduced)
	return reduced, nil
}

// Generate returns the set of surface strings that are OT-optimal for the
// given underlying word: intersect the word's input transducer with the
// grammar transducer, clear dead states, apply a per-word optimality
// re-reduction (the grammar transducer's output side still carries JOKERs
// that only resolve against this word's concrete segments), and enumerate
// the range. Memoized by (constraint-set string, word string).
func (g *Grammar) Generate(word *lexicon.Word, caches *Caches) ([]string, error) {
	csKey := g.ConstraintSet.String()
	wordKey := word.String()
	if outputs, ok := caches.Generation.Get(csKey, wordKey); ok {
		return outputs, nil
	}

	grammarTransducer, err := g.GetTransducer(caches)
	if err != nil {
		return nil, err
	}
	wordTransducer, err := word.GetTransducer(caches.Word)
	if err != nil {
		return nil, err
	}

	intersected, err := transducer.Intersect(wordTransducer, grammarTransducer, "generate("+wordKey+")")
	if err != nil {
		return nil, err
	}
	intersected.ClearDeadStates()
	reduced := intersected.OptimalPathsReduce()
	outputs := reduced.Range(reduced.DefaultMaxPathArcs())

	caches.Generation.Set(csKey, wordKey, outputs)
	return outputs, nil
}

// GetAllOutputs generates outputs for every word in words (or, if words
// is empty, every word currently in the lexicon).
func (g *Grammar) GetAllOutputs(words []*lexicon.Word, caches *Caches) ([]string, error) {
	if len(words) == 0 {
		words = g.Lexicon.Words()
	}
	var outputs []string
	for _, w := range words {
		o, err := g.Generate(w, caches)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, o...)
	}
	return outputs, nil
}

// MutationWeights selects which object — Lexicon or ConstraintSet — a
// mutation targets, with probability proportional to each object's own
// mutation-weight sum.
type MutationWeights struct {
	Lexicon       lexicon.MutationWeights
	ConstraintSet constraint.ConstraintSetMutationWeights
}

// MakeMutation mutates either the lexicon or the constraint set, chosen
// with probability proportional to lexiconWeights.Sum() and
// constraintSetWeights.Sum(), and reports whether the mutation changed
// state.
func (g *Grammar) MakeMutation(rng *rand.Rand, weights MutationWeights, csParams constraint.MutationParams) (bool, error) {
	lexiconSum := weights.Lexicon.Sum()
	constraintSetSum := weights.ConstraintSet.Sum()
	total := lexiconSum + constraintSetSum
	if total <= 0 {
		return false, errs.NewConfigurationError("NoMutationWeight",
			"lexicon_mutation_weights and constraint_set_mutation_weights sum to zero", nil)
	}
	pick := rng.IntN(total)
	if pick < lexiconSum {
		return g.Lexicon.MakeMutation(rng, weights.Lexicon), nil
	}
	csParams.Rng = rng
	return g.ConstraintSet.MakeMutation(csParams, weights.ConstraintSet), nil
}
