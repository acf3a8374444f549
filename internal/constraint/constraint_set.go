package constraint

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// ConstraintSet is a ranked, ordered sequence of Constraints: position 0
// is the highest rank. It owns the fold of its constraints' transducers
// into one composite transducer (memoized by canonical string) and the
// mutation operators that propose constraint-level neighbors during
// annealing.
type ConstraintSet struct {
	constraints    []*Constraint
	minConstraints int
	maxConstraints int
}

// NewConstraintSet validates the size bound and duplicate-constraint
// invariants and constructs a ConstraintSet owning a copy of constraints.
func NewConstraintSet(constraints []*Constraint, minConstraints, maxConstraints int) (*ConstraintSet, error) {
	if len(constraints) < minConstraints || len(constraints) > maxConstraints {
		return nil, errs.NewConfigurationError("ConstraintSetSizeOutOfBounds",
			"constraint set size is outside [min_constraints, max_constraints]",
			map[string]any{"size": len(constraints), "min": minConstraints, "max": maxConstraints})
	}
	seen := make(map[string]bool, len(constraints))
	for _, c := range constraints {
		key := c.String()
		if seen[key] {
			return nil, errs.NewConfigurationError("DuplicateConstraint",
				"constraint set contains a duplicate constraint instance", map[string]any{"constraint": key})
		}
		seen[key] = true
	}
	return &ConstraintSet{
		constraints:    slices.Clone(constraints),
		minConstraints: minConstraints,
		maxConstraints: maxConstraints,
	}, nil
}

// Clone deep-copies the constraint set for the annealing-neighbor
// value-copy cloning strategy (spec.md §9). AugmentFeatureBundle mutates
// a bundle's feature map in place, so each bundle's map must be copied
// too, not just the Bundles slice — a plain slices.Clone would leave
// every clone aliasing the same underlying maps.
func (cs *ConstraintSet) Clone() *ConstraintSet {
	constraints := make([]*Constraint, len(cs.constraints))
	for i, c := range cs.constraints {
		clone := *c
		bundles := make([]feature.Bundle, len(c.Bundles))
		for j, b := range c.Bundles {
			bundles[j] = b.Clone()
		}
		clone.Bundles = bundles
		constraints[i] = &clone
	}
	return &ConstraintSet{
		constraints:    constraints,
		minConstraints: cs.minConstraints,
		maxConstraints: cs.maxConstraints,
	}
}

// Constraints returns a copy of the ranked constraint list.
func (cs *ConstraintSet) Constraints() []*Constraint { return slices.Clone(cs.constraints) }

// Size is the number of constraints currently in the set.
func (cs *ConstraintSet) Size() int { return len(cs.constraints) }

// String is the canonical form used as a memoization key: constraints in
// rank order, highest first, separated by " >> ".
func (cs *ConstraintSet) String() string {
	parts := make([]string, len(cs.constraints))
	for i, c := range cs.constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, " >> ")
}

// EncodingLength is the sum of each constraint's own encoding length.
func (cs *ConstraintSet) EncodingLength() int {
	total := 0
	for _, c := range cs.constraints {
		total += c.EncodingLength()
	}
	return total
}

// cachedConstraintTransducer compiles (or fetches from cache) a single
// constraint's transducer, keyed by its canonical string.
func cachedConstraintTransducer(c *Constraint, table *feature.Table, cache *TransducerCache) (*transducer.Transducer, error) {
	key := c.String()
	if t, ok := cache.Get(key); ok {
		return t, nil
	}
	t, err := c.GetTransducer(table)
	if err != nil {
		return nil, err
	}
	cache.Set(key, t)
	return t, nil
}

// GetTransducer folds the ranked constraints into one composite
// transducer via repeated intersection, clearing dead states after each
// fold step, and memoizes the result in setCache keyed by the set's
// canonical string. constraintCache memoizes the individual compiled
// constraints that feed the fold.
func (cs *ConstraintSet) GetTransducer(table *feature.Table, constraintCache, setCache *TransducerCache) (*transducer.Transducer, error) {
	key := cs.String()
	if t, ok := setCache.Get(key); ok {
		return t, nil
	}
	if len(cs.constraints) == 0 {
		return nil, errs.NewTransducerError("EmptyConstraintSet", "cannot compile an empty constraint set", nil)
	}

	composite, err := cachedConstraintTransducer(cs.constraints[0], table, constraintCache)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(cs.constraints); i++ {
		next, err := cachedConstraintTransducer(cs.constraints[i], table, constraintCache)
		if err != nil {
			return nil, err
		}
		composite, err = transducer.Intersect(composite, next, cs.String())
		if err != nil {
			return nil, err
		}
	}

	setCache.Set(key, composite)
	return composite, nil
}

// MutationParams carries the config-gated knobs the mutation operators
// need; the engine context (internal/config) builds one from the loaded
// configuration and the shared PRNG.
type MutationParams struct {
	Table                               *feature.Table
	Rng                                 *rand.Rand
	InsertionWeights                    map[Kind]int
	InitialNumFeatures                  int
	InitialNumPhonotacticBundles        int
	AllowChangedSegments                bool
	MinFeatureBundlesInPhonotactic      int
	MaxFeatureBundlesInPhonotactic      int
	MaxFeaturesInBundle                 int
	RandomPositionInsertionPhonotactic  bool
	RandomPositionRemovalPhonotactic    bool
}

// Insert chooses a constraint family from p.InsertionWeights, generates a
// random constraint of that family, and inserts it at a random rank.
func (cs *ConstraintSet) Insert(p MutationParams) bool {
	if len(cs.constraints) >= cs.maxConstraints {
		return false
	}
	kind := weightedChoiceKind(p.Rng, p.InsertionWeights)
	if kind == "" {
		return false
	}
	c, err := GenerateRandom(p.Rng, kind, p.Table, p.InitialNumFeatures, p.InitialNumPhonotacticBundles, p.AllowChangedSegments)
	if err != nil {
		return false
	}
	for _, existing := range cs.constraints {
		if existing.String() == c.String() {
			return false
		}
	}
	rank := p.Rng.IntN(len(cs.constraints) + 1)
	cs.constraints = slices.Insert(cs.constraints, rank, c)
	return true
}

// Remove drops a random constraint, provided doing so keeps the set at or
// above minConstraints.
func (cs *ConstraintSet) Remove(rng *rand.Rand) bool {
	if len(cs.constraints) <= cs.minConstraints {
		return false
	}
	i := rng.IntN(len(cs.constraints))
	cs.constraints = slices.Delete(cs.constraints, i, i+1)
	return true
}

// Demote swaps a constraint with the one immediately below it in rank.
func (cs *ConstraintSet) Demote(rng *rand.Rand) bool {
	if len(cs.constraints) < 2 {
		return false
	}
	i := rng.IntN(len(cs.constraints) - 1)
	cs.constraints[i], cs.constraints[i+1] = cs.constraints[i+1], cs.constraints[i]
	return true
}

// InsertFeatureBundlePhonotactic adds a random feature bundle to a random
// Phonotactic constraint's bundle sequence, honoring
// max_feature_bundles_in_phonotactic_constraint.
func (cs *ConstraintSet) InsertFeatureBundlePhonotactic(p MutationParams) bool {
	idx := cs.randomConstraintOfKind(p.Rng, Phonotactic)
	if idx < 0 {
		return false
	}
	c := cs.constraints[idx]
	if len(c.Bundles) >= p.MaxFeatureBundlesInPhonotactic {
		return false
	}
	bundle, err := feature.GenerateRandomBundle(p.Rng, p.Table, p.InitialNumFeatures)
	if err != nil {
		return false
	}
	pos := len(c.Bundles)
	if p.RandomPositionInsertionPhonotactic {
		pos = p.Rng.IntN(len(c.Bundles) + 1)
	}
	c.Bundles = slices.Insert(c.Bundles, pos, bundle)
	return true
}

// RemoveFeatureBundlePhonotactic drops a feature bundle from a random
// Phonotactic constraint's bundle sequence, honoring
// min_feature_bundles_in_phonotactic_constraint.
func (cs *ConstraintSet) RemoveFeatureBundlePhonotactic(p MutationParams) bool {
	idx := cs.randomConstraintOfKind(p.Rng, Phonotactic)
	if idx < 0 {
		return false
	}
	c := cs.constraints[idx]
	if len(c.Bundles) <= p.MinFeatureBundlesInPhonotactic {
		return false
	}
	pos := len(c.Bundles) - 1
	if p.RandomPositionRemovalPhonotactic {
		pos = p.Rng.IntN(len(c.Bundles))
	}
	c.Bundles = slices.Delete(c.Bundles, pos, pos+1)
	return true
}

// AugmentFeatureBundle adds a feature to a random bundle of a random
// constraint, honoring max_features_in_bundle. See SPEC_FULL.md §4.2.3
// for the Open-Question resolution this implements (a real mutation,
// default weight 0).
func (cs *ConstraintSet) AugmentFeatureBundle(p MutationParams) bool {
	candidates := make([]int, 0, len(cs.constraints))
	for i, c := range cs.constraints {
		if len(c.Bundles) > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	c := cs.constraints[candidates[p.Rng.IntN(len(candidates))]]
	bundle := &c.Bundles[p.Rng.IntN(len(c.Bundles))]
	return bundle.AugmentFeatureBundle(p.Rng, p.MaxFeaturesInBundle)
}

// ConstraintSetMutationWeights are the per-operator weights from
// constraint_set_mutation_weights in config.json.
type ConstraintSetMutationWeights struct {
	Insert                         int
	Remove                         int
	Demote                         int
	InsertFeatureBundlePhonotactic int
	RemoveFeatureBundlePhonotactic int
	AugmentFeatureBundle           int
}

func (w ConstraintSetMutationWeights) Sum() int {
	total := 0
	for _, v := range []int{w.Insert, w.Remove, w.Demote, w.InsertFeatureBundlePhonotactic,
		w.RemoveFeatureBundlePhonotactic, w.AugmentFeatureBundle} {
		total += max(v, 0)
	}
	return total
}

// MakeMutation chooses one of the six constraint-set-level operators with
// probability proportional to weights, and reports whether it succeeded.
func (cs *ConstraintSet) MakeMutation(p MutationParams, weights ConstraintSetMutationWeights) bool {
	total := weights.Sum()
	if total <= 0 {
		return false
	}
	pick := p.Rng.IntN(total)
	ops := []struct {
		weight int
		run    func() bool
	}{
		{weights.Insert, func() bool { return cs.Insert(p) }},
		{weights.Remove, func() bool { return cs.Remove(p.Rng) }},
		{weights.Demote, func() bool { return cs.Demote(p.Rng) }},
		{weights.InsertFeatureBundlePhonotactic, func() bool { return cs.InsertFeatureBundlePhonotactic(p) }},
		{weights.RemoveFeatureBundlePhonotactic, func() bool { return cs.RemoveFeatureBundlePhonotactic(p) }},
		{weights.AugmentFeatureBundle, func() bool { return cs.AugmentFeatureBundle(p) }},
	}
	for _, op := range ops {
		w := max(op.weight, 0)
		if w == 0 {
			continue
		}
		if pick < w {
			return op.run()
		}
		pick -= w
	}
	return false
}

func (cs *ConstraintSet) randomConstraintOfKind(rng *rand.Rand, kind Kind) int {
	var candidates []int
	for i, c := range cs.constraints {
		if c.Kind == kind {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[rng.IntN(len(candidates))]
}

// weightedChoiceKind picks a Kind with probability proportional to its
// weight; a kind with weight <= 0 is never chosen. Returns "" if every
// weight is non-positive.
func weightedChoiceKind(rng *rand.Rand, weights map[Kind]int) Kind {
	total := 0
	for _, kind := range Registry {
		if w := weights[kind]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return ""
	}
	pick := rng.IntN(total)
	for _, kind := range Registry {
		w := weights[kind]
		if w <= 0 {
			continue
		}
		if pick < w {
			return kind
		}
		pick -= w
	}
	return ""
}
