package feature

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/errs"
)

// Bundle is an unordered mapping from feature label to required value: a
// predicate over segments. A segment satisfies a bundle iff it agrees on
// every feature present in the bundle.
type Bundle struct {
	featureDict map[string]string
	table       *Table
}

// NewBundle validates every label against table and returns the bundle.
func NewBundle(featureDict map[string]string, table *Table) (Bundle, error) {
	for label := range featureDict {
		if !table.IsValidFeature(label) {
			return Bundle{}, errs.NewGrammarParseError("IllegalFeature",
				fmt.Sprintf("illegal feature: %s", label), map[string]any{"feature": label})
		}
	}
	return Bundle{featureDict: maps.Clone(featureDict), table: table}, nil
}

// Clone deep-copies the bundle's feature map, so that mutating the clone
// via AugmentFeatureBundle never affects the original.
func (b Bundle) Clone() Bundle {
	return Bundle{featureDict: maps.Clone(b.featureDict), table: b.table}
}

// EncodingLength is 2 bits per feature present in the bundle.
func (b Bundle) EncodingLength() int { return 2 * len(b.featureDict) }

// Keys returns the bundle's feature labels in sorted order, used for the
// canonical string form.
func (b Bundle) Keys() []string {
	keys := make([]string, 0, len(b.featureDict))
	for k := range b.featureDict {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FeatureDict returns the bundle's underlying mapping.
func (b Bundle) FeatureDict() map[string]string { return b.featureDict }

// AugmentFeatureBundle adds one more feature, drawn at random from those
// not already present, to the bundle, provided that doing so would not
// exceed maxFeatures. Returns false without effect when the bundle is
// already at the cap or every feature is already present.
func (b *Bundle) AugmentFeatureBundle(rng *rand.Rand, maxFeatures int) bool {
	if len(b.featureDict) >= maxFeatures {
		return false
	}
	available := make([]string, 0)
	for label := range b.table.FeatureLabels() {
		if _, present := b.featureDict[label]; !present {
			available = append(available, label)
		}
	}
	if len(available) == 0 {
		return false
	}
	slices.Sort(available)
	label := available[rng.IntN(len(available))]
	b.featureDict[label] = b.table.RandomValue(rng, label)
	return true
}

// GenerateRandomBundle builds a bundle with numFeatures randomly chosen,
// non-repeating features, each assigned a random admissible value.
func GenerateRandomBundle(rng *rand.Rand, table *Table, numFeatures int) (Bundle, error) {
	if numFeatures > table.NumberOfFeatures() {
		return Bundle{}, errs.NewConfigurationError("TooManyFeatures",
			"requested number of features is bigger than the number of available features", nil)
	}
	available := make([]string, 0, table.NumberOfFeatures())
	for label := range table.FeatureLabels() {
		available = append(available, label)
	}
	slices.Sort(available)

	dict := make(map[string]string, numFeatures)
	for i := 0; i < numFeatures; i++ {
		idx := rng.IntN(len(available))
		label := available[idx]
		dict[label] = table.RandomValue(rng, label)
		available = slices.Delete(available, idx, idx+1)
	}
	return Bundle{featureDict: dict, table: table}, nil
}

func (b Bundle) String() string {
	keys := b.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s%s", b.featureDict[k], k)
	}
	return strings.Join(parts, ",")
}
