// Package feature defines the phonological alphabet: features, the
// feature table mapping segment symbols to feature-value assignments, and
// the segment unification algebra used by the transducer intersection.
package feature

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"math/rand/v2"

	"github.com/GalitDotan/Oatmeal/internal/errs"
)

// Feature is a label with an ordered set of admissible values.
type Feature struct {
	Label  string
	Values []string
}

func (f Feature) hasValue(v string) bool {
	return slices.Contains(f.Values, v)
}

// Table is a collection of Features plus a mapping from segment symbols to
// complete feature-value assignments. Every segment has one value for
// every feature, and every value is admissible for its feature.
type Table struct {
	features        []Feature
	labelIndex      map[string]int
	segmentFeatures map[string]map[string]string
	alphabet        []string
}

// NewTable builds a Table from an ordered feature list and a map from
// segment symbol to ordered feature values (one value per feature, in
// feature-list order). It returns a *errs.FeatureParseError on any
// mismatch.
func NewTable(features []Feature, segmentValues map[string][]string) (*Table, error) {
	t := &Table{
		features:        features,
		labelIndex:      make(map[string]int, len(features)),
		segmentFeatures: make(map[string]map[string]string, len(segmentValues)),
	}

	for i, f := range features {
		if _, dup := t.labelIndex[f.Label]; dup {
			return nil, errs.NewFeatureParseError("DuplicateLabel",
				fmt.Sprintf("feature %q was defined more than once", f.Label), nil)
		}
		t.labelIndex[f.Label] = i
	}

	for symbol, values := range segmentValues {
		if len(values) != len(features) {
			return nil, errs.NewFeatureParseError("FeatureCountMismatch",
				fmt.Sprintf("mismatch in number of features for segment %s", symbol),
				map[string]any{"segment": symbol})
		}
		dict := make(map[string]string, len(features))
		for i, value := range values {
			f := features[i]
			if !f.hasValue(value) {
				return nil, errs.NewFeatureParseError("IllegalValue",
					fmt.Sprintf("illegal feature value %q was found for segment %s", value, symbol),
					map[string]any{"segment": symbol, "feature": f.Label})
			}
			dict[f.Label] = value
		}
		t.segmentFeatures[symbol] = dict
		t.alphabet = append(t.alphabet, symbol)
	}
	slices.Sort(t.alphabet)

	return t, nil
}

// NumberOfFeatures returns the number of declared features.
func (t *Table) NumberOfFeatures() int { return len(t.features) }

// FeatureLabels returns the set of declared feature labels.
func (t *Table) FeatureLabels() map[string]struct{} {
	labels := make(map[string]struct{}, len(t.features))
	for _, f := range t.features {
		labels[f.Label] = struct{}{}
	}
	return labels
}

// IsValidFeature reports whether label is a declared feature.
func (t *Table) IsValidFeature(label string) bool {
	_, ok := t.labelIndex[label]
	return ok
}

// IsValidSymbol reports whether symbol is in the alphabet.
func (t *Table) IsValidSymbol(symbol string) bool {
	_, ok := t.segmentFeatures[symbol]
	return ok
}

// Alphabet returns a copy of the segment symbols, in stable sorted order.
func (t *Table) Alphabet() []string {
	return slices.Clone(t.alphabet)
}

// RandomValue returns a uniformly random admissible value for the given
// feature label.
func (t *Table) RandomValue(rng *rand.Rand, label string) string {
	i := t.labelIndex[label]
	values := t.features[i].Values
	return values[rng.IntN(len(values))]
}

// RandomSegment returns a uniformly random symbol from the alphabet.
func (t *Table) RandomSegment(rng *rand.Rand) string {
	return t.alphabet[rng.IntN(len(t.alphabet))]
}

// OrderedFeatureVector returns the feature values of symbol in declared
// feature order.
func (t *Table) OrderedFeatureVector(symbol string) []string {
	dict := t.segmentFeatures[symbol]
	vec := make([]string, len(t.features))
	for i, f := range t.features {
		vec[i] = dict[f.Label]
	}
	return vec
}

// FeatureValue returns the value assigned to symbol for the given feature
// label.
func (t *Table) FeatureValue(symbol, label string) (string, bool) {
	dict, ok := t.segmentFeatures[symbol]
	if !ok {
		return "", false
	}
	v, ok := dict[label]
	return v, ok
}

// NewSegment builds a Segment bound to this table, looking up its feature
// assignment. JOKER and NULL are constructed separately via the package
// level Null/Joker values and are never looked up here.
func (t *Table) NewSegment(symbol string) (Segment, error) {
	dict, ok := t.segmentFeatures[symbol]
	if !ok {
		return Segment{}, errs.NewFeatureParseError("UnknownSymbol",
			fmt.Sprintf("symbol %q is not in the alphabet", symbol), map[string]any{"symbol": symbol})
	}
	return Segment{Symbol: symbol, features: maps.Clone(dict), table: t}, nil
}

// Segments returns every alphabet symbol as a bound Segment.
func (t *Table) Segments() []Segment {
	out := make([]Segment, 0, len(t.alphabet))
	for _, s := range t.alphabet {
		seg, _ := t.NewSegment(s)
		out = append(out, seg)
	}
	return out
}

func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature Table with %d features and %d segments:\n", len(t.features), len(t.alphabet))
	for _, symbol := range t.alphabet {
		fmt.Fprintf(&b, "%-12s %v\n", symbol, t.OrderedFeatureVector(symbol))
	}
	return b.String()
}
