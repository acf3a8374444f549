package feature

import (
	"fmt"
	"strings"
)

// nullSymbol and jokerSymbol are the two reserved symbols: NULL stands for
// epsilon (deletion/insertion), JOKER is a wildcard used during transducer
// composition. Neither ever appears in a feature table's alphabet, a
// lexicon, or a corpus.
const (
	nullSymbol  = "-"
	jokerSymbol = "*"
)

// Segment is a phonological segment: either a bound alphabet member (with
// a feature assignment) or one of the two reserved unbound symbols NULL
// and JOKER.
type Segment struct {
	Symbol   string
	features map[string]string
	table    *Table
}

// Null is the reserved epsilon segment.
var Null = Segment{Symbol: nullSymbol}

// Joker is the reserved wildcard segment.
var Joker = Segment{Symbol: jokerSymbol}

// IsNull reports whether s is the reserved NULL segment.
func (s Segment) IsNull() bool { return s.Symbol == nullSymbol && s.table == nil }

// IsJoker reports whether s is the reserved JOKER segment.
func (s Segment) IsJoker() bool { return s.Symbol == jokerSymbol && s.table == nil }

// EncodingLength is the number of features carried by this segment; NULL
// and JOKER carry none.
func (s Segment) EncodingLength() int { return len(s.features) }

// Feature returns the value this segment carries for the given feature
// label.
func (s Segment) Feature(label string) (string, bool) {
	v, ok := s.features[label]
	return v, ok
}

// Satisfies reports whether s agrees with every feature present in bundle.
func (s Segment) Satisfies(bundle Bundle) bool {
	for label, value := range bundle.featureDict {
		v, ok := s.features[label]
		if !ok || v != value {
			return false
		}
	}
	return true
}

// Equal reports whether two segments are the same symbol. Symbol identity
// is sufficient: within one feature table a symbol maps to exactly one
// feature assignment.
func (s Segment) Equal(other Segment) bool {
	return s.Symbol == other.Symbol
}

// Unify implements symbol unification (17) of Riggle 2004: JOKER unifies
// with anything (returning the other operand); NULL unifies only with
// NULL; otherwise unification succeeds only between identical symbols.
// The second result is false when no unification exists.
func (s Segment) Unify(other Segment) (Segment, bool) {
	if s.IsJoker() {
		return other, true
	}
	if other.IsJoker() {
		return s, true
	}
	if s.IsNull() || other.IsNull() {
		if s.IsNull() && other.IsNull() {
			return Null, true
		}
		return Segment{}, false
	}
	if s.Equal(other) {
		return s, true
	}
	return Segment{}, false
}

func (s Segment) String() string {
	if s.table == nil {
		return s.Symbol
	}
	vec := s.table.OrderedFeatureVector(s.Symbol)
	parts := make([]string, len(vec))
	copy(parts, vec)
	return fmt.Sprintf("Segment %s[%s]", s.Symbol, strings.Join(parts, ", "))
}
