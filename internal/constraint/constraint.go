// Package constraint implements violable OT constraints as a tagged sum
// over the known variants (per the design note favoring a tagged union
// over a class hierarchy), each compiling itself into a transducer with a
// one-dimensional violation-cost vector, plus the ConstraintSet that
// ranks and folds constraints into a single lexicographically-scored
// composite transducer.
package constraint

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// Kind tags the variant a Constraint carries.
type Kind string

const (
	Max         Kind = "Max"
	Dep         Kind = "Dep"
	Ident       Kind = "Ident"
	Faith       Kind = "Faith"
	Phonotactic Kind = "Phonotactic"

	HeadDep      Kind = "HeadDep"
	MainLeft     Kind = "MainLeft"
	Precede      Kind = "Precede"
	Contiguity   Kind = "Contiguity"
	Trochee      Kind = "Trochee"
	FootBinarity Kind = "FootBinarity"
	Rightmost    Kind = "Rightmost"

	HighVowelBeforePharyngeal                   Kind = "HighVowelBeforePharyngeal"
	HighVowelBeforePharyngealWithinSyllable      Kind = "HighVowelBeforePharyngealWithinSyllable"
	NonLowVowelBeforePharyngealWithinSyllable    Kind = "NonLowVowelBeforePharyngealWithinSyllable"
)

// singleBundleKinds require exactly one bundle, twoBundleKinds exactly two,
// and zeroBundleKinds none; Phonotactic allows any number including zero.
var singleBundleKinds = map[Kind]bool{
	Max: true, Dep: true, Ident: true,
	HeadDep: true, MainLeft: true, Contiguity: true,
}
var zeroBundleKinds = map[Kind]bool{
	Faith: true, Trochee: true, FootBinarity: true,
	HighVowelBeforePharyngeal:                true,
	HighVowelBeforePharyngealWithinSyllable:   true,
	NonLowVowelBeforePharyngealWithinSyllable: true,
}
var twoBundleKinds = map[Kind]bool{
	Precede: true, Rightmost: true,
}

// Registry lists every known constraint family name, in a stable order,
// for generic random generation (e.g. the insert mutation).
var Registry = []Kind{
	Max, Dep, Ident, Faith, Phonotactic,
	HeadDep, MainLeft, Precede, Contiguity, Trochee, FootBinarity, Rightmost,
	HighVowelBeforePharyngeal, HighVowelBeforePharyngealWithinSyllable, NonLowVowelBeforePharyngealWithinSyllable,
}

// Constraint is a single violable constraint: a tag plus zero or more
// feature bundles. AllowChangedSegments records, for Faith (and is
// consulted by Ident), whether substitution-style arcs should be emitted
// — see SPEC_FULL.md §4.2.2 for the resolution of the duplicate
// FaithConstraint definitions this flag disambiguates.
type Constraint struct {
	Kind                 Kind
	Bundles              []feature.Bundle
	AllowChangedSegments bool
}

// New validates the bundle count against the variant's arity and
// constructs the Constraint.
func New(kind Kind, bundles []feature.Bundle, allowChangedSegments bool) (*Constraint, error) {
	switch {
	case singleBundleKinds[kind] && len(bundles) != 1:
		return nil, errs.NewGrammarParseError("BundleArityMismatch",
			fmt.Sprintf("%s requires exactly one feature bundle", kind), map[string]any{"kind": string(kind)})
	case zeroBundleKinds[kind] && len(bundles) != 0:
		return nil, errs.NewGrammarParseError("BundleArityMismatch",
			fmt.Sprintf("%s takes no feature bundles", kind), map[string]any{"kind": string(kind)})
	case twoBundleKinds[kind] && len(bundles) != 2:
		return nil, errs.NewGrammarParseError("BundleArityMismatch",
			fmt.Sprintf("%s requires exactly two feature bundles", kind), map[string]any{"kind": string(kind)})
	case kind == Phonotactic:
		// any number, including zero, is allowed
	default:
		if !isKnownKind(kind) {
			return nil, errs.NewGrammarParseError("UnknownConstraintType",
				fmt.Sprintf("unknown constraint type: %s", kind), map[string]any{"kind": string(kind)})
		}
	}
	return &Constraint{Kind: kind, Bundles: bundles, AllowChangedSegments: allowChangedSegments}, nil
}

func isKnownKind(kind Kind) bool {
	for _, k := range Registry {
		if k == kind {
			return true
		}
	}
	return false
}

// EncodingLength is 1 + Σ bundle encoding lengths + 1, with Phonotactic
// adding one extra delimiter bit per bundle.
func (c *Constraint) EncodingLength() int {
	length := 1
	for _, b := range c.Bundles {
		length += b.EncodingLength()
	}
	length++
	if c.Kind == Phonotactic {
		length += len(c.Bundles)
	}
	return length
}

// String is the canonical form used as a memoization key component:
// "{Name}[{bundle}]" for a single bundle, "{Name}[{b1}][{b2}]..." when
// there is more than one.
func (c *Constraint) String() string {
	if len(c.Bundles) == 0 {
		return string(c.Kind)
	}
	if len(c.Bundles) == 1 {
		return fmt.Sprintf("%s[%s]", c.Kind, c.Bundles[0])
	}
	var b strings.Builder
	b.WriteString(string(c.Kind))
	for _, bundle := range c.Bundles {
		fmt.Fprintf(&b, "[%s]", bundle)
	}
	return b.String()
}

// GetTransducer compiles the constraint into a width-1 transducer over
// table's alphabet.
func (c *Constraint) GetTransducer(table *feature.Table) (*transducer.Transducer, error) {
	switch c.Kind {
	case Max:
		return buildMax(table, c.Bundles[0])
	case Dep:
		return buildDep(table, c.Bundles[0])
	case Ident:
		return buildIdent(table, c.Bundles[0], c.AllowChangedSegments)
	case Faith:
		return buildFaith(table, c.AllowChangedSegments)
	case Phonotactic:
		return buildPhonotactic(table, c.Bundles)
	case HeadDep:
		return buildHeadDep(table, c.Bundles[0])
	case MainLeft:
		return buildMainLeft(table, c.Bundles[0])
	case Precede:
		return buildPrecede(table, c.Bundles[0], c.Bundles[1])
	case Contiguity:
		return buildContiguity(table, c.Bundles[0])
	case Trochee:
		return buildTrochee(table)
	case FootBinarity:
		return buildFootBinarity(table)
	case Rightmost:
		return buildRightmost(table, c.Bundles[0], c.Bundles[1])
	case HighVowelBeforePharyngeal:
		return buildVowelBeforePharyngeal(table, isHighVowel, "HighVowelBeforePharyngeal")
	case HighVowelBeforePharyngealWithinSyllable:
		return buildVowelBeforePharyngealWithinSyllable(table, isHighVowel, "HighVowelBeforePharyngealWithinSyllable")
	case NonLowVowelBeforePharyngealWithinSyllable:
		return buildVowelBeforePharyngealWithinSyllable(table, isNonLowVowel, "NonLowVowelBeforePharyngealWithinSyllable")
	default:
		return nil, errs.NewGrammarParseError("UnknownConstraintType",
			fmt.Sprintf("unknown constraint type: %s", c.Kind), nil)
	}
}

// GenerateRandom builds a random constraint of the given kind, drawing
// feature bundles from table as needed (initialNumFeatures features per
// bundle, initialNumPhonotacticBundles bundles for Phonotactic).
func GenerateRandom(rng *rand.Rand, kind Kind, table *feature.Table, initialNumFeatures, initialNumPhonotacticBundles int, allowChangedSegments bool) (*Constraint, error) {
	makeBundle := func() (feature.Bundle, error) {
		return feature.GenerateRandomBundle(rng, table, initialNumFeatures)
	}

	switch {
	case singleBundleKinds[kind]:
		b, err := makeBundle()
		if err != nil {
			return nil, err
		}
		return New(kind, []feature.Bundle{b}, allowChangedSegments)
	case twoBundleKinds[kind]:
		b1, err := makeBundle()
		if err != nil {
			return nil, err
		}
		b2, err := makeBundle()
		if err != nil {
			return nil, err
		}
		return New(kind, []feature.Bundle{b1, b2}, allowChangedSegments)
	case zeroBundleKinds[kind]:
		return New(kind, nil, allowChangedSegments)
	case kind == Phonotactic:
		bundles := make([]feature.Bundle, 0, initialNumPhonotacticBundles)
		for i := 0; i < initialNumPhonotacticBundles; i++ {
			b, err := makeBundle()
			if err != nil {
				return nil, err
			}
			bundles = append(bundles, b)
		}
		return New(kind, bundles, allowChangedSegments)
	default:
		return nil, errs.NewGrammarParseError("UnknownConstraintType",
			fmt.Sprintf("unknown constraint type: %s", kind), nil)
	}
}
