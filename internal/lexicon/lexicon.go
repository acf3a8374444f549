package lexicon

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/feature"
)

// Lexicon is a multiset of Words: the learner's current hypothesis about
// the underlying representations behind the observed corpus.
type Lexicon struct {
	table *feature.Table
	words []*Word
}

// New builds a Lexicon from surface strings over table's alphabet.
func New(wordStrings []string, table *feature.Table) (*Lexicon, error) {
	words := make([]*Word, len(wordStrings))
	for i, s := range wordStrings {
		w, err := NewWord(s, table)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return &Lexicon{table: table, words: words}, nil
}

// Words returns a copy of the lexicon's word slice (the *Word pointers
// themselves are shared, not deep-copied).
func (l *Lexicon) Words() []*Word { return slices.Clone(l.words) }

// Clone deep-copies every word, yielding an independent Lexicon suitable
// for an annealing neighbor per spec.md §9's value-copy cloning strategy.
func (l *Lexicon) Clone() *Lexicon {
	words := make([]*Word, len(l.words))
	for i, w := range l.words {
		words[i] = &Word{table: w.table, segments: slices.Clone(w.segments)}
	}
	return &Lexicon{table: l.table, words: words}
}

func (l *Lexicon) String() string {
	parts := make([]string, len(l.words))
	for i, w := range l.words {
		parts[i] = w.String()
	}
	return strings.Join(parts, ",")
}

// Len is the number of words currently in the lexicon.
func (l *Lexicon) Len() int { return len(l.words) }

// NumberOfDistinctWords counts distinct surface strings.
func (l *Lexicon) NumberOfDistinctWords() int {
	seen := make(map[string]bool, len(l.words))
	for _, w := range l.words {
		seen[w.String()] = true
	}
	return len(seen)
}

func (l *Lexicon) numberOfSegments() int {
	total := 0
	for _, w := range l.words {
		total += w.Len()
	}
	return total
}

func (l *Lexicon) distinctSegments() map[string]bool {
	seen := make(map[string]bool)
	for _, w := range l.words {
		for _, s := range w.segments {
			seen[s.Symbol] = true
		}
	}
	return seen
}

// EncodingLength implements the two encoding modes of spec.md §4.4. When
// restrictOnAlphabet is set, the encoding pays to declare the restricted
// (lexicon-local) sub-alphabet explicitly and then encode words over it;
// otherwise every word encodes directly over the full alphabet.
func (l *Lexicon) EncodingLength(restrictOnAlphabet bool) int {
	if restrictOnAlphabet {
		alphabetSize := len(l.table.Alphabet())
		restrictedSize := len(l.distinctSegments())
		bitsForFullAlphabet := ceilLog2(alphabetSize + 1)
		restrictionSetLength := bitsForFullAlphabet * (restrictedSize + 1)
		bitsForRestrictedAlphabet := ceilLog2(restrictedSize + 1)
		sumLenPlusOne := 0
		for _, w := range l.words {
			sumLenPlusOne += w.Len() + 1
		}
		lexiconLength := bitsForRestrictedAlphabet * (sumLenPlusOne + 1)
		return restrictionSetLength + lexiconLength
	}
	sum := 0
	for _, w := range l.words {
		sum += w.EncodingLength()
	}
	return 2 * (sum + 1)
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// MutationWeights are the per-operator weights from
// lexicon_mutation_weights in config.json.
type MutationWeights struct {
	InsertSegment int
	DeleteSegment int
	ChangeSegment int
}

func (w MutationWeights) sum() int {
	return max(w.InsertSegment, 0) + max(w.DeleteSegment, 0) + max(w.ChangeSegment, 0)
}

// Sum is the total weight, used by Grammar.make_mutation to choose
// between mutating the Lexicon and the ConstraintSet.
func (w MutationWeights) Sum() int { return w.sum() }

// MakeMutation chooses among insert_segment, delete_segment, and
// change_segment with probability proportional to weights, and reports
// whether the chosen mutation succeeded.
func (l *Lexicon) MakeMutation(rng *rand.Rand, weights MutationWeights) bool {
	total := weights.sum()
	if total <= 0 {
		return false
	}
	pick := rng.IntN(total)
	switch {
	case pick < max(weights.InsertSegment, 0):
		return l.insertSegment(rng)
	case pick < max(weights.InsertSegment, 0)+max(weights.DeleteSegment, 0):
		return l.deleteSegment(rng)
	default:
		return l.changeSegment(rng)
	}
}

// insertSegment inserts a random segment at a random position in a random
// word, or — with probability 1/(n+1) — creates a new monosegmental word.
func (l *Lexicon) insertSegment(rng *rand.Rand) bool {
	symbol := l.table.RandomSegment(rng)
	seg, err := l.table.NewSegment(symbol)
	if err != nil {
		return false
	}
	n := len(l.words)
	idx := rng.IntN(n + 1)
	if idx == n {
		w, err := NewWord(symbol, l.table)
		if err != nil {
			return false
		}
		l.words = append(l.words, w)
		return true
	}
	return l.words[idx].InsertSegment(rng, seg)
}

// deleteSegment drops a random segment from a random word; if the word is
// monosegmental, the word itself is removed from the lexicon instead.
func (l *Lexicon) deleteSegment(rng *rand.Rand) bool {
	if len(l.words) == 0 {
		return false
	}
	idx := rng.IntN(len(l.words))
	if l.words[idx].Len() == 1 {
		l.words = slices.Delete(l.words, idx, idx+1)
		return true
	}
	return l.words[idx].DeleteSegment(rng)
}

// changeSegment replaces a random segment in a random word.
func (l *Lexicon) changeSegment(rng *rand.Rand) bool {
	if len(l.words) == 0 {
		return false
	}
	idx := rng.IntN(len(l.words))
	return l.words[idx].ChangeSegment(rng)
}
