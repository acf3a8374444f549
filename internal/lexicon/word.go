// Package lexicon implements Word (a string of segments with a cached
// input-side transducer enumerating every epsilon interleaving) and
// Lexicon (the learner's current multiset of underlying-representation
// hypotheses), plus their structured mutation operators.
package lexicon

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/costvector"
	"github.com/GalitDotan/Oatmeal/internal/feature"
	"github.com/GalitDotan/Oatmeal/internal/transducer"
)

// Word is a string of segments drawn from a FeatureTable's alphabet.
type Word struct {
	table    *feature.Table
	segments []feature.Segment
}

// NewWord builds a Word from a surface string over table's alphabet.
func NewWord(wordString string, table *feature.Table) (*Word, error) {
	segments := make([]feature.Segment, len(wordString))
	for i, r := range wordString {
		symbol := string(r)
		seg, err := table.NewSegment(symbol)
		if err != nil {
			return nil, err
		}
		segments[i] = seg
	}
	return &Word{table: table, segments: segments}, nil
}

// String is the word's surface string.
func (w *Word) String() string {
	var b strings.Builder
	for _, s := range w.segments {
		b.WriteString(s.Symbol)
	}
	return b.String()
}

// Len is the number of segments in the word.
func (w *Word) Len() int { return len(w.segments) }

// Segments returns a copy of the word's segments.
func (w *Word) Segments() []feature.Segment { return slices.Clone(w.segments) }

// EncodingLength is the sum of each segment's encoding length, plus one.
func (w *Word) EncodingLength() int {
	total := 1
	for _, s := range w.segments {
		total += s.EncodingLength()
	}
	return total
}

// GetTransducer builds (or fetches from cache) the word's width-0 input
// transducer: one state per position, a NULL→JOKER self-loop at every
// state allowing epenthesis anywhere, and a segment→JOKER arc advancing
// from position i to i+1.
func (w *Word) GetTransducer(cache *TransducerCache) (*transducer.Transducer, error) {
	key := w.String()
	if t, ok := cache.Get(key); ok {
		return t, nil
	}
	t, err := w.buildTransducer()
	if err != nil {
		return nil, err
	}
	cache.Set(key, t)
	return t, nil
}

func (w *Word) buildTransducer() (*transducer.Transducer, error) {
	n := len(w.segments)
	t := transducer.New(0, fmt.Sprintf("word(%s)", w.String()))
	states := make([]transducer.State, n+1)
	for i := range states {
		states[i] = transducer.NewState(fmt.Sprintf("q%d", i))
		t.AddState(states[i])
		if err := t.AddArc(transducer.Arc{Source: states[i], Input: feature.Null, Output: feature.Joker, Cost: costvector.Empty(), Target: states[i]}); err != nil {
			return nil, err
		}
		if i != n {
			if err := t.AddArc(transducer.Arc{Source: states[i], Input: w.segments[i], Output: feature.Joker, Cost: costvector.Empty(), Target: states[i+1]}); err != nil {
				return nil, err
			}
		}
	}
	t.SetInitial(states[0])
	t.AddFinal(states[n])
	return t, nil
}

// InsertSegment inserts segmentToInsert at a random position (0..len,
// inclusive) and reports success. Every position is valid, so this always
// succeeds for a well-formed segment.
func (w *Word) InsertSegment(rng *rand.Rand, segmentToInsert feature.Segment) bool {
	pos := rng.IntN(len(w.segments) + 1)
	w.segments = slices.Insert(w.segments, pos, segmentToInsert)
	return true
}

// DeleteSegment drops a random segment. Callers are expected to have
// already special-cased a single-segment word (removing the whole word
// from the Lexicon instead of calling this), matching the source's
// Lexicon._delete_segment.
func (w *Word) DeleteSegment(rng *rand.Rand) bool {
	if len(w.segments) == 0 {
		return false
	}
	pos := rng.IntN(len(w.segments))
	w.segments = slices.Delete(w.segments, pos, pos+1)
	return true
}

// ChangeSegment replaces a random segment with a different one drawn
// uniformly from the alphabet, guaranteeing the replacement is not
// identical to the segment being replaced. Fails only when the alphabet
// has no other member to offer.
func (w *Word) ChangeSegment(rng *rand.Rand) bool {
	if len(w.segments) == 0 {
		return false
	}
	pos := rng.IntN(len(w.segments))
	old := w.segments[pos]

	options := make([]string, 0, len(w.table.Alphabet()))
	for _, symbol := range w.table.Alphabet() {
		if symbol != old.Symbol {
			options = append(options, symbol)
		}
	}
	if len(options) == 0 {
		return false
	}
	symbol := options[rng.IntN(len(options))]
	seg, err := w.table.NewSegment(symbol)
	if err != nil {
		return false
	}
	w.segments[pos] = seg
	return true
}
