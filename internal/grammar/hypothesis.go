package grammar

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/constraint"
)

// Infinite represents an unparseable datum's data length: the data
// cannot be encoded given the grammar at all, so its energy is defined
// as the platform's largest representable value rather than a true ∞.
const Infinite = math.MaxInt

// Parse pairs an underlying word with the number of surface outputs the
// grammar generates for it — the second component lets EncodeOutput
// charge log₂(number of outputs) bits for choosing which output realizes
// the observed datum.
type Parse struct {
	Input          string
	NumberOfOutputs int
}

// TraversableGrammarHypothesis wraps a Grammar together with the observed
// data it is being scored against, caching the most recently computed
// energies and parse so the annealing driver can report on them without
// recomputing.
type TraversableGrammarHypothesis struct {
	Grammar *Grammar
	Data    []string

	GrammarEncodingLengthMultiplier int
	DataEncodingLengthMultiplier    int

	dataParse map[string]map[Parse]bool

	GrammarEnergy  int
	DataEnergy     int
	CombinedEnergy int
}

// NewHypothesis builds a hypothesis with sys.maxsize-equivalent energies,
// matching the source's "not yet evaluated" sentinel.
func NewHypothesis(grammar *Grammar, data []string, grammarMultiplier, dataMultiplier int) *TraversableGrammarHypothesis {
	return &TraversableGrammarHypothesis{
		Grammar:                          grammar,
		Data:                             data,
		GrammarEncodingLengthMultiplier:  grammarMultiplier,
		DataEncodingLengthMultiplier:     dataMultiplier,
		GrammarEnergy:                    Infinite,
		DataEnergy:                       Infinite,
		CombinedEnergy:                   Infinite,
	}
}

// UpdateEnergy recomputes and caches grammar, data, and combined energy.
func (h *TraversableGrammarHypothesis) UpdateEnergy(caches *Caches) (int, error) {
	dataLength, err := h.dataLengthGivenGrammar(caches)
	if err != nil {
		return 0, err
	}
	grammarLength := h.Grammar.EncodingLength()

	h.GrammarEnergy = saturatingMul(grammarLength, h.GrammarEncodingLengthMultiplier)
	h.DataEnergy = saturatingMul(dataLength, h.DataEncodingLengthMultiplier)
	h.CombinedEnergy = saturatingAdd(h.GrammarEnergy, h.DataEnergy)
	return h.CombinedEnergy, nil
}

func saturatingMul(a, b int) int {
	if a == Infinite || b == Infinite {
		return Infinite
	}
	return a * b
}

func saturatingAdd(a, b int) int {
	if a == Infinite || b == Infinite {
		return Infinite
	}
	return a + b
}

// dataLengthGivenGrammar parses every observed datum against the current
// lexicon and grammar, returning Infinite if any datum has no parse.
func (h *TraversableGrammarHypothesis) dataLengthGivenGrammar(caches *Caches) (int, error) {
	dataParse, err := h.ParseData(caches)
	if err != nil {
		return 0, err
	}

	for _, datum := range h.Data {
		if len(dataParse[datum]) == 0 {
			h.dataParse = dataParse
			return Infinite, nil
		}
	}

	numberOfDistinctWords := h.Grammar.Lexicon.NumberOfDistinctWords()
	inputChoiceLength := ceilLog2(numberOfDistinctWords)

	total := 0
	for _, datum := range h.Data {
		best := math.MaxInt
		for parse := range dataParse[datum] {
			cost := EncodeOutput(parse, inputChoiceLength)
			if cost < best {
				best = cost
			}
		}
		total += best
	}

	h.dataParse = dataParse
	return total, nil
}

// ParseData generates outputs for every distinct word currently in the
// lexicon and records, for every datum realized among those outputs, the
// (underlying word, number of outputs) pair that realizes it.
func (h *TraversableGrammarHypothesis) ParseData(caches *Caches) (map[string]map[Parse]bool, error) {
	dataParse := make(map[string]map[Parse]bool, len(h.Data))
	for _, datum := range h.Data {
		dataParse[datum] = make(map[Parse]bool)
	}

	seen := make(map[string]bool)
	for _, word := range h.Grammar.Lexicon.Words() {
		wordString := word.String()
		if seen[wordString] {
			continue
		}
		seen[wordString] = true

		outputs, err := h.Grammar.Generate(word, caches)
		if err != nil {
			return nil, err
		}
		numberOfOutputs := len(outputs)
		for _, output := range outputs {
			if set, isObserved := dataParse[output]; isObserved {
				set[Parse{Input: wordString, NumberOfOutputs: numberOfOutputs}] = true
			}
		}
	}
	return dataParse, nil
}

// EncodeOutput is the bit cost of choosing parse's input among
// inputChoiceLength bits worth of distinct underlying words, plus the
// bit cost of choosing which of its NumberOfOutputs surface realizations
// is the observed one.
func EncodeOutput(parse Parse, inputChoiceLength int) int {
	return inputChoiceLength + ceilLog2(parse.NumberOfOutputs)
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// GetRecentDataParse renders the most recently computed parse as a
// human-readable trace: for every parse of an observed datum whose input
// differs from the datum itself, "input --> output (n) # ..."
func (h *TraversableGrammarHypothesis) GetRecentDataParse() string {
	words := make([]string, 0, len(h.dataParse))
	for word := range h.dataParse {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) < len(words[j])
		}
		return words[i] < words[j]
	})

	var parts []string
	for _, output := range words {
		parses := make([]Parse, 0, len(h.dataParse[output]))
		for p := range h.dataParse[output] {
			parses = append(parses, p)
		}
		slices.SortFunc(parses, func(a, b Parse) int { return strings.Compare(a.Input, b.Input) })
		for _, p := range parses {
			if p.Input != output {
				parts = append(parts, fmt.Sprintf("%s --> %s (%d)", p.Input, output, p.NumberOfOutputs))
			}
		}
	}
	return strings.Join(parts, " # ")
}

// GetRecentEnergySignature renders the most recently computed energies.
func (h *TraversableGrammarHypothesis) GetRecentEnergySignature() string {
	return fmt.Sprintf("Energy: %d bits (Grammar = %d) + (Data = %d)", h.CombinedEnergy, h.GrammarEnergy, h.DataEnergy)
}

// GetNeighbor clones the hypothesis and mutates the clone's grammar,
// reporting whether the mutation changed anything — per spec.md §9's
// value-copy cloning strategy, the original hypothesis is left untouched
// regardless of whether the mutation succeeds.
func (h *TraversableGrammarHypothesis) GetNeighbor(rng *rand.Rand, weights MutationWeights, csParams constraint.MutationParams) (bool, *TraversableGrammarHypothesis, error) {
	neighbor := h.Clone()
	mutated, err := neighbor.Grammar.MakeMutation(rng, weights, csParams)
	if err != nil {
		return false, nil, err
	}
	return mutated, neighbor, nil
}

// Clone deep-copies the grammar so mutating the returned hypothesis never
// affects h.
func (h *TraversableGrammarHypothesis) Clone() *TraversableGrammarHypothesis {
	return &TraversableGrammarHypothesis{
		Grammar:                          h.Grammar.Clone(),
		Data:                             h.Data,
		GrammarEncodingLengthMultiplier:  h.GrammarEncodingLengthMultiplier,
		DataEncodingLengthMultiplier:     h.DataEncodingLengthMultiplier,
		GrammarEnergy:                    h.GrammarEnergy,
		DataEnergy:                       h.DataEnergy,
		CombinedEnergy:                   h.CombinedEnergy,
	}
}

func (h *TraversableGrammarHypothesis) String() string {
	return fmt.Sprintf("Hypothesis with energy: %d", h.CombinedEnergy)
}
