// Package corpus loads a simulation's observed data (corpus.txt) and
// applies the duplication factor the learner trains on.
package corpus

import (
	"os"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/errs"
)

const defaultLexicalCategory = "default"

// Corpus is a (possibly duplicated) list of observed surface strings.
type Corpus struct {
	words []string
}

func (c *Corpus) Words() []string { return append([]string(nil), c.words...) }
func (c *Corpus) Len() int        { return len(c.words) }

func (c *Corpus) String() string {
	n := len(c.words)
	preview := c.words
	if n > 3 {
		preview = c.words[:3]
	}
	return strings.Join(append([]string{}, preview...), ", ") + "..."
}

// Load reads path and applies duplicationFactor (spec.md §6's
// corpus_duplication_factor: integer part as full repetitions, fractional
// part as a prefix of the word list).
func Load(path string, duplicationFactor float64) (*Corpus, error) {
	words, err := readWordList(path)
	if err != nil {
		return nil, err
	}
	return &Corpus{words: duplicate(words, duplicationFactor)}, nil
}

// LoadPerCategory partitions path's words by their "_CATEGORY" suffix
// (e.g. "bba_N"), words without a suffix going to the default category,
// and applies duplicationFactor within each category independently.
func LoadPerCategory(path string, duplicationFactor float64) (map[string]*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigurationError("MissingFile", "cannot read corpus file: "+err.Error(),
			map[string]any{"path": path})
	}
	text := string(raw)
	if strings.Contains(text, "[") {
		return nil, errs.NewConfigurationError("UnsupportedCorpusForm",
			"list-literal corpus form does not support per-category partitioning", map[string]any{"path": path})
	}

	wordsPerCategory := make(map[string][]string)
	for _, raw := range strings.Fields(text) {
		// Split on every underscore; the category is exactly the second
		// part, anything past it (a third part onward) is discarded.
		parts := strings.Split(raw, "_")
		word := parts[0]
		if len(parts) == 1 {
			wordsPerCategory[defaultLexicalCategory] = append(wordsPerCategory[defaultLexicalCategory], word)
			continue
		}
		category := parts[1]
		wordsPerCategory[category] = append(wordsPerCategory[category], word)
	}

	out := make(map[string]*Corpus, len(wordsPerCategory))
	for category, words := range wordsPerCategory {
		out[category] = &Corpus{words: duplicate(words, duplicationFactor)}
	}
	return out, nil
}

func readWordList(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigurationError("MissingFile", "cannot read corpus file: "+err.Error(),
			map[string]any{"path": path})
	}
	text := string(raw)
	if strings.Contains(text, "[") {
		return parseListLiteral(text)
	}
	return strings.Fields(text), nil
}

func duplicate(words []string, duplicationFactor float64) []string {
	n := len(words)
	wholeRepetitions := int(duplicationFactor)
	fraction := duplicationFactor - float64(wholeRepetitions)

	out := make([]string, 0, n*(wholeRepetitions+1))
	for i := 0; i < wholeRepetitions; i++ {
		out = append(out, words...)
	}
	prefixLen := int(float64(n) * fraction)
	out = append(out, words[:prefixLen]...)
	return out
}
