package grammar

// GenerationCache memoizes Grammar.Generate results, keyed by the pair
// (constraint-set canonical string, word string) — the third of the
// engine's four memoization caches (spec.md §5).
type GenerationCache struct {
	entries map[string][]string
}

func NewGenerationCache() *GenerationCache {
	return &GenerationCache{entries: make(map[string][]string)}
}

func generationKey(constraintSetString, wordString string) string {
	return constraintSetString + "\x00" + wordString
}

func (c *GenerationCache) Get(constraintSetString, wordString string) ([]string, bool) {
	v, ok := c.entries[generationKey(constraintSetString, wordString)]
	return v, ok
}

func (c *GenerationCache) Set(constraintSetString, wordString string, outputs []string) {
	c.entries[generationKey(constraintSetString, wordString)] = outputs
}

func (c *GenerationCache) Clear() {
	c.entries = make(map[string][]string)
}
