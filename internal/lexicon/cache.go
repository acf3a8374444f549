package lexicon

import "github.com/GalitDotan/Oatmeal/internal/transducer"

// TransducerCache memoizes word input transducers by word string — the
// fourth of the engine's four memoization caches (spec.md §5).
type TransducerCache struct {
	entries map[string]*transducer.Transducer
}

func NewTransducerCache() *TransducerCache {
	return &TransducerCache{entries: make(map[string]*transducer.Transducer)}
}

func (c *TransducerCache) Get(key string) (*transducer.Transducer, bool) {
	t, ok := c.entries[key]
	return t, ok
}

func (c *TransducerCache) Set(key string, t *transducer.Transducer) {
	c.entries[key] = t
}

func (c *TransducerCache) Clear() {
	c.entries = make(map[string]*transducer.Transducer)
}
