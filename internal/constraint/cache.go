package constraint

import "github.com/GalitDotan/Oatmeal/internal/transducer"

// TransducerCache memoizes compiled transducers by canonical string key.
// The engine context owns one instance for individual constraints and a
// second for full constraint sets (spec.md §5's two dedicated caches),
// flushing both periodically; a bare map would work just as well, but a
// named type keeps the flush call self-documenting at the call site.
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
