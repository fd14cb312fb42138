package ident

import "sld/diagram"

// Pair is the id pair minted for one pasted symbol.
type Pair struct {
	SymbolID  string `json:"symbolId"`
	ElementID string `json:"elementId"`
}

// State is a snapshot of a Context, used by undo/redo replay.
type State struct {
	Generation  uint64 `json:"generation"`
	Fingerprint string `json:"fingerprint"`
}

// Context carries the paste-generation counter and the topology fingerprint of one
// editor instance. It is owned by the caller and not safe for concurrent use.
type Context struct {
	generation  uint64
	fingerprint string
}

// NewContext returns a context at generation 0 with no fingerprint.
func NewContext() *Context {
	return &Context{}
}

// Generation returns the generation of the last paste operation.
func (c *Context) Generation() uint64 {
	return c.generation
}

// NextGeneration advances the counter for a new paste or duplicate operation.
func (c *Context) NextGeneration() uint64 {
	c.generation++
	return c.generation
}

// SetFingerprint records the topology fingerprint mixed into every id.
func (c *Context) SetFingerprint(fp string) {
	c.fingerprint = fp
}

// FingerprintValue returns the current fingerprint.
func (c *Context) FingerprintValue() string {
	return c.fingerprint
}

// Reset returns the context to generation 0 with no fingerprint.
func (c *Context) Reset() {
	c.generation = 0
	c.fingerprint = ""
}

// State captures the context.
func (c *Context) State() State {
	return State{Generation: c.generation, Fingerprint: c.fingerprint}
}

// Restore rewinds the context to s, so the next paste replays the one after s.
func (c *Context) Restore(s State) {
	c.generation = s.Generation
	c.fingerprint = s.Fingerprint
}

// GeneratePasteIdentifiers starts a new paste generation and mints one id pair per
// kind. The result is keyed by index into kinds.
func (c *Context) GeneratePasteIdentifiers(kinds []diagram.Kind, existingIDs []string) map[int]Pair {
	if len(kinds) == 0 {
		return map[int]Pair{}
	}
	return Generate(kinds, existingIDs, c.NextGeneration(), c.fingerprint)
}

// Generate mints ids for a fixed generation and fingerprint. Ids are disjoint within
// the batch and from existingIDs; a collision bumps a per-index salt until the pair is
// free.
func Generate(kinds []diagram.Kind, existingIDs []string, generation uint64, fingerprint string) map[int]Pair {
	taken := make(map[string]bool, len(existingIDs)+2*len(kinds))
	for _, id := range existingIDs {
		taken[id] = true
	}

	result := make(map[int]Pair, len(kinds))
	for i, kind := range kinds {
		for salt := 0; ; salt++ {
			sym := SymbolID(kind, i, generation, fingerprint, salt)
			elem := ElementID(kind, i, generation, fingerprint, salt)
			if taken[sym] || taken[elem] {
				continue
			}
			taken[sym] = true
			taken[elem] = true
			result[i] = Pair{SymbolID: sym, ElementID: elem}
			break
		}
	}
	return result
}
