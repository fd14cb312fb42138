// Package ident mints deterministic symbol and element identifiers for paste and
// duplicate operations. Nothing here reads the clock or a random source: the same
// inputs produce the same ids on every run and platform.
package ident

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"sld/diagram"
)

// Id prefixes.
const (
	SymbolPrefix  = "sldsym_"
	ElementPrefix = "elem_"
)

// Hash namespaces keep symbol and element ids for identical parameters apart.
const (
	symbolNamespace  = "sym"
	elementNamespace = "elem"
)

// Hash returns 8 lowercase hex digits for input. The 64-bit xxhash is folded to 32 bits.
func Hash(input string) string {
	h := xxhash.Sum64String(input)
	return fmt.Sprintf("%08x", uint32(h^(h>>32)))
}

func key(namespace string, kind diagram.Kind, index int, generation uint64, fingerprint string, salt int) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s|%d", namespace, kind, index, generation, fingerprint, salt)
}

// SymbolID returns "sldsym_<kind>_<hash>".
func SymbolID(kind diagram.Kind, index int, generation uint64, fingerprint string, salt int) string {
	return SymbolPrefix + string(kind) + "_" + Hash(key(symbolNamespace, kind, index, generation, fingerprint, salt))
}

// ElementID returns "elem_<kind>_<hash>".
func ElementID(kind diagram.Kind, index int, generation uint64, fingerprint string, salt int) string {
	return ElementPrefix + string(kind) + "_" + Hash(key(elementNamespace, kind, index, generation, fingerprint, salt))
}

// Fingerprint hashes the sorted element ids of a working set. Order of symbols does
// not matter.
func Fingerprint(symbols []diagram.Symbol) string {
	ids := make([]string, 0, len(symbols))
	for _, s := range symbols {
		ids = append(ids, s.ElementID)
	}
	sort.Strings(ids)
	return Hash(strings.Join(ids, "\x00"))
}
