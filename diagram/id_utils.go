package diagram

import (
	"errors"
	"fmt"
	"sort"
)

// Contract failures for a working symbol set.
var (
	ErrDuplicateSymbolID  = errors.New("duplicate symbol id")
	ErrDuplicateElementID = errors.New("duplicate element id")
)

// CheckUniqueIDs verifies that symbol ids and non-empty element ids are unique.
// The reported id is the lexicographically smallest duplicate, independent of order.
func CheckUniqueIDs(symbols []Symbol) error {
	symbolCount := make(map[string]int)
	elementCount := make(map[string]int)
	for _, s := range symbols {
		symbolCount[s.ID]++
		if s.ElementID != "" {
			elementCount[s.ElementID]++
		}
	}

	if dup := firstDuplicate(symbolCount); dup != "" {
		return fmt.Errorf("%w: %q", ErrDuplicateSymbolID, dup)
	}
	if dup := firstDuplicate(elementCount); dup != "" {
		return fmt.Errorf("%w: %q", ErrDuplicateElementID, dup)
	}
	return nil
}

func firstDuplicate(counts map[string]int) string {
	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	if len(dups) == 0 {
		return ""
	}
	sort.Strings(dups)
	return dups[0]
}

// AllIDs returns every symbol id and element id in use, sorted and de-duplicated.
// It is the existing-id set handed to the identifier generator on paste.
func AllIDs(symbols []Symbol) []string {
	seen := make(map[string]bool, 2*len(symbols))
	for _, s := range symbols {
		seen[s.ID] = true
		if s.ElementID != "" {
			seen[s.ElementID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedByID returns a copy of symbols ordered by symbol id.
func SortedByID(symbols []Symbol) []Symbol {
	out := make([]Symbol, len(symbols))
	copy(out, symbols)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
