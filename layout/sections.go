package layout

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sld/diagram"
)

// sectionName matches "<base><sep><marker><n>", e.g. "MV S1", "SN_SEC 2", "RG-SEKCJA3".
var sectionName = regexp.MustCompile(`(?i)^(.*?)[ _-](?:S|SEC|SECTION|SEKCJA)\s*([0-9]+)$`)

// parseSectionName splits a bus name into its base and section number.
func parseSectionName(name string) (base string, number int, ok bool) {
	m := sectionName.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", 0, false
	}
	base = strings.ToLower(strings.TrimSpace(m[1]))
	if base == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return base, n, true
}

// sameBusbarName reports whether a and b are named as sections of one busbar.
func sameBusbarName(a, b diagram.Symbol) bool {
	baseA, _, okA := parseSectionName(a.Name)
	baseB, _, okB := parseSectionName(b.Name)
	return okA && okB && baseA == baseB
}

// feedGraph links buses through every two-ended symbol and marks the buses that
// carry a Source.
type feedGraph struct {
	adj     map[int][]feedLink
	sourced map[int]bool
}

type feedLink struct {
	bus, via int
}

func (t *topology) newFeedGraph() *feedGraph {
	f := &feedGraph{adj: make(map[int][]feedLink), sourced: make(map[int]bool)}
	for i, s := range t.symbols {
		switch {
		case s.Kind.IsEdge():
			a, okA := t.resolve(s.FromNodeID)
			b, okB := t.resolve(s.ToNodeID)
			if okA && okB && a != b {
				f.adj[a] = append(f.adj[a], feedLink{bus: b, via: i})
				f.adj[b] = append(f.adj[b], feedLink{bus: a, via: i})
			}
		case s.Kind == diagram.KindSource:
			if b, ok := t.resolve(s.ConnectedToNodeID); ok {
				f.sourced[b] = true
			}
		}
	}
	return f
}

// fed reports whether bus reaches a Source without passing through skip.
func (f *feedGraph) fed(bus, skip int) bool {
	seen := map[int]bool{bus: true}
	queue := []int{bus}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if f.sourced[b] {
			return true
		}
		for _, l := range f.adj[b] {
			if l.via == skip || seen[l.bus] {
				continue
			}
			seen[l.bus] = true
			queue = append(queue, l.bus)
		}
	}
	return false
}

// isSectionCoupling reports whether switch sw between buses a and b joins two
// sections of one busbar rather than feeding one bus from the other. Both buses
// need the same non-zero voltage. Section names with a shared base always
// qualify; otherwise each side must keep its own feed with sw open.
func (t *topology) isSectionCoupling(f *feedGraph, sw, a, b int) bool {
	sa, sb := t.symbols[a], t.symbols[b]
	if sa.VoltageKV <= 0 || sa.VoltageKV != sb.VoltageKV {
		return false
	}
	if sameBusbarName(sa, sb) {
		return true
	}
	return f.fed(a, sw) && f.fed(b, sw)
}

// groupByName returns the buses that form one busbar by name alone. Only names that
// follow the section grammar and share base and voltage are joined.
func groupByName(symbols []diagram.Symbol, buses []int) [][]int {
	byBase := make(map[string][]int)
	for _, i := range buses {
		base, _, ok := parseSectionName(symbols[i].Name)
		if !ok {
			continue
		}
		k := fmt.Sprintf("%s|%g", base, symbols[i].VoltageKV)
		byBase[k] = append(byBase[k], i)
	}

	keys := make([]string, 0, len(byBase))
	for k, members := range byBase {
		if len(members) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	result := make([][]int, 0, len(keys))
	for _, k := range keys {
		result = append(result, byBase[k])
	}
	return result
}

// orderSections sorts the buses of a group by section number, then by key. Buses
// without a parseable number go last.
func orderSections(symbols []diagram.Symbol, members []int) {
	number := func(i int) int {
		if _, n, ok := parseSectionName(symbols[i].Name); ok {
			return n
		}
		return math.MaxInt
	}
	sort.Slice(members, func(a, b int) bool {
		na, nb := number(members[a]), number(members[b])
		if na != nb {
			return na < nb
		}
		ka, kb := symbolKey(symbols[members[a]]), symbolKey(symbols[members[b]])
		if ka != kb {
			return ka < kb
		}
		return members[a] < members[b]
	})
}

// splitEvenly returns how many of n bays each of k sections receives. The first
// n mod k sections take one extra.
func splitEvenly(n, k int) []int {
	counts := make([]int, k)
	if k == 0 {
		return counts
	}
	for i := range counts {
		counts[i] = n / k
		if i < n%k {
			counts[i]++
		}
	}
	return counts
}
