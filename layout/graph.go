package layout

import (
	"sort"

	"sld/diagram"
)

// topology is the hierarchy graph of one layout call. Symbols are sorted by id and
// referred to by index everywhere below.
type topology struct {
	symbols []diagram.Symbol

	busByElement map[string]int
	present      map[string]bool

	groups    []*group
	groupOf   map[int]int // bus index -> group index
	sectionOf map[int]int // bus index -> section index within its group

	edges       []edge // edges between different groups, sorted by key
	quarantined []int
	external    []ExternalRef
}

// group is one busbar: a single bus or several sections joined by couplers.
type group struct {
	key      string
	sections []int // bus indices in section order
	couplers []coupler
	pendants []pendant
	isolated bool

	adj      []int // neighbouring group indices, sorted
	depth    int
	parent   int
	children []int
}

type coupler struct {
	symbol int
	lo, hi int // section indices, lo < hi
}

type pendant struct {
	symbol int
	bus    int
}

type edge struct {
	symbol   int
	from, to int // bus indices
	gFrom    int
	gTo      int
}

func symbolKey(s diagram.Symbol) string {
	if s.ElementID != "" {
		return s.ElementID
	}
	return s.ID
}

func (t *topology) key(i int) string {
	return symbolKey(t.symbols[i])
}

// less orders symbol indices by key, then by symbol id.
func (t *topology) less(i, j int) bool {
	ki, kj := t.key(i), t.key(j)
	if ki != kj {
		return ki < kj
	}
	return i < j
}

func (t *topology) resolve(elementID string) (int, bool) {
	if elementID == "" {
		return 0, false
	}
	i, ok := t.busByElement[elementID]
	return i, ok
}

func buildTopology(input []diagram.Symbol) *topology {
	t := &topology{
		symbols:      diagram.SortedByID(input),
		busByElement: make(map[string]int),
		present:      make(map[string]bool),
		groupOf:      make(map[int]int),
		sectionOf:    make(map[int]int),
	}

	for i, s := range t.symbols {
		if s.ElementID != "" {
			t.present[s.ElementID] = true
		}
		if s.Kind == diagram.KindBus && s.ElementID != "" {
			t.busByElement[s.ElementID] = i
		}
	}
	for _, s := range t.symbols {
		for _, r := range s.References() {
			if r.ElementID != "" && !t.present[r.ElementID] {
				t.external = append(t.external, ExternalRef{SymbolID: s.ID, Role: r.Role, ElementID: r.ElementID})
			}
		}
	}

	couplers := t.buildGroups()
	t.classify(couplers)
	return t
}

// buildGroups joins buses into busbar groups and returns the coupler switch indices.
func (t *topology) buildGroups() map[int]bool {
	uf := newUnionFind(len(t.symbols))
	isCoupler := make(map[int]bool)
	feeds := t.newFeedGraph()

	for i, s := range t.symbols {
		if s.Kind != diagram.KindSwitch {
			continue
		}
		a, okA := t.resolve(s.FromNodeID)
		b, okB := t.resolve(s.ToNodeID)
		if okA && okB && a != b && t.isSectionCoupling(feeds, i, a, b) {
			uf.union(a, b)
			isCoupler[i] = true
		}
	}

	var loose []int
	for i, s := range t.symbols {
		if s.Kind == diagram.KindBus && uf.size(i) == 1 {
			loose = append(loose, i)
		}
	}
	for _, members := range groupByName(t.symbols, loose) {
		for _, m := range members[1:] {
			uf.union(members[0], m)
		}
	}

	byRoot := make(map[int][]int)
	for i, s := range t.symbols {
		if s.Kind == diagram.KindBus {
			r := uf.find(i)
			byRoot[r] = append(byRoot[r], i)
		}
	}
	for _, members := range byRoot {
		orderSections(t.symbols, members)
		g := &group{sections: members, parent: -1, key: t.key(members[0])}
		for _, m := range members[1:] {
			if k := t.key(m); k < g.key {
				g.key = k
			}
		}
		t.groups = append(t.groups, g)
	}
	sort.Slice(t.groups, func(i, j int) bool {
		if t.groups[i].key != t.groups[j].key {
			return t.groups[i].key < t.groups[j].key
		}
		return t.groups[i].sections[0] < t.groups[j].sections[0]
	})
	for gi, g := range t.groups {
		for si, b := range g.sections {
			t.groupOf[b] = gi
			t.sectionOf[b] = si
		}
	}
	return isCoupler
}

// classify sorts every non-bus symbol into couplers, edges, pendants or quarantine.
func (t *topology) classify(isCoupler map[int]bool) {
	for i, s := range t.symbols {
		switch {
		case s.Kind == diagram.KindBus:
			continue

		case isCoupler[i] || t.joinsSections(s):
			a, _ := t.resolve(s.FromNodeID)
			b, _ := t.resolve(s.ToNodeID)
			lo, hi := t.sectionOf[a], t.sectionOf[b]
			if lo > hi {
				lo, hi = hi, lo
			}
			g := t.groups[t.groupOf[a]]
			g.couplers = append(g.couplers, coupler{symbol: i, lo: lo, hi: hi})

		case s.Kind.IsEdge():
			a, okA := t.resolve(s.FromNodeID)
			b, okB := t.resolve(s.ToNodeID)
			switch {
			case okA && okB && t.groupOf[a] != t.groupOf[b]:
				t.edges = append(t.edges, edge{symbol: i, from: a, to: b, gFrom: t.groupOf[a], gTo: t.groupOf[b]})
			case okA:
				t.addPendant(i, a)
			case okB:
				t.addPendant(i, b)
			default:
				t.quarantined = append(t.quarantined, i)
			}

		case s.Kind.IsPendant():
			if b, ok := t.resolve(s.ConnectedToNodeID); ok {
				t.addPendant(i, b)
			} else {
				t.quarantined = append(t.quarantined, i)
			}

		default:
			t.quarantined = append(t.quarantined, i)
		}
	}

	sort.Slice(t.edges, func(i, j int) bool { return t.less(t.edges[i].symbol, t.edges[j].symbol) })
	for _, g := range t.groups {
		sort.Slice(g.couplers, func(i, j int) bool { return t.less(g.couplers[i].symbol, g.couplers[j].symbol) })
		sort.Slice(g.pendants, func(i, j int) bool { return t.less(g.pendants[i].symbol, g.pendants[j].symbol) })
	}

	touched := make(map[int]bool)
	for _, e := range t.edges {
		touched[e.gFrom] = true
		touched[e.gTo] = true
	}
	for gi, g := range t.groups {
		if !touched[gi] && len(g.pendants) == 0 {
			g.isolated = true
			t.quarantined = append(t.quarantined, g.sections...)
			for _, c := range g.couplers {
				t.quarantined = append(t.quarantined, c.symbol)
			}
		}
	}
	sort.Ints(t.quarantined)
}

// joinsSections reports whether s is a switch between two different sections that
// already ended up in one group by name.
func (t *topology) joinsSections(s diagram.Symbol) bool {
	if s.Kind != diagram.KindSwitch {
		return false
	}
	a, okA := t.resolve(s.FromNodeID)
	b, okB := t.resolve(s.ToNodeID)
	return okA && okB && a != b && t.groupOf[a] == t.groupOf[b]
}

func (t *topology) addPendant(symbol, bus int) {
	g := t.groups[t.groupOf[bus]]
	g.pendants = append(g.pendants, pendant{symbol: symbol, bus: bus})
}

type unionFind struct {
	parent []int
	count  []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), count: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.count[i] = 1
	}
	return uf
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.count[ra] += u.count[rb]
}

func (u *unionFind) size(i int) int {
	return u.count[u.find(i)]
}
