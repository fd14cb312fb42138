package layout

import (
	"sort"

	"sld/diagram"
)

// assignDepths layers the group graph and picks a spanning tree over it. Depth is
// the hop distance from the nearest root, walking edges in either direction.
// Groups carrying a Source are the roots of their component; a component without
// one falls back to the groups no edge points into, then to its first group.
func (t *topology) assignDepths() {
	incoming := make([]bool, len(t.groups))
	for _, e := range t.edges {
		t.groups[e.gFrom].adj = appendUnique(t.groups[e.gFrom].adj, e.gTo)
		t.groups[e.gTo].adj = appendUnique(t.groups[e.gTo].adj, e.gFrom)
		incoming[e.gTo] = true
	}
	for _, g := range t.groups {
		sort.Ints(g.adj)
	}

	visited := make([]bool, len(t.groups))
	for gi, g := range t.groups {
		if visited[gi] || g.isolated {
			continue
		}
		component := t.component(gi, visited)
		t.layer(t.componentRoots(component, incoming))
	}

	for gi, g := range t.groups {
		if g.isolated || g.depth == 0 {
			continue
		}
		for _, p := range g.adj {
			if t.groups[p].depth == g.depth-1 {
				g.parent = p
				break
			}
		}
		t.groups[g.parent].children = append(t.groups[g.parent].children, gi)
	}
	for _, g := range t.groups {
		sort.Ints(g.children)
	}
}

// component returns the groups reachable from start, sorted, and marks them visited.
func (t *topology) component(start int, visited []bool) []int {
	visited[start] = true
	members := []int{start}
	for i := 0; i < len(members); i++ {
		for _, n := range t.groups[members[i]].adj {
			if !visited[n] {
				visited[n] = true
				members = append(members, n)
			}
		}
	}
	sort.Ints(members)
	return members
}

func (t *topology) componentRoots(component []int, incoming []bool) []int {
	var roots []int
	for _, gi := range component {
		if t.hasSource(gi) {
			roots = append(roots, gi)
		}
	}
	if len(roots) > 0 {
		return roots
	}
	for _, gi := range component {
		if !incoming[gi] {
			roots = append(roots, gi)
		}
	}
	if len(roots) > 0 {
		return roots
	}
	return component[:1]
}

func (t *topology) hasSource(gi int) bool {
	for _, pd := range t.groups[gi].pendants {
		if t.symbols[pd.symbol].Kind == diagram.KindSource {
			return true
		}
	}
	return false
}

// layer runs a breadth-first search from roots and sets every reached group's depth.
func (t *topology) layer(roots []int) {
	seen := make(map[int]bool, len(roots))
	for _, r := range roots {
		seen[r] = true
		t.groups[r].depth = 0
	}
	queue := roots
	for len(queue) > 0 {
		var next []int
		for _, gi := range queue {
			for _, n := range t.groups[gi].adj {
				if seen[n] {
					continue
				}
				seen[n] = true
				t.groups[n].depth = t.groups[gi].depth + 1
				next = append(next, n)
			}
		}
		sort.Ints(next)
		queue = next
	}
}

// roots returns the groups laid out as independent trees, in key order.
func (t *topology) roots() []int {
	var roots []int
	for gi, g := range t.groups {
		if !g.isolated && g.parent < 0 {
			roots = append(roots, gi)
		}
	}
	return roots
}

// isTreeEdge reports whether an edge between two groups belongs to a bay of the
// spanning tree.
func (t *topology) isTreeEdge(e edge) bool {
	a, b := t.groups[e.gFrom], t.groups[e.gTo]
	return a.parent == e.gTo || b.parent == e.gFrom
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
