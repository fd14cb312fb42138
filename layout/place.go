package layout

import (
	"sort"

	"sld/diagram"
	"sld/geometry"
	"sld/ports"
)

// bay is one vertical slot under a bus section: either a child busbar reached
// through one or more parallel branches, or a single pendant symbol.
type bay struct {
	key      string
	section  int // section the bay is attached to in the topology
	child    int // group index, -1 for a pendant bay
	branches []int
	symbol   int // pendant symbol, -1 for a child bay
	width    int
}

type sectionPlan struct {
	bays      []bay
	sources   []int // sources drawn above a root bus
	baysWidth int
	width     int
}

type placer struct {
	cfg  Config
	grid geometry.Grid
	t    *topology
	pos  []geometry.Point

	plans map[int][]sectionPlan
}

func newPlacer(cfg Config, grid geometry.Grid, t *topology) *placer {
	return &placer{
		cfg:   cfg,
		grid:  grid,
		t:     t,
		pos:   make([]geometry.Point, len(t.symbols)),
		plans: make(map[int][]sectionPlan),
	}
}

func (p *placer) footprint(i int) geometry.Rect {
	s := p.t.symbols[i]
	s.Position = p.pos[i]
	return ports.Footprint(s)
}

func (p *placer) row(n int) int {
	return n * p.cfg.VerticalSpacing
}

// slotOffset spreads n slots symmetrically around zero.
func slotOffset(i, n, spacing int) int {
	return (2*i - (n - 1)) * spacing / 2
}

// slotSpan is the width taken by symbols placed side by side at slot offsets.
func (p *placer) slotSpan(symbols []int) int {
	if len(symbols) == 0 {
		return 0
	}
	w := 0
	for _, s := range symbols {
		w = max(w, p.footprint(s).Width())
	}
	return (len(symbols)-1)*p.cfg.TransformerSpacing + w
}

// plan splits the bays of a group over its sections and sizes every section.
func (p *placer) plan(gi int) []sectionPlan {
	if plan, ok := p.plans[gi]; ok {
		return plan
	}
	g := p.t.groups[gi]
	plans := make([]sectionPlan, len(g.sections))

	var bays []bay
	for _, c := range g.children {
		b := bay{key: p.t.groups[c].key, child: c, symbol: -1}
		for _, e := range p.t.edges {
			var own int
			switch {
			case e.gFrom == gi && e.gTo == c:
				own = e.from
			case e.gFrom == c && e.gTo == gi:
				own = e.to
			default:
				continue
			}
			if len(b.branches) == 0 {
				b.section = p.t.sectionOf[own]
			}
			b.branches = append(b.branches, e.symbol)
		}
		b.width = p.grid.CeilEven(max(p.slotSpan(b.branches), p.width(c)))
		bays = append(bays, b)
	}
	for _, pd := range g.pendants {
		sec := p.t.sectionOf[pd.bus]
		if g.parent < 0 && p.t.symbols[pd.symbol].Kind == diagram.KindSource {
			plans[sec].sources = append(plans[sec].sources, pd.symbol)
			continue
		}
		bays = append(bays, bay{
			key:     p.t.key(pd.symbol),
			section: sec,
			child:   -1,
			symbol:  pd.symbol,
			width:   p.grid.CeilEven(p.footprint(pd.symbol).Width()),
		})
	}
	sort.SliceStable(bays, func(i, j int) bool {
		if bays[i].section != bays[j].section {
			return bays[i].section < bays[j].section
		}
		return bays[i].key < bays[j].key
	})

	next := 0
	for si, n := range splitEvenly(len(bays), len(plans)) {
		sp := &plans[si]
		sp.bays = bays[next : next+n]
		next += n
		for k, b := range sp.bays {
			if k > 0 {
				sp.baysWidth += p.cfg.HorizontalSpacing
			}
			sp.baysWidth += b.width
		}
		busWidth := p.footprint(g.sections[si]).Width()
		sp.width = p.grid.CeilEven(max(busWidth, sp.baysWidth, p.slotSpan(sp.sources)))
	}

	p.plans[gi] = plans
	return plans
}

// width is the horizontal extent of a group and everything below it.
func (p *placer) width(gi int) int {
	w := 0
	for si, sp := range p.plan(gi) {
		if si > 0 {
			w += p.cfg.CouplerGap
		}
		w += sp.width
	}
	return w
}

func (p *placer) placeRoots() {
	left := 0
	for _, gi := range p.t.roots() {
		p.placeGroup(gi, left)
		left += p.width(gi) + p.cfg.HorizontalSpacing
	}
}

// placeGroup places a group with its left edge at left and recurses into child bays.
func (p *placer) placeGroup(gi, left int) {
	g := p.t.groups[gi]
	plans := p.plan(gi)
	sourceY := p.row(2 * g.depth)
	busY := p.row(2*g.depth + 1)
	bayY := p.row(2*g.depth + 2)

	lefts := make([]int, len(plans))
	x := left
	for si, sp := range plans {
		lefts[si] = x
		centre := x + sp.width/2
		p.pos[g.sections[si]] = geometry.Point{X: centre, Y: busY}
		for k, s := range sp.sources {
			p.pos[s] = geometry.Point{X: centre + slotOffset(k, len(sp.sources), p.cfg.TransformerSpacing), Y: sourceY}
		}

		bx := x + (sp.width-sp.baysWidth)/2
		for _, b := range sp.bays {
			spine := bx + b.width/2
			if b.child >= 0 {
				for k, br := range b.branches {
					p.pos[br] = geometry.Point{X: spine + slotOffset(k, len(b.branches), p.cfg.TransformerSpacing), Y: bayY}
				}
				p.placeGroup(b.child, bx+(b.width-p.width(b.child))/2)
			} else {
				p.pos[b.symbol] = geometry.Point{X: spine, Y: bayY}
			}
			bx += b.width + p.cfg.HorizontalSpacing
		}
		x += sp.width + p.cfg.CouplerGap
	}

	for _, c := range g.couplers {
		right := lefts[c.lo] + plans[c.lo].width
		p.pos[c.symbol] = geometry.Point{X: (right + lefts[c.hi]) / 2, Y: busY}
	}
}

// placeCrossLinks puts edges outside the spanning tree halfway between their buses,
// one row below the shallower end.
func (p *placer) placeCrossLinks() {
	type pairKey struct{ a, b int }
	byPair := make(map[pairKey][]edge)
	var order []pairKey
	for _, e := range p.t.edges {
		if p.t.isTreeEdge(e) {
			continue
		}
		k := pairKey{min(e.gFrom, e.gTo), max(e.gFrom, e.gTo)}
		if _, ok := byPair[k]; !ok {
			order = append(order, k)
		}
		byPair[k] = append(byPair[k], e)
	}

	for _, k := range order {
		links := byPair[k]
		for i, e := range links {
			a, b := p.pos[e.from], p.pos[e.to]
			d := min(p.t.groups[e.gFrom].depth, p.t.groups[e.gTo].depth)
			p.pos[e.symbol] = geometry.Point{
				X: (a.X+b.X)/2 + slotOffset(i, len(links), p.cfg.TransformerSpacing),
				Y: p.row(2*d + 2),
			}
		}
	}
}

// placeQuarantine lines quarantined symbols up in id order in a row below everything
// placed so far and returns their indices.
func (p *placer) placeQuarantine() []int {
	q := p.t.quarantined
	if len(q) == 0 {
		return q
	}
	inQuarantine := make(map[int]bool, len(q))
	for _, i := range q {
		inQuarantine[i] = true
	}

	top := 0
	placed := false
	for i := range p.t.symbols {
		if inQuarantine[i] {
			continue
		}
		bottom := p.footprint(i).Max.Y
		if !placed || bottom > top {
			top = bottom
		}
		placed = true
	}
	if placed {
		top = p.grid.Ceil(top) + p.cfg.VerticalSpacing
	}

	height := 0
	for _, i := range q {
		height = max(height, p.footprint(i).Height())
	}
	y := p.grid.Ceil(top + (height+1)/2)

	x := 0
	for _, i := range q {
		w := p.grid.CeilEven(p.footprint(i).Width())
		p.pos[i] = geometry.Point{X: x + w/2, Y: y}
		x += w + p.cfg.HorizontalSpacing
	}
	return q
}
