package canvas

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"

	"sld/diagram"
	"sld/geometry"
	"sld/pathfinding"
	"sld/ports"
)

// Options control the world to cell projection.
type Options struct {
	CellWidth  int  // world units per column
	CellHeight int  // world units per row
	Margin     int  // blank cells around the drawing
	Labels     bool // draw symbol names
}

// DefaultOptions fits the default layout spacing into a terminal.
func DefaultOptions() Options {
	return Options{CellWidth: 10, CellHeight: 20, Margin: 1, Labels: true}
}

// Scene is everything the renderer draws.
type Scene struct {
	Symbols     []diagram.Symbol
	Paths       map[string]pathfinding.Path
	Quarantined []string
}

var glyphs = map[diagram.Kind]rune{
	diagram.KindTransformer: 'T',
	diagram.KindLine:        'L',
	diagram.KindSwitch:      'S',
	diagram.KindSource:      'G',
	diagram.KindLoad:        'D',
}

type projection struct {
	origin geometry.Point
	opts   Options
}

func (p projection) cell(pt geometry.Point) Cell {
	return Cell{
		X: (pt.X-p.origin.X)/p.opts.CellWidth + p.opts.Margin,
		Y: (pt.Y-p.origin.Y)/p.opts.CellHeight + p.opts.Margin,
	}
}

// span maps a footprint to its first and last cell.
func (p projection) span(r geometry.Rect) (Cell, Cell) {
	return p.cell(r.Min), p.cell(geometry.Point{X: r.Max.X - 1, Y: r.Max.Y - 1})
}

// Render draws wires first, then symbols and labels on top. Output depends only on
// the scene contents, not on slice or map order.
func Render(scene Scene, opts Options) (*Matrix, error) {
	if opts.CellWidth <= 0 || opts.CellHeight <= 0 || opts.Margin < 0 {
		return nil, fmt.Errorf("%w: cell %dx%d margin %d", ErrInvalidSize, opts.CellWidth, opts.CellHeight, opts.Margin)
	}

	symbols := diagram.SortedByID(scene.Symbols)
	ids := make([]string, 0, len(scene.Paths))
	for id := range scene.Paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bounds, ok := sceneBounds(symbols, scene.Paths, ids)
	if !ok {
		return NewMatrix(1, 1)
	}
	proj := projection{origin: bounds.Min, opts: opts}
	last := proj.cell(geometry.Point{X: bounds.Max.X - 1, Y: bounds.Max.Y - 1})

	labelWidth := 0
	if opts.Labels {
		for _, s := range symbols {
			labelWidth = max(labelWidth, runewidth.StringWidth(s.Name)+1)
		}
	}
	m, err := NewMatrix(last.X+1+opts.Margin+labelWidth, last.Y+1+opts.Margin)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		path := scene.Paths[id]
		class := ClassWire
		if path.Fallback {
			class = ClassFallbackWire
		}
		m.DrawPath(projectPath(proj, path.Points), class)
	}

	quarantined := make(map[string]bool, len(scene.Quarantined))
	for _, id := range scene.Quarantined {
		quarantined[id] = true
	}
	for _, s := range symbols {
		drawSymbol(m, proj, s, quarantined[s.ID])
	}
	if opts.Labels {
		for _, s := range symbols {
			if s.Name == "" {
				continue
			}
			lo, hi := proj.span(ports.Footprint(s))
			m.DrawText(hi.X+1, lo.Y, s.Name, ClassLabel)
		}
	}
	return m, nil
}

func drawSymbol(m *Matrix, proj projection, s diagram.Symbol, quarantined bool) {
	lo, hi := proj.span(ports.Footprint(s))
	class := ClassSymbol
	switch {
	case quarantined:
		class = ClassQuarantined
	case !s.InService:
		class = ClassOutOfService
	}

	if s.Kind == diagram.KindBus {
		if class == ClassSymbol {
			class = ClassBus
		}
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				m.Put(x, y, '━', class)
			}
		}
		return
	}

	style := SolidBox
	if class != ClassSymbol {
		style = DashedBox
	}
	w, h := hi.X-lo.X+1, hi.Y-lo.Y+1
	if w < 3 || h < 3 {
		m.Put((lo.X+hi.X)/2, (lo.Y+hi.Y)/2, glyphs[s.Kind], class)
		return
	}
	m.DrawBox(lo.X, lo.Y, w, h, style, class)
	m.Put(lo.X+w/2, lo.Y+h/2, glyphs[s.Kind], class)
}

func projectPath(proj projection, points []geometry.Point) []Cell {
	cells := make([]Cell, 0, len(points))
	for _, p := range points {
		c := proj.cell(p)
		if n := len(cells); n > 0 && cells[n-1] == c {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}

func sceneBounds(symbols []diagram.Symbol, paths map[string]pathfinding.Path, ids []string) (geometry.Rect, bool) {
	var bounds geometry.Rect
	found := false
	add := func(r geometry.Rect) {
		if !found {
			bounds, found = r, true
			return
		}
		bounds = bounds.Union(r)
	}
	for _, s := range symbols {
		add(ports.Footprint(s))
	}
	for _, id := range ids {
		for _, p := range paths[id].Points {
			add(geometry.Rect{Min: p, Max: geometry.Point{X: p.X + 1, Y: p.Y + 1}})
		}
	}
	return bounds, found
}
