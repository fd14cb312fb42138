package pathfinding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"sld/diagram"
	"sld/geometry"
	"sld/ports"
)

// ErrInvalidConfig is returned by NewRouter for unusable settings.
var ErrInvalidConfig = errors.New("invalid router config")

// Config holds the routing constants.
type Config struct {
	GridSize      int
	MinBendLength int // shortest segment allowed in a route with bends
	Clearance     int // obstacles are inflated by this much
	MaxBends      int
	BendPenalty   int // cost of one bend in length units
}

// DefaultConfig returns the constants used by the editor.
func DefaultConfig() Config {
	return Config{
		GridSize:      20,
		MinBendLength: 20,
		Clearance:     10,
		MaxBends:      4,
		BendPenalty:   40,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if _, err := geometry.NewGrid(c.GridSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.MinBendLength <= 0:
		return fmt.Errorf("%w: minimum bend length must be positive, got %d", ErrInvalidConfig, c.MinBendLength)
	case c.Clearance < 0:
		return fmt.Errorf("%w: clearance must not be negative, got %d", ErrInvalidConfig, c.Clearance)
	case c.MaxBends < 1:
		return fmt.Errorf("%w: at least one bend must be allowed, got %d", ErrInvalidConfig, c.MaxBends)
	case c.BendPenalty < 0:
		return fmt.Errorf("%w: bend penalty must not be negative, got %d", ErrInvalidConfig, c.BendPenalty)
	}
	return nil
}

// Router finds orthogonal routes between ports. It holds no per-call state.
type Router struct {
	cfg    Config
	grid   geometry.Grid
	stub   int
	logger hclog.Logger
}

// NewRouter validates cfg and returns a router.
func NewRouter(cfg Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, _ := geometry.NewGrid(cfg.GridSize)
	return &Router{
		cfg:    cfg,
		grid:   grid,
		stub:   grid.Ceil(cfg.MinBendLength),
		logger: hclog.NewNullLogger(),
	}, nil
}

// SetLogger sets the logger used for debug output.
func (r *Router) SetLogger(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r.logger = logger
}

// Config returns the router configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// Obstacles returns the obstacles for a route between the two given symbols.
func (r *Router) Obstacles(symbols []diagram.Symbol, fromSymbolID, toSymbolID string) []Obstacle {
	return BuildObstacles(symbols, r.cfg.Clearance, fromSymbolID, toSymbolID)
}

// Route finds the cheapest clear orthogonal route from one port to another. The
// path starts and ends on the exact port positions; each end leaves its port on a
// short stub to the first grid line outward, and the run between the stubs stays
// on the grid. Ports at the same point give a two-point path. When no candidate
// within the bend budget is clear, a direct L route is returned with Fallback set.
func (r *Router) Route(from, to ports.Port, symbols []diagram.Symbol) Path {
	if from.Position == to.Position {
		return Path{Points: []geometry.Point{from.Position, to.Position}}
	}
	exit, entry := from.Outward(), to.Outward()
	head := r.lead(from.Position, exit)
	tail := r.lead(to.Position, entry)
	s, t := head[len(head)-1], tail[len(tail)-1]
	if s == t {
		return Path{Points: join(head, nil, tail)}
	}

	obstacles := r.Obstacles(symbols, from.SymbolID, to.SymbolID)

	var best []geometry.Point
	bestCost := 0
	for _, c := range r.candidates(s, t, exit, entry, obstacles) {
		pts := SimplifyPath(c)
		if !r.acceptable(pts) || Blocked(pts, obstacles) {
			continue
		}
		cost := geometry.PathLength(pts) + r.cfg.BendPenalty*(len(pts)-2)
		if best == nil || cost < bestCost {
			best, bestCost = pts, cost
		}
	}

	if best == nil {
		pts := join(head, lRoute(s, t, exit), tail)
		r.logger.Debug("no clear route, using direct path",
			"from", from.SymbolID, "from_port", from.Name,
			"to", to.SymbolID, "to_port", to.Name,
			"blocked_by", FirstHit(pts, obstacles))
		return Path{Points: pts, Bends: len(pts) - 2, Fallback: true}
	}
	pts := join(head, best, tail)
	return Path{Points: pts, Bends: len(pts) - 2}
}

// lead runs from a port to its grid anchor: first along dir to the next grid line
// outward, then across to the nearest grid line. A port without a direction snaps
// to the nearest grid point.
func (r *Router) lead(p, dir geometry.Point) []geometry.Point {
	anchor := r.grid.SnapPoint(p)
	switch {
	case dir.Y != 0:
		anchor.Y = dir.Y * r.grid.Ceil(dir.Y*p.Y)
		return []geometry.Point{p, {X: p.X, Y: anchor.Y}, anchor}
	case dir.X != 0:
		anchor.X = dir.X * r.grid.Ceil(dir.X*p.X)
		return []geometry.Point{p, {X: anchor.X, Y: p.Y}, anchor}
	}
	return []geometry.Point{p, {X: anchor.X, Y: p.Y}, anchor}
}

// join concatenates the head stub, the grid route and the reversed tail stub.
func join(head, route, tail []geometry.Point) []geometry.Point {
	pts := make([]geometry.Point, 0, len(head)+len(route)+len(tail))
	pts = append(pts, head...)
	pts = append(pts, route...)
	for i := len(tail) - 1; i >= 0; i-- {
		pts = append(pts, tail[i])
	}
	return SimplifyPath(pts)
}

// acceptable checks the bend budget and the minimum segment length.
func (r *Router) acceptable(pts []geometry.Point) bool {
	if len(pts) < 2 || !IsOrthogonal(pts) {
		return false
	}
	if len(pts)-2 > r.cfg.MaxBends {
		return false
	}
	if len(pts) == 2 {
		return true
	}
	for i := 1; i < len(pts); i++ {
		if geometry.ManhattanDistance(pts[i-1], pts[i]) < r.cfg.MinBendLength {
			return false
		}
	}
	return true
}

// candidates lists routes in preference order: straight, L, Z through channels, then
// routes that leave and enter each port on a short perpendicular stub.
func (r *Router) candidates(s, t, exit, entry geometry.Point, obstacles []Obstacle) [][]geometry.Point {
	var out [][]geometry.Point

	if s.X == t.X || s.Y == t.Y {
		out = append(out, []geometry.Point{s, t})
	}

	primary := lRoute(s, t, exit)
	out = append(out, primary, alternateL(s, t, primary))

	ys := r.channels(s.Y, t.Y, obstacles, func(b geometry.Rect) (int, int) { return b.Min.Y, b.Max.Y })
	xs := r.channels(s.X, t.X, obstacles, func(b geometry.Rect) (int, int) { return b.Min.X, b.Max.X })
	vertical := exit.Y != 0
	zs := func(a, b geometry.Point) [][]geometry.Point {
		var routes [][]geometry.Point
		vhv := make([][]geometry.Point, 0, len(ys))
		for _, y := range ys {
			vhv = append(vhv, []geometry.Point{a, {X: a.X, Y: y}, {X: b.X, Y: y}, b})
		}
		hvh := make([][]geometry.Point, 0, len(xs))
		for _, x := range xs {
			hvh = append(hvh, []geometry.Point{a, {X: x, Y: a.Y}, {X: x, Y: b.Y}, b})
		}
		if vertical {
			routes = append(append(routes, vhv...), hvh...)
		} else {
			routes = append(append(routes, hvh...), vhv...)
		}
		return routes
	}
	out = append(out, zs(s, t)...)

	if r.cfg.MaxBends < 4 || (exit == geometry.Point{} && entry == geometry.Point{}) {
		return out
	}

	s2 := s.Add(geometry.Point{X: exit.X * r.stub, Y: exit.Y * r.stub})
	t2 := t.Add(geometry.Point{X: entry.X * r.stub, Y: entry.Y * r.stub})
	wrap := func(route []geometry.Point) []geometry.Point {
		full := make([]geometry.Point, 0, len(route)+2)
		full = append(full, s)
		full = append(full, route...)
		return append(full, t)
	}
	stubL := lRoute(s2, t2, exit)
	out = append(out, wrap(stubL), wrap(alternateL(s2, t2, stubL)))
	for _, z := range zs(s2, t2) {
		out = append(out, wrap(z))
	}
	return out
}

// lRoute bends once, leaving along the exit axis. A port without a direction leaves
// horizontally.
func lRoute(s, t, exit geometry.Point) []geometry.Point {
	if exit.Y != 0 {
		return []geometry.Point{s, {X: s.X, Y: t.Y}, t}
	}
	return []geometry.Point{s, {X: t.X, Y: s.Y}, t}
}

func alternateL(s, t geometry.Point, primary []geometry.Point) []geometry.Point {
	if primary[1].X == s.X && primary[1].Y == t.Y {
		return []geometry.Point{s, {X: t.X, Y: s.Y}, t}
	}
	return []geometry.Point{s, {X: s.X, Y: t.Y}, t}
}

// channels returns grid coordinates for the middle run of a Z route along one axis:
// the midpoint of a and b, the grid lines just outside every obstacle, and one stub
// beyond either end. They are ordered by distance from the midpoint.
func (r *Router) channels(a, b int, obstacles []Obstacle, span func(geometry.Rect) (int, int)) []int {
	mid := r.grid.Snap((a + b) / 2)

	seen := map[int]bool{}
	var cs []int
	add := func(v int) {
		if !seen[v] {
			seen[v] = true
			cs = append(cs, v)
		}
	}
	add(mid)
	for _, o := range obstacles {
		lo, hi := span(o.Box)
		add(-r.grid.Ceil(-lo)) // floor to grid
		add(r.grid.Ceil(hi))
	}
	lo, hi := min(a, b), max(a, b)
	add(lo - r.stub)
	add(hi + r.stub)

	sort.Slice(cs, func(i, j int) bool {
		di, dj := geometry.Abs(cs[i]-mid), geometry.Abs(cs[j]-mid)
		if di != dj {
			return di < dj
		}
		return cs[i] < cs[j]
	})
	return cs
}
