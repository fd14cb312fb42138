package pathfinding

import (
	"sort"

	"sld/diagram"
	"sld/geometry"
	"sld/ports"
)

// Obstacle is the box a route must stay out of.
type Obstacle struct {
	ID  string        `json:"id"`
	Box geometry.Rect `json:"bbox"`
}

// BuildObstacles returns one obstacle per symbol, inflated by clearance and sorted by
// id. Symbols named in exclude are left out.
func BuildObstacles(symbols []diagram.Symbol, clearance int, exclude ...string) []Obstacle {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	obstacles := make([]Obstacle, 0, len(symbols))
	for _, s := range symbols {
		if skip[s.ID] {
			continue
		}
		obstacles = append(obstacles, Obstacle{ID: s.ID, Box: ports.Footprint(s).Inflate(clearance)})
	}
	sort.Slice(obstacles, func(i, j int) bool { return obstacles[i].ID < obstacles[j].ID })
	return obstacles
}

// Blocked reports whether any segment of points passes through an obstacle interior.
func Blocked(points []geometry.Point, obstacles []Obstacle) bool {
	return FirstHit(points, obstacles) != ""
}

// FirstHit returns the id of the first obstacle a segment of points passes through,
// or "" when the route is clear.
func FirstHit(points []geometry.Point, obstacles []Obstacle) string {
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		for _, o := range obstacles {
			if o.Box.SegmentIntersects(a, b) {
				return o.ID
			}
		}
	}
	return ""
}
