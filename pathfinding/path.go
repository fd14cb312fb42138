// Package pathfinding routes orthogonal connections between symbol ports around the
// footprints of the other symbols on the canvas.
package pathfinding

import (
	"fmt"
	"strings"

	"sld/geometry"
)

// Path is a routed connection. Points run from the source port to the target port.
type Path struct {
	Points   []geometry.Point `json:"points" yaml:"points"`
	Bends    int              `json:"bends" yaml:"bends"`
	Fallback bool             `json:"fallback,omitempty" yaml:"fallback,omitempty"` // no clear route was found
}

// Length returns the Manhattan length of the path.
func (p Path) Length() int {
	return geometry.PathLength(p.Points)
}

func (p Path) String() string {
	var sb strings.Builder
	for i, pt := range p.Points {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		fmt.Fprintf(&sb, "(%d,%d)", pt.X, pt.Y)
	}
	if p.Fallback {
		sb.WriteString(" [fallback]")
	}
	return sb.String()
}

// IsAligned checks if three points are on the same horizontal or vertical line.
func IsAligned(p1, p2, p3 geometry.Point) bool {
	return (p1.X == p2.X && p2.X == p3.X) || (p1.Y == p2.Y && p2.Y == p3.Y)
}

// SimplifyPath drops repeated points and merges collinear runs. The first and last
// points are always kept, so a path between two distinct points never shrinks below
// two points.
func SimplifyPath(points []geometry.Point) []geometry.Point {
	if len(points) == 0 {
		return nil
	}

	deduped := []geometry.Point{points[0]}
	for _, p := range points[1:] {
		if p != deduped[len(deduped)-1] {
			deduped = append(deduped, p)
		}
	}
	if len(deduped) == 1 {
		return []geometry.Point{points[0], points[len(points)-1]}
	}
	if len(deduped) <= 2 {
		return deduped
	}

	simplified := []geometry.Point{deduped[0]}
	for i := 1; i < len(deduped)-1; i++ {
		if !IsAligned(simplified[len(simplified)-1], deduped[i], deduped[i+1]) {
			simplified = append(simplified, deduped[i])
		}
	}
	return append(simplified, deduped[len(deduped)-1])
}

// IsOrthogonal reports whether every segment of points is horizontal or vertical.
func IsOrthogonal(points []geometry.Point) bool {
	for i := 1; i < len(points); i++ {
		if points[i-1].X != points[i].X && points[i-1].Y != points[i].Y {
			return false
		}
	}
	return true
}
