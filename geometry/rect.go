package geometry

import "fmt"

// Rect is an axis-aligned bounding box. Min is inclusive, Max exclusive.
type Rect struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// RectAround builds the box of the given size centred on c.
func RectAround(c Point, width, height int) Rect {
	min := Point{X: c.X - width/2, Y: c.Y - height/2}
	return Rect{Min: min, Max: Point{X: min.X + width, Y: min.Y + height}}
}

// Width returns the width of the box.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns the height of the box.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// Center returns the centre of the box.
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Width()/2, Y: r.Min.Y + r.Height()/2}
}

// Contains checks if a point is within the box.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Inflate grows the box by n on every side.
func (r Rect) Inflate(n int) Rect {
	return Rect{
		Min: Point{X: r.Min.X - n, Y: r.Min.Y - n},
		Max: Point{X: r.Max.X + n, Y: r.Max.Y + n},
	}
}

// Translate moves the box by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Overlaps reports whether two boxes share interior area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X &&
		r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Union returns the smallest box containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: min(r.Min.X, o.Min.X), Y: min(r.Min.Y, o.Min.Y)},
		Max: Point{X: max(r.Max.X, o.Max.X), Y: max(r.Max.Y, o.Max.Y)},
	}
}

// SegmentIntersects reports whether the axis-aligned segment a-b passes through the
// interior of r. A segment running exactly along an edge does not intersect.
// Diagonal segments are tested by their bounding box.
func (r Rect) SegmentIntersects(a, b Point) bool {
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minY, maxY := min(a.Y, b.Y), max(a.Y, b.Y)
	if minX == maxX {
		return minX > r.Min.X && minX < r.Max.X && minY < r.Max.Y && maxY > r.Min.Y
	}
	if minY == maxY {
		return minY > r.Min.Y && minY < r.Max.Y && minX < r.Max.X && maxX > r.Min.X
	}
	return minX < r.Max.X && maxX > r.Min.X && minY < r.Max.Y && maxY > r.Min.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("[(%d,%d)-(%d,%d)]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
