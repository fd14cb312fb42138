// Package geometry holds the integer geometry shared by the layout engine and the
// connection router: points, axis-aligned boxes and grid snapping.
package geometry

import "math"

// Point is a canvas coordinate. Y grows downward.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(a, b Point) int {
	return Abs(b.X-a.X) + Abs(b.Y-a.Y)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// PathLength sums the Manhattan length of consecutive segments.
func PathLength(points []Point) int {
	total := 0
	for i := 1; i < len(points); i++ {
		total += ManhattanDistance(points[i-1], points[i])
	}
	return total
}
