package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidGridSize is returned when a grid size is zero or negative.
var ErrInvalidGridSize = errors.New("invalid grid size")

// Grid snaps coordinates to multiples of its size.
type Grid struct {
	size int
}

// NewGrid validates size and returns a Grid.
func NewGrid(size int) (Grid, error) {
	if size <= 0 {
		return Grid{}, fmt.Errorf("%w: %d", ErrInvalidGridSize, size)
	}
	return Grid{size: size}, nil
}

// Size returns the grid pitch.
func (g Grid) Size() int {
	return g.size
}

// Snap rounds v to the nearest multiple of the grid. Halves round up.
func (g Grid) Snap(v int) int {
	return floorDiv(v+g.size/2, g.size) * g.size
}

// SnapPoint snaps both coordinates.
func (g Grid) SnapPoint(p Point) Point {
	return Point{X: g.Snap(p.X), Y: g.Snap(p.Y)}
}

// Ceil rounds v up to the next multiple of the grid.
func (g Grid) Ceil(v int) int {
	return -floorDiv(-v, g.size) * g.size
}

// CeilEven rounds v up to the next multiple of twice the grid, so that half of the
// result still lies on the grid.
func (g Grid) CeilEven(v int) int {
	step := 2 * g.size
	return -floorDiv(-v, step) * step
}

// OnGrid reports whether both coordinates are exact multiples of the grid.
func (g Grid) OnGrid(p Point) bool {
	return p.X%g.size == 0 && p.Y%g.size == 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
