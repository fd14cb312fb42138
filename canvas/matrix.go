// Package canvas rasterises a laid-out diagram onto a character grid.
package canvas

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Class tags a cell with what was drawn there so viewers can colour it.
type Class uint8

// Cell classes.
const (
	ClassNone Class = iota
	ClassWire
	ClassFallbackWire
	ClassBus
	ClassSymbol
	ClassOutOfService
	ClassQuarantined
	ClassLabel
)

// Matrix is a rune grid with a class per cell.
//
// Coordinate system: origin (0,0) is top-left, X grows right, Y grows down, all in
// character cells. Matrix is not safe for concurrent writes.
type Matrix struct {
	cells   [][]rune
	classes [][]Class
	width   int
	height  int
	merger  *CharacterMerger
}

// NewMatrix creates a blank matrix.
func NewMatrix(width, height int) (*Matrix, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	cells := make([][]rune, height)
	classes := make([][]Class, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", width))
		classes[y] = make([]Class, width)
	}

	return &Matrix{
		cells:   cells,
		classes: classes,
		width:   width,
		height:  height,
		merger:  NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the matrix.
func (m *Matrix) Size() (width, height int) {
	return m.width, m.height
}

func (m *Matrix) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Get returns the rune and class at x, y. Out of bounds reads are blank.
func (m *Matrix) Get(x, y int) (rune, Class) {
	if !m.inBounds(x, y) {
		return ' ', ClassNone
	}
	return m.cells[y][x], m.classes[y][x]
}

// Set merges r into the cell using box-drawing rules.
func (m *Matrix) Set(x, y int, r rune, class Class) error {
	if !m.inBounds(x, y) {
		return ErrOutOfBounds
	}
	m.cells[y][x] = m.merger.Merge(m.cells[y][x], r)
	m.classes[y][x] = class
	return nil
}

// Put overwrites the cell without merging.
func (m *Matrix) Put(x, y int, r rune, class Class) {
	if m.inBounds(x, y) {
		m.cells[y][x] = r
		m.classes[y][x] = class
	}
}

// DrawHorizontalLine draws from x1 to x2 inclusive, clipped to the matrix.
func (m *Matrix) DrawHorizontalLine(x1, y, x2 int, r rune, class Class) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		_ = m.Set(x, y, r, class)
	}
}

// DrawVerticalLine draws from y1 to y2 inclusive, clipped to the matrix.
func (m *Matrix) DrawVerticalLine(x, y1, y2 int, r rune, class Class) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		_ = m.Set(x, y, r, class)
	}
}

// DrawBox draws a closed rectangle. Boxes smaller than 2x2 are drawn as a single cell.
func (m *Matrix) DrawBox(x, y, width, height int, style BoxStyle, class Class) {
	if width < 2 || height < 2 {
		m.Put(x, y, style.Horizontal, class)
		return
	}
	right, bottom := x+width-1, y+height-1
	for i := x + 1; i < right; i++ {
		m.Put(i, y, style.Horizontal, class)
		m.Put(i, bottom, style.Horizontal, class)
	}
	for j := y + 1; j < bottom; j++ {
		m.Put(x, j, style.Vertical, class)
		m.Put(right, j, style.Vertical, class)
		for i := x + 1; i < right; i++ {
			m.Put(i, j, ' ', class)
		}
	}
	m.Put(x, y, style.TopLeft, class)
	m.Put(right, y, style.TopRight, class)
	m.Put(x, bottom, style.BottomLeft, class)
	m.Put(right, bottom, style.BottomRight, class)
}

// DrawText writes text left to right, clipping at the right edge. Wide runes take
// two cells; the second holds a zero rune.
func (m *Matrix) DrawText(x, y int, text string, class Class) {
	if y < 0 || y >= m.height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > m.width {
			return
		}
		m.Put(x, y, r, class)
		if w == 2 {
			m.Put(x+1, y, 0, class)
		}
		x += w
	}
}

// DrawPath draws an orthogonal polyline with rounded corners.
func (m *Matrix) DrawPath(points []Cell, class Class) {
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		switch {
		case a.Y == b.Y:
			m.DrawHorizontalLine(a.X, a.Y, b.X, '─', class)
		case a.X == b.X:
			m.DrawVerticalLine(a.X, a.Y, b.Y, '│', class)
		}
	}
	for i := 1; i+1 < len(points); i++ {
		m.Put(points[i].X, points[i].Y, corner(points[i-1], points[i], points[i+1]), class)
	}
}

// Cell is a matrix coordinate.
type Cell struct {
	X, Y int
}

func direction(a, b Cell) rune {
	switch {
	case b.X > a.X:
		return 'E'
	case b.X < a.X:
		return 'W'
	case b.Y > a.Y:
		return 'S'
	}
	return 'N'
}

func corner(prev, curr, next Cell) rune {
	from, to := direction(prev, curr), direction(curr, next)
	switch {
	case from == 'E' && to == 'S', from == 'N' && to == 'W':
		return '╮'
	case from == 'E' && to == 'N', from == 'S' && to == 'W':
		return '╯'
	case from == 'W' && to == 'S', from == 'N' && to == 'E':
		return '╭'
	case from == 'W' && to == 'N', from == 'S' && to == 'E':
		return '╰'
	case from == to && (from == 'E' || from == 'W'):
		return '─'
	case from == to:
		return '│'
	}
	return '┼'
}

// String returns the rows joined by newlines with trailing spaces removed.
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.Grow(m.height * (m.width + 1))
	for y, row := range m.cells {
		line := make([]rune, 0, len(row))
		for _, r := range row {
			if r == 0 {
				continue
			}
			line = append(line, r)
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < m.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
