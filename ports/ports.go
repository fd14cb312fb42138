// Package ports derives the fixed set of connection points of a symbol.
//
// Every symbol exposes exactly four ports in the order top, bottom, left, right so
// callers can branch on the port name and never on the count.
package ports

import (
	"errors"
	"fmt"

	"sld/diagram"
	"sld/geometry"
)

// Contract failures.
var (
	ErrInvalidPortName = errors.New("invalid port name")
	ErrInvalidRotation = errors.New("invalid rotation")
)

// PortName identifies a side of a symbol.
type PortName string

// Port names.
const (
	Top    PortName = "top"
	Bottom PortName = "bottom"
	Left   PortName = "left"
	Right  PortName = "right"
)

// Order is the fixed port order. It doubles as the tie-break priority.
var Order = [4]PortName{Top, Bottom, Left, Right}

// ParsePortName converts s to a PortName.
func ParsePortName(s string) (PortName, error) {
	for _, n := range Order {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPortName, s)
}

// Priority returns the rank of the name in Order; lower wins ties.
func (n PortName) Priority() int {
	for i, o := range Order {
		if o == n {
			return i
		}
	}
	return len(Order)
}

// Port is a connection point derived from a symbol's position, size and rotation.
type Port struct {
	SymbolID    string         `json:"symbolId"`
	ElementID   string         `json:"elementId"`
	Name        PortName       `json:"portName"`
	Position    geometry.Point `json:"position"`
	Offset      geometry.Point `json:"offset"` // relative to the symbol centre, rotation applied
	ElementType diagram.Kind   `json:"elementType"`
}

// Default footprints. Bus sizes come from the symbol when set.
const (
	DefaultBusWidth  = 80
	DefaultBusHeight = 8
)

var pointSizes = map[diagram.Kind][2]int{
	diagram.KindTransformer: {40, 60},
	diagram.KindLine:        {20, 60},
	diagram.KindSwitch:      {20, 40},
	diagram.KindSource:      {40, 40},
	diagram.KindLoad:        {30, 40},
}

// Size returns the unrotated width and height of the symbol's rendered footprint.
func Size(s diagram.Symbol) (width, height int) {
	if s.Kind == diagram.KindBus {
		width, height = s.Width, s.Height
		if width <= 0 {
			width = DefaultBusWidth
		}
		if height <= 0 {
			height = DefaultBusHeight
		}
		return width, height
	}
	if sz, ok := pointSizes[s.Kind]; ok {
		return sz[0], sz[1]
	}
	return 20, 20
}

// Footprint returns the axis-aligned box of the symbol at its current position,
// with width and height swapped for quarter turns.
func Footprint(s diagram.Symbol) geometry.Rect {
	w, h := Size(s)
	if r := normalizeOrZero(s.Rotation); r == 90 || r == 270 {
		w, h = h, w
	}
	return geometry.RectAround(s.Position, w, h)
}

// GetPorts returns the four ports of s in Order. A rotation outside the quarter turns
// is treated as 0; imported diagrams are validated before they get here.
func GetPorts(s diagram.Symbol) []Port {
	w, h := Size(s)
	offsets := [4]geometry.Point{
		{X: 0, Y: -h / 2},
		{X: 0, Y: h / 2},
		{X: -w / 2, Y: 0},
		{X: w / 2, Y: 0},
	}

	rotation := normalizeOrZero(s.Rotation)
	result := make([]Port, 0, len(Order))
	for i, name := range Order {
		off := rotate(offsets[i], rotation)
		result = append(result, Port{
			SymbolID:    s.ID,
			ElementID:   s.ElementID,
			Name:        name,
			Position:    s.Position.Add(off),
			Offset:      off,
			ElementType: s.Kind,
		})
	}
	return result
}

// Find returns the named port of s.
func Find(s diagram.Symbol, name PortName) (Port, error) {
	for _, p := range GetPorts(s) {
		if p.Name == name {
			return p, nil
		}
	}
	return Port{}, fmt.Errorf("%w: %q", ErrInvalidPortName, name)
}

// Outward returns the unit direction a wire leaves the port in, derived from its
// offset so rotation is respected. A port at the centre has no direction.
func (p Port) Outward() geometry.Point {
	ax, ay := geometry.Abs(p.Offset.X), geometry.Abs(p.Offset.Y)
	switch {
	case ax == 0 && ay == 0:
		return geometry.Point{}
	case ay >= ax:
		return geometry.Point{Y: geometry.Sign(p.Offset.Y)}
	default:
		return geometry.Point{X: geometry.Sign(p.Offset.X)}
	}
}
