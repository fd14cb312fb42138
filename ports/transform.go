package ports

import (
	"fmt"

	"sld/geometry"
)

// NormalizeRotation maps any multiple of 90 degrees into {0, 90, 180, 270}.
func NormalizeRotation(degrees int) (int, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("%w: %d degrees is not a quarter turn", ErrInvalidRotation, degrees)
	}
	r := degrees % 360
	if r < 0 {
		r += 360
	}
	return r, nil
}

func normalizeOrZero(degrees int) int {
	r, err := NormalizeRotation(degrees)
	if err != nil {
		return 0
	}
	return r
}

// rotate turns an offset clockwise on screen (Y down) around the local origin.
func rotate(off geometry.Point, degrees int) geometry.Point {
	switch degrees {
	case 90:
		return geometry.Point{X: -off.Y, Y: off.X}
	case 180:
		return geometry.Point{X: -off.X, Y: -off.Y}
	case 270:
		return geometry.Point{X: off.Y, Y: -off.X}
	default:
		return off
	}
}

// TransformOffset rotates a local offset by a quarter-turn multiple.
func TransformOffset(off geometry.Point, degrees int) (geometry.Point, error) {
	r, err := NormalizeRotation(degrees)
	if err != nil {
		return geometry.Point{}, err
	}
	return rotate(off, r), nil
}

// TransformPort rotates a port around its symbol centre. The port keeps its name;
// only its offset and absolute position change. Rotating by 0 is the identity.
func TransformPort(p Port, degrees int) (Port, error) {
	off, err := TransformOffset(p.Offset, degrees)
	if err != nil {
		return Port{}, err
	}
	center := p.Position.Sub(p.Offset)
	p.Offset = off
	p.Position = center.Add(off)
	return p, nil
}
