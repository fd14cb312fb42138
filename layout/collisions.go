package layout

import (
	"sld/diagram"
	"sld/geometry"
	"sld/ports"
)

// resolveCollisions nudges overlapping symbols apart along Y for at most
// MaxCollisionPasses passes. Pairs are visited in symbol id order and the lower symbol
// of a pair moves down by the overlap rounded up to the grid. It returns the pairs
// that still overlap and the number of passes run.
func (e *Engine) resolveCollisions(symbols []diagram.Symbol, pos []geometry.Point) ([]Pair, int) {
	box := func(i int) geometry.Rect {
		s := symbols[i]
		s.Position = pos[i]
		return ports.Footprint(s)
	}

	passes := 0
	for passes < e.cfg.MaxCollisionPasses {
		passes++
		moved := false
		for i := range symbols {
			for j := i + 1; j < len(symbols); j++ {
				a, b := box(i), box(j)
				if !a.Overlaps(b) {
					continue
				}
				// Symbols are sorted by id, so on equal Y the later one moves.
				lower, upperBox, lowerBox := j, a, b
				if pos[i].Y > pos[j].Y {
					lower, upperBox, lowerBox = i, b, a
				}
				shift := e.grid.Ceil(upperBox.Max.Y - lowerBox.Min.Y)
				if shift <= 0 {
					shift = e.grid.Size()
				}
				pos[lower].Y += shift
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	var residual []Pair
	for i := range symbols {
		for j := i + 1; j < len(symbols); j++ {
			if box(i).Overlaps(box(j)) {
				residual = append(residual, Pair{A: symbols[i].ID, B: symbols[j].ID})
			}
		}
	}
	if len(residual) > 0 {
		e.logger.Debug("collisions left after resolution", "pairs", len(residual), "passes", passes)
	}
	return residual, passes
}
