// Package connections resolves ports under the cursor, creates validated connections
// and routes them through the pathfinding router.
package connections

import (
	"sld/diagram"
	"sld/geometry"
	"sld/ports"
	"sld/validation"
)

// SnapResult is a port snap found while dragging a symbol.
type SnapResult struct {
	Position    geometry.Point `json:"position"`    // new centre of the dragged symbol
	SnappedPort ports.Port     `json:"snappedPort"` // port of the dragged symbol, at Position
	TargetPort  ports.Port     `json:"targetPort"`
}

func distanceSq(a, b geometry.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// better reports whether candidate c at squared distance d beats the current best.
// Ties go to the smaller symbol id, then to the higher priority port.
func better(c ports.Port, d int, best ports.Port, bestD int, found bool) bool {
	switch {
	case !found || d < bestD:
		return true
	case d > bestD:
		return false
	case c.SymbolID != best.SymbolID:
		return c.SymbolID < best.SymbolID
	}
	return c.Name.Priority() < best.Name.Priority()
}

// FindNearestPort returns the port closest to point within radius, ignoring the
// symbols in exclude. The result does not depend on the order of symbols.
func FindNearestPort(point geometry.Point, symbols []diagram.Symbol, exclude []string, radius int) (ports.Port, bool) {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	var best ports.Port
	bestD, found := 0, false
	limit := radius * radius
	for _, s := range symbols {
		if skip[s.ID] {
			continue
		}
		for _, p := range ports.GetPorts(s) {
			d := distanceSq(point, p.Position)
			if d > limit {
				continue
			}
			if better(p, d, best, bestD, found) {
				best, bestD, found = p, d, true
			}
		}
	}
	return best, found
}

// CalculateSnapPosition looks for a port of another symbol within radius of any port
// of dragged placed at proposed. Only pairs that would form a valid connection count.
// The closest pair wins, ties go to the dragged port order and then to the
// FindNearestPort order. The returned position moves dragged so the two ports meet.
func CalculateSnapPosition(dragged diagram.Symbol, proposed geometry.Point, symbols []diagram.Symbol, radius int) (SnapResult, bool) {
	moved := dragged
	moved.Position = proposed

	var result SnapResult
	bestD, found := 0, false
	limit := radius * radius
	for _, own := range ports.GetPorts(moved) {
		var target ports.Port
		targetD, ok := 0, false
		for _, s := range symbols {
			if s.ID == dragged.ID {
				continue
			}
			for _, p := range ports.GetPorts(s) {
				d := distanceSq(own.Position, p.Position)
				if d > limit || !validation.ValidateConnection(own, p, nil).Valid {
					continue
				}
				if better(p, d, target, targetD, ok) {
					target, targetD, ok = p, d, true
				}
			}
		}
		if !ok || (found && targetD >= bestD) {
			continue
		}

		shift := target.Position.Sub(own.Position)
		snapped := own
		snapped.Position = target.Position
		result = SnapResult{Position: proposed.Add(shift), SnappedPort: snapped, TargetPort: target}
		bestD, found = targetD, true
	}
	return result, found
}

// SnapOrGrid returns the port snap position when one is in range and the grid
// snapped proposal otherwise.
func SnapOrGrid(dragged diagram.Symbol, proposed geometry.Point, symbols []diagram.Symbol, radius int, grid geometry.Grid) geometry.Point {
	if snap, ok := CalculateSnapPosition(dragged, proposed, symbols, radius); ok {
		return snap.Position
	}
	return grid.SnapPoint(proposed)
}
