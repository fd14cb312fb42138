package export

import (
	"sort"

	"sld/diagram"
	"sld/geometry"
	"sld/layout"
	"sld/pathfinding"
	"sld/validation"
)

// PlacedSymbol is a symbol with its computed position.
type PlacedSymbol struct {
	ID        string         `json:"id" yaml:"id"`
	ElementID string         `json:"elementId" yaml:"elementId"`
	Kind      diagram.Kind   `json:"elementType" yaml:"elementType"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Position  geometry.Point `json:"position" yaml:"position"`
	Depth     *int           `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// RoutedConnection is a connection with its routed path.
type RoutedConnection struct {
	ID       string           `json:"id" yaml:"id"`
	From     string           `json:"from" yaml:"from"`
	To       string           `json:"to" yaml:"to"`
	Path     []geometry.Point `json:"path" yaml:"path"`
	Bends    int              `json:"bends" yaml:"bends"`
	Length   int              `json:"length" yaml:"length"`
	Fallback bool             `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Report is the outcome of laying out and routing one diagram.
type Report struct {
	Name        string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Symbols     []PlacedSymbol         `json:"symbols" yaml:"symbols"`
	Connections []RoutedConnection     `json:"connections,omitempty" yaml:"connections,omitempty"`
	Collisions  layout.CollisionReport `json:"collisionReport" yaml:"collisionReport"`
	Quarantined []string               `json:"quarantinedSymbolIds,omitempty" yaml:"quarantinedSymbolIds,omitempty"`
	Issues      []validation.Issue     `json:"issues,omitempty" yaml:"issues,omitempty"`

	// Drawing is the rasterised diagram, used only by the text format.
	Drawing string `json:"-" yaml:"-"`
}

// BuildReport collects symbols and connections in id order. Connections without a
// routed path are left out.
func BuildReport(d *diagram.Diagram, result layout.Result, paths map[string]pathfinding.Path, issues []validation.Issue) *Report {
	r := &Report{
		Name:        d.Metadata.Name,
		Collisions:  result.Collisions,
		Quarantined: result.Diagnostics.QuarantinedSymbolIDs,
		Issues:      issues,
	}

	for _, s := range diagram.SortedByID(d.Symbols) {
		placed := PlacedSymbol{
			ID:        s.ID,
			ElementID: s.ElementID,
			Kind:      s.Kind,
			Name:      s.Name,
			Position:  s.Position,
		}
		if p, ok := result.Positions[s.ID]; ok {
			placed.Position = p
		}
		if depth, ok := result.Diagnostics.Depths[s.ID]; ok {
			placed.Depth = &depth
		}
		r.Symbols = append(r.Symbols, placed)
	}

	conns := append([]diagram.Connection(nil), d.Connections...)
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	for _, c := range conns {
		path, ok := paths[c.ID]
		if !ok {
			continue
		}
		r.Connections = append(r.Connections, RoutedConnection{
			ID:       c.ID,
			From:     c.FromSymbolID + "." + c.FromPort,
			To:       c.ToSymbolID + "." + c.ToPort,
			Path:     path.Points,
			Bends:    path.Bends,
			Length:   path.Length(),
			Fallback: path.Fallback,
		})
	}
	return r
}
