// Package diagram contains the symbol model of a single-line diagram: typed network
// symbols joined by logical element references rather than by screen coordinates.
package diagram

import (
	"fmt"

	"sld/geometry"
)

// Kind discriminates the Symbol union.
type Kind string

// Symbol kinds. Line and Transformer are the branch variants.
const (
	KindBus         Kind = "bus"
	KindLine        Kind = "line"
	KindTransformer Kind = "transformer"
	KindSwitch      Kind = "switch"
	KindSource      Kind = "source"
	KindLoad        Kind = "load"
)

// Kinds lists every valid kind in a fixed order.
var Kinds = []Kind{KindBus, KindLine, KindTransformer, KindSwitch, KindSource, KindLoad}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown element type: %q", s)
}

// IsBranch is true for lines and transformers.
func (k Kind) IsBranch() bool {
	return k == KindLine || k == KindTransformer
}

// IsEdge is true for every kind that joins two buses.
func (k Kind) IsEdge() bool {
	return k.IsBranch() || k == KindSwitch
}

// IsPendant is true for kinds that hang off a single bus.
func (k Kind) IsPendant() bool {
	return k == KindSource || k == KindLoad
}

// Role names which reference field of a symbol an element id sits in.
type Role string

// Reference roles.
const (
	RoleFrom        Role = "from"
	RoleTo          Role = "to"
	RoleConnectedTo Role = "connectedTo"
)

// Ref is one topology reference held by a symbol.
type Ref struct {
	Role      Role
	ElementID string
}

// Symbol is a typed network symbol. The variant fields that apply depend on Kind:
// Bus uses Width, Height and VoltageKV; Line, Transformer and Switch use FromNodeID and
// ToNodeID; Source and Load use ConnectedToNodeID. References hold logical element ids.
type Symbol struct {
	ID        string         `json:"id" yaml:"id" validate:"required"`
	ElementID string         `json:"elementId" yaml:"elementId" validate:"required"`
	Kind      Kind           `json:"elementType" yaml:"elementType" validate:"required,oneof=bus line transformer switch source load"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Position  geometry.Point `json:"position" yaml:"position"`
	Rotation  int            `json:"rotation,omitempty" yaml:"rotation,omitempty" validate:"oneof=0 90 180 270"`
	InService bool           `json:"inService" yaml:"inService"`

	Width     int     `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height    int     `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	VoltageKV float64 `json:"voltageKV,omitempty" yaml:"voltageKV,omitempty" validate:"gte=0"`

	FromNodeID string `json:"fromNodeId,omitempty" yaml:"fromNodeId,omitempty"`
	ToNodeID   string `json:"toNodeId,omitempty" yaml:"toNodeId,omitempty"`

	ConnectedToNodeID string `json:"connectedToNodeId,omitempty" yaml:"connectedToNodeId,omitempty"`
}

// References returns the topology references of the symbol in a fixed role order.
// Empty references are included so callers can tell a cleared field apart.
func (s Symbol) References() []Ref {
	switch {
	case s.Kind.IsEdge():
		return []Ref{{Role: RoleFrom, ElementID: s.FromNodeID}, {Role: RoleTo, ElementID: s.ToNodeID}}
	case s.Kind.IsPendant():
		return []Ref{{Role: RoleConnectedTo, ElementID: s.ConnectedToNodeID}}
	}
	return nil
}

// SetReference writes id into the field named by role. Roles that do not apply to the
// symbol's kind are ignored.
func (s *Symbol) SetReference(role Role, id string) {
	switch {
	case s.Kind.IsEdge() && role == RoleFrom:
		s.FromNodeID = id
	case s.Kind.IsEdge() && role == RoleTo:
		s.ToNodeID = id
	case s.Kind.IsPendant() && role == RoleConnectedTo:
		s.ConnectedToNodeID = id
	}
}

// ClearReferences empties every reference field.
func (s *Symbol) ClearReferences() {
	s.FromNodeID = ""
	s.ToNodeID = ""
	s.ConnectedToNodeID = ""
}

// ConnectionType classifies a drawn connection by its endpoint kinds.
type ConnectionType string

// Connection types.
const (
	ConnectionBusToBus    ConnectionType = "bus-bus"
	ConnectionBusToDevice ConnectionType = "bus-device"
)

// Connection is a drawn wire between two symbol ports.
type Connection struct {
	ID           string           `json:"id" yaml:"id" validate:"required"`
	FromSymbolID string           `json:"fromSymbolId" yaml:"fromSymbolId" validate:"required"`
	FromPort     string           `json:"fromPort" yaml:"fromPort" validate:"required"`
	ToSymbolID   string           `json:"toSymbolId" yaml:"toSymbolId" validate:"required"`
	ToPort       string           `json:"toPort" yaml:"toPort" validate:"required"`
	Path         []geometry.Point `json:"path,omitempty" yaml:"path,omitempty"`
	ElementID    string           `json:"elementId,omitempty" yaml:"elementId,omitempty"`
	Type         ConnectionType   `json:"connectionType,omitempty" yaml:"connectionType,omitempty"`
}

// Diagram is a working symbol set plus its drawn connections.
type Diagram struct {
	Symbols     []Symbol     `json:"symbols" yaml:"symbols" validate:"dive"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty" validate:"dive"`
	Metadata    Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Metadata contains optional diagram metadata.
type Metadata struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Clone creates a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	clone := &Diagram{
		Symbols:     make([]Symbol, len(d.Symbols)),
		Connections: make([]Connection, len(d.Connections)),
		Metadata:    d.Metadata,
	}
	copy(clone.Symbols, d.Symbols)

	// Paths are the only reference-typed field.
	for i, conn := range d.Connections {
		clone.Connections[i] = conn
		if conn.Path != nil {
			clone.Connections[i].Path = append([]geometry.Point(nil), conn.Path...)
		}
	}

	return clone
}

// ApplyPositions returns a copy of symbols with positions taken from the map. Symbols
// missing from the map keep their current position.
func ApplyPositions(symbols []Symbol, positions map[string]geometry.Point) []Symbol {
	out := make([]Symbol, len(symbols))
	copy(out, symbols)
	for i := range out {
		if p, ok := positions[out[i].ID]; ok {
			out[i].Position = p
		}
	}
	return out
}
