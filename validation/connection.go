package validation

import (
	"sld/diagram"
	"sld/ports"
)

// Rejection messages returned by ValidateConnection.
const (
	MsgSelfConnection = "cannot connect an element to itself"
	MsgDuplicate      = "these symbols are already connected"
	MsgNoBus          = "a connection needs at least one bus endpoint"
)

// Result is the outcome of a connection check.
type Result struct {
	Valid        bool   `json:"valid"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func reject(msg string) Result {
	return Result{Valid: false, ErrorMessage: msg}
}

// ValidateConnection checks whether a wire from a to b may be drawn. It rejects
// connecting an element to itself, a second connection between the same two symbols
// in either direction, and a connection with no bus at either end.
func ValidateConnection(a, b ports.Port, existing []diagram.Connection) Result {
	if a.SymbolID == b.SymbolID || (a.ElementID != "" && a.ElementID == b.ElementID) {
		return reject(MsgSelfConnection)
	}
	for _, c := range existing {
		if (c.FromSymbolID == a.SymbolID && c.ToSymbolID == b.SymbolID) ||
			(c.FromSymbolID == b.SymbolID && c.ToSymbolID == a.SymbolID) {
			return reject(MsgDuplicate)
		}
	}
	if a.ElementType != diagram.KindBus && b.ElementType != diagram.KindBus {
		return reject(MsgNoBus)
	}
	return Result{Valid: true}
}

// ConnectionType classifies a valid connection by its endpoint kinds.
func ConnectionType(a, b ports.Port) diagram.ConnectionType {
	if a.ElementType == diagram.KindBus && b.ElementType == diagram.KindBus {
		return diagram.ConnectionBusToBus
	}
	return diagram.ConnectionBusToDevice
}
