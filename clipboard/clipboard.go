// Package clipboard copies a selection of symbols into a snapshot decoupled from the
// working set and pastes it back with freshly minted, deterministic identifiers.
package clipboard

import (
	"sort"

	"sld/diagram"
	"sld/geometry"
	"sld/ident"
)

// Link is a topology reference between two copied symbols, keyed by their original
// element ids.
type Link struct {
	FromElementID string       `json:"fromElementId"`
	Role          diagram.Role `json:"role"`
	ToElementID   string       `json:"toElementId"`
}

// Snapshot is the clipboard content. Symbols are sorted by symbol id so a paste does
// not depend on selection order.
type Snapshot struct {
	Symbols             []diagram.Symbol `json:"symbols"`
	InternalConnections []Link           `json:"internalConnections"`
	ReferencePoint      geometry.Point   `json:"referencePoint"`
}

// Empty reports whether the snapshot holds nothing to paste.
func (s Snapshot) Empty() bool {
	return len(s.Symbols) == 0
}

// Copy snapshots selection. References to elements outside the selection are not
// recorded and come back empty on paste.
func Copy(selection []diagram.Symbol) Snapshot {
	if len(selection) == 0 {
		return Snapshot{}
	}

	symbols := diagram.SortedByID(selection)
	inSelection := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if s.ElementID != "" {
			inSelection[s.ElementID] = true
		}
	}

	ref := symbols[0].Position
	var links []Link
	for _, s := range symbols {
		ref.X = min(ref.X, s.Position.X)
		ref.Y = min(ref.Y, s.Position.Y)
		if s.ElementID == "" {
			continue
		}
		for _, r := range s.References() {
			if r.ElementID != "" && inSelection[r.ElementID] {
				links = append(links, Link{FromElementID: s.ElementID, Role: r.Role, ToElementID: r.ElementID})
			}
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].FromElementID != links[j].FromElementID {
			return links[i].FromElementID < links[j].FromElementID
		}
		return links[i].Role < links[j].Role
	})

	return Snapshot{Symbols: symbols, InternalConnections: links, ReferencePoint: ref}
}

// Paste mints new ids for every snapshot symbol through ctx (one paste generation),
// rewrites internal references to the new element ids, clears external ones and
// shifts positions by offset. The snapshot is not modified.
func Paste(ctx *ident.Context, snap Snapshot, existingIDs []string, offset geometry.Point) []diagram.Symbol {
	if snap.Empty() {
		return nil
	}

	kinds := make([]diagram.Kind, len(snap.Symbols))
	for i, s := range snap.Symbols {
		kinds[i] = s.Kind
	}
	ids := ctx.GeneratePasteIdentifiers(kinds, existingIDs)

	renamed := make(map[string]string, len(snap.Symbols))
	for i, s := range snap.Symbols {
		if s.ElementID != "" {
			renamed[s.ElementID] = ids[i].ElementID
		}
	}

	pasted := make([]diagram.Symbol, len(snap.Symbols))
	byOldElement := make(map[string]int, len(snap.Symbols))
	for i, s := range snap.Symbols {
		s.ID = ids[i].SymbolID
		byOldElement[s.ElementID] = i
		s.ElementID = ids[i].ElementID
		s.Position = s.Position.Add(offset)
		s.ClearReferences()
		pasted[i] = s
	}

	for _, l := range snap.InternalConnections {
		i, ok := byOldElement[l.FromElementID]
		target, resolved := renamed[l.ToElementID]
		if ok && resolved {
			pasted[i].SetReference(l.Role, target)
		}
	}
	return pasted
}

// PasteAt pastes so that the snapshot's reference point lands on target.
func PasteAt(ctx *ident.Context, snap Snapshot, existingIDs []string, target geometry.Point) []diagram.Symbol {
	return Paste(ctx, snap, existingIDs, target.Sub(snap.ReferencePoint))
}

// Duplicate copies and pastes selection in one operation.
func Duplicate(ctx *ident.Context, selection []diagram.Symbol, existingIDs []string, offset geometry.Point) []diagram.Symbol {
	return Paste(ctx, Copy(selection), existingIDs, offset)
}
