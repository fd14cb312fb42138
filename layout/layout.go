// Package layout computes deterministic, grid-snapped positions for a single-line
// diagram from the logical references between its symbols.
//
// Buses become the nodes of a hierarchy graph and branches and switches its edges.
// Sources and loads hang off their bus as pendant bays. Depth is the hop distance
// from the buses that carry a Source, X comes from an in-order walk of the spanning
// tree, and a bounded collision pass nudges overlapping footprints apart. Symbols
// with nothing to attach to are quarantined below the main drawing rather than
// dropped.
package layout

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"sld/diagram"
	"sld/geometry"
)

// ErrInvalidConfig is returned by New for unusable spacing or grid settings.
var ErrInvalidConfig = errors.New("invalid layout config")

// Config holds the layout constants. All distances are canvas units.
type Config struct {
	GridSize           int
	VerticalSpacing    int // distance between rows
	HorizontalSpacing  int // gap between neighbouring bays and root trees
	TransformerSpacing int // distance between parallel branches in one bay
	CouplerGap         int // gap between two sections of one busbar
	MaxCollisionPasses int
}

// DefaultConfig returns the constants used by the editor.
func DefaultConfig() Config {
	return Config{
		GridSize:           20,
		VerticalSpacing:    100,
		HorizontalSpacing:  120,
		TransformerSpacing: 80,
		CouplerGap:         60,
		MaxCollisionPasses: 20,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if _, err := geometry.NewGrid(c.GridSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.VerticalSpacing <= 0:
		return fmt.Errorf("%w: vertical spacing must be positive, got %d", ErrInvalidConfig, c.VerticalSpacing)
	case c.HorizontalSpacing < 0:
		return fmt.Errorf("%w: horizontal spacing must not be negative, got %d", ErrInvalidConfig, c.HorizontalSpacing)
	case c.TransformerSpacing <= 0:
		return fmt.Errorf("%w: transformer spacing must be positive, got %d", ErrInvalidConfig, c.TransformerSpacing)
	case c.CouplerGap < 0:
		return fmt.Errorf("%w: coupler gap must not be negative, got %d", ErrInvalidConfig, c.CouplerGap)
	case c.MaxCollisionPasses < 0:
		return fmt.Errorf("%w: collision passes must not be negative, got %d", ErrInvalidConfig, c.MaxCollisionPasses)
	}
	return nil
}

// Pair is two symbols whose footprints still overlap. A < B.
type Pair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// CollisionReport lists the overlaps left after collision resolution.
type CollisionReport struct {
	HasCollisions bool   `json:"hasCollisions" yaml:"hasCollisions"`
	Pairs         []Pair `json:"pairs" yaml:"pairs"`
}

// ExternalRef is a reference to an element id that is not in the working set.
type ExternalRef struct {
	SymbolID  string       `json:"symbolId" yaml:"symbolId"`
	Role      diagram.Role `json:"role" yaml:"role"`
	ElementID string       `json:"elementId" yaml:"elementId"`
}

// Diagnostics describes the parts of the input the layout could not place normally.
type Diagnostics struct {
	QuarantinedSymbolIDs []string       `json:"quarantinedSymbolIds" yaml:"quarantinedSymbolIds"`
	ExternalReferences   []ExternalRef  `json:"externalReferences" yaml:"externalReferences"`
	Depths               map[string]int `json:"depths" yaml:"depths"` // bus symbol id to hierarchy depth
}

// Result is produced fresh by every ComputeLayout call.
type Result struct {
	Positions   map[string]geometry.Point `json:"positions" yaml:"positions"`
	Collisions  CollisionReport           `json:"collisionReport" yaml:"collisionReport"`
	Diagnostics Diagnostics               `json:"diagnostics" yaml:"diagnostics"`
}

// Engine runs layouts with a fixed config. It holds no state between calls and may be
// shared by goroutines working on independent symbol sets.
type Engine struct {
	cfg    Config
	grid   geometry.Grid
	logger hclog.Logger
}

// New validates cfg and returns an engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, _ := geometry.NewGrid(cfg.GridSize)
	return &Engine{cfg: cfg, grid: grid, logger: hclog.NewNullLogger()}, nil
}

// SetLogger sets the logger used for debug output.
func (e *Engine) SetLogger(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	e.logger = logger
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ComputeLayout lays out symbols with the default config.
func ComputeLayout(symbols []diagram.Symbol) (Result, error) {
	e, err := New(DefaultConfig())
	if err != nil {
		return Result{}, err
	}
	return e.ComputeLayout(symbols)
}

// ComputeLayout positions every symbol. The input order does not matter and the input
// is not modified. Dangling references, disconnected parts and an empty input are
// reported through the result; only duplicate ids are errors.
func (e *Engine) ComputeLayout(symbols []diagram.Symbol) (Result, error) {
	if err := diagram.CheckUniqueIDs(symbols); err != nil {
		return Result{}, fmt.Errorf("compute layout: %w", err)
	}

	result := Result{
		Positions: make(map[string]geometry.Point, len(symbols)),
		Diagnostics: Diagnostics{
			QuarantinedSymbolIDs: []string{},
			ExternalReferences:   []ExternalRef{},
			Depths:               map[string]int{},
		},
		Collisions: CollisionReport{Pairs: []Pair{}},
	}
	if len(symbols) == 0 {
		return result, nil
	}

	t := buildTopology(symbols)
	t.assignDepths()

	p := newPlacer(e.cfg, e.grid, t)
	p.placeRoots()
	p.placeCrossLinks()
	quarantined := p.placeQuarantine()

	for i := range p.pos {
		p.pos[i] = e.grid.SnapPoint(p.pos[i])
	}
	pairs, passes := e.resolveCollisions(t.symbols, p.pos)

	for i, s := range t.symbols {
		result.Positions[s.ID] = p.pos[i]
	}
	for _, i := range quarantined {
		result.Diagnostics.QuarantinedSymbolIDs = append(result.Diagnostics.QuarantinedSymbolIDs, t.symbols[i].ID)
	}
	result.Diagnostics.ExternalReferences = append(result.Diagnostics.ExternalReferences, t.external...)
	for gi, g := range t.groups {
		if g.isolated {
			continue
		}
		for _, b := range g.sections {
			result.Diagnostics.Depths[t.symbols[b].ID] = t.groups[gi].depth
		}
	}
	result.Collisions.Pairs = append(result.Collisions.Pairs, pairs...)
	result.Collisions.HasCollisions = len(pairs) > 0

	e.logger.Debug("layout computed",
		"symbols", len(symbols),
		"groups", len(t.groups),
		"quarantined", len(quarantined),
		"external_refs", len(t.external),
		"collision_passes", passes,
		"residual_collisions", len(pairs))
	return result, nil
}
