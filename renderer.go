package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-hclog"

	"sld/canvas"
	"sld/config"
	"sld/connections"
	"sld/diagram"
	"sld/export"
	"sld/geometry"
	"sld/layout"
	"sld/pathfinding"
	"sld/validation"
)

// Renderer runs the pipeline: layout, connection routing, diagnostics and drawing.
type Renderer struct {
	layout     *layout.Engine
	router     *connections.Router
	canvas     canvas.Options
	grid       geometry.Grid
	snapRadius int
	logger     hclog.Logger
}

// Output holds everything one Render call produced.
type Output struct {
	Diagram *diagram.Diagram // positions and paths applied
	Result  layout.Result
	Paths   map[string]pathfinding.Path
	Issues  []validation.Issue
	Matrix  *canvas.Matrix
}

// NewRenderer builds the engines from cfg.
func NewRenderer(cfg config.Config, logger hclog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	engine, err := layout.New(cfg.LayoutConfig())
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logger.Named("layout"))

	paths, err := pathfinding.NewRouter(cfg.RoutingConfig())
	if err != nil {
		return nil, err
	}
	paths.SetLogger(logger.Named("routing"))

	router := connections.NewRouter(paths)
	router.SetLogger(logger.Named("connections"))

	grid, err := geometry.NewGrid(cfg.Layout.GridSize)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		layout:     engine,
		router:     router,
		canvas:     canvas.DefaultOptions(),
		grid:       grid,
		snapRadius: cfg.Snap.Radius,
		logger:     logger,
	}, nil
}

// Render lays out and routes d without modifying it.
func (r *Renderer) Render(d *diagram.Diagram) (*Output, error) {
	result, err := r.layout.ComputeLayout(d.Symbols)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	placed := d.Clone()
	placed.Symbols = diagram.ApplyPositions(placed.Symbols, result.Positions)
	return r.finish(placed, result)
}

// Move drops one symbol of a rendered diagram at to, the way a drag ends in the
// editor: onto a port of another symbol within the snap radius, otherwise onto the
// grid. Connections are routed again around the new position.
func (r *Renderer) Move(out *Output, symbolID string, to geometry.Point) (*Output, error) {
	placed := out.Diagram.Clone()
	i := slices.IndexFunc(placed.Symbols, func(s diagram.Symbol) bool { return s.ID == symbolID })
	if i < 0 {
		return nil, fmt.Errorf("move: %w: %q", connections.ErrUnknownSymbol, symbolID)
	}

	pos := connections.SnapOrGrid(placed.Symbols[i], to, placed.Symbols, r.snapRadius, r.grid)
	placed.Symbols[i].Position = pos
	r.logger.Debug("moved symbol", "symbol", symbolID, "requested", to, "position", pos)

	result := out.Result
	result.Positions = maps.Clone(out.Result.Positions)
	result.Positions[symbolID] = pos
	return r.finish(placed, result)
}

// finish routes, checks and draws a placed diagram.
func (r *Renderer) finish(placed *diagram.Diagram, result layout.Result) (*Output, error) {
	paths, err := r.router.RouteAll(placed.Connections, placed.Symbols)
	if err != nil {
		return nil, fmt.Errorf("routing: %w", err)
	}
	placed.Connections = connections.ApplyPaths(placed.Connections, paths)

	issues := validation.Diagnose(placed.Symbols, result, paths)

	matrix, err := canvas.Render(canvas.Scene{
		Symbols:     placed.Symbols,
		Paths:       paths,
		Quarantined: result.Diagnostics.QuarantinedSymbolIDs,
	}, r.canvas)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}

	r.logger.Debug("rendered diagram",
		"symbols", len(placed.Symbols),
		"connections", len(paths),
		"issues", len(issues))

	return &Output{
		Diagram: placed,
		Result:  result,
		Paths:   paths,
		Issues:  issues,
		Matrix:  matrix,
	}, nil
}

// Report converts the output for an exporter.
func (o *Output) Report() *export.Report {
	r := export.BuildReport(o.Diagram, o.Result, o.Paths, o.Issues)
	r.Drawing = o.Matrix.String()
	return r
}
