package layout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sld/diagram"
	"sld/geometry"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestComputeLayoutEmpty(t *testing.T) {
	result, err := newTestEngine(t).ComputeLayout(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Positions)
	assert.False(t, result.Collisions.HasCollisions)
	assert.Empty(t, result.Diagnostics.QuarantinedSymbolIDs)
}

func TestComputeLayoutRejectsDuplicateIDs(t *testing.T) {
	symbols := []diagram.Symbol{bus("a", 10), bus("a", 10)}
	_, err := newTestEngine(t).ComputeLayout(symbols)
	assert.True(t, errors.Is(err, diagram.ErrDuplicateSymbolID), "got %v", err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero grid", func(c *Config) { c.GridSize = 0 }},
		{"negative grid", func(c *Config) { c.GridSize = -20 }},
		{"zero vertical spacing", func(c *Config) { c.VerticalSpacing = 0 }},
		{"negative passes", func(c *Config) { c.MaxCollisionPasses = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}

	cfg := DefaultConfig()
	cfg.GridSize = -1
	_, err := New(cfg)
	assert.True(t, errors.Is(err, geometry.ErrInvalidGridSize))
}

func TestHierarchyChain(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"recorded downstream", "bus1", "bus2"},
		{"recorded upstream", "bus2", "bus1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbols := []diagram.Symbol{
				bus("bus2", 15),
				branch(diagram.KindTransformer, "tr", tt.from, tt.to),
				attach(diagram.KindSource, "src", "bus1"),
				bus("bus1", 110),
			}
			result, err := newTestEngine(t).ComputeLayout(symbols)
			require.NoError(t, err)

			p := result.Positions
			assert.Less(t, p["sym-src"].Y, p["sym-bus1"].Y)
			assert.Less(t, p["sym-bus1"].Y, p["sym-tr"].Y)
			assert.Less(t, p["sym-tr"].Y, p["sym-bus2"].Y)
			assert.Equal(t, map[string]int{"sym-bus1": 0, "sym-bus2": 1}, result.Diagnostics.Depths)
			assert.Empty(t, result.Diagnostics.QuarantinedSymbolIDs)
			NewTestValidator(t).ValidateNoOverlaps(symbols, result)
		})
	}
}

func TestSwitchBetweenEqualVoltageBuses(t *testing.T) {
	t.Run("feeder hangs below its bus", func(t *testing.T) {
		symbols := []diagram.Symbol{
			namedBus("main", "Main", 15),
			namedBus("feeder", "Feeder", 15),
			attach(diagram.KindSource, "src", "main"),
			branch(diagram.KindSwitch, "q1", "main", "feeder"),
			attach(diagram.KindLoad, "load", "feeder"),
		}
		result, err := newTestEngine(t).ComputeLayout(symbols)
		require.NoError(t, err)

		p := result.Positions
		assert.Equal(t, map[string]int{"sym-main": 0, "sym-feeder": 1}, result.Diagnostics.Depths)
		assert.Less(t, p["sym-src"].Y, p["sym-main"].Y)
		assert.Less(t, p["sym-main"].Y, p["sym-q1"].Y)
		assert.Less(t, p["sym-q1"].Y, p["sym-feeder"].Y)
		assert.Less(t, p["sym-feeder"].Y, p["sym-load"].Y)
		NewTestValidator(t).ValidateNoOverlaps(symbols, result)
	})

	t.Run("doubly fed halves couple", func(t *testing.T) {
		symbols := []diagram.Symbol{
			attach(diagram.KindSource, "grid", "hv"),
			bus("hv", 110),
			namedBus("a", "North", 15),
			namedBus("b", "South", 15),
			branch(diagram.KindTransformer, "t1", "hv", "a"),
			branch(diagram.KindTransformer, "t2", "hv", "b"),
			branch(diagram.KindSwitch, "q", "a", "b"),
		}
		result, err := newTestEngine(t).ComputeLayout(symbols)
		require.NoError(t, err)

		p := result.Positions
		assert.Equal(t, map[string]int{"sym-hv": 0, "sym-a": 1, "sym-b": 1}, result.Diagnostics.Depths)
		assert.Equal(t, p["sym-a"].Y, p["sym-b"].Y)
		assert.Equal(t, p["sym-a"].Y, p["sym-q"].Y)
		assert.Less(t, p["sym-a"].X, p["sym-q"].X)
		assert.Less(t, p["sym-q"].X, p["sym-b"].X)
	})
}

func TestParallelTransformersShareRowAroundSpine(t *testing.T) {
	symbols := []diagram.Symbol{
		bus("bus-wn", 110),
		bus("bus-sn", 15),
		branch(diagram.KindTransformer, "t1", "bus-wn", "bus-sn"),
		branch(diagram.KindTransformer, "t2", "bus-wn", "bus-sn"),
	}
	e := newTestEngine(t)
	result, err := e.ComputeLayout(symbols)
	require.NoError(t, err)

	p := result.Positions
	wn, t1, t2 := p["sym-bus-wn"], p["sym-t1"], p["sym-t2"]

	assert.Equal(t, 0, result.Diagnostics.Depths["sym-bus-wn"])
	assert.Equal(t, 1, result.Diagnostics.Depths["sym-bus-sn"])
	assert.Equal(t, t1.Y, t2.Y)
	assert.Equal(t, wn.X-t1.X, t2.X-wn.X, "transformers symmetric about the upstream bus")
	assert.GreaterOrEqual(t, t2.X-t1.X, e.Config().TransformerSpacing)

	assert.Equal(t, geometry.Point{X: 60, Y: 100}, wn)
	assert.Equal(t, geometry.Point{X: 20, Y: 200}, t1)
	assert.Equal(t, geometry.Point{X: 100, Y: 200}, t2)
	assert.Equal(t, geometry.Point{X: 60, Y: 300}, p["sym-bus-sn"])
	assert.False(t, result.Collisions.HasCollisions)
}

func TestSingleTransformerCentresOnSpine(t *testing.T) {
	symbols := []diagram.Symbol{
		bus("hv", 110),
		bus("mv", 15),
		branch(diagram.KindTransformer, "t1", "hv", "mv"),
	}
	result, err := newTestEngine(t).ComputeLayout(symbols)
	require.NoError(t, err)

	p := result.Positions
	assert.Equal(t, p["sym-hv"].X, p["sym-t1"].X)
	assert.Equal(t, p["sym-hv"].X, p["sym-mv"].X)
}

func TestSectionedBusbarSplitsBaysFrontLoaded(t *testing.T) {
	symbols := []diagram.Symbol{
		namedBus("left", "MV S1", 20),
		namedBus("right", "MV S2", 20),
		branch(diagram.KindSwitch, "coupler", "left", "right"),
	}
	for _, id := range []string{"l1", "l2", "l3", "l4", "l5"} {
		symbols = append(symbols, attach(diagram.KindLoad, id, "left"))
	}

	result, err := newTestEngine(t).ComputeLayout(symbols)
	require.NoError(t, err)
	p := result.Positions

	assert.Equal(t, geometry.Point{X: 180, Y: 100}, p["sym-left"])
	assert.Equal(t, geometry.Point{X: 520, Y: 100}, p["sym-right"])
	assert.Equal(t, geometry.Point{X: 400, Y: 100}, p["sym-coupler"])

	wantX := map[string]int{"sym-l1": 20, "sym-l2": 180, "sym-l3": 340, "sym-l4": 440, "sym-l5": 600}
	for id, x := range wantX {
		assert.Equal(t, geometry.Point{X: x, Y: 200}, p[id], id)
	}

	coupler := p["sym-coupler"].X
	assert.Less(t, p["sym-l3"].X, coupler)
	assert.Greater(t, p["sym-l4"].X, coupler)
	assert.Equal(t, 0, result.Diagnostics.Depths["sym-right"])
	assert.False(t, result.Collisions.HasCollisions)
}

func TestSectionNameFallback(t *testing.T) {
	t.Run("same base and voltage join", func(t *testing.T) {
		symbols := []diagram.Symbol{
			namedBus("a", "MV S1", 20),
			namedBus("b", "mv s2", 20),
			attach(diagram.KindLoad, "load", "a"),
		}
		result, err := newTestEngine(t).ComputeLayout(symbols)
		require.NoError(t, err)

		p := result.Positions
		assert.Equal(t, p["sym-a"].Y, p["sym-b"].Y)
		assert.Greater(t, p["sym-b"].X, p["sym-a"].X)
		assert.Empty(t, result.Diagnostics.QuarantinedSymbolIDs)
	})

	t.Run("different voltage stays apart", func(t *testing.T) {
		symbols := []diagram.Symbol{
			namedBus("a", "MV S1", 20),
			namedBus("b", "MV S2", 15),
			attach(diagram.KindLoad, "load", "a"),
		}
		result, err := newTestEngine(t).ComputeLayout(symbols)
		require.NoError(t, err)
		assert.Equal(t, []string{"sym-b"}, result.Diagnostics.QuarantinedSymbolIDs)
	})
}

func TestParseSectionName(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		number int
		ok     bool
	}{
		{"MV S1", "mv", 1, true},
		{"SN_SEC 2", "sn", 2, true},
		{"RG-SEKCJA3", "rg", 3, true},
		{"Main busbar section 12", "main busbar", 12, true},
		{"S1", "", 0, false},
		{"MV1", "", 0, false},
		{"MV S", "", 0, false},
		{"MVS1", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, n, ok := parseSectionName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.number, n)
		})
	}
}

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		n, k int
		want []int
	}{
		{5, 2, []int{3, 2}},
		{7, 3, []int{3, 2, 2}},
		{6, 3, []int{2, 2, 2}},
		{1, 3, []int{1, 0, 0}},
		{0, 2, []int{0, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitEvenly(tt.n, tt.k), "n=%d k=%d", tt.n, tt.k)
	}
}

func TestQuarantine(t *testing.T) {
	symbols := []diagram.Symbol{
		attach(diagram.KindSource, "src", "main"),
		bus("main", 20),
		attach(diagram.KindLoad, "orphan", "missing"),
		branch(diagram.KindLine, "floating", "x", "y"),
		bus("island", 20),
	}
	result, err := newTestEngine(t).ComputeLayout(symbols)
	require.NoError(t, err)

	assert.Equal(t, []string{"sym-floating", "sym-island", "sym-orphan"}, result.Diagnostics.QuarantinedSymbolIDs)
	assert.Equal(t, []ExternalRef{
		{SymbolID: "sym-floating", Role: diagram.RoleFrom, ElementID: "x"},
		{SymbolID: "sym-floating", Role: diagram.RoleTo, ElementID: "y"},
		{SymbolID: "sym-orphan", Role: diagram.RoleConnectedTo, ElementID: "missing"},
	}, result.Diagnostics.ExternalReferences)

	mainBottom := result.Positions["sym-main"].Y
	for _, id := range result.Diagnostics.QuarantinedSymbolIDs {
		p, ok := result.Positions[id]
		require.True(t, ok, id)
		assert.Greater(t, p.Y, mainBottom, id)
	}
	assert.NotContains(t, result.Diagnostics.Depths, "sym-island")

	v := NewTestValidator(t)
	v.ValidateAllPlaced(symbols, result)
	v.ValidateGrid(result, 20)
	v.ValidateNoOverlaps(symbols, result)
}

func TestHalfResolvedBranchHangsOffItsBus(t *testing.T) {
	symbols := []diagram.Symbol{
		bus("main", 20),
		branch(diagram.KindLine, "feeder", "main", "elsewhere"),
	}
	result, err := newTestEngine(t).ComputeLayout(symbols)
	require.NoError(t, err)

	assert.Empty(t, result.Diagnostics.QuarantinedSymbolIDs)
	assert.Greater(t, result.Positions["sym-feeder"].Y, result.Positions["sym-main"].Y)
	assert.Len(t, result.Diagnostics.ExternalReferences, 1)
}

func TestCycleIsBroken(t *testing.T) {
	symbols := []diagram.Symbol{
		attach(diagram.KindSource, "src", "a"),
		bus("a", 30),
		bus("b", 20),
		bus("c", 10),
		branch(diagram.KindLine, "ab", "a", "b"),
		branch(diagram.KindLine, "bc", "b", "c"),
		branch(diagram.KindLine, "ca", "c", "a"),
	}
	result, err := newTestEngine(t).ComputeLayout(symbols)
	require.NoError(t, err)

	assert.Empty(t, result.Diagnostics.QuarantinedSymbolIDs)
	assert.Equal(t, map[string]int{"sym-a": 0, "sym-b": 1, "sym-c": 1}, result.Diagnostics.Depths)
	NewTestValidator(t).ValidateAllPlaced(symbols, result)
}

func TestDeterminismAndPermutationInvariance(t *testing.T) {
	e := newTestEngine(t)
	v := NewTestValidator(t)

	for _, feeders := range []int{1, 2, 4} {
		symbols := GenerateRadialNetwork(feeders, 3)
		v.ValidateDeterminism(e, symbols, 3)
		v.ValidatePermutationInvariance(e, symbols, 5)

		result, err := e.ComputeLayout(symbols)
		require.NoError(t, err)
		v.ValidateAllPlaced(symbols, result)
		v.ValidateGrid(result, e.Config().GridSize)
	}
}

func TestPositionsStayOnGridWithOddSpacing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 25
	cfg.HorizontalSpacing = 70
	cfg.TransformerSpacing = 55
	cfg.CouplerGap = 35
	e, err := New(cfg)
	require.NoError(t, err)

	result, err := e.ComputeLayout(GenerateRadialNetwork(3, 5))
	require.NoError(t, err)
	NewTestValidator(t).ValidateGrid(result, 25)
}

func TestResolveCollisions(t *testing.T) {
	symbols := []diagram.Symbol{
		attach(diagram.KindLoad, "a", "x"),
		attach(diagram.KindLoad, "b", "x"),
	}

	t.Run("lower id stays", func(t *testing.T) {
		pos := []geometry.Point{{}, {}}
		pairs, passes := newTestEngine(t).resolveCollisions(symbols, pos)
		assert.Empty(t, pairs)
		assert.Equal(t, 2, passes)
		assert.Equal(t, geometry.Point{}, pos[0])
		assert.Equal(t, geometry.Point{Y: 40}, pos[1])
	})

	t.Run("no passes reports pairs", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxCollisionPasses = 0
		e, err := New(cfg)
		require.NoError(t, err)

		pos := []geometry.Point{{}, {}}
		pairs, _ := e.resolveCollisions(symbols, pos)
		assert.Equal(t, []Pair{{A: "sym-a", B: "sym-b"}}, pairs)
	})
}

func TestLayoutPerformance(t *testing.T) {
	symbols := GenerateRadialNetwork(10, 8)
	require.Greater(t, len(symbols), 100)
	NewTestValidator(t).ValidatePerformance(newTestEngine(t), symbols, 500*time.Millisecond)
}
