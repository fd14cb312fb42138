package layout

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"sld/diagram"
	"sld/geometry"
	"sld/ports"
)

func bus(elementID string, kv float64) diagram.Symbol {
	return diagram.Symbol{ID: "sym-" + elementID, ElementID: elementID, Kind: diagram.KindBus, Name: elementID, VoltageKV: kv, InService: true}
}

func namedBus(elementID, name string, kv float64) diagram.Symbol {
	s := bus(elementID, kv)
	s.Name = name
	return s
}

func branch(kind diagram.Kind, elementID, from, to string) diagram.Symbol {
	return diagram.Symbol{ID: "sym-" + elementID, ElementID: elementID, Kind: kind, FromNodeID: from, ToNodeID: to, InService: true}
}

func attach(kind diagram.Kind, elementID, busID string) diagram.Symbol {
	return diagram.Symbol{ID: "sym-" + elementID, ElementID: elementID, Kind: kind, ConnectedToNodeID: busID, InService: true}
}

// GenerateRadialNetwork builds a source-fed HV bus with one transformer feeder per
// index, each feeding a two-section MV busbar with loads, and a tie line between the
// first two feeders.
func GenerateRadialNetwork(feeders, loadsPerFeeder int) []diagram.Symbol {
	symbols := []diagram.Symbol{
		attach(diagram.KindSource, "grid", "hv"),
		bus("hv", 110),
	}
	for f := 0; f < feeders; f++ {
		s1 := fmt.Sprintf("mv%d-a", f)
		s2 := fmt.Sprintf("mv%d-b", f)
		symbols = append(symbols,
			namedBus(s1, fmt.Sprintf("MV%d S1", f), 15),
			namedBus(s2, fmt.Sprintf("MV%d S2", f), 15),
			branch(diagram.KindSwitch, fmt.Sprintf("cb%d", f), s1, s2),
			branch(diagram.KindTransformer, fmt.Sprintf("tr%d-1", f), "hv", s1),
			branch(diagram.KindTransformer, fmt.Sprintf("tr%d-2", f), "hv", s1),
		)
		for l := 0; l < loadsPerFeeder; l++ {
			symbols = append(symbols, attach(diagram.KindLoad, fmt.Sprintf("load%d-%d", f, l), s1))
		}
	}
	if feeders > 1 {
		symbols = append(symbols, branch(diagram.KindLine, "tie", "mv0-b", "mv1-a"))
	}
	return symbols
}

// Shuffle returns a permutation of symbols.
func Shuffle(symbols []diagram.Symbol, seed int64) []diagram.Symbol {
	out := make([]diagram.Symbol, len(symbols))
	copy(out, symbols)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// TestValidator provides validation for layout tests.
type TestValidator struct {
	t *testing.T
}

// NewTestValidator creates a validator for the given test.
func NewTestValidator(t *testing.T) *TestValidator {
	return &TestValidator{t: t}
}

// ValidateAllPlaced ensures every input symbol has a position.
func (v *TestValidator) ValidateAllPlaced(symbols []diagram.Symbol, result Result) {
	v.t.Helper()
	if len(result.Positions) != len(symbols) {
		v.t.Errorf("Expected %d positions, got %d", len(symbols), len(result.Positions))
	}
	for _, s := range symbols {
		if _, ok := result.Positions[s.ID]; !ok {
			v.t.Errorf("Symbol %s has no position", s.ID)
		}
	}
}

// ValidateGrid ensures every position is a multiple of the grid size.
func (v *TestValidator) ValidateGrid(result Result, gridSize int) {
	v.t.Helper()
	for id, p := range result.Positions {
		if p.X%gridSize != 0 || p.Y%gridSize != 0 {
			v.t.Errorf("Symbol %s off grid: (%d, %d)", id, p.X, p.Y)
		}
	}
}

// ValidateNoOverlaps ensures no two footprints overlap when the layout reports none.
func (v *TestValidator) ValidateNoOverlaps(symbols []diagram.Symbol, result Result) {
	v.t.Helper()
	placed := diagram.ApplyPositions(symbols, result.Positions)
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			a, b := ports.Footprint(placed[i]), ports.Footprint(placed[j])
			if a.Overlaps(b) {
				v.t.Errorf("Symbols %s and %s overlap: %v and %v", placed[i].ID, placed[j].ID, a, b)
			}
		}
	}
}

// ValidateDeterminism ensures layout is consistent across runs.
func (v *TestValidator) ValidateDeterminism(engine *Engine, symbols []diagram.Symbol, runs int) {
	v.t.Helper()
	var first Result
	for i := 0; i < runs; i++ {
		result, err := engine.ComputeLayout(symbols)
		if err != nil {
			v.t.Fatalf("Layout failed on run %d: %v", i, err)
		}
		if i == 0 {
			first = result
			continue
		}
		if !positionsEqual(first.Positions, result.Positions) {
			v.t.Errorf("Layout not deterministic: run %d differs from run 0", i)
		}
	}
}

// ValidatePermutationInvariance ensures shuffled inputs give the same layout.
func (v *TestValidator) ValidatePermutationInvariance(engine *Engine, symbols []diagram.Symbol, seeds int) {
	v.t.Helper()
	want, err := engine.ComputeLayout(symbols)
	if err != nil {
		v.t.Fatalf("Layout failed: %v", err)
	}
	for seed := int64(1); seed <= int64(seeds); seed++ {
		got, err := engine.ComputeLayout(Shuffle(symbols, seed))
		if err != nil {
			v.t.Fatalf("Layout failed for seed %d: %v", seed, err)
		}
		if !positionsEqual(want.Positions, got.Positions) {
			v.t.Errorf("Layout differs for permutation seed %d", seed)
		}
		if fmt.Sprint(want.Collisions) != fmt.Sprint(got.Collisions) ||
			fmt.Sprint(want.Diagnostics) != fmt.Sprint(got.Diagnostics) {
			v.t.Errorf("Diagnostics differ for permutation seed %d", seed)
		}
	}
}

// ValidatePerformance ensures layout completes within time limit.
func (v *TestValidator) ValidatePerformance(engine *Engine, symbols []diagram.Symbol, maxDuration time.Duration) {
	v.t.Helper()
	start := time.Now()
	_, err := engine.ComputeLayout(symbols)
	duration := time.Since(start)
	if err != nil {
		v.t.Fatalf("Layout failed: %v", err)
	}
	if duration > maxDuration {
		v.t.Errorf("Layout too slow: %v > %v", duration, maxDuration)
	}
}

func positionsEqual(a, b map[string]geometry.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for id, p := range a {
		if q, ok := b[id]; !ok || q != p {
			return false
		}
	}
	return true
}
