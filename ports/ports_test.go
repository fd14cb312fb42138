package ports

import (
	"errors"
	"testing"

	"sld/diagram"
	"sld/geometry"
)

func TestGetPortsAlwaysFourInFixedOrder(t *testing.T) {
	for _, kind := range diagram.Kinds {
		s := diagram.Symbol{ID: "s", ElementID: "e", Kind: kind, Position: geometry.Point{X: 100, Y: 100}}
		got := GetPorts(s)
		if len(got) != 4 {
			t.Fatalf("%s: got %d ports", kind, len(got))
		}
		for i, name := range Order {
			if got[i].Name != name {
				t.Errorf("%s: port %d = %s, want %s", kind, i, got[i].Name, name)
			}
			if got[i].SymbolID != "s" || got[i].ElementID != "e" || got[i].ElementType != kind {
				t.Errorf("%s: port identity not copied: %+v", kind, got[i])
			}
		}
	}
}

func TestBusPortsSitAtHalfSize(t *testing.T) {
	bus := diagram.Symbol{ID: "b", Kind: diagram.KindBus, Width: 80, Height: 8, Position: geometry.Point{X: 100, Y: 100}}
	want := map[PortName]geometry.Point{
		Top:    {X: 100, Y: 96},
		Bottom: {X: 100, Y: 104},
		Left:   {X: 60, Y: 100},
		Right:  {X: 140, Y: 100},
	}
	for _, p := range GetPorts(bus) {
		if p.Position != want[p.Name] {
			t.Errorf("%s = %v, want %v", p.Name, p.Position, want[p.Name])
		}
	}
}

func TestBusDefaultsWhenSizeMissing(t *testing.T) {
	w, h := Size(diagram.Symbol{Kind: diagram.KindBus})
	if w != DefaultBusWidth || h != DefaultBusHeight {
		t.Errorf("Size = %dx%d", w, h)
	}
}

func TestTransformPortIdentity(t *testing.T) {
	s := diagram.Symbol{ID: "t", Kind: diagram.KindTransformer, Position: geometry.Point{X: 40, Y: 200}}
	for _, p := range GetPorts(s) {
		got, err := TransformPort(p, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("rotating %s by 0 changed it: %+v -> %+v", p.Name, p, got)
		}
	}
}

func TestTransformPortQuarterTurns(t *testing.T) {
	s := diagram.Symbol{ID: "t", Kind: diagram.KindTransformer, Position: geometry.Point{X: 0, Y: 0}}
	top, _ := Find(s, Top)

	tests := []struct {
		degrees int
		want    geometry.Point
	}{
		{90, geometry.Point{X: 30, Y: 0}},
		{180, geometry.Point{X: 0, Y: 30}},
		{270, geometry.Point{X: -30, Y: 0}},
		{360, geometry.Point{X: 0, Y: -30}},
		{-90, geometry.Point{X: -30, Y: 0}},
	}
	for _, tt := range tests {
		got, err := TransformPort(top, tt.degrees)
		if err != nil {
			t.Fatalf("%d: %v", tt.degrees, err)
		}
		if got.Position != tt.want {
			t.Errorf("rotate %d: position %v, want %v", tt.degrees, got.Position, tt.want)
		}
		if got.Name != Top {
			t.Errorf("rotate %d renamed the port to %s", tt.degrees, got.Name)
		}
	}
}

func TestTransformPortRejectsOddAngles(t *testing.T) {
	p := Port{Name: Top, Offset: geometry.Point{Y: -10}}
	if _, err := TransformPort(p, 45); !errors.Is(err, ErrInvalidRotation) {
		t.Errorf("error = %v, want ErrInvalidRotation", err)
	}
}

func TestRotatedSymbolPorts(t *testing.T) {
	s := diagram.Symbol{ID: "l", Kind: diagram.KindLine, Rotation: 90, Position: geometry.Point{X: 0, Y: 0}}
	ports := GetPorts(s)
	if ports[0].Position != (geometry.Point{X: 30, Y: 0}) {
		t.Errorf("rotated top = %v", ports[0].Position)
	}
	if ports[0].Outward() != (geometry.Point{X: 1}) {
		t.Errorf("rotated top outward = %v", ports[0].Outward())
	}
	fp := Footprint(s)
	if fp.Width() != 60 || fp.Height() != 20 {
		t.Errorf("rotated footprint = %v", fp)
	}
}

func TestParsePortName(t *testing.T) {
	if n, err := ParsePortName("left"); err != nil || n != Left {
		t.Errorf("ParsePortName(left) = %v, %v", n, err)
	}
	if _, err := ParsePortName("north"); !errors.Is(err, ErrInvalidPortName) {
		t.Errorf("error = %v, want ErrInvalidPortName", err)
	}
	if Top.Priority() >= Bottom.Priority() || Left.Priority() >= Right.Priority() {
		t.Error("priority order broken")
	}
}
