package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sld/diagram"
	"sld/geometry"
	"sld/pathfinding"
)

func TestNewMatrixRejectsEmpty(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 5},
		{"zero height", 5, 0},
		{"negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatrix(tt.width, tt.height)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestMatrixSetOutOfBounds(t *testing.T) {
	m, err := NewMatrix(2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Set(2, 0, 'x', ClassNone), ErrOutOfBounds)
	r, class := m.Get(-1, 0)
	assert.Equal(t, ' ', r)
	assert.Equal(t, ClassNone, class)
}

func TestDrawPathCorners(t *testing.T) {
	m, err := NewMatrix(5, 3)
	require.NoError(t, err)

	m.DrawPath([]Cell{{0, 0}, {4, 0}, {4, 2}}, ClassWire)

	assert.Equal(t, "────╮\n    │\n    │", m.String())
}

func TestWireCrossingMerges(t *testing.T) {
	m, err := NewMatrix(5, 3)
	require.NoError(t, err)

	m.DrawHorizontalLine(0, 1, 4, '─', ClassWire)
	m.DrawVerticalLine(2, 0, 2, '│', ClassWire)

	r, _ := m.Get(2, 1)
	assert.Equal(t, '┼', r)
}

func TestDrawTextClipsWideRunes(t *testing.T) {
	m, err := NewMatrix(3, 1)
	require.NoError(t, err)

	m.DrawText(0, 0, "a変b", ClassLabel)

	assert.Equal(t, "a変", m.String())
}

func busLoadScene() Scene {
	return Scene{
		Symbols: []diagram.Symbol{
			{ID: "sym-load", ElementID: "load", Kind: diagram.KindLoad, ConnectedToNodeID: "bus", Position: geometry.Point{X: 40, Y: 40}, InService: true},
			{ID: "sym-bus", ElementID: "bus", Kind: diagram.KindBus, Position: geometry.Point{X: 40, Y: 0}, Width: 80, Height: 8, InService: true},
		},
		Paths: map[string]pathfinding.Path{
			"c1": {Points: []geometry.Point{{X: 40, Y: 4}, {X: 40, Y: 20}}},
		},
	}
}

func TestRenderScene(t *testing.T) {
	opts := DefaultOptions()
	opts.Margin = 0
	opts.Labels = false

	m, err := Render(busLoadScene(), opts)
	require.NoError(t, err)

	want := strings.Join([]string{
		"━━━━━━━━",
		"  ┌──┐",
		"  │ D│",
		"  └──┘",
	}, "\n")
	assert.Equal(t, want, m.String())

	_, class := m.Get(0, 0)
	assert.Equal(t, ClassBus, class)
	_, class = m.Get(4, 2)
	assert.Equal(t, ClassSymbol, class)
}

func TestRenderLabelsAndClasses(t *testing.T) {
	scene := busLoadScene()
	scene.Symbols[1].Name = "WN"
	scene.Symbols[0].InService = false
	opts := DefaultOptions()
	opts.Margin = 0

	m, err := Render(scene, opts)
	require.NoError(t, err)

	w, h := m.Size()
	assert.Equal(t, 11, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, "━━━━━━━━WN", strings.Split(m.String(), "\n")[0])

	r, class := m.Get(3, 1)
	assert.Equal(t, '┄', r)
	assert.Equal(t, ClassOutOfService, class)

	scene.Quarantined = []string{"sym-load"}
	m, err = Render(scene, opts)
	require.NoError(t, err)
	_, class = m.Get(4, 2)
	assert.Equal(t, ClassQuarantined, class)
}

func TestRenderIsOrderIndependent(t *testing.T) {
	scene := busLoadScene()
	a, err := Render(scene, DefaultOptions())
	require.NoError(t, err)

	scene.Symbols[0], scene.Symbols[1] = scene.Symbols[1], scene.Symbols[0]
	b, err := Render(scene, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestRenderEdgeCases(t *testing.T) {
	m, err := Render(Scene{}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", m.String())

	_, err = Render(busLoadScene(), Options{CellWidth: 0, CellHeight: 20})
	assert.ErrorIs(t, err, ErrInvalidSize)
}
