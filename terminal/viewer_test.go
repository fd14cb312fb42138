package terminal

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sld/canvas"
)

func newTestViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(10, 5)

	m, err := canvas.NewMatrix(30, 10)
	require.NoError(t, err)
	m.DrawText(0, 0, "abcdefghijklmnopqrstuvwxyz", canvas.ClassLabel)
	m.DrawText(0, 9, "bottom", canvas.ClassLabel)

	return NewViewer(screen, m, "station"), screen
}

func cellRune(s tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(s tcell.SimulationScreen, y int) string {
	_, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(cellRune(s, x, y))
	}
	return sb.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewerDraw(t *testing.T) {
	v, screen := newTestViewer(t)

	v.draw()

	assert.Equal(t, "abcdefghij", rowText(screen, 0))
	assert.True(t, strings.HasPrefix(rowText(screen, 4), " station"))
}

func TestViewerScroll(t *testing.T) {
	tests := []struct {
		name  string
		keys  []*tcell.EventKey
		wantX int
		wantY int
	}{
		{"right", []*tcell.EventKey{key('l')}, 1, 0},
		{"arrow down", []*tcell.EventKey{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)}, 0, 1},
		{"clamped at origin", []*tcell.EventKey{key('h'), key('k')}, 0, 0},
		{"page down clamps to last page", []*tcell.EventKey{tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone)}, 0, 6},
		{"home", []*tcell.EventKey{key('l'), key('j'), key('g')}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestViewer(t)
			for _, k := range tt.keys {
				assert.False(t, v.handleEvent(k))
			}
			x, y := v.Offset()
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestViewerScrollRendersOffset(t *testing.T) {
	v, screen := newTestViewer(t)

	for i := 0; i < 25; i++ {
		v.handleEvent(key('l'))
	}
	v.draw()

	x, _ := v.Offset()
	assert.Equal(t, 20, x)
	assert.Equal(t, "uvwxyz    ", rowText(screen, 0))
}

func TestViewerQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"q", key('q')},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestViewer(t)
			assert.True(t, v.handleEvent(tt.ev))
		})
	}
}

func TestViewerRun(t *testing.T) {
	v, screen := newTestViewer(t)

	screen.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '?', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, v.Run())
	x, _ := v.Offset()
	assert.Equal(t, 1, x)
	assert.True(t, v.showHelp)
}
