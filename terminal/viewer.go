// Package terminal shows a rendered diagram in a scrollable full-screen view.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"sld/canvas"
)

// Viewer pages a canvas matrix on a tcell screen. The last screen row is a status line.
type Viewer struct {
	screen   tcell.Screen
	matrix   *canvas.Matrix
	title    string
	offsetX  int
	offsetY  int
	showHelp bool
	styles   map[canvas.Class]tcell.Style
}

var helpLines = []string{
	"arrows / hjkl  scroll",
	"g              back to top left",
	"?              toggle this help",
	"q / esc        quit",
}

// NewViewer creates a viewer on an initialised screen.
func NewViewer(screen tcell.Screen, m *canvas.Matrix, title string) *Viewer {
	base := tcell.StyleDefault
	return &Viewer{
		screen: screen,
		matrix: m,
		title:  title,
		styles: map[canvas.Class]tcell.Style{
			canvas.ClassNone:         base,
			canvas.ClassWire:         base.Foreground(tcell.ColorTeal),
			canvas.ClassFallbackWire: base.Foreground(tcell.ColorYellow),
			canvas.ClassBus:          base.Foreground(tcell.ColorWhite).Bold(true),
			canvas.ClassSymbol:       base.Foreground(tcell.ColorGreen),
			canvas.ClassOutOfService: base.Foreground(tcell.ColorGray),
			canvas.ClassQuarantined:  base.Foreground(tcell.ColorRed),
			canvas.ClassLabel:        base.Foreground(tcell.ColorSilver),
		},
	}
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() error {
	v.draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if v.handleEvent(ev) {
			return nil
		}
		v.draw()
	}
}

// Offset returns the current scroll position in cells.
func (v *Viewer) Offset() (x, y int) {
	return v.offsetX, v.offsetY
}

// handleEvent applies one event and reports whether the viewer should exit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.scroll(0, -1)
	case tcell.KeyDown:
		v.scroll(0, 1)
	case tcell.KeyLeft:
		v.scroll(-1, 0)
	case tcell.KeyRight:
		v.scroll(1, 0)
	case tcell.KeyPgDn:
		_, h := v.screen.Size()
		v.scroll(0, max(1, h-1))
	case tcell.KeyPgUp:
		_, h := v.screen.Size()
		v.scroll(0, -max(1, h-1))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'h':
			v.scroll(-1, 0)
		case 'j':
			v.scroll(0, 1)
		case 'k':
			v.scroll(0, -1)
		case 'l':
			v.scroll(1, 0)
		case 'g':
			v.offsetX, v.offsetY = 0, 0
		case '?':
			v.showHelp = !v.showHelp
		}
	}
	return false
}

// scroll moves the view, keeping it inside the matrix.
func (v *Viewer) scroll(dx, dy int) {
	sw, sh := v.screen.Size()
	mw, mh := v.matrix.Size()
	maxX := max(0, mw-sw)
	maxY := max(0, mh-(sh-1))
	v.offsetX = min(max(v.offsetX+dx, 0), maxX)
	v.offsetY = min(max(v.offsetY+dy, 0), maxY)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()

	for y := 0; y < sh-1; y++ {
		for x := 0; x < sw; x++ {
			r, class := v.matrix.Get(x+v.offsetX, y+v.offsetY)
			if r == 0 {
				continue
			}
			v.screen.SetContent(x, y, r, nil, v.styles[class])
		}
	}

	if v.showHelp {
		for i, line := range helpLines {
			v.drawString(1, 1+i, line, tcell.StyleDefault.Reverse(true))
		}
	}
	v.showStatusLine(sw, sh)
	v.screen.Show()
}

func (v *Viewer) showStatusLine(sw, sh int) {
	mw, mh := v.matrix.Size()
	status := fmt.Sprintf(" %s  %dx%d @ %d,%d  ? help  q quit", v.title, mw, mh, v.offsetX, v.offsetY)
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < sw; x++ {
		v.screen.SetContent(x, sh-1, ' ', nil, style)
	}
	v.drawString(0, sh-1, status, style)
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
