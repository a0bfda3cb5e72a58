// Package markdown renders the documentation panel of the completion popup.
package markdown

import (
	"strings"

	"github.com/bastiangx/wordpop/pkg/menu"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Renderer turns a composed markdown document into terminal cells.
type Renderer interface {
	// RequiredSize is the natural size of src when wrapped to at most maxWidth columns,
	// capped to the given bounds.
	RequiredSize(src string, maxWidth, maxHeight int) (int, int)
	// Render draws src into area.
	Render(src string, area menu.Rect, screen tcell.Screen, style tcell.Style)
}

// Glamour renders markdown through glamour and draws the resulting lines.
// Colour escapes are stripped; the panel uses the popup style.
type Glamour struct {
	style string
	// Wrap caps the wrap width when positive.
	Wrap int
	// last holds the most recent render; the popup asks for the same document
	// twice per frame (size, then draw).
	last struct {
		src   string
		width int
		lines []string
	}
}

// NewGlamour uses one of glamour's standard styles ("dark", "light", "notty", ...).
func NewGlamour(style string) *Glamour {
	if style == "" {
		style = "notty"
	}
	return &Glamour{style: style}
}

func (g *Glamour) lines(src string, width int) []string {
	if g.Wrap > 0 {
		width = min(width, g.Wrap)
	}
	if width <= 0 {
		return nil
	}
	if g.last.lines != nil && g.last.src == src && g.last.width == width {
		return g.last.lines
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(g.style),
		glamour.WithWordWrap(width),
	)
	var out string
	if err == nil {
		out, err = r.Render(src)
	}
	if err != nil {
		log.Warnf("markdown render failed, showing source: %v", err)
		out = src
	}

	lines := trimBlank(strings.Split(ansi.Strip(out), "\n"))
	g.last.src, g.last.width, g.last.lines = src, width, lines
	return lines
}

func (g *Glamour) RequiredSize(src string, maxWidth, maxHeight int) (int, int) {
	return measure(g.lines(src, maxWidth), maxWidth, maxHeight)
}

func (g *Glamour) Render(src string, area menu.Rect, screen tcell.Screen, style tcell.Style) {
	draw(g.lines(src, area.Width), area, screen, style)
}

// Plain shows the source verbatim, one line per row.
type Plain struct{}

func (Plain) RequiredSize(src string, maxWidth, maxHeight int) (int, int) {
	return measure(trimBlank(strings.Split(src, "\n")), maxWidth, maxHeight)
}

func (Plain) Render(src string, area menu.Rect, screen tcell.Screen, style tcell.Style) {
	draw(trimBlank(strings.Split(src, "\n")), area, screen, style)
}

// Clear paints area with style.
func Clear(area menu.Rect, screen tcell.Screen, style tcell.Style) {
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func measure(lines []string, maxWidth, maxHeight int) (int, int) {
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}
	return min(w, maxWidth), min(len(lines), maxHeight)
}

func draw(lines []string, area menu.Rect, screen tcell.Screen, style tcell.Style) {
	for row, line := range lines {
		if row >= area.Height {
			return
		}
		x := area.X
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if x+w > area.Right() {
				break
			}
			screen.SetContent(x, area.Y+row, r, nil, style)
			x += w
		}
	}
}

// trimBlank drops trailing spaces on every line and blank lines at both ends.
func trimBlank(lines []string) []string {
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
