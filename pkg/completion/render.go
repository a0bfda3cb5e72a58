package completion

import (
	"strings"

	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/markdown"
	"github.com/bastiangx/wordpop/pkg/menu"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Render draws the menu next to the cursor and, when the highlighted
// candidate has a detail or documentation, the documentation panel.
// viewport is the document area on screen; the areas recorded for
// LastAreas are relative to it.
func (c *Completion) Render(ctx Context, viewport menu.Rect, screen tcell.Screen) {
	c.menuArea, c.docArea = menu.Rect{}, menu.Rect{}
	if c.IsEmpty() || viewport.Empty() {
		return
	}

	cursorX, cursorY := c.cursorCell(ctx)
	w, h := c.menu.RequiredSize(viewport.Width, viewport.Height)
	w = min(max(w, c.opts.MinWidth), viewport.Width)
	area := menu.Place(viewport.Width, viewport.Height, cursorX, cursorY, w, h)
	c.menu.Render(area.Offset(viewport.X, viewport.Y), screen)
	c.menuArea = area

	item, ok := c.menu.Selection()
	if !ok {
		return
	}
	language := LanguageID(ctx.Doc.Language(), c.opts.LanguagePrefix)
	doc, ok := ComposeDocs(item, language)
	if !ok {
		return
	}

	size := func(maxW, maxH int) (int, int) {
		return c.opts.Renderer.RequiredSize(doc, maxW, maxH)
	}
	panel := DocPanelArea(c.opts.Layout, area, viewport.Width, viewport.Height, cursorY, size)
	if panel.Empty() {
		return
	}
	onScreen := panel.Offset(viewport.X, viewport.Y)
	// the panel may cover document text or a previous, larger panel
	markdown.Clear(onScreen, screen, c.opts.PopupStyle)
	c.opts.Renderer.Render(doc, onScreen, screen, c.opts.PopupStyle)
	c.docArea = panel
}

// cursorCell is the cursor's cell relative to the viewport. Rows above
// ViewTop clamp to the first row.
func (c *Completion) cursorCell(ctx Context) (x, y int) {
	text := ctx.Doc.Text()
	cursor := max(0, min(ctx.Doc.Cursor(), len(text)))
	line, col := buffer.CoordsAt(text, cursor)
	lineStart := cursor - col
	return runewidth.StringWidth(strings.ReplaceAll(string(text[lineStart:cursor]), "\t", "    ")),
		max(0, line-ctx.ViewTop)
}
