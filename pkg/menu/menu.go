// Package menu is the popup list a completion session draws its candidates in.
//
// It keeps the ranked subset and the selection cursor, and knows how to size,
// place and draw itself on a tcell screen. Ranking is delegated to a suggest.Ranker.
package menu

import (
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/suggest"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Styles used when drawing rows.
type Styles struct {
	Normal   tcell.Style
	Selected tcell.Style
	Tag      tcell.Style
}

// DefaultStyles draws with the terminal's default colours and a reversed selection.
func DefaultStyles() Styles {
	return Styles{
		Normal:   tcell.StyleDefault,
		Selected: tcell.StyleDefault.Reverse(true),
		Tag:      tcell.StyleDefault.Dim(true),
	}
}

// Menu is the ranked, selectable view over a fixed list of candidates.
type Menu struct {
	items   []candidate.Candidate
	keys    []suggest.Item
	ranker  suggest.Ranker
	matches []suggest.Match
	// cursor indexes matches; -1 means nothing is selected yet.
	cursor  int
	scroll  int
	maxRows int
	styles  Styles
}

// New creates a menu showing every item, unranked and with no selection.
func New(items []candidate.Candidate, ranker suggest.Ranker, maxRows int, styles Styles) *Menu {
	keys := make([]suggest.Item, len(items))
	matches := make([]suggest.Match, len(items))
	for i := range items {
		keys[i] = items[i]
		matches[i] = suggest.Match{Index: i}
	}
	if maxRows <= 0 {
		maxRows = 10
	}
	return &Menu{
		items:   items,
		keys:    keys,
		ranker:  ranker,
		matches: matches,
		cursor:  -1,
		maxRows: maxRows,
		styles:  styles,
	}
}

// Score re-ranks all items against query and drops the selection.
func (m *Menu) Score(query string) {
	m.matches = m.ranker.Rank(m.keys, query)
	m.cursor = -1
	m.scroll = 0
}

// Clear empties the ranked subset.
func (m *Menu) Clear() {
	m.matches = nil
	m.cursor = -1
	m.scroll = 0
}

func (m *Menu) IsEmpty() bool {
	return len(m.matches) == 0
}

// Len is the size of the ranked subset.
func (m *Menu) Len() int {
	return len(m.matches)
}

// Items is the full, unranked candidate list.
func (m *Menu) Items() []candidate.Candidate {
	return m.items
}

// Visible returns the ranked subset in display order.
func (m *Menu) Visible() []candidate.Candidate {
	out := make([]candidate.Candidate, len(m.matches))
	for i, match := range m.matches {
		out[i] = m.items[match.Index]
	}
	return out
}

// Cursor is the selected position in the ranked subset, or -1.
func (m *Menu) Cursor() int {
	return m.cursor
}

// Selection returns the highlighted candidate, if any.
func (m *Menu) Selection() (candidate.Candidate, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return candidate.Candidate{}, false
	}
	return m.items[m.matches[m.cursor].Index], true
}

// MoveUp selects the previous row, wrapping to the last one.
func (m *Menu) MoveUp() {
	if len(m.matches) == 0 {
		return
	}
	if m.cursor <= 0 {
		m.cursor = len(m.matches) - 1
	} else {
		m.cursor--
	}
	m.adjustScroll()
}

// MoveDown selects the next row, wrapping to the first one.
func (m *Menu) MoveDown() {
	if len(m.matches) == 0 {
		return
	}
	m.cursor = (m.cursor + 1) % len(m.matches)
	m.adjustScroll()
}

func (m *Menu) adjustScroll() {
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	} else if m.cursor >= m.scroll+m.maxRows {
		m.scroll = m.cursor - m.maxRows + 1
	}
}

// columnWidths returns the widest label and widest tag in the ranked subset.
func (m *Menu) columnWidths() (label, tag int) {
	for _, match := range m.matches {
		row := m.items[match.Index].Row()
		label = max(label, runewidth.StringWidth(row.Label))
		tag = max(tag, runewidth.StringWidth(row.Tag))
	}
	return label, tag
}

// RequiredSize is the size the menu wants inside a viewport of the given size.
func (m *Menu) RequiredSize(width, height int) (int, int) {
	label, tag := m.columnWidths()
	w := label
	if tag > 0 {
		w += 1 + tag
	}
	h := min(len(m.matches), m.maxRows, height)
	return min(w, width), h
}

// Render draws the visible rows into area.
func (m *Menu) Render(area Rect, screen tcell.Screen) {
	if area.Empty() {
		return
	}
	labelW, tagW := m.columnWidths()
	if labelW+1+tagW > area.Width {
		labelW = max(0, area.Width-1-tagW)
	}

	for row := 0; row < area.Height; row++ {
		i := m.scroll + row
		if i >= len(m.matches) {
			break
		}
		style := m.styles.Normal
		tagStyle := m.styles.Tag
		if i == m.cursor {
			style = m.styles.Selected
			tagStyle = m.styles.Selected
		}
		y := area.Y + row
		fill(screen, area.X, y, area.Width, style)

		r := m.items[m.matches[i].Index].Row()
		label := runewidth.Truncate(r.Label, labelW, "…")
		drawString(screen, area.X, y, label, area.X+labelW, style)
		if r.Tag != "" && tagW > 0 {
			drawString(screen, area.X+labelW+1, y, r.Tag, area.Right(), tagStyle)
		}
	}
}

func fill(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
}

// drawString writes s from x, stopping before limit. It returns the next free column.
func drawString(screen tcell.Screen, x, y int, s string, limit int, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > limit {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}
