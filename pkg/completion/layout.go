package completion

import (
	"github.com/bastiangx/wordpop/pkg/menu"
)

// Layout holds the documentation panel thresholds.
type Layout struct {
	// SideMinWidth is the free width right of the menu that must be exceeded
	// for the panel to go beside it.
	SideMinWidth int
	// StackedMaxHeight caps the panel height when it spans the full width.
	StackedMaxHeight int
	// ReservedRows at the bottom belong to the status and command lines.
	ReservedRows int
}

func DefaultLayout() Layout {
	return Layout{SideMinWidth: 30, StackedMaxHeight: 15, ReservedRows: 2}
}

// SizeFunc reports the natural size of the panel content within the given bounds.
type SizeFunc func(maxWidth, maxHeight int) (int, int)

// DocPanelArea places the documentation panel. All rects are relative to the
// viewport, and cursorRow is the cursor's row inside it.
//
// With more than SideMinWidth columns free right of the menu the panel sits
// beside the menu, top aligned, shrunk to its content. Otherwise it spans the
// viewport width at the bottom, or at the top when the bottom placement would
// hide the cursor row.
func DocPanelArea(l Layout, menuArea menu.Rect, viewportWidth, viewportHeight, cursorRow int, size SizeFunc) menu.Rect {
	width := max(0, viewportWidth-menuArea.X-menuArea.Width)
	if width > l.SideMinWidth {
		height := max(0, viewportHeight-menuArea.Y)
		if size != nil {
			w, h := size(width, height)
			width, height = min(w, width), min(h, height)
		}
		return menu.NewRect(menuArea.Right(), menuArea.Y, width, height)
	}

	height := min(l.StackedMaxHeight, viewportHeight/2)
	bottom := max(0, viewportHeight-height-l.ReservedRows)
	y := bottom
	if cursorRow >= bottom {
		y = 0
	}
	return menu.NewRect(0, y, viewportWidth, height)
}
