package menu

// Rect is a screen area in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: max(0, width), Height: max(0, height)}
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right is the first column past the rect.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom is the first row past the rect.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Offset translates r by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Place positions a popup of the given size next to the cursor cell, in
// coordinates relative to the viewport. The popup opens on the row below the
// cursor, or above it when there is no room below, and is shifted left to fit.
func Place(viewportWidth, viewportHeight, cursorX, cursorY, width, height int) Rect {
	width = min(width, viewportWidth)
	x := min(cursorX, viewportWidth-width)
	x = max(0, x)

	below := viewportHeight - (cursorY + 1)
	switch {
	case height <= below:
		return NewRect(x, cursorY+1, width, height)
	case height <= cursorY:
		return NewRect(x, cursorY-height, width, height)
	case below >= cursorY:
		return NewRect(x, cursorY+1, width, below)
	default:
		return NewRect(x, 0, width, cursorY)
	}
}
