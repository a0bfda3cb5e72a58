package menu

import (
	"testing"

	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/suggest"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMenu(maxRows int, labels ...string) *Menu {
	items := make([]candidate.Candidate, len(labels))
	for i, l := range labels {
		items[i] = candidate.Candidate{Label: l, Kind: candidate.KindFunction}
	}
	return New(items, suggest.NewFuzzyRanker(nil), maxRows, DefaultStyles())
}

func TestMenuScoreAndSelection(t *testing.T) {
	m := testMenu(10, "print", "println", "format")
	m.Score("pri")
	require.Equal(t, 2, m.Len())

	_, ok := m.Selection()
	assert.False(t, ok, "scoring drops the selection")

	m.MoveDown()
	sel, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, "print", sel.Label)

	m.MoveDown()
	m.MoveDown()
	sel, _ = m.Selection()
	assert.Equal(t, "print", sel.Label, "selection wraps")

	m.MoveUp()
	sel, _ = m.Selection()
	assert.Equal(t, "println", sel.Label)

	m.Score("zzz")
	assert.True(t, m.IsEmpty())
	m.MoveDown()
	_, ok = m.Selection()
	assert.False(t, ok)
}

func TestMenuMoveUpFromNothingSelectsLast(t *testing.T) {
	m := testMenu(10, "a1", "a2", "a3")
	m.Score("")
	m.MoveUp()
	assert.Equal(t, 2, m.Cursor())
}

func TestMenuClear(t *testing.T) {
	m := testMenu(10, "a", "b")
	m.Score("")
	m.MoveDown()
	m.Clear()
	assert.True(t, m.IsEmpty())
	assert.Equal(t, -1, m.Cursor())
}

func TestMenuRequiredSize(t *testing.T) {
	m := testMenu(2, "short", "a_much_longer_label", "mid")
	m.Score("")
	w, h := m.RequiredSize(80, 24)
	assert.Equal(t, len("a_much_longer_label function"), w)
	assert.Equal(t, 2, h, "capped by max rows")

	w, h = m.RequiredSize(10, 1)
	assert.Equal(t, 10, w)
	assert.Equal(t, 1, h)
}

func TestMenuRender(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)

	m := testMenu(10, "alpha", "beta")
	m.Score("")
	m.MoveDown()
	w, h := m.RequiredSize(40, 10)
	m.Render(NewRect(2, 3, w, h), screen)

	assert.Equal(t, "alpha function", readRow(screen, 2, 3, w))
	assert.Equal(t, "beta  function", readRow(screen, 2, 4, w))

	_, _, style, _ := screen.GetContent(2, 3)
	assert.Equal(t, DefaultStyles().Selected, style)
}

func TestMenuScrollFollowsCursor(t *testing.T) {
	m := testMenu(2, "a1", "a2", "a3", "a4")
	m.Score("")
	for i := 0; i < 3; i++ {
		m.MoveDown()
	}
	assert.Equal(t, 2, m.Cursor())
	assert.Equal(t, 1, m.scroll)

	m.MoveDown()
	m.MoveDown()
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 0, m.scroll)
}

func TestPlace(t *testing.T) {
	testCases := []struct {
		name           string
		cursorX, cursY int
		w, h           int
		want           Rect
	}{
		{"below", 5, 2, 10, 4, NewRect(5, 3, 10, 4)},
		{"above when bottom is full", 5, 20, 10, 4, NewRect(5, 16, 10, 4)},
		{"shift left at right edge", 75, 2, 10, 4, NewRect(70, 3, 10, 4)},
		{"truncate below", 0, 10, 10, 30, NewRect(0, 11, 10, 13)},
		{"truncate above", 0, 15, 10, 30, NewRect(0, 0, 10, 15)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Place(80, 24, tc.cursorX, tc.cursY, tc.w, tc.h))
		})
	}
}

func readRow(screen tcell.SimulationScreen, x, y, width int) string {
	out := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		r, _, _, _ := screen.GetContent(x+i, y)
		out = append(out, r)
	}
	return string(out)
}
