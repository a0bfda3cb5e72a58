package completion

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

var keyNames = map[string]tcell.Key{
	"up":      tcell.KeyUp,
	"down":    tcell.KeyDown,
	"tab":     tcell.KeyTab,
	"backtab": tcell.KeyBacktab,
	"s-tab":   tcell.KeyBacktab,
	"enter":   tcell.KeyEnter,
	"ret":     tcell.KeyEnter,
	"esc":     tcell.KeyEscape,
	"escape":  tcell.KeyEscape,
	"c-c":     tcell.KeyCtrlC,
	"ctrl-c":  tcell.KeyCtrlC,
	"c-n":     tcell.KeyCtrlN,
	"ctrl-n":  tcell.KeyCtrlN,
	"c-p":     tcell.KeyCtrlP,
	"ctrl-p":  tcell.KeyCtrlP,
}

// ParseKey turns a key name like "tab", "s-tab" or "ctrl-n" into a key event.
// A single character is a plain rune key.
func ParseKey(name string) (*tcell.EventKey, bool) {
	if k, ok := keyNames[strings.ToLower(name)]; ok {
		return tcell.NewEventKey(k, 0, tcell.ModNone), true
	}
	if r := []rune(name); len(r) == 1 {
		return tcell.NewEventKey(tcell.KeyRune, r[0], tcell.ModNone), true
	}
	return nil, false
}
