package buffer

import (
	"github.com/charmbracelet/log"
)

// Document is what a completion session needs from the text being edited.
// Apply must be atomic: either the whole transaction lands or the document is untouched.
type Document interface {
	// Text returns a snapshot of the document. Callers must not modify it.
	Text() []rune
	Apply(tx *Transaction) error
	// Cursor is the primary selection's cursor offset.
	Cursor() int
	// Language is the document's scope tag, e.g. "source.go". Empty if unknown.
	Language() string
}

type revision struct {
	tx      *Transaction
	inverse *Transaction
}

// Text is an in-memory Document with a single cursor and linear undo history.
// Every applied transaction is one undo step.
type Text struct {
	runes    []rune
	cursor   int
	language string
	past     []revision
	future   []revision
}

// NewText creates a document holding s with the cursor clamped into range.
func NewText(s string, cursor int, language string) *Text {
	t := &Text{
		runes:    []rune(s),
		language: language,
	}
	t.SetCursor(cursor)
	return t
}

func (t *Text) Text() []rune {
	return t.runes
}

func (t *Text) String() string {
	return string(t.runes)
}

func (t *Text) Len() int {
	return len(t.runes)
}

func (t *Text) Cursor() int {
	return t.cursor
}

func (t *Text) Language() string {
	return t.language
}

// SetCursor moves the cursor, clamping to the document bounds.
func (t *Text) SetCursor(pos int) {
	t.cursor = max(0, min(pos, len(t.runes)))
}

// Apply applies tx and records it in the undo history. The cursor is mapped
// through the change.
func (t *Text) Apply(tx *Transaction) error {
	inverse, err := tx.Invert(t.runes)
	if err != nil {
		return err
	}
	if err := t.apply(tx); err != nil {
		return err
	}
	t.past = append(t.past, revision{tx: tx, inverse: inverse})
	t.future = t.future[:0]
	return nil
}

// Undo reverts the most recent transaction. It reports false if there is nothing to undo.
func (t *Text) Undo() bool {
	if len(t.past) == 0 {
		return false
	}
	rev := t.past[len(t.past)-1]
	if err := t.apply(rev.inverse); err != nil {
		log.Errorf("undo failed: %v", err)
		return false
	}
	t.past = t.past[:len(t.past)-1]
	t.future = append(t.future, rev)
	return true
}

// Redo re-applies the most recently undone transaction.
func (t *Text) Redo() bool {
	if len(t.future) == 0 {
		return false
	}
	rev := t.future[len(t.future)-1]
	if err := t.apply(rev.tx); err != nil {
		log.Errorf("redo failed: %v", err)
		return false
	}
	t.future = t.future[:len(t.future)-1]
	t.past = append(t.past, rev)
	return true
}

// Revisions is the number of undoable transactions.
func (t *Text) Revisions() int {
	return len(t.past)
}

// Type inserts s at the cursor, the way the editor's normal input path would.
func (t *Text) Type(s string) error {
	tx, err := Insert(len(t.runes), t.cursor, s)
	if err != nil {
		return err
	}
	return t.Apply(tx)
}

// Backspace deletes the rune before the cursor. It is a no-op at offset 0.
func (t *Text) Backspace() error {
	if t.cursor == 0 {
		return nil
	}
	tx, err := Delete(len(t.runes), t.cursor-1, t.cursor)
	if err != nil {
		return err
	}
	return t.Apply(tx)
}

func (t *Text) apply(tx *Transaction) error {
	next, err := tx.Apply(t.runes)
	if err != nil {
		return err
	}
	t.runes = next
	t.cursor = tx.MapPos(t.cursor)
	return nil
}

// CoordsAt returns the zero based line and column of pos.
func CoordsAt(text []rune, pos int) (line, col int) {
	pos = max(0, min(pos, len(text)))
	for _, r := range text[:pos] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}
