/*
Package buffer is the document side of a completion session.

It holds a rune addressed text document with an atomic, reversible
Transaction type and the position transcoding used when an analysis service
reports positions in a different unit than the buffer.

All offsets in this package are character (rune) offsets unless a function
says otherwise.
*/
package buffer

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrInvalidTransaction is returned when a transaction does not fit the
// document it is applied to, or its changes overlap.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Change replaces the runes in [From, To) with Insert.
// A zero-width change (From == To) is a pure insertion, an empty Insert a pure deletion.
type Change struct {
	From   int
	To     int
	Insert string
}

// Transaction is an ordered, non-overlapping set of changes against a
// document of a known length. It is either applied whole or not at all.
type Transaction struct {
	changes []Change
	length  int
}

// NewTransaction validates changes against a document of the given length.
// Changes must be sorted by position and must not overlap.
func NewTransaction(length int, changes ...Change) (*Transaction, error) {
	prevEnd := 0
	for i, c := range changes {
		if c.From < 0 || c.To < c.From || c.To > length {
			return nil, errors.Wrapf(ErrInvalidTransaction,
				"change %d [%d, %d) outside document of length %d", i, c.From, c.To, length)
		}
		if c.From < prevEnd {
			return nil, errors.Wrapf(ErrInvalidTransaction,
				"change %d starts at %d before previous change end %d", i, c.From, prevEnd)
		}
		prevEnd = c.To
	}
	owned := make([]Change, len(changes))
	copy(owned, changes)
	return &Transaction{changes: owned, length: length}, nil
}

// Insert builds a transaction inserting text at pos.
func Insert(length, pos int, text string) (*Transaction, error) {
	return NewTransaction(length, Change{From: pos, To: pos, Insert: text})
}

// Delete builds a transaction removing [from, to).
func Delete(length, from, to int) (*Transaction, error) {
	return NewTransaction(length, Change{From: from, To: to})
}

// Changes returns a copy of the transaction's changes.
func (t *Transaction) Changes() []Change {
	out := make([]Change, len(t.changes))
	copy(out, t.changes)
	return out
}

// Len is the length of the document the transaction was built for.
func (t *Transaction) Len() int {
	return t.length
}

// IsEmpty reports whether applying the transaction would leave the text unchanged.
func (t *Transaction) IsEmpty() bool {
	for _, c := range t.changes {
		if c.From != c.To || c.Insert != "" {
			return false
		}
	}
	return true
}

// Apply returns the text with every change applied. The input is not modified.
func (t *Transaction) Apply(text []rune) ([]rune, error) {
	if len(text) != t.length {
		return nil, errors.Wrapf(ErrInvalidTransaction,
			"transaction built for length %d applied to length %d", t.length, len(text))
	}
	out := make([]rune, 0, len(text)+t.growth())
	last := 0
	for _, c := range t.changes {
		out = append(out, text[last:c.From]...)
		out = append(out, []rune(c.Insert)...)
		last = c.To
	}
	out = append(out, text[last:]...)
	return out, nil
}

// MapPos maps a position in the original text into the changed text.
// A position inside or at the edges of a changed range lands after the inserted text.
func (t *Transaction) MapPos(pos int) int {
	delta := 0
	for _, c := range t.changes {
		if pos < c.From {
			break
		}
		inserted := utf8.RuneCountInString(c.Insert)
		if pos <= c.To {
			return c.From + delta + inserted
		}
		delta += inserted - (c.To - c.From)
	}
	return pos + delta
}

// Invert returns the transaction that undoes t. original must be the text t
// was applied to.
func (t *Transaction) Invert(original []rune) (*Transaction, error) {
	if len(original) != t.length {
		return nil, errors.Wrapf(ErrInvalidTransaction,
			"invert needs the original text of length %d, got %d", t.length, len(original))
	}
	inverse := make([]Change, 0, len(t.changes))
	delta := 0
	for _, c := range t.changes {
		inserted := utf8.RuneCountInString(c.Insert)
		from := c.From + delta
		inverse = append(inverse, Change{
			From:   from,
			To:     from + inserted,
			Insert: string(original[c.From:c.To]),
		})
		delta += inserted - (c.To - c.From)
	}
	return &Transaction{changes: inverse, length: t.length + delta}, nil
}

func (t *Transaction) growth() int {
	n := 0
	for _, c := range t.changes {
		if g := utf8.RuneCountInString(c.Insert) - (c.To - c.From); g > 0 {
			n += g
		}
	}
	return n
}
