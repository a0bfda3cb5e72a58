package buffer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrPositionOutOfRange is returned when a position names a line past the end of the document.
var ErrPositionOutOfRange = errors.New("position out of range")

// OffsetEncoding is the unit an analysis service counts columns in.
type OffsetEncoding int

const (
	// UTF16 is the LSP default.
	UTF16 OffsetEncoding = iota
	UTF8
	// UTF32 counts code points, which is the buffer's native unit.
	UTF32
)

func (e OffsetEncoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF32:
		return "utf-32"
	default:
		return "utf-16"
	}
}

// ParseEncoding accepts the LSP position encoding names ("utf-8", "utf-16", "utf-32").
func ParseEncoding(s string) (OffsetEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-16", "utf16":
		return UTF16, nil
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-32", "utf32":
		return UTF32, nil
	}
	return UTF16, errors.Newf("unknown offset encoding %q", s)
}

// Position is a zero based line and column, the column counted in some OffsetEncoding.
type Position struct {
	Line      int
	Character int
}

// Range is a half open [Start, End) span of Positions.
type Range struct {
	Start Position
	End   Position
}

// ToOffset converts pos, counted in enc, into a rune offset into text.
//
// A column past the end of its line clamps to the line end, and a column that
// falls inside a multi-unit character lands on that character. A line one past
// the last line addresses the end of the document.
func ToOffset(text []rune, pos Position, enc OffsetEncoding) (int, error) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, errors.Wrapf(ErrPositionOutOfRange, "negative position %d:%d", pos.Line, pos.Character)
	}
	start := 0
	for line := 0; line < pos.Line; line++ {
		nl := indexRune(text, start, '\n')
		if nl < 0 {
			if line+1 == pos.Line {
				return len(text), nil
			}
			return 0, errors.Wrapf(ErrPositionOutOfRange,
				"line %d beyond document with %d lines", pos.Line, line+1)
		}
		start = nl + 1
	}

	units := 0
	i := start
	for ; i < len(text) && text[i] != '\n'; i++ {
		if units >= pos.Character {
			break
		}
		units += unitLen(text[i], enc)
		if units > pos.Character {
			break
		}
	}
	return i, nil
}

// ToRange converts both ends of r with ToOffset.
func ToRange(text []rune, r Range, enc OffsetEncoding) (from, to int, err error) {
	from, err = ToOffset(text, r.Start, enc)
	if err != nil {
		return 0, 0, err
	}
	to, err = ToOffset(text, r.End, enc)
	if err != nil {
		return 0, 0, err
	}
	if to < from {
		from, to = to, from
	}
	return from, to, nil
}

func unitLen(r rune, enc OffsetEncoding) int {
	switch enc {
	case UTF8:
		if n := utf8.RuneLen(r); n > 0 {
			return n
		}
		return 3
	case UTF32:
		return 1
	default:
		if n := utf16.RuneLen(r); n > 0 {
			return n
		}
		return 1
	}
}

func indexRune(text []rune, from int, r rune) int {
	for i := from; i < len(text); i++ {
		if text[i] == r {
			return i
		}
	}
	return -1
}
