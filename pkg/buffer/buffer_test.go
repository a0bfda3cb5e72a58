package buffer

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionRejectsBadChanges(t *testing.T) {
	testCases := []struct {
		name    string
		length  int
		changes []Change
	}{
		{"past end", 3, []Change{{From: 2, To: 4}}},
		{"negative", 3, []Change{{From: -1, To: 0}}},
		{"reversed", 3, []Change{{From: 2, To: 1}}},
		{"overlap", 5, []Change{{From: 0, To: 3}, {From: 2, To: 4}}},
		{"unsorted", 5, []Change{{From: 3, To: 3}, {From: 1, To: 1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTransaction(tc.length, tc.changes...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransaction))
		})
	}
}

func TestTransactionApplyAndMap(t *testing.T) {
	text := []rune("hello world")
	tx, err := NewTransaction(len(text),
		Change{From: 0, To: 5, Insert: "goodbye"},
		Change{From: 11, To: 11, Insert: "!"},
	)
	require.NoError(t, err)

	out, err := tx.Apply(text)
	require.NoError(t, err)
	assert.Equal(t, "goodbye world!", string(out))
	assert.Equal(t, "hello world", string(text), "input must not be modified")

	assert.Equal(t, 7, tx.MapPos(0), "start of replaced range lands after insert")
	assert.Equal(t, 8, tx.MapPos(6))
	assert.Equal(t, 14, tx.MapPos(11), "cursor at insertion point moves past it")
}

func TestTransactionApplyWrongLength(t *testing.T) {
	tx, err := Insert(3, 0, "x")
	require.NoError(t, err)
	_, err = tx.Apply([]rune("ab"))
	assert.True(t, errors.Is(err, ErrInvalidTransaction))
}

func TestTransactionInvert(t *testing.T) {
	text := []rune("abcdef")
	tx, err := NewTransaction(len(text),
		Change{From: 1, To: 3, Insert: "XYZ"},
		Change{From: 4, To: 6},
	)
	require.NoError(t, err)
	out, err := tx.Apply(text)
	require.NoError(t, err)
	assert.Equal(t, "aXYZd", string(out))

	inv, err := tx.Invert(text)
	require.NoError(t, err)
	back, err := inv.Apply(out)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(back))
}

func TestTextUndoRedo(t *testing.T) {
	doc := NewText("fmt.", 4, "source.go")
	require.NoError(t, doc.Type("Pr"))
	assert.Equal(t, "fmt.Pr", doc.String())
	assert.Equal(t, 6, doc.Cursor())

	require.NoError(t, doc.Backspace())
	assert.Equal(t, "fmt.P", doc.String())
	assert.Equal(t, 2, doc.Revisions())

	assert.True(t, doc.Undo())
	assert.Equal(t, "fmt.Pr", doc.String())
	assert.True(t, doc.Undo())
	assert.Equal(t, "fmt.", doc.String())
	assert.Equal(t, 4, doc.Cursor())
	assert.False(t, doc.Undo())

	assert.True(t, doc.Redo())
	assert.Equal(t, "fmt.Pr", doc.String())
}

func TestTextApplyIsAtomic(t *testing.T) {
	doc := NewText("abc", 3, "")
	tx, err := Insert(10, 0, "x")
	require.NoError(t, err)
	require.Error(t, doc.Apply(tx))
	assert.Equal(t, "abc", doc.String())
	assert.Equal(t, 0, doc.Revisions())
}

func TestToOffset(t *testing.T) {
	// "é" is one UTF-16 unit and two UTF-8 bytes, "😀" two UTF-16 units and four bytes.
	text := []rune("ab\né😀x\nlast")
	testCases := []struct {
		name string
		pos  Position
		enc  OffsetEncoding
		want int
	}{
		{"line start", Position{1, 0}, UTF16, 3},
		{"utf16 after emoji", Position{1, 3}, UTF16, 5},
		{"utf16 inside surrogate pair", Position{1, 2}, UTF16, 4},
		{"utf8 after e acute", Position{1, 2}, UTF8, 4},
		{"utf8 after emoji", Position{1, 6}, UTF8, 5},
		{"utf32", Position{1, 2}, UTF32, 5},
		{"clamp to line end", Position{0, 99}, UTF16, 2},
		{"last line", Position{2, 4}, UTF16, 11},
		{"one past last line", Position{3, 0}, UTF16, 11},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToOffset(text, tc.pos, tc.enc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ToOffset(text, Position{Line: 5}, UTF16)
	assert.True(t, errors.Is(err, ErrPositionOutOfRange))
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("UTF-8")
	require.NoError(t, err)
	assert.Equal(t, UTF8, enc)

	enc, err = ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, UTF16, enc)

	_, err = ParseEncoding("latin1")
	assert.Error(t, err)
}

func TestCoordsAt(t *testing.T) {
	text := []rune("one\ntwo\nthree")
	line, col := CoordsAt(text, 9)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}
