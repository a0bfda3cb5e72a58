package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/completion"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionList = `{
  "isIncomplete": false,
  "items": [
    {"label": "println!", "kind": 3, "insertText": "println!()", "detail": "macro println"},
    {"label": "Vec", "kind": 22, "documentation": {"kind": "markdown", "value": "A growable **array**."},
     "textEdit": {"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 2}}, "newText": "Vec"}}
  ]
}`

const itemArray = `[{"label": "len", "kind": 2, "documentation": "Length."}]`

func TestDecodeJSONList(t *testing.T) {
	items, err := DecodeJSON([]byte(completionList))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "println!()", items[0].InsertLiteral())
	assert.Equal(t, candidate.KindFunction, items[0].Kind)
	assert.Equal(t, "macro println", items[0].Detail)

	require.NotNil(t, items[1].Edit)
	assert.Equal(t, "Vec", items[1].Edit.NewText)
	assert.Equal(t, 2, items[1].Edit.Range.End.Character)
	require.NotNil(t, items[1].Documentation)
	assert.Equal(t, candidate.Markdown, items[1].Documentation.Kind)
}

func TestDecodeJSONArray(t *testing.T) {
	items, err := DecodeJSON([]byte("  \n" + itemArray))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "len", items[0].Label)
	require.NotNil(t, items[0].Documentation)
	assert.Equal(t, "Length.", items[0].Documentation.Value)
}

// An insert-and-replace edit read from JSON must fail on accept, never land as a plain insert.
func TestDecodeJSONInsertReplaceEditFailsOnAccept(t *testing.T) {
	const raw = `[{"label": "print", "textEdit": {"newText": "print",
		"insert": {"start": {"line": 0, "character": 4}, "end": {"line": 0, "character": 7}},
		"replace": {"start": {"line": 0, "character": 4}, "end": {"line": 0, "character": 7}}}}]`
	items, err := DecodeJSON([]byte(raw))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Edit)
	assert.True(t, items[0].Edit.IsInsertReplace())
	assert.Equal(t, 4, items[0].Edit.Range.Start.Character)

	doc := buffer.NewText("xx; pri", 7, "source.rust")
	ctx := completion.Context{Doc: doc}
	c := completion.New(ctx, items, buffer.UTF16, 4, 4, completion.DefaultOptions())
	require.False(t, c.IsEmpty())
	c.Menu().MoveDown()

	err = c.Accept(ctx)
	assert.True(t, errors.Is(err, completion.ErrUnsupportedEdit), "got %v", err)
	assert.Equal(t, completion.Aborted, c.State())
	assert.Equal(t, "xx; pri", doc.String())
}

func TestMsgpackRoundTrip(t *testing.T) {
	r := buffer.Range{Start: buffer.Position{Line: 1, Character: 2}, End: buffer.Position{Line: 1, Character: 4}}
	in := []candidate.Candidate{{
		Label:           "HashMap",
		Kind:            candidate.KindStruct,
		Edit:            &candidate.TextEdit{Range: r, NewText: "HashMap", Insert: &r},
		AdditionalEdits: []candidate.TextEdit{{NewText: "use std::collections::HashMap;\n"}},
		Documentation:   &candidate.Documentation{Kind: candidate.Markdown, Value: "A hash map."},
	}}
	data, err := EncodeMsgpack(in)
	require.NoError(t, err)
	out, err := DecodeMsgpack(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rust.json"), []byte(completionList), 0o644))
	data, err := EncodeMsgpack([]candidate.Candidate{{Label: "fmt"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.msgpack"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := LoadDir(dir)
	require.Error(t, err, "broken.json is reported")
	require.NotNil(t, c)
	assert.Equal(t, []string{"go", "rust"}, c.Names())

	items, ok := c.Get("go")
	require.True(t, ok)
	assert.Equal(t, "fmt", items[0].Label)

	c.Remove(filepath.Join(dir, "go.msgpack"))
	_, ok = c.Get("go")
	assert.False(t, ok)
}

func TestLoadUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a"), 0o644))
	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
