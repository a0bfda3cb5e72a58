package candidate

import (
	"github.com/mattn/go-runewidth"
)

// Row is a two column menu row: label and kind tag.
type Row struct {
	Label string
	Tag   string
}

// Width is the display width of the row with one cell of padding between columns.
func (r Row) Width() int {
	w := runewidth.StringWidth(r.Label)
	if r.Tag != "" {
		w += 1 + runewidth.StringWidth(r.Tag)
	}
	return w
}

// SortKey is the text ranking ties are ordered by. Falls back to Label.
func (c Candidate) SortKey() string {
	if c.SortText != "" {
		return c.SortText
	}
	return c.Label
}

// FilterKey is the text the typed fragment is matched against. Falls back to Label.
func (c Candidate) FilterKey() string {
	if c.FilterText != "" {
		return c.FilterText
	}
	return c.Label
}

// DisplayLabel is the text shown in the menu's first column.
func (c Candidate) DisplayLabel() string {
	return c.Label
}

// Row projects the candidate into its menu row.
func (c Candidate) Row() Row {
	return Row{Label: c.Label, Tag: c.Kind.Tag()}
}

// InsertLiteral is what gets inserted at the cursor when the candidate carries no Edit.
func (c Candidate) InsertLiteral() string {
	if c.InsertText != "" {
		return c.InsertText
	}
	return c.Label
}

// HasDocs reports whether a documentation panel would have anything to show.
func (c Candidate) HasDocs() bool {
	return c.Detail != "" || (c.Documentation != nil && c.Documentation.Value != "")
}
