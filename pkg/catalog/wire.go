package catalog

import (
	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/candidate"
)

// Range is the compact msgpack form of a buffer.Range.
type Range struct {
	StartLine int `msgpack:"sl"`
	StartChar int `msgpack:"sc"`
	EndLine   int `msgpack:"el"`
	EndChar   int `msgpack:"ec"`
}

// Edit is the compact msgpack form of a candidate.TextEdit.
type Edit struct {
	Range   Range  `msgpack:"r"`
	NewText string `msgpack:"t"`
	Insert  *Range `msgpack:"ir,omitempty"`
}

// Item is the msgpack form of a candidate, used by .msgpack catalogs and the IPC server.
type Item struct {
	Label      string `msgpack:"l"`
	FilterText string `msgpack:"f,omitempty"`
	SortText   string `msgpack:"s,omitempty"`
	Kind       int    `msgpack:"k,omitempty"`
	InsertText string `msgpack:"i,omitempty"`
	Edit       *Edit  `msgpack:"e,omitempty"`
	Additional []Edit `msgpack:"a,omitempty"`
	Detail     string `msgpack:"d,omitempty"`
	Docs       string `msgpack:"doc,omitempty"`
	Markdown   bool   `msgpack:"md,omitempty"`
}

func (r Range) toBuffer() buffer.Range {
	return buffer.Range{
		Start: buffer.Position{Line: r.StartLine, Character: r.StartChar},
		End:   buffer.Position{Line: r.EndLine, Character: r.EndChar},
	}
}

func rangeOf(r buffer.Range) Range {
	return Range{
		StartLine: r.Start.Line, StartChar: r.Start.Character,
		EndLine: r.End.Line, EndChar: r.End.Character,
	}
}

func (e Edit) toCandidate() candidate.TextEdit {
	out := candidate.TextEdit{Range: e.Range.toBuffer(), NewText: e.NewText}
	if e.Insert != nil {
		r := e.Insert.toBuffer()
		out.Insert = &r
	}
	return out
}

func editOf(e candidate.TextEdit) Edit {
	out := Edit{Range: rangeOf(e.Range), NewText: e.NewText}
	if e.Insert != nil {
		r := rangeOf(*e.Insert)
		out.Insert = &r
	}
	return out
}

// Candidate converts the wire item.
func (it Item) Candidate() candidate.Candidate {
	c := candidate.Candidate{
		Label:      it.Label,
		FilterText: it.FilterText,
		SortText:   it.SortText,
		Kind:       candidate.Kind(it.Kind),
		InsertText: it.InsertText,
		Detail:     it.Detail,
	}
	if it.Edit != nil {
		e := it.Edit.toCandidate()
		c.Edit = &e
	}
	for _, e := range it.Additional {
		c.AdditionalEdits = append(c.AdditionalEdits, e.toCandidate())
	}
	if it.Docs != "" {
		kind := candidate.PlainText
		if it.Markdown {
			kind = candidate.Markdown
		}
		c.Documentation = &candidate.Documentation{Kind: kind, Value: it.Docs}
	}
	return c
}

// ItemOf converts a candidate into its wire form.
func ItemOf(c candidate.Candidate) Item {
	it := Item{
		Label:      c.Label,
		FilterText: c.FilterText,
		SortText:   c.SortText,
		Kind:       int(c.Kind),
		InsertText: c.InsertText,
		Detail:     c.Detail,
	}
	if c.Edit != nil {
		e := editOf(*c.Edit)
		it.Edit = &e
	}
	for _, e := range c.AdditionalEdits {
		it.Additional = append(it.Additional, editOf(e))
	}
	if c.Documentation != nil {
		it.Docs = c.Documentation.Value
		it.Markdown = c.Documentation.Kind == candidate.Markdown
	}
	return it
}

// Candidates converts a list of wire items.
func Candidates(items []Item) []candidate.Candidate {
	out := make([]candidate.Candidate, len(items))
	for i, it := range items {
		out[i] = it.Candidate()
	}
	return out
}
