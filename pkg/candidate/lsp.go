package candidate

import (
	"encoding/json"

	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// FromProtocol converts an LSP completion item into a Candidate.
//
// The insert-and-replace edit variant is kept (as TextEdit.Insert) rather than
// rejected here, so that the menu can still show the item; turning it into an
// edit is what fails.
func FromProtocol(item protocol.CompletionItem) (Candidate, error) {
	c := Candidate{
		Label:      item.Label,
		FilterText: deref(item.FilterText),
		SortText:   deref(item.SortText),
		InsertText: deref(item.InsertText),
		Detail:     deref(item.Detail),
	}
	if item.Kind != nil {
		c.Kind = Kind(*item.Kind)
	}

	if item.TextEdit != nil {
		edit, err := textEditFrom(item.TextEdit)
		if err != nil {
			return Candidate{}, errors.Wrapf(err, "item %q", item.Label)
		}
		c.Edit = edit
	}
	for _, e := range item.AdditionalTextEdits {
		c.AdditionalEdits = append(c.AdditionalEdits, TextEdit{
			Range:   rangeFrom(e.Range),
			NewText: e.NewText,
		})
	}
	c.Documentation = documentationFrom(item.Documentation)
	return c, nil
}

// FromProtocolList converts every item, skipping and reporting those that fail.
func FromProtocolList(items []protocol.CompletionItem) ([]Candidate, error) {
	out := make([]Candidate, 0, len(items))
	var errs error
	for _, item := range items {
		c, err := FromProtocol(item)
		if err != nil {
			errs = errors.CombineErrors(errs, err)
			continue
		}
		out = append(out, c)
	}
	return out, errs
}

// FromJSON converts one raw LSP completion item.
//
// The text edit union is read from the raw object: glsp tries the plain
// shape first and would accept an insert-and-replace edit as a TextEdit with
// an empty range.
func FromJSON(raw []byte) (Candidate, error) {
	var item protocol.CompletionItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return Candidate{}, errors.Wrap(err, "completion item")
	}
	var unions struct {
		TextEdit json.RawMessage `json:"textEdit"`
	}
	if err := json.Unmarshal(raw, &unions); err != nil {
		return Candidate{}, errors.Wrapf(err, "item %q", item.Label)
	}

	item.TextEdit = nil
	c, err := FromProtocol(item)
	if err != nil {
		return Candidate{}, err
	}
	if len(unions.TextEdit) > 0 && string(unions.TextEdit) != "null" {
		if c.Edit, err = decodeTextEdit(unions.TextEdit); err != nil {
			return Candidate{}, errors.Wrapf(err, "item %q", item.Label)
		}
	}
	return c, nil
}

// FromJSONList converts every raw item, skipping and reporting those that fail.
func FromJSONList(items []json.RawMessage) ([]Candidate, error) {
	out := make([]Candidate, 0, len(items))
	var errs error
	for _, raw := range items {
		c, err := FromJSON(raw)
		if err != nil {
			errs = errors.CombineErrors(errs, err)
			continue
		}
		out = append(out, c)
	}
	return out, errs
}

// wireEdit covers both the plain and insert-and-replace shapes of an LSP text edit.
type wireEdit struct {
	NewText string          `json:"newText"`
	Range   *protocol.Range `json:"range,omitempty"`
	Insert  *protocol.Range `json:"insert,omitempty"`
	Replace *protocol.Range `json:"replace,omitempty"`
}

func decodeTextEdit(raw json.RawMessage) (*TextEdit, error) {
	var w wireEdit
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(err, "decode text edit")
	}
	switch {
	case w.Insert != nil || w.Replace != nil:
		if w.Insert == nil || w.Replace == nil {
			return nil, errors.Newf("insert-and-replace edit missing a range: %s", raw)
		}
		return insertReplace(protocol.InsertReplaceEdit{NewText: w.NewText, Insert: *w.Insert, Replace: *w.Replace}), nil
	case w.Range != nil:
		return &TextEdit{Range: rangeFrom(*w.Range), NewText: w.NewText}, nil
	}
	return nil, errors.Newf("text edit without a range: %s", raw)
}

func textEditFrom(v any) (*TextEdit, error) {
	switch e := v.(type) {
	case protocol.TextEdit:
		return &TextEdit{Range: rangeFrom(e.Range), NewText: e.NewText}, nil
	case *protocol.TextEdit:
		return &TextEdit{Range: rangeFrom(e.Range), NewText: e.NewText}, nil
	case protocol.InsertReplaceEdit:
		return insertReplace(e), nil
	case *protocol.InsertReplaceEdit:
		return insertReplace(*e), nil
	}
	return nil, errors.Newf("unrecognised text edit %T", v)
}

func insertReplace(e protocol.InsertReplaceEdit) *TextEdit {
	ins := rangeFrom(e.Insert)
	return &TextEdit{Range: rangeFrom(e.Replace), NewText: e.NewText, Insert: &ins}
}

// documentationFrom returns nil for anything it cannot read; a missing panel is not an error.
func documentationFrom(v any) *Documentation {
	switch d := v.(type) {
	case nil:
		return nil
	case string:
		return &Documentation{Kind: PlainText, Value: d}
	case protocol.MarkupContent:
		return markup(d)
	case *protocol.MarkupContent:
		return markup(*d)
	}
	return nil
}

func markup(m protocol.MarkupContent) *Documentation {
	if m.Kind == protocol.MarkupKindMarkdown {
		return &Documentation{Kind: Markdown, Value: m.Value}
	}
	return &Documentation{Kind: PlainText, Value: m.Value}
}

func rangeFrom(r protocol.Range) buffer.Range {
	return buffer.Range{
		Start: buffer.Position{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   buffer.Position{Line: int(r.End.Line), Character: int(r.End.Character)},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
