// Package candidate holds the completion item model shared by the menu, the
// ranking code and the edit synthesizer.
package candidate

import (
	"github.com/bastiangx/wordpop/pkg/buffer"
)

// Kind is the category an analysis service assigns to an item.
// Values follow the LSP CompletionItemKind numbering; zero means absent.
type Kind int

const (
	KindNone Kind = iota
	KindText
	KindMethod
	KindFunction
	KindConstructor
	KindField
	KindVariable
	KindClass
	KindInterface
	KindModule
	KindProperty
	KindUnit
	KindValue
	KindEnum
	KindKeyword
	KindSnippet
	KindColor
	KindFile
	KindReference
	KindFolder
	KindEnumMember
	KindConstant
	KindStruct
	KindEvent
	KindOperator
	KindTypeParameter
)

var kindTags = [...]string{
	KindNone:          "",
	KindText:          "text",
	KindMethod:        "method",
	KindFunction:      "function",
	KindConstructor:   "constructor",
	KindField:         "field",
	KindVariable:      "variable",
	KindClass:         "class",
	KindInterface:     "interface",
	KindModule:        "module",
	KindProperty:      "property",
	KindUnit:          "unit",
	KindValue:         "value",
	KindEnum:          "enum",
	KindKeyword:       "keyword",
	KindSnippet:       "snippet",
	KindColor:         "color",
	KindFile:          "file",
	KindReference:     "reference",
	KindFolder:        "folder",
	KindEnumMember:    "enum_member",
	KindConstant:      "constant",
	KindStruct:        "struct",
	KindEvent:         "event",
	KindOperator:      "operator",
	KindTypeParameter: "type_param",
}

// Tag is the short display token for k, or "" for KindNone and unknown values.
func (k Kind) Tag() string {
	if k < 0 || int(k) >= len(kindTags) {
		return ""
	}
	return kindTags[k]
}

// MarkupKind tells plain text documentation apart from markdown.
type MarkupKind int

const (
	PlainText MarkupKind = iota
	Markdown
)

// Documentation is the long-form description shown beside the menu.
type Documentation struct {
	Kind  MarkupKind
	Value string
}

// TextEdit replaces Range with NewText. Positions are in the session's OffsetEncoding.
//
// Insert is set only for the insert-and-replace variant, which carries a
// second range used when the user prefers inserting over replacing.
type TextEdit struct {
	Range   buffer.Range
	NewText string
	Insert  *buffer.Range
}

// IsInsertReplace reports whether the edit is the insert-and-replace variant.
func (e TextEdit) IsInsertReplace() bool {
	return e.Insert != nil
}

// Candidate is one completion suggestion. It is never modified after creation.
type Candidate struct {
	Label      string
	FilterText string
	SortText   string
	Kind       Kind
	// Edit takes precedence over InsertText when both are present.
	Edit *TextEdit
	// InsertText is used when Edit is nil; Label is used when both are empty.
	InsertText      string
	AdditionalEdits []TextEdit
	Documentation   *Documentation
	Detail          string
}
