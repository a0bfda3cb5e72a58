package completion

import (
	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/cockroachdb/errors"
)

// ErrUnsupportedEdit is returned for the insert-and-replace edit variant.
// Such an edit is never downgraded to a plain insert: that would put the wrong text in the buffer.
var ErrUnsupportedEdit = errors.New("unsupported completion edit")

// ItemToTransaction turns a candidate into the transaction that applies it to text.
//
// An Edit wins over InsertText. Without an Edit the insert literal goes in at
// cursor. AdditionalEdits are not looked at.
func ItemToTransaction(text []rune, cursor int, item candidate.Candidate, enc buffer.OffsetEncoding) (*buffer.Transaction, error) {
	if item.Edit != nil {
		return EditToTransaction(text, *item.Edit, enc)
	}
	cursor = max(0, min(cursor, len(text)))
	return buffer.Insert(len(text), cursor, item.InsertLiteral())
}

// EditToTransaction transcodes edit's range from enc into rune offsets and
// replaces it with the new text.
func EditToTransaction(text []rune, edit candidate.TextEdit, enc buffer.OffsetEncoding) (*buffer.Transaction, error) {
	if edit.IsInsertReplace() {
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnsupportedEdit, "insert-and-replace edit for %q", edit.NewText),
			"the analysis service must send a plain text edit",
		)
	}
	from, to, err := buffer.ToRange(text, edit.Range, enc)
	if err != nil {
		return nil, errors.Wrap(err, "transcode edit range")
	}
	return buffer.NewTransaction(len(text), buffer.Change{From: from, To: to, Insert: edit.NewText})
}
