/*
Package completion drives one completion popup from the moment a list of
candidates arrives until the popup closes.

A Completion re-ranks its menu after every document change, previews the
highlighted candidate in the buffer, commits it on accept and lays out the
documentation panel next to the menu.

	c := completion.New(ctx, items, buffer.UTF16, start, trigger, completion.DefaultOptions())
	// after the editor inserted a typed character:
	c.OnDocumentChanged(ctx)
	if c.IsEmpty() {
		// close the popup
	}

Everything runs on the caller's goroutine; nothing here blocks.
*/
package completion

import (
	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/markdown"
	"github.com/bastiangx/wordpop/pkg/menu"
	"github.com/bastiangx/wordpop/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/gdamore/tcell/v2"
)

// State is where a session is in its lifecycle. Everything but Active is final.
type State int

const (
	Active State = iota
	// Empty means the ranked subset ran dry or the cursor moved before the start offset.
	Empty
	Accepted
	Aborted
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Empty:
		return "empty"
	case Accepted:
		return "accepted"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// EventResult tells the host whether a key was handled.
type EventResult int

const (
	Ignored EventResult = iota
	Consumed
)

// Context is the editor state an operation works against.
type Context struct {
	Doc buffer.Document
	// ViewTop is the first document line shown in the viewport.
	ViewTop int
}

// Options configure a session. The zero value of each field falls back to DefaultOptions.
type Options struct {
	Ranker         suggest.Ranker
	History        *suggest.History
	Renderer       markdown.Renderer
	Layout         Layout
	MaxRows        int
	// MinWidth is the narrowest the menu is drawn, viewport permitting.
	MinWidth       int
	Styles         menu.Styles
	PopupStyle     tcell.Style
	LanguagePrefix string
}

func DefaultOptions() Options {
	return Options{
		Ranker:         suggest.NewFuzzyRanker(nil),
		Renderer:       markdown.NewGlamour(""),
		Layout:         DefaultLayout(),
		MaxRows:        10,
		Styles:         menu.DefaultStyles(),
		PopupStyle:     tcell.StyleDefault,
		LanguagePrefix: "source.",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Ranker == nil {
		if o.History != nil {
			o.Ranker = suggest.NewFuzzyRanker(o.History)
		} else {
			o.Ranker = def.Ranker
		}
	}
	if o.Renderer == nil {
		o.Renderer = def.Renderer
	}
	if o.Layout == (Layout{}) {
		o.Layout = def.Layout
	}
	if o.MaxRows <= 0 {
		o.MaxRows = def.MaxRows
	}
	if o.Styles == (menu.Styles{}) {
		o.Styles = def.Styles
	}
	if o.LanguagePrefix == "" {
		o.LanguagePrefix = def.LanguagePrefix
	}
	return o
}

// Completion is one open completion popup.
type Completion struct {
	menu          *menu.Menu
	encoding      buffer.OffsetEncoding
	startOffset   int
	triggerOffset int
	state         State
	opts          Options

	menuArea menu.Rect
	docArea  menu.Rect
}

// New opens a session over items and ranks them right away, since the
// fragment between start and cursor may already be non-empty.
func New(ctx Context, items []candidate.Candidate, encoding buffer.OffsetEncoding, startOffset, triggerOffset int, opts Options) *Completion {
	opts = opts.withDefaults()
	c := &Completion{
		menu:          menu.New(items, opts.Ranker, opts.MaxRows, opts.Styles),
		encoding:      encoding,
		startOffset:   startOffset,
		triggerOffset: triggerOffset,
		opts:          opts,
	}
	log.Debug("completion session opened",
		"items", len(items), "start", startOffset, "trigger", triggerOffset, "encoding", encoding)
	c.OnDocumentChanged(ctx)
	return c
}

// OnDocumentChanged re-ranks the menu against the text between the start
// offset and the cursor. Moving the cursor before the start offset, or
// running out of matches, ends the session as Empty.
func (c *Completion) OnDocumentChanged(ctx Context) {
	if c.state != Active {
		return
	}
	text := ctx.Doc.Text()
	cursor := min(ctx.Doc.Cursor(), len(text))
	if cursor < c.startOffset {
		// backspaced past the anchor
		c.menu.Clear()
		c.finish(Empty)
		return
	}

	fragment := string(text[c.startOffset:cursor])
	c.menu.Score(fragment)
	log.Debug("completion refiltered", "fragment", fragment, "matches", c.menu.Len())
	if c.menu.IsEmpty() {
		c.finish(Empty)
	}
}

// HandleKey handles menu navigation and accept/abort keys. Escape and any
// key the menu has no use for are Ignored so the host can act on them.
//
// The returned error is non-nil only when the selected candidate could not be
// applied; the session is then Aborted and the document is left as it was
// before the failed preview or accept.
func (c *Completion) HandleKey(ctx Context, ev *tcell.EventKey) (EventResult, error) {
	if c.state != Active {
		return Ignored, nil
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		return Ignored, nil
	case tcell.KeyCtrlC:
		c.Abort()
		return Consumed, nil
	case tcell.KeyUp, tcell.KeyCtrlP, tcell.KeyBacktab:
		c.menu.MoveUp()
		return Consumed, c.Preview(ctx)
	case tcell.KeyDown, tcell.KeyCtrlN, tcell.KeyTab:
		c.menu.MoveDown()
		return Consumed, c.Preview(ctx)
	case tcell.KeyEnter:
		if _, ok := c.menu.Selection(); !ok {
			return Ignored, nil
		}
		return Consumed, c.Accept(ctx)
	}
	return Ignored, nil
}

// Preview writes the highlighted candidate into the document without
// committing: text typed since the trigger offset is removed first.
func (c *Completion) Preview(ctx Context) error {
	item, ok := c.menu.Selection()
	if !ok {
		return nil
	}
	if err := c.apply(ctx, item, false); err != nil {
		return errors.Wrap(err, "preview completion")
	}
	return nil
}

// Accept commits the highlighted candidate, then applies its additional
// edits in order, and ends the session as Accepted.
func (c *Completion) Accept(ctx Context) error {
	item, ok := c.menu.Selection()
	if !ok {
		return nil
	}
	if err := c.apply(ctx, item, true); err != nil {
		return errors.Wrap(err, "accept completion")
	}
	c.opts.History.Record(item.FilterKey())
	c.finish(Accepted)
	return nil
}

// Abort ends the session without touching the document.
func (c *Completion) Abort() {
	if c.state == Active {
		c.finish(Aborted)
	}
}

func (c *Completion) apply(ctx Context, item candidate.Candidate, withAdditional bool) error {
	plan, err := Plan(ctx.Doc.Text(), ctx.Doc.Cursor(), c.triggerOffset, item, c.encoding, withAdditional)
	if err != nil {
		c.finish(Aborted)
		return err
	}
	for _, tx := range plan {
		if err := ctx.Doc.Apply(tx); err != nil {
			c.finish(Aborted)
			return err
		}
	}
	return nil
}

// Plan computes every transaction needed to apply item, each against the
// document as the previous one leaves it: removal of [trigger, cursor) when
// the cursor has moved past the trigger, the candidate's own edit, then, if
// withAdditional, one transaction per additional edit in list order.
// Nothing is applied, so a failure part way leaves no trace.
func Plan(text []rune, cursor, trigger int, item candidate.Candidate, enc buffer.OffsetEncoding, withAdditional bool) ([]*buffer.Transaction, error) {
	var plan []*buffer.Transaction
	step := func(tx *buffer.Transaction) error {
		next, err := tx.Apply(text)
		if err != nil {
			return err
		}
		plan = append(plan, tx)
		cursor = tx.MapPos(cursor)
		text = next
		return nil
	}

	cursor = min(cursor, len(text))
	if trigger < cursor {
		remove, err := buffer.Delete(len(text), max(0, trigger), cursor)
		if err != nil {
			return nil, err
		}
		if err := step(remove); err != nil {
			return nil, err
		}
	}

	primary, err := ItemToTransaction(text, cursor, item, enc)
	if err != nil {
		return nil, err
	}
	if err := step(primary); err != nil {
		return nil, err
	}

	if !withAdditional {
		return plan, nil
	}
	for i, edit := range item.AdditionalEdits {
		tx, err := EditToTransaction(text, edit, enc)
		if err != nil {
			return nil, errors.Wrapf(err, "additional edit %d", i)
		}
		if err := step(tx); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (c *Completion) finish(s State) {
	c.state = s
	log.Debug("completion session closed", "state", s)
}

// State reports the lifecycle state.
func (c *Completion) State() State {
	return c.state
}

// IsEmpty reports whether the host should drop the session: it has no
// matches left or has already finished.
func (c *Completion) IsEmpty() bool {
	return c.state != Active || c.menu.IsEmpty()
}

// Menu exposes the ranked menu for hosts that draw it themselves.
func (c *Completion) Menu() *menu.Menu {
	return c.menu
}

func (c *Completion) StartOffset() int {
	return c.startOffset
}

func (c *Completion) TriggerOffset() int {
	return c.triggerOffset
}

// RequiredSize is the menu's preferred size in a viewport of the given size.
func (c *Completion) RequiredSize(width, height int) (int, int) {
	return c.menu.RequiredSize(width, height)
}

// LastAreas returns where the menu and documentation panel were drawn on the
// last Render, in viewport coordinates. An empty doc area means no panel.
func (c *Completion) LastAreas() (menuArea, docArea menu.Rect) {
	return c.menuArea, c.docArea
}
