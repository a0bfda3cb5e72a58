// Package cli handles cmd line input for driving a completion popup by hand, for DBG and testing.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/catalog"
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/completion"
	"github.com/bastiangx/wordpop/pkg/config"
	"github.com/bastiangx/wordpop/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// errQuit ends the input loop without an error.
var errQuit = errors.New("quit")

// InputHandler reads lines from the user. Plain text is typed into an
// in-memory document and a completion session is opened at the cursor when
// none is active; lines starting with ':' are commands (see :help).
type InputHandler struct {
	config   *config.Config
	catalog  *catalog.Catalog
	list     string
	history  *suggest.History
	encoding buffer.OffsetEncoding
	language string

	doc     *buffer.Text
	session *completion.Completion
	view    *view

	in  io.Reader
	out io.Writer
}

// NewInputHandler creates a handler over the given catalog list.
func NewInputHandler(cfg *config.Config, cat *catalog.Catalog, list string, in io.Reader, out io.Writer) *InputHandler {
	if cat == nil {
		cat = catalog.New()
	}
	h := &InputHandler{
		config:   cfg,
		catalog:  cat,
		list:     list,
		history:  suggest.NewHistory(cfg.Menu.HistorySize),
		encoding: cfg.OffsetEncoding(),
		language: cfg.Docs.LanguagePrefix + list,
		view:     newView(cfg),
		in:       in,
		out:      out,
	}
	h.reset()
	return h
}

// Start begins the interface loop.
// It reads a line at a time and hands it to handleInput until the input ends or :q.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, h.view.title.Render("wordpop CLI [DBG]"))
	fmt.Fprintln(h.out, "type text to complete, :help for commands (Ctrl+D to exit)")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if err := h.handleInput(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			log.Errorf("%v", err)
		}
		h.print()
	}
}

func (h *InputHandler) reset() {
	h.doc = buffer.NewText("", 0, h.language)
	h.session = nil
}

func (h *InputHandler) ctx() completion.Context {
	return completion.Context{Doc: h.doc}
}

func (h *InputHandler) active() bool {
	return h.session != nil && !h.session.IsEmpty()
}

// handleInput types text or runs a command.
func (h *InputHandler) handleInput(line string) error {
	if strings.HasPrefix(line, ":") {
		fields := strings.Fields(line[1:])
		if len(fields) == 0 {
			return nil
		}
		return h.command(fields[0], fields[1:])
	}
	if line == "" {
		return nil
	}
	if !h.active() {
		if err := h.open(); err != nil {
			return err
		}
	}
	if err := h.doc.Type(line); err != nil {
		return err
	}
	h.changed()
	return nil
}

// open starts a session whose fragment begins at the cursor.
func (h *InputHandler) open() error {
	items, ok := h.catalog.Get(h.list)
	if !ok {
		return errors.Newf("no catalog list %q, try :lists", h.list)
	}
	start := time.Now()
	cursor := h.doc.Cursor()
	h.session = completion.New(h.ctx(), items, h.encoding, cursor, cursor, h.config.SessionOptions(h.history))
	log.Debugf("Took [ %v ] to open a session over %d items", time.Since(start), len(items))
	return nil
}

func (h *InputHandler) changed() {
	if h.session == nil {
		return
	}
	start := time.Now()
	h.session.OnDocumentChanged(h.ctx())
	log.Debugf("Took [ %v ] to refilter", time.Since(start))
}

func (h *InputHandler) command(name string, args []string) error {
	switch name {
	case "q", "quit":
		return errQuit
	case "help", "h":
		fmt.Fprintln(h.out, helpText)
	case "open":
		return h.open()
	case "bs":
		if err := h.doc.Backspace(); err != nil {
			return err
		}
		h.changed()
	case "nl":
		if err := h.doc.Type("\n"); err != nil {
			return err
		}
		h.changed()
	case "undo":
		h.doc.Undo()
		h.changed()
	case "redo":
		h.doc.Redo()
		h.changed()
	case "reset":
		h.reset()
	case "lists":
		fmt.Fprintln(h.out, strings.Join(h.catalog.Names(), " "))
	case "use":
		if len(args) != 1 {
			return errors.New("usage: :use <list>")
		}
		if _, ok := h.catalog.Get(args[0]); !ok {
			return errors.Newf("no catalog list %q", args[0])
		}
		h.list = args[0]
		h.language = h.config.Docs.LanguagePrefix + args[0]
		h.reset()
	case "render":
		return h.render(args)
	default:
		return h.key(name)
	}
	return nil
}

// key sends a named key (:tab, :s-tab, :up, :down, :enter, :esc, :c-c, ...) to the session.
func (h *InputHandler) key(name string) error {
	ev, ok := completion.ParseKey(name)
	if !ok {
		return errors.Newf("unknown command :%s", name)
	}
	if h.session == nil {
		return errors.New("no completion session, type something first")
	}
	res, err := h.session.HandleKey(h.ctx(), ev)
	if res == completion.Ignored {
		log.Debugf("key %s ignored by the popup", name)
		if name == "esc" || name == "escape" {
			h.session.Abort()
		}
	}
	return err
}

func (h *InputHandler) render(args []string) error {
	width, height := 80, 24
	if len(args) == 1 {
		w, hh, ok := strings.Cut(args[0], "x")
		if !ok {
			return errors.New("usage: :render <width>x<height>")
		}
		var err error
		if width, err = strconv.Atoi(w); err != nil {
			return errors.Wrap(err, "width")
		}
		if height, err = strconv.Atoi(hh); err != nil {
			return errors.Wrap(err, "height")
		}
	}
	lines, err := h.view.screen(h.doc, h.session, width, height)
	if err != nil {
		return err
	}
	fmt.Fprintln(h.out, h.view.frame.Render(strings.Join(lines, "\n")))
	return nil
}

// print shows the document with its cursor, the menu and the selection's docs.
func (h *InputHandler) print() {
	fmt.Fprintln(h.out, h.view.document(h.doc))
	if h.session == nil {
		return
	}
	if !h.active() {
		fmt.Fprintln(h.out, h.view.status.Render("completion "+h.session.State().String()))
		return
	}
	m := h.session.Menu()
	fmt.Fprint(h.out, h.view.menu(m.Visible(), m.Cursor(), h.config.Menu.MaxRows))
	if sel, ok := m.Selection(); ok {
		h.printDocs(sel)
	}
}

func (h *InputHandler) printDocs(item candidate.Candidate) {
	doc, ok := completion.ComposeDocs(item, completion.LanguageID(h.language, h.config.Docs.LanguagePrefix))
	if !ok {
		return
	}
	fmt.Fprint(h.out, h.view.docs(doc))
}

const helpText = `commands:
  :tab :s-tab :up :down :c-n :c-p   move the selection (previews it)
  :enter                            accept the selection
  :esc :c-c                         close the popup
  :open                             open a popup at the cursor
  :bs :nl                           backspace, newline
  :undo :redo :reset                document history
  :lists :use <list>                catalog lists
  :render [WxH]                     draw the popup on a virtual screen
  :q                                quit`
