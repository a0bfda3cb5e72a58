package server

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/catalog"
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/completion"
	"github.com/bastiangx/wordpop/pkg/config"
	"github.com/bastiangx/wordpop/pkg/menu"
	"github.com/bastiangx/wordpop/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/gdamore/tcell/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for one document and its completion popup.
type Server struct {
	mu           sync.Mutex
	config       *config.Config
	configPath   string
	catalog      *catalog.Catalog
	history      *suggest.History
	requestCount int

	doc     *buffer.Text
	session *completion.Completion

	dec *msgpack.Decoder
	enc *msgpack.Encoder
}

// NewServer creates a server reading requests from r and writing responses to w.
// cat may be nil.
func NewServer(cfg *config.Config, configPath string, cat *catalog.Catalog, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cat == nil {
		cat = catalog.New()
	}
	return &Server{
		config:     cfg,
		configPath: configPath,
		catalog:    cat,
		history:    suggest.NewHistory(cfg.Menu.HistorySize),
		dec:        msgpack.NewDecoder(r),
		enc:        msgpack.NewEncoder(w),
	}
}

// Start signals readiness and serves requests until the input closes.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	if err := s.enc.Encode(Response{Status: "ready"}); err != nil {
		return errors.Wrap(err, "write ready signal")
	}

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return errors.Wrap(err, "decode request")
		}
		if err := s.enc.Encode(s.Handle(req)); err != nil {
			return errors.Wrap(err, "write response")
		}
	}
}

// SetConfig swaps the config used for sessions opened from now on.
func (s *Server) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	log.SetLevel(cfg.LogLevel())
	log.Debug("Server config updated")
}

// ReloadConfig re-reads the config file the server was started with.
func (s *Server) ReloadConfig() error {
	if s.configPath == "" {
		return nil
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	s.SetConfig(cfg)
	return nil
}

// Catalog is the set of lists open requests can name.
func (s *Server) Catalog() *catalog.Catalog {
	return s.catalog
}

// Handle processes one request.
func (s *Server) Handle(req Request) Response {
	start := time.Now()
	s.maybeReload()

	s.mu.Lock()
	defer s.mu.Unlock()

	var resp Response
	switch req.Op {
	case "open":
		resp = s.handleOpen(req)
	case "type":
		resp = s.withDoc(req, func() error { return s.doc.Type(req.Text) })
	case "backspace":
		resp = s.withDoc(req, func() error { return s.doc.Backspace() })
	case "undo":
		resp = s.withDoc(req, func() error { s.doc.Undo(); return nil })
	case "redo":
		resp = s.withDoc(req, func() error { s.doc.Redo(); return nil })
	case "key":
		resp = s.handleKey(req)
	case "render":
		resp = s.handleRender(req)
	case "close":
		s.doc, s.session = nil, nil
		resp = Response{Status: "ok", State: "closed"}
	case "catalogs":
		resp = Response{Status: "ok", Catalogs: s.catalog.Names()}
	case "health":
		resp = Response{Status: "ok"}
	default:
		resp = errorResponse(CodeBadRequest, errors.Newf("unknown op %q", req.Op))
	}

	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

// maybeReload re-reads the config every ReloadInterval requests when the
// file is not being watched.
func (s *Server) maybeReload() {
	s.mu.Lock()
	s.requestCount++
	due := !s.config.Server.Watch && s.config.Server.ReloadInterval > 0 &&
		s.requestCount%s.config.Server.ReloadInterval == 0
	s.mu.Unlock()
	if !due {
		return
	}
	if err := s.ReloadConfig(); err != nil {
		log.Warnf("Config reload failed: %v", err)
	}
}

func (s *Server) handleOpen(req Request) Response {
	items, err := s.itemsFor(req)
	if err != nil {
		return errorResponse(CodeNotFound, err)
	}

	enc := s.config.OffsetEncoding()
	if req.Encoding != "" {
		if enc, err = buffer.ParseEncoding(req.Encoding); err != nil {
			return errorResponse(CodeBadRequest, err)
		}
	}

	s.doc = buffer.NewText(req.Text, req.Cursor, req.Language)
	cursor := s.doc.Cursor()
	startOffset, triggerOffset := cursor, cursor
	if req.Start != nil {
		startOffset = *req.Start
	}
	if req.Trigger != nil {
		triggerOffset = *req.Trigger
	}
	if startOffset < 0 || startOffset > s.doc.Len() || triggerOffset < 0 || triggerOffset > s.doc.Len() {
		s.doc = nil
		return errorResponse(CodeBadRequest, errors.Newf("start %d or trigger %d outside document", startOffset, triggerOffset))
	}

	s.session = completion.New(s.context(0), items, enc, startOffset, triggerOffset, s.config.SessionOptions(s.history))
	return s.snapshot()
}

func (s *Server) itemsFor(req Request) ([]candidate.Candidate, error) {
	if len(req.Items) > 0 {
		return catalog.Candidates(req.Items), nil
	}
	name := req.Catalog
	if name == "" {
		name = completion.LanguageID(req.Language, s.config.Docs.LanguagePrefix)
	}
	items, ok := s.catalog.Get(name)
	if !ok {
		return nil, errors.Newf("no catalog list %q", name)
	}
	return items, nil
}

// withDoc applies an editor-side edit and lets the session re-filter.
func (s *Server) withDoc(req Request, edit func() error) Response {
	if s.doc == nil {
		return errorResponse(CodeNotFound, errors.New("no open document"))
	}
	if err := edit(); err != nil {
		return errorResponse(CodeBadRequest, errors.Wrapf(err, "%s", req.Op))
	}
	if s.session != nil {
		s.session.OnDocumentChanged(s.context(req.ViewTop))
	}
	return s.snapshot()
}

func (s *Server) handleKey(req Request) Response {
	if s.session == nil {
		return errorResponse(CodeNotFound, errors.New("no completion session"))
	}
	ev, ok := completion.ParseKey(req.Key)
	if !ok {
		return errorResponse(CodeBadRequest, errors.Newf("unknown key %q", req.Key))
	}

	res, err := s.session.HandleKey(s.context(req.ViewTop), ev)
	if res == completion.Ignored && ev.Key() == tcell.KeyEscape {
		// the popup leaves Escape to the editor, which closes it
		s.session.Abort()
	}
	resp := s.snapshot()
	resp.Consumed = res == completion.Consumed
	if err != nil {
		log.Warnf("Completion edit failed: %v", err)
		resp.Status = "error"
		resp.Error = err.Error()
		resp.Code = CodeEditFailed
	}
	return resp
}

func (s *Server) handleRender(req Request) Response {
	if s.doc == nil {
		return errorResponse(CodeNotFound, errors.New("no open document"))
	}
	if req.Width <= 0 || req.Height <= 0 {
		return errorResponse(CodeBadRequest, errors.Newf("bad viewport %dx%d", req.Width, req.Height))
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return errorResponse(CodeInternal, errors.Wrap(err, "init screen"))
	}
	defer screen.Fini()
	screen.SetSize(req.Width, req.Height)

	viewport := menu.NewRect(0, 0, req.Width, req.Height)
	drawDocument(screen, s.doc.String(), req.ViewTop, viewport)

	resp := s.snapshot()
	if s.session != nil {
		s.session.Render(s.context(req.ViewTop), viewport, screen)
		menuArea, docArea := s.session.LastAreas()
		resp.Menu = rectOf(menuArea)
		resp.Docs = rectOf(docArea)
	}
	resp.Screen = screenLines(screen, req.Width, req.Height)
	return resp
}

func (s *Server) context(viewTop int) completion.Context {
	return completion.Context{Doc: s.doc, ViewTop: viewTop}
}

func (s *Server) snapshot() Response {
	resp := Response{Status: "ok", Selected: -1}
	if s.doc != nil {
		resp.Text = s.doc.String()
		resp.Cursor = s.doc.Cursor()
	}
	if s.session == nil {
		resp.State = "closed"
		resp.Empty = true
		return resp
	}

	resp.State = s.session.State().String()
	resp.Empty = s.session.IsEmpty()
	if !resp.Empty {
		m := s.session.Menu()
		for _, c := range m.Visible() {
			row := c.Row()
			resp.Rows = append(resp.Rows, Row{Label: row.Label, Tag: row.Tag})
		}
		resp.Selected = m.Cursor()
	}
	return resp
}

func errorResponse(code int, err error) Response {
	log.Debugf("Request failed (%d): %v", code, err)
	return Response{Status: "error", Error: err.Error(), Code: code, Selected: -1}
}

func rectOf(r menu.Rect) *Rect {
	if r.Empty() {
		return nil
	}
	return &Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func drawDocument(screen tcell.Screen, text string, top int, area menu.Rect) {
	lines := strings.Split(text, "\n")
	for row := 0; row < area.Height && top+row < len(lines); row++ {
		if top+row < 0 {
			continue
		}
		x := area.X
		for _, r := range lines[top+row] {
			if x >= area.Right() {
				break
			}
			screen.SetContent(x, area.Y+row, r, nil, tcell.StyleDefault)
			x++
		}
	}
}

func screenLines(screen tcell.SimulationScreen, width, height int) []string {
	lines := make([]string, height)
	row := make([]rune, 0, width)
	for y := 0; y < height; y++ {
		row = row[:0]
		for x := 0; x < width; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			row = append(row, r)
		}
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return lines
}
