package cli

import (
	"strconv"
	"strings"

	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/bastiangx/wordpop/pkg/completion"
	"github.com/bastiangx/wordpop/pkg/config"
	"github.com/bastiangx/wordpop/pkg/menu"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// view formats session state for a line oriented terminal.
type view struct {
	title    lipgloss.Style
	status   lipgloss.Style
	cursor   lipgloss.Style
	row      lipgloss.Style
	selected lipgloss.Style
	tag      lipgloss.Style
	frame    lipgloss.Style
	docStyle string
	wrap     int
}

func newView(cfg *config.Config) *view {
	fg := lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	v := &view{
		title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		status:   lipgloss.NewStyle().Italic(true).Faint(true),
		cursor:   lipgloss.NewStyle().Reverse(true),
		row:      lipgloss.NewStyle().PaddingLeft(1).Foreground(fg),
		selected: lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(lipgloss.Color("#26233a")).Background(lipgloss.Color("#c4a7e7")),
		tag:      lipgloss.NewStyle().Faint(true),
		frame:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
		docStyle: cfg.Docs.Style,
		wrap:     cfg.Docs.Wrap,
	}
	if c := cfg.Theme.SelectedBg; c != "" {
		v.selected = v.selected.Background(lipgloss.Color(c))
	}
	if c := cfg.Theme.SelectedFg; c != "" {
		v.selected = v.selected.Foreground(lipgloss.Color(c))
	}
	if c := cfg.Theme.KindFg; c != "" {
		v.tag = v.tag.Foreground(lipgloss.Color(c))
	}
	return v
}

// document prints the text with the cursor cell highlighted.
func (v *view) document(doc *buffer.Text) string {
	text := doc.Text()
	cursor := doc.Cursor()
	under := " "
	if cursor < len(text) && text[cursor] != '\n' {
		under = string(text[cursor])
		cursor++
	}
	return string(text[:doc.Cursor()]) + v.cursor.Render(under) + string(text[cursor:])
}

// menu prints up to maxRows rows around the selection.
func (v *view) menu(items []candidate.Candidate, selected, maxRows int) string {
	labelW := 0
	for _, c := range items {
		labelW = max(labelW, runewidth.StringWidth(c.Label))
	}
	first := 0
	if selected >= maxRows {
		first = selected - maxRows + 1
	}

	var b strings.Builder
	for i := first; i < len(items) && i < first+maxRows; i++ {
		row := items[i].Row()
		line := runewidth.FillRight(row.Label, labelW) + " " + v.tag.Render(row.Tag)
		style := v.row
		if i == selected {
			style = v.selected
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	if n := len(items) - first - maxRows; n > 0 {
		b.WriteString(v.status.Render(" … " + strconv.Itoa(n) + " more"))
		b.WriteByte('\n')
	}
	return b.String()
}

// docs renders the composed documentation with colours.
func (v *view) docs(src string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.docStyle),
		glamour.WithWordWrap(v.wrap),
	)
	if err != nil {
		log.Warnf("markdown renderer: %v", err)
		return src + "\n"
	}
	out, err := r.Render(src)
	if err != nil {
		log.Warnf("markdown render: %v", err)
		return src + "\n"
	}
	return out
}

// screen draws the document and popup onto a virtual terminal and returns its rows.
func (v *view) screen(doc *buffer.Text, session *completion.Completion, width, height int) ([]string, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Newf("bad screen size %dx%d", width, height)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "init screen")
	}
	defer screen.Fini()
	screen.SetSize(width, height)

	for y, line := range strings.Split(doc.String(), "\n") {
		if y >= height {
			break
		}
		x := 0
		for _, r := range line {
			screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x += runewidth.RuneWidth(r)
		}
	}
	if session != nil {
		session.Render(completion.Context{Doc: doc}, menu.NewRect(0, 0, width, height), screen)
	}

	lines := make([]string, height)
	for y := range lines {
		row := make([]rune, 0, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			row = append(row, r)
		}
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return lines, nil
}
