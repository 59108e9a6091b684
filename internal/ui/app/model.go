package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	querydto "graphsearch/internal/modules/query/dto"
	"graphsearch/internal/ui/components"
	"graphsearch/internal/ui/theme"
	askview "graphsearch/internal/ui/views/ask"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type queryPort interface {
	Ask(ctx context.Context, query string) (querydto.AskOutput, error)
	Ingest(ctx context.Context, path string) (querydto.IngestOutput, error)
}

// ─── async messages ───────────────────────────────────────────────────────────

type ingestedMsg struct {
	out querydto.IngestOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Submit  key.Binding
	Scroll  key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),
		Scroll:  key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll answer")),
		Palette: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "palette")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Scroll},
		{k.Palette, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: it hosts the ask form and adds the
// status bar, the help overlay and the command palette around it.
type Model struct {
	ctx      context.Context
	endpoint string
	query    queryPort

	askView askview.Model

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(ctx context.Context, endpoint string, query queryPort, opts askview.Options) Model {
	var port askview.Port
	if query != nil {
		port = queryPortBridge{p: query}
	}
	return Model{
		ctx:      ctx,
		endpoint: endpoint,
		query:    query,
		askView:  askview.New(ctx, port, opts),
		keys:     defaultKeys(),
		help:     help.New(),
		palette:  components.NewPalette(),
		status:   "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.askView.Init()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		var cmd tea.Cmd
		m.askView, cmd = m.askView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 2})
		return m, cmd

	case askview.AnsweredMsg:
		if msg.Err != nil || msg.Out.Failed() {
			m.status = "query failed"
			if msg.Out.RequestID != "" {
				m.status += " (request " + msg.Out.RequestID + ")"
			}
		} else {
			m.status = "answered: " + truncate(msg.Query, 40)
		}

	case ingestedMsg:
		if msg.err != nil {
			m.status = "ingest failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("ingested %s (%d bytes, %s)", msg.out.Filename, msg.out.Bytes, msg.out.Status)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "f1" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "f1":
			m.showHelp = true
			return m, nil
		case "ctrl+k":
			return m, m.palette.Open()
		case "enter":
			if m.askView.Query() != "" {
				m.status = "asking " + m.endpoint
			}
		}
	}

	var cmd tea.Cmd
	m.askView, cmd = m.askView.Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.askView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (m Model) renderStatusBar() string {
	left := theme.Muted.Render(m.endpoint) + "  " + m.status
	right := theme.Muted.Render("enter:ask  ctrl+k:palette  f1:help  esc:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "ingest":
		path := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if path == "" {
			m.status = "usage: ingest <path>"
			return m, nil
		}
		m.status = "ingesting " + path
		return m, m.ingestCmd(path)

	case "clear":
		m.askView.Clear()
		m.status = "cleared"

	case "quit":
		return m, tea.Quit

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) ingestCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if m.query == nil {
			return ingestedMsg{err: fmt.Errorf("query adapter not configured")}
		}
		out, err := m.query.Ingest(m.ctx, path)
		return ingestedMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type queryPortBridge struct{ p queryPort }

func (b queryPortBridge) Ask(ctx context.Context, query string) (querydto.AskOutput, error) {
	return b.p.Ask(ctx, query)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
