package ask

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	querydto "graphsearch/internal/modules/query/dto"
	"graphsearch/internal/ui/theme"
)

const heading = "Graph-Powered Conversational Search"

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the query use-case.
type Port interface {
	Ask(ctx context.Context, query string) (querydto.AskOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// AnsweredMsg is sent when a submission settles, successfully or not.
type AnsweredMsg struct {
	Query string
	Out   querydto.AskOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Options struct {
	RenderMarkdown bool
}

// Model is the query form. It owns the query text, the last response and the
// in-flight flag. Overlapping submissions are not blocked; whichever answer
// arrives last is the one displayed.
type Model struct {
	ctx      context.Context
	port     Port
	input    textinput.Model
	spinner  spinner.Model
	output   viewport.Model
	renderer *glamour.TermRenderer
	markdown bool

	response    querydto.AskOutput
	hasResponse bool
	loading     bool
	width       int
	height      int
}

func New(ctx context.Context, port Port, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	m := Model{
		ctx:      ctx,
		port:     port,
		input:    ti,
		spinner:  sp,
		output:   viewport.New(0, 0),
		markdown: opts.RenderMarkdown,
	}
	if m.markdown {
		m.renderer = newRenderer(0)
	}
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.output.SetContent(m.renderResponse())

	case AnsweredMsg:
		m.loading = false
		m.layout()
		if msg.Err != nil {
			m.response = querydto.FailureOutput()
		} else {
			m.response = msg.Out
		}
		m.hasResponse = true
		m.output.SetContent(m.renderResponse())
		m.output.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.Submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
	}

	var iCmd tea.Cmd
	m.input, iCmd = m.input.Update(msg)
	cmds = append(cmds, iCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(heading) + "\n\n")

	inputW := m.width - 12
	if inputW < 20 {
		inputW = 60
	}
	form := lipgloss.JoinHorizontal(lipgloss.Center,
		theme.PaneActive.Width(inputW).Render(m.input.View()),
		"  ",
		theme.Hot.Render("[ Ask ]"),
	)
	sb.WriteString(form + "\n")

	if m.loading {
		sb.WriteString("\n" + m.spinner.View() + " Loading...\n")
	}
	if m.hasResponse {
		sb.WriteString("\n")
		if m.height > 0 {
			sb.WriteString(m.output.View())
		} else {
			sb.WriteString(m.renderResponse())
		}
	}
	return sb.String()
}

// Submit starts a request for the current query. An empty query is ignored
// and leaves every piece of state untouched.
func (m *Model) Submit() tea.Cmd {
	query := m.input.Value()
	if query == "" {
		return nil
	}
	m.loading = true
	m.layout()
	return tea.Batch(m.askCmd(query), m.spinner.Tick)
}

// Clear drops the displayed response; the query text is kept.
func (m *Model) Clear() {
	m.response = querydto.AskOutput{}
	m.hasResponse = false
	m.output.SetContent("")
}

func (m *Model) SetQuery(q string) { m.input.SetValue(q) }

func (m Model) Query() string { return m.input.Value() }

func (m Model) Loading() bool { return m.loading }

// Response returns the last settled response, if any.
func (m Model) Response() (querydto.AskOutput, bool) { return m.response, m.hasResponse }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.layout()
	if m.markdown {
		if r := newRenderer(m.width); r != nil {
			m.renderer = r
		}
	}
}

// layout sizes the input and the output region. The loading line takes two
// rows from the output while a request is in flight.
func (m *Model) layout() {
	m.input.Width = m.width - 16
	m.output.Width = m.width
	// title (2) + form box (3) + spacing (2)
	m.output.Height = m.height - 7
	if m.loading {
		m.output.Height -= 2
	}
	if m.output.Height < 1 {
		m.output.Height = 1
	}
}

func (m Model) renderResponse() string {
	if !m.hasResponse {
		return ""
	}
	blocks := make([]string, 0, len(m.response.Sections))
	for _, s := range m.response.Sections {
		blocks = append(blocks, m.renderSection(s))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderSection(s querydto.SectionOutput) string {
	var sb strings.Builder
	if s.Kind == "error" {
		return theme.Error.Render(s.Body)
	}
	if s.Heading != "" {
		sb.WriteString(theme.Heading.Render(s.Heading) + "\n")
	}
	if s.Body != "" {
		sb.WriteString(m.renderBody(s.Body))
	}
	for i, item := range s.Items {
		if i > 0 || s.Body != "" {
			sb.WriteString("\n")
		}
		sb.WriteString("  • " + item)
	}
	return sb.String()
}

func (m Model) renderBody(body string) string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			return strings.Trim(rendered, "\n")
		}
	}
	return body
}

func (m Model) askCmd(query string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return AnsweredMsg{Query: query, Out: querydto.FailureOutput()}
		}
		out, err := m.port.Ask(m.ctx, query)
		return AnsweredMsg{Query: query, Out: out, Err: err}
	}
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}
