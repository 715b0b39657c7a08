package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"aiact/internal/pipeline"
	"aiact/internal/risk"
)

// AnalyzerPort is the TUI-facing subset of the compliance service.
type AnalyzerPort interface {
	Analyze(ctx context.Context, req pipeline.Request) (pipeline.Outcome, error)
}

type section int

const (
	sectionGuide section = iota
	sectionFunctionalities
	sectionExtract
	sectionCount
)

func (s section) title() string {
	switch s {
	case sectionFunctionalities:
		return "Key functionalities"
	case sectionExtract:
		return "AI Act extract"
	default:
		return "Compliance guide"
	}
}

type analysisMsg struct {
	outcome pipeline.Outcome
	err     error
}

// Options tune rendering. GlamourStyle is a glamour standard style name;
// empty selects one from the terminal background.
type Options struct {
	MaxLength    int
	GlamourStyle string
}

// Model is the Bubble Tea model for the compliance dashboard.
type Model struct {
	service  AnalyzerPort
	opts     Options
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	outcome  *pipeline.Outcome
	section  section
	status   string
	busy     bool
	cancel   context.CancelFunc
	width    int
	ready    bool
}

// New creates a new dashboard model.
func New(service AnalyzerPort, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe your AI project, then press ctrl+s"
	ta.ShowLineNumbers = false
	ta.CharLimit = opts.MaxLength
	ta.SetHeight(5)
	ta.Focus()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		service:  service,
		opts:     opts,
		input:    ta,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		status:   "ctrl+s analyse · tab switch section · pgup/pgdn scroll · esc cancel · ctrl+c quit",
	}
}

func (m Model) Init() tea.Cmd { return textarea.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = max(20, msg.Width)
		_, oh := outputBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		// header, scale (2 lines), section title, status
		reserved := 5 + m.input.Height() + ih + oh
		m.input.SetWidth(m.width - 4)
		m.viewport.Width = m.width - 4
		m.viewport.Height = max(3, msg.Height-reserved)
		m.viewport.SetContent(m.renderSection())
		return m, nil

	case analysisMsg:
		m.busy = false
		m.cancel = nil
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		out := msg.outcome
		m.outcome = &out
		m.section = sectionGuide
		if out.Terminal == pipeline.ShortCircuited {
			m.section = sectionFunctionalities
		}
		m.status = fmt.Sprintf("Done (%s)", out.Terminal)
		m.viewport.SetContent(m.renderSection())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "ctrl+s":
			return m.submit()
		case "esc":
			if m.cancel != nil {
				m.cancel()
				m.status = "Cancelling..."
			}
			return m, nil
		case "tab":
			if m.outcome != nil {
				m.section = (m.section + 1) % sectionCount
				m.viewport.SetContent(m.renderSection())
				m.viewport.GotoTop()
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	desc := strings.TrimSpace(m.input.Value())
	if desc == "" {
		m.status = "Enter a project description first."
		return m, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.busy = true
	m.cancel = cancel
	m.status = "Analysing..."
	service := m.service
	req := pipeline.Request{ProjectDescription: desc, MaxLength: m.opts.MaxLength}
	run := func() tea.Msg {
		defer cancel()
		out, err := service.Analyze(ctx, req)
		return analysisMsg{outcome: out, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Act Compliance Assistant"))
	b.WriteString("\n")
	category := risk.Unknown
	if m.outcome != nil {
		category = risk.Detect(m.outcome.Result.RiskLevel)
	}
	b.WriteString(renderScale(category, m.width-2))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.section.title()))
	b.WriteString("\n")
	b.WriteString(outputBoxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")
	status := m.status
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

func (m Model) renderSection() string {
	if m.outcome == nil {
		return "No analysis yet."
	}
	res := m.outcome.Result
	switch m.section {
	case sectionFunctionalities:
		return res.KeyFunctionalities + "\n\nRisk level: " + res.RiskLevel
	case sectionExtract:
		if res.AiactExtract == "" {
			return "No extract retrieved."
		}
		return highlightBestSentence(res.AiactExtract, res.KeyFunctionalities)
	default:
		if m.outcome.Terminal == pipeline.ShortCircuited {
			return "The project falls under prohibited practices; no compliance guide applies."
		}
		return m.renderMarkdown(res.ComplianceGuide)
	}
}

func (m Model) renderMarkdown(md string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(max(20, m.viewport.Width-2))}
	if m.opts.GlamourStyle != "" {
		opts = append(opts, glamour.WithStandardStyle(m.opts.GlamourStyle))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	sectionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	outputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
