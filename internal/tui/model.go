package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/avatartag/internal/pipeline"
)

const logLines = 8

// Model is the Bubble Tea model of the labeling screen.
// It must only be used after the pipeline session is ready.
type Model struct {
	pipeline *pipeline.Pipeline
	logs     *LogHook

	keys  KeyMap
	help  help.Model
	input textinput.Model

	commanding  bool
	showSummary bool
	status      string
	err         error
	width       int
}

// New creates the labeling screen over a ready pipeline. logs may be nil.
func New(p *pipeline.Pipeline, logs *LogHook) Model {
	ti := textinput.New()
	ti.Placeholder = "body athletic build | hair shaved"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	if logs == nil {
		logs = NewLogHook(logLines)
	}

	return Model{
		pipeline: p,
		logs:     logs,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    ti,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.commanding {
			return m.updateCommand(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.pipeline.Session()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		_, err := s.Next()
		m.setErr(err)

	case key.Matches(msg, m.keys.Previous):
		_, err := s.Previous()
		m.setErr(err)

	case key.Matches(msg, m.keys.Label):
		category := int(msg.String()[0] - '1')
		if err := s.Label(category); err != nil {
			m.setErr(err)
			break
		}
		m.err = nil
		m.status = fmt.Sprintf("Marked index %d as %s", s.Current(), strings.ToUpper(s.Vocabulary().CategoryName(category)))

	case key.Matches(msg, m.keys.Summary):
		m.showSummary = !m.showSummary
		if m.showSummary {
			m.setErr(m.pipeline.LogSummary())
		}

	case key.Matches(msg, m.keys.Command):
		m.commanding = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		line := m.input.Value()
		m.closeInput()
		m.runCommand(line)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.commanding = false
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) runCommand(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	res, err := m.pipeline.Command(line)
	if err != nil {
		m.setErr(err)
		return
	}

	m.err = nil
	if !res.Result.Resolved() {
		m.status = fmt.Sprintf("could not understand %s from '%s'", res.Vocabulary, res.Text)
		return
	}
	m.status = fmt.Sprintf("%s set to %s", res.Vocabulary, res.Asset)
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.status = ""
	}
}

// View implements tea.Model
func (m Model) View() string {
	s := m.pipeline.Session()
	vocab := s.Vocabulary()

	var b strings.Builder

	b.WriteString(headerStyle.Render("avatartag · " + vocab.Name()))
	b.WriteString("\n\n")

	target, _ := m.pipeline.Element(m.pipeline.Target())
	asset, _ := target.Asset(s.Current())
	fmt.Fprintf(&b, "Item %d/%d  %s\n", s.Current()+1, s.ItemCount(), itemStyle.Render(asset))

	labels, err := s.Summary()
	if err == nil {
		var tags []string
		for i := 0; i < vocab.Len(); i++ {
			for _, item := range labels[i] {
				if item == s.Current() {
					tags = append(tags, vocab.CategoryName(i))
					break
				}
			}
		}
		if len(tags) == 0 {
			tags = []string{"-"}
		}
		b.WriteString(labelStyle.Render("Tags: " + strings.Join(tags, ", ")))
		b.WriteString("\n")
	}

	var categories []string
	for i := 0; i < vocab.Len(); i++ {
		categories = append(categories, fmt.Sprintf("%d %s", i+1, vocab.CategoryName(i)))
	}
	b.WriteString(labelStyle.Render(strings.Join(categories, "  ")))
	b.WriteString("\n")

	for _, name := range m.pipeline.Vocabularies() {
		if name == m.pipeline.Target() {
			continue
		}
		e, _ := m.pipeline.Element(name)
		current, ok := e.Asset(e.Selected())
		if !ok {
			current = "-"
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%s: %s", name, current)))
		b.WriteString("\n")
	}

	if m.showSummary {
		if report, err := s.Report(); err == nil {
			b.WriteString("\n")
			b.WriteString(paneStyle.Render(strings.Join(pipeline.SummaryLines(report), "\n")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle(m.status))
	}
	b.WriteString("\n")

	if lines := m.logs.Tail(logLines); len(lines) > 0 {
		b.WriteString(logStyle(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	if m.commanding {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().MaxWidth(m.maxWidth()).Render(b.String())
}

func (m Model) maxWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 120
}
