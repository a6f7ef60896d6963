package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/jtalk/labeler"
	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/njd"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	surfaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	featureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively analyze text",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("explore requires a terminal")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := labeler.BackendConfig{
			Kind:   labeler.BackendKind(backendKind),
			Path:   libPath,
			FSRoot: fsRoot,
		}
		m := newExploreModel(cfg, labeler.Config{DictDir: dictDir, UserDict: userDict})
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		m.close()
		return err
	},
}

func init() {
	dictFlags(exploreCmd)
	rootCmd.AddCommand(exploreCmd)
}

type viewMode int

const (
	viewNodes viewMode = iota
	viewLabels
)

type exploreModel struct {
	err       error
	backend   native.Backend
	labeler   *labeler.Labeler
	backendCf labeler.BackendConfig
	labelerCf labeler.Config
	text      string
	nodes     []njd.Node
	labels    []string
	input     textinput.Model
	selected  int
	mode      viewMode
	loaded    bool
}

type loadedMsg struct {
	err     error
	backend native.Backend
	labeler *labeler.Labeler
}

type analyzedMsg struct {
	err    error
	text   string
	nodes  []njd.Node
	labels []string
}

func newExploreModel(backendCf labeler.BackendConfig, labelerCf labeler.Config) *exploreModel {
	ti := textinput.New()
	ti.Placeholder = "日本語のテキスト"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &exploreModel{
		backendCf: backendCf,
		labelerCf: labelerCf,
		input:     ti,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return tea.Batch(m.load, textinput.Blink)
}

func (m *exploreModel) load() tea.Msg {
	ctx := context.Background()

	backend, err := labeler.OpenBackend(ctx, m.backendCf)
	if err != nil {
		return loadedMsg{err: err}
	}
	l, err := labeler.New(native.New(backend), m.labelerCf)
	if err != nil {
		_ = backend.Close(ctx)
		return loadedMsg{err: err}
	}
	return loadedMsg{backend: backend, labeler: l}
}

func (m *exploreModel) close() {
	if m.labeler != nil {
		_ = m.labeler.Close()
		m.labeler = nil
	}
	if m.backend != nil {
		_ = m.backend.Close(context.Background())
		m.backend = nil
	}
}

func (m *exploreModel) analyze(text string) tea.Cmd {
	l := m.labeler
	return func() tea.Msg {
		nodes, err := l.Analyze(text)
		if err != nil {
			return analyzedMsg{err: err, text: text}
		}
		labels, err := l.ExtractFullContext(text)
		return analyzedMsg{err: err, text: text, nodes: nodes, labels: labels}
	}
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < m.rows()-1 {
				m.selected++
			}
			return m, nil

		case "tab":
			if m.mode == viewNodes {
				m.mode = viewLabels
			} else {
				m.mode = viewNodes
			}
			m.selected = 0
			return m, nil

		case "enter":
			if m.labeler == nil {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			return m, m.analyze(text)
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.backend = msg.backend
		m.labeler = msg.labeler
		return m, nil

	case analyzedMsg:
		m.text = msg.text
		m.err = msg.err
		m.nodes = msg.nodes
		m.labels = msg.labels
		m.selected = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *exploreModel) rows() int {
	if m.mode == viewNodes {
		return len(m.nodes)
	}
	return len(m.labels)
}

func (m *exploreModel) View() string {
	if !m.loaded {
		return "Loading dictionary..."
	}
	if m.labeler == nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("open_jtalk"))
	b.WriteString(" ")
	b.WriteString(m.labelerCf.DictDir)
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")

	case m.text != "" && m.mode == viewNodes:
		b.WriteString(fmt.Sprintf("%d nodes for %s\n\n", len(m.nodes), resultStyle.Render(m.text)))
		for i, n := range m.nodes {
			line := surfaceStyle.Render(n.Surface.String()) + " " + featureStyle.Render(formatNode(n))
			if i == m.selected {
				line = selectedStyle.Render("> " + n.Surface.String() + " " + formatNode(n))
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

	case m.text != "":
		b.WriteString(fmt.Sprintf("%d labels for %s\n\n", len(m.labels), resultStyle.Render(m.text)))
		for i, label := range m.labels {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + label))
			} else {
				b.WriteString("  " + featureStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter analyze • tab nodes/labels • ↑/↓ select • esc quit"))
	return b.String()
}
