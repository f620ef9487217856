// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumbmux/internal/app/terminal"
	"github.com/bnema/dumbmux/internal/cli"
	"github.com/bnema/dumbmux/internal/cli/styles"
	"github.com/bnema/dumbmux/internal/logging"
)

const maxCommandHistory = 100

// Executor runs one command line, as cli.Controller does.
type Executor interface {
	Execute(ctx context.Context, line string) (string, error)
}

var _ Executor = (*cli.Controller)(nil)

// RunModel is the Bubble Tea model for the interactive multiplexer: the
// live layout on top, the last command's output below it and a command
// prompt at the bottom.
type RunModel struct {
	// UI components
	input  textinput.Model
	help   help.Model
	keys   styles.RunKeyMap
	layout *styles.LayoutRenderer

	// State
	view    terminal.View
	output  string
	err     error
	running string // Command in flight, empty when idle
	history []string
	cursor  int    // Index into history while browsing, len(history) otherwise
	draft   string // Input saved when history browsing started
	width   int
	height  int
	done    bool

	// Config
	server  string
	journal bool

	// Dependencies
	ctx   context.Context
	exec  Executor
	feed  *ViewFeed
	theme *styles.Theme
}

// RunModelConfig holds configuration for the run model.
type RunModelConfig struct {
	Executor Executor
	Feed     *ViewFeed
	Initial  terminal.View // Shown until the first published view
	Server   string
	Journal  bool
}

// NewRunModel creates the interactive model.
func NewRunModel(ctx context.Context, theme *styles.Theme, cfg RunModelConfig) RunModel {
	input := styles.NewCommandInput(theme)
	input.Focus()

	return RunModel{
		input:   input,
		help:    styles.NewStyledHelp(theme),
		keys:    styles.DefaultRunKeyMap(),
		layout:  styles.NewLayoutRenderer(theme),
		view:    cfg.Initial,
		width:   80,
		height:  24,
		server:  cfg.Server,
		journal: cfg.Journal,
		ctx:     ctx,
		exec:    cfg.Executor,
		feed:    cfg.Feed,
		theme:   theme,
	}
}

// commandDoneMsg is sent when a command line has finished.
type commandDoneMsg struct {
	line   string
	output string
	err    error
}

// Init implements tea.Model.
func (m RunModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.feed.Next(),
	)
}

// Update implements tea.Model.
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case viewChangedMsg:
		m.view = msg.view
		return m, m.feed.Next()

	case commandDoneMsg:
		m.running = ""
		if errors.Is(msg.err, cli.ErrQuit) {
			m.done = true
			return m, tea.Quit
		}
		m.output, m.err = msg.output, msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m RunModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Execute):
		line := strings.TrimSpace(m.input.Value())
		if line == "" || m.running != "" {
			return m, nil
		}
		m.remember(line)
		m.input.Reset()
		return m.execute(line)

	case key.Matches(msg, m.keys.NextTab):
		return m.execute("next")

	case key.Matches(msg, m.keys.PrevTab):
		return m.execute("prev")

	case key.Matches(msg, m.keys.Older):
		m.browse(-1)
		return m, nil

	case key.Matches(msg, m.keys.Newer):
		m.browse(1)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.output, m.err = "", nil
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// execute runs line off the Update goroutine; manager calls block on the
// main loop. One command runs at a time.
func (m RunModel) execute(line string) (tea.Model, tea.Cmd) {
	if m.running != "" {
		return m, nil
	}
	m.running = line

	ctx, exec := m.ctx, m.exec
	return m, func() tea.Msg {
		out, err := exec.Execute(ctx, line)
		if err != nil && !errors.Is(err, cli.ErrQuit) {
			logging.FromContext(ctx).Debug().Err(err).Str("command", line).Msg("command failed")
		}
		return commandDoneMsg{line: line, output: out, err: err}
	}
}

func (m *RunModel) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
		if len(m.history) > maxCommandHistory {
			m.history = m.history[1:]
		}
	}
	m.cursor = len(m.history)
	m.draft = ""
}

// browse moves through the command history; stepping past the newest entry
// restores what was being typed.
func (m *RunModel) browse(step int) {
	next := m.cursor + step
	if next < 0 || next > len(m.history) {
		return
	}
	if m.cursor == len(m.history) {
		m.draft = m.input.Value()
	}
	m.cursor = next

	if next == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[next])
	}
	m.input.CursorEnd()
}

// View implements tea.Model.
func (m RunModel) View() string {
	if m.done {
		return ""
	}
	t := m.theme

	sections := []string{
		m.renderHeader(),
		m.layout.RenderView(m.view),
	}
	if out := m.renderOutput(); out != "" {
		sections = append(sections, out)
	}
	sections = append(sections,
		t.InputBox(m.input.View(), m.running == ""),
		m.help.View(m.keys),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RunModel) renderHeader() string {
	t := m.theme

	parts := []string{
		t.Title.Render(styles.IconSessionStack + " dumbmux"),
		t.Subtle.Render(fmt.Sprintf("%s %d  %s %d", styles.IconTab, len(m.view.Tabs), styles.IconPane, m.view.PaneCount())),
	}
	if m.server != "" {
		parts = append(parts, t.Subtle.Render(styles.IconServer+" "+m.server))
	}
	if m.journal {
		parts = append(parts, t.Subtle.Render(styles.IconDatabase+" journal"))
	}
	return strings.Join(parts, "  ")
}

func (m RunModel) renderOutput() string {
	t := m.theme

	switch {
	case m.running != "":
		return t.Subtle.Render(styles.IconClock + " " + m.running)
	case m.err != nil:
		return t.ErrorStyle.Render(styles.IconWarning + " " + m.err.Error())
	case m.output != "":
		return m.output
	case len(m.history) == 0:
		return t.Subtle.Render(styles.IconInfo + " type 'help' for the command list")
	}
	return ""
}

// Ensure interface compliance.
var _ tea.Model = (*RunModel)(nil)
