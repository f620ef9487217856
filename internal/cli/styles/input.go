package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

const commandCharLimit = 1024

// NewCommandInput creates the themed prompt of the interactive view.
func NewCommandInput(theme *Theme) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "split v, focus right, send ls -la ..."
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.Prompt = IconArrow + " "
	ti.CharLimit = commandCharLimit
	return ti
}

// InputBox wraps a rendered input in its frame.
func (t *Theme) InputBox(input string, focused bool) string {
	style := t.Input
	if focused {
		style = t.InputFocused
	}
	return style.Render(input)
}
