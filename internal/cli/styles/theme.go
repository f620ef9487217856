// Package styles renders dumbmux CLI output with lipgloss.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the base colors a Theme is derived from.
type Palette struct {
	Background string
	Surface    string
	Raised     string
	Text       string
	Muted      string
	Accent     string
	Border     string
	Error      string
	Warning    string
}

// Theme holds the colors and styles used by the renderers.
type Theme struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Raised     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style

	// Tab bar
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	TabBar      lipgloss.Style
	TabGap      lipgloss.Style

	// Pane frames for show
	Pane       lipgloss.Style
	ActivePane lipgloss.Style
	EndedPane  lipgloss.Style

	// Command input
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	BadgeMuted lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
}

// DefaultDarkPalette returns the built-in dark colors.
func DefaultDarkPalette() Palette {
	return Palette{
		Background: "#0a0a0b",
		Surface:    "#1a1a1b",
		Raised:     "#2d2d2d",
		Text:       "#ffffff",
		Muted:      "#909090",
		Accent:     "#4ade80",
		Border:     "#333333",
		Error:      "#ef4444",
		Warning:    "#f59e0b",
	}
}

// NewTheme creates the default dark Theme.
func NewTheme() *Theme {
	return NewThemeFromPalette(DefaultDarkPalette())
}

// NewThemeFromPalette creates a Theme from a Palette.
func NewThemeFromPalette(p Palette) *Theme {
	t := &Theme{
		Background: lipgloss.Color(p.Background),
		Surface:    lipgloss.Color(p.Surface),
		Raised:     lipgloss.Color(p.Raised),
		Text:       lipgloss.Color(p.Text),
		Muted:      lipgloss.Color(p.Muted),
		Accent:     lipgloss.Color(p.Accent),
		Border:     lipgloss.Color(p.Border),
		Error:      lipgloss.Color(p.Error),
		Warning:    lipgloss.Color(p.Warning),
	}
	t.textStyles()
	t.tabStyles()
	t.paneStyles()
	t.inputStyles()
	return t
}

func (t *Theme) textStyles() {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.Title = fg(t.Text).Bold(true)
	t.Subtitle = fg(t.Muted).Bold(true)
	t.Normal = fg(t.Text)
	t.Subtle = fg(t.Muted)
	t.Highlight = fg(t.Accent).Bold(true)
	t.ErrorStyle = fg(t.Error)
	t.WarningStyle = fg(t.Warning)
	t.SuccessStyle = fg(t.Accent)

	t.BadgeMuted = fg(t.Text).Background(t.Raised).Padding(0, 1)
	t.HelpKey = fg(t.Accent)
	t.HelpDesc = fg(t.Muted)
}

func (t *Theme) tabStyles() {
	t.ActiveTab = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 2)
	t.InactiveTab = lipgloss.NewStyle().
		Foreground(t.Muted).
		Background(t.Surface).
		Padding(0, 2)
	t.TabGap = lipgloss.NewStyle().Foreground(t.Border)
	t.TabBar = lipgloss.NewStyle().
		Background(t.Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)
}

// paneStyles frames pane grids. Ended panes keep their last screen but
// are drawn dimmed with an error border.
func (t *Theme) paneStyles() {
	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	t.ActivePane = t.Pane.BorderForeground(t.Accent)
	t.EndedPane = t.Pane.BorderForeground(t.Error).Foreground(t.Muted)
}

func (t *Theme) inputStyles() {
	t.Input = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.InputFocused = t.Input.BorderForeground(t.Accent)
}
