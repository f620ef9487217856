package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumbmux/internal/infrastructure/config"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfigInfo renders the config file path.
func (r *ConfigRenderer) RenderConfigInfo(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	return fmt.Sprintf(
		"\n  %s Config %s\n",
		iconStyle.Render(IconConfig),
		r.theme.Subtle.Render(path),
	)
}

// RenderEffective renders every effective setting grouped by section.
func (r *ConfigRenderer) RenderEffective(cfg *config.Config) string {
	sections := []struct {
		name string
		keys [][2]string
	}{
		{"server", [][2]string{
			{"base_url", cfg.Server.BaseURL},
			{"sessions_path", cfg.Server.SessionsPath},
			{"dial_timeout", cfg.Server.DialTimeout.String()},
			{"ping_interval", cfg.Server.PingInterval.String()},
		}},
		{"terminal", [][2]string{
			{"resize_debounce", cfg.Terminal.ResizeDebounce.String()},
			{"cell_width", fmt.Sprint(cfg.Terminal.CellWidth)},
			{"cell_height", fmt.Sprint(cfg.Terminal.CellHeight)},
			{"viewport_width", fmt.Sprint(cfg.Terminal.ViewportWidth)},
			{"viewport_height", fmt.Sprint(cfg.Terminal.ViewportHeight)},
			{"split_gap", fmt.Sprint(cfg.Terminal.SplitGap)},
		}},
		{"logging", [][2]string{
			{"level", cfg.Logging.Level},
			{"format", cfg.Logging.Format},
		}},
		{"journal", [][2]string{
			{"enabled", fmt.Sprint(cfg.Journal.Enabled)},
			{"path", cfg.Journal.Path},
			{"retention_days", fmt.Sprint(cfg.Journal.RetentionDays)},
		}},
	}

	var sb strings.Builder
	for _, section := range sections {
		sb.WriteString(fmt.Sprintf("\n  %s\n", r.theme.Subtitle.Render("["+section.name+"]")))
		for _, kv := range section.keys {
			sb.WriteString(fmt.Sprintf("    %-16s %s\n", kv[0], r.theme.Highlight.Render(kv[1])))
		}
	}
	return sb.String()
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}
