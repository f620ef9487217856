package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// SessionsCLIRenderer renders the `dumbmux sessions` journal listing.
type SessionsCLIRenderer struct {
	theme *Theme
	now   func() time.Time
}

func NewSessionsCLIRenderer(theme *Theme) *SessionsCLIRenderer {
	return &SessionsCLIRenderer{theme: theme, now: time.Now}
}

func (r *SessionsCLIRenderer) RenderEmptyList() string {
	return r.theme.Subtle.Render("No pane sessions recorded.")
}

func (r *SessionsCLIRenderer) RenderList(items []entity.SessionSummary, limit int) string {
	if len(items) == 0 {
		return r.RenderEmptyList()
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %s", r.theme.Highlight.Render(IconSessionStack), r.theme.Title.Render("Pane sessions"))
	b.WriteString(title)
	if limit > 0 {
		b.WriteString(r.theme.Subtle.Render(fmt.Sprintf(" (showing up to %d)", limit)))
	}
	b.WriteString("\n\n")

	for _, s := range items {
		b.WriteString(r.renderOne(s))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *SessionsCLIRenderer) renderOne(s entity.SessionSummary) string {
	status := r.theme.SuccessStyle.Render(IconPlay)
	state := "live"
	switch {
	case s.ClosedAt != nil:
		status = r.theme.Subtle.Render(IconStop)
		state = "closed"
	case s.EndedAt != nil:
		status = r.theme.WarningStyle.Render(IconStop)
		state = "ended"
	}

	return fmt.Sprintf("%s %s  %s %s  %s",
		status,
		r.theme.Highlight.Render(string(s.SessionID)),
		r.theme.BadgeMuted.Render("pane "+string(s.PaneID)),
		r.theme.BadgeMuted.Render(state),
		r.theme.Subtle.Render(RelativeTime(s.OpenedAt, r.now())),
	)
}

func (r *SessionsCLIRenderer) RenderPruned(n int64) string {
	return fmt.Sprintf("%s Pruned %d journal events.", r.theme.SuccessStyle.Render(IconCheck), n)
}

func (r *SessionsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %v", r.theme.ErrorStyle.Render(IconX), err)
}

// RelativeTime formats t relative to now ("just now", "5m ago", "2d ago").
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < hoursPerDay*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < daysPerWeek*hoursPerDay*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/hoursPerDay))
	default:
		return fmt.Sprintf("%dw ago", int(diff.Hours()/hoursPerDay/daysPerWeek))
	}
}
