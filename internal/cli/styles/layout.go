package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumbmux/internal/app/terminal"
	"github.com/bnema/dumbmux/internal/domain/entity"
)

// LayoutRenderer renders multiplexer views for the interactive controller.
type LayoutRenderer struct {
	theme *Theme
}

// NewLayoutRenderer creates a layout renderer with the given theme.
func NewLayoutRenderer(theme *Theme) *LayoutRenderer {
	return &LayoutRenderer{theme: theme}
}

// RenderView renders the tab bar, the active tab's tree and its pane rects.
func (r *LayoutRenderer) RenderView(view terminal.View) string {
	if len(view.Tabs) == 0 {
		return r.theme.Subtle.Render("No tabs.")
	}

	var b strings.Builder
	b.WriteString(r.RenderTabBar(view))
	b.WriteString("\n")

	tab, ok := view.ActiveTab()
	if !ok {
		return b.String()
	}

	b.WriteString(r.RenderTree(tab.Layout, tab.ActivePaneID))
	b.WriteString("\n")
	for _, pane := range tab.Panes {
		b.WriteString(r.renderRect(pane, pane.ID == tab.ActivePaneID))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTabBar renders one numbered label per tab with the active one
// highlighted.
func (r *LayoutRenderer) RenderTabBar(view terminal.View) string {
	active := -1
	for i, tab := range view.Tabs {
		if tab.Active {
			active = i
		}
	}

	bar := NewTabBar(r.theme, active)
	for i, tab := range view.Tabs {
		bar.Add(fmt.Sprintf("%d:%s", i+1, tab.Title))
	}
	return bar.Render(0)
}

// RenderTree draws a layout tree, one node per line.
func (r *LayoutRenderer) RenderTree(node entity.LayoutNode, active entity.PaneID) string {
	if node == nil {
		return r.theme.Subtle.Render("(empty)")
	}
	var b strings.Builder
	r.renderNode(&b, node, active, "", "")
	return strings.TrimRight(b.String(), "\n")
}

func (r *LayoutRenderer) renderNode(b *strings.Builder, node entity.LayoutNode, active entity.PaneID, prefix, childPrefix string) {
	switch n := node.(type) {
	case *entity.PaneNode:
		label := fmt.Sprintf("%s %s %s", IconPane, n.ID, r.theme.Subtle.Render("("+string(n.SessionID)+")"))
		if n.ID == active {
			label = r.theme.Highlight.Render(fmt.Sprintf("%s %s", IconPane, n.ID)) + " " +
				r.theme.Subtle.Render("("+string(n.SessionID)+")") + " " +
				r.theme.Highlight.Render(IconCursor)
		}
		b.WriteString(prefix + label + "\n")
	case *entity.SplitNode:
		b.WriteString(prefix + r.theme.Subtitle.Render(fmt.Sprintf("%s %s %.2f", IconTree, n.Direction, n.Ratio)) + "\n")
		r.renderNode(b, n.First, active, childPrefix+"├── ", childPrefix+"│   ")
		r.renderNode(b, n.Second, active, childPrefix+"└── ", childPrefix+"    ")
	}
}

func (r *LayoutRenderer) renderRect(pane terminal.PaneView, active bool) string {
	rect := pane.Rect
	line := fmt.Sprintf("%-12s x=%.3f y=%.3f w=%.3f h=%.3f", pane.ID, rect.X, rect.Y, rect.W, rect.H)
	switch {
	case pane.Ended:
		return r.theme.WarningStyle.Render(line + " ended")
	case active:
		return r.theme.Highlight.Render(line)
	default:
		return r.theme.Normal.Render(line)
	}
}

// RenderPane frames a pane's grid with a header naming the pane.
func (r *LayoutRenderer) RenderPane(pane terminal.PaneView, active bool, grid string) string {
	frame := r.theme.Pane
	switch {
	case pane.Ended:
		frame = r.theme.EndedPane
	case active:
		frame = r.theme.ActivePane
	}

	header := fmt.Sprintf("%s %s", IconPane, pane.ID)
	if pane.Ended {
		header += " " + r.theme.ErrorStyle.Render("[ended]")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		r.theme.Title.Render(header),
		frame.Render(strings.TrimRight(grid, "\n")),
	)
}
