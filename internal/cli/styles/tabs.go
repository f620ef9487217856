package styles

import "strings"

// TabBar renders a one-line strip of tab labels.
type TabBar struct {
	theme  *Theme
	labels []string
	active int
}

// NewTabBar creates an empty tab bar. active is the index of the tab to
// highlight; out of range means none.
func NewTabBar(theme *Theme, active int) *TabBar {
	return &TabBar{theme: theme, active: active}
}

// Add appends a label.
func (b *TabBar) Add(label string) *TabBar {
	b.labels = append(b.labels, label)
	return b
}

// Render draws the bar, padded to width when width is positive.
func (b *TabBar) Render(width int) string {
	cells := make([]string, len(b.labels))
	for i, label := range b.labels {
		style := b.theme.InactiveTab
		if i == b.active {
			style = b.theme.ActiveTab
		}
		cells[i] = style.Render(label)
	}

	row := strings.Join(cells, b.theme.TabGap.Render(" │ "))
	style := b.theme.TabBar
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(row)
}
