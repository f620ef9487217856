package terminal

import "github.com/bnema/dumbmux/internal/domain/entity"

// View is a read-only snapshot of the multiplexer for presentation.
type View struct {
	Tabs        []TabView
	ActiveTabID entity.TabID
	Rects       []entity.Rect // Active tab only
}

// TabView describes one tab in a View.
type TabView struct {
	ID           entity.TabID
	Title        string
	Active       bool
	ActivePaneID entity.PaneID
	Layout       entity.LayoutNode // Shared; layout trees are never mutated in place
	Panes        []PaneView
}

// PaneView describes one pane in a TabView.
type PaneView struct {
	ID        entity.PaneID
	SessionID entity.SessionID
	Rect      entity.Rect
	Ended     bool
}

// ActiveTab returns the active tab's view.
func (v View) ActiveTab() (TabView, bool) {
	for _, tab := range v.Tabs {
		if tab.Active {
			return tab, true
		}
	}
	return TabView{}, false
}

// PaneCount returns the number of panes across all tabs.
func (v View) PaneCount() int {
	n := 0
	for _, tab := range v.Tabs {
		n += len(tab.Panes)
	}
	return n
}

func (m *Manager) snapshot() View {
	view := View{
		Tabs:        make([]TabView, 0, m.tabs.Count()),
		ActiveTabID: m.tabs.ActiveTabID,
	}

	for _, tab := range m.tabs.Tabs {
		tv := TabView{
			ID:           tab.ID,
			Title:        tab.Title(),
			Active:       tab.ID == m.tabs.ActiveTabID,
			ActivePaneID: tab.ActivePaneID,
			Layout:       tab.Layout,
		}
		rects := tab.Rects()
		for _, pane := range entity.Panes(tab.Layout) {
			rect, _ := entity.FindRect(rects, pane.ID)
			tv.Panes = append(tv.Panes, PaneView{
				ID:        pane.ID,
				SessionID: pane.SessionID,
				Rect:      rect,
				Ended:     m.registry.Ended(pane.ID),
			})
		}
		if tv.Active {
			view.Rects = rects
		}
		view.Tabs = append(view.Tabs, tv)
	}

	return view
}
