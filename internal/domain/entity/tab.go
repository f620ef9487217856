package entity

import (
	"strconv"
	"time"
)

// TabID uniquely identifies a tab.
type TabID string

// Tab is an independent top-level layout tree with its own set of panes.
type Tab struct {
	ID           TabID
	Name         string     // Display name, empty means derived
	Layout       LayoutNode // Root of the pane tree, never nil while the tab is listed
	ActivePaneID PaneID     // Always names a pane present in Layout
	Position     int        // Position in the tab bar (0-indexed)
	CreatedAt    time.Time
}

// NewTab creates a tab holding a single pane, which becomes active.
func NewTab(id TabID, initial *PaneNode) *Tab {
	return &Tab{
		ID:           id,
		Layout:       initial,
		ActivePaneID: initial.ID,
		CreatedAt:    time.Now(),
	}
}

// Title returns the display title for the tab.
func (t *Tab) Title() string {
	if t.Name != "" {
		return t.Name
	}
	return "Tab " + strconv.Itoa(t.Position+1)
}

// PaneCount returns the number of panes in this tab.
func (t *Tab) PaneCount() int {
	return LeafCount(t.Layout)
}

// HasPane reports whether the pane is part of this tab's layout.
func (t *Tab) HasPane(id PaneID) bool {
	return FindPane(t.Layout, id) != nil
}

// PaneIDs returns the tab's pane ids in depth-first order.
func (t *Tab) PaneIDs() []PaneID {
	panes := Panes(t.Layout)
	ids := make([]PaneID, 0, len(panes))
	for _, p := range panes {
		ids = append(ids, p.ID)
	}
	return ids
}

// Rects resolves the tab's layout against the unit rectangle.
func (t *Tab) Rects() []Rect {
	return ComputeRects(t.Layout, 0, 0, 1, 1)
}

// TabList manages an ordered collection of tabs.
type TabList struct {
	Tabs        []*Tab
	ActiveTabID TabID
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{
		Tabs: make([]*Tab, 0),
	}
}

// Add appends a tab to the list and makes it active.
func (tl *TabList) Add(tab *Tab) {
	tab.Position = len(tl.Tabs)
	tl.Tabs = append(tl.Tabs, tab)
	tl.ActiveTabID = tab.ID
}

// Remove removes a tab by ID and reindexes positions. When the removed tab
// was active, the last remaining tab in list order becomes active, or none
// if the list is now empty.
func (tl *TabList) Remove(id TabID) bool {
	for i, tab := range tl.Tabs {
		if tab.ID != id {
			continue
		}
		tl.Tabs = append(tl.Tabs[:i], tl.Tabs[i+1:]...)
		for j := i; j < len(tl.Tabs); j++ {
			tl.Tabs[j].Position = j
		}
		if tl.ActiveTabID == id {
			tl.ActiveTabID = ""
			if len(tl.Tabs) > 0 {
				tl.ActiveTabID = tl.Tabs[len(tl.Tabs)-1].ID
			}
		}
		return true
	}
	return false
}

// Find returns a tab by ID.
func (tl *TabList) Find(id TabID) *Tab {
	for _, tab := range tl.Tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

// FindByPane returns the tab whose layout contains the pane.
func (tl *TabList) FindByPane(id PaneID) *Tab {
	for _, tab := range tl.Tabs {
		if tab.HasPane(id) {
			return tab
		}
	}
	return nil
}

// ActiveTab returns the currently active tab.
func (tl *TabList) ActiveTab() *Tab {
	return tl.Find(tl.ActiveTabID)
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.Tabs)
}
