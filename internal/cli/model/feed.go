package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/dumbmux/internal/app/terminal"
)

// ViewFeed hands multiplexer views from the main loop to a Bubble Tea
// program. It holds at most one undelivered view: a newer one replaces it.
type ViewFeed struct {
	views chan terminal.View
}

// NewViewFeed creates an empty feed.
func NewViewFeed() *ViewFeed {
	return &ViewFeed{views: make(chan terminal.View, 1)}
}

// Publish offers view to the program without blocking. It is meant to be
// the manager's OnChange callback.
func (f *ViewFeed) Publish(view terminal.View) {
	for {
		select {
		case f.views <- view:
			return
		default:
		}
		// Drop the stale view and retry.
		select {
		case <-f.views:
		default:
		}
	}
}

// viewChangedMsg carries a published view into Update.
type viewChangedMsg struct {
	view terminal.View
}

// Next waits for the next published view.
func (f *ViewFeed) Next() tea.Cmd {
	return func() tea.Msg {
		return viewChangedMsg{view: <-f.views}
	}
}
