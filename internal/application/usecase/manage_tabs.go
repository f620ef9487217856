// Package usecase holds the multiplexer's tab and pane mutations. Use cases
// operate on entity.TabList only; sessions and emulators are the caller's.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/logging"
)

// IDGenerator is a function type for generating unique IDs.
type IDGenerator func() string

var (
	ErrTabListRequired = errors.New("tab list is required")
	ErrTabNotFound     = errors.New("tab not found")
	ErrNoActiveTab     = errors.New("no active tab")
)

// ManageTabsUseCase handles tab lifecycle operations.
type ManageTabsUseCase struct {
	idGenerator IDGenerator
}

// NewManageTabsUseCase creates a new tab management use case.
func NewManageTabsUseCase(idGenerator IDGenerator) *ManageTabsUseCase {
	return &ManageTabsUseCase{
		idGenerator: idGenerator,
	}
}

// CreateTabInput contains parameters for creating a new tab.
type CreateTabInput struct {
	TabList   *entity.TabList
	SessionID entity.SessionID // Already allocated remote session for the first pane
	Name      string           // Optional custom name
}

// CreateTabOutput contains the result of tab creation.
type CreateTabOutput struct {
	Tab  *entity.Tab
	Pane *entity.PaneNode
}

// Create creates a new single-pane tab and makes it active.
func (uc *ManageTabsUseCase) Create(ctx context.Context, input CreateTabInput) (*CreateTabOutput, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("name", input.Name).
		Str("session_id", string(input.SessionID)).
		Msg("creating new tab")

	if input.TabList == nil {
		return nil, ErrTabListRequired
	}
	if input.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	tabID := entity.TabID(uc.idGenerator())
	paneID := entity.PaneID(uc.idGenerator())

	pane := entity.NewPaneNode(paneID, input.SessionID)
	tab := entity.NewTab(tabID, pane)
	tab.Name = input.Name

	input.TabList.Add(tab)

	log.Info().
		Str("tab_id", string(tabID)).
		Str("pane_id", string(paneID)).
		Int("position", tab.Position).
		Msg("tab created")

	return &CreateTabOutput{Tab: tab, Pane: pane}, nil
}

// CloseTabOutput contains the result of closing a tab.
type CloseTabOutput struct {
	Panes   []*entity.PaneNode // Panes that left the layout, in tree order
	WasLast bool               // No tab remains
}

// Close removes a tab from the list and reports the panes it held so the
// caller can release their sessions.
func (uc *ManageTabsUseCase) Close(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) (*CloseTabOutput, error) {
	ctx = logging.WithTabID(ctx, string(tabID))
	log := logging.FromContext(ctx)

	log.Debug().Msg("closing tab")

	if tabs == nil {
		return nil, ErrTabListRequired
	}

	tab := tabs.Find(tabID)
	if tab == nil {
		log.Debug().Msg("tab not found")
		return nil, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}

	panes := entity.Panes(tab.Layout)
	tabs.Remove(tabID)

	log.Info().
		Str("new_active", string(tabs.ActiveTabID)).
		Int("remaining", tabs.Count()).
		Int("panes", len(panes)).
		Msg("tab closed")

	return &CloseTabOutput{Panes: panes, WasLast: tabs.Count() == 0}, nil
}

// Switch changes the active tab.
func (uc *ManageTabsUseCase) Switch(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("tab_id", string(tabID)).Msg("switching to tab")

	if tabs == nil {
		return ErrTabListRequired
	}

	if tabs.Find(tabID) == nil {
		return fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}

	oldActive := tabs.ActiveTabID
	tabs.ActiveTabID = tabID

	log.Info().
		Str("from", string(oldActive)).
		Str("to", string(tabID)).
		Msg("tab switched")

	return nil
}

// Rename changes a tab's custom name.
func (uc *ManageTabsUseCase) Rename(ctx context.Context, tabs *entity.TabList, tabID entity.TabID, name string) error {
	log := logging.FromContext(ctx)

	if tabs == nil {
		return ErrTabListRequired
	}

	tab := tabs.Find(tabID)
	if tab == nil {
		return fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}

	tab.Name = name

	log.Info().
		Str("tab_id", string(tabID)).
		Str("name", name).
		Msg("tab renamed")

	return nil
}

// Cycle activates the tab step positions away from the active one,
// wrapping at both ends, and returns it. With no tabs it returns "".
func (uc *ManageTabsUseCase) Cycle(ctx context.Context, tabs *entity.TabList, step int) (entity.TabID, error) {
	if tabs == nil {
		return "", ErrTabListRequired
	}
	n := tabs.Count()
	if n == 0 {
		return "", nil
	}

	pos := 0
	if active := tabs.ActiveTab(); active != nil {
		pos = ((active.Position+step)%n + n) % n
	}
	target := tabs.Tabs[pos].ID
	if target == tabs.ActiveTabID {
		return target, nil
	}
	return target, uc.Switch(ctx, tabs, target)
}
