package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/dumbmux/internal/application/port"
	"github.com/bnema/dumbmux/internal/application/usecase"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/logging"
	"github.com/bnema/dumbmux/internal/ui/mainloop"
)

const (
	// DefaultResizeDebounce is the quiet window before a pane refits.
	DefaultResizeDebounce = 40 * time.Millisecond

	deleteSessionTimeout = 10 * time.Second
	viewCoalesceKey      = "view"
)

var (
	ErrSessionCreate = errors.New("failed to create session")
	ErrClosed        = errors.New("terminal manager closed")
)

// Config holds the Manager's collaborators.
type Config struct {
	Transport      port.SessionTransport
	Emulators      port.EmulatorFactory
	Loop           *mainloop.Loop
	IDGenerator    usecase.IDGenerator
	Journal        *Journal // Optional
	ResizeDebounce time.Duration
	Viewport       Viewport
	OnChange       func(View) // Optional, runs on the loop
}

// Manager is the multiplexer's single mutation entry point. Its exported
// methods may be called from any goroutine except the loop's: remote
// sessions are allocated on the caller's goroutine and only the commit runs
// on the loop.
type Manager struct {
	ctx       context.Context
	loop      *mainloop.Loop
	transport port.SessionTransport
	tabsUC    *usecase.ManageTabsUseCase
	panesUC   *usecase.ManagePanesUseCase
	registry  *Registry
	debouncer *mainloop.Debouncer
	notifier  *mainloop.Coalescer
	onChange  func(View)

	// Loop-owned.
	tabs   *entity.TabList
	closed bool

	deleteMu sync.Mutex
	deletes  sync.WaitGroup
}

// NewManager creates a manager with no tabs. Call Start once the loop runs.
func NewManager(ctx context.Context, cfg Config) *Manager {
	ctx = logging.WithComponent(ctx, "terminal")

	delay := cfg.ResizeDebounce
	if delay <= 0 {
		delay = DefaultResizeDebounce
	}
	debouncer := mainloop.NewDebouncer(cfg.Loop.Post, delay)

	return &Manager{
		ctx:       ctx,
		loop:      cfg.Loop,
		transport: cfg.Transport,
		tabsUC:    usecase.NewManageTabsUseCase(cfg.IDGenerator),
		panesUC:   usecase.NewManagePanesUseCase(cfg.IDGenerator),
		registry: NewRegistry(ctx, RegistryConfig{
			Transport: cfg.Transport,
			Emulators: cfg.Emulators,
			Post:      cfg.Loop.Post,
			Debouncer: debouncer,
			Journal:   cfg.Journal,
			Viewport:  cfg.Viewport,
		}),
		debouncer: debouncer,
		notifier:  mainloop.NewCoalescer(cfg.Loop.Post),
		onChange:  cfg.OnChange,
		tabs:      entity.NewTabList(),
	}
}

// Start opens the default tab if there is none.
func (m *Manager) Start(ctx context.Context) error {
	_, err := m.newTab(ctx, true)
	return err
}

// NewTab allocates a session and opens it in a new single-pane tab, which
// becomes active.
func (m *Manager) NewTab(ctx context.Context) (entity.TabID, error) {
	return m.newTab(ctx, false)
}

func (m *Manager) newTab(ctx context.Context, onlyIfEmpty bool) (entity.TabID, error) {
	log := logging.FromContext(m.ctx)

	if onlyIfEmpty {
		var empty bool
		if err := m.query(ctx, func() {
			empty = m.tabs.Count() == 0
		}); err != nil {
			return "", err
		}
		if !empty {
			return "", nil
		}
	}

	sessionID, err := m.createSession(ctx)
	if err != nil {
		return "", err
	}

	var tabID entity.TabID
	err = m.commitSession(ctx, sessionID, func() (bool, error) {
		if onlyIfEmpty && m.tabs.Count() > 0 {
			log.Debug().Msg("default tab already present")
			return false, nil
		}

		id, err := m.openTab(sessionID)
		if err != nil {
			return false, err
		}
		tabID = id
		return true, nil
	})
	return tabID, err
}

// openTab wraps sessionID in a new single-pane tab and makes it active.
func (m *Manager) openTab(sessionID entity.SessionID) (entity.TabID, error) {
	out, err := m.tabsUC.Create(m.ctx, usecase.CreateTabInput{TabList: m.tabs, SessionID: sessionID})
	if err != nil {
		return "", err
	}
	if err := m.registry.Ensure(out.Pane.ID, sessionID); err != nil {
		_, _ = m.tabsUC.Close(m.ctx, m.tabs, out.Tab.ID)
		return "", fmt.Errorf("open session channel: %w", err)
	}

	m.relayout()
	m.registry.Focus(out.Pane.ID)
	return out.Tab.ID, nil
}

// replaceLastTab closes the only tab and opens a fresh default tab in one
// loop task, so the tab list is never seen empty. The replacement session
// is allocated first: when that fails nothing is closed. target reports the
// tab to replace, or false when the state moved on while the session was
// being created, in which case fallback closes normally.
func (m *Manager) replaceLastTab(ctx context.Context, target func() (entity.TabID, bool), fallback func() error) error {
	sessionID, err := m.createSession(ctx)
	if err != nil {
		return err
	}

	return m.commitSession(ctx, sessionID, func() (bool, error) {
		oldID, ok := target()
		if !ok {
			return false, fallback()
		}
		if _, err := m.openTab(sessionID); err != nil {
			return false, err
		}

		out, err := m.tabsUC.Close(m.ctx, m.tabs, oldID)
		if err != nil {
			return true, err
		}
		for _, pane := range out.Panes {
			m.releasePane(pane)
		}
		logging.FromContext(m.ctx).Debug().
			Str("tab_id", string(oldID)).
			Msg("last tab replaced by default tab")
		return true, nil
	})
}

// CloseTab destroys every pane session of the tab and removes it. Closing
// the last tab replaces it with a fresh default tab; if no session can be
// allocated for it the tab stays open.
func (m *Manager) CloseTab(ctx context.Context, tabID entity.TabID) error {
	var last bool
	err := m.do(ctx, func() error {
		if m.isLastTab(tabID) {
			last = true
			return nil
		}
		return m.closeTab(tabID)
	})
	if err != nil || !last {
		return err
	}

	return m.replaceLastTab(ctx,
		func() (entity.TabID, bool) { return tabID, m.isLastTab(tabID) },
		func() error { return m.closeTab(tabID) },
	)
}

// closeTab removes a tab that is not the last one.
func (m *Manager) closeTab(tabID entity.TabID) error {
	out, err := m.tabsUC.Close(m.ctx, m.tabs, tabID)
	if errors.Is(err, usecase.ErrTabNotFound) {
		logging.FromContext(m.ctx).Debug().Str("tab_id", string(tabID)).Msg("close ignored, unknown tab")
		return nil
	}
	if err != nil {
		return err
	}

	for _, pane := range out.Panes {
		m.releasePane(pane)
	}
	m.activated()
	return nil
}

// Split opens a new session beside the pane in the active tab. The new pane
// becomes active. Returns "" when the pane is not in the active tab.
func (m *Manager) Split(ctx context.Context, paneID entity.PaneID, direction entity.SplitDirection) (entity.PaneID, error) {
	log := logging.FromContext(m.ctx)

	var present bool
	if err := m.query(ctx, func() {
		present = m.activeTabHas(paneID)
	}); err != nil {
		return "", err
	}
	if !present {
		log.Debug().Str("pane_id", string(paneID)).Msg("split ignored, pane not in active tab")
		return "", nil
	}

	sessionID, err := m.createSession(ctx)
	if err != nil {
		return "", err
	}

	var newID entity.PaneID
	err = m.commitSession(ctx, sessionID, func() (bool, error) {
		// The target may have closed while the session was being created.
		if !m.activeTabHas(paneID) {
			log.Debug().Str("pane_id", string(paneID)).Msg("split target gone, releasing session")
			return false, nil
		}

		tab := m.tabs.ActiveTab()
		previous := tab.ActivePaneID

		out, err := m.panesUC.Split(m.ctx, usecase.SplitPaneInput{
			TabList:   m.tabs,
			TargetID:  paneID,
			Direction: direction,
			SessionID: sessionID,
		})
		if err != nil {
			return false, err
		}
		if err := m.registry.Ensure(out.NewPane.ID, sessionID); err != nil {
			_, _ = m.panesUC.Close(m.ctx, m.tabs, out.NewPane.ID)
			tab.ActivePaneID = previous
			return false, fmt.Errorf("open session channel: %w", err)
		}

		newID = out.NewPane.ID
		m.relayout()
		m.registry.Focus(newID)
		return true, nil
	})
	return newID, err
}

// ClosePane destroys the pane's session and removes it from the active tab.
// A tab left empty is closed. The very last pane is replaced by a fresh
// default tab; if no session can be allocated for it the pane stays.
func (m *Manager) ClosePane(ctx context.Context, paneID entity.PaneID) error {
	var last bool
	err := m.do(ctx, func() error {
		if m.isLastPane(paneID) {
			last = true
			return nil
		}
		return m.closePane(paneID)
	})
	if err != nil || !last {
		return err
	}

	return m.replaceLastTab(ctx,
		func() (entity.TabID, bool) {
			if !m.isLastPane(paneID) {
				return "", false
			}
			return m.tabs.ActiveTabID, true
		},
		func() error { return m.closePane(paneID) },
	)
}

// closePane removes a pane that is not the last one.
func (m *Manager) closePane(paneID entity.PaneID) error {
	out, err := m.panesUC.Close(m.ctx, m.tabs, paneID)
	if isStructural(err) {
		logging.FromContext(m.ctx).Debug().Err(err).Str("pane_id", string(paneID)).Msg("close ignored")
		return nil
	}
	if err != nil {
		return err
	}

	m.releasePane(out.Removed)
	m.activated()
	return nil
}

// FocusPane makes the pane the active tab's active pane.
func (m *Manager) FocusPane(ctx context.Context, paneID entity.PaneID) error {
	return m.do(ctx, func() error {
		err := m.panesUC.Focus(m.ctx, m.tabs, paneID)
		if isStructural(err) {
			logging.FromContext(m.ctx).Debug().Err(err).Msg("focus ignored")
			return nil
		}
		if err != nil {
			return err
		}
		m.registry.Focus(paneID)
		return nil
	})
}

// FocusDirection moves focus to the nearest pane on the given side of the
// active pane. Returns "" when there is none.
func (m *Manager) FocusDirection(ctx context.Context, direction usecase.NavigateDirection) (entity.PaneID, error) {
	var target entity.PaneID
	err := m.do(ctx, func() error {
		id, ok, err := m.panesUC.NavigateFocus(m.ctx, m.tabs, direction)
		if isStructural(err) {
			return nil
		}
		if err != nil || !ok {
			return err
		}
		target = id
		m.registry.Focus(id)
		return nil
	})
	return target, err
}

// SwitchTab activates a tab.
func (m *Manager) SwitchTab(ctx context.Context, tabID entity.TabID) error {
	return m.do(ctx, func() error {
		err := m.tabsUC.Switch(m.ctx, m.tabs, tabID)
		if errors.Is(err, usecase.ErrTabNotFound) {
			logging.FromContext(m.ctx).Debug().Str("tab_id", string(tabID)).Msg("switch ignored, unknown tab")
			return nil
		}
		if err != nil {
			return err
		}
		m.activated()
		return nil
	})
}

// NextTab cycles the active tab forward (dir >= 0) or backward, wrapping.
func (m *Manager) NextTab(ctx context.Context, dir int) error {
	return m.do(ctx, func() error {
		step := 1
		if dir < 0 {
			step = -1
		}
		if _, err := m.tabsUC.Cycle(m.ctx, m.tabs, step); err != nil {
			return err
		}
		m.activated()
		return nil
	})
}

// RenameTab sets a tab's display name. An empty name restores the default.
func (m *Manager) RenameTab(ctx context.Context, tabID entity.TabID, name string) error {
	return m.do(ctx, func() error {
		err := m.tabsUC.Rename(m.ctx, m.tabs, tabID, name)
		if errors.Is(err, usecase.ErrTabNotFound) {
			return nil
		}
		return err
	})
}

// ResizeSplit grows the pane by delta along its parent split's axis.
func (m *Manager) ResizeSplit(ctx context.Context, paneID entity.PaneID, delta float64) error {
	return m.do(ctx, func() error {
		err := m.panesUC.Resize(m.ctx, m.tabs, paneID, delta)
		if isStructural(err) || errors.Is(err, usecase.ErrNothingToResize) {
			logging.FromContext(m.ctx).Debug().Err(err).Msg("resize ignored")
			return nil
		}
		if err != nil {
			return err
		}
		m.relayout()
		return nil
	})
}

// Send types p into the pane. Unknown panes are ignored.
func (m *Manager) Send(ctx context.Context, paneID entity.PaneID, p []byte) error {
	return m.do(ctx, func() error {
		if !m.registry.Send(paneID, p) {
			logging.FromContext(m.ctx).Debug().Str("pane_id", string(paneID)).Msg("send ignored, unknown pane")
		}
		return nil
	})
}

// SetViewport changes the pixel size panes are fitted against.
func (m *Manager) SetViewport(ctx context.Context, vp Viewport) error {
	return m.do(ctx, func() error {
		m.registry.SetViewport(vp)
		m.relayout()
		return nil
	})
}

// SetResizeDebounce changes the refit window for later resizes.
func (m *Manager) SetResizeDebounce(delay time.Duration) {
	if delay <= 0 {
		delay = DefaultResizeDebounce
	}
	m.debouncer.SetDelay(delay)
}

// View returns a snapshot of every tab and the active tab's rectangles.
func (m *Manager) View(ctx context.Context) (View, error) {
	var view View
	err := m.query(ctx, func() {
		view = m.snapshot()
	})
	return view, err
}

// Render returns the pane's visible grid.
func (m *Manager) Render(ctx context.Context, paneID entity.PaneID) (string, error) {
	var out string
	err := m.query(ctx, func() {
		out, _ = m.registry.Render(paneID)
	})
	return out, err
}

// Shutdown destroys every pane and deletes every remote session
// concurrently. Later calls to the manager return ErrClosed.
func (m *Manager) Shutdown(ctx context.Context) error {
	log := logging.FromContext(m.ctx)

	var sessions []entity.SessionID
	teardown := func() {
		if m.closed {
			return
		}
		m.closed = true
		for _, tab := range m.tabs.Tabs {
			for _, pane := range entity.Panes(tab.Layout) {
				m.registry.Destroy(pane.ID)
				sessions = append(sessions, pane.SessionID)
			}
		}
		m.tabs = entity.NewTabList()
		m.debouncer.Stop()
		m.notifier.Destroy()
	}

	if err := m.loop.Call(ctx, teardown); err != nil {
		if !errors.Is(err, mainloop.ErrStopped) {
			return err
		}
		// Nothing else touches the state once the loop is gone.
		select {
		case <-m.loop.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		teardown()
	}

	log.Info().Int("sessions", len(sessions)).Msg("shutting down")

	var g errgroup.Group
	for _, id := range sessions {
		g.Go(func() error {
			if err := m.transport.DeleteSession(ctx, id); err != nil {
				return fmt.Errorf("delete session %s: %w", id, err)
			}
			return nil
		})
	}
	err := g.Wait()

	m.waitDeletes()
	return err
}

// do runs fn on the loop and publishes the change.
func (m *Manager) do(ctx context.Context, fn func() error) error {
	return m.onLoop(ctx, fn, true)
}

// query runs a read-only fn on the loop.
func (m *Manager) query(ctx context.Context, fn func()) error {
	return m.onLoop(ctx, func() error { fn(); return nil }, false)
}

func (m *Manager) onLoop(ctx context.Context, fn func() error, publish bool) error {
	var err error
	callErr := m.loop.Call(ctx, func() {
		if m.closed {
			err = ErrClosed
			return
		}
		err = fn()
		if publish {
			m.changed()
		}
	})
	if errors.Is(callErr, mainloop.ErrStopped) {
		return ErrClosed
	}
	if callErr != nil {
		return callErr
	}
	return err
}

// commitSession runs fn on the loop with ownership of a freshly created
// session. The session is deleted unless fn reports it was used.
func (m *Manager) commitSession(ctx context.Context, sessionID entity.SessionID, fn func() (bool, error)) error {
	var err error
	callErr := m.loop.Call(ctx, func() {
		if m.closed {
			m.deleteSession(sessionID)
			err = ErrClosed
			return
		}
		var used bool
		used, err = fn()
		if !used {
			m.deleteSession(sessionID)
		}
		m.changed()
	})
	if errors.Is(callErr, mainloop.ErrStopped) {
		// The commit never ran.
		m.deleteSession(sessionID)
		return ErrClosed
	}
	if callErr != nil {
		return callErr
	}
	return err
}

func (m *Manager) createSession(ctx context.Context) (entity.SessionID, error) {
	log := logging.FromContext(m.ctx)

	id, err := m.transport.CreateSession(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session creation failed")
		return "", fmt.Errorf("%w: %w", ErrSessionCreate, err)
	}

	log.Debug().Str("session_id", string(id)).Msg("session created")
	return id, nil
}

// deleteSession releases a remote session in the background.
func (m *Manager) deleteSession(id entity.SessionID) {
	m.deleteMu.Lock()
	m.deletes.Add(1)
	m.deleteMu.Unlock()

	go func() {
		defer m.deletes.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(m.ctx), deleteSessionTimeout)
		defer cancel()

		if err := m.transport.DeleteSession(ctx, id); err != nil {
			logging.FromContext(m.ctx).Warn().
				Err(err).
				Str("session_id", string(id)).
				Msg("failed to delete session")
		}
	}()
}

func (m *Manager) waitDeletes() {
	m.deleteMu.Lock()
	defer m.deleteMu.Unlock()
	m.deletes.Wait()
}

func (m *Manager) releasePane(pane *entity.PaneNode) {
	if pane == nil {
		return
	}
	m.registry.Destroy(pane.ID)
	m.deleteSession(pane.SessionID)
}

// relayout refits every pane of the active tab. Hidden tabs keep their last
// grid until they are activated again.
func (m *Manager) relayout() {
	tab := m.tabs.ActiveTab()
	if tab == nil {
		return
	}
	for _, rect := range tab.Rects() {
		m.registry.Resize(rect.PaneID, rect)
	}
}

func (m *Manager) activated() {
	m.relayout()
	if tab := m.tabs.ActiveTab(); tab != nil {
		m.registry.Focus(tab.ActivePaneID)
	}
}

func (m *Manager) activeTabHas(paneID entity.PaneID) bool {
	tab := m.tabs.ActiveTab()
	return tab != nil && tab.HasPane(paneID)
}

// isLastTab reports whether tabID is the only tab.
func (m *Manager) isLastTab(tabID entity.TabID) bool {
	return m.tabs.Count() == 1 && m.tabs.Find(tabID) != nil
}

// isLastPane reports whether paneID is the only pane of the only tab.
func (m *Manager) isLastPane(paneID entity.PaneID) bool {
	tab := m.tabs.ActiveTab()
	return m.tabs.Count() == 1 && tab != nil && tab.HasPane(paneID) && tab.PaneCount() == 1
}

func (m *Manager) changed() {
	if m.onChange == nil {
		return
	}
	m.notifier.Post(viewCoalesceKey, func() {
		if !m.closed {
			m.onChange(m.snapshot())
		}
	})
}

func isStructural(err error) bool {
	return errors.Is(err, usecase.ErrPaneNotFound) ||
		errors.Is(err, usecase.ErrNoActiveTab) ||
		errors.Is(err, usecase.ErrTabNotFound)
}
