// Package terminal wires layout trees to live pane sessions. The Registry
// owns one transport channel and one emulator per pane; the Manager routes
// user actions through the tab and pane use cases and keeps the registry in
// step with the trees. All methods of Registry, and the Manager's internals,
// run on the main loop.
package terminal

import (
	"context"
	"math"

	"github.com/bnema/dumbmux/internal/application/port"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/logging"
	"github.com/bnema/dumbmux/internal/ui/mainloop"
)

// SessionEndedNotice is written into a pane's emulator when its stream closes.
const SessionEndedNotice = "\r\n[session ended]\r\n"

// Viewport is the pixel size of the surface panes are laid out on.
type Viewport struct {
	Width  int
	Height int
}

// paneSession is the registry entry for one mounted pane.
type paneSession struct {
	paneID    entity.PaneID
	sessionID entity.SessionID
	emulator  port.Emulator
	channel   port.Channel
	opened    bool
	ended     bool
	size      port.GridSize
}

// RegistryConfig holds the registry's collaborators.
type RegistryConfig struct {
	Transport port.SessionTransport
	Emulators port.EmulatorFactory
	Post      func(func()) bool
	Debouncer *mainloop.Debouncer
	Journal   *Journal // Optional
	Viewport  Viewport
}

// Registry is a PaneID-keyed arena of live pane sessions. It is independent
// of tree shape: re-layout moves rectangles, never entries.
type Registry struct {
	ctx       context.Context
	transport port.SessionTransport
	emulators port.EmulatorFactory
	post      func(func()) bool
	debouncer *mainloop.Debouncer
	journal   *Journal
	viewport  Viewport
	entries   map[entity.PaneID]*paneSession
}

// NewRegistry creates an empty registry. ctx scopes every channel the
// registry opens and carries its logger.
func NewRegistry(ctx context.Context, cfg RegistryConfig) *Registry {
	return &Registry{
		ctx:       logging.WithComponent(ctx, "registry"),
		transport: cfg.Transport,
		emulators: cfg.Emulators,
		post:      cfg.Post,
		debouncer: cfg.Debouncer,
		journal:   cfg.Journal,
		viewport:  cfg.Viewport,
		entries:   make(map[entity.PaneID]*paneSession),
	}
}

// Ensure mounts a pane: it opens a channel for the session, creates an
// emulator and binds the two together. A pane already mounted is left as is.
func (r *Registry) Ensure(paneID entity.PaneID, sessionID entity.SessionID) error {
	if _, ok := r.entries[paneID]; ok {
		return nil
	}

	ctx := logging.WithSessionID(logging.WithPaneID(r.ctx, string(paneID)), string(sessionID))
	log := logging.FromContext(ctx)

	entry := &paneSession{
		paneID:    paneID,
		sessionID: sessionID,
		emulator:  r.emulators.NewEmulator(),
	}

	ch, err := r.transport.OpenChannel(r.ctx, sessionID, &channelHandler{registry: r, entry: entry})
	if err != nil {
		entry.emulator.Dispose()
		log.Warn().Err(err).Msg("failed to open session channel")
		return err
	}
	entry.channel = ch

	entry.emulator.OnInput(func(p []byte) {
		buf := append([]byte(nil), p...)
		r.post(func() { r.forward(entry, buf) })
	})

	r.entries[paneID] = entry
	r.journal.Record(paneID, sessionID, entity.SessionOpened, "")

	log.Debug().Int("entries", len(r.entries)).Msg("pane session mounted")
	return nil
}

// Resize schedules a grid refit for the pane. Calls within one debounce
// window collapse into the last one.
func (r *Registry) Resize(paneID entity.PaneID, rect entity.Rect) {
	if _, ok := r.entries[paneID]; !ok {
		return
	}
	r.debouncer.Schedule(string(paneID), func() {
		r.applyResize(paneID, rect)
	})
}

// Destroy unmounts a pane: it cancels any pending resize, closes the channel
// and disposes the emulator. Unknown panes are ignored.
func (r *Registry) Destroy(paneID entity.PaneID) {
	entry, ok := r.entries[paneID]
	if !ok {
		return
	}
	delete(r.entries, paneID)
	r.debouncer.Cancel(string(paneID))

	log := logging.FromContext(r.ctx)
	if err := entry.channel.Close(); err != nil {
		log.Debug().Err(err).Str("pane_id", string(paneID)).Msg("channel close failed")
	}
	entry.emulator.Dispose()
	r.journal.Record(paneID, entry.sessionID, entity.SessionClosed, "")

	log.Debug().
		Str("pane_id", string(paneID)).
		Int("entries", len(r.entries)).
		Msg("pane session destroyed")
}

// Focus gives input focus to the pane's emulator.
func (r *Registry) Focus(paneID entity.PaneID) {
	if entry, ok := r.entries[paneID]; ok {
		entry.emulator.Focus()
	}
}

// Send injects input into the pane as if typed. Reports false for unknown
// panes.
func (r *Registry) Send(paneID entity.PaneID, p []byte) bool {
	entry, ok := r.entries[paneID]
	if !ok {
		return false
	}
	entry.emulator.Input(p)
	return true
}

// Render returns the pane's visible grid.
func (r *Registry) Render(paneID entity.PaneID) (string, bool) {
	entry, ok := r.entries[paneID]
	if !ok {
		return "", false
	}
	return entry.emulator.Render(), true
}

// Ended reports whether the pane's stream has closed.
func (r *Registry) Ended(paneID entity.PaneID) bool {
	entry, ok := r.entries[paneID]
	return ok && entry.ended
}

// SetViewport changes the pixel size used for later refits.
func (r *Registry) SetViewport(vp Viewport) {
	r.viewport = vp
}

// Has reports whether the pane is mounted.
func (r *Registry) Has(paneID entity.PaneID) bool {
	_, ok := r.entries[paneID]
	return ok
}

// Len returns the number of mounted panes.
func (r *Registry) Len() int {
	return len(r.entries)
}

// PaneIDs returns every mounted pane.
func (r *Registry) PaneIDs() []entity.PaneID {
	ids := make([]entity.PaneID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) live(entry *paneSession) bool {
	return r.entries[entry.paneID] == entry
}

func (r *Registry) applyResize(paneID entity.PaneID, rect entity.Rect) {
	entry, ok := r.entries[paneID]
	if !ok {
		return
	}

	widthPx := int(math.Round(rect.W * float64(r.viewport.Width)))
	heightPx := int(math.Round(rect.H * float64(r.viewport.Height)))
	size := entry.emulator.Fit(widthPx, heightPx)
	entry.size = size

	if entry.ended {
		return
	}

	log := logging.FromContext(r.ctx)
	msg, err := port.NewResizeMessage(size).Marshal()
	if err != nil {
		log.Error().Err(err).Msg("failed to encode resize message")
		return
	}
	if err := entry.channel.Send(msg); err != nil {
		log.Debug().Err(err).Str("pane_id", string(paneID)).Msg("resize not sent")
		return
	}

	log.Debug().
		Str("pane_id", string(paneID)).
		Int("cols", size.Cols).
		Int("rows", size.Rows).
		Msg("pane resized")
}

func (r *Registry) forward(entry *paneSession, p []byte) {
	if !r.live(entry) || entry.ended {
		return
	}
	if err := entry.channel.Send(p); err != nil {
		logging.FromContext(r.ctx).Debug().
			Err(err).
			Str("pane_id", string(entry.paneID)).
			Msg("input dropped")
	}
}

// channelHandler moves channel events onto the loop, tagged with the entry
// they were opened for so late events for a destroyed pane are dropped.
type channelHandler struct {
	registry *Registry
	entry    *paneSession
}

func (h *channelHandler) Opened() {
	h.registry.post(func() {
		if !h.registry.live(h.entry) {
			return
		}
		h.entry.opened = true
		logging.FromContext(h.registry.ctx).Debug().
			Str("pane_id", string(h.entry.paneID)).
			Msg("session channel open")
	})
}

func (h *channelHandler) Data(p []byte) {
	buf := append([]byte(nil), p...)
	h.registry.post(func() {
		if !h.registry.live(h.entry) {
			return
		}
		h.entry.emulator.Write(buf)
	})
}

func (h *channelHandler) Closed(err error) {
	h.registry.post(func() {
		if !h.registry.live(h.entry) || h.entry.ended {
			return
		}
		h.entry.ended = true
		h.entry.emulator.Write([]byte(SessionEndedNotice))

		detail := ""
		if err != nil {
			detail = err.Error()
		}
		h.registry.journal.Record(h.entry.paneID, h.entry.sessionID, entity.SessionEnded, detail)

		logging.FromContext(h.registry.ctx).Info().
			Err(err).
			Str("pane_id", string(h.entry.paneID)).
			Str("session_id", string(h.entry.sessionID)).
			Msg("session ended")
	})
}
