package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbmux/internal/application/port"
	"github.com/bnema/dumbmux/internal/application/port/mocks"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/ui/mainloop"
)

const (
	testCellWidth  = 10
	testCellHeight = 20
	testDebounce   = 15 * time.Millisecond
)

var testViewport = Viewport{Width: 1000, Height: 1000}

type fakeChannel struct {
	mu      sync.Mutex
	session entity.SessionID
	handler port.ChannelHandler
	sent    [][]byte
	closes  int
}

func (c *fakeChannel) Send(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, append([]byte(nil), p...))
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *fakeChannel) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// resizes returns the resize control messages sent so far.
func (c *fakeChannel) resizes() []port.ResizeMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []port.ResizeMessage
	for _, p := range c.sent {
		var msg port.ResizeMessage
		if json.Unmarshal(p, &msg) == nil && msg.Type == port.ResizeMessageType {
			out = append(out, msg)
		}
	}
	return out
}

// input returns the non-control payloads sent so far, concatenated.
func (c *fakeChannel) input() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	for _, p := range c.sent {
		var msg port.ResizeMessage
		if json.Unmarshal(p, &msg) == nil && msg.Type == port.ResizeMessageType {
			continue
		}
		buf.Write(p)
	}
	return buf.String()
}

type fakeEmulator struct {
	mu       sync.Mutex
	written  bytes.Buffer
	onInput  func([]byte)
	fits     []port.GridSize
	focused  int
	disposed bool
}

func (e *fakeEmulator) Write(p []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.written.Write(p)
}

func (e *fakeEmulator) OnInput(fn func([]byte)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onInput = fn
}

func (e *fakeEmulator) Fit(widthPx, heightPx int) port.GridSize {
	e.mu.Lock()
	defer e.mu.Unlock()
	size := port.GridSize{Cols: widthPx / testCellWidth, Rows: heightPx / testCellHeight}
	e.fits = append(e.fits, size)
	return size
}

func (e *fakeEmulator) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused++
}

func (e *fakeEmulator) Input(p []byte) {
	e.mu.Lock()
	fn := e.onInput
	e.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

func (e *fakeEmulator) Render() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.written.String()
}

func (e *fakeEmulator) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposed = true
}

func (e *fakeEmulator) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

func (e *fakeEmulator) fitCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fits)
}

type fakeEmulators struct {
	mu      sync.Mutex
	created []*fakeEmulator
}

func (f *fakeEmulators) NewEmulator() port.Emulator {
	f.mu.Lock()
	defer f.mu.Unlock()
	emu := &fakeEmulator{}
	f.created = append(f.created, emu)
	return emu
}

func (f *fakeEmulators) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// harness runs a real loop against a mocked transport that hands out fake
// channels keyed by session.
type harness struct {
	t         *testing.T
	loop      *mainloop.Loop
	transport *mocks.MockSessionTransport
	emulators *fakeEmulators

	mu           sync.Mutex
	sessionSeq   int
	createErr    error
	beforeCreate func()
	channels     map[entity.SessionID]*fakeChannel
	emulatorOf   map[entity.SessionID]*fakeEmulator
	deleted      []entity.SessionID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:          t,
		transport:  mocks.NewMockSessionTransport(t),
		emulators:  &fakeEmulators{},
		channels:   make(map[entity.SessionID]*fakeChannel),
		emulatorOf: make(map[entity.SessionID]*fakeEmulator),
	}

	h.transport.EXPECT().CreateSession(mock.Anything).RunAndReturn(h.createSession).Maybe()
	h.transport.EXPECT().OpenChannel(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(h.openChannel).Maybe()
	h.transport.EXPECT().DeleteSession(mock.Anything, mock.Anything).RunAndReturn(h.deleteSession).Maybe()

	h.loop = mainloop.New()
	go func() { _ = h.loop.Run(context.Background()) }()
	t.Cleanup(h.loop.Stop)

	return h
}

func (h *harness) createSession(context.Context) (entity.SessionID, error) {
	h.mu.Lock()
	hook := h.beforeCreate
	h.beforeCreate = nil
	h.mu.Unlock()
	if hook != nil {
		hook()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.createErr != nil {
		return "", h.createErr
	}
	h.sessionSeq++
	return entity.SessionID(fmt.Sprintf("s-%d", h.sessionSeq)), nil
}

func (h *harness) openChannel(_ context.Context, id entity.SessionID, handler port.ChannelHandler) (port.Channel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := &fakeChannel{session: id, handler: handler}
	h.channels[id] = ch

	// The emulator is created right before the channel is opened.
	h.emulators.mu.Lock()
	h.emulatorOf[id] = h.emulators.created[len(h.emulators.created)-1]
	h.emulators.mu.Unlock()

	return ch, nil
}

func (h *harness) deleteSession(_ context.Context, id entity.SessionID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = append(h.deleted, id)
	return nil
}

func (h *harness) channel(id entity.SessionID) *fakeChannel {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[id]
	require.True(h.t, ok, "no channel for %s", id)
	return ch
}

func (h *harness) emulator(id entity.SessionID) *fakeEmulator {
	h.mu.Lock()
	defer h.mu.Unlock()
	emu, ok := h.emulatorOf[id]
	require.True(h.t, ok, "no emulator for %s", id)
	return emu
}

func (h *harness) deletedSessions() []entity.SessionID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]entity.SessionID(nil), h.deleted...)
}

func (h *harness) channelCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// onLoop runs fn on the loop and waits for it.
func (h *harness) onLoop(fn func()) {
	h.t.Helper()
	require.NoError(h.t, h.loop.Call(context.Background(), fn))
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
