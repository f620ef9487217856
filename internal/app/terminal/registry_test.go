package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbmux/internal/application/port"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/ui/mainloop"
)

func newTestRegistry(t *testing.T, h *harness) *Registry {
	t.Helper()
	debouncer := mainloop.NewDebouncer(h.loop.Post, testDebounce)
	t.Cleanup(debouncer.Stop)

	return NewRegistry(context.Background(), RegistryConfig{
		Transport: h.transport,
		Emulators: h.emulators,
		Post:      h.loop.Post,
		Debouncer: debouncer,
		Viewport:  testViewport,
	})
}

func TestRegistry_EnsureIsIdempotent(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() {
		assert.NoError(t, r.Ensure("p1", "s-1"))
		assert.NoError(t, r.Ensure("p1", "s-1"))
	})

	h.onLoop(func() { assert.Equal(t, 1, r.Len()) })
	assert.Equal(t, 1, h.channelCount())
	assert.Equal(t, 1, h.emulators.count())
}

func TestRegistry_DestroyTwiceClosesOnce(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() {
		assert.NoError(t, r.Ensure("p1", "s-1"))
		r.Destroy("p1")
		r.Destroy("p1")
	})

	assert.Equal(t, 1, h.channel("s-1").closeCount())
	assert.True(t, h.emulator("s-1").isDisposed())
	h.onLoop(func() { assert.False(t, r.Has("p1")) })
}

func TestRegistry_ResizeBurstSendsLastSizeOnce(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() { assert.NoError(t, r.Ensure("p1", "s-1")) })

	h.onLoop(func() {
		for i := 1; i <= 10; i++ {
			f := float64(i) / 10
			r.Resize("p1", entity.Rect{PaneID: "p1", W: f, H: f})
		}
	})

	ch := h.channel("s-1")
	require.Eventually(t, func() bool { return len(ch.resizes()) > 0 }, time.Second, 5*time.Millisecond)

	time.Sleep(5 * testDebounce)
	h.onLoop(func() {})

	resizes := ch.resizes()
	require.Len(t, resizes, 1)
	assert.Equal(t, port.ResizeMessage{Type: "resize", Cols: 100, Rows: 50}, resizes[0])
	assert.Equal(t, 1, h.emulator("s-1").fitCount())
}

func TestRegistry_DestroyCancelsPendingResize(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() {
		assert.NoError(t, r.Ensure("p1", "s-1"))
		r.Resize("p1", entity.Rect{PaneID: "p1", W: 1, H: 1})
		r.Destroy("p1")
	})

	time.Sleep(5 * testDebounce)
	h.onLoop(func() {})

	assert.Empty(t, h.channel("s-1").resizes())
}

func TestRegistry_ResizeUnknownPaneIsIgnored(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() {
		r.Resize("ghost", entity.Rect{PaneID: "ghost", W: 1, H: 1})
		r.Focus("ghost")
		assert.False(t, r.Send("ghost", []byte("x")))
	})
}

func TestRegistry_DataReachesEmulatorInOrder(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() { assert.NoError(t, r.Ensure("p1", "s-1")) })

	handler := h.channel("s-1").handler
	handler.Opened()
	handler.Data([]byte("hello "))
	handler.Data([]byte("world"))
	h.onLoop(func() {})

	assert.Equal(t, "hello world", h.emulator("s-1").Render())
}

func TestRegistry_InputIsForwardedToChannel(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() {
		assert.NoError(t, r.Ensure("p1", "s-1"))
		assert.True(t, r.Send("p1", []byte("ls\r")))
	})
	h.onLoop(func() {})

	assert.Equal(t, "ls\r", h.channel("s-1").input())
}

func TestRegistry_DataAfterDestroyIsDropped(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() { assert.NoError(t, r.Ensure("p1", "s-1")) })
	handler := h.channel("s-1").handler

	h.onLoop(func() { r.Destroy("p1") })
	handler.Data([]byte("late"))
	handler.Closed(nil)
	h.onLoop(func() {})

	assert.Empty(t, h.emulator("s-1").Render())
}

func TestRegistry_RemoteCloseShowsNoticeAndStopsInput(t *testing.T) {
	h := newHarness(t)
	r := newTestRegistry(t, h)

	h.onLoop(func() { assert.NoError(t, r.Ensure("p1", "s-1")) })
	ch := h.channel("s-1")

	ch.handler.Closed(nil)
	h.onLoop(func() {
		assert.True(t, r.Ended("p1"))
		assert.True(t, r.Has("p1"))
		r.Send("p1", []byte("ignored"))
	})
	h.onLoop(func() {})

	assert.Contains(t, h.emulator("s-1").Render(), "[session ended]")
	assert.Empty(t, ch.input())
	assert.Zero(t, ch.closeCount())
}
