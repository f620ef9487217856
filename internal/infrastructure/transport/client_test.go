package transport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbmux/internal/application/port"
	"github.com/bnema/dumbmux/internal/domain/entity"
)

const eventTimeout = 2 * time.Second

func newTestClient(t *testing.T, b *fakeBackend) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:      b.server.URL,
		SessionsPath: "/api/sessions",
		DialTimeout:  time.Second,
		PingInterval: time.Second,
	})
	require.NoError(t, err)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "http://", "::bad"} {
		_, err := NewClient(Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestClient_StreamURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "https://mux.example.com/", SessionsPath: "/v1/sessions"})
	require.NoError(t, err)

	got, err := c.streamURL("abc")
	require.NoError(t, err)
	assert.Equal(t, "wss://mux.example.com/v1/sessions/abc/ws", got)
}

func TestClient_CreateAndDeleteSession(t *testing.T) {
	b := newFakeBackend(t)
	c := newTestClient(t, b)
	ctx := context.Background()

	id, err := c.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionID("sess-1"), id)

	require.NoError(t, c.DeleteSession(ctx, id))
	assert.Equal(t, []string{"sess-1"}, b.deletedIDs())

	// Already gone on the backend.
	assert.NoError(t, c.DeleteSession(ctx, id))
}

func TestClient_CreateSessionFailure(t *testing.T) {
	b := newFakeBackend(t)
	c := newTestClient(t, b)
	b.mu.Lock()
	b.failNext = http.StatusServiceUnavailable
	b.mu.Unlock()

	id, err := c.CreateSession(context.Background())

	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestClient_DeleteSessionRetriesServerErrors(t *testing.T) {
	b := newFakeBackend(t)
	c := newTestClient(t, b)
	ctx := context.Background()

	id, err := c.CreateSession(ctx)
	require.NoError(t, err)

	b.mu.Lock()
	b.failNext = http.StatusBadGateway
	b.mu.Unlock()

	require.NoError(t, c.DeleteSession(ctx, id))
	assert.Equal(t, []string{string(id)}, b.deletedIDs())
}

func TestChannel_RoundTrip(t *testing.T) {
	b := newFakeBackend(t)
	c := newTestClient(t, b)
	ctx := context.Background()

	id, err := c.CreateSession(ctx)
	require.NoError(t, err)

	h := newRecordingHandler()
	ch, err := c.OpenChannel(ctx, id, h)
	require.NoError(t, err)

	// Queued before the socket is up.
	require.NoError(t, ch.Send([]byte("ls\r")))

	select {
	case <-h.opened:
	case <-time.After(eventTimeout):
		t.Fatal("channel never opened")
	}

	resize, err := port.NewResizeMessage(port.GridSize{Cols: 80, Rows: 24}).Marshal()
	require.NoError(t, err)
	require.NoError(t, ch.Send(resize))

	for _, want := range []string{"echo:ls\r", "echo:" + string(resize)} {
		select {
		case got := <-h.data:
			assert.Equal(t, want, got)
		case <-time.After(eventTimeout):
			t.Fatalf("no echo for %q", want)
		}
	}
	assert.Equal(t, []string{"ls\r", `{"type":"resize","cols":80,"rows":24}`}, b.receivedBy(string(id)))

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	select {
	case err := <-h.closed:
		assert.NoError(t, err)
	case <-time.After(eventTimeout):
		t.Fatal("channel never reported close")
	}
	assert.ErrorIs(t, ch.Send([]byte("late")), ErrChannelClosed)
}

func TestChannel_RemoteCloseReportsClosed(t *testing.T) {
	b := newFakeBackend(t)
	c := newTestClient(t, b)
	ctx := context.Background()

	id, err := c.CreateSession(ctx)
	require.NoError(t, err)

	h := newRecordingHandler()
	ch, err := c.OpenChannel(ctx, id, h)
	require.NoError(t, err)
	require.NoError(t, ch.Send([]byte("exit")))

	select {
	case err := <-h.closed:
		assert.NoError(t, err)
	case <-time.After(eventTimeout):
		t.Fatal("remote close not reported")
	}

	inner := ch.(*channel)
	<-inner.dead
	assert.ErrorIs(t, ch.Send([]byte("x")), ErrChannelClosed)
}

func TestChannel_DialFailureReportsClosedWithoutOpen(t *testing.T) {
	b := newFakeBackend(t)
	c := newTestClient(t, b)

	h := newRecordingHandler()
	_, err := c.OpenChannel(context.Background(), "unknown", h)
	require.NoError(t, err)

	select {
	case err := <-h.closed:
		assert.Error(t, err)
	case <-time.After(eventTimeout):
		t.Fatal("dial failure not reported")
	}
	assert.Empty(t, h.opened)
}

func TestRetryDelayForAttempt(t *testing.T) {
	noJitter := func(int64) int64 { return 0 }

	assert.Equal(t, retryBaseDelay, retryDelayForAttempt(1, noJitter))
	assert.Equal(t, 2*retryBaseDelay, retryDelayForAttempt(2, noJitter))
	assert.Equal(t, retryMaxDelay, retryDelayForAttempt(10, noJitter))
}
