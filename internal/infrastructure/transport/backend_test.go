package transport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// fakeBackend is a session API plus pty stream stand-in. Streams echo every
// frame back prefixed with "echo:" and close on "exit".
type fakeBackend struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]bool
	deleted  []string
	received map[string][]string
	failNext int // Status to return from the next request, 0 for none

	server   *httptest.Server
	upgrader websocket.Upgrader
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &fakeBackend{
		sessions: make(map[string]bool),
		received: make(map[string][]string),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	router := gin.New()
	api := router.Group("/api")
	api.POST("/sessions", b.create)
	api.DELETE("/sessions/:id", b.delete)
	api.GET("/sessions/:id/ws", b.stream)

	b.server = httptest.NewServer(router)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) takeFailure() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := b.failNext
	b.failNext = 0
	return status
}

func (b *fakeBackend) create(c *gin.Context) {
	if status := b.takeFailure(); status != 0 {
		c.JSON(status, gin.H{"error": "unavailable"})
		return
	}

	b.mu.Lock()
	b.seq++
	id := fmt.Sprintf("sess-%d", b.seq)
	b.sessions[id] = true
	b.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (b *fakeBackend) delete(c *gin.Context) {
	if status := b.takeFailure(); status != 0 {
		c.Status(status)
		return
	}

	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.sessions[id] {
		c.Status(http.StatusNotFound)
		return
	}
	delete(b.sessions, id)
	b.deleted = append(b.deleted, id)
	c.Status(http.StatusNoContent)
}

func (b *fakeBackend) stream(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	known := b.sessions[id]
	b.mu.Unlock()
	if !known {
		c.Status(http.StatusNotFound)
		return
	}

	conn, err := b.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		b.mu.Lock()
		b.received[id] = append(b.received[id], string(msg))
		b.mu.Unlock()

		if string(msg) == "exit" {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, append([]byte("echo:"), msg...)); err != nil {
			return
		}
	}
}

func (b *fakeBackend) receivedBy(id string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.received[id]...)
}

func (b *fakeBackend) deletedIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

// recordingHandler collects channel events.
type recordingHandler struct {
	opened chan struct{}
	data   chan string
	closed chan error
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		opened: make(chan struct{}, 1),
		data:   make(chan string, 64),
		closed: make(chan error, 1),
	}
}

func (h *recordingHandler) Opened()          { h.opened <- struct{}{} }
func (h *recordingHandler) Data(p []byte)    { h.data <- string(p) }
func (h *recordingHandler) Closed(err error) { h.closed <- err }
