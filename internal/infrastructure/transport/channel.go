package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/bnema/dumbmux/internal/application/port"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 1 << 20

	// Outbound messages buffered while the socket is connecting or busy.
	sendQueueSize = 256
)

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrSendQueueFull = errors.New("channel send queue full")
)

type channelConfig struct {
	url          string
	dialer       *websocket.Dialer
	handler      port.ChannelHandler
	pingInterval time.Duration
	logger       zerolog.Logger
}

// channel is a websocket-backed port.Channel. It dials in the background;
// messages sent before the socket is up are queued.
type channel struct {
	cfg   channelConfig
	send  chan []byte
	close chan struct{} // Closed by Close
	dead  chan struct{} // Closed once the handler has seen Closed
	once  sync.Once
}

var _ port.Channel = (*channel)(nil)

func newChannel(cfg channelConfig) *channel {
	return &channel{
		cfg:   cfg,
		send:  make(chan []byte, sendQueueSize),
		close: make(chan struct{}),
		dead:  make(chan struct{}),
	}
}

// Send queues one message. Each message goes out in its own text frame.
func (c *channel) Send(p []byte) error {
	select {
	case <-c.close:
		return ErrChannelClosed
	case <-c.dead:
		return ErrChannelClosed
	default:
	}

	msg := append([]byte(nil), p...)
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close tears the stream down without waiting for it.
func (c *channel) Close() error {
	c.once.Do(func() { close(c.close) })
	return nil
}

func (c *channel) run(ctx context.Context) {
	log := c.cfg.logger
	defer close(c.dead)

	conn, _, err := c.cfg.dialer.DialContext(ctx, c.cfg.url, nil)
	if err != nil {
		log.Warn().Err(err).Str("url", c.cfg.url).Msg("session stream dial failed")
		c.cfg.handler.Closed(fmt.Errorf("dial session stream: %w", err))
		return
	}

	select {
	case <-c.close:
		_ = conn.Close()
		c.cfg.handler.Closed(nil)
		return
	default:
	}

	log.Debug().Msg("session stream open")
	c.cfg.handler.Opened()

	readDone := make(chan error, 1)
	go func() { readDone <- c.readPump(conn) }()

	readFinished, err := c.writePump(ctx, conn, readDone)
	_ = conn.Close()
	if !readFinished {
		// Errors caused by our own close are not interesting.
		<-readDone
	}

	if err != nil {
		log.Debug().Err(err).Msg("session stream closed with error")
	} else {
		log.Debug().Msg("session stream closed")
	}
	c.cfg.handler.Closed(err)
}

// readPump delivers inbound frames to the handler until the socket fails.
// A normal close from the peer returns nil.
func (c *channel) readPump(conn *websocket.Conn) error {
	pongWait := c.cfg.pingInterval * 10 / 9

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		c.cfg.handler.Data(message)
	}
}

// writePump drains the send queue and keeps the peer alive with pings. It
// returns when the reader fails, the channel is closed locally or a write
// fails. readFinished reports whether readDone was consumed.
func (c *channel) writePump(ctx context.Context, conn *websocket.Conn, readDone <-chan error) (readFinished bool, err error) {
	ticker := time.NewTicker(c.cfg.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return false, err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return false, err
			}
		case err := <-readDone:
			return true, err
		case <-c.close:
			c.writeClose(conn)
			return false, nil
		case <-ctx.Done():
			c.writeClose(conn)
			return false, ctx.Err()
		}
	}
}

func (c *channel) writeClose(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
