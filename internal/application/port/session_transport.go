// Package port defines the interfaces the multiplexer consumes from the
// outside world: the remote session backend and the terminal emulator.
package port

import (
	"context"
	"encoding/json"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

// SessionTransport allocates remote pty sessions and opens their byte streams.
type SessionTransport interface {
	// CreateSession allocates a remote session. On error no pane may be created.
	CreateSession(ctx context.Context) (entity.SessionID, error)

	// DeleteSession releases a remote session. Failures are not actionable.
	DeleteSession(ctx context.Context, id entity.SessionID) error

	// OpenChannel returns immediately; the handler observes the stream.
	OpenChannel(ctx context.Context, id entity.SessionID, handler ChannelHandler) (Channel, error)
}

// Channel is the sending half of a session's bidirectional stream.
type Channel interface {
	// Send writes one discrete message to the remote pty.
	Send(p []byte) error

	// Close tears the stream down. Calling it more than once is safe.
	Close() error
}

// ChannelHandler observes a channel's events. Calls never overlap and arrive
// in stream order: Opened first, then Data, then exactly one Closed. Closed
// without Opened means the stream never connected.
type ChannelHandler interface {
	Opened()
	Data(p []byte)
	Closed(err error)
}

// ResizeMessageType tags control messages that carry a new grid size.
const ResizeMessageType = "resize"

// ResizeMessage is sent over a channel when the pane's grid changes.
type ResizeMessage struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

// NewResizeMessage builds a resize control message.
func NewResizeMessage(size GridSize) ResizeMessage {
	return ResizeMessage{Type: ResizeMessageType, Cols: size.Cols, Rows: size.Rows}
}

// Marshal serializes the message for Channel.Send.
func (m ResizeMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}
