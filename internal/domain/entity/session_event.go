package entity

import "time"

// SessionEventKind names a step in a pane session's life.
type SessionEventKind string

const (
	SessionOpened SessionEventKind = "opened" // Pane mounted, channel requested
	SessionEnded  SessionEventKind = "ended"  // Remote side closed the stream
	SessionClosed SessionEventKind = "closed" // Pane or tab closed by the user
)

// SessionEvent is one journal record for a pane session.
type SessionEvent struct {
	ID        int64
	PaneID    PaneID
	SessionID SessionID
	Kind      SessionEventKind
	Detail    string
	CreatedAt time.Time
}

// SessionSummary folds the events of one session.
type SessionSummary struct {
	SessionID SessionID
	PaneID    PaneID
	OpenedAt  time.Time
	EndedAt   *time.Time
	ClosedAt  *time.Time
}

// IsLive reports whether the session was neither ended nor closed.
func (s SessionSummary) IsLive() bool {
	return s.EndedAt == nil && s.ClosedAt == nil
}
