package repository

import (
	"context"

	"github.com/bnema/dumbmux/internal/domain/entity"
)

// SessionEventRepository defines operations for the pane session journal.
type SessionEventRepository interface {
	// Append records a session lifecycle event.
	Append(ctx context.Context, event *entity.SessionEvent) error

	// Recent returns per-session summaries, newest first.
	Recent(ctx context.Context, limit int) ([]entity.SessionSummary, error)

	// Prune removes events for sessions whose last event is older than the cutoff in days.
	Prune(ctx context.Context, olderThanDays int) (int64, error)
}
