package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/domain/repository"
	"github.com/bnema/dumbmux/internal/logging"
)

const defaultRecentLimit = 20

// Timestamps are stored as unix nanoseconds.
const (
	insertSessionEvent = `
INSERT INTO session_events (pane_id, session_id, kind, detail, created_at)
VALUES (?, ?, ?, ?, ?)`

	selectRecentSummaries = `
SELECT session_id,
       MAX(pane_id),
       COALESCE(MIN(CASE WHEN kind = 'opened' THEN created_at END), MIN(created_at)) AS opened_at,
       MIN(CASE WHEN kind = 'ended' THEN created_at END),
       MIN(CASE WHEN kind = 'closed' THEN created_at END)
FROM session_events
GROUP BY session_id
ORDER BY opened_at DESC, MAX(id) DESC
LIMIT ?`

	deleteStaleSessions = `
DELETE FROM session_events
WHERE session_id IN (
    SELECT session_id FROM session_events
    GROUP BY session_id
    HAVING MAX(created_at) < ?
)`
)

var errInvalidEvent = errors.New("invalid session event")

type sessionEventRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionEventRepository returns the sqlite-backed session journal.
func NewSessionEventRepository(db *sql.DB) repository.SessionEventRepository {
	return &sessionEventRepo{db: db, now: time.Now}
}

func (r *sessionEventRepo) Append(ctx context.Context, event *entity.SessionEvent) error {
	if event == nil || event.SessionID == "" || event.Kind == "" {
		return errInvalidEvent
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}

	res, err := r.db.ExecContext(ctx, insertSessionEvent,
		string(event.PaneID),
		string(event.SessionID),
		string(event.Kind),
		event.Detail,
		event.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append session event: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		event.ID = id
	}

	logging.FromContext(ctx).Debug().
		Str("session_id", string(event.SessionID)).
		Str("kind", string(event.Kind)).
		Msg("session event recorded")
	return nil
}

func (r *sessionEventRepo) Recent(ctx context.Context, limit int) ([]entity.SessionSummary, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, selectRecentSummaries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []entity.SessionSummary
	for rows.Next() {
		var (
			sessionID, paneID string
			openedAt          int64
			endedAt, closedAt sql.NullInt64
		)
		if err := rows.Scan(&sessionID, &paneID, &openedAt, &endedAt, &closedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		summaries = append(summaries, entity.SessionSummary{
			SessionID: entity.SessionID(sessionID),
			PaneID:    entity.PaneID(paneID),
			OpenedAt:  fromUnixNano(openedAt),
			EndedAt:   nullTime(endedAt),
			ClosedAt:  nullTime(closedAt),
		})
	}
	return summaries, rows.Err()
}

func (r *sessionEventRepo) Prune(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, nil
	}

	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	res, err := r.db.ExecContext(ctx, deleteStaleSessions, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune session events: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.FromContext(ctx).Info().
			Int64("events", n).
			Int("older_than_days", olderThanDays).
			Msg("pruned session journal")
	}
	return n, nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnixNano(v.Int64)
	return &t
}
