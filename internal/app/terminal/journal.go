package terminal

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/domain/repository"
	"github.com/bnema/dumbmux/internal/logging"
)

const journalQueueSize = 256

// Journal appends pane session events to a repository from a background
// worker so that no database I/O happens on the main loop. A nil *Journal
// records nothing.
type Journal struct {
	repo  repository.SessionEventRepository
	queue chan *entity.SessionEvent
	done  chan struct{}
	wg    sync.WaitGroup
	ctx   context.Context

	mu     sync.Mutex
	closed bool
}

// NewJournal starts the journal worker.
func NewJournal(ctx context.Context, repo repository.SessionEventRepository) *Journal {
	j := &Journal{
		repo:  repo,
		queue: make(chan *entity.SessionEvent, journalQueueSize),
		done:  make(chan struct{}),
		ctx:   logging.WithComponent(context.WithoutCancel(ctx), "journal"),
	}

	j.wg.Add(1)
	go j.worker()

	return j
}

// Record queues one event. It never blocks; when the queue is full the event
// is dropped.
func (j *Journal) Record(paneID entity.PaneID, sessionID entity.SessionID, kind entity.SessionEventKind, detail string) {
	if j == nil {
		return
	}

	event := &entity.SessionEvent{
		PaneID:    paneID,
		SessionID: sessionID,
		Kind:      kind,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}

	select {
	case j.queue <- event:
	default:
		logging.FromContext(j.ctx).Warn().
			Str("session_id", string(sessionID)).
			Str("kind", string(kind)).
			Msg("journal queue full, dropping event")
	}
}

// Close stops the worker after persisting every queued event.
func (j *Journal) Close() {
	if j == nil {
		return
	}

	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.done)
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Journal) worker() {
	defer j.wg.Done()

	log := logging.FromContext(j.ctx)

	for {
		select {
		case event := <-j.queue:
			j.persist(event)
		case <-j.done:
			log.Debug().Int("remaining", len(j.queue)).Msg("draining journal queue")
			for {
				select {
				case event := <-j.queue:
					j.persist(event)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) persist(event *entity.SessionEvent) {
	if err := j.repo.Append(j.ctx, event); err != nil {
		logging.FromContext(j.ctx).Warn().
			Err(err).
			Str("session_id", string(event.SessionID)).
			Str("kind", string(event.Kind)).
			Msg("failed to append session event")
	}
}
