// Package mainloop provides the single goroutine that owns the multiplexer's
// mutable state. Everything that touches tabs, layout trees or pane sessions
// runs as a task on the loop; other goroutines only post.
package mainloop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when work is handed to a loop that is not running.
var ErrStopped = errors.New("main loop stopped")

// Loop runs posted tasks one at a time, in post order.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New creates a loop. Tasks may be posted before Run starts.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Post queues fn for the loop goroutine. It never blocks and is safe to call
// from the loop itself. Returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes tasks until ctx is done or Stop is called. Tasks still queued
// at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.markStopped()

	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
		}
	}
}

// Stop ends Run after the task in flight. Safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stop)
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Call runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// The task may have been the last one run.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) markStopped() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = nil
	if !l.stopped {
		l.stopped = true
		close(l.stop)
	}
}
