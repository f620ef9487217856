package mainloop

import (
	"sync"
	"time"
)

// Debouncer delays a keyed task until the key has been quiet for the
// configured window. Every Schedule for a key restarts its window and
// replaces its task; the task finally runs on the loop via post.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	post    func(func()) bool
	timers  map[string]*time.Timer
	gen     map[string]uint64
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer posting fired tasks through post.
func NewDebouncer(post func(func()) bool, delay time.Duration) *Debouncer {
	if post == nil {
		panic("mainloop.NewDebouncer: post function cannot be nil")
	}

	return &Debouncer{
		delay:  delay,
		post:   post,
		timers: make(map[string]*time.Timer),
		gen:    make(map[string]uint64),
	}
}

// Schedule (re)starts key's window with fn as its task.
func (d *Debouncer) Schedule(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.seq++
	gen := d.seq
	d.gen[key] = gen

	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.post(func() {
			// A later Schedule or a Cancel raced the timer.
			if !d.claim(key, gen) {
				return
			}
			fn()
		})
	})
}

// Cancel drops key's pending task, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	delete(d.timers, key)
	delete(d.gen, key)
}

// Pending reports whether key has a task waiting.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[key]
	return ok
}

// SetDelay changes the window for tasks scheduled from now on.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	d.delay = delay
	d.mu.Unlock()
}

// Stop cancels every pending task. Later calls to Schedule are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
	d.gen = make(map[string]uint64)
}

func (d *Debouncer) claim(key string, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || d.gen[key] != gen {
		return false
	}
	delete(d.timers, key)
	delete(d.gen, key)
	return true
}
