package mainloop

import "sync"

// Coalescer collapses bursts of loop tasks sharing a key. A key has at most
// one task queued on the loop; posting again before it runs only replaces
// the function that task will call.
type Coalescer struct {
	mu     sync.Mutex
	latest map[string]func() // present while a task for the key is queued
	post   func(func()) bool
	closed bool
}

// NewCoalescer schedules through post, normally (*Loop).Post.
func NewCoalescer(post func(func()) bool) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: nil post")
	}
	return &Coalescer{latest: make(map[string]func()), post: post}
}

// Post queues fn under key, or replaces the function of the task already
// queued for key.
func (c *Coalescer) Post(key string, fn func()) {
	if key == "" || fn == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	_, queued := c.latest[key]
	c.latest[key] = fn
	c.mu.Unlock()
	if queued {
		return
	}

	if !c.post(func() { c.run(key) }) {
		c.mu.Lock()
		delete(c.latest, key)
		c.mu.Unlock()
	}
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	fn, ok := c.latest[key]
	delete(c.latest, key)
	closed := c.closed
	c.mu.Unlock()

	if ok && !closed {
		fn()
	}
}

// Destroy drops queued work and ignores later posts.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.closed = true
	clear(c.latest)
	c.mu.Unlock()
}
