package mainloop

import (
	"context"
	"testing"
	"time"
)

func TestDebouncerRunsOnlyLatestTaskOfBurst(t *testing.T) {
	l := startLoop(t)
	d := NewDebouncer(l.Post, 20*time.Millisecond)
	defer d.Stop()

	fired := make(chan int, 10)
	for i := 1; i <= 10; i++ {
		v := i
		d.Schedule("pane", func() { fired <- v })
	}

	select {
	case v := <-fired:
		if v != 10 {
			t.Fatalf("expected last task to run, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced task never ran")
	}

	time.Sleep(60 * time.Millisecond)
	if err := l.Call(context.Background(), func() {}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(fired) != 0 {
		t.Fatalf("expected a single run, got %d extra", len(fired))
	}
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	l := startLoop(t)
	d := NewDebouncer(l.Post, 10*time.Millisecond)
	defer d.Stop()

	fired := make(chan string, 2)
	d.Schedule("a", func() { fired <- "a" })
	d.Schedule("b", func() { fired <- "b" })

	seen := map[string]bool{}
	for len(seen) < 2 {
		select {
		case k := <-fired:
			seen[k] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("only saw %v", seen)
		}
	}
}

func TestDebouncerCancelDropsPendingTask(t *testing.T) {
	l := startLoop(t)
	d := NewDebouncer(l.Post, 10*time.Millisecond)
	defer d.Stop()

	ran := false
	d.Schedule("pane", func() { ran = true })
	if !d.Pending("pane") {
		t.Fatalf("expected pending task")
	}
	d.Cancel("pane")

	time.Sleep(50 * time.Millisecond)
	if err := l.Call(context.Background(), func() {}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if ran {
		t.Fatalf("expected cancelled task not to run")
	}
	if d.Pending("pane") {
		t.Fatalf("expected nothing pending after cancel")
	}
}

func TestDebouncerIgnoresScheduleAfterStop(t *testing.T) {
	l := startLoop(t)
	d := NewDebouncer(l.Post, time.Millisecond)
	d.Stop()

	d.Schedule("pane", func() { t.Errorf("task ran after stop") })

	time.Sleep(20 * time.Millisecond)
	_ = l.Call(context.Background(), func() {})
}

func TestDebouncerStaleTimerIgnoredAfterKeyReuse(t *testing.T) {
	posted := make(chan func(), 2)
	d := NewDebouncer(func(fn func()) bool {
		posted <- fn
		return true
	}, time.Millisecond)
	defer d.Stop()

	next := func() func() {
		select {
		case fn := <-posted:
			return fn
		case <-time.After(2 * time.Second):
			t.Fatalf("timer never fired")
			return nil
		}
	}

	var ran []string
	d.Schedule("pane", func() { ran = append(ran, "old") })
	stale := next()

	d.Cancel("pane")
	d.Schedule("pane", func() { ran = append(ran, "new") })
	fresh := next()

	stale()
	fresh()
	if len(ran) != 1 || ran[0] != "new" {
		t.Fatalf("expected only the new task, got %v", ran)
	}
}
