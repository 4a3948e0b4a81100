// Package spawn starts background work while keeping a handle per
// task, so tests and diagnostics can observe completion even though
// production callers usually discard the handle.
package spawn

import (
	"sync"
	"time"
)

// Handle tracks one background task.
type Handle struct {
	name string
	done chan struct{}
}

func (h *Handle) Name() string {
	return h.name
}

// Done is closed when the task returns.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or the timeout elapses. It
// reports whether the task finished.
func (h *Handle) Wait(timeout time.Duration) bool {
	select {
	case <-h.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

type Spawner struct {
	mu      sync.Mutex
	handles []*Handle
}

func NewSpawner() *Spawner {
	return &Spawner{}
}

// Go runs fn on its own goroutine and records a handle for it.
func (s *Spawner) Go(name string, fn func()) *Handle {
	h := &Handle{name: name, done: make(chan struct{})}
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	go func() {
		defer close(h.done)
		fn()
	}()
	return h
}

// Handles returns a snapshot of every task started so far.
func (s *Spawner) Handles() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// WaitAll waits for every recorded task within the timeout and reports
// whether all of them finished.
func (s *Spawner) WaitAll(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for _, h := range s.Handles() {
		remaining := time.Until(deadline)
		if remaining <= 0 || !h.Wait(remaining) {
			return false
		}
	}
	return true
}
