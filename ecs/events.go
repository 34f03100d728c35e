package ecs

import "sync"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventLevelLoaded   = "level_loaded"
	EventDecalResolved = "decal_resolved"
	EventDecalFailed   = "decal_failed"
)

// EventQueue is a simple FIFO queue. It is cleared at the end of every
// World.Update.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}

// DeferredQueue carries world mutations from other goroutines to the
// goroutine that calls World.Update.
type DeferredQueue struct {
	mu     sync.Mutex
	items  []func(*World)
	closed bool
}

func (q *DeferredQueue) push(fn func(*World)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, fn)
	return true
}

func (q *DeferredQueue) drain() []func(*World) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (q *DeferredQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}

// Len reports the number of pending mutations.
func (q *DeferredQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending reports how many posted mutations wait for the next Update.
func (w *World) Pending() int {
	if w == nil {
		return 0
	}
	return w.deferred.Len()
}
