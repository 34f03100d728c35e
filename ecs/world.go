package ecs

import (
	"context"
	"sync"

	"github.com/milk9111/ogmo/ecs/component"
)

// World owns entities, their components, the parent/child hierarchy and the
// queue of mutations posted from other goroutines.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet

	parents  map[Entity]Entity
	children map[Entity][]Entity
	names    map[Entity]string

	scheduler *Scheduler
	events    EventQueue
	deferred  DeferredQueue

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	ctx, cancel := context.WithCancel(context.Background())
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		parents:   make(map[Entity]Entity),
		children:  make(map[Entity][]Entity),
		names:     make(map[Entity]string),
		scheduler: NewScheduler(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// CreateEntity allocates a new root entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity destroys e and every entity below it in the hierarchy.
// It returns false if e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, child := range w.Children(e) {
		DestroyEntity(w, child)
	}
	if parent, ok := w.parents[e]; ok {
		w.detach(parent, e)
	}
	delete(w.children, e)
	delete(w.names, e)
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity ordered by id.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update applies posted mutations, runs all systems once, then clears the
// event queue.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, fn := range w.deferred.drain() {
		fn(w)
	}
	w.scheduler.Update(w)
	w.events.flush()
}

// Post queues fn to run on the next Update. It is safe to call from any
// goroutine. Post returns false once the world is closed.
func (w *World) Post(fn func(w *World)) bool {
	if w == nil || fn == nil {
		return false
	}
	return w.deferred.push(fn)
}

// Context is cancelled when the world is closed. Background work started on
// behalf of the world should stop when it is done.
func (w *World) Context() context.Context {
	if w == nil {
		return context.Background()
	}
	return w.ctx
}

// Close cancels background work and drops pending mutations.
func (w *World) Close() {
	if w == nil {
		return
	}
	w.closeOnce.Do(func() {
		w.cancel()
		w.deferred.close()
	})
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
