package ecs

import "github.com/milk9111/ogmo/ecs/component"

// CreateChild allocates an entity below parent. name may be empty.
func CreateChild(w *World, parent Entity, name string) (Entity, error) {
	if !w.IsAlive(parent) {
		return Entity{}, component.ErrEntityNotAlive
	}
	e := CreateEntity(w)
	w.parents[e] = parent
	w.children[parent] = append(w.children[parent], e)
	if name != "" {
		w.names[e] = name
	}
	return e, nil
}

// SetName names e so it can be found with FindChild.
func (w *World) SetName(e Entity, name string) {
	if !w.IsAlive(e) {
		return
	}
	if name == "" {
		delete(w.names, e)
		return
	}
	w.names[e] = name
}

func (w *World) Name(e Entity) string {
	if !w.IsAlive(e) {
		return ""
	}
	return w.names[e]
}

// Parent returns e's parent. Root entities have none.
func (w *World) Parent(e Entity) (Entity, bool) {
	if !w.IsAlive(e) {
		return Entity{}, false
	}
	p, ok := w.parents[e]
	return p, ok
}

// Children returns a copy of e's children in creation order.
func (w *World) Children(e Entity) []Entity {
	if !w.IsAlive(e) {
		return nil
	}
	return append([]Entity(nil), w.children[e]...)
}

// FindChild returns the first direct child of parent called name.
func (w *World) FindChild(parent Entity, name string) (Entity, bool) {
	for _, c := range w.Children(parent) {
		if w.names[c] == name {
			return c, true
		}
	}
	return Entity{}, false
}

func (w *World) detach(parent, child Entity) {
	siblings := w.children[parent]
	for i, c := range siblings {
		if c == child {
			w.children[parent] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	delete(w.parents, child)
}
