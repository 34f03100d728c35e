package system

import "github.com/milk9111/ogmo/ecs"

const fixedStep = 1.0 / 60.0

// PhysicsSystem steps the world's attached physics world once per update.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (p *PhysicsSystem) Update(w *ecs.World) {
	if pw := w.PhysicsWorld(); pw != nil {
		pw.Step(fixedStep)
	}
}
