package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/ecs/component"
)

// RenderSystem draws ECS entities each frame.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image, camX, camY, zoom float64)
}

// Draw calls all render-capable systems.
func (w *World) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if w == nil || screen == nil {
		return
	}
	for _, s := range w.scheduler.Systems() {
		rs, ok := s.(RenderSystem)
		if !ok || rs == nil {
			continue
		}
		rs.Draw(w, screen, camX, camY, zoom)
	}
}

// LocalGeoM returns the transform of e relative to its parent. Entities
// without a Transform are treated as identity.
func LocalGeoM(w *World, e Entity) ebiten.GeoM {
	var g ebiten.GeoM
	t, ok := Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return g
	}
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	g.Scale(sx, sy)
	g.Rotate(t.Rotation)
	g.Translate(t.X, t.Y)
	return g
}

// WorldGeoM composes e's transform with every ancestor's.
func WorldGeoM(w *World, e Entity) ebiten.GeoM {
	g := LocalGeoM(w, e)
	for p, ok := w.Parent(e); ok; p, ok = w.Parent(p) {
		g.Concat(LocalGeoM(w, p))
	}
	return g
}
