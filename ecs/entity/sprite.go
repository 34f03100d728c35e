package entity

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
)

// drawSprite draws e's Sprite around its origin.
func drawSprite(w *ecs.World, e ecs.Entity) func(*ebiten.Image, ebiten.GeoM) {
	return func(screen *ebiten.Image, geom ebiten.GeoM) {
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok || s.Image == nil {
			return
		}
		img := s.Image
		if s.UseSource {
			if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		if s.FlipX {
			op.GeoM.Scale(-1, 1)
		}
		if s.FlipY {
			op.GeoM.Scale(1, -1)
		}
		op.GeoM.Concat(geom)
		screen.DrawImage(img, op)
	}
}
