package component

import "github.com/hajimehoshi/ebiten/v2"

// Draw is a per-frame draw callback. geom is the entity's world transform
// already combined with the camera.
type Draw struct {
	Fn func(screen *ebiten.Image, geom ebiten.GeoM)
}

var DrawComponent = NewComponent[Draw]("draw")
