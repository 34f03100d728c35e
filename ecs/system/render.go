package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
)

// RenderSystem invokes every Draw callback with the entity's world transform
// combined with the camera.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Update is a no-op (render occurs in Draw).
func (s *RenderSystem) Update(w *ecs.World) {}

func (s *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, camX, camY, zoom float64) {
	if w == nil || screen == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	for _, e := range DrawOrder(w) {
		d, ok := ecs.Get(w, e, component.DrawComponent.Kind())
		if !ok || d.Fn == nil {
			continue
		}
		geom := ecs.WorldGeoM(w, e)
		geom.Translate(-camX, -camY)
		geom.Scale(zoom, zoom)
		d.Fn(screen, geom)
	}
}

// DrawOrder returns entities with a Draw callback sorted by render layer and
// then by id. An entity without a RenderLayer uses its nearest ancestor's.
func DrawOrder(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.DrawComponent.Kind())
	layers := make(map[ecs.Entity]int, len(entities))
	for _, e := range entities {
		layers[e] = renderLayer(w, e)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layers[entities[i]], layers[entities[j]]
		if li != lj {
			return li < lj
		}
		return entities[i].ID < entities[j].ID
	})
	return entities
}

func renderLayer(w *ecs.World, e ecs.Entity) int {
	for cur, ok := e, true; ok; cur, ok = w.Parent(cur) {
		if layer, found := ecs.Get(w, cur, component.RenderLayerComponent.Kind()); found {
			return layer.Index
		}
	}
	return 0
}
