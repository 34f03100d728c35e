package entity

import (
	"context"
	"errors"
	"maps"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/ecs/render"
	"github.com/milk9111/ogmo/logger"
	"github.com/sirupsen/logrus"
)

// DecalTexturePath joins the layer folder and the placement's texture.
func DecalTexturePath(spawn DecalSpawn) string {
	folder := ""
	if spawn.Layer != nil {
		folder = spawn.Layer.Folder
	}
	return path.Join(folder, spawn.Placement.Texture)
}

// DefaultDecalFactory creates a decal with a unit square placeholder Shape
// and resolves its texture in the background. Once the image is known the
// Shape becomes an image sized rectangle and the Sprite is set, on the next
// World.Update. Completions for destroyed decals or a closed world are
// dropped. A failed load is logged and the placeholder stays.
func DefaultDecalFactory(textures render.TextureLoader, log *logrus.Logger) DecalFactory {
	log = logger.Or(log)
	return func(ctx context.Context, w *ecs.World, spawn DecalSpawn) (ecs.Entity, error) {
		e, err := ecs.CreateChild(w, spawn.Parent, "")
		if err != nil {
			return ecs.Entity{}, err
		}

		texture := DecalTexturePath(spawn)
		if err := addDecalComponents(w, e, spawn, texture); err != nil {
			ecs.DestroyEntity(w, e)
			return ecs.Entity{}, err
		}

		if textures != nil {
			resolveDecal(ctx, w, e, texture, textures, log)
		}
		return e, nil
	}
}

func addDecalComponents(w *ecs.World, e ecs.Entity, spawn DecalSpawn, texture string) error {
	p := spawn.Placement
	sx, sy := p.Scale()
	rotation := 0.0
	if p.Rotation != nil {
		rotation = *p.Rotation
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        p.X,
		Y:        p.Y,
		ScaleX:   sx,
		ScaleY:   sy,
		Rotation: rotation,
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ShapeComponent.Kind(), &component.Shape{Points: common.Rect(1, 1), Placeholder: true}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.DecalComponent.Kind(), &component.Decal{Texture: texture, Values: maps.Clone(p.Values)}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.DrawComponent.Kind(), &component.Draw{Fn: drawSprite(w, e)})
}

// resolveDecal loads the texture off the caller's goroutine. The load stops
// when either ctx or the world is done.
func resolveDecal(ctx context.Context, w *ecs.World, e ecs.Entity, texture string, textures render.TextureLoader, log *logrus.Logger) {
	loadCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(w.Context(), cancel)

	go func() {
		defer cancel()
		defer stop()

		img, err := textures.LoadTexture(loadCtx, texture)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		w.Post(func(w *ecs.World) {
			applyDecalTexture(w, e, texture, img, err, log)
		})
	}()
}

func applyDecalTexture(w *ecs.World, e ecs.Entity, texture string, img *ebiten.Image, err error, log *logrus.Logger) {
	if !w.IsAlive(e) {
		return
	}
	decal, ok := ecs.Get(w, e, component.DecalComponent.Kind())
	if !ok {
		return
	}
	if err != nil {
		decal.Err = err
		log.WithError(err).WithField("texture", texture).Warn("decal texture unavailable")
		w.Events().Push(ecs.Event{Type: ecs.EventDecalFailed, Data: err})
		return
	}

	b := img.Bounds()
	if shape, ok := ecs.Get(w, e, component.ShapeComponent.Kind()); ok {
		shape.Points = common.Rect(float64(b.Dx()), float64(b.Dy()))
		shape.Placeholder = false
	}
	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sprite.Image = img
	}
	decal.Resolved = true
	decal.Err = nil
	w.Events().Push(ecs.Event{Type: ecs.EventDecalResolved, Data: e})
}
