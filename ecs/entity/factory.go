package entity

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/levels"
)

var ErrUnresolvedEntityFactory = errors.New("entity: no factory for entity")

// UnresolvedEntityFactoryError names a level entity with no registered
// factory.
type UnresolvedEntityFactoryError struct {
	Name string
}

func (e *UnresolvedEntityFactoryError) Error() string {
	return fmt.Sprintf("entity: no factory for entity %q", e.Name)
}

func (e *UnresolvedEntityFactoryError) Unwrap() error {
	return ErrUnresolvedEntityFactory
}

// EntitySpawn is handed to an EntityFactory for one placement. Rotation is
// in radians.
type EntitySpawn struct {
	Placement levels.EntityPlacement
	Rotation  float64
	Layer     *levels.EntityLayer
	Parent    ecs.Entity
}

// DecalSpawn is handed to a DecalFactory for one placement. The placement's
// rotation is already in radians.
type DecalSpawn struct {
	Placement levels.DecalPlacement
	Layer     *levels.DecalLayer
	Parent    ecs.Entity
}

type EntityFactory func(ctx context.Context, w *ecs.World, spawn EntitySpawn) (ecs.Entity, error)

type DecalFactory func(ctx context.Context, w *ecs.World, spawn DecalSpawn) (ecs.Entity, error)

// Registry maps entity names from the editor to factories.
type Registry map[string]EntityFactory

// Resolve returns the factory for name.
func (r Registry) Resolve(name string) (EntityFactory, error) {
	f, ok := r[name]
	if !ok || f == nil {
		return nil, &UnresolvedEntityFactoryError{Name: name}
	}
	return f, nil
}

// Merge returns a registry holding r's factories overridden by other's.
func (r Registry) Merge(other Registry) Registry {
	out := make(Registry, len(r)+len(other))
	maps.Copy(out, r)
	maps.Copy(out, other)
	return out
}

// SpawnPlacement creates the entity every factory starts from: a child of
// spawn.Parent named after the placement, with a Transform at the placement
// position, the placement metadata and its custom values.
func SpawnPlacement(w *ecs.World, spawn EntitySpawn) (ecs.Entity, error) {
	p := spawn.Placement
	e, err := ecs.CreateChild(w, spawn.Parent, p.Name)
	if err != nil {
		return ecs.Entity{}, err
	}

	sx, sy := 1.0, 1.0
	if p.FlippedX {
		sx = -1
	}
	if p.FlippedY {
		sy = -1
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        p.X,
		Y:        p.Y,
		ScaleX:   sx,
		ScaleY:   sy,
		Rotation: spawn.Rotation,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return ecs.Entity{}, err
	}

	placement := &component.Placement{
		Name:     p.Name,
		ID:       p.ID,
		ExportID: p.ExportID,
		FlipX:    p.FlippedX,
		FlipY:    p.FlippedY,
		Nodes:    append([]common.Vec(nil), p.Nodes...),
		Width:    deref(p.Width),
		Height:   deref(p.Height),
		OriginX:  deref(p.OriginX),
		OriginY:  deref(p.OriginY),
	}
	if err := ecs.Add(w, e, component.PlacementComponent.Kind(), placement); err != nil {
		ecs.DestroyEntity(w, e)
		return ecs.Entity{}, err
	}
	if err := ecs.Add(w, e, component.PropertiesComponent.Kind(), &component.Properties{Values: maps.Clone(p.Values)}); err != nil {
		ecs.DestroyEntity(w, e)
		return ecs.Entity{}, err
	}
	return e, nil
}

// PlacementFactory is an EntityFactory that only records the placement.
func PlacementFactory(_ context.Context, w *ecs.World, spawn EntitySpawn) (ecs.Entity, error) {
	return SpawnPlacement(w, spawn)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// WithFallback returns a copy of r where every entity name placed in lvl
// that r cannot resolve uses fallback.
func (r Registry) WithFallback(lvl *levels.Level, fallback EntityFactory) Registry {
	out := r.Merge(nil)
	for _, layer := range lvl.Layers {
		ly, ok := layer.(*levels.EntityLayer)
		if !ok {
			continue
		}
		for _, p := range ly.Entities {
			if _, err := out.Resolve(p.Name); err != nil {
				out[p.Name] = fallback
			}
		}
	}
	return out
}
