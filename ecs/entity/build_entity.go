package entity

import (
	"context"
	"fmt"
	"maps"
	"sort"

	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/ecs/render"
	"github.com/milk9111/ogmo/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// PrefabOptions configures prefab factories. LoadScript defaults to
// prefabs.LoadScript.
type PrefabOptions struct {
	Textures   render.TextureLoader
	LoadScript func(name string) ([]byte, error)
}

type buildContext struct {
	Context    context.Context
	PrefabName string
	Spawn      EntitySpawn
	Textures   render.TextureLoader
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":    addTransform,
	"sprite":       addSprite,
	"render_layer": addRenderLayer,
	"shape":        addShape,
	"properties":   addProperties,
}

var componentBuildOrder = []string{
	"transform",
	"sprite",
	"render_layer",
	"shape",
	"properties",
}

// NewPrefabFactory returns a factory that spawns the placement and then adds
// the prefab's components. Unknown component names fail here rather than at
// spawn time.
func NewPrefabFactory(spec entityPrefabSpec, opts PrefabOptions) (EntityFactory, error) {
	if len(spec.Components) == 0 && spec.Script == "" {
		return nil, fmt.Errorf("entity: prefab %q does not define components", spec.Name)
	}
	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return nil, fmt.Errorf("entity: prefab %q: no builder for component %q", spec.Name, name)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return buildRank(names[i]) < buildRank(names[j]) })

	factory := func(ctx context.Context, w *ecs.World, spawn EntitySpawn) (ecs.Entity, error) {
		e, err := SpawnPlacement(w, spawn)
		if err != nil {
			return ecs.Entity{}, err
		}
		bctx := &buildContext{Context: ctx, PrefabName: spec.Name, Spawn: spawn, Textures: opts.Textures}
		for _, name := range names {
			if err := componentRegistry[name](w, e, spec.Components[name], bctx); err != nil {
				ecs.DestroyEntity(w, e)
				return ecs.Entity{}, fmt.Errorf("entity: prefab %q: add %q: %w", spec.Name, name, err)
			}
		}
		return e, nil
	}
	if spec.Script == "" {
		return factory, nil
	}

	load := opts.LoadScript
	if load == nil {
		load = prefabs.LoadScript
	}
	src, err := load(spec.Script)
	if err != nil {
		return nil, fmt.Errorf("entity: prefab %q: load script %q: %w", spec.Name, spec.Script, err)
	}
	script, err := CompileSpawnScript(spec.Script, src)
	if err != nil {
		return nil, err
	}
	return ScriptedFactory(factory, script), nil
}

// NewPrefabRegistry builds one factory per spec, keyed by spec name.
func NewPrefabRegistry(specs []entityPrefabSpec, opts PrefabOptions) (Registry, error) {
	reg := make(Registry, len(specs))
	for _, spec := range specs {
		f, err := NewPrefabFactory(spec, opts)
		if err != nil {
			return nil, err
		}
		reg[spec.Name] = f
	}
	return reg, nil
}

// LoadPrefabRegistry builds a registry from every embedded prefab.
func LoadPrefabRegistry(opts PrefabOptions) (Registry, error) {
	specs, err := prefabs.LoadAll()
	if err != nil {
		return nil, err
	}
	return NewPrefabRegistry(specs, opts)
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("missing transform")
	}
	if spec.ScaleX != 0 {
		t.ScaleX *= spec.ScaleX
	}
	if spec.ScaleY != 0 {
		t.ScaleY *= spec.ScaleY
	}
	return nil
}

func addSprite(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
	if err != nil {
		return err
	}
	sprite := &component.Sprite{OriginX: spec.OriginX, OriginY: spec.OriginY}
	if spec.Image != "" && ctx.Textures != nil {
		img, err := ctx.Textures.LoadTexture(ctx.Context, spec.Image)
		if err != nil {
			return err
		}
		sprite.Image = img
		if spec.CenterOriginIfZero && spec.OriginX == 0 && spec.OriginY == 0 {
			sprite.OriginX = float64(img.Bounds().Dx()) / 2
			sprite.OriginY = float64(img.Bounds().Dy()) / 2
		}
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return err
	}
	return ecs.Add(w, e, component.DrawComponent.Kind(), &component.Draw{Fn: drawSprite(w, e)})
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

// addShape uses the placement's size when the editor provides one.
func addShape(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ShapeComponentSpec](raw)
	if err != nil {
		return err
	}
	p := ctx.Spawn.Placement
	width, height := spec.Width, spec.Height
	if p.Width != nil {
		width = *p.Width
	}
	if p.Height != nil {
		height = *p.Height
	}
	return ecs.Add(w, e, component.ShapeComponent.Kind(), &component.Shape{Points: common.Rect(width, height)})
}

// addProperties fills in prefab defaults for values the placement lacks.
func addProperties(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	defaults, err := prefabs.DecodeComponentSpec[prefabs.PropertiesComponentSpec](raw)
	if err != nil {
		return err
	}
	props, ok := ecs.Get(w, e, component.PropertiesComponent.Kind())
	if !ok {
		return fmt.Errorf("missing properties")
	}
	merged := maps.Clone(map[string]any(defaults))
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, props.Values)
	props.Values = merged
	return nil
}
