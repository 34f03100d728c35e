package entity

import (
	"context"
	"fmt"
	"maps"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
)

// scriptGlobals are the variables a spawn script can read. It publishes its
// result in a map called props.
var scriptGlobals = []string{"values", "name", "id", "x", "y", "rotation", "width", "height", "flipped_x", "flipped_y", "nodes"}

// SpawnScript is a compiled tengo script run once per spawned entity.
type SpawnScript struct {
	name     string
	compiled *tengo.Compiled
}

func CompileSpawnScript(name string, src []byte) (*SpawnScript, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, g := range scriptGlobals {
		if err := script.Add(g, nil); err != nil {
			return nil, fmt.Errorf("entity: script %s: %w", name, err)
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("entity: compile script %s: %w", name, err)
	}
	return &SpawnScript{name: name, compiled: compiled}, nil
}

// Run evaluates the script for spawn with values as the current properties
// and returns the props map it produced, or nil if it set none.
func (s *SpawnScript) Run(ctx context.Context, spawn EntitySpawn, values map[string]any) (map[string]any, error) {
	p := spawn.Placement
	nodes := make([]any, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		nodes = append(nodes, map[string]any{"x": n.X, "y": n.Y})
	}
	if values == nil {
		values = map[string]any{}
	}
	globals := map[string]any{
		"values":    values,
		"name":      p.Name,
		"id":        p.ID,
		"x":         p.X,
		"y":         p.Y,
		"rotation":  spawn.Rotation,
		"width":     deref(p.Width),
		"height":    deref(p.Height),
		"flipped_x": p.FlippedX,
		"flipped_y": p.FlippedY,
		"nodes":     nodes,
	}

	run := s.compiled.Clone()
	for name, v := range globals {
		if err := run.Set(name, v); err != nil {
			return nil, fmt.Errorf("entity: script %s: set %s: %w", s.name, name, err)
		}
	}
	if err := run.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("entity: run script %s: %w", s.name, err)
	}

	props := run.Get("props")
	if props == nil || props.IsUndefined() {
		return nil, nil
	}
	out, ok := props.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("entity: script %s: global 'props' must be a map", s.name)
	}
	return out, nil
}

// ScriptedFactory wraps base so that script runs after every spawn and its
// props are merged into the entity's Properties.
func ScriptedFactory(base EntityFactory, script *SpawnScript) EntityFactory {
	return func(ctx context.Context, w *ecs.World, spawn EntitySpawn) (ecs.Entity, error) {
		e, err := base(ctx, w, spawn)
		if err != nil {
			return ecs.Entity{}, err
		}
		props, ok := ecs.Get(w, e, component.PropertiesComponent.Kind())
		if !ok {
			props = &component.Properties{}
			if err := ecs.Add(w, e, component.PropertiesComponent.Kind(), props); err != nil {
				ecs.DestroyEntity(w, e)
				return ecs.Entity{}, err
			}
		}

		out, err := script.Run(ctx, spawn, props.Values)
		if err != nil {
			ecs.DestroyEntity(w, e)
			return ecs.Entity{}, err
		}
		if props.Values == nil {
			props.Values = make(map[string]any, len(out))
		}
		maps.Copy(props.Values, out)
		return e, nil
	}
}
