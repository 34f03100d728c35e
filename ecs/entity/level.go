package entity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/ecs/render"
	"github.com/milk9111/ogmo/levels"
	"github.com/milk9111/ogmo/logger"
	"github.com/sirupsen/logrus"
)

// LoadOptions carries everything LoadLevelToWorld needs besides the level.
type LoadOptions struct {
	// Entities maps entity names to factories. Every entity placed in the
	// level must have one.
	Entities Registry
	// Decal builds decals. Nil uses DefaultDecalFactory.
	Decal DecalFactory
	// Textures loads tileset sheets and decal textures. Nil leaves tile
	// layers without a sheet and decals unresolved.
	Textures render.TextureLoader
	Logger   *logrus.Logger
}

// LoadedLevel records what LoadLevelToWorld created.
type LoadedLevel struct {
	// ID is unique per call to LoadLevelToWorld.
	ID    string
	Level *levels.Level
	Root  ecs.Entity
	// Scopes maps a layer name to the entity every object of that layer is
	// created under. Grid layers have no scope.
	Scopes map[string]ecs.Entity
	// Entities holds, per entity or decal layer name, the entities the
	// factories returned, in placement order.
	Entities map[string][]ecs.Entity
}

// LoadLevelToWorld realizes every layer of lvl in w below a new root entity.
// On error everything created so far is destroyed.
func LoadLevelToWorld(ctx context.Context, w *ecs.World, lvl *levels.Level, opts LoadOptions) (*LoadedLevel, error) {
	if w == nil || lvl == nil {
		return nil, fmt.Errorf("entity: load level: world and level are required")
	}
	log := logger.Or(opts.Logger)
	if opts.Decal == nil {
		opts.Decal = DefaultDecalFactory(opts.Textures, log)
	}

	root := ecs.CreateEntity(w)
	w.SetName(root, "level")
	loaded := &LoadedLevel{
		ID:       uuid.NewString(),
		Level:    lvl,
		Root:     root,
		Scopes:   make(map[string]ecs.Entity),
		Entities: make(map[string][]ecs.Entity),
	}
	if err := loaded.build(ctx, w, opts, log); err != nil {
		ecs.DestroyEntity(w, root)
		log.WithError(err).WithField("load", loaded.ID).Debug("level load aborted")
		return nil, err
	}

	w.Events().Push(ecs.Event{Type: ecs.EventLevelLoaded, Data: root})
	log.WithFields(logrus.Fields{
		"load":     loaded.ID,
		"layers":   len(lvl.Layers),
		"entities": len(w.Entities()),
	}).Info("level loaded")
	return loaded, nil
}

func (l *LoadedLevel) build(ctx context.Context, w *ecs.World, opts LoadOptions, log *logrus.Logger) error {
	lvl := l.Level
	if err := ecs.Add(w, l.Root, component.TransformComponent.Kind(), &component.Transform{
		X:      float64(lvl.Offset.X),
		Y:      float64(lvl.Offset.Y),
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, l.Root, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  float64(lvl.Size.X),
		Height: float64(lvl.Size.Y),
	}); err != nil {
		return err
	}

	for _, layer := range lvl.Layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		inst := layer.Instance()
		var err error
		switch ly := layer.(type) {
		case *levels.TileLayer:
			err = l.buildTileLayer(ctx, w, ly, opts, log)
		case *levels.GridLayer:
			// grid layers stay queryable through the Level
		case *levels.EntityLayer:
			err = l.buildEntityLayer(ctx, w, ly, opts)
		case *levels.DecalLayer:
			err = l.buildDecalLayer(ctx, w, ly, opts)
		default:
			err = fmt.Errorf("%w: %T", levels.ErrUnknownLayerKind, layer)
		}
		if err != nil {
			return fmt.Errorf("entity: layer %d (%s): %w", inst.Index, inst.Name, err)
		}
	}

	return ecs.Add(w, l.Root, component.LevelLoadedComponent.Kind(), &component.LevelLoaded{
		LoadID: l.ID,
		Layers: len(lvl.Layers),
	})
}

// scope creates the child entity that hosts a layer's objects. It is named
// after the layer definition and sits at the layer offset.
func (l *LoadedLevel) scope(w *ecs.World, layer levels.LevelLayer) (ecs.Entity, error) {
	inst := layer.Instance()
	e, err := ecs.CreateChild(w, l.Root, layer.Definition().Base().Name)
	if err != nil {
		return ecs.Entity{}, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:      float64(inst.Offset.X),
		Y:      float64(inst.Offset.Y),
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return ecs.Entity{}, err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: inst.Index}); err != nil {
		return ecs.Entity{}, err
	}
	l.Scopes[inst.Name] = e
	return e, nil
}

func (l *LoadedLevel) buildTileLayer(ctx context.Context, w *ecs.World, layer *levels.TileLayer, opts LoadOptions, log *logrus.Logger) error {
	scope, err := l.scope(w, layer)
	if err != nil {
		return err
	}

	sheet := loadSheet(ctx, opts.Textures, layer.Tileset, log)
	tm := render.NewTileMap(sheet, layer.Tiles, layer.Def.GridSize)
	if missing := tm.Missing(); len(missing) > 0 {
		log.WithFields(logrus.Fields{
			"layer":   layer.Name,
			"tileset": layer.Tileset.Label,
			"cells":   len(missing),
		}).Warn("tile indices outside the tileset")
	}

	if err := ecs.Add(w, scope, component.TileMapComponent.Kind(), &component.TileMap{Map: tm}); err != nil {
		return err
	}
	return ecs.Add(w, scope, component.DrawComponent.Kind(), &component.Draw{
		Fn: func(screen *ebiten.Image, geom ebiten.GeoM) { tm.Draw(screen, geom) },
	})
}

func loadSheet(ctx context.Context, textures render.TextureLoader, ts *levels.Tileset, log *logrus.Logger) *render.SpriteSheet {
	if textures == nil || ts == nil {
		return nil
	}
	img, err := textures.LoadTexture(ctx, ts.Path)
	if err != nil {
		log.WithError(err).WithField("tileset", ts.Label).Warn("tileset image unavailable")
		return nil
	}
	return render.NewSpriteSheet(img, render.SheetLayout{
		TileSize:   ts.TileSize,
		Separation: ts.TileSeparation,
		Margin:     ts.TileMargin,
	})
}

func (l *LoadedLevel) buildEntityLayer(ctx context.Context, w *ecs.World, layer *levels.EntityLayer, opts LoadOptions) error {
	scope, err := l.scope(w, layer)
	if err != nil {
		return err
	}

	created := make([]ecs.Entity, 0, len(layer.Entities))
	for _, p := range layer.Entities {
		factory, err := opts.Entities.Resolve(p.Name)
		if err != nil {
			return err
		}
		rotation := 0.0
		if p.Rotation != nil {
			rotation = common.DegToRad(*p.Rotation)
		}
		e, err := factory(ctx, w, EntitySpawn{
			Placement: p,
			Rotation:  rotation,
			Layer:     layer,
			Parent:    scope,
		})
		if err != nil {
			return fmt.Errorf("spawn %q (id %d): %w", p.Name, p.ID, err)
		}
		created = append(created, e)
	}
	l.Entities[layer.Name] = created
	return nil
}

func (l *LoadedLevel) buildDecalLayer(ctx context.Context, w *ecs.World, layer *levels.DecalLayer, opts LoadOptions) error {
	scope, err := l.scope(w, layer)
	if err != nil {
		return err
	}

	created := make([]ecs.Entity, 0, len(layer.Decals))
	for _, p := range layer.Decals {
		e, err := opts.Decal(ctx, w, DecalSpawn{
			Placement: p,
			Layer:     layer,
			Parent:    scope,
		})
		if err != nil {
			return fmt.Errorf("decal %q: %w", p.Texture, err)
		}
		created = append(created, e)
	}
	l.Entities[layer.Name] = created
	return nil
}
