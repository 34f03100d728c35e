package main

import (
	"context"
	"fmt"

	"github.com/milk9111/ogmo/assets"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/ecs/entity"
	"github.com/milk9111/ogmo/ecs/render"
	"github.com/milk9111/ogmo/levels"
	"github.com/sirupsen/logrus"
)

type config struct {
	project  string
	levels   []string
	strict   bool
	textures bool
	assetDir string
}

type report struct {
	Level        string
	Layers       int
	Entities     int
	Decals       int
	MissingTiles int
	Solids       int
	Hazards      int
}

type checker struct {
	cfg      config
	log      *logrus.Logger
	registry entity.Registry
	textures render.TextureLoader
}

func newChecker(cfg config, log *logrus.Logger) (*checker, error) {
	c := &checker{cfg: cfg, log: log}
	if cfg.textures {
		dirs := []string{}
		if cfg.assetDir != "" {
			dirs = append(dirs, cfg.assetDir)
		}
		c.textures = render.NewAssetLoader(assets.FS, dirs...)
	}
	reg, err := entity.LoadPrefabRegistry(entity.PrefabOptions{Textures: c.textures})
	if err != nil {
		return nil, err
	}
	c.registry = reg
	return c, nil
}

func (c *checker) loadProject() (*levels.Project, error) {
	if c.cfg.project == "" {
		return levels.LoadProjectFromFS(levels.LevelsFS, "sample.ogmo")
	}
	return levels.LoadProject(c.cfg.project)
}

func (c *checker) loadLevel(p *levels.Project, name string) (*levels.Level, error) {
	if c.cfg.project == "" {
		return p.LoadLevelFromFS(levels.LevelsFS, name)
	}
	return p.LoadLevel(name)
}

// run checks every configured level and returns one report per level. It
// stops at the first broken level.
func (c *checker) run(ctx context.Context) ([]report, error) {
	p, err := c.loadProject()
	if err != nil {
		return nil, err
	}
	names := c.cfg.levels
	if len(names) == 0 && c.cfg.project == "" {
		names = []string{"sample_level.json"}
	}

	reports := make([]report, 0, len(names))
	for _, name := range names {
		r, err := c.checkLevel(ctx, p, name)
		if err != nil {
			return reports, fmt.Errorf("%s: %w", name, err)
		}
		c.log.WithFields(logrus.Fields{
			"level":    r.Level,
			"layers":   r.Layers,
			"entities": r.Entities,
			"decals":   r.Decals,
			"solids":   r.Solids,
			"hazards":  r.Hazards,
		}).Info("level ok")
		reports = append(reports, r)
	}
	return reports, nil
}

func (c *checker) checkLevel(ctx context.Context, p *levels.Project, name string) (report, error) {
	lvl, err := c.loadLevel(p, name)
	if err != nil {
		return report{}, err
	}

	reg := c.registry
	if !c.cfg.strict {
		reg = reg.WithFallback(lvl, entity.PlacementFactory)
	}

	w := ecs.NewWorld()
	defer w.Close()
	loaded, err := entity.LoadLevelToWorld(ctx, w, lvl, entity.LoadOptions{
		Entities: reg,
		Textures: c.textures,
		Logger:   c.log,
	})
	if err != nil {
		return report{}, err
	}

	pw := ecs.NewPhysicsWorld(lvl, ecs.PhysicsOptions{})
	r := report{
		Level:   name,
		Layers:  len(lvl.Layers),
		Solids:  pw.Solids(),
		Hazards: pw.Hazards(),
	}
	for _, layer := range lvl.Layers {
		switch ly := layer.(type) {
		case *levels.EntityLayer:
			r.Entities += len(loaded.Entities[ly.Name])
		case *levels.DecalLayer:
			r.Decals += len(loaded.Entities[ly.Name])
		case *levels.TileLayer:
			if c.textures == nil {
				continue
			}
			if tm, ok := ecs.Get(w, loaded.Scopes[ly.Name], component.TileMapComponent.Kind()); ok {
				r.MissingTiles += len(tm.Map.Missing())
			}
		}
	}
	return r, nil
}
