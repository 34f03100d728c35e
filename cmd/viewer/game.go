package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ogmo/assets"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/ecs/entity"
	"github.com/milk9111/ogmo/ecs/render"
	"github.com/milk9111/ogmo/ecs/system"
	"github.com/milk9111/ogmo/levels"
	"github.com/sirupsen/logrus"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type viewerConfig struct {
	project  string
	level    string
	assetDir string
	watch    bool
}

type Game struct {
	cfg      viewerConfig
	log      *logrus.Logger
	textures *render.AssetLoader
	prefabs  entity.Registry
	watcher  *levels.Watcher
	sessions *sessionStore

	world  *ecs.World
	loaded *entity.LoadedLevel

	camera component.Camera
	debug  *system.PhysicsDebugSystem
	status string
}

func NewGame(cfg viewerConfig, sessions *sessionStore, log *logrus.Logger) (*Game, error) {
	if cfg.project != "" && cfg.level == "" {
		return nil, errors.New("-project needs -level")
	}

	var dirs []string
	if cfg.assetDir != "" {
		dirs = append(dirs, cfg.assetDir)
	}
	if cfg.project != "" {
		dirs = append(dirs, filepath.Dir(cfg.project))
	}
	textures := render.NewAssetLoader(assets.FS, dirs...)

	g := &Game{
		cfg:      cfg,
		log:      log,
		textures: textures,
		sessions: sessions,
		camera: component.Camera{
			Zoom:         2,
			MinZoom:      0.25,
			MaxZoom:      8,
			Smoothness:   0.2,
			PanSpeed:     6,
			ZoomStep:     1.25,
			ClampToLevel: true,
		},
	}
	if err := g.loadPrefabs(); err != nil {
		return nil, err
	}
	if err := g.reload(); err != nil {
		return nil, err
	}
	g.restoreSession()

	if cfg.watch {
		if dirs := watchDirs(cfg); len(dirs) > 0 {
			w, err := levels.NewWatcher(dirs, ".yaml", ".tengo")
			if err != nil {
				return nil, err
			}
			g.watcher = w
			log.WithField("dirs", dirs).Info("watching")
		}
	}
	return g, nil
}

// watchDirs lists the level directories plus the on-disk prefab directories
// when the viewer runs from a checkout.
func watchDirs(cfg viewerConfig) []string {
	var dirs []string
	if cfg.project != "" {
		dirs = append(dirs, filepath.Dir(cfg.project))
		if d := filepath.Dir(cfg.level); d != dirs[0] {
			dirs = append(dirs, d)
		}
	}
	for _, d := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (g *Game) loadPrefabs() error {
	prefabs, err := entity.LoadPrefabRegistry(entity.PrefabOptions{Textures: g.textures})
	if err != nil {
		return err
	}
	g.prefabs = prefabs
	return nil
}

func (g *Game) loadLevel() (*levels.Level, error) {
	if g.cfg.project == "" {
		p, err := levels.LoadProjectFromFS(levels.LevelsFS, "sample.ogmo")
		if err != nil {
			return nil, err
		}
		return p.LoadLevelFromFS(levels.LevelsFS, "sample_level.json")
	}
	p, err := levels.LoadProject(g.cfg.project)
	if err != nil {
		return nil, err
	}
	return p.LoadLevel(g.cfg.level)
}

// reload builds a fresh world for the current level. The previous world is
// kept when the new one fails to load.
func (g *Game) reload() error {
	lvl, err := g.loadLevel()
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(lvl, ecs.PhysicsOptions{}))
	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewCameraSystem())
	w.AddSystem(system.NewPhysicsSystem())
	w.AddSystem(system.NewEventLogSystem(g.log))
	w.AddSystem(system.NewRenderSystem())
	debug := system.NewPhysicsDebugSystem()
	if g.debug != nil {
		debug.Enabled = g.debug.Enabled
	}
	w.AddSystem(debug)

	loaded, err := entity.LoadLevelToWorld(w.Context(), w, lvl, entity.LoadOptions{
		Entities: g.prefabs.WithFallback(lvl, entity.PlacementFactory),
		Textures: g.textures,
		Logger:   g.log,
	})
	if err != nil {
		w.Close()
		return err
	}

	if g.world != nil {
		if cam, ok := g.currentCamera(); ok {
			g.camera = *cam
		}
		g.world.Close()
	} else {
		g.camera.X = float64(lvl.Offset.X) + float64(lvl.Size.X)/2
		g.camera.Y = float64(lvl.Offset.Y) + float64(lvl.Size.Y)/2
		g.camera.TargetX, g.camera.TargetY = g.camera.X, g.camera.Y
	}
	cam := ecs.CreateEntity(w)
	camera := g.camera
	if err := ecs.Add(w, cam, component.CameraComponent.Kind(), &camera); err != nil {
		w.Close()
		return err
	}
	if err := ecs.Add(w, cam, component.InputComponent.Kind(), &component.Input{}); err != nil {
		w.Close()
		return err
	}
	g.world = w
	g.debug = debug
	g.loaded = loaded
	g.status = fmt.Sprintf("%dx%d, %d layers, %d scopes", lvl.Size.X, lvl.Size.Y, len(lvl.Layers), len(loaded.Scopes))
	return nil
}

// restoreSession moves the camera to where the last run left it.
func (g *Game) restoreSession() {
	sess, ok, err := g.sessions.load()
	if err != nil {
		g.log.WithError(err).Warn("session")
		return
	}
	cam, found := g.currentCamera()
	if !ok || !found || !sess.restore(g.cfg, cam) {
		return
	}
	g.debug.Enabled = sess.Debug
}

func (g *Game) Close() {
	if cam, ok := g.currentCamera(); ok {
		if err := g.sessions.save(newSession(g.cfg, *cam, g.debug.Enabled)); err != nil {
			g.log.WithError(err).Warn("session")
		}
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.world != nil {
		g.world.Close()
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if ext := filepath.Ext(name); ext == ".yaml" || ext == ".tengo" {
				if err := g.loadPrefabs(); err != nil {
					g.log.WithError(err).WithField("file", name).Error("prefab reload failed")
					g.status = "prefab reload failed: " + err.Error()
					continue
				}
			}
			if err := g.reload(); err != nil {
				g.log.WithError(err).WithField("file", name).Error("reload failed")
				g.status = "reload failed: " + err.Error()
				continue
			}
			g.log.WithField("file", name).Info("reloaded")
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithError(err).Warn("watcher")
		default:
			return
		}
	}
}

func (g *Game) currentCamera() (*component.Camera, bool) {
	if g.world == nil {
		return nil, false
	}
	e, ok := ecs.First(g.world, component.CameraComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(g.world, e, component.CameraComponent.Kind())
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.pollWatcher()
	g.world.Update()

	e, ok := ecs.First(g.world, component.InputComponent.Kind())
	if !ok {
		return nil
	}
	input, _ := ecs.Get(g.world, e, component.InputComponent.Kind())
	if input.ToggleDebug {
		g.debug.Enabled = !g.debug.Enabled
	}
	if input.Reload {
		if err := g.reload(); err != nil {
			g.log.WithError(err).Error("reload failed")
			g.status = "reload failed: " + err.Error()
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	cam, ok := g.currentCamera()
	if !ok {
		cam = &g.camera
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	camX, camY := cam.TopLeft(float64(sw), float64(sh))
	g.world.Draw(screen, camX, camY, cam.Zoom)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nentities: %d  zoom: %.2f  FPS: %.2f",
		g.status, len(g.world.Entities()), cam.Zoom, ebiten.ActualFPS()))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
