package entity

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/assets"
	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
	"github.com/milk9111/ogmo/ecs/render"
	"github.com/milk9111/ogmo/levels"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// fakeTextures serves blank images of fixed sizes. When gate is set every
// load blocks until it is closed or the context ends.
type fakeTextures struct {
	sizes map[string]image.Point
	errs  map[string]error
	gate  chan struct{}

	mu       sync.Mutex
	calls    []string
	canceled int
}

func (f *fakeTextures) LoadTexture(ctx context.Context, path string) (*ebiten.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			f.mu.Lock()
			f.canceled++
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	size, ok := f.sizes[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return ebiten.NewImage(size.X, size.Y), nil
}

func (f *fakeTextures) canceledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canceled
}

func sampleLevel(t *testing.T) *levels.Level {
	t.Helper()
	p, err := levels.LoadProjectFromFS(levels.LevelsFS, "sample.ogmo")
	require.NoError(t, err)
	lvl, err := p.LoadLevelFromFS(levels.LevelsFS, "sample_level.json")
	require.NoError(t, err)
	return lvl
}

// recordingRegistry records every spawn and delegates to PlacementFactory.
func recordingRegistry(spawns *[]EntitySpawn, names ...string) Registry {
	reg := Registry{}
	for _, name := range names {
		reg[name] = func(ctx context.Context, w *ecs.World, spawn EntitySpawn) (ecs.Entity, error) {
			*spawns = append(*spawns, spawn)
			return PlacementFactory(ctx, w, spawn)
		}
	}
	return reg
}

func quietLogger() *logrus.Logger {
	l, _ := logtest.NewNullLogger()
	return l
}

func TestLoadLevelToWorld(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()
	lvl := sampleLevel(t)

	var spawns []EntitySpawn
	loaded, err := LoadLevelToWorld(context.Background(), w, lvl, LoadOptions{
		Entities: recordingRegistry(&spawns, "player", "spike"),
		Textures: render.NewAssetLoader(assets.FS),
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, "level", w.Name(loaded.Root))
	rootT, ok := ecs.Get(w, loaded.Root, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 8.0, rootT.X)
	assert.Equal(t, -16.0, rootT.Y)
	bounds, ok := ecs.Get(w, loaded.Root, component.LevelBoundsComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.LevelBounds{Width: 64, Height: 48}, *bounds)
	assert.True(t, ecs.Has(w, loaded.Root, component.LevelLoadedComponent.Kind()))

	assert.Len(t, loaded.Scopes, 3)
	assert.NotContains(t, loaded.Scopes, "solids", "grid layers create nothing")
	for name, scope := range loaded.Scopes {
		assert.Equal(t, name, w.Name(scope))
		parent, _ := w.Parent(scope)
		assert.Equal(t, loaded.Root, parent)
	}
	assert.Equal(t, []ecs.Entity{loaded.Scopes["tiles"], loaded.Scopes["actors"], loaded.Scopes["props"]}, w.Children(loaded.Root))

	tm, ok := ecs.Get(w, loaded.Scopes["tiles"], component.TileMapComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 6, tm.Map.Sheet.Len())
	assert.Empty(t, tm.Map.Missing())
	assert.True(t, ecs.Has(w, loaded.Scopes["tiles"], component.DrawComponent.Kind()))

	require.Len(t, spawns, 2)
	assert.InDelta(t, math.Pi/2, spawns[0].Rotation, 1e-12)
	assert.Equal(t, 0.0, spawns[1].Rotation)
	assert.Equal(t, loaded.Scopes["actors"], spawns[0].Parent)
	assert.Equal(t, "actors", spawns[0].Layer.Name)
	require.Len(t, loaded.Entities["actors"], 2)

	spike := loaded.Entities["actors"][1]
	placement, ok := ecs.Get(w, spike, component.PlacementComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "61799305", placement.ExportID)
	assert.Equal(t, []common.Vec{{X: 48, Y: 0}}, placement.Nodes)
	spikeT, _ := ecs.Get(w, spike, component.TransformComponent.Kind())
	assert.Equal(t, -1.0, spikeT.ScaleX, "flipped placements mirror on x")

	decals := loaded.Entities["props"]
	require.Len(t, decals, 2)
	rockT, ok := ecs.Get(w, decals[0], component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.2, rockT.Rotation, "decal rotation is not converted")
	assert.Equal(t, 2.0, rockT.ScaleX)
	assert.Equal(t, 0.5, rockT.ScaleY)
	mossT, _ := ecs.Get(w, decals[1], component.TransformComponent.Kind())
	assert.Equal(t, 1.0, mossT.ScaleX)
	assert.Equal(t, 0.0, mossT.Rotation)

	require.Eventually(t, func() bool {
		w.Update()
		for _, d := range decals {
			decal, ok := ecs.Get(w, d, component.DecalComponent.Kind())
			if !ok || !decal.Resolved {
				return false
			}
		}
		return true
	}, waitFor, 5*time.Millisecond)

	rockShape, _ := ecs.Get(w, decals[0], component.ShapeComponent.Kind())
	assert.False(t, rockShape.Placeholder)
	assert.Equal(t, common.Rect(24, 16), rockShape.Points)
	mossShape, _ := ecs.Get(w, decals[1], component.ShapeComponent.Kind())
	assert.Equal(t, common.Rect(8, 8), mossShape.Points)
	rockDecal, _ := ecs.Get(w, decals[0], component.DecalComponent.Kind())
	assert.Equal(t, "decals/rock.png", rockDecal.Texture)
	assert.Equal(t, 0.5, rockDecal.Values["parallax"])
}

func TestLoadLevelUnresolvedFactory(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()

	var spawns []EntitySpawn
	loaded, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), LoadOptions{
		Entities: recordingRegistry(&spawns, "player"),
		Logger:   quietLogger(),
	})
	assert.Nil(t, loaded)
	require.ErrorIs(t, err, ErrUnresolvedEntityFactory)

	var unresolved *UnresolvedEntityFactoryError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "spike", unresolved.Name)
	assert.Empty(t, w.Entities(), "partial levels are torn down")
}

func TestLoadLevelFactoryError(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()
	boom := errors.New("boom")

	_, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), LoadOptions{
		Entities: Registry{
			"player": PlacementFactory,
			"spike": func(context.Context, *ecs.World, EntitySpawn) (ecs.Entity, error) {
				return ecs.Entity{}, boom
			},
		},
		Logger: quietLogger(),
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `spawn "spike"`)
	assert.Empty(t, w.Entities())
}

func TestLoadLevelCancelled(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadLevelToWorld(ctx, w, sampleLevel(t), LoadOptions{Logger: quietLogger()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.Entities())
}

func TestLoadLevelCustomDecalFactory(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()

	var got []DecalSpawn
	loaded, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), LoadOptions{
		Entities: Registry{"player": PlacementFactory, "spike": PlacementFactory},
		Decal: func(_ context.Context, w *ecs.World, spawn DecalSpawn) (ecs.Entity, error) {
			got = append(got, spawn)
			return ecs.CreateChild(w, spawn.Parent, spawn.Placement.Texture)
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "decals", got[0].Layer.Folder)
	assert.Equal(t, "decals/moss.png", DecalTexturePath(got[1]))
	_, ok := w.FindChild(loaded.Scopes["props"], "rock.png")
	assert.True(t, ok)
}

func TestLoadLevelWithoutTextures(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	loaded, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), LoadOptions{
		Entities: Registry{"player": PlacementFactory, "spike": PlacementFactory},
		Logger:   log,
	})
	require.NoError(t, err)
	for _, entry := range hook.AllEntries() {
		assert.Greater(t, entry.Level, logrus.WarnLevel, "unexpected %s: %s", entry.Level, entry.Message)
	}
	assert.Empty(t, tileMapOf(t, w, loaded, "tiles").Missing())

	tm, _ := ecs.Get(w, loaded.Scopes["tiles"], component.TileMapComponent.Kind())
	assert.Nil(t, tm.Map.Sheet)
	assert.Zero(t, w.Pending())
	shape, _ := ecs.Get(w, loaded.Entities["props"][0], component.ShapeComponent.Kind())
	assert.True(t, shape.Placeholder)
	assert.Equal(t, common.Rect(1, 1), shape.Points)
}

func TestLoadLevelEmitsLoadedEvent(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()

	loaded, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), LoadOptions{
		Entities: Registry{"player": PlacementFactory, "spike": PlacementFactory},
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	events := w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventLevelLoaded, events[0].Type)
	assert.Equal(t, loaded.Root, events[0].Data)
}

func TestLoadIDsDiffer(t *testing.T) {
	w := ecs.NewWorld()
	defer w.Close()
	opts := LoadOptions{
		Entities: Registry{"player": PlacementFactory, "spike": PlacementFactory},
		Logger:   quietLogger(),
	}

	first, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), opts)
	require.NoError(t, err)
	second, err := LoadLevelToWorld(context.Background(), w, sampleLevel(t), opts)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	marker, ok := ecs.Get(w, second.Root, component.LevelLoadedComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, second.ID, marker.LoadID)
	assert.Equal(t, 4, marker.Layers)
}

func tileMapOf(t *testing.T, w *ecs.World, loaded *LoadedLevel, layer string) *render.TileMap {
	t.Helper()
	tm, ok := ecs.Get(w, loaded.Scopes[layer], component.TileMapComponent.Kind())
	require.True(t, ok)
	return tm.Map
}
