package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSpriteSheetLayout(t *testing.T) {
	cases := []struct {
		name       string
		w, h       int
		layout     SheetLayout
		cols, rows int
		index      int
		rect       image.Rectangle
	}{
		{
			name:   "packed",
			w:      96, h: 16,
			layout: SheetLayout{TileSize: common.Point{X: 16, Y: 16}},
			cols:   6, rows: 1,
			index:  4,
			rect:   image.Rect(64, 0, 80, 16),
		},
		{
			name:   "separation_and_margin",
			w:      52, h: 35,
			layout: SheetLayout{TileSize: common.Point{X: 16, Y: 16}, Separation: common.Point{X: 1, Y: 1}, Margin: common.Point{X: 1, Y: 1}},
			cols:   3, rows: 2,
			index:  4,
			rect:   image.Rect(18, 18, 34, 34),
		},
		{
			name:   "partial_tiles_ignored",
			w:      40, h: 20,
			layout: SheetLayout{TileSize: common.Point{X: 16, Y: 16}},
			cols:   2, rows: 1,
			index:  1,
			rect:   image.Rect(16, 0, 32, 16),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sheet := NewSpriteSheet(ebiten.NewImage(c.w, c.h), c.layout)
			assert.Equal(t, c.cols, sheet.Columns())
			assert.Equal(t, c.rows, sheet.Rows())
			assert.Equal(t, c.cols*c.rows, sheet.Len())

			r, ok := sheet.Rect(c.index)
			require.True(t, ok)
			assert.Equal(t, c.rect, r)

			tile := sheet.Tile(c.index)
			require.NotNil(t, tile)
			assert.Equal(t, c.layout.TileSize.X, tile.Bounds().Dx())
			assert.Same(t, tile, sheet.Tile(c.index), "sub-images are cached")

			_, ok = sheet.Rect(sheet.Len())
			assert.False(t, ok)
			assert.Nil(t, sheet.Tile(-1))
		})
	}
}

func TestSpriteSheetZeroTileSize(t *testing.T) {
	sheet := NewSpriteSheet(ebiten.NewImage(16, 16), SheetLayout{})
	assert.Zero(t, sheet.Len())

	var nilSheet *SpriteSheet
	assert.Zero(t, nilSheet.Len())
	assert.Nil(t, nilSheet.Tile(0))
}

func TestTileMapMissing(t *testing.T) {
	sheet := NewSpriteSheet(ebiten.NewImage(32, 16), SheetLayout{TileSize: common.Point{X: 16, Y: 16}})
	tiles := grid.New(3, 2, -1)
	require.NoError(t, tiles.SetData([]int{0, 1, 2, -1, 5, 1}))

	m := NewTileMap(sheet, tiles, common.Point{X: 8, Y: 8})
	missing := m.Missing()
	require.Len(t, missing, 2)
	assert.Equal(t, grid.Cell[int]{X: 2, Y: 0, Value: 2}, missing[0])
	assert.Equal(t, grid.Cell[int]{X: 1, Y: 1, Value: 5}, missing[1])

	noSheet := NewTileMap(nil, tiles, common.Point{X: 8, Y: 8})
	assert.Empty(t, noSheet.Missing(), "nothing to check against")
}

func TestAssetLoaderFS(t *testing.T) {
	fsys := fstest.MapFS{
		"decals/rock.png": {Data: encodePNG(t, 24, 16)},
		"broken.png":      {Data: []byte("not a png")},
	}
	l := NewAssetLoader(fsys)
	ctx := context.Background()

	img, err := l.LoadTexture(ctx, "decals/rock.png")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(24, 16), img.Bounds().Size())

	again, err := l.LoadTexture(ctx, "decals/rock.png")
	require.NoError(t, err)
	assert.Same(t, img, again)
	assert.Equal(t, 1, l.Cached())

	_, err = l.LoadTexture(ctx, "broken.png")
	assert.Error(t, err)

	_, err = l.LoadTexture(ctx, "nope.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = l.LoadTexture(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestAssetLoaderDiskFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "decals"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "decals", "moss.png"), encodePNG(t, 8, 4), 0644))

	l := NewAssetLoader(fstest.MapFS{}, dir)
	img, err := l.LoadTexture(context.Background(), "decals/moss.png")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestAssetLoaderCancelled(t *testing.T) {
	l := NewAssetLoader(fstest.MapFS{"a.png": {Data: encodePNG(t, 2, 2)}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.LoadTexture(ctx, "a.png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, l.Cached())
}

func TestAssetLoaderConcurrent(t *testing.T) {
	l := NewAssetLoader(fstest.MapFS{"a.png": {Data: encodePNG(t, 4, 4)}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.LoadTexture(context.Background(), "a.png")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, l.Cached())
}
