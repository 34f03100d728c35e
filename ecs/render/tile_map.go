package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/grid"
	"golang.org/x/image/colornames"
)

var (
	missingOnce sync.Once
	missingImg  *ebiten.Image
)

// missingTile is drawn for indices the sheet does not contain.
func missingTile() *ebiten.Image {
	missingOnce.Do(func() {
		missingImg = ebiten.NewImage(1, 1)
		missingImg.Fill(colornames.Magenta)
	})
	return missingImg
}

// TileMap draws a grid of tile indices from a sprite sheet. Negative indices
// are empty cells.
type TileMap struct {
	Sheet    *SpriteSheet
	Tiles    *grid.Grid[int]
	CellSize common.Point
}

func NewTileMap(sheet *SpriteSheet, tiles *grid.Grid[int], cellSize common.Point) *TileMap {
	return &TileMap{Sheet: sheet, Tiles: tiles, CellSize: cellSize}
}

// Missing returns the non-empty cells whose index is not in the sheet.
// Without a sheet nothing can be checked, so it returns nil.
func (m *TileMap) Missing() []grid.Cell[int] {
	if m == nil || m.Sheet == nil {
		return nil
	}
	var out []grid.Cell[int]
	for c := range m.Tiles.Contents() {
		if c.Value >= 0 && c.Value >= m.Sheet.Len() {
			out = append(out, c)
		}
	}
	return out
}

// Draw renders every cell. geom maps the map's local space to the screen.
func (m *TileMap) Draw(screen *ebiten.Image, geom ebiten.GeoM) {
	if m == nil || screen == nil {
		return
	}
	cw, ch := float64(m.CellSize.X), float64(m.CellSize.Y)
	for c := range m.Tiles.Contents() {
		if c.Value < 0 {
			continue
		}
		img := m.Sheet.Tile(c.Value)
		if img == nil {
			img = missingTile()
		}
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		if b.Dx() > 0 && b.Dy() > 0 {
			op.GeoM.Scale(cw/float64(b.Dx()), ch/float64(b.Dy()))
		}
		op.GeoM.Translate(float64(c.X)*cw, float64(c.Y)*ch)
		op.GeoM.Concat(geom)
		screen.DrawImage(img, op)
	}
}
