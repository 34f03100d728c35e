package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ogmo/common"
)

// SheetLayout describes how tiles are packed into a sheet image.
type SheetLayout struct {
	TileSize   common.Point
	Separation common.Point
	Margin     common.Point
}

// SpriteSheet slices an image into equally sized tiles, numbered left to
// right, top to bottom.
type SpriteSheet struct {
	Image  *ebiten.Image
	Layout SheetLayout

	columns int
	rows    int
	tiles   map[int]*ebiten.Image
}

func NewSpriteSheet(img *ebiten.Image, layout SheetLayout) *SpriteSheet {
	s := &SpriteSheet{Image: img, Layout: layout, tiles: make(map[int]*ebiten.Image)}
	if img != nil {
		b := img.Bounds()
		s.columns = fitTiles(b.Dx(), layout.TileSize.X, layout.Separation.X, layout.Margin.X)
		s.rows = fitTiles(b.Dy(), layout.TileSize.Y, layout.Separation.Y, layout.Margin.Y)
	}
	return s
}

func fitTiles(extent, tile, sep, margin int) int {
	if tile <= 0 {
		return 0
	}
	n := (extent - 2*margin + sep) / (tile + sep)
	return max(n, 0)
}

func (s *SpriteSheet) Columns() int { return s.columns }

func (s *SpriteSheet) Rows() int { return s.rows }

// Len is the number of whole tiles in the sheet.
func (s *SpriteSheet) Len() int {
	if s == nil {
		return 0
	}
	return s.columns * s.rows
}

// Rect returns the source rectangle of tile index within the sheet image.
func (s *SpriteSheet) Rect(index int) (image.Rectangle, bool) {
	if s == nil || index < 0 || index >= s.Len() {
		return image.Rectangle{}, false
	}
	l := s.Layout
	col := index % s.columns
	row := index / s.columns
	x := l.Margin.X + col*(l.TileSize.X+l.Separation.X)
	y := l.Margin.Y + row*(l.TileSize.Y+l.Separation.Y)
	r := image.Rect(x, y, x+l.TileSize.X, y+l.TileSize.Y)
	return r.Add(s.Image.Bounds().Min), true
}

// Tile returns the sub-image for index, or nil if it is not in the sheet.
func (s *SpriteSheet) Tile(index int) *ebiten.Image {
	if s == nil {
		return nil
	}
	if img, ok := s.tiles[index]; ok {
		return img
	}
	r, ok := s.Rect(index)
	if !ok {
		return nil
	}
	sub, ok := s.Image.SubImage(r).(*ebiten.Image)
	if !ok {
		return nil
	}
	s.tiles[index] = sub
	return sub
}
