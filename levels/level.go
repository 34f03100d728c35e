package levels

import (
	"fmt"

	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/grid"
)

// LevelLayer is implemented by *TileLayer, *GridLayer, *EntityLayer and
// *DecalLayer.
type LevelLayer interface {
	Instance() *LayerInstance
	Definition() LayerDefinition
	Kind() LayerKind
	isLevelLayer()
}

// LayerInstance holds the per-level fields every layer shares.
type LayerInstance struct {
	Index     int
	Name      string
	ExportID  string
	GridCells common.Point
	Offset    common.Point
}

func (l *LayerInstance) Instance() *LayerInstance { return l }

func (l *LayerInstance) isLevelLayer() {}

type TileLayer struct {
	LayerInstance
	Def     *TileLayerDefinition
	Tileset *Tileset
	Tiles   *grid.Grid[int]
}

func (l *TileLayer) Definition() LayerDefinition { return l.Def }

func (*TileLayer) Kind() LayerKind { return KindTile }

type GridLayer struct {
	LayerInstance
	Def   *GridLayerDefinition
	Cells *grid.Grid[string]
}

func (l *GridLayer) Definition() LayerDefinition { return l.Def }

func (*GridLayer) Kind() LayerKind { return KindGrid }

// LabelAt returns the legend label for the cell at (x, y). Cells outside the
// layer read as the empty code.
func (l *GridLayer) LabelAt(x, y int) (string, bool) {
	return l.Def.Label(l.Cells.Get(x, y))
}

type EntityLayer struct {
	LayerInstance
	Def      *EntityLayerDefinition
	Entities []EntityPlacement
}

func (l *EntityLayer) Definition() LayerDefinition { return l.Def }

func (*EntityLayer) Kind() LayerKind { return KindEntity }

type DecalLayer struct {
	LayerInstance
	Def    *DecalLayerDefinition
	Folder string
	Decals []DecalPlacement
}

func (l *DecalLayer) Definition() LayerDefinition { return l.Def }

func (*DecalLayer) Kind() LayerKind { return KindDecal }

// Level is one level resolved against a Project.
type Level struct {
	Project *Project
	Size    common.Point
	Offset  common.Point
	Values  map[string]any
	Layers  []LevelLayer
}

// NewLevel resolves every raw layer against the project's definitions and
// loads tile and grid data.
func (p *Project) NewLevel(raw RawLevel) (*Level, error) {
	lvl := &Level{
		Project: p,
		Size:    common.Point{X: raw.Width, Y: raw.Height},
		Offset:  common.Point{X: raw.OffsetX, Y: raw.OffsetY},
		Values:  raw.Values,
		Layers:  make([]LevelLayer, 0, len(raw.Layers)),
	}
	if lvl.Values == nil {
		lvl.Values = map[string]any{}
	}

	names := make(map[string]bool, len(raw.Layers))
	for i, rl := range raw.Layers {
		def, ok := p.layersByID[rl.ExportID]
		if !ok {
			return nil, &UnresolvedLayerError{Index: i, ExportID: rl.ExportID}
		}

		inst := LayerInstance{
			Index:     i,
			Name:      rl.Name,
			ExportID:  rl.ExportID,
			GridCells: common.Point{X: rl.GridCellsX, Y: rl.GridCellsY},
			Offset:    common.Point{X: rl.OffsetX, Y: rl.OffsetY},
		}
		if inst.Name == "" {
			inst.Name = def.Base().Name
		}
		// Loaders key layers by name.
		if names[inst.Name] {
			return nil, fmt.Errorf("levels: layer %d: %w %q", i, ErrDuplicateLayerName, inst.Name)
		}
		names[inst.Name] = true

		var (
			layer LevelLayer
			err   error
		)
		switch d := def.(type) {
		case *TileLayerDefinition:
			layer, err = p.newTileLayer(inst, d, rl)
		case *GridLayerDefinition:
			layer, err = newGridLayer(inst, d, rl)
		case *EntityLayerDefinition:
			layer = &EntityLayer{LayerInstance: inst, Def: d, Entities: rl.Entities}
		case *DecalLayerDefinition:
			folder := rl.Folder
			if folder == "" {
				folder = d.Folder
			}
			layer = &DecalLayer{LayerInstance: inst, Def: d, Folder: folder, Decals: rl.Decals}
		default:
			err = fmt.Errorf("%w %T", ErrUnknownLayerKind, def)
		}
		if err != nil {
			return nil, fmt.Errorf("levels: layer %d (%s): %w", i, inst.Name, err)
		}
		lvl.Layers = append(lvl.Layers, layer)
	}

	return lvl, nil
}

func (p *Project) newTileLayer(inst LayerInstance, d *TileLayerDefinition, rl RawLevelLayer) (*TileLayer, error) {
	ts := d.DefaultTileset
	if rl.Tileset != "" && rl.Tileset != ts.Label {
		override, ok := p.tilesetsByLabel[rl.Tileset]
		if !ok {
			return nil, &UnresolvedTilesetError{Layer: inst.Index, Label: rl.Tileset}
		}
		ts = override
	}

	mode := rl.ExportMode
	if mode == 0 {
		mode = d.ExportMode
	}
	if mode != 0 || len(rl.DataCoords) > 0 || len(rl.DataCoords2D) > 0 {
		if mode == 0 {
			mode = 1
		}
		return nil, &UnsupportedExportModeError{Layer: inst.Index, Mode: mode}
	}

	if err := checkExtent(inst.GridCells); err != nil {
		return nil, err
	}
	tiles := grid.NewFromExtent(inst.GridCells, 0)
	if err := loadCells(tiles, rl.Data, rl.Data2D); err != nil {
		return nil, err
	}
	return &TileLayer{LayerInstance: inst, Def: d, Tileset: ts, Tiles: tiles}, nil
}

func newGridLayer(inst LayerInstance, d *GridLayerDefinition, rl RawLevelLayer) (*GridLayer, error) {
	if err := checkExtent(inst.GridCells); err != nil {
		return nil, err
	}
	cells := grid.NewFromExtent(inst.GridCells, "")
	if err := loadCells(cells, rl.Grid, rl.Grid2D); err != nil {
		return nil, err
	}
	return &GridLayer{LayerInstance: inst, Def: d, Cells: cells}, nil
}

// maxGridCells bounds a single layer's allocation.
const maxGridCells = 1 << 24

func checkExtent(cells common.Point) error {
	if cells.X < 0 || cells.Y < 0 {
		return fmt.Errorf("%w: %dx%d cells", ErrInvalidGridSize, cells.X, cells.Y)
	}
	if cells.X > 0 && cells.Y > maxGridCells/cells.X {
		return fmt.Errorf("%w: %dx%d cells, limit %d", ErrInvalidGridSize, cells.X, cells.Y, maxGridCells)
	}
	return nil
}

// loadCells fills g from the flat export, or cell by cell from the 2D
// export when the editor wrote one.
func loadCells[T any](g *grid.Grid[T], flat []T, rows [][]T) error {
	if len(rows) == 0 {
		return g.SetData(flat)
	}
	for y, row := range rows {
		for x, v := range row {
			if err := g.Set(x, y, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// TileLayers returns the level's tile layers in order.
func (l *Level) TileLayers() []*TileLayer {
	var out []*TileLayer
	for _, layer := range l.Layers {
		if tl, ok := layer.(*TileLayer); ok {
			out = append(out, tl)
		}
	}
	return out
}

// GridLayers returns the level's grid layers in order.
func (l *Level) GridLayers() []*GridLayer {
	var out []*GridLayer
	for _, layer := range l.Layers {
		if gl, ok := layer.(*GridLayer); ok {
			out = append(out, gl)
		}
	}
	return out
}

// LayerByName returns the first layer with the given name.
func (l *Level) LayerByName(name string) (LevelLayer, bool) {
	for _, layer := range l.Layers {
		if layer.Instance().Name == name {
			return layer, true
		}
	}
	return nil, false
}
