package levels

import (
	"fmt"

	"github.com/milk9111/ogmo/common"
)

// LayerKind identifies one of the four layer variants.
type LayerKind int

const (
	KindTile LayerKind = iota
	KindGrid
	KindEntity
	KindDecal
)

func (k LayerKind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindGrid:
		return "grid"
	case KindEntity:
		return "entity"
	case KindDecal:
		return "decal"
	default:
		return "unknown"
	}
}

// ParseLayerKind maps a project layer's "definition" string to its kind.
func ParseLayerKind(s string) (LayerKind, error) {
	switch s {
	case "tile":
		return KindTile, nil
	case "grid":
		return KindGrid, nil
	case "entity":
		return KindEntity, nil
	case "decal":
		return KindDecal, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownLayerKind, s)
}

// Tileset is a sprite sheet declared by the project.
type Tileset struct {
	Label          string
	Path           string
	TileSize       common.Point
	TileSeparation common.Point
	TileMargin     common.Point
}

// LayerDefinition is implemented by *TileLayerDefinition,
// *GridLayerDefinition, *EntityLayerDefinition and *DecalLayerDefinition.
type LayerDefinition interface {
	Base() *LayerBase
	Kind() LayerKind
	isLayerDefinition()
}

// LayerBase holds the fields every layer definition shares.
type LayerBase struct {
	Name     string
	GridSize common.Point
	ExportID string
}

func (b *LayerBase) Base() *LayerBase { return b }

func (b *LayerBase) isLayerDefinition() {}

type TileLayerDefinition struct {
	LayerBase
	ExportMode     int
	ArrayMode      int
	DefaultTileset *Tileset
}

func (*TileLayerDefinition) Kind() LayerKind { return KindTile }

type GridLayerDefinition struct {
	LayerBase
	ArrayMode int
	Legend    map[string]string
}

func (*GridLayerDefinition) Kind() LayerKind { return KindGrid }

// Label returns the legend label for a cell code.
func (d *GridLayerDefinition) Label(code string) (string, bool) {
	label, ok := d.Legend[code]
	return label, ok
}

type EntityLayerDefinition struct {
	LayerBase
	RequiredTags []string
	ExcludedTags []string
}

func (*EntityLayerDefinition) Kind() LayerKind { return KindEntity }

type DecalLayerDefinition struct {
	LayerBase
	Folder               string
	IncludeImageSequence bool
	Scaleable            bool
	Rotatable            bool
	Values               []ValueDefinition
}

func (*DecalLayerDefinition) Kind() LayerKind { return KindDecal }

// Project is the parsed, validated project. It is read-only once built;
// Levels keep pointers into it, so callers must not mutate Tilesets or
// Layers after building a Level.
type Project struct {
	Name        string
	LevelValues []ValueDefinition
	Tilesets    []*Tileset
	Layers      []LayerDefinition

	tilesetsByLabel map[string]*Tileset
	layersByID      map[string]LayerDefinition
}

// NewProject validates raw and resolves tileset references.
func NewProject(raw RawProject) (*Project, error) {
	p := &Project{
		Name:            raw.Name,
		LevelValues:     raw.LevelValues,
		Tilesets:        make([]*Tileset, 0, len(raw.Tilesets)),
		Layers:          make([]LayerDefinition, 0, len(raw.Layers)),
		tilesetsByLabel: make(map[string]*Tileset, len(raw.Tilesets)),
		layersByID:      make(map[string]LayerDefinition, len(raw.Layers)),
	}

	for i, rt := range raw.Tilesets {
		if _, dup := p.tilesetsByLabel[rt.Label]; dup {
			return nil, fmt.Errorf("tileset %d: %w %q", i, ErrDuplicateTileset, rt.Label)
		}
		ts := &Tileset{
			Label:          rt.Label,
			Path:           rt.Path,
			TileSize:       common.Point{X: rt.TileWidth, Y: rt.TileHeight},
			TileSeparation: common.Point{X: rt.TileSeparationX, Y: rt.TileSeparationY},
			TileMargin:     common.Point{X: rt.TileMarginX, Y: rt.TileMarginY},
		}
		p.Tilesets = append(p.Tilesets, ts)
		p.tilesetsByLabel[ts.Label] = ts
	}

	names := make(map[string]bool, len(raw.Layers))
	for i, rl := range raw.Layers {
		def, err := p.parseLayerDefinition(i, rl)
		if err != nil {
			return nil, err
		}
		if _, dup := p.layersByID[rl.ExportID]; dup {
			return nil, fmt.Errorf("layer %d: %w %q", i, ErrDuplicateExportID, rl.ExportID)
		}
		if names[rl.Name] {
			return nil, fmt.Errorf("layer %d: %w %q", i, ErrDuplicateLayerName, rl.Name)
		}
		names[rl.Name] = true
		p.Layers = append(p.Layers, def)
		p.layersByID[rl.ExportID] = def
	}

	return p, nil
}

func (p *Project) parseLayerDefinition(i int, rl RawLayerDefinition) (LayerDefinition, error) {
	kind, err := ParseLayerKind(rl.Definition)
	if err != nil {
		return nil, fmt.Errorf("layer %d: %w", i, err)
	}

	base := LayerBase{Name: rl.Name, GridSize: rl.GridSize, ExportID: rl.ExportID}
	switch kind {
	case KindTile:
		ts, ok := p.tilesetsByLabel[rl.DefaultTileset]
		if !ok {
			return nil, &UnresolvedTilesetError{Layer: i, Label: rl.DefaultTileset}
		}
		return &TileLayerDefinition{
			LayerBase:      base,
			ExportMode:     rl.ExportMode,
			ArrayMode:      rl.ArrayMode,
			DefaultTileset: ts,
		}, nil
	case KindGrid:
		legend := make(map[string]string, len(rl.Legend))
		for code, label := range rl.Legend {
			legend[code] = label
		}
		return &GridLayerDefinition{LayerBase: base, ArrayMode: rl.ArrayMode, Legend: legend}, nil
	case KindEntity:
		return &EntityLayerDefinition{
			LayerBase:    base,
			RequiredTags: rl.RequiredTags,
			ExcludedTags: rl.ExcludedTags,
		}, nil
	case KindDecal:
		return &DecalLayerDefinition{
			LayerBase:            base,
			Folder:               rl.Folder,
			IncludeImageSequence: rl.IncludeImageSequence,
			Scaleable:            rl.Scaleable,
			Rotatable:            rl.Rotatable,
			Values:               rl.Values,
		}, nil
	}
	return nil, fmt.Errorf("layer %d: %w %v", i, ErrUnknownLayerKind, kind)
}

// Tileset looks up a tileset by label.
func (p *Project) Tileset(label string) (*Tileset, bool) {
	ts, ok := p.tilesetsByLabel[label]
	return ts, ok
}

// Layer looks up a layer definition by export id.
func (p *Project) Layer(exportID string) (LayerDefinition, bool) {
	def, ok := p.layersByID[exportID]
	return def, ok
}
