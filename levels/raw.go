package levels

import "github.com/milk9111/ogmo/common"

// RawProject mirrors the editor's project file.
type RawProject struct {
	Name        string               `json:"name"`
	LevelValues []ValueDefinition    `json:"levelValues,omitempty"`
	Tilesets    []RawTileset         `json:"tilesets"`
	Layers      []RawLayerDefinition `json:"layers"`
}

type RawTileset struct {
	Label           string `json:"label"`
	Path            string `json:"path"`
	TileWidth       int    `json:"tileWidth"`
	TileHeight      int    `json:"tileHeight"`
	TileSeparationX int    `json:"tileSeparationX"`
	TileSeparationY int    `json:"tileSeparationY"`
	TileMarginX     int    `json:"tileMarginX,omitempty"`
	TileMarginY     int    `json:"tileMarginY,omitempty"`
}

// RawLayerDefinition holds the union of every layer kind's fields; which
// ones matter depends on Definition.
type RawLayerDefinition struct {
	Definition string       `json:"definition"`
	Name       string       `json:"name"`
	GridSize   common.Point `json:"gridSize"`
	ExportID   string       `json:"exportID"`

	// tile
	ExportMode     int    `json:"exportMode,omitempty"`
	ArrayMode      int    `json:"arrayMode,omitempty"`
	DefaultTileset string `json:"defaultTileset,omitempty"`

	// grid
	Legend map[string]string `json:"legend,omitempty"`

	// entity
	RequiredTags []string `json:"requiredTags,omitempty"`
	ExcludedTags []string `json:"excludedTags,omitempty"`

	// decal
	Folder               string            `json:"folder,omitempty"`
	IncludeImageSequence bool              `json:"includeImageSequence,omitempty"`
	Scaleable            bool              `json:"scaleable,omitempty"`
	Rotatable            bool              `json:"rotatable,omitempty"`
	Values               []ValueDefinition `json:"values,omitempty"`
}

// ValueDefinition is one entry of a custom value schema. The loader only
// reads the name and definition; the rest is kept for callers.
type ValueDefinition map[string]any

func (v ValueDefinition) Name() string {
	s, _ := v["name"].(string)
	return s
}

func (v ValueDefinition) Definition() string {
	s, _ := v["definition"].(string)
	return s
}

// RawLevel mirrors the editor's level file.
type RawLevel struct {
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	OffsetX int             `json:"offsetX"`
	OffsetY int             `json:"offsetY"`
	Values  map[string]any  `json:"values,omitempty"`
	Layers  []RawLevelLayer `json:"layers"`
}

type RawLevelLayer struct {
	Name           string `json:"name"`
	ExportID       string `json:"_eid"`
	OffsetX        int    `json:"offsetX"`
	OffsetY        int    `json:"offsetY"`
	GridCellWidth  int    `json:"gridCellWidth"`
	GridCellHeight int    `json:"gridCellHeight"`
	GridCellsX     int    `json:"gridCellsX"`
	GridCellsY     int    `json:"gridCellsY"`
	ArrayMode      int    `json:"arrayMode,omitempty"`

	// tile
	Tileset      string    `json:"tileset,omitempty"`
	ExportMode   int       `json:"exportMode,omitempty"`
	Data         []int     `json:"data,omitempty"`
	Data2D       [][]int   `json:"data2D,omitempty"`
	DataCoords   [][]int   `json:"dataCoords,omitempty"`
	DataCoords2D [][][]int `json:"dataCoords2D,omitempty"`

	// grid
	Grid   []string   `json:"grid,omitempty"`
	Grid2D [][]string `json:"grid2D,omitempty"`

	// entity
	Entities []EntityPlacement `json:"entities,omitempty"`

	// decal
	Folder string           `json:"folder,omitempty"`
	Decals []DecalPlacement `json:"decals,omitempty"`
}

// EntityPlacement is one entity as placed in the editor. Rotation is in
// degrees.
type EntityPlacement struct {
	Name     string         `json:"name"`
	ID       int            `json:"id"`
	ExportID string         `json:"_eid"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Width    *float64       `json:"width,omitempty"`
	Height   *float64       `json:"height,omitempty"`
	OriginX  *float64       `json:"originX,omitempty"`
	OriginY  *float64       `json:"originY,omitempty"`
	Rotation *float64       `json:"rotation,omitempty"`
	FlippedX bool           `json:"flippedX,omitempty"`
	FlippedY bool           `json:"flippedY,omitempty"`
	Nodes    []common.Vec   `json:"nodes,omitempty"`
	Values   map[string]any `json:"values,omitempty"`
}

// DecalPlacement is one decal as placed in the editor. Rotation is already
// in radians.
type DecalPlacement struct {
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	ScaleX   *float64       `json:"scaleX,omitempty"`
	ScaleY   *float64       `json:"scaleY,omitempty"`
	Rotation *float64       `json:"rotation,omitempty"`
	Texture  string         `json:"texture"`
	Values   map[string]any `json:"values,omitempty"`
}

// Scale returns the decal scale, defaulting each axis to 1.
func (d DecalPlacement) Scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if d.ScaleX != nil {
		sx = *d.ScaleX
	}
	if d.ScaleY != nil {
		sy = *d.ScaleY
	}
	return sx, sy
}
