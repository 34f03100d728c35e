package levels

import (
	"errors"
	"fmt"
)

var (
	ErrUnresolvedTileset     = errors.New("levels: unresolved tileset")
	ErrUnresolvedLayer       = errors.New("levels: unresolved layer definition")
	ErrUnknownLayerKind      = errors.New("levels: unknown layer kind")
	ErrDuplicateTileset      = errors.New("levels: duplicate tileset label")
	ErrDuplicateExportID     = errors.New("levels: duplicate layer export id")
	ErrDuplicateLayerName    = errors.New("levels: duplicate layer name")
	ErrUnsupportedExportMode = errors.New("levels: unsupported tile export mode")
	ErrInvalidGridSize       = errors.New("levels: invalid grid size")
)

// UnresolvedTilesetError is returned when a tile layer names a tileset label
// the project does not define.
type UnresolvedTilesetError struct {
	Layer int
	Label string
}

func (e *UnresolvedTilesetError) Error() string {
	return fmt.Sprintf("levels: layer %d: tileset %q not found", e.Layer, e.Label)
}

func (e *UnresolvedTilesetError) Unwrap() error {
	return ErrUnresolvedTileset
}

// UnresolvedLayerError is returned when a level layer's _eid matches no
// project layer definition.
type UnresolvedLayerError struct {
	Index    int
	ExportID string
}

func (e *UnresolvedLayerError) Error() string {
	return fmt.Sprintf("levels: layer %d: no layer definition with export id %q", e.Index, e.ExportID)
}

func (e *UnresolvedLayerError) Unwrap() error {
	return ErrUnresolvedLayer
}

// UnsupportedExportModeError is returned for tile layers exported as tileset
// coordinates rather than tile indices.
type UnsupportedExportModeError struct {
	Layer int
	Mode  int
}

func (e *UnsupportedExportModeError) Error() string {
	return fmt.Sprintf("levels: layer %d: tile export mode %d is not supported, export tile indices", e.Layer, e.Mode)
}

func (e *UnsupportedExportModeError) Unwrap() error {
	return ErrUnsupportedExportMode
}
