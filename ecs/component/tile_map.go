package component

import "github.com/milk9111/ogmo/ecs/render"

type TileMap struct {
	Map *render.TileMap
}

var TileMapComponent = NewComponent[TileMap]("tile_map")
