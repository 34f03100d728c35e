package component

import "github.com/milk9111/ogmo/common"

// Placement keeps the editor metadata of a spawned level entity.
type Placement struct {
	Name     string
	ID       int
	ExportID string
	Width    float64
	Height   float64
	OriginX  float64
	OriginY  float64
	FlipX    bool
	FlipY    bool
	Nodes    []common.Vec
}

var PlacementComponent = NewComponent[Placement]("placement")

// Properties holds custom values from the editor, possibly rewritten by a
// spawn script.
type Properties struct {
	Values map[string]any
}

var PropertiesComponent = NewComponent[Properties]("properties")
