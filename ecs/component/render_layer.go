package component

// RenderLayer is used to sort draw order deterministically. Level layer
// scopes use the layer's index in the level file.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]("render_layer")
