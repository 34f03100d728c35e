package component

// Input stores per-frame viewer input for an entity.
type Input struct {
	PanX        float64
	PanY        float64
	ZoomIn      bool
	ZoomOut     bool
	Reload      bool
	ToggleDebug bool
}

var InputComponent = NewComponent[Input]("input")
