package component

// Camera is the view into the world. X and Y are the world point shown at
// the centre of the screen; the camera eases towards TargetX, TargetY.
type Camera struct {
	X, Y             float64
	TargetX, TargetY float64
	Zoom             float64
	MinZoom, MaxZoom float64
	// Smoothness is the share of the remaining distance covered per update.
	// Zero snaps to the target.
	Smoothness float64
	PanSpeed   float64
	ZoomStep   float64
	// ClampToLevel keeps the target inside the loaded level bounds.
	ClampToLevel bool
}

// TopLeft returns the world point at the top-left corner of a screen of
// size sw x sh.
func (c *Camera) TopLeft(sw, sh float64) (float64, float64) {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return c.X - sw/2/zoom, c.Y - sh/2/zoom
}

var CameraComponent = NewComponent[Camera]("camera")
