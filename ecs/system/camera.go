package system

import (
	"github.com/milk9111/ogmo/common"
	"github.com/milk9111/ogmo/ecs"
	"github.com/milk9111/ogmo/ecs/component"
)

// CameraSystem moves cameras from their Input and eases them towards the
// target.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CameraComponent.Kind(), func(e ecs.Entity, cam *component.Camera) {
		if cam.Zoom <= 0 {
			cam.Zoom = 1
		}
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			applyInput(cam, input)
		}
		if cam.ClampToLevel {
			clampTarget(w, cam)
		}

		t := cam.Smoothness
		if t <= 0 || t > 1 {
			t = 1
		}
		cam.X = common.Lerp(cam.X, cam.TargetX, t)
		cam.Y = common.Lerp(cam.Y, cam.TargetY, t)
	})
}

func applyInput(cam *component.Camera, input *component.Input) {
	step := cam.PanSpeed / cam.Zoom
	cam.TargetX += input.PanX * step
	cam.TargetY += input.PanY * step

	zoomStep := cam.ZoomStep
	if zoomStep <= 1 {
		return
	}
	if input.ZoomIn {
		cam.Zoom *= zoomStep
	}
	if input.ZoomOut {
		cam.Zoom /= zoomStep
	}
	if cam.MaxZoom > 0 {
		cam.Zoom = min(cam.Zoom, cam.MaxZoom)
	}
	if cam.MinZoom > 0 {
		cam.Zoom = max(cam.Zoom, cam.MinZoom)
	}
}

// clampTarget keeps the target inside the first loaded level.
func clampTarget(w *ecs.World, cam *component.Camera) {
	root, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, _ := ecs.Get(w, root, component.LevelBoundsComponent.Kind())
	minX, minY := 0.0, 0.0
	if t, ok := ecs.Get(w, root, component.TransformComponent.Kind()); ok {
		minX, minY = t.X, t.Y
	}
	cam.TargetX = max(minX, min(cam.TargetX, minX+bounds.Width))
	cam.TargetY = max(minY, min(cam.TargetY, minY+bounds.Height))
}
