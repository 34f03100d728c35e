package component

import "github.com/milk9111/ogmo/common"

// Shape is a local-space polygon. Placeholder is set until the owner knows
// its real size.
type Shape struct {
	Points      []common.Vec
	Placeholder bool
}

// Size returns the bounding box extent of the polygon.
func (s Shape) Size() (float64, float64) {
	if len(s.Points) == 0 {
		return 0, 0
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}

var ShapeComponent = NewComponent[Shape]("shape")
