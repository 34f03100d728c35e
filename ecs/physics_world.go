package ecs

import (
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ogmo/levels"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeHazard
)

// ColliderKind classifies a static collider built from a grid layer.
type ColliderKind int

const (
	ColliderNone ColliderKind = iota
	ColliderSolid
	ColliderHazard
)

// PhysicsOptions selects which grid legend labels become colliders.
type PhysicsOptions struct {
	Gravity      float64
	SolidLabels  []string
	HazardLabels []string
}

// PhysicsWorld owns the Chipmunk space and the static shapes built from a
// level's grid layers.
type PhysicsWorld struct {
	space *cp.Space
	kinds map[*cp.Shape]ColliderKind

	solids  int
	hazards int
}

// NewPhysicsWorld builds merged static boxes for every grid layer cell whose
// legend label is listed in opts. Labels default to "solid" and "hazard".
func NewPhysicsWorld(lvl *levels.Level, opts PhysicsOptions) *PhysicsWorld {
	if len(opts.SolidLabels) == 0 {
		opts.SolidLabels = []string{"solid"}
	}
	if len(opts.HazardLabels) == 0 {
		opts.HazardLabels = []string{"hazard"}
	}

	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: opts.Gravity})

	pw := &PhysicsWorld{
		space: space,
		kinds: make(map[*cp.Shape]ColliderKind),
	}
	if lvl != nil {
		for _, layer := range lvl.GridLayers() {
			pw.processGridLayer(lvl, layer, opts)
		}
	}
	space.ReindexStatic()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

// Solids returns the number of merged solid boxes.
func (pw *PhysicsWorld) Solids() int {
	return pw.solids
}

// Hazards returns the number of merged hazard boxes.
func (pw *PhysicsWorld) Hazards() int {
	return pw.hazards
}

// ColliderAt returns the kind of static collider covering the world point.
func (pw *PhysicsWorld) ColliderAt(x, y float64) ColliderKind {
	if pw == nil || pw.space == nil {
		return ColliderNone
	}
	info := pw.space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return ColliderNone
	}
	return pw.kinds[info.Shape]
}

// KindOf reports the collider kind of a static shape built from the level.
func (pw *PhysicsWorld) KindOf(shape *cp.Shape) ColliderKind {
	if pw == nil || shape == nil {
		return ColliderNone
	}
	return pw.kinds[shape]
}

func (pw *PhysicsWorld) processGridLayer(lvl *levels.Level, layer *levels.GridLayer, opts PhysicsOptions) {
	size := layer.Cells.Size()
	width, height := size.X, size.Y
	if width <= 0 || height <= 0 {
		return
	}

	kindAt := func(x, y int) ColliderKind {
		label, ok := layer.LabelAt(x, y)
		switch {
		case !ok:
			return ColliderNone
		case slices.Contains(opts.SolidLabels, label):
			return ColliderSolid
		case slices.Contains(opts.HazardLabels, label):
			return ColliderHazard
		}
		return ColliderNone
	}

	cellW := float64(layer.Def.GridSize.X)
	cellH := float64(layer.Def.GridSize.Y)
	originX := float64(lvl.Offset.X + layer.Offset.X)
	originY := float64(lvl.Offset.Y + layer.Offset.Y)

	processed := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			kind := kindAt(x, y)
			if kind == ColliderNone {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < width {
				idx2 := y*width + (x + w)
				if processed[idx2] || kindAt(x+w, y) != kind {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*width + xi
					if processed[idx2] || kindAt(xi, y+h) != kind {
						break heightLoop
					}
				}
				h++
			}

			x0 := originX + float64(x)*cellW
			y0 := originY + float64(y)*cellH
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(w)*cellW, T: y0 + float64(h)*cellH}
			shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
			shape.SetFriction(0.8)
			if kind == ColliderHazard {
				shape.SetCollisionType(collisionTypeHazard)
				pw.hazards++
			} else {
				shape.SetCollisionType(collisionTypeSolid)
				pw.solids++
			}
			pw.space.AddShape(shape)
			pw.kinds[shape] = kind

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
}
