// Package grid provides a dense, fixed-size 2D container used for tile
// indices and per-cell legend codes.
//
// Cells are addressed by (x, y): x is the position within a scan line and
// must be in [0, Size().X); y selects the scan line and must be in
// [0, Size().Y). Reads outside that range return the grid's default value.
// Writes outside it fail with an *OutOfBoundsError.
package grid

import (
	"errors"
	"fmt"
	"iter"

	"github.com/milk9111/ogmo/common"
)

// ErrOutOfBounds is matched by every *OutOfBoundsError.
var ErrOutOfBounds = errors.New("grid: out of bounds")

// OutOfBoundsError reports a write outside the grid's extent.
type OutOfBoundsError struct {
	Size common.Point
	X, Y int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("grid: set (%d,%d) out of bounds for size %dx%d", e.X, e.Y, e.Size.X, e.Size.Y)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Cell is one (x, y, value) triple yielded by Contents.
type Cell[T any] struct {
	X     int
	Y     int
	Value T
}

// Grid is a dense width x height store. The zero value is an empty 0x0 grid.
type Grid[T any] struct {
	size  common.Point
	def   T
	cells []T
}

// New allocates a width x height grid with every cell set to def.
// Negative dimensions are treated as zero.
func New[T any](width, height int, def T) *Grid[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid[T]{
		size:  common.Point{X: width, Y: height},
		def:   def,
		cells: make([]T, width*height),
	}
	g.Fill(def)
	return g
}

// NewFromExtent is New with the extent given as a point.
func NewFromExtent[T any](ext common.Point, def T) *Grid[T] {
	return New(ext.X, ext.Y, def)
}

func (g *Grid[T]) Size() common.Point {
	if g == nil {
		return common.Point{}
	}
	return g.size
}

func (g *Grid[T]) Default() T {
	if g == nil {
		var zero T
		return zero
	}
	return g.def
}

// InBounds reports whether (x, y) addresses a stored cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	if g == nil {
		return false
	}
	return x >= 0 && x < g.size.X && y >= 0 && y < g.size.Y
}

// Get returns the value at (x, y), or the default value when (x, y) is
// outside the grid.
func (g *Grid[T]) Get(x, y int) T {
	if !g.InBounds(x, y) {
		return g.Default()
	}
	return g.cells[y*g.size.X+x]
}

// Set writes v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) error {
	if !g.InBounds(x, y) {
		return &OutOfBoundsError{Size: g.Size(), X: x, Y: y}
	}
	g.cells[y*g.size.X+x] = v
	return nil
}

// SetData places flat values scan line by scan line, wrapping to the next
// line after Size().X values. Fewer values than cells leaves the trailing
// cells untouched; extra values fail with the first out-of-bounds write.
func (g *Grid[T]) SetData(flat []T) error {
	if g == nil {
		if len(flat) == 0 {
			return nil
		}
		return &OutOfBoundsError{}
	}
	x, y := 0, 0
	for _, v := range flat {
		if x >= g.size.X {
			x = 0
			y++
		}
		if err := g.Set(x, y, v); err != nil {
			return err
		}
		x++
	}
	return nil
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	if g == nil {
		return
	}
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Values returns a row-major copy of the cells; SetData(Values()) is a no-op.
func (g *Grid[T]) Values() []T {
	if g == nil {
		return nil
	}
	out := make([]T, len(g.cells))
	copy(out, g.cells)
	return out
}

// Contents yields every cell, scan line by scan line. Each call starts a
// fresh traversal.
func (g *Grid[T]) Contents() iter.Seq[Cell[T]] {
	return func(yield func(Cell[T]) bool) {
		if g == nil {
			return
		}
		for y := 0; y < g.size.Y; y++ {
			for x := 0; x < g.size.X; x++ {
				if !yield(Cell[T]{X: x, Y: y, Value: g.cells[y*g.size.X+x]}) {
					return
				}
			}
		}
	}
}
