package common

import "fmt"

// Point is an integer extent or cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Area returns X*Y.
func (p Point) Area() int {
	return p.X * p.Y
}

// Vec is a float position in pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Rect returns the four corners of a w x h rectangle anchored at the origin,
// clockwise from the top-left.
func Rect(w, h float64) []Vec {
	return []Vec{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}
