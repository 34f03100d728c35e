package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// DegToRad converts editor degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
