// Package physics provides collision detection, distance and wraparound utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap reports whether two circles overlap.
// Circles that exactly touch (distance == r1+r2) do not overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Wrap folds v into [0, bound). A non-positive bound leaves v unchanged.
func Wrap(v, bound float64) float64 {
	if bound <= 0 {
		return v
	}
	v = math.Mod(v, bound)
	if v < 0 {
		v += bound
	}
	// -tiny + bound can round up to bound itself
	if v >= bound {
		v = 0
	}
	return v
}

// WrapWithMargin folds v into [-margin, bound+margin), so an object of radius
// margin fully leaves one edge before reappearing on the opposite one.
func WrapWithMargin(v, bound, margin float64) float64 {
	span := bound + 2*margin
	if span <= 0 {
		return v
	}
	return Wrap(v+margin, span) - margin
}

// OutOfBounds reports whether (x, y) lies outside the closed rectangle [0,w]x[0,h].
func OutOfBounds(x, y, w, h float64) bool {
	return x < 0 || x > w || y < 0 || y > h
}
