// Package draw provides the drawing surface used by game entities and two
// implementations of it: a terminal half-block Canvas and a Recorder.
package draw

import (
	"image"
	"math"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Color is an RGB color with an alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Surface is the set of drawing primitives a renderer exposes to the game.
// Coordinates are logical units, transformed by the current Push stack.
type Surface interface {
	// Clear paints the whole surface with c (a translucent c leaves trails).
	Clear(c Color)
	FillRect(x, y, w, h float64, c Color)
	FillPolygon(points []Point, c Color)
	StrokePolygon(points []Point, c Color)
	FillCircle(x, y, r float64, c Color)
	// DrawImage blits img into the rectangle (x, y, w, h).
	DrawImage(img image.Image, x, y, w, h float64)
	// Push translates to (x, y) and rotates by angle, relative to the current transform.
	Push(x, y, angle float64)
	// Pop restores the transform saved by the matching Push.
	Pop()
}

// Transform is a rotation followed by a translation.
type Transform struct {
	X, Y     float64
	Cos, Sin float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{Cos: 1}

// Apply maps a local point into the parent space.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.X + p.X*t.Cos - p.Y*t.Sin,
		Y: t.Y + p.X*t.Sin + p.Y*t.Cos,
	}
}

// Then composes t with a child translation/rotation expressed in t's local space.
func (t Transform) Then(x, y, angle float64) Transform {
	origin := t.Apply(Point{X: x, Y: y})
	s, c := math.Sincos(angle)
	return Transform{
		X:   origin.X,
		Y:   origin.Y,
		Cos: t.Cos*c - t.Sin*s,
		Sin: t.Sin*c + t.Cos*s,
	}
}

// transformStack is shared by Surface implementations to track Push/Pop.
type transformStack struct {
	current Transform
	saved   []Transform
}

func newTransformStack() transformStack {
	return transformStack{current: Identity}
}

func (s *transformStack) push(x, y, angle float64) {
	s.saved = append(s.saved, s.current)
	s.current = s.current.Then(x, y, angle)
}

func (s *transformStack) pop() {
	if len(s.saved) == 0 {
		s.current = Identity
		return
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

func (s *transformStack) reset() {
	s.current = Identity
	s.saved = s.saved[:0]
}

// CirclePoints approximates a circle with n vertices.
func CirclePoints(x, y, r float64, n int) []Point {
	if n < 3 {
		n = 3
	}
	points := make([]Point, n)
	for i := range points {
		s, c := math.Sincos(float64(i) * 2 * math.Pi / float64(n))
		points[i] = Point{X: x + c*r, Y: y + s*r}
	}
	return points
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
