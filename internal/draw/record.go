package draw

import "image"

// OpKind identifies a recorded drawing primitive.
type OpKind int

const (
	OpClear OpKind = iota
	OpFillRect
	OpFillPolygon
	OpStrokePolygon
	OpFillCircle
	OpImage
)

// Op is one recorded drawing call with its geometry already in surface space.
type Op struct {
	Kind   OpKind
	Points []Point // Polygon vertices, or the rectangle/image corners
	Center Point   // Circle center
	Radius float64
	Color  Color
	Image  image.Image
}

// Recorder is a headless Surface that records every call. It backs servers
// that need a render pass without a display, and tests.
type Recorder struct {
	Ops        []Op
	transforms transformStack
}

// Compile-time check that Recorder implements Surface.
var _ Surface = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{transforms: newTransformStack()}
}

// Reset drops recorded ops and the transform stack.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.transforms.reset()
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Depth returns the number of unmatched Push calls.
func (r *Recorder) Depth() int {
	return len(r.transforms.saved)
}

func (r *Recorder) apply(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = r.transforms.current.Apply(p)
	}
	return out
}

func rectPoints(x, y, w, h float64) []Point {
	return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

func (r *Recorder) Clear(c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Points: r.apply(rectPoints(x, y, w, h)), Color: c})
}

func (r *Recorder) FillPolygon(points []Point, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: r.apply(points), Color: c})
}

func (r *Recorder) StrokePolygon(points []Point, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolygon, Points: r.apply(points), Color: c})
}

func (r *Recorder) FillCircle(x, y, radius float64, c Color) {
	center := r.transforms.current.Apply(Point{X: x, Y: y})
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, Center: center, Radius: radius, Color: c})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpImage, Points: r.apply(rectPoints(x, y, w, h)), Image: img})
}

func (r *Recorder) Push(x, y, angle float64) {
	r.transforms.push(x, y, angle)
}

func (r *Recorder) Pop() {
	r.transforms.pop()
}
