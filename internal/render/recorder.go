package render

import (
	"image/color"

	"github.com/san-kum/gravwell/internal/vecmath"
)

type OpKind int

const (
	OpFillRect OpKind = iota
	OpFillCircle
	OpStrokeCircle
	OpStrokePolyline
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill_rect"
	case OpFillCircle:
		return "fill_circle"
	case OpStrokeCircle:
		return "stroke_circle"
	case OpStrokePolyline:
		return "stroke_polyline"
	}
	return "unknown"
}

// Op is one recorded draw call.
type Op struct {
	Kind   OpKind
	Points []vecmath.Vec2
	Rect   [4]float64
	Radius float64
	Color  color.NRGBA
	Width  float64
}

// Recorder is a Surface that keeps every draw call in order.
type Recorder struct {
	Bounds    vecmath.Bounds
	Ops       []Op
	Smoothing bool
	Closed    bool
}

func NewRecorder(b vecmath.Bounds) *Recorder {
	return &Recorder{Bounds: b, Ops: make([]Op, 0, 256)}
}

func (r *Recorder) Ready() bool               { return !r.Closed }
func (r *Recorder) Size() vecmath.Bounds      { return r.Bounds }
func (r *Recorder) SetSmoothing(enabled bool) { r.Smoothing = enabled }
func (r *Recorder) Reset()                    { r.Ops = r.Ops[:0] }

func (r *Recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: [4]float64{x, y, w, h}, Color: c})
}

func (r *Recorder) FillCircle(center vecmath.Vec2, radius float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, Points: []vecmath.Vec2{center}, Radius: radius, Color: c})
}

func (r *Recorder) StrokeCircle(center vecmath.Vec2, radius float64, s Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, Points: []vecmath.Vec2{center}, Radius: radius, Color: s.Color, Width: s.Width})
}

func (r *Recorder) StrokePolyline(points []vecmath.Vec2, s Stroke) {
	pts := make([]vecmath.Vec2, len(points))
	copy(pts, points)
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolyline, Points: pts, Color: s.Color, Width: s.Width})
}

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}
