// Package render defines the drawing sink the simulation paints into.
//
// Hosts provide a [Surface]: the terminal canvas in internal/viz, the raylib
// window in internal/gui and the SVG writer in internal/export. The engine
// never reads pixels back; it only issues draw calls.
package render

import (
	"image/color"

	"github.com/san-kum/gravwell/internal/vecmath"
)

type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Stroke describes how outlines and polylines are drawn.
type Stroke struct {
	Color color.NRGBA
	Width float64
	Cap   LineCap
	Join  LineJoin
}

// Surface is a 2D drawing sink in simulation units.
type Surface interface {
	// Ready reports whether the surface can accept draw calls.
	Ready() bool
	Size() vecmath.Bounds
	SetSmoothing(enabled bool)
	// FillRect paints a rectangle. Alpha below 255 blends over what is
	// already there.
	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(center vecmath.Vec2, radius float64, c color.NRGBA)
	StrokeCircle(center vecmath.Vec2, radius float64, s Stroke)
	StrokePolyline(points []vecmath.Vec2, s Stroke)
}

// RGBA builds a color from 8-bit channels and an alpha in [0, 1].
func RGBA(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(vecmath.Clamp(alpha, 0, 1)*255 + 0.5)}
}

// Alpha returns the color's alpha in [0, 1].
func Alpha(c color.NRGBA) float64 { return float64(c.A) / 255 }
