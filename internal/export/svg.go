package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravwell/internal/render"
	"github.com/san-kum/gravwell/internal/vecmath"
	"github.com/san-kum/gravwell/internal/viz"
)

// SVG is a render.Surface that records a frame as SVG elements. An opaque
// full clear discards everything drawn before it.
type SVG struct {
	bounds    vecmath.Bounds
	body      strings.Builder
	smoothing bool
}

func NewSVG(b vecmath.Bounds) *SVG { return &SVG{bounds: b} }

func (s *SVG) Ready() bool               { return s.bounds.Validate() == nil }
func (s *SVG) Size() vecmath.Bounds      { return s.bounds }
func (s *SVG) SetSmoothing(enabled bool) { s.smoothing = enabled }

func (s *SVG) FillRect(x, y, w, h float64, c color.NRGBA) {
	if c.A == 255 && x <= 0 && y <= 0 && x+w >= s.bounds.Width && y+h >= s.bounds.Height {
		s.body.Reset()
	}
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n", x, y, w, h, fill(c))
}

func (s *SVG) FillCircle(center vecmath.Vec2, r float64, c color.NRGBA) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", center.X, center.Y, r, fill(c))
}

func (s *SVG) StrokeCircle(center vecmath.Vec2, r float64, st render.Stroke) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" %s/>`+"\n", center.X, center.Y, r, stroke(st))
}

func (s *SVG) StrokePolyline(points []vecmath.Vec2, st render.Stroke) {
	if len(points) < 2 {
		return
	}
	s.body.WriteString(`<polyline fill="none" points="`)
	for i, p := range points {
		if i > 0 {
			s.body.WriteByte(' ')
		}
		fmt.Fprintf(&s.body, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&s.body, `" %s/>`+"\n", stroke(st))
}

// WriteTo writes the complete document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func (s *SVG) String() string {
	rendering := "optimizeSpeed"
	if s.smoothing {
		rendering = "geometricPrecision"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="%s">
`, s.bounds.Width, s.bounds.Height, s.bounds.Width, s.bounds.Height, rendering)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func hex(c color.NRGBA) string {
	cf, _ := colorful.MakeColor(color.NRGBA{c.R, c.G, c.B, 255})
	return cf.Hex()
}

func fill(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf(`fill="%s"`, hex(c))
	}
	return fmt.Sprintf(`fill="%s" fill-opacity="%.3f"`, hex(c), render.Alpha(c))
}

var (
	capNames  = map[render.LineCap]string{render.CapButt: "butt", render.CapRound: "round", render.CapSquare: "square"}
	joinNames = map[render.LineJoin]string{render.JoinMiter: "miter", render.JoinRound: "round", render.JoinBevel: "bevel"}
)

func stroke(st render.Stroke) string {
	return fmt.Sprintf(`stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f" stroke-linecap="%s" stroke-linejoin="%s"`,
		hex(st.Color), render.Alpha(st.Color), st.Width, capNames[st.Cap], joinNames[st.Join])
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot in
// its cell color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			c := canvas.Colors[y/4][x/2]
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, hex(c))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// SeriesToSVG plots values left to right as a single path.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
