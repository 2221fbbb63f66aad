package viz

import (
	"image/color"
	"math"

	"github.com/san-kum/gravwell/internal/render"
	"github.com/san-kum/gravwell/internal/vecmath"
)

// litThreshold is the intensity at which a dot shows on the canvas.
const litThreshold = 0.15

// Surface rasterises engine drawing onto a Braille canvas. Every dot keeps
// an intensity so translucent clears fade old frames out gradually.
type Surface struct {
	canvas    *Canvas
	bounds    vecmath.Bounds
	intensity []float64
	colors    []color.NRGBA
	smoothing bool
	closed    bool
}

// NewSurface maps simulation bounds b onto a cols x rows cell canvas.
func NewSurface(cols, rows int, b vecmath.Bounds) *Surface {
	s := &Surface{bounds: b}
	s.Resize(cols, rows)
	return s
}

// Resize discards the fade buffer.
func (s *Surface) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	s.canvas = NewCanvas(cols, rows)
	n := cols * 2 * rows * 4
	s.intensity = make([]float64, n)
	s.colors = make([]color.NRGBA, n)
}

func (s *Surface) SetBounds(b vecmath.Bounds) { s.bounds = b }
func (s *Surface) Close()                     { s.closed = true }

func (s *Surface) Ready() bool {
	return !s.closed && s.canvas.Width > 0 && s.canvas.Height > 0 && s.bounds.Validate() == nil
}

func (s *Surface) Size() vecmath.Bounds      { return s.bounds }
func (s *Surface) SetSmoothing(enabled bool) { s.smoothing = enabled }

// Canvas composes the fade buffer into Braille cells.
func (s *Surface) Canvas() *Canvas {
	c := s.canvas
	c.Clear()
	w := c.SubWidth()
	best := make([]float64, c.Width*c.Height)
	for i, v := range s.intensity {
		if v < litThreshold {
			continue
		}
		x, y := i%w, i/w
		c.Set(x, y)
		cell := (y/4)*c.Width + x/2
		if v > best[cell] {
			best[cell] = v
			c.Colors[y/4][x/2] = s.colors[i]
		}
	}
	return c
}

// CellToSim maps a terminal cell to the simulation point at its center.
func (s *Surface) CellToSim(col, row int) vecmath.Vec2 {
	return vecmath.Vec2{
		X: (float64(col) + 0.5) / float64(s.canvas.Width) * s.bounds.Width,
		Y: (float64(row) + 0.5) / float64(s.canvas.Height) * s.bounds.Height,
	}
}

func (s *Surface) scale() (sx, sy float64) {
	return float64(s.canvas.SubWidth()) / s.bounds.Width, float64(s.canvas.SubHeight()) / s.bounds.Height
}

func (s *Surface) toDots(p vecmath.Vec2) (float64, float64) {
	sx, sy := s.scale()
	return p.X * sx, p.Y * sy
}

func (s *Surface) plot(x, y int, c color.NRGBA, alpha float64) {
	w, h := s.canvas.SubWidth(), s.canvas.SubHeight()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	i := y*w + x
	if alpha >= s.intensity[i] {
		s.intensity[i] = alpha
		s.colors[i] = c
	}
}

// FillRect blends the region toward c. Dark fills fade the dots in it.
func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	x0, y0 := s.toDots(vecmath.Vec2{X: x, Y: y})
	x1, y1 := s.toDots(vecmath.Vec2{X: x + w, Y: y + h})
	a := render.Alpha(c)
	lum := luminance(c)
	sw := s.canvas.SubWidth()
	for py := max(int(math.Floor(y0)), 0); py < min(int(math.Ceil(y1)), s.canvas.SubHeight()); py++ {
		for px := max(int(math.Floor(x0)), 0); px < min(int(math.Ceil(x1)), sw); px++ {
			i := py*sw + px
			s.intensity[i] = s.intensity[i]*(1-a) + lum*a
			if lum > 0 {
				s.colors[i] = c
			}
		}
	}
}

func (s *Surface) FillCircle(center vecmath.Vec2, radius float64, c color.NRGBA) {
	cx, cy := s.toDots(center)
	sx, sy := s.scale()
	r := radius * (sx + sy) / 2
	a := render.Alpha(c)

	s.plot(int(cx), int(cy), c, a)
	reach := r
	if s.smoothing {
		reach++
	}
	for py := int(math.Floor(cy - reach)); py <= int(math.Ceil(cy+reach)); py++ {
		for px := int(math.Floor(cx - reach)); px <= int(math.Ceil(cx+reach)); px++ {
			d := math.Hypot(float64(px)+0.5-cx, float64(py)+0.5-cy)
			switch {
			case d <= r:
				s.plot(px, py, c, a)
			case s.smoothing && d < r+1:
				s.plot(px, py, c, a*(r+1-d))
			}
		}
	}
}

// StrokeCircle draws the outline as a closed polygon. Stroke width is
// below dot resolution and is ignored.
func (s *Surface) StrokeCircle(center vecmath.Vec2, radius float64, st render.Stroke) {
	cx, cy := s.toDots(center)
	sx, sy := s.scale()
	n := max(8, int(math.Ceil(2*math.Pi*radius*(sx+sy)/2)))
	a := render.Alpha(st.Color)
	px, py := int(math.Round(cx+radius*sx)), int(math.Round(cy))
	for i := 1; i <= n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		x, y := int(math.Round(cx+radius*sx*math.Cos(t))), int(math.Round(cy+radius*sy*math.Sin(t)))
		bresenham(px, py, x, y, func(x, y int) { s.plot(x, y, st.Color, a) })
		px, py = x, y
	}
}

func (s *Surface) StrokePolyline(points []vecmath.Vec2, st render.Stroke) {
	if len(points) < 2 {
		return
	}
	a := render.Alpha(st.Color)
	x0, y0 := s.toDots(points[0])
	for _, p := range points[1:] {
		x1, y1 := s.toDots(p)
		bresenham(int(x0), int(y0), int(x1), int(y1), func(x, y int) { s.plot(x, y, st.Color, a) })
		x0, y0 = x1, y1
	}
}

func luminance(c color.NRGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
