package particle

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravwell/internal/render"
	"github.com/san-kum/gravwell/internal/vecmath"
)

// Hue is the particle's display hue in degrees.
func (p *Particle) Hue() float64 {
	return math.Mod(p.Speed()*60+float64(p.Age)*0.3, 360)
}

// lightness pulses once per Life frames.
func (p *Particle) lightness() float64 {
	if p.Life <= 0 {
		return 0.6
	}
	phase := 2 * math.Pi * float64(p.Age%p.Life) / float64(p.Life)
	return 0.6 + 0.1*math.Sin(phase)
}

// Draw paints the trail (oldest to newest) and the projected dot. It does
// not modify the particle.
func (p *Particle) Draw(s render.Surface, showTrails bool) {
	b := s.Size()
	speed := p.Speed()
	r, g, bl := colorful.Hsl(p.Hue(), 0.8, p.lightness()).Clamped().RGB255()

	if showTrails && len(p.Trail) > 1 {
		pts := make([]vecmath.Vec2, len(p.Trail))
		for i, t := range p.Trail {
			pts[i] = vecmath.Project(t, b)
		}
		s.StrokePolyline(pts, render.Stroke{
			Color: render.RGBA(r, g, bl, math.Min(0.8, 0.2+speed*0.1)),
			Width: math.Min(3, 0.5+speed*0.3),
			Cap:   render.CapRound,
			Join:  render.JoinRound,
		})
	}

	depth := vecmath.DepthFactor(p.Position.Z)
	radius := p.cfg.Size * (0.3 + 0.7*depth)
	s.FillCircle(vecmath.Project(p.Position, b), radius, render.RGBA(r, g, bl, 0.3+0.7*depth))
}
