package well

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravwell/internal/render"
)

// MinVisibleAlpha is the opacity below which a well is not drawn.
const MinVisibleAlpha = 0.1

var (
	attractColor = mustHex("#6496ff")
	repelColor   = mustHex("#ff6464")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Radius is the ring radius for the current age.
func (w *Well) Radius() float64 {
	return 15 + w.Strength*0.1 + 5*math.Sin(float64(w.Age)*0.08)
}

// Draw paints a pulsing ring and a center dot faded by Alpha.
func (w *Well) Draw(s render.Surface) {
	alpha := w.Alpha()
	if alpha < MinVisibleAlpha {
		return
	}
	c := attractColor
	if w.Repulsive {
		c = repelColor
	}
	r, g, b := c.RGB255()
	s.StrokeCircle(w.Position, w.Radius(), render.Stroke{
		Color: render.RGBA(r, g, b, alpha*0.6),
		Width: 2,
	})
	s.FillCircle(w.Position, 4, render.RGBA(r, g, b, alpha))
}
